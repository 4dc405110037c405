// Package integration exercises the coordinator and worker together over
// real loopback TCP connections: discovery, placement, the init
// handshake, and one round of ticking with halo delivery. It replaces
// the teacher's exec.Command-based process harness (test/integration in
// torua) with an in-process harness, since this system's workers and
// coordinator speak a custom binary protocol directly rather than
// shelling out to built binaries.
package integration

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dreamware/distributed-colony/internal/cluster"
	"github.com/dreamware/distributed-colony/internal/config"
	"github.com/dreamware/distributed-colony/internal/coordinator"
	"github.com/dreamware/distributed-colony/internal/logging"
	"github.com/dreamware/distributed-colony/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listenLoopback opens a TCP listener on an OS-assigned port and returns
// it along with the NodeAddress workers/coordinator register under.
func listenLoopback(t *testing.T) (net.Listener, cluster.NodeAddress) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	return ln, cluster.NodeAddress{PrivateIP: "127.0.0.1", PublicIP: "127.0.0.1", InternalPort: port, HTTPPort: port + 1}
}

func TestColonyStartPlacesShardsAndBeginsTicking(t *testing.T) {
	cluster.ResetForTest()
	t.Cleanup(cluster.ResetForTest)

	registry, err := cluster.NewFileRegistry(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const numWorkers = 2
	workers := make([]*worker.Worker, numWorkers)
	for i := 0; i < numWorkers; i++ {
		ln, addr := listenLoopback(t)
		w := worker.New(addr, logging.Nop(), nil)
		workers[i] = w
		go w.Serve(ctx, ln)
		require.NoError(t, registry.RegisterBackend(ctx, addr.InternalAddr(), addr))
	}

	tuning := config.Tuning{WidthInShards: 2, HeightInShards: 1, ShardSide: 10, TickPeriodMS: 5}
	coordSelf := cluster.NodeAddress{PrivateIP: "127.0.0.1", InternalPort: 0}
	coord := coordinator.New(coordSelf, logging.Nop(), registry, tuning, t.TempDir())

	require.NoError(t, coord.Start(ctx))
	assert.True(t, coord.Started())

	topo := coord.Topology()
	require.NotNil(t, topo)
	assert.Len(t, topo.Shards, 2)

	// Round-robin over 2 shards / 2 workers: each worker hosts exactly
	// one shard, and StartTicking has been delivered by the init
	// handshake before coord.Start returns. InitShardTopography is sent
	// from detached goroutines afterwards, so it is not checked here.
	totalHosted := 0
	for _, w := range workers {
		totalHosted += len(w.HostedShards())
		assert.True(t, w.IsTicking(), "StartTicking must have been delivered by the handshake")
	}
	assert.Equal(t, 2, totalHosted)

	// Run one real tick iteration on both workers and confirm progress.
	for _, w := range workers {
		go w.Run(ctx, 5*time.Millisecond)
	}
	require.Eventually(t, func() bool {
		for _, w := range workers {
			for _, cs := range w.HostedShards() {
				cs.Mu.Lock()
				tick := cs.CurrentTick
				cs.Mu.Unlock()
				if tick == 0 {
					return false
				}
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond, "every hosted shard should have ticked at least once")
}

func TestColonyStartFailsWithNoLiveWorkers(t *testing.T) {
	cluster.ResetForTest()
	t.Cleanup(cluster.ResetForTest)

	registry, err := cluster.NewFileRegistry(t.TempDir())
	require.NoError(t, err)

	tuning := config.DefaultTuning(config.ModeLocalhost)
	coord := coordinator.New(cluster.NodeAddress{PrivateIP: "127.0.0.1", InternalPort: 1}, logging.Nop(), registry, tuning, t.TempDir())

	err = coord.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, coord.Started())
}
