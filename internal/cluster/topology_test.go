package cluster

import (
	"testing"

	"github.com/dreamware/distributed-colony/internal/colony"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallIsSetOnce(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	require.False(t, IsInstalled())
	err := Install(&ClusterTopology{CoordinatorHost: NodeAddress{PrivateIP: "10.0.0.1"}})
	require.NoError(t, err)
	require.True(t, IsInstalled())

	err = Install(&ClusterTopology{})
	assert.ErrorIs(t, err, ErrTopologyAlreadyInstalled)
}

func TestGetBeforeInstall(t *testing.T) {
	ResetForTest()
	defer ResetForTest()
	_, err := Get()
	assert.ErrorIs(t, err, ErrTopologyNotInstalled)
}

// TestTwoByTwoPlacement mirrors scenario 1 from the testable properties:
// 2x2 grid of 250-side shards, 2 workers, round-robin row-major
// assignment.
func TestTwoByTwoPlacement(t *testing.T) {
	workerA := NodeAddress{PrivateIP: "A", InternalPort: 9000}
	workerB := NodeAddress{PrivateIP: "B", InternalPort: 9000}

	shards := []colony.Shard{
		{X: 0, Y: 0, Width: 250, Height: 250},
		{X: 250, Y: 0, Width: 250, Height: 250},
		{X: 0, Y: 250, Width: 250, Height: 250},
		{X: 250, Y: 250, Width: 250, Height: 250},
	}
	workers := []NodeAddress{workerA, workerB}
	shardToHost := map[string]NodeAddress{}
	for i, s := range shards {
		shardToHost[s.ID()] = workers[i%len(workers)]
	}

	topo := &ClusterTopology{Shards: shards, ShardToHost: shardToHost, BackendHosts: workers}

	aShards, bShards := 0, 0
	for _, s := range shards {
		host, ok := topo.HostFor(s)
		require.True(t, ok)
		if host.Equal(workerA) {
			aShards++
		} else {
			bShards++
		}
	}
	assert.Equal(t, 2, aShards)
	assert.Equal(t, 2, bShards)

	hostA, _ := topo.HostFor(shards[0])
	assert.True(t, hostA.Equal(workerA))
	hostB, _ := topo.HostFor(shards[1])
	assert.True(t, hostB.Equal(workerB))
}
