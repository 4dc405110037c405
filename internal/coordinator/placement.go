package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/dreamware/distributed-colony/internal/cluster"
	"github.com/dreamware/distributed-colony/internal/colony"
)

// ErrAlreadyStarted is returned by Start when colony-start has already
// run for this process.
var ErrAlreadyStarted = fmt.Errorf("coordinator: colony already started")

// Start runs discovery, placement, and the full init handshake, per
// §4.2-§4.3. It installs the resulting topology exactly once; a second
// call returns ErrAlreadyStarted.
func (c *Coordinator) Start(ctx context.Context) error {
	if c.Started() {
		return ErrAlreadyStarted
	}

	entries, err := c.Registry.DiscoverBackends(ctx)
	if err != nil {
		return fmt.Errorf("coordinator: discover backends: %w", err)
	}

	var candidates []cluster.NodeAddress
	for _, e := range entries {
		if e.Addr.Equal(c.Self) {
			continue
		}
		candidates = append(candidates, e.Addr)
	}

	live := cluster.FilterLive(ctx, candidates, 2*time.Second)
	if len(live) == 0 {
		return fmt.Errorf("coordinator: no live backends discovered")
	}
	c.Log.Infow("discovered live backends", "count", len(live))

	shards := buildShardGrid(c.Tuning.WidthInShards, c.Tuning.HeightInShards, c.Tuning.ShardSide)
	shardToHost := placeRoundRobin(shards, live)

	topo := &cluster.ClusterTopology{
		CoordinatorHost: c.Self,
		BackendHosts:    live,
		ShardToHost:     shardToHost,
		Shards:          shards,
	}
	if err := cluster.Install(topo); err != nil {
		return err
	}
	c.setTopology(topo)
	c.setDimensions(c.Tuning.WidthInShards*c.Tuning.ShardSide, c.Tuning.HeightInShards*c.Tuning.ShardSide)

	fanout := map[string]int{}
	for _, host := range shardToHost {
		fanout[host.InternalAddr()]++
	}
	for addr, n := range fanout {
		c.Log.Infow("shard fan-out", "worker", addr, "shard_count", n)
	}

	if err := c.runInitHandshake(ctx, topo); err != nil {
		return err
	}
	c.markStarted()
	return nil
}

// buildShardGrid emits the colony's shards in row-major order, per §4.2
// step 4-5.
func buildShardGrid(widthInShards, heightInShards, shardSide int) []colony.Shard {
	shards := make([]colony.Shard, 0, widthInShards*heightInShards)
	for gy := 0; gy < heightInShards; gy++ {
		for gx := 0; gx < widthInShards; gx++ {
			shards = append(shards, colony.Shard{
				X: gx * shardSide, Y: gy * shardSide,
				Width: shardSide, Height: shardSide,
			})
		}
	}
	return shards
}

// placeRoundRobin assigns shard_i -> workers[i mod n], deterministic
// given the ordered live-worker list and row-major shard order.
func placeRoundRobin(shards []colony.Shard, workers []cluster.NodeAddress) map[string]cluster.NodeAddress {
	out := make(map[string]cluster.NodeAddress, len(shards))
	for i, s := range shards {
		out[s.ID()] = workers[i%len(workers)]
	}
	return out
}
