package cluster

import (
	"errors"
	"sync"

	"github.com/dreamware/distributed-colony/internal/colony"
)

// ErrTopologyAlreadyInstalled is returned by Install when a topology has
// already been set for this process; the topology is set-once by
// design, and re-installing is a hard invariant violation.
var ErrTopologyAlreadyInstalled = errors.New("cluster: topology already installed")

// ErrTopologyNotInstalled is returned by Get before Install has run.
var ErrTopologyNotInstalled = errors.New("cluster: topology not installed")

// ClusterTopology is immutable after installation: the coordinator host,
// the set of backend hosts, and the shard -> host mapping that placement
// produced. Width/height-in-shards and per-shard dimensions are derived
// from the mapping, since all shards in a topology are identical in
// size.
type ClusterTopology struct {
	CoordinatorHost NodeAddress
	BackendHosts    []NodeAddress
	ShardToHost     map[string]NodeAddress // shard.ID() -> host
	Shards          []colony.Shard
}

// WidthInShards and HeightInShards report the shard-grid dimensions
// implied by the installed shard set (row-major, all shards equal size).
func (t *ClusterTopology) WidthInShards() int {
	return countDistinct(t.Shards, func(s colony.Shard) int { return s.X })
}

func (t *ClusterTopology) HeightInShards() int {
	return countDistinct(t.Shards, func(s colony.Shard) int { return s.Y })
}

func countDistinct(shards []colony.Shard, key func(colony.Shard) int) int {
	seen := map[int]struct{}{}
	for _, s := range shards {
		seen[key(s)] = struct{}{}
	}
	return len(seen)
}

// HostFor returns the NodeAddress that owns shard s.
func (t *ClusterTopology) HostFor(s colony.Shard) (NodeAddress, bool) {
	addr, ok := t.ShardToHost[s.ID()]
	return addr, ok
}

// AdjacentRemoteHosts returns the distinct set of hosts (excluding self)
// that own a shard edge-adjacent to s.
func (t *ClusterTopology) AdjacentRemoteHosts(s colony.Shard, self NodeAddress) []NodeAddress {
	seen := map[string]NodeAddress{}
	for _, n := range t.Shards {
		if n == s || !colony.IsAdjacent(s, n) {
			continue
		}
		host, ok := t.HostFor(n)
		if !ok || host.Equal(self) {
			continue
		}
		seen[host.InternalAddr()] = host
	}
	out := make([]NodeAddress, 0, len(seen))
	for _, h := range seen {
		out = append(out, h)
	}
	return out
}

// AdjacentLocalShards returns the shards hosted on self that are
// edge-adjacent to s (excluding s itself).
func (t *ClusterTopology) AdjacentLocalShards(s colony.Shard, self NodeAddress) []colony.Shard {
	var out []colony.Shard
	for _, n := range t.Shards {
		if n == s || !colony.IsAdjacent(s, n) {
			continue
		}
		if host, ok := t.HostFor(n); ok && host.Equal(self) {
			out = append(out, n)
		}
	}
	return out
}

// topologyCell holds the process-wide set-once topology singleton.
var topologyCell struct {
	mu    sync.RWMutex
	value *ClusterTopology
}

// Install sets the process-wide topology exactly once. A second call
// returns ErrTopologyAlreadyInstalled without mutating the existing
// value.
func Install(t *ClusterTopology) error {
	topologyCell.mu.Lock()
	defer topologyCell.mu.Unlock()
	if topologyCell.value != nil {
		return ErrTopologyAlreadyInstalled
	}
	topologyCell.value = t
	return nil
}

// Get returns the installed topology, or ErrTopologyNotInstalled if
// Install has not run yet.
func Get() (*ClusterTopology, error) {
	topologyCell.mu.RLock()
	defer topologyCell.mu.RUnlock()
	if topologyCell.value == nil {
		return nil, ErrTopologyNotInstalled
	}
	return topologyCell.value, nil
}

// IsInstalled reports whether Install has succeeded in this process.
func IsInstalled() bool {
	topologyCell.mu.RLock()
	defer topologyCell.mu.RUnlock()
	return topologyCell.value != nil
}

// ResetForTest clears the topology singleton. Only ever called from
// tests, which run each topology-dependent scenario in isolation.
func ResetForTest() {
	topologyCell.mu.Lock()
	defer topologyCell.mu.Unlock()
	topologyCell.value = nil
}
