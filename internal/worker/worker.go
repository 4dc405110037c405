package worker

import (
	"sync"
	"sync/atomic"

	"github.com/dreamware/distributed-colony/internal/cluster"
	"github.com/dreamware/distributed-colony/internal/colony"
	"github.com/dreamware/distributed-colony/internal/storage"
	"github.com/dreamware/distributed-colony/internal/wire"
	"go.uber.org/zap"
)

// Worker is the runtime state of one backend process: the shards it
// hosts, the global colony parameters it was initialized with, and the
// topology snapshot it needs to resolve "who owns the shard next to
// mine".
type Worker struct {
	Self NodeInfo
	Log  *zap.SugaredLogger

	mu                sync.RWMutex
	colonyInitialized bool
	width, height     int
	rules             colony.ColonyLifeRules
	shards            map[string]*colony.ColonyShard
	topology          wire.TopologySnapshot

	ticking  atomic.Bool
	stats    *tickStats
	pool     *wire.Pool
	checkpoints *storage.CheckpointStore
}

// NodeInfo is the address this worker registers under, reused directly
// from cluster.NodeAddress's shape to avoid a redundant type.
type NodeInfo = cluster.NodeAddress

// New returns an initialized, not-yet-colony-initialized Worker.
func New(self NodeInfo, logger *zap.SugaredLogger, checkpoints *storage.CheckpointStore) *Worker {
	return &Worker{
		Self:        self,
		Log:         logger,
		shards:      make(map[string]*colony.ColonyShard),
		pool:        wire.NewPool(),
		stats:       newTickStats(),
		checkpoints: checkpoints,
	}
}

// HostedShards returns a snapshot slice of currently hosted shard
// handles — a cheap shared-ownership read, not a deep copy of grid data.
func (w *Worker) HostedShards() []*colony.ColonyShard {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*colony.ColonyShard, 0, len(w.shards))
	for _, s := range w.shards {
		out = append(out, s)
	}
	return out
}

// ShardByID returns the hosted shard with the given id, if any.
func (w *Worker) ShardByID(id string) (*colony.ColonyShard, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	cs, ok := w.shards[id]
	return cs, ok
}

// InitColony records the global colony dimensions and kernel rules.
// Re-initializing returns alreadyInit=true without changing existing
// state, per the idempotent-soft-error contract.
func (w *Worker) InitColony(width, height int, rules colony.ColonyLifeRules) (alreadyInit bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.colonyInitialized {
		return true
	}
	w.width, w.height, w.rules = width, height, rules
	w.colonyInitialized = true
	return false
}

// ColonyInitialized reports whether InitColony has run.
func (w *Worker) ColonyInitialized() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.colonyInitialized
}

// InitColonyShardResult enumerates the outcomes of InitColonyShard.
type InitColonyShardResult int

const (
	ShardInitOK InitColonyShardResult = iota
	ShardInitAlreadyInitialized
	ShardInitColonyNotInitialized
	ShardInitInvalidDimensions
)

// InitColonyShard allocates and randomizes a new hosted shard, recording
// the topology snapshot so later halo/event delivery can resolve
// neighbours.
func (w *Worker) InitColonyShard(key colony.Shard, rules colony.ColonyLifeRules, topo wire.TopologySnapshot, randomize func(*colony.ColonyShard)) InitColonyShardResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.colonyInitialized {
		return ShardInitColonyNotInitialized
	}
	if key.Width <= 0 || key.Height <= 0 {
		return ShardInitInvalidDimensions
	}
	id := key.ID()
	if _, exists := w.shards[id]; exists {
		return ShardInitAlreadyInitialized
	}

	cs := colony.NewColonyShard(key, rules)
	randomize(cs)
	w.shards[id] = cs
	w.topology = topo
	return ShardInitOK
}

// StartTicking flips the ticking flag; it is idempotent.
func (w *Worker) StartTicking() {
	w.ticking.Store(true)
}

// IsTicking reports whether the tick loop should be running.
func (w *Worker) IsTicking() bool {
	return w.ticking.Load()
}

// Topology returns the last topology snapshot delivered by
// InitColonyShard.
func (w *Worker) Topology() wire.TopologySnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.topology
}
