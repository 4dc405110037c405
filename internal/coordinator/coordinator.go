package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/dreamware/distributed-colony/internal/cluster"
	"github.com/dreamware/distributed-colony/internal/colony"
	"github.com/dreamware/distributed-colony/internal/config"
	"github.com/dreamware/distributed-colony/internal/wire"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Coordinator is the runtime state of the singleton coordinator
// process. It owns the cluster topology once placement completes, a
// cached copy of the current colony rules (updated by
// ChangeColonyRules), the in-memory event ring, and the liveness view
// the periodic re-probe loop maintains.
type Coordinator struct {
	Self     cluster.NodeAddress
	Log      *zap.SugaredLogger
	Registry cluster.Registry
	Tuning   config.Tuning
	Pool     *wire.Pool
	InstanceID string

	mu       sync.RWMutex
	started  bool
	topology *cluster.ClusterTopology
	rules    colony.ColonyLifeRules
	width, height int

	liveness *cluster.LivenessView
	ring     *eventRing
	outputDir string

	classesOnce   sync.Once
	activeClasses []*frequencyClass
}

// New returns a Coordinator ready to handle a colony-start request.
func New(self cluster.NodeAddress, logger *zap.SugaredLogger, registry cluster.Registry, tuning config.Tuning, outputDir string) *Coordinator {
	return &Coordinator{
		Self:       self,
		Log:        logger,
		Registry:   registry,
		Tuning:     tuning,
		Pool:       wire.NewPool(),
		InstanceID: uuid.NewString(),
		rules:      colony.DefaultColonyLifeRules(),
		liveness:   cluster.NewLivenessView(),
		ring:       newEventRing(20),
		outputDir:  outputDir,
	}
}

// Started reports whether colony-start has already run (used to answer
// 409 on a second POST /colony-start, per §6).
func (c *Coordinator) Started() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.started
}

func (c *Coordinator) markStarted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = true
}

// Topology returns the installed topology, or nil if colony-start has
// not completed yet.
func (c *Coordinator) Topology() *cluster.ClusterTopology {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topology
}

func (c *Coordinator) setTopology(t *cluster.ClusterTopology) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topology = t
}

// Rules returns the coordinator's cached colony rules.
func (c *Coordinator) Rules() colony.ColonyLifeRules {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rules
}

func (c *Coordinator) setRules(r colony.ColonyLifeRules) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = r
}

// Dimensions returns the installed colony's total width/height in cells.
func (c *Coordinator) Dimensions() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width, c.height
}

func (c *Coordinator) setDimensions(w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width, c.height = w, h
}

// Liveness returns the coordinator's liveness view, surfaced at
// GET /debug-ssm.
func (c *Coordinator) Liveness() *cluster.LivenessView {
	return c.liveness
}

// runBackgroundLoops launches the event loop, both snapshot loops, and
// the periodic liveness re-probe once Start has installed the topology.
// Each runs as its own detached goroutine for the life of the process;
// per §5/§7, coordinator shutdown drains nothing, so these are never
// explicitly stopped.
func (c *Coordinator) runBackgroundLoops(ctx context.Context) {
	topo := c.Topology()
	if topo == nil {
		return
	}
	go c.RunEventLoop(ctx)
	go c.RunStatsSnapshotLoop(ctx)
	go c.RunImageSnapshotLoop(ctx)
	go cluster.StartPeriodicProbe(ctx, c.liveness, func() []cluster.NodeAddress {
		return topo.BackendHosts
	}, 10*time.Second)
}
