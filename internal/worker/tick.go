package worker

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/dreamware/distributed-colony/internal/colony"
	"github.com/dreamware/distributed-colony/internal/metrics"
	"github.com/dreamware/distributed-colony/internal/wire"
	"golang.org/x/sync/errgroup"
)

// tickStats keeps a 50-sample ring buffer of core/full tick latencies,
// per the original be_ticker.rs ShardTickLatencyStats window.
type tickStats struct {
	mu        sync.Mutex
	core, full []time.Duration
	window    int
	ticks     uint64
}

func newTickStats() *tickStats {
	return &tickStats{window: 50}
}

func (s *tickStats) record(core, full time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.core = append(s.core, core)
	s.full = append(s.full, full)
	if len(s.core) > s.window {
		s.core = s.core[len(s.core)-s.window:]
		s.full = s.full[len(s.full)-s.window:]
	}
	s.ticks++
}

func (s *tickStats) averages() (avgCore, avgFull time.Duration, ticks uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	avgCore = average(s.core)
	avgFull = average(s.full)
	return avgCore, avgFull, s.ticks
}

func (s *tickStats) tickCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

func average(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return sum / time.Duration(len(ds))
}

// Run drives the worker's tick loop until ctx is cancelled, sleeping
// tickPeriod between iterations. It is a no-op until StartTicking has
// been called.
func (w *Worker) Run(ctx context.Context, tickPeriod time.Duration) {
	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !w.IsTicking() {
				continue
			}
			w.runOneIteration(ctx)
		}
	}
}

func (w *Worker) runOneIteration(ctx context.Context) {
	fullStart := time.Now()
	shards := w.HostedShards()
	metrics.HostedShards.Set(float64(len(shards)))
	if len(shards) == 0 {
		return
	}

	coreStart := time.Now()
	exports := make([]colony.BorderExport, len(shards))

	g, _ := errgroup.WithContext(ctx)
	for i, cs := range shards {
		i, cs := i, cs
		g.Go(func() error {
			cs.Mu.Lock()
			rng := rand.New(rand.NewSource(rand.Int63()))
			colony.Tick(cs, rng)
			exports[i] = colony.ExportBorders(cs)
			cs.Mu.Unlock()
			metrics.TicksTotal.WithLabelValues(cs.Key.ID()).Inc()
			return nil
		})
	}
	_ = g.Wait()
	coreLatency := time.Since(coreStart)

	for _, exp := range exports {
		w.deliverExport(ctx, exp)
	}

	fullLatency := time.Since(fullStart)
	w.stats.record(coreLatency, fullLatency)
	metrics.TickLatencySeconds.WithLabelValues("core").Observe(coreLatency.Seconds())
	metrics.TickLatencySeconds.WithLabelValues("full").Observe(fullLatency.Seconds())

	ticks := w.stats.tickCount()
	if avgCore, avgFull, _ := w.stats.averages(); ticks%50 == 0 {
		w.Log.Infow("tick latency summary",
			"shard_count", len(shards), "avg_core_ms", avgCore.Milliseconds(), "avg_full_ms", avgFull.Milliseconds())
	}
	if ticks%250 == 0 {
		w.checkpointAll(shards)
	}
}

func (w *Worker) checkpointAll(shards []*colony.ColonyShard) {
	if w.checkpoints == nil {
		return
	}
	for _, cs := range shards {
		cs.Mu.Lock()
		if err := w.checkpoints.Store(cs); err != nil {
			w.Log.Errorw("checkpoint failed", "shard", cs.Key.ID(), "error", err)
		}
		cs.Mu.Unlock()
	}
}

// deliverExport splices exp into every locally-hosted adjacent shard and
// fire-and-forgets an UpdatedShardContents RPC to every remote worker
// owning an adjacent shard.
func (w *Worker) deliverExport(ctx context.Context, exp colony.BorderExport) {
	topo := w.Topology()

	for _, s := range topo.Shards {
		if s == exp.Shard || !colony.IsAdjacent(s, exp.Shard) {
			continue
		}
		if cs, ok := w.ShardByID(s.ID()); ok {
			cs.Mu.Lock()
			colony.ApplySplice(cs, exp)
			cs.Mu.Unlock()
			metrics.HaloDeliveriesTotal.WithLabelValues("local").Inc()
		}
	}

	remoteAddrs := map[string]struct{}{}
	for _, s := range topo.Shards {
		if s == exp.Shard || !colony.IsAdjacent(s, exp.Shard) {
			continue
		}
		addr, ok := topo.ShardToHostAddr[s.ID()]
		if !ok || addr == w.Self.InternalAddr() {
			continue
		}
		remoteAddrs[addr] = struct{}{}
	}
	for addr := range remoteAddrs {
		addr := addr
		go func() {
			deliverCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_, err := w.pool.Call(deliverCtx, addr, wire.Envelope{
				Kind:    wire.KindUpdatedShardContents,
				Payload: wire.UpdatedShardContentsRequest{Export: exp},
			})
			if err != nil {
				w.Log.Debugw("halo delivery failed", "addr", addr, "shard", exp.Shard.ID(), "error", err)
				return
			}
			metrics.HaloDeliveriesTotal.WithLabelValues("remote").Inc()
		}()
	}
	_ = ctx
}
