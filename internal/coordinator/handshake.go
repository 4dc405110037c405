package coordinator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/dreamware/distributed-colony/internal/cluster"
	"github.com/dreamware/distributed-colony/internal/colony"
	"github.com/dreamware/distributed-colony/internal/topography"
	"github.com/dreamware/distributed-colony/internal/wire"
)

// runInitHandshake drives every distinct worker, one after another,
// through InitColony, then InitColonyShard for each shard it owns, then
// StartTicking. Only after all workers have been handled does it
// generate the topography and send each shard its InitShardTopography
// slice, from detached goroutines, so a worker starts ticking before its
// topography arrives. TCP connect to each worker retries with backoff;
// application-level errors are logged but do not abort the whole
// handshake (one misbehaving worker should not prevent others from
// starting).
func (c *Coordinator) runInitHandshake(ctx context.Context, topo *cluster.ClusterTopology) error {
	width, height := c.Dimensions()
	rules := c.Rules()

	snapshot := topologySnapshot(topo)

	workerShards := map[string][]colony.Shard{}
	for _, s := range topo.Shards {
		host := topo.ShardToHost[s.ID()]
		workerShards[host.InternalAddr()] = append(workerShards[host.InternalAddr()], s)
	}

	for addr, shards := range workerShards {
		if err := c.initOneWorker(ctx, addr, width, height, rules, shards, snapshot); err != nil {
			c.Log.Errorw("init handshake failed for worker", "worker", addr, "error", err)
		}
	}

	return c.regenerateTopography(ctx, topo, false)
}

func (c *Coordinator) initOneWorker(ctx context.Context, addr string, width, height int, rules colony.ColonyLifeRules, shards []colony.Shard, snapshot wire.TopologySnapshot) error {
	conn, err := wire.DialWithBackoff(ctx, addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	send := func(env wire.Envelope) (wire.Envelope, error) {
		if err := wire.Encode(conn, env); err != nil {
			return wire.Envelope{}, err
		}
		return wire.Decode(conn)
	}

	initResp, err := send(wire.Envelope{Kind: wire.KindInitColonyRequest, Payload: wire.InitColonyRequest{
		Width: width, Height: height, Rules: rules,
	}})
	if err != nil {
		return fmt.Errorf("InitColony: %w", err)
	}
	if p, ok := initResp.Payload.(wire.InitColonyResponse); ok && p.Status == wire.InitColonyAlreadyInitialized {
		c.Log.Infow("worker colony already initialized", "worker", addr)
	}

	for _, s := range shards {
		resp, err := send(wire.Envelope{Kind: wire.KindInitColonyShardRequest, Payload: wire.InitColonyShardRequest{
			Shard: s, Rules: rules, Topology: snapshot,
		}})
		if err != nil {
			return fmt.Errorf("InitColonyShard %s: %w", s.ID(), err)
		}
		if p, ok := resp.Payload.(wire.InitColonyShardResponse); ok && p.Status != wire.InitColonyShardOK && p.Status != wire.InitColonyShardAlreadyInitialized {
			c.Log.Errorw("InitColonyShard rejected", "shard", s.ID(), "status", p.Status)
		}
	}

	if _, err := send(wire.Envelope{Kind: wire.KindStartTicking, Payload: wire.StartTickingRequest{}}); err != nil {
		return fmt.Errorf("StartTicking: %w", err)
	}
	return nil
}

func topologySnapshot(topo *cluster.ClusterTopology) wire.TopologySnapshot {
	m := make(map[string]string, len(topo.ShardToHost))
	for id, addr := range topo.ShardToHost {
		m[id] = addr.InternalAddr()
	}
	return wire.TopologySnapshot{ShardToHostAddr: m, Shards: topo.Shards}
}

// regenerateTopography generates a fresh global elevation field and
// sends each shard its slice via InitShardTopography, per §4.8 step 5
// and the NewTopography event dispatch (§4.7). When calledFromEvent is
// true, callers are expected to also set the 2000-tick pause on all
// event classes.
func (c *Coordinator) regenerateTopography(ctx context.Context, topo *cluster.ClusterTopology, calledFromEvent bool) error {
	width, height := c.Dimensions()
	cfg := topography.DefaultConfig(width, height, c.Tuning.ShardSide, c.Tuning.ShardSide)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	global := topography.Generate(cfg, rng)

	c.Log.Infow("generating global topography", "width", width, "height", height, "triggered_by_event", calledFromEvent)

	for _, s := range topo.Shards {
		gx := s.X / c.Tuning.ShardSide
		gy := s.Y / c.Tuning.ShardSide
		data := topography.SliceForShard(cfg, global, gx, gy)

		host, ok := topo.HostFor(s)
		if !ok {
			continue
		}
		go c.sendTopographyToShard(ctx, host, s, data)
	}
	return nil
}

func (c *Coordinator) sendTopographyToShard(ctx context.Context, host cluster.NodeAddress, shard colony.Shard, data []byte) {
	sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	resp, err := c.Pool.Call(sendCtx, host.InternalAddr(), wire.Envelope{
		Kind: wire.KindInitShardTopographyRequest,
		Payload: wire.InitShardTopographyRequest{Shard: shard, TopographyData: data},
	})
	if err != nil {
		c.Log.Errorw("send topography failed", "shard", shard.ID(), "error", err)
		return
	}
	if p, ok := resp.Payload.(wire.InitShardTopographyResponse); ok && p.Status != wire.InitShardTopographyOK {
		c.Log.Errorw("topography rejected", "shard", shard.ID(), "status", p.Status)
	}
}
