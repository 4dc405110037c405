package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dreamware/distributed-colony/internal/colony"
	"github.com/dreamware/distributed-colony/internal/metrics"
	"github.com/dreamware/distributed-colony/internal/wire"
)

// EventDescription is a logged/surfaced record of one dispatched event,
// per §4.7's "events are logged both to a coordinator in-memory ring...
// and written as JSON files".
type EventDescription struct {
	Tick        uint64    `json:"tick"`
	EventType   string    `json:"event_type"`
	Description string    `json:"description"`
	At          time.Time `json:"-"`
}

// eventRing is a fixed-capacity ring buffer of the newest N event
// descriptions, surfaced via HTTP.
type eventRing struct {
	mu       sync.Mutex
	items    []EventDescription
	capacity int
}

func newEventRing(capacity int) *eventRing {
	return &eventRing{capacity: capacity}
}

func (r *eventRing) push(ev EventDescription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, ev)
	if len(r.items) > r.capacity {
		r.items = r.items[len(r.items)-r.capacity:]
	}
}

// Latest returns up to limit newest-first event descriptions.
func (r *eventRing) Latest(limit int) []EventDescription {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.items)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]EventDescription, limit)
	for i := 0; i < limit; i++ {
		out[i] = r.items[n-1-i]
	}
	return out
}

// frequencyClass is one of the five independent event streams, each
// drawing its own random period on every fire (§4.7).
type frequencyClass struct {
	name          string
	periodMin, periodMax int
	nextFireTick  uint64
	pausedUntil   uint64
	generate      func(rng *rand.Rand, width, height int, rules colony.ColonyLifeRules) colony.ColonyEvent
}

func (c *Coordinator) frequencyClasses() []*frequencyClass {
	return []*frequencyClass{
		{name: "normal", periodMin: 5, periodMax: 20, generate: genNormal},
		{name: "rare", periodMin: 1000, periodMax: 2000, generate: genChangeExtraFood},
		{name: "extinction", periodMin: 10000, periodMax: 50000, generate: genExtinction},
		{name: "topography", periodMin: 5000, periodMax: 8000, generate: genNewTopography},
		{name: "colony_rules", periodMin: 20000, periodMax: 60000, generate: genChangeColonyRules},
	}
}

// genNormal is the "normal" frequency class's generator: on every fire it
// picks one of CreateCreature, LocalDeath, or RandomTrait, mirroring the
// original's normal generator rather than always creating.
func genNormal(rng *rand.Rand, width, height int, rules colony.ColonyLifeRules) colony.ColonyEvent {
	switch rng.Intn(3) {
	case 0:
		return genLocalDeath(rng, width, height, rules)
	case 1:
		return genRandomTrait(rng, width, height, rules)
	default:
		return genCreateCreature(rng, width, height, rules)
	}
}

func genCreateCreature(rng *rand.Rand, width, height int, _ colony.ColonyLifeRules) colony.ColonyEvent {
	return colony.ColonyEvent{
		Kind: colony.EventCreateCreature,
		Region: colony.Region{Kind: colony.RegionEllipse, Ellip: colony.Ellipse{
			X: int64(rng.Intn(width)), Y: int64(rng.Intn(height)),
			RX: int64(5 + rng.Intn(15)), RY: int64(5 + rng.Intn(15)),
		}},
		Color:          colony.Color{R: byte(rng.Intn(256)), G: byte(rng.Intn(256)), B: byte(rng.Intn(256))},
		Traits:         colony.Traits{Size: byte(1 + rng.Intn(4)), CanKill: rng.Float64() < 0.3, CanMove: rng.Float64() < 0.5},
		StartingHealth: byte(50 + rng.Intn(150)),
	}
}

func genLocalDeath(rng *rand.Rand, width, height int, _ colony.ColonyLifeRules) colony.ColonyEvent {
	return colony.ColonyEvent{
		Kind: colony.EventLocalDeath,
		Region: colony.Region{Kind: colony.RegionCircle, Circ: colony.Circle{
			X: int64(rng.Intn(width)), Y: int64(rng.Intn(height)),
			R: int64(3 + rng.Intn(10)),
		}},
	}
}

func genRandomTrait(rng *rand.Rand, width, height int, _ colony.ColonyLifeRules) colony.ColonyEvent {
	return colony.ColonyEvent{
		Kind: colony.EventRandomTrait,
		Region: colony.Region{Kind: colony.RegionCircle, Circ: colony.Circle{
			X: int64(rng.Intn(width)), Y: int64(rng.Intn(height)),
			R: int64(3 + rng.Intn(10)),
		}},
		Traits: colony.Traits{Size: byte(1 + rng.Intn(4)), CanKill: rng.Float64() < 0.3, CanMove: rng.Float64() < 0.5},
	}
}

func genChangeExtraFood(rng *rand.Rand, _, _ int, _ colony.ColonyLifeRules) colony.ColonyEvent {
	delta := int8(1 + rng.Intn(5))
	if rng.Intn(2) == 0 {
		delta = -delta
	}
	return colony.ColonyEvent{Kind: colony.EventChangeExtraFoodPerTick, FoodDelta: delta}
}

func genExtinction(*rand.Rand, int, int, colony.ColonyLifeRules) colony.ColonyEvent {
	return colony.ColonyEvent{Kind: colony.EventExtinction}
}

func genNewTopography(*rand.Rand, int, int, colony.ColonyLifeRules) colony.ColonyEvent {
	return colony.ColonyEvent{Kind: colony.EventNewTopography}
}

func genChangeColonyRules(rng *rand.Rand, _, _ int, rules colony.ColonyLifeRules) colony.ColonyEvent {
	newRules := rules
	newRules.MutationChance = clampFloat(rules.MutationChance+(rng.Float64()-0.5)*0.01, 0, 1)
	return colony.ColonyEvent{Kind: colony.EventChangeColonyRules, NewRules: newRules}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RunEventLoop drives the five frequency classes on a 1s wall-clock
// tick, per §4.7, until ctx is cancelled.
func (c *Coordinator) RunEventLoop(ctx context.Context) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	c.classesOnce.Do(func() {
		c.activeClasses = c.frequencyClasses()
	})
	classes := c.activeClasses
	for _, cl := range classes {
		cl.nextFireTick = uint64(cl.periodMin + rng.Intn(cl.periodMax-cl.periodMin+1))
	}

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick, ok := c.readAnyShardTick(ctx)
			if !ok {
				continue
			}
			for _, cl := range classes {
				if tick < cl.pausedUntil || tick < cl.nextFireTick {
					continue
				}
				c.fireClass(ctx, cl, tick, rng)
				cl.nextFireTick = tick + uint64(cl.periodMin+rng.Intn(cl.periodMax-cl.periodMin+1))
			}
		}
	}
}

func (c *Coordinator) fireClass(ctx context.Context, cl *frequencyClass, tick uint64, rng *rand.Rand) {
	width, height := c.Dimensions()
	ev := cl.generate(rng, width, height, c.Rules())
	metrics.EventsDispatchedTotal.WithLabelValues(cl.name).Inc()

	switch ev.Kind {
	case colony.EventNewTopography:
		topo := c.Topology()
		if topo != nil {
			_ = c.regenerateTopography(ctx, topo, true)
		}
		c.pauseAllClasses(tick + 2000)
	case colony.EventChangeColonyRules:
		c.setRules(ev.NewRules)
		c.broadcastEvent(ctx, ev)
	default:
		c.broadcastEvent(ctx, ev)
	}

	c.ring.push(EventDescription{Tick: tick, EventType: cl.name, Description: describeEvent(ev), At: time.Now()})
	c.writeEventFile(tick, cl.name, ev)
}

func (c *Coordinator) pauseAllClasses(until uint64) {
	c.mu.Lock()
	classes := c.activeClasses
	c.mu.Unlock()
	for _, cl := range classes {
		cl.pausedUntil = until
	}
}

// writeEventFile persists one dispatched event as a JSON file under
// <colony_instance_id>/events/, per §4.7.
func (c *Coordinator) writeEventFile(tick uint64, class string, ev colony.ColonyEvent) {
	dir := filepath.Join(c.outputDir, c.InstanceID, "events")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.Log.Errorw("create events dir", "error", err)
		return
	}
	name := fmt.Sprintf("%020d_%s.json", tick, class)
	payload := struct {
		Tick  uint64            `json:"tick"`
		Class string            `json:"class"`
		Event colony.ColonyEvent `json:"event"`
	}{tick, class, ev}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		c.Log.Errorw("marshal event", "error", err)
		return
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		c.Log.Errorw("write event file", "error", err)
	}
}

func (c *Coordinator) readAnyShardTick(ctx context.Context) (uint64, bool) {
	topo := c.Topology()
	if topo == nil || len(topo.Shards) == 0 {
		return 0, false
	}
	s := topo.Shards[0]
	host, ok := topo.HostFor(s)
	if !ok {
		return 0, false
	}
	callCtx, cancel := context.WithTimeout(ctx, 1500*time.Millisecond)
	defer cancel()
	resp, err := c.Pool.Call(callCtx, host.InternalAddr(), wire.Envelope{
		Kind: wire.KindGetShardCurrentTickRequest, Payload: wire.GetShardCurrentTickRequest{Shard: s},
	})
	if err != nil {
		return 0, false
	}
	p, ok := resp.Payload.(wire.GetShardCurrentTickResponse)
	if !ok || !p.Available {
		return 0, false
	}
	return p.Tick, true
}

// broadcastEvent fire-and-forgets ApplyEvent to every distinct worker.
func (c *Coordinator) broadcastEvent(ctx context.Context, ev colony.ColonyEvent) {
	topo := c.Topology()
	if topo == nil {
		return
	}
	seen := map[string]struct{}{}
	for _, host := range topo.ShardToHost {
		addr := host.InternalAddr()
		if _, done := seen[addr]; done {
			continue
		}
		seen[addr] = struct{}{}
		addr := addr
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if _, err := c.Pool.Call(sendCtx, addr, wire.Envelope{Kind: wire.KindApplyEvent, Payload: wire.ApplyEventRequest{Event: ev}}); err != nil {
				c.Log.Debugw("ApplyEvent broadcast failed", "worker", addr, "error", err)
			}
		}()
	}
}

func describeEvent(ev colony.ColonyEvent) string {
	switch ev.Kind {
	case colony.EventLocalDeath:
		return "local death"
	case colony.EventRandomTrait:
		return "random trait mutation"
	case colony.EventCreateCreature:
		return "creature created"
	case colony.EventChangeExtraFoodPerTick:
		return "extra food per tick changed"
	case colony.EventExtinction:
		return "extinction"
	case colony.EventNewTopography:
		return "new topography"
	case colony.EventChangeColonyRules:
		return "colony rules changed"
	default:
		return "unknown event"
	}
}
