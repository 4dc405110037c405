package worker

import (
	"testing"

	"github.com/dreamware/distributed-colony/internal/cluster"
	"github.com/dreamware/distributed-colony/internal/colony"
	"github.com/dreamware/distributed-colony/internal/logging"
	"github.com/dreamware/distributed-colony/internal/wire"
	"github.com/stretchr/testify/assert"
)

func newTestWorker() *Worker {
	return New(cluster.NodeAddress{PrivateIP: "127.0.0.1", InternalPort: 9100}, logging.Nop(), nil)
}

func TestInitColonyIsIdempotent(t *testing.T) {
	w := newTestWorker()
	rules := colony.DefaultColonyLifeRules()

	already := w.InitColony(500, 500, rules)
	assert.False(t, already)

	already = w.InitColony(500, 500, rules)
	assert.True(t, already, "second InitColony must report already-initialized")
}

func TestInitColonyShardRequiresColonyFirst(t *testing.T) {
	w := newTestWorker()
	key := colony.Shard{X: 0, Y: 0, Width: 10, Height: 10}
	result := w.InitColonyShard(key, colony.DefaultColonyLifeRules(), wire.TopologySnapshot{}, func(*colony.ColonyShard) {})
	assert.Equal(t, ShardInitColonyNotInitialized, result)
}

func TestInitColonyShardRejectsInvalidDimensions(t *testing.T) {
	w := newTestWorker()
	w.InitColony(100, 100, colony.DefaultColonyLifeRules())
	result := w.InitColonyShard(colony.Shard{Width: 0, Height: 10}, colony.DefaultColonyLifeRules(), wire.TopologySnapshot{}, func(*colony.ColonyShard) {})
	assert.Equal(t, ShardInitInvalidDimensions, result)
}

func TestInitColonyShardThenAgainIsAlreadyInitialized(t *testing.T) {
	w := newTestWorker()
	w.InitColony(100, 100, colony.DefaultColonyLifeRules())
	key := colony.Shard{X: 0, Y: 0, Width: 10, Height: 10}
	noop := func(*colony.ColonyShard) {}

	result := w.InitColonyShard(key, colony.DefaultColonyLifeRules(), wire.TopologySnapshot{}, noop)
	assert.Equal(t, ShardInitOK, result)

	result = w.InitColonyShard(key, colony.DefaultColonyLifeRules(), wire.TopologySnapshot{}, noop)
	assert.Equal(t, ShardInitAlreadyInitialized, result)
}

func TestHandlePingReturnsPong(t *testing.T) {
	w := newTestWorker()
	resp := w.Handle(wire.Envelope{Kind: wire.KindPing, Payload: wire.PingRequest{}})
	assert.Equal(t, wire.KindPong, resp.Kind)
}

func TestHandleUnknownKindReturnsErrorResponse(t *testing.T) {
	w := newTestWorker()
	resp := w.Handle(wire.Envelope{Kind: "bogus", Payload: nil})
	assert.Equal(t, wire.KindErrorResponse, resp.Kind)
}

func TestHandleUpdatedShardContentsForNonAdjacentShardIsNoOp(t *testing.T) {
	w := newTestWorker()
	w.InitColony(1000, 1000, colony.DefaultColonyLifeRules())
	key := colony.Shard{X: 0, Y: 0, Width: 10, Height: 10}
	w.InitColonyShard(key, colony.DefaultColonyLifeRules(), wire.TopologySnapshot{Shards: []colony.Shard{key}}, func(cs *colony.ColonyShard) {
		// leave blank
	})
	cs, _ := w.ShardByID(key.ID())
	before := colony.Image(cs)

	farAway := colony.NewColonyShard(colony.Shard{X: 100000, Y: 100000, Width: 10, Height: 10}, colony.DefaultColonyLifeRules())
	farAway.At(1, 1).SpawnCreature(colony.Color{R: 9, G: 9, B: 9}, colony.Traits{Size: 1}, 88)

	w.Handle(wire.Envelope{Kind: wire.KindUpdatedShardContents, Payload: wire.UpdatedShardContentsRequest{
		Export: colony.ExportBorders(farAway),
	}})

	assert.Equal(t, before, colony.Image(cs))
}
