package coordinator

import (
	"context"
	"testing"

	"github.com/dreamware/distributed-colony/internal/cluster"
	"github.com/dreamware/distributed-colony/internal/colony"
	"github.com/dreamware/distributed-colony/internal/config"
	"github.com/dreamware/distributed-colony/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	registry, err := cluster.NewFileRegistry(t.TempDir())
	require.NoError(t, err)
	self := cluster.NodeAddress{PrivateIP: "127.0.0.1", InternalPort: 9200, HTTPPort: 9201}
	return New(self, logging.Nop(), registry, config.DefaultTuning(config.ModeLocalhost), t.TempDir())
}

func TestStartedIsFalseUntilStart(t *testing.T) {
	c := newTestCoordinator(t)
	assert.False(t, c.Started())
}

func TestStartWithNoLiveBackendsFails(t *testing.T) {
	c := newTestCoordinator(t)
	err := c.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, c.Started())
}

func TestBuildShardGridIsRowMajor(t *testing.T) {
	shards := buildShardGrid(2, 2, 100)
	require.Len(t, shards, 4)
	assert.Equal(t, colony.Shard{X: 0, Y: 0, Width: 100, Height: 100}, shards[0])
	assert.Equal(t, colony.Shard{X: 100, Y: 0, Width: 100, Height: 100}, shards[1])
	assert.Equal(t, colony.Shard{X: 0, Y: 100, Width: 100, Height: 100}, shards[2])
	assert.Equal(t, colony.Shard{X: 100, Y: 100, Width: 100, Height: 100}, shards[3])
}

func TestPlaceRoundRobinCyclesWorkers(t *testing.T) {
	shards := buildShardGrid(2, 2, 100)
	workers := []cluster.NodeAddress{
		{PrivateIP: "10.0.0.1", InternalPort: 9000},
		{PrivateIP: "10.0.0.2", InternalPort: 9000},
	}
	placement := placeRoundRobin(shards, workers)
	assert.Equal(t, workers[0], placement[shards[0].ID()])
	assert.Equal(t, workers[1], placement[shards[1].ID()])
	assert.Equal(t, workers[0], placement[shards[2].ID()])
	assert.Equal(t, workers[1], placement[shards[3].ID()])
}

func TestEventRingKeepsNewestAndLatestIsNewestFirst(t *testing.T) {
	r := newEventRing(3)
	r.push(EventDescription{Tick: 1, EventType: "a"})
	r.push(EventDescription{Tick: 2, EventType: "b"})
	r.push(EventDescription{Tick: 3, EventType: "c"})
	r.push(EventDescription{Tick: 4, EventType: "d"})

	latest := r.Latest(10)
	require.Len(t, latest, 3)
	assert.Equal(t, uint64(4), latest[0].Tick)
	assert.Equal(t, uint64(3), latest[1].Tick)
	assert.Equal(t, uint64(2), latest[2].Tick)
}

func TestEventRingLatestRespectsLimit(t *testing.T) {
	r := newEventRing(20)
	for i := uint64(0); i < 5; i++ {
		r.push(EventDescription{Tick: i})
	}
	assert.Len(t, r.Latest(2), 2)
}

func TestRulesAndDimensionsRoundTrip(t *testing.T) {
	c := newTestCoordinator(t)
	c.setRules(colony.ColonyLifeRules{MutationChance: 0.5})
	assert.Equal(t, 0.5, c.Rules().MutationChance)

	c.setDimensions(640, 480)
	w, h := c.Dimensions()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}
