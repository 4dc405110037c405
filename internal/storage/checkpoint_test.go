package storage

import (
	"math/rand"
	"os"
	"testing"

	"github.com/dreamware/distributed-colony/internal/colony"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRetrieveRoundTrip(t *testing.T) {
	store, err := NewCheckpointStore(t.TempDir())
	require.NoError(t, err)

	cs := colony.NewColonyShard(colony.Shard{X: 0, Y: 0, Width: 4, Height: 4}, colony.DefaultColonyLifeRules())
	colony.RandomizeInterior(cs, rand.New(rand.NewSource(1)))
	cs.CurrentTick = 42

	require.NoError(t, store.Store(cs))

	got, ok, err := store.Retrieve(cs.Key.ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cs.CurrentTick, got.CurrentTick)
	assert.Equal(t, cs.Grid, got.Grid)
}

func TestRetrieveMissingReturnsFalse(t *testing.T) {
	store, err := NewCheckpointStore(t.TempDir())
	require.NoError(t, err)
	_, ok, err := store.Retrieve("0_0_4_4")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRetrieveDetectsSingleByteFlip(t *testing.T) {
	store, err := NewCheckpointStore(t.TempDir())
	require.NoError(t, err)

	cs := colony.NewColonyShard(colony.Shard{X: 0, Y: 0, Width: 2, Height: 2}, colony.DefaultColonyLifeRules())
	require.NoError(t, store.Store(cs))

	path := store.path(cs.Key.ID())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[0] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, ok, err := store.Retrieve(cs.Key.ID())
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}
