package topography

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministicGivenSeed(t *testing.T) {
	cfg := DefaultConfig(500, 500, 250, 250)
	a := Generate(cfg, rand.New(rand.NewSource(7)))
	b := Generate(cfg, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestGenerateProducesFullRaster(t *testing.T) {
	cfg := DefaultConfig(500, 500, 250, 250)
	img := Generate(cfg, rand.New(rand.NewSource(1)))
	require.Len(t, img, 500*500)
}

func TestSliceForShardDimensions(t *testing.T) {
	cfg := DefaultConfig(500, 500, 250, 250)
	img := Generate(cfg, rand.New(rand.NewSource(3)))
	slice := SliceForShard(cfg, img, 1, 0)
	assert.Len(t, slice, 250*250)
}

func TestSliceMatchesGlobalPixels(t *testing.T) {
	cfg := DefaultConfig(4, 4, 2, 2)
	global := make([]byte, 16)
	for i := range global {
		global[i] = byte(i)
	}
	slice := SliceForShard(cfg, global, 1, 1)
	// shard (1,1) in a 2x2-shard grid of 2x2 shards covers global
	// pixels (2,2),(3,2),(2,3),(3,3).
	assert.Equal(t, []byte{
		global[2*4+2], global[2*4+3],
		global[3*4+2], global[3*4+3],
	}, slice)
}
