package colony

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHaloPropagation mirrors scenario 2 from the testable properties:
// two horizontally-adjacent shards, left shard's rightmost interior cell
// set to a living creature, exported and spliced into the right shard's
// left halo.
func TestHaloPropagation(t *testing.T) {
	rules := DefaultColonyLifeRules()
	left := NewColonyShard(Shard{X: 0, Y: 0, Width: 10, Height: 10}, rules)
	right := NewColonyShard(Shard{X: 10, Y: 0, Width: 10, Height: 10}, rules)
	require.Equal(t, NeighborLeft, AdjacencyOf(right.Key, left.Key))

	// left's rightmost interior column is local col = Width (10).
	cell := left.At(1, left.Key.Width)
	cell.SpawnCreature(Color{R: 255, G: 0, B: 0}, Traits{Size: 2}, 50)

	exp := ExportBorders(left)
	ApplySplice(right, exp)

	halo := right.At(1, 0)
	assert.Equal(t, byte(50), halo.Health)
	assert.Equal(t, Color{R: 255, G: 0, B: 0}, halo.Color)
	assert.Equal(t, right.currentTickBit(), halo.TickBit)
}

func TestHaloSpliceRetainsLiveReceiverOverBlankSource(t *testing.T) {
	rules := DefaultColonyLifeRules()
	left := NewColonyShard(Shard{X: 0, Y: 0, Width: 4, Height: 4}, rules)
	right := NewColonyShard(Shard{X: 4, Y: 0, Width: 4, Height: 4}, rules)

	liveCell := right.At(1, 0)
	liveCell.SpawnCreature(Color{R: 9, G: 9, B: 9}, Traits{Size: 1}, 77)

	// left's border is entirely blank.
	exp := ExportBorders(left)
	ApplySplice(right, exp)

	assert.Equal(t, byte(77), liveCell.Health, "live receiver cell must survive a blank source splice")
}

func TestApplySpliceIgnoresNonAdjacentShard(t *testing.T) {
	rules := DefaultColonyLifeRules()
	s := NewColonyShard(Shard{X: 0, Y: 0, Width: 4, Height: 4}, rules)
	farAway := NewColonyShard(Shard{X: 10000, Y: 10000, Width: 4, Height: 4}, rules)
	farAway.At(1, 1).SpawnCreature(Color{R: 1, G: 2, B: 3}, Traits{Size: 1}, 99)

	before := Image(s)
	ApplySplice(s, ExportBorders(farAway))
	after := Image(s)
	assert.Equal(t, before, after)
}
