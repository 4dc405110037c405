package colony

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickIncrementsCounterAndTogglesBits(t *testing.T) {
	rules := DefaultColonyLifeRules()
	s := NewColonyShard(Shard{X: 0, Y: 0, Width: 6, Height: 6}, rules)
	RandomizeInterior(s, rand.New(rand.NewSource(42)))

	rng := rand.New(rand.NewSource(1))
	Tick(s, rng)
	assert.Equal(t, uint64(1), s.CurrentTick)

	r1, r2 := s.interiorRowRange()
	c1, c2 := s.interiorColRange()
	for row := r1; row <= r2; row++ {
		for col := c1; col <= c2; col++ {
			assert.True(t, s.Grid[row][col].TickBit, "cell should be stamped with next tick bit after processing")
		}
	}
}

func TestTickNeverWritesHalo(t *testing.T) {
	rules := DefaultColonyLifeRules()
	s := NewColonyShard(Shard{X: 0, Y: 0, Width: 4, Height: 4}, rules)
	RandomizeInterior(s, rand.New(rand.NewSource(5)))

	s.At(0, 1).SpawnCreature(Color{R: 7, G: 7, B: 7}, Traits{Size: 1}, 33)
	before := *s.At(0, 1)

	rng := rand.New(rand.NewSource(6))
	Tick(s, rng)

	assert.Equal(t, before, *s.At(0, 1))
}

func TestTickIsDeterministicGivenSeed(t *testing.T) {
	rules := DefaultColonyLifeRules()

	run := func(seed int64) []byte {
		s := NewColonyShard(Shard{X: 0, Y: 0, Width: 8, Height: 8}, rules)
		RandomizeInterior(s, rand.New(rand.NewSource(99)))
		rng := rand.New(rand.NewSource(seed))
		for i := 0; i < 5; i++ {
			Tick(s, rng)
		}
		return Image(s)
	}

	a := run(123)
	b := run(123)
	assert.Equal(t, a, b)
}
