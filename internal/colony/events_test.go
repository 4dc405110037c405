package colony

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyEventLocalDeath(t *testing.T) {
	rules := DefaultColonyLifeRules()
	s := NewColonyShard(Shard{X: 0, Y: 0, Width: 20, Height: 20}, rules)
	for row := 1; row <= 20; row++ {
		for col := 1; col <= 20; col++ {
			s.At(row, col).SpawnCreature(Color{R: 1, G: 2, B: 3}, Traits{Size: 1}, 40)
		}
	}

	rng := rand.New(rand.NewSource(1))
	ev := ColonyEvent{Kind: EventLocalDeath, Region: Region{Kind: RegionCircle, Circ: Circle{X: 10, Y: 10, R: 5}}}
	ApplyEvent(s, ev, rng)

	insideBlank := 0
	outsideLiving := 0
	for row := 1; row <= 20; row++ {
		for col := 1; col <= 20; col++ {
			gx, gy := col-1, row-1
			cell := s.At(row, col)
			if ev.Region.ContainsPoint(gx, gy) {
				if cell.Health == 0 {
					insideBlank++
				}
			} else if cell.Health > 0 {
				outsideLiving++
			}
		}
	}
	assert.Greater(t, insideBlank, 0)
	assert.Greater(t, outsideLiving, 0)
}

func TestApplyEventNoOpWhenNoOverlap(t *testing.T) {
	rules := DefaultColonyLifeRules()
	s := NewColonyShard(Shard{X: 0, Y: 0, Width: 10, Height: 10}, rules)
	for row := 1; row <= 10; row++ {
		for col := 1; col <= 10; col++ {
			s.At(row, col).SpawnCreature(Color{R: 1, G: 1, B: 1}, Traits{Size: 1}, 10)
		}
	}
	before := Image(s)

	rng := rand.New(rand.NewSource(2))
	ev := ColonyEvent{Kind: EventLocalDeath, Region: Region{Kind: RegionCircle, Circ: Circle{X: 100000, Y: 100000, R: 2}}}
	ApplyEvent(s, ev, rng)

	assert.Equal(t, before, Image(s))
}

func TestExtinctionClearsAboutHalfOfShardsOverManyTrials(t *testing.T) {
	rules := DefaultColonyLifeRules()
	rng := rand.New(rand.NewSource(7))
	const trials = 400
	blanked := 0
	for i := 0; i < trials; i++ {
		s := NewColonyShard(Shard{X: 0, Y: 0, Width: 4, Height: 4}, rules)
		for row := 1; row <= 4; row++ {
			for col := 1; col <= 4; col++ {
				s.At(row, col).SpawnCreature(Color{R: 1, G: 1, B: 1}, Traits{Size: 1}, 10)
			}
		}
		ApplyEvent(s, ColonyEvent{Kind: EventExtinction}, rng)
		if s.At(1, 1).Health == 0 {
			blanked++
		}
	}
	frac := float64(blanked) / float64(trials)
	assert.InDelta(t, 0.5, frac, 0.1)
}

func TestRegionOverlapSaturatingArithmeticNearIntMax(t *testing.T) {
	const big = int64(1) << 33
	r := Region{Kind: RegionCircle, Circ: Circle{X: big, Y: big, R: 5}}
	farShard := Shard{X: 0, Y: 0, Width: 10, Height: 10}
	assert.False(t, r.OverlapsShard(farShard))
}

func TestChangeExtraFoodPerTickClampsAdd(t *testing.T) {
	rules := DefaultColonyLifeRules()
	rng := rand.New(rand.NewSource(3))

	low := NewColonyShard(Shard{X: 0, Y: 0, Width: 1, Height: 1}, rules)
	low.At(1, 1).ExtraFoodPerTick = 2
	ApplyEvent(low, ColonyEvent{Kind: EventChangeExtraFoodPerTick, FoodDelta: -10}, rng)
	assert.Equal(t, byte(0), low.At(1, 1).ExtraFoodPerTick)

	high := NewColonyShard(Shard{X: 0, Y: 0, Width: 1, Height: 1}, rules)
	high.At(1, 1).ExtraFoodPerTick = 253
	ApplyEvent(high, ColonyEvent{Kind: EventChangeExtraFoodPerTick, FoodDelta: 10}, rng)
	assert.Equal(t, byte(255), high.At(1, 1).ExtraFoodPerTick)
}
