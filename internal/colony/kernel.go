package colony

import "math/rand"

// neighborOffsets is the 8-neighbourhood in (drow, dcol) form, permuted
// per tick before use so the kernel does not favor any direction.
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Tick advances cs by exactly one local step: every unprocessed interior
// cell (TickBit == current bit) is visited once, in row-major order, and
// may move, eat, age, predate, mutate, or die per rules, using a
// permutation of the 8-neighbour offsets to avoid directional bias.
// Processed cells are stamped with the next tick bit. CurrentTick is
// incremented at the end.
//
// Tick only ever writes interior cells; halo cells are read-only from
// the kernel's perspective (they are refreshed exclusively by
// ApplySplice; colony-event application touches interior cells only).
// Callers must hold cs.Mu.
func Tick(cs *ColonyShard, rng *rand.Rand) {
	if cs.Key.Width == 0 || cs.Key.Height == 0 {
		cs.CurrentTick++
		return
	}
	curBit := cs.currentTickBit()
	nextBit := !curBit

	r1, r2 := cs.interiorRowRange()
	c1, c2 := cs.interiorColRange()

	for row := r1; row <= r2; row++ {
		for col := c1; col <= c2; col++ {
			cell := &cs.Grid[row][col]
			if cell.TickBit != curBit {
				continue
			}
			offsets := permutedOffsets(rng)
			stepCell(cs, row, col, cell, offsets, rng, nextBit)
			cell.TickBit = nextBit
		}
	}
	cs.CurrentTick++
}

func permutedOffsets(rng *rand.Rand) [8][2]int {
	offsets := neighborOffsets
	rng.Shuffle(len(offsets), func(i, j int) { offsets[i], offsets[j] = offsets[j], offsets[i] })
	return offsets
}

// stepCell applies one step of biology to a single living cell: ageing,
// food intake from ExtraFoodPerTick up to the trait-scaled capacity,
// health cost deduction, movement into a blank neighbour, predation on a
// weaker living neighbour, random death, and trait mutation.
func stepCell(cs *ColonyShard, row, col int, cell *Cell, offsets [8][2]int, rng *rand.Rand, nextBit bool) {
	if cell.IsBlank() {
		return
	}

	cell.Age++

	capacity := cs.Rules.EatCapacityPerSizeUnit * cell.Traits.Size
	if cell.Food+cell.ExtraFoodPerTick < cell.Food {
		cell.Food = capacity
	} else if v := cell.Food + cell.ExtraFoodPerTick; v > capacity {
		cell.Food = capacity
	} else {
		cell.Food = v
	}

	cost := cs.Rules.HealthCostPerSizeUnit * cell.Traits.Size
	if cell.Traits.CanKill {
		cost += cs.Rules.CanKillCost
	}
	if cell.Traits.CanMove {
		cost += cs.Rules.CanMoveCost
	}
	if cell.Food >= cost {
		cell.Food -= cost
	} else {
		remainder := cost - cell.Food
		cell.Food = 0
		if cell.Health > remainder {
			cell.Health -= remainder
		} else {
			cell.Health = 0
		}
	}

	if cell.Health == 0 {
		cell.Clear()
		return
	}

	if rng.Float64() < cs.Rules.RandomDeathChance {
		cell.Clear()
		return
	}

	if cell.Traits.CanMove || cell.Traits.CanKill {
		tryMoveOrPredate(cs, row, col, cell, offsets, nextBit)
	}

	if rng.Float64() < cs.Rules.MutationChance {
		mutate(cell, rng)
	}
}

// tryMoveOrPredate looks for the first interior neighbour (in permuted
// order) that is either blank (movement) or a weaker living creature
// (predation, if CanKill), and acts on it. Halo cells are never targets.
func tryMoveOrPredate(cs *ColonyShard, row, col int, cell *Cell, offsets [8][2]int, nextBit bool) {
	for _, off := range offsets {
		nr, nc := row+off[0], col+off[1]
		if nr < 1 || nr > cs.Key.Height || nc < 1 || nc > cs.Key.Width {
			continue
		}
		neighbor := &cs.Grid[nr][nc]
		if neighbor.IsBlank() {
			if cell.Traits.CanMove {
				moveCreature(cell, neighbor, nextBit)
				return
			}
			continue
		}
		if cell.Traits.CanKill && neighbor.Health < cell.Health {
			killAndOccupy(cell, neighbor, nextBit)
			return
		}
	}
}

// moveCreature relocates a creature from one cell to another. The
// destination's ExtraFoodPerTick is a per-location topography property
// and must survive the move; its TickBit is stamped to nextBit so the
// outer Tick loop does not revisit it this same tick.
func moveCreature(from, to *Cell, nextBit bool) {
	destFood := to.ExtraFoodPerTick
	*to = *from
	to.ExtraFoodPerTick = destFood
	to.TickBit = nextBit
	from.Clear()
}

func killAndOccupy(attacker, victim *Cell, nextBit bool) {
	destFood := victim.ExtraFoodPerTick
	*victim = *attacker
	victim.ExtraFoodPerTick = destFood
	victim.TickBit = nextBit
	attacker.Clear()
}

// mutate randomly flips one trait bit or nudges size by one, a minimal
// but deterministic-given-rng mutation step.
func mutate(cell *Cell, rng *rand.Rand) {
	switch rng.Intn(3) {
	case 0:
		cell.Traits.CanKill = !cell.Traits.CanKill
	case 1:
		cell.Traits.CanMove = !cell.Traits.CanMove
	case 2:
		if rng.Intn(2) == 0 && cell.Traits.Size < 255 {
			cell.Traits.Size++
		} else if cell.Traits.Size > 1 {
			cell.Traits.Size--
		}
	}
}
