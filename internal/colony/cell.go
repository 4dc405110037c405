package colony

// Color is an RGB triple. Cells carry both a live color and an
// original_color snapshot taken at creature-creation time.
type Color struct {
	R, G, B byte
}

// White is the canonical "blank" color used when a creature dies.
var White = Color{R: 255, G: 255, B: 255}

// Traits holds the per-creature attributes that drive biology cost and
// behavior: Size scales health/eat cost, CanKill/CanMove gate predation
// and movement in the local kernel.
type Traits struct {
	Size    byte
	CanKill bool
	CanMove bool
}

// Cell is a single grid point. Health == 0 means the cell is blank (no
// creature present); a blank cell's OriginalColor/Age/Food/Traits are
// meaningless and are zeroed by Clear whenever a creature dies, while
// Color is set to White and ExtraFoodPerTick and TickBit are kept.
//
// OriginalColor is set exactly once, at the moment a creature is created
// (either by randomized shard init or by a CreateCreature event), and is
// never mutated afterward — see DESIGN.md's resolution of the
// original_color open question.
type Cell struct {
	Color         Color
	OriginalColor Color
	Health        byte
	Age           byte
	Food          byte
	ExtraFoodPerTick byte
	Traits        Traits
	TickBit       bool
}

// IsBlank reports whether the cell currently hosts no creature.
func (c *Cell) IsBlank() bool {
	return c.Health == 0
}

// Clear resets a cell to the blank state, per the "health==0 means blank
// and the rest is meaningless" invariant. Color is stamped to White
// rather than zeroed, since §3/§8 require dead cells to render as white,
// not black.
func (c *Cell) Clear() {
	*c = Cell{Color: White, ExtraFoodPerTick: c.ExtraFoodPerTick, TickBit: c.TickBit}
}

// SpawnCreature sets a cell to host a freshly created creature, stamping
// OriginalColor from the given color (the one-time assignment the
// original_color invariant requires).
func (c *Cell) SpawnCreature(color Color, traits Traits, health byte) {
	c.Color = color
	c.OriginalColor = color
	c.Traits = traits
	c.Health = health
	c.Age = 0
	c.Food = 0
}

// copyCreatureData copies the creature-identifying fields from src into
// dst (used by halo splice), leaving dst's ExtraFoodPerTick and TickBit
// alone — the caller is responsible for stamping TickBit separately.
func copyCreatureData(dst, src *Cell) {
	dst.Color = src.Color
	dst.OriginalColor = src.OriginalColor
	dst.Health = src.Health
	dst.Age = src.Age
	dst.Food = src.Food
	dst.Traits = src.Traits
}

// ColonyLifeRules are the global kernel knobs. Mutable only via a
// ChangeColonyRules event, applied by the coordinator's cached copy and
// broadcast to every worker.
type ColonyLifeRules struct {
	HealthCostPerSizeUnit byte
	EatCapacityPerSizeUnit byte
	CanKillCost           byte
	CanMoveCost           byte
	MutationChance        float64
	RandomDeathChance     float64
}

// DefaultColonyLifeRules returns a reasonable starting rule set, used by
// InitColony when the caller does not override it.
func DefaultColonyLifeRules() ColonyLifeRules {
	return ColonyLifeRules{
		HealthCostPerSizeUnit:  1,
		EatCapacityPerSizeUnit: 4,
		CanKillCost:            2,
		CanMoveCost:            1,
		MutationChance:         0.01,
		RandomDeathChance:      0.001,
	}
}
