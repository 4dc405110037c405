package colony

import "math/rand"

// Circle is a region defined by center and radius, in global colony
// coordinates.
type Circle struct {
	X, Y, R int64
}

// Ellipse is a region defined by center and the two radii.
type Ellipse struct {
	X, Y, RX, RY int64
}

// Region is either a Circle or an Ellipse. Exactly one of Circ/Ellip is
// set; Kind disambiguates.
type Region struct {
	Kind  RegionKind
	Circ  Circle
	Ellip Ellipse
}

type RegionKind int

const (
	RegionCircle RegionKind = iota
	RegionEllipse
)

// satSub64/satMul64 are saturating integer operations used by
// region-overlap math so coordinates near math.MaxInt32 never overflow,
// per the testable property on saturating arithmetic.
func satSub64(a, b int64) int64 {
	const maxI = int64(1) << 40
	const minI = -(int64(1) << 40)
	r := a - b
	if r > maxI {
		return maxI
	}
	if r < minI {
		return minI
	}
	return r
}

// OverlapsShard reports whether r intersects the given shard's
// rectangle, in global coordinates, using saturating arithmetic so
// coordinates near INT32_MAX cannot wrap around and produce a false
// overlap.
func (r Region) OverlapsShard(s Shard) bool {
	switch r.Kind {
	case RegionCircle:
		return circleOverlapsRect(r.Circ, s)
	case RegionEllipse:
		return ellipseOverlapsRect(r.Ellip, s)
	default:
		return false
	}
}

func circleOverlapsRect(c Circle, s Shard) bool {
	closestX := clampInt64(c.X, int64(s.X), int64(s.X+s.Width))
	closestY := clampInt64(c.Y, int64(s.Y), int64(s.Y+s.Height))
	dx := satSub64(c.X, closestX)
	dy := satSub64(c.Y, closestY)
	distSq := satMul64(dx, dx) + satMul64(dy, dy)
	rSq := satMul64(c.R, c.R)
	return distSq <= rSq
}

func ellipseOverlapsRect(e Ellipse, s Shard) bool {
	if e.RX == 0 || e.RY == 0 {
		return false
	}
	closestX := clampInt64(e.X, int64(s.X), int64(s.X+s.Width))
	closestY := clampInt64(e.Y, int64(s.Y), int64(s.Y+s.Height))
	dx := satSub64(e.X, closestX)
	dy := satSub64(e.Y, closestY)
	nx := float64(dx) / float64(e.RX)
	ny := float64(dy) / float64(e.RY)
	return nx*nx+ny*ny <= 1.0
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func satMul64(a, b int64) int64 {
	const cap64 = int64(1) << 50
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	if (p < 0) != ((a < 0) != (b < 0)) {
		return cap64
	}
	if p > cap64 {
		return cap64
	}
	if p < -cap64 {
		return -cap64
	}
	return p
}

// ContainsPoint reports whether the global point (gx, gy) lies within r.
func (r Region) ContainsPoint(gx, gy int) bool {
	switch r.Kind {
	case RegionCircle:
		dx := satSub64(int64(gx), r.Circ.X)
		dy := satSub64(int64(gy), r.Circ.Y)
		return satMul64(dx, dx)+satMul64(dy, dy) <= satMul64(r.Circ.R, r.Circ.R)
	case RegionEllipse:
		if r.Ellip.RX == 0 || r.Ellip.RY == 0 {
			return false
		}
		nx := float64(satSub64(int64(gx), r.Ellip.X)) / float64(r.Ellip.RX)
		ny := float64(satSub64(int64(gy), r.Ellip.Y)) / float64(r.Ellip.RY)
		return nx*nx+ny*ny <= 1.0
	default:
		return false
	}
}

// EventKind tags a ColonyEvent variant.
type EventKind int

const (
	EventLocalDeath EventKind = iota
	EventRandomTrait
	EventCreateCreature
	EventChangeExtraFoodPerTick
	EventExtinction
	EventNewTopography
	EventChangeColonyRules
)

// ColonyEvent is a tagged union of the coordinator's stochastic events.
// Only the fields relevant to Kind are meaningful.
type ColonyEvent struct {
	Kind EventKind

	Region Region // LocalDeath, RandomTrait, CreateCreature

	Traits Traits // RandomTrait, CreateCreature
	Color  Color  // CreateCreature
	StartingHealth byte // CreateCreature

	FoodDelta int8 // ChangeExtraFoodPerTick

	NewRules ColonyLifeRules // ChangeColonyRules
}

// ApplyEvent mutates cs's interior in response to ev. Shards that do not
// geometrically overlap a region-scoped event are left untouched. Callers
// must hold cs.Mu.
func ApplyEvent(cs *ColonyShard, ev ColonyEvent, rng *rand.Rand) {
	switch ev.Kind {
	case EventLocalDeath:
		applyRegionToInterior(cs, ev.Region, func(cell *Cell) {
			cell.Clear()
		})
	case EventRandomTrait:
		applyRegionToInterior(cs, ev.Region, func(cell *Cell) {
			if cell.IsBlank() {
				return
			}
			cell.Traits = ev.Traits
		})
	case EventCreateCreature:
		applyRegionToInterior(cs, ev.Region, func(cell *Cell) {
			cell.SpawnCreature(ev.Color, ev.Traits, ev.StartingHealth)
		})
	case EventChangeExtraFoodPerTick:
		r1, r2 := cs.interiorRowRange()
		c1, c2 := cs.interiorColRange()
		for row := r1; row <= r2; row++ {
			for col := c1; col <= c2; col++ {
				cell := &cs.Grid[row][col]
				cell.ExtraFoodPerTick = clampAddI8(cell.ExtraFoodPerTick, ev.FoodDelta)
			}
		}
	case EventExtinction:
		if rng.Float64() < 0.5 {
			r1, r2 := cs.interiorRowRange()
			c1, c2 := cs.interiorColRange()
			for row := r1; row <= r2; row++ {
				for col := c1; col <= c2; col++ {
					cs.Grid[row][col].Clear()
				}
			}
		}
	case EventChangeColonyRules:
		cs.Rules = ev.NewRules
	case EventNewTopography:
		// Topography is delivered via InitShardTopography, not ApplyEvent;
		// this case is a no-op placeholder so the switch stays exhaustive.
	}
}

func clampAddI8(b byte, delta int8) byte {
	v := int16(b) + int16(delta)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// applyRegionToInterior calls fn on every interior cell of cs whose
// global coordinates fall within region. If region does not overlap cs
// at all, fn is never called (ApplyEvent is a no-op for that shard).
func applyRegionToInterior(cs *ColonyShard, region Region, fn func(*Cell)) {
	if !region.OverlapsShard(cs.Key) {
		return
	}
	r1, r2 := cs.interiorRowRange()
	c1, c2 := cs.interiorColRange()
	for row := r1; row <= r2; row++ {
		for col := c1; col <= c2; col++ {
			gx := cs.Key.X + (col - 1)
			gy := cs.Key.Y + (row - 1)
			if region.ContainsPoint(gx, gy) {
				fn(&cs.Grid[row][col])
			}
		}
	}
}
