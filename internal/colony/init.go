package colony

import (
	"fmt"
	"math/rand"
)

// RandomizeInterior fills cs's interior with randomized creatures (random
// color, size, and health per the given rules), used by InitColonyShard.
// The halo is left blank; it is populated only by later halo exchange.
func RandomizeInterior(cs *ColonyShard, rng *rand.Rand) {
	r1, r2 := cs.interiorRowRange()
	c1, c2 := cs.interiorColRange()
	for row := r1; row <= r2; row++ {
		for col := c1; col <= c2; col++ {
			cell := &cs.Grid[row][col]
			if rng.Float64() < 0.35 {
				color := Color{R: byte(rng.Intn(256)), G: byte(rng.Intn(256)), B: byte(rng.Intn(256))}
				traits := Traits{
					Size:    byte(1 + rng.Intn(4)),
					CanKill: rng.Float64() < 0.3,
					CanMove: rng.Float64() < 0.5,
				}
				cell.SpawnCreature(color, traits, byte(50+rng.Intn(150)))
			} else {
				cell.Clear()
			}
		}
	}
}

// InitTopography copies a width*height byte raster into the interior's
// Food and ExtraFoodPerTick fields, row-major. The halo lanes are left
// untouched. data must be exactly width*height bytes.
func InitTopography(cs *ColonyShard, data []byte) error {
	w, h := cs.Key.Width, cs.Key.Height
	if len(data) != w*h {
		return fmt.Errorf("invalid topography data: want %d bytes, got %d", w*h, len(data))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := &cs.Grid[y+1][x+1]
			v := data[y*w+x]
			cell.ExtraFoodPerTick = v
			cell.Food = v
		}
	}
	return nil
}
