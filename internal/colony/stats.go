package colony

// Layer names accepted by GetShardLayer / the HTTP layer endpoint.
const (
	LayerCreatureSize = "creature_size"
	LayerCanKill      = "can_kill"
	LayerCanMove      = "can_move"
	LayerAge          = "age"
	LayerFood         = "food"
	LayerHealth       = "health"
)

// Image renders cs's interior as a row-major w*h*3 RGB byte buffer of
// each cell's Color: cells blanked by Clear render white, while cells of
// a freshly allocated grid that were never written render black.
// Callers must hold cs.Mu.
func Image(cs *ColonyShard) []byte {
	w, h := cs.Key.Width, cs.Key.Height
	out := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := cs.Grid[y+1][x+1]
			out = append(out, cell.Color.R, cell.Color.G, cell.Color.B)
		}
	}
	return out
}

// Layer extracts one named per-cell metric as a slice of int32 values in
// row-major interior order. Unknown layer names return nil, false.
func Layer(cs *ColonyShard, layer string) ([]int32, bool) {
	w, h := cs.Key.Width, cs.Key.Height
	out := make([]int32, 0, w*h)
	var extract func(c *Cell) int32
	switch layer {
	case LayerCreatureSize:
		extract = func(c *Cell) int32 { return int32(c.Traits.Size) }
	case LayerCanKill:
		extract = func(c *Cell) int32 { return boolToInt32(c.Traits.CanKill) }
	case LayerCanMove:
		extract = func(c *Cell) int32 { return boolToInt32(c.Traits.CanMove) }
	case LayerAge:
		extract = func(c *Cell) int32 { return int32(c.Age) }
	case LayerFood:
		extract = func(c *Cell) int32 { return int32(c.Food) }
	case LayerHealth:
		extract = func(c *Cell) int32 { return int32(c.Health) }
	default:
		return nil, false
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out = append(out, extract(&cs.Grid[y+1][x+1]))
		}
	}
	return out, true
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Histogram is a value -> occurrence-count map for one metric.
type Histogram map[int32]int

// ComputeStats builds per-metric histograms (health, size, can_kill,
// can_move, food, age) over cs's interior living cells. Callers must
// hold cs.Mu.
func ComputeStats(cs *ColonyShard) map[string]Histogram {
	metrics := map[string]Histogram{
		"health":    {},
		"size":      {},
		"can_kill":  {},
		"can_move":  {},
		"food":      {},
		"age":       {},
	}
	w, h := cs.Key.Width, cs.Key.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := &cs.Grid[y+1][x+1]
			if cell.IsBlank() {
				continue
			}
			metrics["health"][int32(cell.Health)]++
			metrics["size"][int32(cell.Traits.Size)]++
			metrics["can_kill"][boolToInt32(cell.Traits.CanKill)]++
			metrics["can_move"][boolToInt32(cell.Traits.CanMove)]++
			metrics["food"][int32(cell.Food)]++
			metrics["age"][int32(cell.Age)]++
		}
	}
	return metrics
}

// MergeHistograms sums a set of per-shard histograms into one, then
// drops keys with fewer than minCount total occurrences (the colony-wide
// merge rule used by the stats snapshot).
func MergeHistograms(hists []Histogram, minCount int) Histogram {
	merged := Histogram{}
	for _, h := range hists {
		for k, v := range h {
			merged[k] += v
		}
	}
	for k, v := range merged {
		if v < minCount {
			delete(merged, k)
		}
	}
	return merged
}
