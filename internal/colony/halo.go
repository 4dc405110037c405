package colony

// BorderExport is the payload a worker sends after ticking a shard: the
// shard's four interior border lanes (top row, bottom row, left column,
// right column), used by neighbours to refresh their halos.
type BorderExport struct {
	Shard  Shard
	Top    []Cell
	Bottom []Cell
	Left   []Cell
	Right  []Cell
}

// ExportBorders extracts the four interior border lanes of cs. Callers
// must hold cs.Mu.
func ExportBorders(cs *ColonyShard) BorderExport {
	w, h := cs.Key.Width, cs.Key.Height
	top := make([]Cell, w)
	bottom := make([]Cell, w)
	left := make([]Cell, h)
	right := make([]Cell, h)
	for x := 0; x < w; x++ {
		top[x] = cs.Grid[1][x+1]
		bottom[x] = cs.Grid[h][x+1]
	}
	for y := 0; y < h; y++ {
		left[y] = cs.Grid[y+1][1]
		right[y] = cs.Grid[y+1][w]
	}
	return BorderExport{Shard: cs.Key, Top: top, Bottom: bottom, Left: left, Right: right}
}

// ApplySplice copies an incoming border export into the receiver's halo,
// provided the exporting shard is edge-adjacent to the receiver.
// Non-adjacent pairs are silently ignored (no mutation), per the
// boundary-behaviour testable property. Callers must hold recv.Mu.
//
// The splice copies creature data and stamps the receiver's current
// TickBit, except where the receiver cell already hosts a live creature
// (Health>0) and the source cell is blank — in that case the receiver's
// creature data is retained, so an in-flight neighbour update never
// erases a live cell across the boundary.
func ApplySplice(recv *ColonyShard, exp BorderExport) {
	rel := AdjacencyOf(recv.Key, exp.Shard)
	if rel == NotAdjacent {
		return
	}
	w, h := recv.Key.Width, recv.Key.Height
	tickBit := recv.currentTickBit()

	spliceCell := func(dst *Cell, src Cell) {
		if dst.Health > 0 && src.Health == 0 {
			return
		}
		copyCreatureData(dst, &src)
		dst.TickBit = tickBit
	}

	switch rel {
	case NeighborAbove:
		for x := 0; x < w && x < len(exp.Bottom); x++ {
			spliceCell(&recv.Grid[0][x+1], exp.Bottom[x])
		}
	case NeighborBelow:
		for x := 0; x < w && x < len(exp.Top); x++ {
			spliceCell(&recv.Grid[h+1][x+1], exp.Top[x])
		}
	case NeighborLeft:
		for y := 0; y < h && y < len(exp.Right); y++ {
			spliceCell(&recv.Grid[y+1][0], exp.Right[y])
		}
	case NeighborRight:
		for y := 0; y < h && y < len(exp.Left); y++ {
			spliceCell(&recv.Grid[y+1][w+1], exp.Left[y])
		}
	}
}

// currentTickBit reads the tick bit off an arbitrary interior cell. All
// interior cells share the same tick bit at the start/end of a tick by
// construction (the kernel flips every processed cell to next_bit).
func (cs *ColonyShard) currentTickBit() bool {
	if cs.Key.Width == 0 || cs.Key.Height == 0 {
		return false
	}
	return cs.Grid[1][1].TickBit
}
