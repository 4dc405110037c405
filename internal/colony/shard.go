package colony

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Shard identifies a rectangular, axis-aligned region of the colony grid
// in global coordinates. Shards are non-overlapping and tile the colony
// exactly; identity is the 4-tuple itself.
type Shard struct {
	X, Y, Width, Height int
}

// ID returns the shard's textual id, used as a registry key, filename
// stem, and URL path segment.
func (s Shard) ID() string {
	return fmt.Sprintf("%d_%d_%d_%d", s.X, s.Y, s.Width, s.Height)
}

// ShardFromID parses a textual shard id back into a Shard. Malformed ids
// return an error naming the offending part ("parts", "x", "y", "width",
// or "height"), per the round-trip testable property.
func ShardFromID(id string) (Shard, error) {
	parts := strings.Split(id, "_")
	if len(parts) != 4 {
		return Shard{}, fmt.Errorf("shard id %q: expected 4 parts, got %d", id, len(parts))
	}
	fields := [4]string{"x", "y", "width", "height"}
	vals := [4]int{}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Shard{}, fmt.Errorf("shard id %q: invalid %s: %w", id, fields[i], err)
		}
		vals[i] = n
	}
	return Shard{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// AdjacencyRelation describes how one shard sits next to another, or
// NotAdjacent if the pair shares no full edge. Corner-only contact does
// not count, per the edge-adjacency definition.
type AdjacencyRelation int

const (
	NotAdjacent AdjacencyRelation = iota
	NeighborAbove
	NeighborBelow
	NeighborLeft
	NeighborRight
)

// AdjacencyOf returns how n relates to s: NeighborAbove means n sits
// directly above s (n's bottom edge touches s's top edge), and so on.
// Two shards are edge-adjacent only if they share a full horizontal or
// vertical edge of matching length.
func AdjacencyOf(s, n Shard) AdjacencyRelation {
	switch {
	case n.Width == s.Width && n.X == s.X && n.Y+n.Height == s.Y:
		return NeighborAbove
	case n.Width == s.Width && n.X == s.X && s.Y+s.Height == n.Y:
		return NeighborBelow
	case n.Height == s.Height && n.Y == s.Y && n.X+n.Width == s.X:
		return NeighborLeft
	case n.Height == s.Height && n.Y == s.Y && s.X+s.Width == n.X:
		return NeighborRight
	default:
		return NotAdjacent
	}
}

// IsAdjacent reports whether s and n are edge-adjacent in either
// direction.
func IsAdjacent(s, n Shard) bool {
	return AdjacencyOf(s, n) != NotAdjacent
}

// ColonyShard is a shard's live grid plus its kernel parameters and tick
// counter. The grid is (Width+2) x (Height+2): row/column 0 and
// Width+1/Height+1 are the halo, the interior [1..Width] x [1..Height]
// is authoritative. Grid is stored row-major, indexed [row][col] with
// row=y, col=x in local (halo-inclusive) coordinates.
//
// All mutation goes through the shard's own Mu lock: one kernel call, one
// halo splice, one event application, or one read for snapshot/image each
// hold it for their duration, per the concurrency model.
type ColonyShard struct {
	Mu          sync.Mutex
	Key         Shard
	Grid        [][]Cell
	Rules       ColonyLifeRules
	CurrentTick uint64
}

// NewColonyShard allocates a zeroed (width+2)x(height+2) grid for key.
// Cells start blank; callers randomize the interior separately (the
// InitColonyShard handler's job).
func NewColonyShard(key Shard, rules ColonyLifeRules) *ColonyShard {
	rows := key.Height + 2
	cols := key.Width + 2
	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
	}
	return &ColonyShard{Key: key, Grid: grid, Rules: rules}
}

// interiorRowRange and interiorColRange return the 1-based index ranges
// (inclusive) of the authoritative interior.
func (cs *ColonyShard) interiorRowRange() (int, int) { return 1, cs.Key.Height }
func (cs *ColonyShard) interiorColRange() (int, int) { return 1, cs.Key.Width }

// At returns a pointer to the cell at local (row, col) including halo
// indices 0 and Width+1/Height+1. Callers must hold Mu.
func (cs *ColonyShard) At(row, col int) *Cell {
	return &cs.Grid[row][col]
}

// GlobalToLocal converts a global colony coordinate to the shard's local
// grid indices, with ok=false if the point lies outside this shard's
// interior.
func (cs *ColonyShard) GlobalToLocal(gx, gy int) (row, col int, ok bool) {
	lx := gx - cs.Key.X
	ly := gy - cs.Key.Y
	if lx < 0 || lx >= cs.Key.Width || ly < 0 || ly >= cs.Key.Height {
		return 0, 0, false
	}
	return ly + 1, lx + 1, true
}
