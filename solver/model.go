package solver

/*

Sudoku grid representation

A grid is a slice of cells plus, per region and per intersection,
a dirty flag telling the rule engine whether that view has to be
reexamined.  Each cell holds the bitset of its remaining candidate
values: bit v is set when value v+1 is still possible.  A cell
with a single candidate is determined; a cell with no candidate is
the signature of an unsolvable grid.

The structural views (which cells form which region or
intersection) live in the shared layout, so cloning a grid for a
hypothesis copies three slices and nothing else.

*/

import (
	"fmt"
	"sync/atomic"
)

// grid identifiers correlate observer callbacks when the search
// forks hypothetical grids
var gridSequence uint64

type cell struct {
	candidates uint32
	given      bool
}

type grid struct {
	*layout
	id          uint64
	cells       []cell
	regionDirty []bool
	interDirty  []bool
	filled      int // cells determined so far, indexes the fill trace
}

// newGrid builds a grid from already validated values (0 for an
// empty cell).  All regions and intersections start dirty so the
// first propagation pass examines everything.
func newGrid(l *layout, values [][]int, st *Counters) *grid {
	n := l.sidelen
	g := &grid{
		layout:      l,
		id:          atomic.AddUint64(&gridSequence, 1),
		cells:       make([]cell, n*n),
		regionDirty: make([]bool, len(l.regions)),
		interDirty:  make([]bool, len(l.intersections)),
	}
	for i := range g.cells {
		g.cells[i].candidates = l.all
	}
	for i := range g.regionDirty {
		g.regionDirty[i] = true
	}
	for i := range g.interDirty {
		g.interDirty[i] = true
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if v := values[r][c]; v != 0 {
				ci := r*n + c
				g.cells[ci].candidates = uint32(1) << uint(v-1)
				g.cells[ci].given = true
				g.cellChanged(ci, st)
			}
		}
	}
	return g
}

// clone copies the grid for a hypothesis.  The layout is shared;
// candidates and dirty flags are copied.
func (g *grid) clone() *grid {
	return &grid{
		layout:      g.layout,
		id:          atomic.AddUint64(&gridSequence, 1),
		cells:       append([]cell(nil), g.cells...),
		regionDirty: append([]bool(nil), g.regionDirty...),
		interDirty:  append([]bool(nil), g.interDirty...),
		filled:      g.filled,
	}
}

// cellChanged records that a cell lost candidates: every region
// and intersection containing it becomes dirty, and when the cell
// just became determined its assignment is logged in the fill
// trace.  It reports whether the cell is now determined.
func (g *grid) cellChanged(ci int, st *Counters) bool {
	for _, ri := range g.cellRegions[ci] {
		g.regionDirty[ri] = true
	}
	for _, ii := range g.cellInters[ci] {
		g.interDirty[ii] = true
	}
	if g.popcount[g.cells[ci].candidates] != 1 {
		return false
	}
	g.filled++
	if g.filled <= len(st.Trace) {
		st.Trace[g.filled-1] = fmt.Sprintf("%2d. %s=%c", g.filled, g.cellNames[ci], valueName(g.value(ci)))
	}
	return true
}

// value returns the value (1-based) of a determined cell, or 0
// when the cell still has several candidates.
func (g *grid) value(ci int) int {
	c := g.cells[ci].candidates
	if g.popcount[c] != 1 {
		return 0
	}
	for v := 1; v <= g.sidelen; v++ {
		if c&(1<<uint(v-1)) != 0 {
			return v
		}
	}
	return 0
}

// unsolved counts the cells not yet determined
func (g *grid) unsolved() int {
	n := 0
	for i := range g.cells {
		if g.popcount[g.cells[i].candidates] != 1 {
			n++
		}
	}
	return n
}

// values returns the determined value of every cell, 0 where the
// cell is still open.
func (g *grid) values() [][]int {
	n := g.sidelen
	out := make([][]int, n)
	for r := 0; r < n; r++ {
		out[r] = make([]int, n)
		for c := 0; c < n; c++ {
			out[r][c] = g.value(r*n + c)
		}
	}
	return out
}

// state captures the full candidate sets of the grid for an
// observer callback
func (g *grid) state() GridState {
	n := g.sidelen
	cand := make([][][]int, n)
	filled := 0
	for r := 0; r < n; r++ {
		cand[r] = make([][]int, n)
		for c := 0; c < n; c++ {
			cand[r][c] = make([]int, n)
			cs := g.cells[r*n+c].candidates
			for v := 0; v < n; v++ {
				if cs&(1<<uint(v)) != 0 {
					cand[r][c][v] = v + 1
				}
			}
			if g.popcount[cs] == 1 {
				filled++
			}
		}
	}
	return GridState{Grid: g.id, Candidates: cand, Filled: filled}
}
