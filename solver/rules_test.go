package solver

import (
	"testing"
)

func testGrid(t *testing.T, boxlen int) (*grid, *Counters) {
	t.Helper()
	n := boxlen * boxlen
	st := &Counters{
		CandidateExclusions: make([]int, n),
		ValueExclusions:     make([]int, n),
		LineExclusions:      make([]int, n),
		Trace:               make([]string, n*n),
	}
	return newGrid(layoutFor(boxlen), emptyGrid(n), st), st
}

// two cells of a row sharing the pair {1,2} exclude those values
// from the rest of the row
func TestCandidateExclusion(t *testing.T) {
	g, st := testGrid(t, 3)
	g.cells[0].candidates = 0b11
	g.cells[1].candidates = 0b11
	s := NewSession()
	if skim := s.skimRegion(g, 0, st); skim != 2 {
		t.Fatalf("skimRegion returned level %d, expected 2", skim)
	}
	if st.CandidateExclusions[1] != 1 {
		t.Errorf("counted %v candidate exclusions", st.CandidateExclusions)
	}
	for ci := 2; ci < 9; ci++ {
		if g.cells[ci].candidates&0b11 != 0 {
			t.Errorf("cell %d still holds 1 or 2", ci)
		}
		if g.cells[ci].candidates != g.all&^0b11 {
			t.Errorf("cell %d lost unrelated candidates", ci)
		}
	}
	for ci := 0; ci < 2; ci++ {
		if g.cells[ci].candidates != 0b11 {
			t.Errorf("pair cell %d was modified", ci)
		}
	}
}

// a value possible in a single cell of a row claims that cell
func TestValueExclusion(t *testing.T) {
	g, st := testGrid(t, 3)
	for ci := 1; ci < 9; ci++ {
		g.cells[ci].candidates &^= 1 << 4 // no 5 anywhere but cell 0
	}
	s := NewSession()
	if skim := s.skimRegion(g, 0, st); skim != 1 {
		t.Fatalf("skimRegion returned level %d, expected 1", skim)
	}
	if st.ValueExclusions[0] != 1 {
		t.Errorf("counted %v value exclusions", st.ValueExclusions)
	}
	if g.cells[0].candidates != 1<<4 {
		t.Errorf("cell 0 holds %b, expected only 5", g.cells[0].candidates)
	}
	if g.value(0) != 5 {
		t.Errorf("cell 0 resolved to %d", g.value(0))
	}
	if g.filled != 1 || st.Trace[0] == "" {
		t.Errorf("determined cell was not traced")
	}
}

// a region whose cells demand more values than it has is invalid
func TestRegionContradiction(t *testing.T) {
	g, st := testGrid(t, 3)
	// three cells restricted to the pair {3,4}
	for _, ci := range []int{0, 4, 7} {
		g.cells[ci].candidates = 0b1100
	}
	s := NewSession()
	if skim := s.skimRegion(g, 0, st); skim != invalid {
		t.Fatalf("skimRegion returned level %d, expected invalid", skim)
	}
}

// value 1 confined to two columns in two rows is excluded from
// those columns elsewhere
func TestLineExclusion(t *testing.T) {
	g, st := testGrid(t, 3)
	for r := 0; r < 2; r++ {
		for c := 2; c < 9; c++ {
			g.cells[r*9+c].candidates &^= 1
		}
	}
	s := NewSession()
	if skim := s.skimValue(g, 1, st); skim != 2 {
		t.Fatalf("skimValue returned level %d, expected 2", skim)
	}
	if st.LineExclusions[1] != 1 {
		t.Errorf("counted %v line exclusions", st.LineExclusions)
	}
	for r := 2; r < 9; r++ {
		for c := 0; c < 2; c++ {
			if g.cells[r*9+c].candidates&1 != 0 {
				t.Errorf("cell (%d,%d) still holds 1", r, c)
			}
		}
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if g.cells[r*9+c].candidates&1 == 0 {
				t.Errorf("cell (%d,%d) lost 1", r, c)
			}
		}
	}
}

// a value missing from the part of a row outside a box must lie
// in their crossing, so the rest of the box loses it
func TestIntersectionExclusion(t *testing.T) {
	g, st := testGrid(t, 3)
	for c := 3; c < 9; c++ {
		g.cells[c].candidates &^= 1
	}
	s := NewSession()
	if skim := s.skimIntersection(g, 0, st); skim != 1 {
		t.Fatalf("skimIntersection returned level %d, expected 1", skim)
	}
	if st.IntersectionExclusions != 1 {
		t.Errorf("counted %d intersection exclusions", st.IntersectionExclusions)
	}
	for r := 1; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if g.cells[r*9+c].candidates&1 != 0 {
				t.Errorf("cell (%d,%d) still holds 1", r, c)
			}
		}
	}
	// the segment itself keeps the value
	for c := 0; c < 3; c++ {
		if g.cells[c].candidates&1 == 0 {
			t.Errorf("segment cell (0,%d) lost 1", c)
		}
	}
}

// rules reaching a fixpoint leave the grid untouched when run
// again
func TestEliminateIdempotent(t *testing.T) {
	values := valuesFromStrings(t, hardStart)
	st := &Counters{
		CandidateExclusions: make([]int, 9),
		ValueExclusions:     make([]int, 9),
		LineExclusions:      make([]int, 9),
		Trace:               make([]string, 81),
	}
	g := newGrid(layoutFor(3), values, st)
	s := NewSession()
	if r := s.eliminate(g, st); r < 0 {
		t.Fatalf("eliminate found the grid unsolvable")
	}
	before := append([]cell(nil), g.cells...)
	again := &Counters{
		CandidateExclusions: make([]int, 9),
		ValueExclusions:     make([]int, 9),
		LineExclusions:      make([]int, 9),
		Trace:               make([]string, 81),
	}
	if r := s.eliminate(g, again); r < 0 {
		t.Fatalf("second eliminate found the grid unsolvable")
	}
	if again.Rules != 0 {
		t.Errorf("second eliminate applied %d rules", again.Rules)
	}
	for ci := range g.cells {
		if g.cells[ci].candidates != before[ci].candidates {
			t.Errorf("cell %d changed from %b to %b", ci, before[ci].candidates, g.cells[ci].candidates)
		}
	}
}

// a hypothesis works on a clone, so the parent grid keeps its
// state when the hypothesis dies
func TestCloneIndependence(t *testing.T) {
	g, _ := testGrid(t, 2)
	g.cells[0].candidates = 0b0011
	c := g.clone()
	c.cells[0].candidates = 0b0001
	c.cells[5].candidates = 0b1111
	if g.cells[0].candidates != 0b0011 {
		t.Errorf("parent cell 0 changed to %b", g.cells[0].candidates)
	}
	if g.id == c.id {
		t.Errorf("clone kept the parent's identifier")
	}
	c.regionDirty[0] = false
	if !g.regionDirty[0] {
		t.Errorf("parent dirty flags are shared with the clone")
	}
}
