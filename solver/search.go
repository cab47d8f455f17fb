package solver

/*

Sudoku grid search

The propagation driver applies the deduction rules up to a
fixpoint.  Regions are reexamined only when dirty, that is when
one of their cells changed since the last examination; the dirty
flag is cleared before the rules run, so removals performed by the
rules themselves re-flag the region.  The row/column rule is
rescanned for every value on every round: it relates cells across
the whole grid, so no single view's dirty flag covers it.  A pass
over the box/line intersections, also dirty-gated, completes a
round; any progress restarts the round with the region rules,
which are the cheapest.

When propagation stalls short of a solution, the search picks the
first cell with the fewest remaining candidates and tries each of
its candidates in ascending order on a full clone of the grid, so
a failed hypothesis is discarded by dropping the clone.  The
return protocol of the recursion follows the backtracking level
counter: a positive value is the level at which a solution was
found, invalid means the subtree is exhausted.

*/

// eliminate runs rules to a fixpoint.  It returns invalid when
// the grid was proven unsolvable, 0 otherwise.
func (s *Session) eliminate(g *grid, st *Counters) int {
	for {
		progress := false
		for ri := range g.regions {
			if !g.regionDirty[ri] {
				continue
			}
			g.regionDirty[ri] = false
			r := s.skimRegion(g, ri, st)
			if r < 0 {
				s.message(g.id, 1, "### %s is unsolvable", g.regions[ri].name)
				return invalid
			}
			if r > 0 {
				progress = true
				s.emitChange(g)
			}
		}
		if progress {
			continue
		}
		for v := 1; v <= g.sidelen; v++ {
			r := s.skimValue(g, v, st)
			if r < 0 {
				s.message(g.id, 1, "### No room left for value %c", valueName(v))
				return invalid
			}
			if r > 0 {
				progress = true
				s.emitChange(g)
			}
		}
		if progress {
			continue
		}
		for ii := range g.intersections {
			if !g.interDirty[ii] {
				continue
			}
			g.interDirty[ii] = false
			r := s.skimIntersection(g, ii, st)
			if r < 0 {
				s.message(g.id, 1, "### %s is unsolvable", g.intersections[ii].name)
				return invalid
			}
			if r > 0 {
				progress = true
				s.emitChange(g)
			}
		}
		if !progress {
			return 0
		}
	}
}

// search solves the grid by elimination, forking hypotheses when
// deduction stalls.  It returns the backtracking level at which a
// solution was found (0 for the root grid), or invalid when the
// grid has none.
func (s *Session) search(g *grid, scope Scope, st *Counters) int {
	if s.eliminate(g, st) < 0 {
		return invalid
	}

	// pivot: first cell with the fewest candidates left
	pivot, best := -1, 0
	for ci := range g.cells {
		pc := int(g.popcount[g.cells[ci].candidates])
		if pc >= 2 && (pivot < 0 || pc < best) {
			pivot, best = ci, pc
			if best == 2 {
				break
			}
		}
	}
	if pivot < 0 {
		st.Solutions++
		s.message(g.id, 0, "Solution #%d:\n%s", st.Solutions, g)
		s.emitSolved(g)
		return st.Depth
	}

	ret := invalid
	for v := 1; v <= g.sidelen; v++ {
		bit := uint32(1) << uint(v-1)
		if g.cells[pivot].candidates&bit == 0 {
			continue
		}
		clone := g.clone()
		clone.cells[pivot].candidates = bit
		s.message(clone.id, 1, "### Hypothesis: %s=%c ?", g.cellNames[pivot], valueName(v))
		clone.cellChanged(pivot, st)
		st.Hypotheses++
		st.Depth++
		k := s.search(clone, scope, st)
		if steps := g.unsolved() - clone.unsolved(); steps > st.Steps {
			st.Steps = steps
		}
		switch {
		case k > 0:
			st.Depth = k
			ret = k
			if scope == First {
				return ret
			}
		case k == 0:
			panic("solver: hypothesis search reported level 0")
		default:
			st.Depth--
		}
	}
	return ret
}

/*

Brute force

*/

// bruteForce is the plain backtracking method: no candidate
// bookkeeping, just a depth-first walk over the cell values with
// a conflict check per placement.
func (s *Session) bruteForce(values [][]int, boxlen int, scope Scope, st *Counters) {
	n := boxlen * boxlen
	work := make([][]int, n)
	for r := range values {
		work[r] = append([]int(nil), values[r]...)
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if v := work[r][c]; v != 0 {
				work[r][c] = 0
				dup := conflicts(work, boxlen, r, c, v)
				work[r][c] = v
				if dup {
					return
				}
			}
		}
	}
	s.bruteSearch(work, boxlen, scope, st)
}

// conflicts reports whether placing v at (r, c) collides with a
// value already present in the row, the column or the box.
func conflicts(values [][]int, boxlen, r, c, v int) bool {
	n := boxlen * boxlen
	for i := 0; i < n; i++ {
		if values[r][i] == v || values[i][c] == v {
			return true
		}
	}
	br, bc := r/boxlen*boxlen, c/boxlen*boxlen
	for i := br; i < br+boxlen; i++ {
		for j := bc; j < bc+boxlen; j++ {
			if values[i][j] == v {
				return true
			}
		}
	}
	return false
}

// bruteSearch returns true when the search should stop
func (s *Session) bruteSearch(values [][]int, boxlen int, scope Scope, st *Counters) bool {
	n := boxlen * boxlen
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if values[r][c] != 0 {
				continue
			}
			for v := 1; v <= n; v++ {
				if conflicts(values, boxlen, r, c, v) {
					continue
				}
				values[r][c] = v
				st.Hypotheses++
				if s.bruteSearch(values, boxlen, scope, st) {
					values[r][c] = 0
					return true
				}
				values[r][c] = 0
			}
			return false
		}
	}
	// no empty cell left, the values are a solution
	st.Solutions++
	g := newGrid(layoutFor(boxlen), values, &Counters{Trace: make([]string, n*n)})
	s.message(g.id, 0, "Solution #%d:\n%s", st.Solutions, g)
	s.emitSolved(g)
	return scope == First
}
