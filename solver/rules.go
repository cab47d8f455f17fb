package solver

/*

Deduction rules

Every rule works by removing candidates and reports a skim level:
the size of the subset that justified the removals, 0 when the
rule found nothing, or invalid when some cell lost its last
candidate, which proves the grid unsolvable.

The two region rules are dual views of the same argument.  Given k
cells of a region whose candidates span exactly k values, those
values can appear nowhere else in the region (candidate
exclusion).  Given k values possible in exactly k cells of a
region, those cells can hold nothing else (value exclusion).  The
subsets of cells and of values are enumerated by ascending size
through the shared bitset tables; when both counts for a subset
come out below its size the region demands more values than it can
hold and the grid is unsolvable.

The row/column rule applies the same argument to a single value
across the whole grid: if a value is restricted to k columns in
some k rows, the k columns cannot host it anywhere else, and
symmetrically for columns against rows.

The intersection rule compares the two complements of a box/line
crossing: any value possible in one complement but not in the
other must lie inside the crossing itself, so it can be removed
from the first complement too.  Its skim level is the number of
values removed.

Rules at level 1 are cheap and complete the current pass; a rule
firing at a higher level returns at once so the driver restarts
with the cheap rules again.

*/

// invalid is the skim level of a grid proven unsolvable
const invalid = -1

// skimRegion applies candidate exclusion and value exclusion to
// one region.
func (s *Session) skimRegion(g *grid, ri int, st *Counters) int {
	reg := &g.regions[ri]
	skim := 0
	stop := false
	for depth := 1; depth <= g.sidelen && !stop; depth++ {
		for _, bits := range g.group(depth) {
			// candidate exclusion: bits selects cells of the region
			var union uint32
			for i, ci := range reg.cells {
				if bits&(1<<uint(i)) != 0 {
					union |= g.cells[ci].candidates
				}
			}
			switch {
			case int(g.popcount[union]) < depth:
				return invalid
			case int(g.popcount[union]) == depth:
				changed := false
				for i, ci := range reg.cells {
					if bits&(1<<uint(i)) != 0 {
						continue
					}
					c := &g.cells[ci]
					if c.candidates&union == 0 {
						continue
					}
					c.candidates &^= union
					changed = true
					if g.cellChanged(ci, st) {
						s.message(g.id, 2, "### Cell %s must contain %c", g.cellNames[ci], valueName(g.value(ci)))
					}
					if c.candidates == 0 {
						return invalid
					}
				}
				if changed {
					st.CandidateExclusions[depth-1]++
					st.Rules++
					skim = depth
					s.message(g.id, ruleVerbosity(depth), "### %s: values %s are confined to cells %s",
						reg.name, g.valuesText(union), g.subsetText(reg, bits))
				}
			}
			// value exclusion: bits selects values
			var holders uint32
			for i, ci := range reg.cells {
				if g.cells[ci].candidates&bits != 0 {
					holders |= 1 << uint(i)
				}
			}
			switch {
			case int(g.popcount[holders]) < depth:
				return invalid
			case int(g.popcount[holders]) == depth:
				changed := false
				for i, ci := range reg.cells {
					if holders&(1<<uint(i)) == 0 {
						continue
					}
					c := &g.cells[ci]
					if c.candidates&^bits == 0 {
						continue
					}
					c.candidates &= bits
					changed = true
					if g.cellChanged(ci, st) {
						s.message(g.id, 2, "### Cell %s must contain %c", g.cellNames[ci], valueName(g.value(ci)))
					}
					if c.candidates == 0 {
						return invalid
					}
				}
				if changed {
					st.ValueExclusions[depth-1]++
					st.Rules++
					skim = depth
					s.message(g.id, ruleVerbosity(depth), "### %s: values %s claim cells %s",
						reg.name, g.valuesText(bits), g.subsetText(reg, holders))
				}
			}
			if skim > 1 {
				return skim
			}
			if skim == 1 {
				stop = true
			}
		}
	}
	return skim
}

// skimValue applies row/column exclusion for one value over the
// whole grid.  It is not gated by dirty flags: the rule spans all
// rows and columns at once, so any change anywhere can concern it.
func (s *Session) skimValue(g *grid, value int, st *Counters) int {
	n := g.sidelen
	vbit := uint32(1) << uint(value-1)
	skim := 0
	stop := false
	for depth := 1; depth <= n && !stop; depth++ {
		for _, bits := range g.group(depth) {
			// bits selects rows; find the columns hosting the value there
			var cols uint32
			for r := 0; r < n; r++ {
				if bits&(1<<uint(r)) == 0 {
					continue
				}
				for c := 0; c < n; c++ {
					if g.cells[r*n+c].candidates&vbit != 0 {
						cols |= 1 << uint(c)
					}
				}
			}
			switch {
			case int(g.popcount[cols]) < depth:
				return invalid
			case int(g.popcount[cols]) == depth:
				switch s.excludeValueOutside(g, value, bits, cols, true, st) {
				case invalid:
					return invalid
				case 1:
					st.LineExclusions[depth-1]++
					st.Rules++
					skim = depth
					s.message(g.id, ruleVerbosity(depth), "### Value %c in rows %s is restricted to columns %s",
						valueName(value), g.rowsText(bits), g.columnsText(cols))
				}
			}
			// bits selects columns; symmetric
			var rows uint32
			for c := 0; c < n; c++ {
				if bits&(1<<uint(c)) == 0 {
					continue
				}
				for r := 0; r < n; r++ {
					if g.cells[r*n+c].candidates&vbit != 0 {
						rows |= 1 << uint(r)
					}
				}
			}
			switch {
			case int(g.popcount[rows]) < depth:
				return invalid
			case int(g.popcount[rows]) == depth:
				switch s.excludeValueOutside(g, value, bits, rows, false, st) {
				case invalid:
					return invalid
				case 1:
					st.LineExclusions[depth-1]++
					st.Rules++
					skim = depth
					s.message(g.id, ruleVerbosity(depth), "### Value %c in columns %s is restricted to rows %s",
						valueName(value), g.columnsText(bits), g.rowsText(rows))
				}
			}
			if skim > 1 {
				return skim
			}
			if skim == 1 {
				stop = true
			}
		}
	}
	return skim
}

// excludeValueOutside removes the value from the crossing cells
// outside the selected lines.  With byRows, lines selects rows and
// crossings selects columns; otherwise the converse.  It returns 1
// when something was removed, 0 when nothing was, and invalid when
// a cell lost its last candidate.
func (s *Session) excludeValueOutside(g *grid, value int, lines, crossings uint32, byRows bool, st *Counters) int {
	n := g.sidelen
	vbit := uint32(1) << uint(value-1)
	changed := 0
	for i := 0; i < n; i++ {
		if lines&(1<<uint(i)) != 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if crossings&(1<<uint(j)) == 0 {
				continue
			}
			ci := i*n + j
			if !byRows {
				ci = j*n + i
			}
			c := &g.cells[ci]
			if c.candidates&vbit == 0 {
				continue
			}
			c.candidates &^= vbit
			changed = 1
			if g.cellChanged(ci, st) {
				s.message(g.id, 2, "### Cell %s must contain %c", g.cellNames[ci], valueName(g.value(ci)))
			}
			if c.candidates == 0 {
				return invalid
			}
		}
	}
	return changed
}

// skimIntersection applies the exclusion rule to one box/line
// crossing.
func (s *Session) skimIntersection(g *grid, ii int, st *Counters) int {
	inter := &g.intersections[ii]
	var boxUnion, lineUnion uint32
	for _, ci := range inter.boxRest {
		boxUnion |= g.cells[ci].candidates
	}
	for _, ci := range inter.lineRest {
		lineUnion |= g.cells[ci].candidates
	}
	diff := boxUnion ^ lineUnion
	if diff == 0 {
		return 0
	}
	removed := int(g.popcount[diff])
	for _, group := range [][]int{inter.boxRest, inter.lineRest} {
		for _, ci := range group {
			c := &g.cells[ci]
			if c.candidates&diff == 0 {
				continue
			}
			c.candidates &^= diff
			if g.cellChanged(ci, st) {
				s.message(g.id, 2, "### Cell %s must contain %c", g.cellNames[ci], valueName(g.value(ci)))
			}
			if c.candidates == 0 {
				return invalid
			}
		}
	}
	st.IntersectionExclusions += removed
	st.Rules += removed
	s.message(g.id, 1, "### %s: values %s must lie in the segment", inter.name, g.valuesText(diff))
	return removed
}

// level-1 rules are routine and only logged at high verbosity
func ruleVerbosity(depth int) int {
	if depth > 1 {
		return 1
	}
	return 3
}
