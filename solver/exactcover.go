// sudoku-solver - a Sudoku grid solving library and web service.
// Copyright (C) 2016 Laurent Farhi.
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, write to the Free Software Foundation, Inc.,
// 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.

package solver

import (
	"fmt"

	"github.com/farhiongit/sudoku-solver/dlx"
)

/*

Exact cover method

A grid is an exact-cover problem over four constraint families:
every cell holds a value (RrCc), every row holds every value
(RrNn), every column holds every value (CcNn) and every box holds
every value (BbNn).  Each candidate placement of value n at row r,
column c is a subset RrCcNn covering one constraint of each
family.  Givens are required into the solution before the search.

Row, column, box and value indexes in the labels are written with
the value names, so a 16x16 grid uses 1..9 then a..g.

*/

// column and subset labels of the constraint matrix
func cellColumn(r, c int) string {
	return fmt.Sprintf("R%cC%c", valueName(r+1), valueName(c+1))
}

func rowColumn(r, v int) string {
	return fmt.Sprintf("R%cN%c", valueName(r+1), valueName(v))
}

func colColumn(c, v int) string {
	return fmt.Sprintf("C%cN%c", valueName(c+1), valueName(v))
}

func boxColumn(boxlen, r, c, v int) string {
	b := r/boxlen*boxlen + c/boxlen
	return fmt.Sprintf("B%cN%c", valueName(b+1), valueName(v))
}

func placementSubset(r, c, v int) string {
	return fmt.Sprintf("R%cC%cN%c", valueName(r+1), valueName(c+1), valueName(v))
}

// exactCover solves the grid through the dlx package.
func (s *Session) exactCover(values [][]int, boxlen int, scope Scope, st *Counters) error {
	n := boxlen * boxlen
	columns := make([]string, 0, 4*n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			columns = append(columns, cellColumn(r, c))
		}
	}
	for i := 0; i < n; i++ {
		for v := 1; v <= n; v++ {
			columns = append(columns, rowColumn(i, v))
		}
	}
	for i := 0; i < n; i++ {
		for v := 1; v <= n; v++ {
			columns = append(columns, colColumn(i, v))
		}
	}
	for b := 0; b < n; b++ {
		for v := 1; v <= n; v++ {
			columns = append(columns, fmt.Sprintf("B%cN%c", valueName(b+1), valueName(v)))
		}
	}
	u, err := dlx.NewUniverse(columns...)
	if err != nil {
		return Error{
			Scope:     InternalScope,
			Structure: AttributeStructure,
			Attribute: LocationAttribute,
			Condition: GeneralCondition,
			Values:    ErrorData{"exactCover", err.Error()},
		}
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			for v := 1; v <= n; v++ {
				err := u.Define(placementSubset(r, c, v),
					cellColumn(r, c), rowColumn(r, v), colColumn(c, v), boxColumn(boxlen, r, c, v))
				if err != nil {
					return Error{
						Scope:     InternalScope,
						Structure: AttributeStructure,
						Attribute: LocationAttribute,
						Condition: GeneralCondition,
						Values:    ErrorData{"exactCover", err.Error()},
					}
				}
			}
		}
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if v := values[r][c]; v != 0 {
				if err := u.Require(placementSubset(r, c, v)); err != nil {
					// conflicting givens, the grid has no solution
					s.message(0, 1, "### Conflicting givens: %v", err)
					return nil
				}
			}
		}
	}
	limit := 0
	if scope == First {
		limit = 1
	}
	u.Solve(limit, func(subsets []string) {
		solution := make([][]int, n)
		for r := range solution {
			solution[r] = make([]int, n)
		}
		for _, name := range subsets {
			r, c, v, err := decodePlacement(name)
			if err != nil {
				panic(err)
			}
			solution[r][c] = v
		}
		st.Solutions++
		g := newGrid(layoutFor(boxlen), solution, &Counters{Trace: make([]string, n*n)})
		s.message(g.id, 0, "Solution #%d:\n%s", st.Solutions, g)
		s.emitSolved(g)
	})
	// each subset the search tried is a hypothesis, like a
	// placement tried by the brute-force search
	st.Hypotheses += u.Nodes()
	return nil
}

// decodePlacement parses a subset label RrCcNn back into 0-based
// row and column and a 1-based value.
func decodePlacement(name string) (r, c, v int, err error) {
	if len(name) != 6 || name[0] != 'R' || name[2] != 'C' || name[4] != 'N' {
		return 0, 0, 0, fmt.Errorf("solver: malformed placement label %q", name)
	}
	r = valueNameIndex(name[1])
	c = valueNameIndex(name[3])
	vi := valueNameIndex(name[5])
	if r < 0 || c < 0 || vi < 0 {
		return 0, 0, 0, fmt.Errorf("solver: malformed placement label %q", name)
	}
	return r, c, vi + 1, nil
}

func valueNameIndex(ch byte) int {
	for i := 0; i < len(valueNames); i++ {
		if valueNames[i] == ch {
			return i
		}
	}
	return -1
}
