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
	"bytes"
)

/*

Textual forms

*/

// String renders the grid one row per line: the value name of
// every determined cell, a dot for an open cell, a bang for a
// cell left without candidates.  Boxes are separated by a blank.
func (g *grid) String() string {
	var buf bytes.Buffer
	n := g.sidelen
	for r := 0; r < n; r++ {
		if r > 0 && r%g.boxlen == 0 {
			buf.WriteByte('\n')
		}
		for c := 0; c < n; c++ {
			if c > 0 && c%g.boxlen == 0 {
				buf.WriteByte(' ')
			}
			ci := r*n + c
			switch {
			case g.cells[ci].candidates == 0:
				buf.WriteByte('!')
			case g.popcount[g.cells[ci].candidates] == 1:
				buf.WriteByte(valueName(g.value(ci)))
			default:
				buf.WriteByte('.')
			}
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// valuesText spells out a bitset of values, such as "{1,5,9}"
func (g *grid) valuesText(mask uint32) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for v := 1; v <= g.sidelen; v++ {
		if mask&(1<<uint(v-1)) == 0 {
			continue
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.WriteByte(valueName(v))
	}
	buf.WriteByte('}')
	return buf.String()
}

// subsetText spells out the cells of a region selected by a
// bitset of positions, such as "{Aj,Bk}"
func (g *grid) subsetText(reg *regionInfo, bits uint32) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ci := range reg.cells {
		if bits&(1<<uint(i)) == 0 {
			continue
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.WriteString(g.cellNames[ci])
	}
	buf.WriteByte('}')
	return buf.String()
}

// rowsText spells out a bitset of row indexes, such as "{A,B}"
func (g *grid) rowsText(bits uint32) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for r := 0; r < g.sidelen; r++ {
		if bits&(1<<uint(r)) == 0 {
			continue
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.WriteByte(rowName(r))
	}
	buf.WriteByte('}')
	return buf.String()
}

// columnsText spells out a bitset of column indexes, such as "{j,k}"
func (g *grid) columnsText(bits uint32) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for c := 0; c < g.sidelen; c++ {
		if bits&(1<<uint(c)) == 0 {
			continue
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.WriteByte(columnName(g.sidelen, c))
	}
	buf.WriteByte('}')
	return buf.String()
}
