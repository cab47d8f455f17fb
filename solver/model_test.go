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
	"reflect"
	"testing"
)

func TestNewGrid(t *testing.T) {
	values := valuesFromStrings(t, hardStart)
	st := &Counters{Trace: make([]string, 81)}
	g := newGrid(layoutFor(3), values, st)
	if g.filled != 21 {
		t.Errorf("grid counts %d givens, expected 21", g.filled)
	}
	if g.unsolved() != 60 {
		t.Errorf("grid counts %d open cells, expected 60", g.unsolved())
	}
	if !reflect.DeepEqual(g.values(), values) {
		t.Errorf("grid values %v differ from the input", g.values())
	}
	if v := g.value(0); v != 8 {
		t.Errorf("cell 0 holds %d, expected 8", v)
	}
	if v := g.value(1); v != 0 {
		t.Errorf("open cell 1 reports value %d", v)
	}
	for i := range g.regionDirty {
		if !g.regionDirty[i] {
			t.Fatalf("region %d starts clean", i)
		}
	}
}

func TestGridState(t *testing.T) {
	values := valuesFromStrings(t, hardStart)
	g := newGrid(layoutFor(3), values, &Counters{Trace: make([]string, 81)})
	state := g.state()
	if state.Grid != g.id {
		t.Errorf("state identifies grid %d, expected %d", state.Grid, g.id)
	}
	if state.Filled != 21 {
		t.Errorf("state counts %d filled cells, expected 21", state.Filled)
	}
	if !reflect.DeepEqual(state.Values(), values) {
		t.Errorf("state values differ from the input")
	}
	// a given keeps its single candidate, an open cell keeps all
	if !reflect.DeepEqual(state.Candidates[0][0], []int{0, 0, 0, 0, 0, 0, 0, 8, 0}) {
		t.Errorf("candidates of the 8 given are %v", state.Candidates[0][0])
	}
	if !reflect.DeepEqual(state.Candidates[0][1], []int{1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Errorf("candidates of an open cell are %v", state.Candidates[0][1])
	}
}

func TestGridString(t *testing.T) {
	values := valuesFromStrings(t, hardSolution)
	g := newGrid(layoutFor(3), values, &Counters{Trace: make([]string, 81)})
	expected := "812 753 649\n943 682 175\n675 491 283\n\n" +
		"154 237 896\n369 845 721\n287 169 534\n\n" +
		"521 974 368\n438 526 917\n796 318 452\n"
	if s := g.String(); s != expected {
		t.Errorf("got rendering\n%s\nexpected\n%s", s, expected)
	}
}

func TestTexts(t *testing.T) {
	g := newGrid(layoutFor(3), emptyGrid(9), &Counters{Trace: make([]string, 81)})
	if s := g.valuesText(0b100011); s != "{1,2,6}" {
		t.Errorf("valuesText = %q", s)
	}
	if s := g.rowsText(0b101); s != "{A,C}" {
		t.Errorf("rowsText = %q", s)
	}
	if s := g.columnsText(0b11); s != "{j,k}" {
		t.Errorf("columnsText = %q", s)
	}
	if s := g.subsetText(&g.regions[0], 0b11); s != "{Aj,Ak}" {
		t.Errorf("subsetText = %q", s)
	}
}
