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

// Package dlx solves exact-cover problems with Knuth's Algorithm X
// over dancing links.  Problems are expressed textually: a universe
// of named constraint columns, named subsets each covering some of
// those columns, and a search that reports, for every exact cover
// found, the names of the subsets that make it up.  Subsets can be
// required ahead of the search, which is how partial solutions
// (such as the given values of a puzzle) are imposed.
package dlx

import (
	"fmt"
)

/*

Structures

*/

// node/column structures (classic dancing links)
type node struct {
	left, right, up, down *node
	col                   *column
	sub                   *subset
}

type column struct {
	node
	name   string
	size   int
	active bool // whether this constraint column is currently uncovered
}

type subset struct {
	name     string
	first    *node
	required bool
}

// Universe is an exact-cover problem under construction or being
// searched.  It is not safe for concurrent use.
type Universe struct {
	columns  []*column
	byName   map[string]*column
	subsets  map[string]*subset
	required []*subset
	active   int // number of active (uncovered) columns
	sol      []*subset
	nodes    int
}

/*

Construction

*/

// NewUniverse creates a universe whose constraints are the given
// column names.  Names must be non-empty and pairwise distinct.
func NewUniverse(columns ...string) (*Universe, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("dlx: universe needs at least one column")
	}
	u := &Universe{
		byName:  make(map[string]*column, len(columns)),
		subsets: make(map[string]*subset),
	}
	for _, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("dlx: empty column name")
		}
		if _, ok := u.byName[name]; ok {
			return nil, fmt.Errorf("dlx: duplicate column %q", name)
		}
		c := &column{name: name, active: true}
		c.up = &c.node
		c.down = &c.node
		u.columns = append(u.columns, c)
		u.byName[name] = c
	}
	u.active = len(u.columns)
	return u, nil
}

// Define adds a named subset covering the given columns.  All the
// columns must exist in the universe, and a subset may cover each at
// most once.
func (u *Universe) Define(name string, columns ...string) error {
	if name == "" {
		return fmt.Errorf("dlx: empty subset name")
	}
	if _, ok := u.subsets[name]; ok {
		return fmt.Errorf("dlx: duplicate subset %q", name)
	}
	if len(columns) == 0 {
		return fmt.Errorf("dlx: subset %q covers no column", name)
	}
	s := &subset{name: name}
	seen := make(map[*column]bool, len(columns))
	var prev *node
	for _, cname := range columns {
		col, ok := u.byName[cname]
		if !ok {
			return fmt.Errorf("dlx: subset %q covers unknown column %q", name, cname)
		}
		if seen[col] {
			return fmt.Errorf("dlx: subset %q covers column %q twice", name, cname)
		}
		seen[col] = true
		n := &node{col: col, sub: s}
		// vertical insert at the bottom of the column
		n.down = &col.node
		n.up = col.node.up
		col.node.up.down = n
		col.node.up = n
		col.size++
		// horizontal ring over the nodes of the subset
		if prev == nil {
			s.first = n
			n.left = n
			n.right = n
		} else {
			n.left = prev
			n.right = prev.right
			prev.right.left = n
			prev.right = n
		}
		prev = n
	}
	u.subsets[name] = s
	return nil
}

// Require forces a previously defined subset into every solution, as
// if the search had already chosen it.  It fails when the subset
// conflicts with another required subset (they cover a common column).
func (u *Universe) Require(name string) error {
	s, ok := u.subsets[name]
	if !ok {
		return fmt.Errorf("dlx: unknown subset %q", name)
	}
	if s.required {
		return nil
	}
	for j := s.first; ; j = j.right {
		if !j.col.active {
			return fmt.Errorf("dlx: subset %q conflicts with a required subset on column %q", name, j.col.name)
		}
		if j.right == s.first {
			break
		}
	}
	for j := s.first; ; j = j.right {
		u.cover(j.col)
		if j.right == s.first {
			break
		}
	}
	s.required = true
	u.required = append(u.required, s)
	return nil
}

/*

Core operations

*/

func (u *Universe) cover(col *column) {
	if col.active {
		col.active = false
		u.active--
	}
	for i := col.down; i != &col.node; i = i.down {
		for j := i.right; j != i; j = j.right {
			j.down.up = j.up
			j.up.down = j.down
			j.col.size--
		}
	}
}

func (u *Universe) uncover(col *column) {
	for i := col.up; i != &col.node; i = i.up {
		for j := i.left; j != i; j = j.left {
			j.col.size++
			j.down.up = j
			j.up.down = j
		}
	}
	if !col.active {
		col.active = true
		u.active++
	}
}

// choose the active column with the smallest size
func (u *Universe) choose() *column {
	var best *column
	for _, c := range u.columns {
		if c.active {
			if best == nil || c.size < best.size {
				best = c
				if best.size == 0 {
					break
				}
			}
		}
	}
	return best
}

/*

Search

*/

// Solve enumerates exact covers.  For each one found it calls emit
// (when non-nil) with the names of the subsets of the cover, required
// subsets first.  A positive limit stops the search after that many
// covers; a limit of zero or less enumerates them all.  Solve returns
// the number of covers found.  The universe is restored to its
// pre-search state, so Solve can be called again.
func (u *Universe) Solve(limit int, emit func(subsets []string)) int {
	found := 0
	u.nodes = 0
	u.search(limit, emit, &found)
	return found
}

// Nodes reports how many subset choices the last Solve tried, a
// measure of search effort.
func (u *Universe) Nodes() int {
	return u.nodes
}

func (u *Universe) search(limit int, emit func([]string), found *int) bool {
	// all constraints covered, the chosen subsets form a cover
	if u.active == 0 {
		if emit != nil {
			names := make([]string, 0, len(u.required)+len(u.sol))
			for _, s := range u.required {
				names = append(names, s.name)
			}
			for _, s := range u.sol {
				names = append(names, s.name)
			}
			emit(names)
		}
		*found++
		return limit > 0 && *found >= limit
	}

	c := u.choose()
	if c == nil || c.size == 0 {
		return false
	}
	u.cover(c)
	for r := c.down; r != &c.node; r = r.down {
		u.nodes++
		u.sol = append(u.sol, r.sub)
		for j := r.right; j != r; j = j.right {
			if j.col.active {
				u.cover(j.col)
			}
		}
		stop := u.search(limit, emit, found)
		// backtrack: uncover in reverse order
		for j := r.left; j != r; j = j.left {
			u.uncover(j.col)
		}
		u.sol = u.sol[:len(u.sol)-1]
		if stop {
			u.uncover(c)
			return true
		}
	}
	u.uncover(c)
	return false
}
