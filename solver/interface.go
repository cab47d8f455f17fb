// Copyright 2016 Laurent Farhi.  All rights reserved.

// Package solver solves Sudoku grids of side length N = s*s for
// box sides s between 2 and 5, that is grids of 4x4 up to 25x25
// cells.
//
// Three solving methods are available.  Elimination applies
// logical deduction rules (candidate exclusion, value exclusion,
// row and column exclusion, box/line intersection exclusion) up
// to a fixpoint, and resorts to hypotheses on a fewest-candidates
// cell when deduction stalls; when hypotheses were needed the
// effective method reported is Backtracking.  Backtracking is a
// plain brute-force search on the cell values.  ExactCover
// translates the grid into a textual exact-cover problem solved
// by the dlx package.
//
// A Session owns the observers of a solve: handlers registered on
// it receive grid events (initialized, changed, solved) carrying
// the full candidate state, and free-text messages graded by
// verbosity.  Sessions keep no global state, so concurrent solves
// use separate sessions.
package solver

import (
	"fmt"
)

/*

Methods and scopes

*/

// A Method selects how a grid is solved.  The numeric values
// double as the conventional process return codes of the
// command-line front ends.
type Method int

// Constants for the solving methods.  None is returned as the
// effective method when no solution exists.
const (
	None Method = iota
	Elimination
	Backtracking
	ExactCover
)

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case Elimination:
		return "elimination"
	case Backtracking:
		return "backtracking"
	case ExactCover:
		return "exact cover"
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// A Scope tells the solver whether to stop at the first solution
// or to enumerate all of them.
type Scope int

// Constants for the solving scopes.
const (
	First Scope = iota
	All
)

func (s Scope) String() string {
	switch s {
	case First:
		return "first"
	case All:
		return "all"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

/*

Observers

*/

// A GridState is the full candidate state of a grid as passed to
// grid event handlers.  Candidates[r][c][v] is v+1 when value v+1
// is still possible in the cell at row r and column c, and 0
// otherwise.  Grid identifies the grid the state was taken from;
// hypothetical grids forked by the search carry fresh identifiers.
type GridState struct {
	Grid       uint64    `json:"grid"`
	Candidates [][][]int `json:"candidates"`
	Filled     int       `json:"filled"`
}

// Values flattens a state into the determined value of every
// cell, 0 where several candidates remain.
func (s GridState) Values() [][]int {
	out := make([][]int, len(s.Candidates))
	for r, row := range s.Candidates {
		out[r] = make([]int, len(row))
		for c, cand := range row {
			v, count := 0, 0
			for _, x := range cand {
				if x != 0 {
					v = x
					count++
				}
			}
			if count == 1 {
				out[r][c] = v
			}
		}
	}
	return out
}

// A Message is a solver progress report.  Verbosity 0 messages
// announce solutions and results; higher verbosities get chattier
// about individual deductions.
type Message struct {
	Grid      uint64 `json:"grid"`
	Text      string `json:"text"`
	Verbosity int    `json:"verbosity"`
}

// A GridHandler receives grid events.
type GridHandler func(GridState)

// A MessageHandler receives progress messages.
type MessageHandler func(Message)

/*

Counters

*/

// Counters are the statistics of one solve.  The per-rule slices
// are indexed by subset size minus one.  They are read-only for
// the caller once the solve has returned.
type Counters struct {
	Solutions              int      `json:"solutions"`
	Rules                  int      `json:"rules"`
	CandidateExclusions    []int    `json:"candidateExclusions"`
	ValueExclusions        []int    `json:"valueExclusions"`
	LineExclusions         []int    `json:"lineExclusions"`
	IntersectionExclusions int      `json:"intersectionExclusions"`
	Hypotheses             int      `json:"hypotheses"`
	Depth                  int      `json:"depth"`
	Steps                  int      `json:"steps"`
	Trace                  []string `json:"trace,omitempty"`
}

/*

Sessions

*/

// A Session runs solves and owns their observers.  The zero value
// is not usable; call NewSession.  A Session must not be shared
// between concurrent solves.
type Session struct {
	onInit    []GridHandler
	onChange  []GridHandler
	onSolved  []GridHandler
	onMessage []MessageHandler
	counters  Counters
}

// NewSession creates a session with no observers.
func NewSession() *Session {
	return &Session{}
}

// OnInit registers a handler called once per solve with the state
// of the initial grid.
func (s *Session) OnInit(h GridHandler) {
	s.onInit = append(s.onInit, h)
}

// OnChange registers a handler called whenever a deduction rule
// changed the grid.
func (s *Session) OnChange(h GridHandler) {
	s.onChange = append(s.onChange, h)
}

// OnSolved registers a handler called with every solution found.
func (s *Session) OnSolved(h GridHandler) {
	s.onSolved = append(s.onSolved, h)
}

// OnMessage registers a handler for progress messages.
func (s *Session) OnMessage(h MessageHandler) {
	s.onMessage = append(s.onMessage, h)
}

// Counters returns the statistics of the last solve.
func (s *Session) Counters() Counters {
	return s.counters
}

func (s *Session) emit(handlers []GridHandler, g *grid) {
	if len(handlers) == 0 {
		return
	}
	state := g.state()
	for _, h := range handlers {
		h(state)
	}
}

func (s *Session) emitInit(g *grid)   { s.emit(s.onInit, g) }
func (s *Session) emitChange(g *grid) { s.emit(s.onChange, g) }
func (s *Session) emitSolved(g *grid) { s.emit(s.onSolved, g) }

func (s *Session) message(gridID uint64, verbosity int, format string, args ...interface{}) {
	if len(s.onMessage) == 0 {
		return
	}
	m := Message{Grid: gridID, Text: fmt.Sprintf(format, args...), Verbosity: verbosity}
	for _, h := range s.onMessage {
		h(m)
	}
}

/*

Solving

*/

// Solve solves the given grid, a square array of side 4, 9, 16 or
// 25 whose entries are the given values, 0 marking an empty cell.
// It returns the method that effectively solved the grid: the
// requested one, Backtracking instead of Elimination when
// deduction alone was not enough, or None when the grid has no
// solution.  Malformed input (a non-square array, an unsupported
// side length, a value outside 0..N) is rejected with an Error
// before any solving is attempted.
//
// With scope First the solve stops at the first solution found;
// with scope All it enumerates every solution, reporting each one
// to the solved-grid and message observers.
func (s *Session) Solve(values [][]int, method Method, scope Scope) (Method, error) {
	n := len(values)
	boxlen := 0
	for b := MinBoxLength; b <= MaxBoxLength; b++ {
		if b*b == n {
			boxlen = b
		}
	}
	if boxlen == 0 {
		return None, Error{
			Scope:     ArgumentScope,
			Structure: AttributeValueStructure,
			Attribute: SideLengthAttribute,
			Condition: NotInRangeCondition,
			Values:    ErrorData{n, MinBoxLength * MinBoxLength, MaxBoxLength * MaxBoxLength},
		}
	}
	for r := range values {
		if len(values[r]) != n {
			return None, Error{
				Scope:     ArgumentScope,
				Structure: AttributeValueStructure,
				Attribute: RowAttribute,
				Condition: WrongRowLengthCondition,
				Values:    ErrorData{r, len(values[r]), n},
			}
		}
		for c, v := range values[r] {
			if v < 0 || v > n {
				return None, Error{
					Scope:     ArgumentScope,
					Structure: AttributeValueStructure,
					Attribute: CellValueAttribute,
					Condition: NotInRangeCondition,
					Values:    ErrorData{fmt.Sprintf("row %d, column %d: %d", r, c, v), 0, n},
				}
			}
		}
	}
	if scope != First && scope != All {
		return None, Error{
			Scope:     ArgumentScope,
			Structure: AttributeValueStructure,
			Attribute: ScopeAttribute,
			Condition: UnknownScopeCondition,
			Values:    ErrorData{int(scope)},
		}
	}
	s.counters = Counters{
		CandidateExclusions: make([]int, n),
		ValueExclusions:     make([]int, n),
		LineExclusions:      make([]int, n),
		Trace:               make([]string, n*n),
	}

	switch method {
	case None:
		return None, nil
	case Elimination:
		l := layoutFor(boxlen)
		g := newGrid(l, values, &s.counters)
		s.emitInit(g)
		s.message(g.id, 2, "Initial grid:\n%s", g)
		s.search(g, scope, &s.counters)
		s.message(g.id, 1, "### %d solution(s), %d rule(s), %d hypothesis(es)",
			s.counters.Solutions, s.counters.Rules, s.counters.Hypotheses)
		switch {
		case s.counters.Solutions == 0:
			return None, nil
		case s.counters.Hypotheses > 0:
			return Backtracking, nil
		}
		return Elimination, nil
	case Backtracking:
		s.bruteForce(values, boxlen, scope, &s.counters)
		if s.counters.Solutions == 0 {
			return None, nil
		}
		return Backtracking, nil
	case ExactCover:
		if err := s.exactCover(values, boxlen, scope, &s.counters); err != nil {
			return None, err
		}
		if s.counters.Solutions == 0 {
			return None, nil
		}
		return ExactCover, nil
	}
	return None, Error{
		Scope:     ArgumentScope,
		Structure: AttributeValueStructure,
		Attribute: MethodAttribute,
		Condition: UnknownMethodCondition,
		Values:    ErrorData{int(method)},
	}
}

// Solve runs a one-off solve on a throwaway session and also
// returns its counters.
func Solve(values [][]int, method Method, scope Scope) (Method, Counters, error) {
	s := NewSession()
	m, err := s.Solve(values, method, scope)
	return m, s.Counters(), err
}
