package solver

import (
	"reflect"
	"strings"
	"testing"
)

/*

Test fixtures

*/

// valuesFromStrings reads a grid the way puzzle files write them:
// one string per row, a dot per empty cell, value names elsewhere.
func valuesFromStrings(t *testing.T, rows []string) [][]int {
	t.Helper()
	out := make([][]int, len(rows))
	for r, row := range rows {
		out[r] = make([]int, len(row))
		for c := 0; c < len(row); c++ {
			if row[c] == '.' {
				continue
			}
			i := strings.IndexByte(valueNames, row[c])
			if i < 0 {
				t.Fatalf("bad fixture value %q", row[c])
			}
			out[r][c] = i + 1
		}
	}
	return out
}

// a well-known 9x9 puzzle with a unique solution that deduction
// alone cannot finish
var hardStart = []string{
	"8........",
	"..36.....",
	".7..9.2..",
	".5...7...",
	"....457..",
	"...1...3.",
	"..1....68",
	"..85...1.",
	".9....4..",
}

var hardSolution = []string{
	"812753649",
	"943682175",
	"675491283",
	"154237896",
	"369845721",
	"287169534",
	"521974368",
	"438526917",
	"796318452",
}

// a 4x4 grid whose two open rows can be completed in exactly four
// ways
var fourStart = [][]int{
	{1, 2, 3, 4},
	{3, 4, 1, 2},
	{0, 0, 0, 0},
	{0, 0, 0, 0},
}

func emptyGrid(n int) [][]int {
	out := make([][]int, n)
	for r := range out {
		out[r] = make([]int, n)
	}
	return out
}

// collect registers a solution collector on a session
func collect(s *Session) *[][][]int {
	var solutions [][][]int
	s.OnSolved(func(st GridState) {
		solutions = append(solutions, st.Values())
	})
	return &solutions
}

func validSolution(t *testing.T, values [][]int, boxlen int) {
	t.Helper()
	n := boxlen * boxlen
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := values[r][c]
			if v < 1 || v > n {
				t.Fatalf("cell (%d,%d) holds %d", r, c, v)
			}
			values[r][c] = 0
			if conflicts(values, boxlen, r, c, v) {
				t.Fatalf("cell (%d,%d) duplicates %d", r, c, v)
			}
			values[r][c] = v
		}
	}
}

/*

Solving

*/

func TestSolveAlreadySolved(t *testing.T) {
	solved := valuesFromStrings(t, hardSolution)
	for i, method := range []Method{Elimination, Backtracking, ExactCover} {
		s := NewSession()
		solutions := collect(s)
		m, err := s.Solve(solved, method, All)
		if err != nil {
			t.Fatalf("case %d: Solve failed: %v", i, err)
		}
		if m != method {
			t.Errorf("case %d: effective method %v, expected %v", i, m, method)
		}
		if len(*solutions) != 1 || !reflect.DeepEqual((*solutions)[0], solved) {
			t.Errorf("case %d: expected the input back as only solution, got %v", i, *solutions)
		}
		if method == Elimination {
			c := s.Counters()
			if c.Rules != 0 || c.Hypotheses != 0 {
				t.Errorf("case %d: solved grid needed %d rules and %d hypotheses", i, c.Rules, c.Hypotheses)
			}
		}
	}
}

func TestSolveUniqueSolution(t *testing.T) {
	start := valuesFromStrings(t, hardStart)
	expected := valuesFromStrings(t, hardSolution)
	for i, method := range []Method{Elimination, Backtracking, ExactCover} {
		s := NewSession()
		solutions := collect(s)
		m, err := s.Solve(start, method, First)
		if err != nil {
			t.Fatalf("case %d: Solve failed: %v", i, err)
		}
		if m == None {
			t.Fatalf("case %d: no solution found", i)
		}
		if len(*solutions) != 1 || !reflect.DeepEqual((*solutions)[0], expected) {
			t.Errorf("case %d: wrong solution %v", i, *solutions)
		}
	}
}

// the first and only solution of scope First must be the one
// solution of scope All
func TestSolveFirstAllConsistency(t *testing.T) {
	start := valuesFromStrings(t, hardStart)
	s := NewSession()
	first := collect(s)
	if m, err := s.Solve(start, Elimination, First); err != nil || m == None {
		t.Fatalf("Solve(First) failed: method %v, error %v", m, err)
	}
	s = NewSession()
	all := collect(s)
	if m, err := s.Solve(start, Elimination, All); err != nil || m == None {
		t.Fatalf("Solve(All) failed: method %v, error %v", m, err)
	}
	if len(*all) != 1 {
		t.Fatalf("Solve(All) found %d solutions, expected 1", len(*all))
	}
	if !reflect.DeepEqual(*first, *all) {
		t.Errorf("First found %v, All found %v", *first, *all)
	}
}

func TestSolveMultipleSolutions(t *testing.T) {
	for i, method := range []Method{Elimination, Backtracking, ExactCover} {
		s := NewSession()
		solutions := collect(s)
		m, err := s.Solve(fourStart, method, All)
		if err != nil {
			t.Fatalf("case %d: Solve failed: %v", i, err)
		}
		if m == None {
			t.Fatalf("case %d: no solution found", i)
		}
		if len(*solutions) != 4 {
			t.Fatalf("case %d: found %d solutions, expected 4", i, len(*solutions))
		}
		for j, sol := range *solutions {
			validSolution(t, sol, 2)
			for k := 0; k < j; k++ {
				if reflect.DeepEqual(sol, (*solutions)[k]) {
					t.Errorf("case %d: solutions %d and %d are identical", i, k, j)
				}
			}
		}
		if s.Counters().Solutions != 4 {
			t.Errorf("case %d: counters report %d solutions", i, s.Counters().Solutions)
		}
	}
}

// deduction alone completes a grid whose only open row keeps two
// givens, so no hypothesis is needed
func TestSolveNearlyComplete(t *testing.T) {
	start := valuesFromStrings(t, []string{
		hardSolution[0],
		"..36.....",
		hardSolution[2],
		hardSolution[3],
		hardSolution[4],
		hardSolution[5],
		hardSolution[6],
		hardSolution[7],
		hardSolution[8],
	})
	expected := valuesFromStrings(t, hardSolution)
	s := NewSession()
	solutions := collect(s)
	m, err := s.Solve(start, Elimination, All)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if m != Elimination {
		t.Errorf("effective method %v, expected %v", m, Elimination)
	}
	c := s.Counters()
	if c.Hypotheses != 0 {
		t.Errorf("needed %d hypotheses, expected none", c.Hypotheses)
	}
	if len(*solutions) != 1 || !reflect.DeepEqual((*solutions)[0], expected) {
		t.Errorf("wrong solution %v", *solutions)
	}
}

func TestSolveEmptyGrid(t *testing.T) {
	s := NewSession()
	solutions := collect(s)
	m, err := s.Solve(emptyGrid(4), Elimination, First)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if m != Backtracking {
		t.Errorf("effective method %v, expected %v", m, Backtracking)
	}
	c := s.Counters()
	if c.Hypotheses == 0 || c.Depth == 0 {
		t.Errorf("empty grid solved with %d hypotheses at depth %d", c.Hypotheses, c.Depth)
	}
	if len(*solutions) != 1 {
		t.Fatalf("found %d solutions, expected 1", len(*solutions))
	}
	validSolution(t, (*solutions)[0], 2)

	// every completion of the empty 4x4 grid
	s = NewSession()
	all := collect(s)
	if m, err := s.Solve(emptyGrid(4), ExactCover, All); err != nil || m != ExactCover {
		t.Fatalf("Solve(All) failed: method %v, error %v", m, err)
	}
	if len(*all) != 288 {
		t.Errorf("found %d completions of the empty grid, expected 288", len(*all))
	}
	if c := s.Counters(); c.Hypotheses == 0 {
		t.Errorf("exact cover search reported no hypotheses")
	}
}

/*

Unsolvable and malformed grids

*/

func TestSolveUnsolvable(t *testing.T) {
	duplicateInRow := emptyGrid(9)
	duplicateInRow[0][0], duplicateInRow[0][5] = 5, 5
	duplicateInColumn := emptyGrid(9)
	duplicateInColumn[1][3], duplicateInColumn[7][3] = 2, 2
	duplicateInBox := emptyGrid(9)
	duplicateInBox[0][0], duplicateInBox[2][2] = 9, 9
	// cell (0,8) can hold neither 1..8 (row) nor 9 (column)
	starved := emptyGrid(9)
	for c := 0; c < 8; c++ {
		starved[0][c] = c + 1
	}
	starved[4][8] = 9

	grids := [][][]int{duplicateInRow, duplicateInColumn, duplicateInBox, starved}
	for i, values := range grids {
		for _, method := range []Method{Elimination, Backtracking, ExactCover} {
			s := NewSession()
			solutions := collect(s)
			m, err := s.Solve(values, method, All)
			if err != nil {
				t.Fatalf("case %d (%v): Solve failed: %v", i, method, err)
			}
			if m != None {
				t.Errorf("case %d (%v): effective method %v, expected none", i, method, m)
			}
			if len(*solutions) != 0 || s.Counters().Solutions != 0 {
				t.Errorf("case %d (%v): found solutions to an unsolvable grid", i, method)
			}
		}
	}
}

func TestSolveMalformed(t *testing.T) {
	tooBig := emptyGrid(9)
	tooBig[4][4] = 10
	negative := emptyGrid(9)
	negative[0][0] = -1
	ragged := emptyGrid(9)
	ragged[3] = ragged[3][:5]
	cases := [][][]int{
		tooBig,
		negative,
		ragged,
		emptyGrid(5),  // not a square of a box side
		emptyGrid(36), // too large
		{},
	}
	for i, values := range cases {
		s := NewSession()
		m, err := s.Solve(values, Elimination, First)
		if err == nil {
			t.Fatalf("case %d: malformed grid was accepted", i)
		}
		if m != None {
			t.Errorf("case %d: effective method %v, expected none", i, m)
		}
		e, ok := err.(Error)
		if !ok {
			t.Fatalf("case %d: error has type %T", i, err)
		}
		if e.Scope != ArgumentScope {
			t.Errorf("case %d: error scope %v, expected ArgumentScope", i, e.Scope)
		}
	}
}

func TestSolveMethodNone(t *testing.T) {
	s := NewSession()
	m, err := s.Solve(emptyGrid(4), None, First)
	if m != None || err != nil {
		t.Errorf("Solve(None) returned %v, %v", m, err)
	}
	if m, err := s.Solve(emptyGrid(4), Method(42), First); err == nil || m != None {
		t.Errorf("unknown method was accepted")
	}
}

/*

Observers

*/

func TestSolveEvents(t *testing.T) {
	start := valuesFromStrings(t, hardStart)
	s := NewSession()
	var inits, changes, solves []GridState
	s.OnInit(func(st GridState) { inits = append(inits, st) })
	s.OnChange(func(st GridState) { changes = append(changes, st) })
	s.OnSolved(func(st GridState) { solves = append(solves, st) })
	var messages []Message
	s.OnMessage(func(m Message) { messages = append(messages, m) })
	if m, err := s.Solve(start, Elimination, First); err != nil || m == None {
		t.Fatalf("Solve failed: method %v, error %v", m, err)
	}
	if len(inits) != 1 {
		t.Fatalf("got %d init events, expected 1", len(inits))
	}
	if expected := 21; inits[0].Filled != expected {
		t.Errorf("initial state counts %d filled cells, expected %d", inits[0].Filled, expected)
	}
	if len(changes) == 0 {
		t.Errorf("no change events received")
	}
	if len(solves) != 1 {
		t.Fatalf("got %d solved events, expected 1", len(solves))
	}
	if solves[0].Filled != 81 {
		t.Errorf("solved state counts %d filled cells", solves[0].Filled)
	}
	found := false
	for _, m := range messages {
		if m.Verbosity == 0 && strings.HasPrefix(m.Text, "Solution #1") {
			found = true
		}
	}
	if !found {
		t.Errorf("no solution message received")
	}
}

// on a grid solved without hypotheses, every event concerns the
// one initial grid
func TestSolveEventGridIdentity(t *testing.T) {
	start := valuesFromStrings(t, []string{
		hardSolution[0], "..36.....", hardSolution[2], hardSolution[3], hardSolution[4],
		hardSolution[5], hardSolution[6], hardSolution[7], hardSolution[8],
	})
	s := NewSession()
	var ids []uint64
	s.OnInit(func(st GridState) { ids = append(ids, st.Grid) })
	s.OnSolved(func(st GridState) { ids = append(ids, st.Grid) })
	if m, err := s.Solve(start, Elimination, First); err != nil || m != Elimination {
		t.Fatalf("Solve failed: method %v, error %v", m, err)
	}
	if len(ids) != 2 || ids[0] != ids[1] {
		t.Errorf("init and solved events carry grid ids %v", ids)
	}
}

func TestSolveTrace(t *testing.T) {
	start := valuesFromStrings(t, []string{
		hardSolution[0], "..36.....", hardSolution[2], hardSolution[3], hardSolution[4],
		hardSolution[5], hardSolution[6], hardSolution[7], hardSolution[8],
	})
	s := NewSession()
	if m, err := s.Solve(start, Elimination, First); err != nil || m != Elimination {
		t.Fatalf("Solve failed: method %v, error %v", m, err)
	}
	trace := s.Counters().Trace
	if len(trace) != 81 {
		t.Fatalf("trace has %d entries, expected 81", len(trace))
	}
	for i, entry := range trace {
		if entry == "" {
			t.Fatalf("trace entry %d is empty", i)
		}
	}
}

func TestSolveConvenience(t *testing.T) {
	m, c, err := Solve(valuesFromStrings(t, hardSolution), Elimination, First)
	if err != nil || m != Elimination {
		t.Fatalf("Solve returned method %v, error %v", m, err)
	}
	if c.Solutions != 1 {
		t.Errorf("counters report %d solutions, expected 1", c.Solutions)
	}
}
