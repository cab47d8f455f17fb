package solver

import (
	"testing"
)

func TestPlacementLabels(t *testing.T) {
	cases := []struct {
		r, c, v int
		label   string
	}{
		{0, 0, 1, "R1C1N1"},
		{8, 8, 9, "R9C9N9"},
		{0, 2, 5, "R1C3N5"},
		{9, 6, 16, "RaC7Ng"}, // 16x16 indexes use the value names
	}
	for i, c := range cases {
		if label := placementSubset(c.r, c.c, c.v); label != c.label {
			t.Errorf("case %d: placement (%d,%d,%d) labeled %q, expected %q", i, c.r, c.c, c.v, label, c.label)
		}
		r, cc, v, err := decodePlacement(c.label)
		if err != nil || r != c.r || cc != c.c || v != c.v {
			t.Errorf("case %d: %q decoded to (%d,%d,%d), %v", i, c.label, r, cc, v, err)
		}
	}
	for i, label := range []string{"", "R1C1", "X1C1N1", "R1C1Nz", "R1C1N10"} {
		if _, _, _, err := decodePlacement(label); err == nil {
			t.Errorf("case %d: malformed label %q was decoded", i, label)
		}
	}
}

func TestConstraintColumns(t *testing.T) {
	cases := []struct {
		label    string
		expected string
	}{
		{cellColumn(0, 0), "R1C1"},
		{rowColumn(8, 9), "R9N9"},
		{colColumn(2, 4), "C3N4"},
		{boxColumn(3, 4, 7, 1), "B6N1"},
	}
	for i, c := range cases {
		if c.label != c.expected {
			t.Errorf("case %d: got label %q, expected %q", i, c.label, c.expected)
		}
	}
}
