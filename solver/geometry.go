package solver

import (
	"fmt"
	"sync"
)

/*

Grid geometry

The geometry of a grid depends only on its side length, so it is
computed once per side length and shared by every grid (and every
clone of a grid) of that size.  A layout describes the regions
(rows, columns and boxes) and the box/line intersections as index
vectors into the grid's cell slice; grids never hold pointers into
their own structure, which makes cloning a plain copy.

*/

// value names, in display order; the side length bounds how many
// are used
const valueNames = "123456789abcdefghijklmnop"

const rowLetters = "ABCDEFGHIJKLMNOPQRSTUVWXY"

// minimum and maximum box side of a supported grid
const (
	MinBoxLength = 2
	MaxBoxLength = 5
)

// tables precomputed for one side length: the bit-population count
// of every candidate bitset, and every bitset grouped by ascending
// population count.
type tables struct {
	sidelen  int
	boxlen   int
	all      uint32  // bitset with one bit per possible value
	popcount []uint8 // indexed by bitset
	subsets  []uint32
	groupEnd []int // subsets[groupEnd[k-1]:groupEnd[k]] have popcount k
}

type regionKind int

const (
	rowRegion regionKind = iota
	columnRegion
	boxRegion
)

// a regionInfo describes one row, column or box as cell indexes
type regionInfo struct {
	kind  regionKind
	name  string
	cells []int
}

// an intersectionInfo describes the crossing of a box and a line
// (row or column) through its two complements: the cells of the box
// outside the line, and the cells of the line outside the box.
type intersectionInfo struct {
	name     string
	boxRest  []int
	lineRest []int
}

// the layout of all grids of a given side length
type layout struct {
	*tables
	cellNames     []string
	regions       []regionInfo
	intersections []intersectionInfo
	cellRegions   [][]int // per cell, the regions containing it
	cellInters    [][]int // per cell, the intersections whose complements contain it
}

var (
	layoutMutex  sync.Mutex
	knownLayouts = make(map[int]*layout)
)

// layoutFor returns the shared layout for the given box side
// length, computing and remembering it on first use.
func layoutFor(boxlen int) *layout {
	layoutMutex.Lock()
	defer layoutMutex.Unlock()
	if l, ok := knownLayouts[boxlen]; ok {
		return l
	}
	l := newLayout(boxlen)
	knownLayouts[boxlen] = l
	return l
}

func newTables(boxlen int) *tables {
	sidelen := boxlen * boxlen
	t := &tables{
		sidelen: sidelen,
		boxlen:  boxlen,
		all:     uint32(1)<<uint(sidelen) - 1,
	}
	t.popcount = make([]uint8, 1<<uint(sidelen))
	for i := 1; i < len(t.popcount); i++ {
		t.popcount[i] = t.popcount[i>>1] + uint8(i&1)
	}
	// counting sort of all bitsets by population count
	counts := make([]int, sidelen+1)
	for _, n := range t.popcount {
		counts[n]++
	}
	t.groupEnd = make([]int, sidelen+1)
	next := make([]int, sidelen+1)
	sum := 0
	for k := 0; k <= sidelen; k++ {
		next[k] = sum
		sum += counts[k]
		t.groupEnd[k] = sum
	}
	t.subsets = make([]uint32, len(t.popcount))
	for i, n := range t.popcount {
		t.subsets[next[n]] = uint32(i)
		next[n]++
	}
	return t
}

// group returns all the bitsets of population count k, in
// ascending numeric order.
func (t *tables) group(k int) []uint32 {
	return t.subsets[t.groupEnd[k-1]:t.groupEnd[k]]
}

func rowName(i int) byte {
	return rowLetters[i]
}

// column names are lowercase letters; on grids of side 9 or less
// they start where the row names stop, so rows and columns cannot
// be confused.
func columnName(sidelen, i int) byte {
	if sidelen <= 9 {
		i += sidelen
	}
	return rowLetters[i] + 'a' - 'A'
}

func valueName(v int) byte {
	return valueNames[v-1]
}

func newLayout(boxlen int) *layout {
	if boxlen < MinBoxLength || boxlen > MaxBoxLength {
		panic(fmt.Sprintf("unsupported box side length %d", boxlen))
	}
	t := newTables(boxlen)
	n := t.sidelen
	l := &layout{
		tables:      t,
		cellNames:   make([]string, n*n),
		cellRegions: make([][]int, n*n),
		cellInters:  make([][]int, n*n),
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			l.cellNames[r*n+c] = string([]byte{rowName(r), columnName(n, c)})
		}
	}

	// regions: rows, then columns, then boxes
	for r := 0; r < n; r++ {
		cells := make([]int, n)
		for c := 0; c < n; c++ {
			cells[c] = r*n + c
		}
		l.regions = append(l.regions, regionInfo{
			kind:  rowRegion,
			name:  fmt.Sprintf("Row %c", rowName(r)),
			cells: cells,
		})
	}
	for c := 0; c < n; c++ {
		cells := make([]int, n)
		for r := 0; r < n; r++ {
			cells[r] = r*n + c
		}
		l.regions = append(l.regions, regionInfo{
			kind:  columnRegion,
			name:  fmt.Sprintf("Column %c", columnName(n, c)),
			cells: cells,
		})
	}
	for br := 0; br < boxlen; br++ {
		for bc := 0; bc < boxlen; bc++ {
			cells := make([]int, 0, n)
			for r := br * boxlen; r < (br+1)*boxlen; r++ {
				for c := bc * boxlen; c < (bc+1)*boxlen; c++ {
					cells = append(cells, r*n+c)
				}
			}
			l.regions = append(l.regions, regionInfo{
				kind:  boxRegion,
				name:  fmt.Sprintf("Box %s-%s", l.cellNames[cells[0]], l.cellNames[cells[n-1]]),
				cells: cells,
			})
		}
	}
	for ri, reg := range l.regions {
		for _, ci := range reg.cells {
			l.cellRegions[ci] = append(l.cellRegions[ci], ri)
		}
	}

	// intersections: each box crossed with each of its rows, then
	// with each of its columns
	inBox := func(box regionInfo, ci int) bool {
		r, c := ci/n, ci%n
		br, bc := (box.cells[0])/n, (box.cells[0])%n
		return r >= br && r < br+boxlen && c >= bc && c < bc+boxlen
	}
	for bi := 2 * n; bi < 3*n; bi++ {
		box := l.regions[bi]
		for li := 0; li < 2*n; li++ {
			line := l.regions[li]
			var common, boxRest, lineRest []int
			for _, ci := range line.cells {
				if inBox(box, ci) {
					common = append(common, ci)
				} else {
					lineRest = append(lineRest, ci)
				}
			}
			if len(common) != boxlen {
				continue
			}
			for _, ci := range box.cells {
				if line.kind == rowRegion && ci/n == common[0]/n {
					continue
				}
				if line.kind == columnRegion && ci%n == common[0]%n {
					continue
				}
				boxRest = append(boxRest, ci)
			}
			l.intersections = append(l.intersections, intersectionInfo{
				name:     fmt.Sprintf("Segment %s-%s", l.cellNames[common[0]], l.cellNames[common[len(common)-1]]),
				boxRest:  boxRest,
				lineRest: lineRest,
			})
		}
	}
	for ii, inter := range l.intersections {
		for _, ci := range inter.boxRest {
			l.cellInters[ci] = append(l.cellInters[ci], ii)
		}
		for _, ci := range inter.lineRest {
			l.cellInters[ci] = append(l.cellInters[ci], ii)
		}
	}
	return l
}
