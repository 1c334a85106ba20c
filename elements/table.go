package elements

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notargets/gosg/utils"
)

/*
Table enumerates the active element set of a hierarchical adaptive grid.

Each element is addressed by a coordinate vector of length 2*NumDims: the
first NumDims entries are per-dimension hierarchical levels, the last NumDims
entries are cell indices within those levels. A valid cell index for level l
lies in [0, 2^l).

Two grid modes are supported. The sparse grid retains an element iff the sum
of its per-dimension levels is within the global level bound, which is the
standard sparse grid admissibility rule. The full grid retains the complete
cross product of all levels up to the bound in every dimension.

The table is built once and immutable afterward; the coordinate-to-index and
index-to-coordinate mappings are mutual inverses.
*/
type Table struct {
	coords  []utils.Index
	index   map[string]int
	numDims int
	level   int
}

func NewTable(level, numDims int, fullGrid bool) (t *Table, err error) {
	if level < 0 {
		err = fmt.Errorf("level bound must be non-negative, got %d", level)
		return
	}
	if numDims < 1 {
		err = fmt.Errorf("number of dimensions must be positive, got %d", numDims)
		return
	}
	t = &Table{
		index:   make(map[string]int),
		numDims: numDims,
		level:   level,
	}
	levels := utils.NewIndex(numDims)
	t.addLevels(levels, 0, fullGrid)
	return
}

// addLevels enumerates per-dimension level tuples in lexicographic order,
// recursing one dimension at a time
func (t *Table) addLevels(levels utils.Index, dim int, fullGrid bool) {
	if dim == t.numDims {
		if fullGrid || levelSum(levels) <= t.level {
			t.addCells(levels)
		}
		return
	}
	for l := 0; l <= t.level; l++ {
		levels[dim] = l
		// prune: deeper dimensions only add to the level sum
		if !fullGrid && levelSum(levels[:dim+1]) > t.level {
			break
		}
		t.addLevels(levels, dim+1, fullGrid)
	}
	levels[dim] = 0
}

// addCells emits every valid cell tuple for one level tuple, again in
// lexicographic order, appending fully formed coordinates to the table
func (t *Table) addCells(levels utils.Index) {
	var (
		D     = t.numDims
		cells = utils.NewIndex(D)
	)
	for {
		coords := utils.NewIndex(2 * D)
		copy(coords, levels)
		copy(coords[D:], cells)
		t.index[coordKey(coords)] = len(t.coords)
		t.coords = append(t.coords, coords)

		// odometer increment over per-dimension cell counts
		dim := D - 1
		for dim >= 0 {
			cells[dim]++
			if cells[dim] < CellsInLevel(levels[dim]) {
				break
			}
			cells[dim] = 0
			dim--
		}
		if dim < 0 {
			return
		}
	}
}

func (t *Table) Size() int    { return len(t.coords) }
func (t *Table) NumDims() int { return t.numDims }
func (t *Table) Level() int   { return t.level }

// Coords returns the coordinate vector for linear index i. Requesting an
// out of range index is a programming error, not a recoverable one.
func (t *Table) Coords(i int) utils.Index {
	if i < 0 || i >= len(t.coords) {
		panic(fmt.Errorf("element index %d out of range [0,%d)", i, len(t.coords)))
	}
	return t.coords[i]
}

// Index is the inverse of Coords
func (t *Table) Index(coords utils.Index) int {
	i, ok := t.index[coordKey(coords)]
	if !ok {
		panic(fmt.Errorf("coordinates %v not present in element table", coords))
	}
	return i
}

// CellsInLevel returns the number of valid cells at a hierarchical level
func CellsInLevel(level int) int {
	return utils.IntPow(2, level)
}

// Get1DIndex maps a single dimension's (level, cell) pair to its position in
// that dimension's degrees-of-freedom array: levels are laid out contiguously
// in breadth-first order. Every tensor contraction and the realspace
// transform rely on this numbering being stable.
func Get1DIndex(level, cell int) int {
	if level == 0 {
		return 0
	}
	return utils.IntPow(2, level) - 1 + cell
}

// Dof1D returns the per-dimension degrees-of-freedom count implied by the
// breadth-first numbering through a level bound
func Dof1D(level int) int {
	return utils.IntPow(2, level+1) - 1
}

func levelSum(levels utils.Index) (sum int) {
	for _, l := range levels {
		sum += l
	}
	return
}

func coordKey(coords utils.Index) string {
	var sb strings.Builder
	for _, c := range coords {
		sb.WriteString(strconv.Itoa(c))
		sb.WriteByte('.')
	}
	return sb.String()
}
