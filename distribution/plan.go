package distribution

import (
	"fmt"
	"math"

	"github.com/notargets/gosg/elements"
	"github.com/notargets/gosg/utils"
)

// Plan maps rank id -> assigned Subgrid. Rank ids are contiguous
// [0,EffectiveRanks); it is built once at startup and immutable afterward.
type Plan map[int]Subgrid

// EffectiveRanks returns the number of ranks the distribution will actually
// use. The tiling is designed for even or perfect-square rank counts; with
// an odd non-square count the highest rank is left idle. This restriction is
// preserved from the validated implementation rather than generalized.
func EffectiveRanks(numRanks int) int {
	if numRanks%2 == 0 || isPerfectSquare(numRanks) {
		return numRanks
	}
	return numRanks - 1
}

func isPerfectSquare(n int) bool {
	root := int(math.Round(math.Sqrt(float64(n))))
	return root*root == n
}

// NumSubgridCols factors a rank count into the column dimension of the
// process grid: the nearest divisor at or below round(sqrt(numRanks)),
// falling back toward a single column for awkward counts
func NumSubgridCols(numRanks int) int {
	cols := int(math.Round(math.Sqrt(float64(numRanks))))
	for numRanks%cols != 0 {
		cols--
	}
	return cols
}

// GetSubgrid computes the tile owned by myRank when numRanks participate.
// numRanks must already be effective (even, one, or a perfect square).
func GetSubgrid(numRanks, myRank int, table *elements.Table) Subgrid {
	if numRanks < 1 || (numRanks%2 != 0 && numRanks != 1 && !isPerfectSquare(numRanks)) {
		panic(fmt.Errorf("invalid effective rank count %d", numRanks))
	}
	if myRank < 0 || myRank >= numRanks {
		panic(fmt.Errorf("rank %d out of range [0,%d)", myRank, numRanks))
	}
	if table.Size() <= numRanks {
		panic(fmt.Errorf("table of %d elements cannot feed %d ranks", table.Size(), numRanks))
	}

	if numRanks == 1 {
		return Subgrid{0, table.Size() - 1, 0, table.Size() - 1}
	}

	var (
		numSubgridCols = NumSubgridCols(numRanks)
		numSubgridRows = numRanks / numSubgridCols
		gridRowIndex   = myRank / numSubgridCols
		gridColIndex   = myRank % numSubgridCols
	)

	// split the elements into bands, remainder to the lowest-indexed bands
	var (
		leftOverCols  = table.Size() % numSubgridCols
		subgridWidth  = table.Size() / numSubgridCols
		leftOverRows  = table.Size() % numSubgridRows
		subgridHeight = table.Size() / numSubgridRows
	)

	startCol := gridColIndex*subgridWidth + utils.Min(gridColIndex, leftOverCols)
	startRow := gridRowIndex*subgridHeight + utils.Min(gridRowIndex, leftOverRows)
	stopCol := startCol + subgridWidth - 1
	if leftOverCols > gridColIndex {
		stopCol++
	}
	stopRow := startRow + subgridHeight - 1
	if leftOverRows > gridRowIndex {
		stopRow++
	}

	return Subgrid{startRow, stopRow, startCol, stopCol}
}

// NewPlan builds the rank -> subgrid mapping for a requested rank count.
// A rank with zero work is invalid, so the element count must exceed the
// rank count.
func NewPlan(numRanks int, table *elements.Table) (plan Plan, err error) {
	if numRanks < 1 {
		err = fmt.Errorf("rank count must be positive, got %d", numRanks)
		return
	}
	if table.Size() <= numRanks {
		err = fmt.Errorf("%d ranks requested for %d elements; every rank needs work",
			numRanks, table.Size())
		return
	}

	numSplits := EffectiveRanks(numRanks)
	plan = make(Plan, numSplits)
	for i := 0; i < numSplits; i++ {
		plan[i] = GetSubgrid(numSplits, i, table)
	}
	return
}
