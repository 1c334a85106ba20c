package distribution

import "fmt"

// Subgrid is one rank's rectangular tile of the implicit element x element
// operator matrix. Bounds are inclusive global element indices. The union of
// all ranks' subgrids tiles the full matrix exactly once.
type Subgrid struct {
	RowStart, RowStop int
	ColStart, ColStop int
}

func (s Subgrid) NRows() int { return s.RowStop - s.RowStart + 1 }
func (s Subgrid) NCols() int { return s.ColStop - s.ColStart + 1 }

// Size is the number of element pairs the subgrid covers
func (s Subgrid) Size() int64 {
	return int64(s.NRows()) * int64(s.NCols())
}

// ToLocalRow translates a global element index into this subgrid's local row
// numbering
func (s Subgrid) ToLocalRow(globalIndex int) int {
	local := globalIndex - s.RowStart
	if local < 0 || local >= s.NRows() {
		panic(fmt.Errorf("global index %d outside subgrid rows [%d,%d]",
			globalIndex, s.RowStart, s.RowStop))
	}
	return local
}

// ToLocalCol translates a global element index into this subgrid's local
// column numbering
func (s Subgrid) ToLocalCol(globalIndex int) int {
	local := globalIndex - s.ColStart
	if local < 0 || local >= s.NCols() {
		panic(fmt.Errorf("global index %d outside subgrid cols [%d,%d]",
			globalIndex, s.ColStart, s.ColStop))
	}
	return local
}
