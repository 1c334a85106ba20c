/*
Package chunking subdivides a rank's subgrid into batches of element pairs
sized to fit a bounded workspace budget. Chunks partition the subgrid's
work, not its data: every (row, column) element pair required by the
subgrid lands in exactly one chunk, while the underlying solution vectors
stay shared and read-only within a chunk.
*/
package chunking

import (
	"fmt"

	"github.com/notargets/gosg/distribution"
	"github.com/notargets/gosg/pde"
	"github.com/notargets/gosg/utils"
)

// RowSpan is a contiguous run of connected column elements for one row
// element, in global element indices, bounds inclusive
type RowSpan struct {
	Row      int
	ColStart int
	ColStop  int
}

// Chunk is a contiguous run of element pairs in the subgrid's flattened
// row-major pair ordering, expressed as one span per covered row. Boundary
// rows may be partial.
type Chunk struct {
	Spans []RowSpan
}

// NumPairs is the number of element pairs the chunk covers
func (c Chunk) NumPairs() (n int64) {
	for _, s := range c.Spans {
		n += int64(s.ColStop - s.ColStart + 1)
	}
	return
}

// elementSizeMB estimates the transient workspace in megabytes needed for a
// single connected element pair: one reduction accumulator per PDE term,
// scratch for the Kronecker intermediates (at most two buffers are
// multiplexed across the product chain regardless of dimensionality), and
// the input/output vector segments.
func elementSizeMB(p *pde.PDE) float64 {
	getMB := func(numElems int) float64 {
		return float64(numElems) * 8 * 1e-6
	}
	var (
		elemSize      = p.ElementSegmentSize()
		numWorkspaces = utils.Min(p.NumDims()-1, 2)
	)
	reductionMB := getMB(p.NumTerms() * elemSize)
	intermediateMB := getMB(numWorkspaces * p.NumTerms() * elemSize)
	xyMB := getMB(elemSize)
	return reductionMB + intermediateMB + xyMB
}

// GetNumChunks determines how many chunks a subgrid's work must be split
// into so that each chunk's transient workspace stays under the memory
// ceiling. A ceiling too small for even one element pair is a
// configuration error.
func GetNumChunks(sub distribution.Subgrid, p *pde.PDE, memoryCeilingMB int) (numChunks int, err error) {
	if memoryCeilingMB < 1 {
		err = fmt.Errorf("memory ceiling must be positive, got %d MB", memoryCeilingMB)
		return
	}
	perElemMB := elementSizeMB(p)
	if perElemMB > float64(memoryCeilingMB) {
		err = fmt.Errorf("memory ceiling %d MB cannot fit a single element pair (%f MB)",
			memoryCeilingMB, perElemMB)
		return
	}
	// size from the per-chunk capacity so the largest chunk, not just
	// the average, stays under the ceiling
	var (
		pairsPerChunk = int64(float64(memoryCeilingMB) / perElemMB)
		total         = sub.Size()
	)
	numChunks = int((total + pairsPerChunk - 1) / pairsPerChunk)
	if numChunks < 1 {
		numChunks = 1
	}
	return
}

// AssignElements splits the subgrid's element pairs into numChunks
// contiguous runs of the flattened row-major pair range. The i'th chunk
// covers flat pairs [i*total/numChunks, (i+1)*total/numChunks), so the
// chunks tile the subgrid exactly with sizes differing by at most one.
func AssignElements(sub distribution.Subgrid, numChunks int) (chunks []Chunk) {
	if numChunks < 1 {
		panic(fmt.Errorf("chunk count must be positive, got %d", numChunks))
	}
	var (
		ncols = int64(sub.NCols())
		total = sub.Size()
	)
	if int64(numChunks) > total {
		numChunks = int(total)
	}

	chunks = make([]Chunk, numChunks)
	for i := 0; i < numChunks; i++ {
		var (
			start = int64(i) * total / int64(numChunks)
			stop  = int64(i+1) * total / int64(numChunks) // exclusive
		)
		chunk := Chunk{}
		for flat := start; flat < stop; {
			var (
				row      = sub.RowStart + int(flat/ncols)
				colStart = sub.ColStart + int(flat%ncols)
				rowEnd   = (flat/ncols + 1) * ncols // flat index one past this row
			)
			spanStop := rowEnd
			if stop < spanStop {
				spanStop = stop
			}
			colStop := sub.ColStart + int((spanStop-1)%ncols)
			chunk.Spans = append(chunk.Spans, RowSpan{row, colStart, colStop})
			flat = spanStop
		}
		chunks[i] = chunk
	}
	return
}
