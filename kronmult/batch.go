package kronmult

import (
	"github.com/notargets/gosg/chunking"
)

// pair is one (row element, column element) contribution, in global
// element indices
type pair struct {
	row, col int
}

// chunkPairs flattens a chunk's row spans into the ordered pair list the
// apply loop walks. Order is row-major across spans, matching the span
// construction, so repeated applies touch memory identically.
func chunkPairs(ch chunking.Chunk) (pairs []pair) {
	pairs = make([]pair, 0, ch.NumPairs())
	for _, span := range ch.Spans {
		for c := span.ColStart; c <= span.ColStop; c++ {
			pairs = append(pairs, pair{row: span.Row, col: c})
		}
	}
	return
}
