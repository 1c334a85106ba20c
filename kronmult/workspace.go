/*
Package kronmult applies the separable operator sum to the element
vector. Every (row element, column element) pair contributes, per term,
the action of a Kronecker product of small per-dimension coefficient
blocks on the column's segment of the input vector; the per-term
results reduce into the row's segment of the output.

Products are never formed explicitly during the solve. The dense
KronProduct path exists only for the realspace transform, where the
assembled matrix is genuinely needed.
*/
package kronmult

import (
	"github.com/notargets/gosg/pde"
	"github.com/notargets/gosg/utils"
)

// BatchWorkspace holds the scratch memory one rank reuses across every
// element pair it processes. Sizes depend only on degree, dimension
// count and term count, not on the grid.
type BatchWorkspace struct {
	pingA, pingB []float64      // kron intermediates, one segment each
	termOut      []float64      // one term's finished segment
	blocks       []utils.Matrix // per-dimension coefficient sub-blocks
	reduction    utils.Matrix   // per-term outputs, segSize x numTerms
	unit         []float64      // ones, length numTerms
	degree       int
	numDims      int
}

func NewBatchWorkspace(p *pde.PDE) (ws *BatchWorkspace) {
	var (
		segSize  = p.ElementSegmentSize()
		numTerms = p.NumTerms()
		degree   = p.Dimensions[0].Degree
	)
	ws = &BatchWorkspace{
		pingA:     make([]float64, segSize),
		pingB:     make([]float64, segSize),
		termOut:   make([]float64, segSize),
		blocks:    make([]utils.Matrix, p.NumDims()),
		reduction: utils.NewMatrix(segSize, numTerms),
		unit:      utils.ConstArray(numTerms, 1),
		degree:    degree,
		numDims:   p.NumDims(),
	}
	for d := range ws.blocks {
		ws.blocks[d] = utils.NewMatrix(degree, degree)
	}
	return
}

// SizeMB reports the workspace footprint in megabytes of float64 storage
func (ws *BatchWorkspace) SizeMB() float64 {
	var (
		n          = len(ws.pingA) + len(ws.pingB) + len(ws.termOut) + len(ws.unit)
		rows, cols = ws.reduction.Dims()
	)
	n += rows * cols
	n += len(ws.blocks) * ws.degree * ws.degree
	return float64(8*n) / (1 << 20)
}
