package kronmult

import (
	"github.com/notargets/gosg/chunking"
	"github.com/notargets/gosg/distribution"
	"github.com/notargets/gosg/elements"
	"github.com/notargets/gosg/pde"
	"github.com/notargets/gosg/utils"
)

// ApplyA computes fx = A*x over the rank's subgrid, one chunk at a
// time. x is the column-band input in host.X, the result lands in
// host.Fx as a row-band vector. Per element pair, each term's Kronecker
// chain is applied to the column segment; the per-term outputs collect
// in the reduction workspace and fold into the row segment through the
// unit vector.
func ApplyA(p *pde.PDE, table *elements.Table, sub distribution.Subgrid,
	chunks []chunking.Chunk, host *chunking.HostWorkspace, ws *BatchWorkspace) {
	var (
		segSize = p.ElementSegmentSize()
		numDims = p.NumDims()
		degree  = ws.degree
	)
	utils.VecZero(host.Fx)
	for _, ch := range chunks {
		for _, pr := range chunkPairs(ch) {
			var (
				rowCoords = table.Coords(pr.row)
				colCoords = table.Coords(pr.col)
				xSeg      = segment(host.X, sub.ToLocalCol(pr.col), segSize)
				fxSeg     = segment(host.Fx, sub.ToLocalRow(pr.row), segSize)
				red       = ws.reduction.Data()
				numTerms  = p.NumTerms()
			)
			for t := range p.Terms {
				for d := 0; d < numDims; d++ {
					var (
						rowOff = degree * elements.Get1DIndex(
							rowCoords[d], rowCoords[numDims+d])
						colOff = degree * elements.Get1DIndex(
							colCoords[d], colCoords[numDims+d])
					)
					extractBlock(p.Terms[t].Coeff[d], rowOff, colOff,
						ws.blocks[d])
				}
				ws.kronApply(xSeg, ws.termOut)
				// reduction is row-major segSize x numTerms
				for i := 0; i < segSize; i++ {
					red[i*numTerms+t] = ws.termOut[i]
				}
			}
			ws.reduction.MatVec(ws.unit, fxSeg)
		}
	}
}

func segment(v []float64, localElem, segSize int) []float64 {
	return v[localElem*segSize : (localElem+1)*segSize]
}

// extractBlock copies a degree-square sub-block of a coefficient matrix
// into dst
func extractBlock(coeff utils.Matrix, rowOff, colOff int, dst utils.Matrix) {
	deg, _ := dst.Dims()
	for i := 0; i < deg; i++ {
		for j := 0; j < deg; j++ {
			dst.Set(i, j, coeff.At(rowOff+i, colOff+j))
		}
	}
}
