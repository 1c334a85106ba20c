package timestep

import (
	"github.com/notargets/gosg/elements"
	"github.com/notargets/gosg/pde"
	"github.com/notargets/gosg/utils"
)

// BuildSystemMatrix assembles the operator over the whole element table
// into sparse triplet form. Each (row, col) element pair contributes,
// per term, the explicit Kronecker product of its per-dimension
// coefficient blocks. The implicit path owns the full system, so no
// subgrid restriction applies here.
func BuildSystemMatrix(p *pde.PDE, table *elements.Table) (A utils.DOK) {
	var (
		degree  = p.Dimensions[0].Degree
		numDims = p.NumDims()
		segSize = p.ElementSegmentSize()
		n       = table.Size() * segSize
		blocks  = make([]utils.Matrix, numDims)
	)
	for d := range blocks {
		blocks[d] = utils.NewMatrix(degree, degree)
	}
	A = utils.NewDOK(n, n)
	for row := 0; row < table.Size(); row++ {
		rowCoords := table.Coords(row)
		for col := 0; col < table.Size(); col++ {
			colCoords := table.Coords(col)
			for t := range p.Terms {
				for d := 0; d < numDims; d++ {
					var (
						rowOff = degree * elements.Get1DIndex(
							rowCoords[d], rowCoords[numDims+d])
						colOff = degree * elements.Get1DIndex(
							colCoords[d], colCoords[numDims+d])
					)
					copyBlock(p.Terms[t].Coeff[d], rowOff, colOff, blocks[d])
				}
				accumulateKron(A, blocks, row*segSize, col*segSize)
			}
		}
	}
	return
}

func copyBlock(coeff utils.Matrix, rowOff, colOff int, dst utils.Matrix) {
	deg, _ := dst.Dims()
	for i := 0; i < deg; i++ {
		for j := 0; j < deg; j++ {
			dst.Set(i, j, coeff.At(rowOff+i, colOff+j))
		}
	}
}

// accumulateKron adds the Kronecker product of the block chain into A
// at the given offsets, entry by entry
func accumulateKron(A utils.DOK, blocks []utils.Matrix, rowOff, colOff int) {
	var (
		deg, _  = blocks[0].Dims()
		numDims = len(blocks)
		seg     = utils.IntPow(deg, numDims)
	)
	for i := 0; i < seg; i++ {
		for j := 0; j < seg; j++ {
			var (
				v      = 1.0
				ri, ci = i, j
			)
			for d := numDims - 1; d >= 0; d-- {
				v *= blocks[d].At(ri%deg, ci%deg)
				ri /= deg
				ci /= deg
			}
			A.Accumulate(rowOff+i, colOff+j, v)
		}
	}
}
