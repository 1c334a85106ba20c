package transform

import (
	"github.com/notargets/gosg/elements"
	"github.com/notargets/gosg/kronmult"
	"github.com/notargets/gosg/pde"
	"github.com/notargets/gosg/utils"
)

// GenRealspaceTransform builds, per dimension, the evaluation matrix
// from hierarchical coefficients to values at the Gauss points of every
// cell of the 2^(level+1) grid: degree*2^(level+1) rows by
// degree*Dof1D(level) columns
func GenRealspaceTransform(p *pde.PDE) (trans []utils.Matrix) {
	trans = make([]utils.Matrix, p.NumDims())
	for d := range p.Dimensions {
		trans[d] = realspaceTransform1D(&p.Dimensions[d])
	}
	return
}

// RealspacePoints returns one dimension's sample coordinates in the
// order the realspace vector is laid out
func RealspacePoints(dim *pde.Dimension) (points []float64) {
	var (
		degree = dim.Degree
		nCells = utils.IntPow(2, dim.Level+1)
		dx     = (dim.DomainMax - dim.DomainMin) / float64(nCells)
		X, _   = pde.LegendreGQ(degree - 1)
		x      = X.Data()
	)
	points = make([]float64, nCells*degree)
	for k := 0; k < nCells; k++ {
		for q := 0; q < degree; q++ {
			points[k*degree+q] = dim.DomainMin + dx*(float64(k)+(x[q]+1)/2)
		}
	}
	return
}

func realspaceTransform1D(dim *pde.Dimension) (Q utils.Matrix) {
	var (
		degree = dim.Degree
		level  = dim.Level
		hb     = pde.NewHierarchicalBasis(degree)
		points = RealspacePoints(dim)
	)
	Q = utils.NewMatrix(len(points), degree*elements.Dof1D(level))
	for l := 0; l <= level; l++ {
		for c := 0; c < elements.CellsInLevel(l); c++ {
			col0 := degree * elements.Get1DIndex(l, c)
			for row, x := range points {
				for i := 0; i < degree; i++ {
					Q.Set(row, col0+i,
						hb.Eval(dim.DomainMin, dim.DomainMax, l, c, i, x))
				}
			}
		}
	}
	return
}

// WaveletToRealspace evaluates the element vector at the realspace
// sample points. Per element, the per-dimension column slices of the
// transform matrices are assembled into a dense Kronecker product under
// the workspace ceiling and applied to the element's segment.
func WaveletToRealspace(p *pde.PDE, table *elements.Table,
	trans []utils.Matrix, x []float64, limitMB int) (real []float64) {
	var (
		degree  = p.Dimensions[0].Degree
		numDims = p.NumDims()
		segSize = p.ElementSegmentSize()
		n1D, _  = trans[0].Dims()
		slices  = make([]utils.Matrix, numDims)
	)
	real = make([]float64, utils.IntPow(n1D, numDims))
	for elem := 0; elem < table.Size(); elem++ {
		coords := table.Coords(elem)
		for d := 0; d < numDims; d++ {
			var (
				rows, _ = trans[d].Dims()
				off     = degree * elements.Get1DIndex(coords[d], coords[numDims+d])
			)
			slices[d] = trans[d].Slice(0, rows, off, off+degree)
		}
		kron := kronmult.KronProduct(slices, limitMB)
		kron.MatVec(x[elem*segSize:(elem+1)*segSize], real)
	}
	return
}
