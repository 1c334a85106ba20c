/*
Package transform moves data between separable 1-D representations and
the multi-dimensional element vector, and back out to pointwise values
for inspection and error measurement.

A function that separates per dimension is projected one dimension at a
time onto the hierarchical basis, then combined per element by a small
Kronecker product of each dimension's coefficient segment. The reverse
direction evaluates the basis at the quadrature points of the grid one
level below the deepest wavelet breaks.
*/
package transform

import (
	"github.com/notargets/gosg/elements"
	"github.com/notargets/gosg/pde"
	"github.com/notargets/gosg/utils"
)

// ForwardTransform projects a single dimension's profile onto that
// dimension's hierarchical basis, returning degree*Dof1D(level)
// coefficients ordered by the breadth-first block numbering.
// Quadrature runs per cell of the 2^(level+1) grid so that no interval
// straddles a wavelet break.
func ForwardTransform(dim *pde.Dimension, f pde.VectorFunc, t float64) (fx []float64) {
	var (
		degree = dim.Degree
		level  = dim.Level
		nCells = utils.IntPow(2, level+1)
		dx     = (dim.DomainMax - dim.DomainMin) / float64(nCells)
		hb     = pde.NewHierarchicalBasis(degree)
		X, W   = pde.LegendreGQ(degree - 1)
		x, w   = X.Data(), W.Data()
	)
	fx = make([]float64, degree*elements.Dof1D(level))

	// evaluate the profile once per finest quadrature point
	xq := make([]float64, nCells*degree)
	for k := 0; k < nCells; k++ {
		for q := 0; q < degree; q++ {
			xq[k*degree+q] = dim.DomainMin + dx*(float64(k)+(x[q]+1)/2)
		}
	}
	fq := f(xq, t)

	for l := 0; l <= level; l++ {
		span := nCells / utils.IntPow(2, l)
		for c := 0; c < elements.CellsInLevel(l); c++ {
			off := degree * elements.Get1DIndex(l, c)
			for k := c * span; k < (c+1)*span; k++ {
				for q := 0; q < degree; q++ {
					var (
						point  = xq[k*degree+q]
						weight = w[q] * dx / 2 * fq[k*degree+q]
					)
					for i := 0; i < degree; i++ {
						fx[off+i] += weight *
							hb.Eval(dim.DomainMin, dim.DomainMax, l, c, i, point)
					}
				}
			}
		}
	}
	return
}

// CombineDimensions assembles the element vector for a contiguous
// element range from per-dimension coefficient arrays. Each element's
// segment is the Kronecker product of the degree-length slices at that
// element's per-dimension offsets, scaled by timeScale.
func CombineDimensions(degree int, table *elements.Table, startElem, stopElem int,
	perDim [][]float64, timeScale float64) (combined []float64) {
	var (
		numDims = table.NumDims()
		segSize = utils.IntPow(degree, numDims)
	)
	combined = make([]float64, (stopElem-startElem+1)*segSize)
	for elem := startElem; elem <= stopElem; elem++ {
		var (
			coords = table.Coords(elem)
			seg    = combined[(elem-startElem)*segSize:]
		)
		kronSegments(degree, numDims, coords, perDim, seg[:segSize])
		utils.VecScale(timeScale, seg[:segSize])
	}
	return
}

// kronSegments writes the Kronecker product of each dimension's
// degree-length coefficient slice into out
func kronSegments(degree, numDims int, coords utils.Index,
	perDim [][]float64, out []float64) {
	for i := range out {
		var (
			v   = 1.0
			rem = i
		)
		for d := numDims - 1; d >= 0; d-- {
			var (
				idx = rem % degree
				off = degree * elements.Get1DIndex(coords[d], coords[numDims+d])
			)
			v *= perDim[d][off+idx]
			rem /= degree
		}
		out[i] = v
	}
	return
}
