package pde

import (
	"math"

	"github.com/notargets/gosg/elements"
	"github.com/notargets/gosg/utils"
)

/*
Coefficient generation builds, for each term and dimension, the 1-D
operator matrix over the hierarchical block basis. Generation runs in
two stages:

1) assemble the DG operator on the uniform grid one level below the
   deepest wavelet's break points, 2^(level+1) cells with an
   orthonormal Legendre basis per cell, periodic boundaries, upwind
   fluxes for first derivatives and composed alternating fluxes for
   second derivatives;

2) conjugate with the overlap transform T between the hierarchical
   basis and that cell basis, giving T A T^T of size
   degree*Dof1D(level) square, so an element's operator sub-block sits
   at offset degree*Get1DIndex(level, cell). The hierarchical basis is
   orthonormal, so T has orthonormal rows and mass terms are emitted
   directly as identity.
*/

// GenerateCoefficients fills Coeff for every term of p. The constant
// term scale is folded into dimension 0.
func GenerateCoefficients(p *PDE) {
	for t := range p.Terms {
		term := &p.Terms[t]
		term.Coeff = make([]utils.Matrix, p.NumDims())
		for d := range p.Dimensions {
			term.Coeff[d] = generate1D(&p.Dimensions[d], term.TypePerDim[d])
			if d == 0 && term.Scale != 1 && term.Scale != 0 {
				term.Coeff[d].Scale(term.Scale)
			}
		}
	}
}

func generate1D(dim *Dimension, ctype CoefficientType) (coeff utils.Matrix) {
	var (
		degree = dim.Degree
		level  = dim.Level
		nH     = degree * elements.Dof1D(level)
	)
	if ctype == Mass {
		coeff = utils.NewMatrix(nH, nH)
		for i := 0; i < nH; i++ {
			coeff.Set(i, i, 1)
		}
		return
	}
	var (
		A = finestOperator(dim, ctype)
		T = hierarchicalTransform(dim)
	)
	coeff = T.Mul(A).Mul(T.Transpose())
	return
}

// finestOperator assembles the periodic DG operator on the
// 2^(level+1) cell grid
func finestOperator(dim *Dimension, ctype CoefficientType) (A utils.Matrix) {
	var (
		degree = dim.Degree
		nCells = utils.IntPow(2, dim.Level+1)
		dx     = (dim.DomainMax - dim.DomainMin) / float64(nCells)
	)
	switch ctype {
	case Grad:
		A = derivativeOperator(degree, nCells, dx, true)
	case Diffusion:
		// LDG composition of alternating one-sided derivatives
		Dm := derivativeOperator(degree, nCells, dx, true)
		Dp := derivativeOperator(degree, nCells, dx, false)
		A = Dp.Mul(Dm)
	default:
		panic("unknown coefficient type")
	}
	return
}

// derivativeOperator builds the weak-form d/dx matrix with a one-sided
// flux, taking the trace from the left cell when upwind is true and
// from the right cell otherwise. Boundaries wrap periodically.
func derivativeOperator(degree, nCells int, dx float64, upwind bool) (D utils.Matrix) {
	var (
		n          = degree * nCells
		jac        = 2 / dx
		S          = stiffnessBlock(degree)
		phiL, phiR = traceValues(degree)
	)
	D = utils.NewMatrix(n, n)
	for k := 0; k < nCells; k++ {
		var (
			self  = k * degree
			left  = ((k - 1 + nCells) % nCells) * degree
			right = ((k + 1) % nCells) * degree
		)
		for i := 0; i < degree; i++ {
			for j := 0; j < degree; j++ {
				// volume term, integrated by parts
				v := -S.At(j, i)
				if upwind {
					v += phiR[i] * phiR[j]
					D.Set(self+i, left+j, D.At(self+i, left+j)-
						jac*phiL[i]*phiR[j])
				} else {
					v -= phiL[i] * phiL[j]
					D.Set(self+i, right+j, D.At(self+i, right+j)+
						jac*phiR[i]*phiL[j])
				}
				D.Set(self+i, self+j, D.At(self+i, self+j)+jac*v)
			}
		}
	}
	return
}

// stiffnessBlock computes S[i][j] = integral of phi_i phi_j' over the
// reference cell for the orthonormal Legendre basis
func stiffnessBlock(degree int) (S utils.Matrix) {
	X, W := LegendreGQ(degree - 1)
	x, w := X.Data(), W.Data()
	S = utils.NewMatrix(degree, degree)
	for q := 0; q < degree; q++ {
		for i := 0; i < degree; i++ {
			pi := LegendreP(x[q], i)
			for j := 0; j < degree; j++ {
				S.Set(i, j, S.At(i, j)+w[q]*pi*GradLegendreP(x[q], j))
			}
		}
	}
	return
}

func traceValues(degree int) (phiL, phiR []float64) {
	phiL = make([]float64, degree)
	phiR = make([]float64, degree)
	for i := 0; i < degree; i++ {
		phiL[i] = LegendreP(-1, i)
		phiR[i] = LegendreP(1, i)
	}
	return
}

// hierarchicalTransform returns the overlap matrix between the
// hierarchical basis and the finest cell basis, degree*Dof1D(level)
// rows by degree*2^(level+1) columns. Block (l, c) meets finest cell k
// only when k nests inside its support, and no finest cell straddles a
// wavelet break, so per-cell Gauss quadrature is exact.
func hierarchicalTransform(dim *Dimension) (T utils.Matrix) {
	var (
		degree = dim.Degree
		level  = dim.Level
		nCells = utils.IntPow(2, level+1)
		dx     = (dim.DomainMax - dim.DomainMin) / float64(nCells)
		hb     = NewHierarchicalBasis(degree)
		X, W   = LegendreGQ(degree - 1)
		x, w   = X.Data(), W.Data()
		norm   = math.Sqrt(dx / 2)
	)
	T = utils.NewMatrix(degree*elements.Dof1D(level), degree*nCells)
	for l := 0; l <= level; l++ {
		span := nCells / utils.IntPow(2, l)
		for c := 0; c < elements.CellsInLevel(l); c++ {
			row0 := degree * elements.Get1DIndex(l, c)
			for k := c * span; k < (c+1)*span; k++ {
				var (
					col0  = degree * k
					xLeft = dim.DomainMin + float64(k)*dx
				)
				for q := 0; q < degree; q++ {
					xq := xLeft + dx*(x[q]+1)/2
					for i := 0; i < degree; i++ {
						phi := hb.Eval(dim.DomainMin, dim.DomainMax, l, c, i, xq)
						for j := 0; j < degree; j++ {
							T.Set(row0+i, col0+j, T.At(row0+i, col0+j)+
								norm*w[q]*phi*LegendreP(x[q], j))
						}
					}
				}
			}
		}
	}
	return
}
