package pde

import (
	"math"

	"github.com/notargets/gosg/utils"
)

/*
HierarchicalBasis is the orthonormal 1-D basis behind the (level, cell)
block numbering. The level 0 block holds the orthonormal Legendre modes
over the whole domain; the level l block holds, per cell, the degree
multiwavelet functions spanning the detail space between levels l and
l+1. A wavelet is polynomial on each half of its cell with a break at
the center, and is orthogonal to every polynomial of lower level over
its support, which is what makes all blocks mutually orthonormal.

The mother wavelets are built once on the reference cell [-1,1] split
at zero, represented in the orthonormal half-cell Legendre basis, and
reused at every level by dilation.
*/
type HierarchicalBasis struct {
	degree int
	w      utils.Matrix // degree x 2*degree mother wavelet coefficients
}

func NewHierarchicalBasis(degree int) (hb *HierarchicalBasis) {
	hb = &HierarchicalBasis{
		degree: degree,
		w:      motherWavelets(degree),
	}
	return
}

// motherWavelets orthonormalizes the complement of the whole-cell
// polynomials within the split-cell space. G holds the whole-cell
// Legendre modes expressed in the orthonormal half-cell basis; the
// wavelets are an orthonormal basis of the null space of that
// projection, extracted by Gram-Schmidt with norm pivoting.
func motherWavelets(k int) (w utils.Matrix) {
	var (
		X, W = LegendreGQ(k - 1)
		x, q = X.Data(), W.Data()
		G    = utils.NewMatrix(k, 2*k)
	)
	for h := 0; h < 2; h++ {
		for n := 0; n < k; n++ {
			// half-cell quadrature point in whole-cell coordinates
			xi := (x[n] - 1) / 2
			if h == 1 {
				xi = (x[n] + 1) / 2
			}
			for i := 0; i < k; i++ {
				for j := 0; j < k; j++ {
					G.Set(i, h*k+j, G.At(i, h*k+j)+
						q[n]/2*LegendreP(xi, i)*math.Sqrt2*LegendreP(x[n], j))
				}
			}
		}
	}

	// projector onto the complement: P = I - G^T G
	P := utils.NewMatrix(2*k, 2*k)
	for i := 0; i < 2*k; i++ {
		P.Set(i, i, 1)
	}
	for i := 0; i < 2*k; i++ {
		for j := 0; j < 2*k; j++ {
			var dot float64
			for m := 0; m < k; m++ {
				dot += G.At(m, i) * G.At(m, j)
			}
			P.Set(i, j, P.At(i, j)-dot)
		}
	}

	// columns of P span the k-dimensional complement
	cols := make([][]float64, 2*k)
	for j := range cols {
		cols[j] = make([]float64, 2*k)
		for i := 0; i < 2*k; i++ {
			cols[j][i] = P.At(i, j)
		}
	}
	w = utils.NewMatrix(k, 2*k)
	for row := 0; row < k; row++ {
		// pivot on the largest remaining column
		best := 0
		for j := 1; j < 2*k; j++ {
			if utils.VecNorm2(cols[j]) > utils.VecNorm2(cols[best]) {
				best = j
			}
		}
		// copy the pivot so the deflation sweep below cannot zero it
		// through cols[best]
		v := append([]float64(nil), cols[best]...)
		utils.VecScale(1/utils.VecNorm2(v), v)
		for i := 0; i < 2*k; i++ {
			w.Set(row, i, v[i])
		}
		for j := range cols {
			utils.VecAxpy(-utils.VecDot(v, cols[j]), v, cols[j])
		}
	}
	return
}

func (hb *HierarchicalBasis) Degree() int { return hb.degree }

// Eval evaluates basis function i of block (level, cell) at x over the
// domain [min, max]. Outside the block's support the value is zero.
func (hb *HierarchicalBasis) Eval(min, max float64, level, cell, i int, x float64) float64 {
	if level == 0 {
		var (
			width = max - min
			xi    = 2*(x-min)/width - 1
		)
		return math.Sqrt(2/width) * LegendreP(xi, i)
	}
	var (
		width = (max - min) / float64(utils.IntPow(2, level))
		left  = min + float64(cell)*width
		xi    = 2*(x-left)/width - 1
	)
	if xi < -1 || xi > 1 {
		return 0
	}
	return math.Sqrt(2/width) * hb.evalMother(i, xi)
}

// evalMother evaluates mother wavelet i at a reference coordinate. The
// break sits at zero; each side is a half-cell Legendre expansion.
func (hb *HierarchicalBasis) evalMother(i int, xi float64) (v float64) {
	var (
		k   = hb.degree
		h   = 0
		eta = 2*xi + 1
	)
	if xi >= 0 {
		h = 1
		eta = 2*xi - 1
	}
	for j := 0; j < k; j++ {
		v += hb.w.At(i, h*k+j) * math.Sqrt2 * LegendreP(eta, j)
	}
	return
}
