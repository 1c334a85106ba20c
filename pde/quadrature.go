package pde

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gosg/utils"
)

// LegendreGQ computes the N+1 point Legendre-Gauss quadrature rule on
// [-1,1] by the Golub-Welsch eigenvalue method (the alpha=beta=0 reduction
// of the Jacobi rule)
func LegendreGQ(N int) (X, W utils.Vector) {
	if N == 0 {
		return utils.NewVector(1, []float64{0}), utils.NewVector(1, []float64{2})
	}

	// symmetric tridiagonal Jacobi matrix: zero diagonal, off-diagonal
	// b_i = (i+1)/sqrt((2i+1)(2i+3))
	d1 := make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 := float64(i + 1)
		d1[i] = ip1 / math.Sqrt((2*ip1-1)*(2*ip1+1))
	}
	JJ := mat.NewSymBandDense(N+1, 1, make([]float64, (N+1)*2))
	for i := 0; i < N; i++ {
		JJ.SetSymBand(i, i+1, d1[i])
	}

	var eig mat.EigenSym
	ok := eig.Factorize(JJ, true)
	if !ok {
		panic("eigenvalue decomposition failed")
	}
	x := eig.Values(nil)
	X = utils.NewVector(N+1, x)

	VVr := mat.NewDense(len(x), len(x), nil)
	eig.VectorsTo(VVr)
	W = utils.NewVector(len(x), append([]float64{}, VVr.RawRowView(0)...))
	W.Apply(func(v float64) float64 { return 2 * v * v })
	return
}

// LegendreP evaluates the orthonormal Legendre polynomial of order j at x,
// normalized so that its L2 inner product with itself on [-1,1] is one
func LegendreP(x float64, j int) float64 {
	var (
		pm1 = 1.0
		p   = x
	)
	if j == 0 {
		p = 1
	}
	for n := 1; n < j; n++ {
		fn := float64(n)
		pnext := ((2*fn+1)*x*p - fn*pm1) / (fn + 1)
		pm1, p = p, pnext
	}
	return p * math.Sqrt((2*float64(j)+1)/2)
}

// GradLegendreP evaluates the derivative of the orthonormal Legendre
// polynomial of order j at x, via the derivative recurrence
// P'_{n+1} = P'_{n-1} + (2n+1) P_n
func GradLegendreP(x float64, j int) float64 {
	if j == 0 {
		return 0
	}
	var (
		pm1, p   = 1.0, x
		dpm1, dp = 0.0, 1.0
	)
	for n := 1; n < j; n++ {
		fn := float64(n)
		pnext := ((2*fn+1)*x*p - fn*pm1) / (fn + 1)
		dpnext := dpm1 + (2*fn+1)*p
		pm1, p = p, pnext
		dpm1, dp = dp, dpnext
	}
	return dp * math.Sqrt((2*float64(j)+1)/2)
}
