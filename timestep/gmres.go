package timestep

import (
	"fmt"
	"math"

	"github.com/notargets/gosg/utils"
)

// GMRES solves A x = b with restarted GMRES, modified Gram-Schmidt
// Arnoldi and Givens rotations on the Hessenberg system. x carries the
// initial guess in and the solution out. Convergence is relative to
// the norm of b.
func GMRES(A utils.CSR, b, x []float64, restart, maxIter int,
	tol float64) (iters int, err error) {
	var (
		n     = len(b)
		bNorm = utils.VecNorm2(b)
		r     = make([]float64, n)
		w     = make([]float64, n)
		V     = make([][]float64, restart+1)
		h     = make([][]float64, restart+1)
		cs    = make([]float64, restart)
		sn    = make([]float64, restart)
		g     = make([]float64, restart+1)
		y     = make([]float64, restart)
	)
	if bNorm == 0 {
		utils.VecZero(x)
		return
	}
	for i := range V {
		V[i] = make([]float64, n)
		h[i] = make([]float64, restart)
	}
	for iters < maxIter {
		A.MulVec(x, r)
		for i := range r {
			r[i] = b[i] - r[i]
		}
		beta := utils.VecNorm2(r)
		if beta/bNorm < tol {
			return
		}
		utils.VecCopy(r, V[0])
		utils.VecScale(1/beta, V[0])
		utils.VecZero(g)
		g[0] = beta

		var k int
		for k = 0; k < restart && iters < maxIter; k++ {
			iters++
			A.MulVec(V[k], w)
			for i := 0; i <= k; i++ {
				h[i][k] = utils.VecDot(w, V[i])
				utils.VecAxpy(-h[i][k], V[i], w)
			}
			h[k+1][k] = utils.VecNorm2(w)
			if h[k+1][k] > 0 {
				utils.VecCopy(w, V[k+1])
				utils.VecScale(1/h[k+1][k], V[k+1])
			}
			// previously accumulated rotations, then the new one
			for i := 0; i < k; i++ {
				h[i][k], h[i+1][k] =
					cs[i]*h[i][k]+sn[i]*h[i+1][k],
					-sn[i]*h[i][k]+cs[i]*h[i+1][k]
			}
			den := math.Hypot(h[k][k], h[k+1][k])
			cs[k], sn[k] = h[k][k]/den, h[k+1][k]/den
			h[k][k] = den
			h[k+1][k] = 0
			g[k], g[k+1] = cs[k]*g[k], -sn[k]*g[k]
			if math.Abs(g[k+1])/bNorm < tol {
				k++
				break
			}
		}
		// back substitution and solution update
		for i := k - 1; i >= 0; i-- {
			y[i] = g[i]
			for j := i + 1; j < k; j++ {
				y[i] -= h[i][j] * y[j]
			}
			y[i] /= h[i][i]
		}
		for i := 0; i < k; i++ {
			utils.VecAxpy(y[i], V[i], x)
		}
	}
	A.MulVec(x, r)
	for i := range r {
		r[i] = b[i] - r[i]
	}
	if utils.VecNorm2(r)/bNorm >= tol {
		err = fmt.Errorf("gmres stalled after %d iterations, residual %g",
			iters, utils.VecNorm2(r)/bNorm)
	}
	return
}
