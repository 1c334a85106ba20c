package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gosg/elements"
	"github.com/notargets/gosg/pde"
	"github.com/notargets/gosg/utils"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestForwardTransform(t *testing.T) {
	// a constant projects onto the level 0 constant mode only
	{
		p, _ := pde.Continuity1D(3, 3)
		dim := &p.Dimensions[0]
		fx := ForwardTransform(dim, func(x []float64, t float64) []float64 {
			return utils.ConstArray(len(x), 1)
		}, 0)
		assert.Equal(t, 3*elements.Dof1D(3), len(fx))
		// level 0 basis is 1/sqrt(2) on [-1,1], so the coefficient is
		// the integral of 1/sqrt(2) over width 2
		assert.True(t, near(fx[0], math.Sqrt(2), 1.e-12))
		for i := 1; i < 3; i++ {
			assert.True(t, near(fx[i], 0, 1.e-12))
		}
	}
	// all level blocks are filled for a generic profile
	{
		p, _ := pde.Continuity1D(2, 2)
		dim := &p.Dimensions[0]
		fx := ForwardTransform(dim, dim.InitialCondition, 0)
		var nonZero int
		for _, v := range fx {
			if math.Abs(v) > 1.e-14 {
				nonZero++
			}
		}
		assert.True(t, nonZero > len(fx)/2)
	}
}

func TestCombineDimensions(t *testing.T) {
	// 1D combine is a straight per-element segment copy with scaling
	{
		var (
			table, _ = elements.NewTable(1, 1, false) // 3 elements
			degree   = 2
			perDim   = [][]float64{{1, 2, 3, 4, 5, 6}}
		)
		combined := CombineDimensions(degree, table, 0, table.Size()-1, perDim, 2)
		assert.Equal(t, 6, len(combined))
		// element order follows the table: (0,0), (1,0), (1,1)
		want := []float64{2, 4, 6, 8, 10, 12}
		for i := range want {
			assert.True(t, near(combined[i], want[i], 1.e-14))
		}
	}
	// 2D element segments are the outer product of the two slices
	{
		var (
			table, _ = elements.NewTable(1, 2, false)
			degree   = 2
			xCoef    = []float64{1, 2, 3, 4, 5, 6}
			yCoef    = []float64{7, 8, 9, 10, 11, 12}
		)
		elem := table.Index(utils.Index{0, 1, 0, 1}) // levels (0,1), cells (0,1)
		combined := CombineDimensions(degree, table, elem, elem,
			[][]float64{xCoef, yCoef}, 1)
		// x slice at level 0: {1,2}; y slice at (1,1): {11,12}
		want := []float64{1 * 11, 1 * 12, 2 * 11, 2 * 12}
		for i := range want {
			assert.True(t, near(combined[i], want[i], 1.e-14))
		}
	}
}

func TestWaveletToRealspace(t *testing.T) {
	// projecting a polynomial the basis resolves and evaluating it back
	// reproduces the polynomial at the sample points
	{
		p, _ := pde.Continuity1D(2, 3)
		table, _ := elements.NewTable(2, 1, false)
		var (
			dim = &p.Dimensions[0]
			f   = func(x []float64, t float64) (fx []float64) {
				fx = make([]float64, len(x))
				for i, v := range x {
					fx[i] = 0.5*v*v - v + 0.25
				}
				return
			}
			coeffs = ForwardTransform(dim, f, 0)
			x      = CombineDimensions(3, table, 0, table.Size()-1,
				[][]float64{coeffs}, 1)
			trans = GenRealspaceTransform(p)
		)
		real := WaveletToRealspace(p, table, trans, x, 100)

		points := RealspacePoints(dim)
		assert.Equal(t, len(points), len(real))
		for i, xq := range points {
			want := 0.5*xq*xq - xq + 0.25
			assert.True(t, near(real[i], want, 1.e-10))
		}
	}
}
