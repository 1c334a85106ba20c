package pde

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gosg/elements"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestLegendreGQ(t *testing.T) {
	// the N+1 point rule integrates monomials up to degree 2N+1 exactly
	{
		for N := 0; N <= 4; N++ {
			X, W := LegendreGQ(N)
			x, w := X.Data(), W.Data()
			for p := 0; p <= 2*N+1; p++ {
				var sum float64
				for q := range x {
					sum += w[q] * math.Pow(x[q], float64(p))
				}
				exact := 0.0
				if p%2 == 0 {
					exact = 2 / float64(p+1)
				}
				assert.True(t, near(sum, exact, 1.e-12))
			}
		}
	}
	// orthonormality of the scaled Legendre basis under the rule
	{
		X, W := LegendreGQ(4)
		x, w := X.Data(), W.Data()
		for i := 0; i <= 4; i++ {
			for j := 0; j <= 4; j++ {
				var sum float64
				for q := range x {
					sum += w[q] * LegendreP(x[q], i) * LegendreP(x[q], j)
				}
				want := 0.0
				if i == j {
					want = 1.0
				}
				assert.True(t, near(sum, want, 1.e-12))
			}
		}
	}
	// derivative recurrence against known values
	{
		assert.True(t, near(GradLegendreP(0.5, 0), 0, 1.e-14))
		// P1 scaled: sqrt(3/2) x
		assert.True(t, near(GradLegendreP(0.5, 1), math.Sqrt(1.5), 1.e-14))
		// P2 scaled: sqrt(5/2)(3x^2-1)/2, derivative 3x sqrt(5/2)
		assert.True(t, near(GradLegendreP(0.5, 2), 1.5*math.Sqrt(2.5), 1.e-13))
	}
}

func TestHierarchicalBasis(t *testing.T) {
	// all blocks through the level bound are mutually orthonormal; the
	// quadrature grid sits below every wavelet break, so it is exact
	{
		var (
			degree = 3
			level  = 2
			min    = -1.0
			max    = 1.0
			hb     = NewHierarchicalBasis(degree)
			nCells = 8
			dx     = (max - min) / float64(nCells)
			X, W   = LegendreGQ(degree - 1)
			x, w   = X.Data(), W.Data()
		)
		type fn struct{ level, cell, i int }
		var fns []fn
		for l := 0; l <= level; l++ {
			for c := 0; c < elements.CellsInLevel(l); c++ {
				for i := 0; i < degree; i++ {
					fns = append(fns, fn{l, c, i})
				}
			}
		}
		for a := range fns {
			for b := a; b < len(fns); b++ {
				var sum float64
				for k := 0; k < nCells; k++ {
					for q := 0; q < degree; q++ {
						xq := min + dx*(float64(k)+(x[q]+1)/2)
						sum += w[q] * dx / 2 *
							hb.Eval(min, max, fns[a].level, fns[a].cell, fns[a].i, xq) *
							hb.Eval(min, max, fns[b].level, fns[b].cell, fns[b].i, xq)
					}
				}
				want := 0.0
				if a == b {
					want = 1.0
				}
				assert.True(t, near(sum, want, 1.e-10))
			}
		}
	}
}

func TestPDEConstruction(t *testing.T) {
	{
		p, err := Continuity1D(3, 2)
		assert.Nil(t, err)
		assert.Equal(t, 1, p.NumDims())
		assert.Equal(t, 1, p.NumTerms())
		assert.Equal(t, 2, p.ElementSegmentSize())
	}
	{
		p, err := Continuity2D(3, 3)
		assert.Nil(t, err)
		assert.Equal(t, 2, p.NumDims())
		assert.Equal(t, 2, p.NumTerms())
		assert.Equal(t, 9, p.ElementSegmentSize())
	}
	{
		_, err := MakePDE("no_such_pde", 2, 2)
		assert.NotNil(t, err)
	}
	{
		p, err := Diffusion2D(2, 2)
		assert.Nil(t, err)
		assert.True(t, p.HasAnalyticSoln)
		assert.True(t, near(p.ExactTime(0), 1, 1.e-15))
	}
}

func TestGenerateCoefficients(t *testing.T) {
	// mass blocks are identity at hierarchical size
	{
		p, _ := Continuity2D(2, 2)
		GenerateCoefficients(p)
		var (
			term = p.Terms[0] // {Grad, Mass}
			mass = term.Coeff[1]
			n    = 2 * elements.Dof1D(2)
		)
		nr, nc := mass.Dims()
		assert.Equal(t, n, nr)
		assert.Equal(t, n, nc)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				want := 0.0
				if i == j {
					want = 1.0
				}
				assert.True(t, near(mass.At(i, j), want, 1.e-14))
			}
		}
	}
	// the derivative of a constant vanishes: the projected constant lives
	// in the level 0 block, so the grad matrix's level 0 column block of
	// the constant mode must be zero
	{
		p, _ := Continuity1D(3, 2)
		GenerateCoefficients(p)
		grad := p.Terms[0].Coeff[0]
		nr, _ := grad.Dims()
		for i := 0; i < nr; i++ {
			assert.True(t, near(grad.At(i, 0), 0, 1.e-10))
		}
	}
	// the term scale is folded into dimension 0
	{
		p1, _ := Continuity1D(2, 2)
		GenerateCoefficients(p1)
		p2, _ := Continuity1D(2, 2)
		p2.Terms[0].Scale = 1
		GenerateCoefficients(p2)
		nr, nc := p1.Terms[0].Coeff[0].Dims()
		for i := 0; i < nr; i++ {
			for j := 0; j < nc; j++ {
				assert.True(t, near(p1.Terms[0].Coeff[0].At(i, j),
					-p2.Terms[0].Coeff[0].At(i, j), 1.e-12))
			}
		}
	}
}
