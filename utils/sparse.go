package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK is the assembly-stage sparse matrix; convert to CSR before
// repeated multiplication
type DOK struct {
	M *sparse.DOK
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{sparse.NewDOK(nr, nc)}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m DOK) Set(i, j int, val float64) { m.M.Set(i, j, val) }

// Accumulate adds val to the (i, j) entry
func (m DOK) Accumulate(i, j int, val float64) {
	if val == 0 {
		return
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m DOK) ToCSR() CSR {
	return CSR{m.M.ToCSR()}
}

type CSR struct {
	M *sparse.CSR
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return m.M.T() }

// MulVec computes out = m*x on raw slices. MulMatRawVec accumulates
// into out, so it is zeroed first to give overwrite semantics.
func (m CSR) MulVec(x, out []float64) {
	nr, nc := m.Dims()
	if len(x) != nc || len(out) != nr {
		panic(fmt.Errorf("sparse matvec size mismatch: dims [%d,%d], len(x) = %d, len(out) = %d", nr, nc, len(x), len(out)))
	}
	VecZero(out)
	sparse.MulMatRawVec(m.M, x, out)
}
