package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	{ // Mul, Transpose, chaining
		A := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		B := NewMatrix(2, 2, []float64{0, 1, 1, 0})
		C := A.Mul(B)
		assert.True(t, near(C.At(0, 0), 2, 1.e-15))
		assert.True(t, near(C.At(0, 1), 1, 1.e-15))
		assert.True(t, near(C.At(1, 0), 4, 1.e-15))
		assert.True(t, near(C.At(1, 1), 3, 1.e-15))
		At := A.Transpose()
		assert.True(t, near(At.At(0, 1), 3, 1.e-15))
		// A unchanged
		assert.True(t, near(A.At(0, 1), 2, 1.e-15))
	}
	{ // Slice is a copy, row-major bounds are half open
		A := NewMatrix(3, 3, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8})
		S := A.Slice(1, 3, 0, 2)
		nr, nc := S.Dims()
		assert.Equal(t, 2, nr)
		assert.Equal(t, 2, nc)
		assert.True(t, near(S.At(0, 0), 3, 1.e-15))
		assert.True(t, near(S.At(1, 1), 7, 1.e-15))
		S.Set(0, 0, 99)
		assert.True(t, near(A.At(1, 0), 3, 1.e-15))
	}
	{ // Kron dimensions and values
		A := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		I := NewMatrix(2, 2, []float64{1, 0, 0, 1})
		K := A.Kron(I)
		nr, nc := K.Dims()
		assert.Equal(t, 4, nr)
		assert.Equal(t, 4, nc)
		assert.True(t, near(K.At(0, 0), 1, 1.e-15))
		assert.True(t, near(K.At(0, 2), 2, 1.e-15))
		assert.True(t, near(K.At(3, 1), 3, 1.e-15))
		assert.True(t, near(K.At(3, 3), 4, 1.e-15))
	}
	{ // MatVec accumulates into y
		A := NewMatrix(2, 3, []float64{1, 0, 2, 0, 1, 0})
		x := []float64{1, 2, 3}
		y := []float64{10, 10}
		A.MatVec(x, y)
		assert.True(t, near(y[0], 17, 1.e-15))
		assert.True(t, near(y[1], 12, 1.e-15))
	}
}

func TestVecOps(t *testing.T) {
	{
		x := []float64{1, 2, 3}
		y := []float64{1, 1, 1}
		VecAxpy(2, x, y)
		assert.True(t, near(y[2], 7, 1.e-15))
		assert.True(t, near(VecDot(x, y), 34, 1.e-15))
		assert.True(t, near(VecInfNorm(y), 7, 1.e-15))
		VecZero(y)
		assert.True(t, near(VecNorm2(y), 0, 1.e-15))
	}
	{
		a := []float64{1, 2}
		b := []float64{1, 4}
		assert.True(t, near(VecRMSE(a, b), math.Sqrt(2), 1.e-15))
	}
}

func TestSparse(t *testing.T) {
	{ // DOK accumulate then CSR matvec
		D := NewDOK(3, 3)
		D.Set(0, 0, 2)
		D.Accumulate(0, 0, 1)
		D.Set(1, 2, 4)
		D.Set(2, 1, 5)
		C := D.ToCSR()
		out := make([]float64, 3)
		C.MulVec([]float64{1, 1, 1}, out)
		assert.True(t, near(out[0], 3, 1.e-15))
		assert.True(t, near(out[1], 4, 1.e-15))
		assert.True(t, near(out[2], 5, 1.e-15))
		// overwrite semantics: stale contents of out must not leak in
		C.MulVec([]float64{1, 1, 1}, out)
		assert.True(t, near(out[0], 3, 1.e-15))
		assert.True(t, near(out[1], 4, 1.e-15))
		assert.True(t, near(out[2], 5, 1.e-15))
	}
}

func TestIndexing(t *testing.T) {
	{
		assert.Equal(t, 8, IntPow(2, 3))
		assert.Equal(t, 1, IntPow(7, 0))
		assert.True(t, near(POW(2, -2), 0.25, 1.e-15))
	}
	{
		r := NewRange(3, 5)
		assert.True(t, r.Contains(4))
		assert.False(t, r.Contains(6))
	}
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
