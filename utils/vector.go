package utils

import (
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	if len(dataO) != 0 {
		R = Vector{mat.NewVecDense(n, dataO[0])}
	} else {
		R = Vector{mat.NewVecDense(n, make([]float64, n))}
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }

func (v Vector) Data() []float64 {
	return v.V.RawVector().Data
}

func (v Vector) Copy() (R Vector) { // Does not change receiver
	var (
		data  = v.Data()
		dataR = make([]float64, v.Len())
	)
	copy(dataR, data)
	R = NewVector(v.Len(), dataR)
	return
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	var (
		data = v.Data()
	)
	for i := range data {
		data[i] *= a
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector { // Changes receiver
	var (
		data = v.Data()
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return v
}

// Kron computes the column-vector Kronecker product of the receiver with a
func (v Vector) Kron(a Vector) (R Vector) { // Does not change receiver
	var (
		data  = v.Data()
		dataA = a.Data()
		nA    = a.Len()
	)
	R = NewVector(v.Len() * nA)
	dataR := R.Data()
	for i, val := range data {
		for j, valA := range dataA {
			dataR[i*nA+j] = val * valA
		}
	}
	return
}
