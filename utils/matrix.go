package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	M *mat.Dense
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{m}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }

func (m Matrix) Set(i, j int, val float64) Matrix {
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) Data() []float64 {
	return m.M.RawMatrix().Data
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		data   = m.M.RawMatrix().Data
		nr, nc = m.Dims()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, data)
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nc, nr)
	for j := 0; j < nc; j++ {
		for i := 0; i < nr; i++ {
			R.M.Set(j, i, m.M.At(i, j))
		}
	}
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.M.Dims()
		_, ncA = A.M.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return
}

// Slice copies the sub-matrix [I:K) x [J:L) out of the receiver
func (m Matrix) Slice(I, K, J, L int) (R Matrix) { // Does not change receiver
	var (
		nrR    = K - I
		ncR    = L - J
		nr, nc = m.Dims()
	)
	if I < 0 || K > nr || J < 0 || L > nc {
		panic(fmt.Errorf("unable to slice matrix: bounds [%d:%d,%d:%d] exceed dims [%d,%d]", I, K, J, L, nr, nc))
	}
	R = NewMatrix(nrR, ncR)
	dataR := R.M.RawMatrix().Data
	for i := I; i < K; i++ {
		for j := J; j < L; j++ {
			dataR[(i-I)*ncR+(j-J)] = m.M.At(i, j)
		}
	}
	return
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	var (
		data = m.M.RawMatrix().Data
	)
	for i := range data {
		data[i] *= a
	}
	return m
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	var (
		data  = m.M.RawMatrix().Data
		dataA = A.M.RawMatrix().Data
	)
	for i, val := range dataA {
		data[i] += val
	}
	return m
}

// SetSubmatrix writes A into the receiver with its upper left corner at (i0, j0)
func (m Matrix) SetSubmatrix(i0, j0 int, A Matrix) Matrix { // Changes receiver
	var (
		nrA, ncA = A.Dims()
	)
	for i := 0; i < nrA; i++ {
		for j := 0; j < ncA; j++ {
			m.M.Set(i0+i, j0+j, A.At(i, j))
		}
	}
	return m
}

// Kron computes the Kronecker product of the receiver with A
func (m Matrix) Kron(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, ncM = m.Dims()
		nrA, ncA = A.Dims()
	)
	R = NewMatrix(nrM*nrA, ncM*ncA)
	dataR := R.M.RawMatrix().Data
	ncR := ncM * ncA
	for i := 0; i < nrM; i++ {
		for j := 0; j < ncM; j++ {
			scale := m.M.At(i, j)
			if scale == 0 {
				continue
			}
			for p := 0; p < nrA; p++ {
				for q := 0; q < ncA; q++ {
					dataR[(i*nrA+p)*ncR+(j*ncA+q)] = scale * A.At(p, q)
				}
			}
		}
	}
	return
}

// MatVec computes y = m*x + y using the raw storage of x and y
func (m Matrix) MatVec(x, y []float64) {
	var (
		nr, nc = m.Dims()
		data   = m.M.RawMatrix().Data
	)
	if len(x) < nc || len(y) < nr {
		panic(fmt.Errorf("matvec size mismatch: dims [%d,%d], len(x) = %d, len(y) = %d", nr, nc, len(x), len(y)))
	}
	for i := 0; i < nr; i++ {
		var sum float64
		row := data[i*nc : (i+1)*nc]
		for j, val := range row {
			sum += val * x[j]
		}
		y[i] += sum
	}
}

func (m Matrix) Print(msgO ...string) (o string) {
	var (
		name = ""
	)
	if len(msgO) != 0 {
		name = msgO[0]
	}
	o = fmt.Sprintf("%s = \n%8.4f\n", name, mat.Formatted(m.M, mat.Squeeze()))
	return
}
