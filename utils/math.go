package utils

import (
	"math"
)

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// POW is an integer power helper for the small exponents used in index
// arithmetic, avoiding the float64 round trip of math.Pow
func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		return math.Pow(x, float64(pp))
	}
	if p < 0 {
		p = -pp
		flipped = true
	}
	y = 1
	for i := 0; i < p; i++ {
		y *= x
	}
	if flipped {
		y = 1. / y
	}
	return
}

// IntPow is POW for integer base and result, used for 2^level and degree^dims
func IntPow(base, exp int) (y int) {
	y = 1
	for i := 0; i < exp; i++ {
		y *= base
	}
	return
}

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// VecCopy copies src into dst, which must be the same length
func VecCopy(src, dst []float64) {
	if len(src) != len(dst) {
		panic("vector length mismatch in copy")
	}
	copy(dst, src)
}

// VecScale scales v by a in place
func VecScale(a float64, v []float64) {
	for i := range v {
		v[i] *= a
	}
}

// VecAxpy computes y += a*x in place
func VecAxpy(a float64, x, y []float64) {
	if len(x) != len(y) {
		panic("vector length mismatch in axpy")
	}
	for i, val := range x {
		y[i] += a * val
	}
}

// VecZero sets v to zero in place
func VecZero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}

// VecInfNorm returns the maximum absolute value in v
func VecInfNorm(v []float64) (norm float64) {
	for _, val := range v {
		if math.Abs(val) > norm {
			norm = math.Abs(val)
		}
	}
	return
}

// VecRMSE returns the root mean square of the difference a-b
func VecRMSE(a, b []float64) (rmse float64) {
	if len(a) != len(b) {
		panic("vector length mismatch in rmse")
	}
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	rmse = math.Sqrt(sum / float64(len(a)))
	return
}

// VecDot returns the dot product of a and b
func VecDot(a, b []float64) (dot float64) {
	for i := range a {
		dot += a[i] * b[i]
	}
	return
}

// VecNorm2 returns the Euclidean norm of v
func VecNorm2(v []float64) float64 {
	return math.Sqrt(VecDot(v, v))
}
