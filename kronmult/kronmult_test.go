package kronmult

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gosg/chunking"
	"github.com/notargets/gosg/distribution"
	"github.com/notargets/gosg/elements"
	"github.com/notargets/gosg/pde"
	"github.com/notargets/gosg/utils"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestKronApply(t *testing.T) {
	// 2D: the axis-wise application matches the explicit product
	{
		p, _ := pde.Continuity2D(1, 2)
		ws := NewBatchWorkspace(p)
		ws.blocks[0] = utils.NewMatrix(2, 2, []float64{1, 2, 3, 4})
		ws.blocks[1] = utils.NewMatrix(2, 2, []float64{0, 1, -1, 2})

		var (
			x     = []float64{1, 2, 3, 4}
			y     = make([]float64, 4)
			dense = ws.blocks[0].Kron(ws.blocks[1])
			want  = make([]float64, 4)
		)
		ws.kronApply(x, y)
		dense.MatVec(x, want)
		for i := range y {
			assert.True(t, near(y[i], want[i], 1.e-13))
		}
	}
	// identity chain reproduces the input
	{
		p, _ := pde.Continuity2D(1, 3)
		ws := NewBatchWorkspace(p)
		for d := range ws.blocks {
			for i := 0; i < 3; i++ {
				ws.blocks[d].Set(i, i, 1)
			}
		}
		var (
			x = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
			y = make([]float64, 9)
		)
		ws.kronApply(x, y)
		assert.Equal(t, x, y)
	}
}

func TestKronProduct(t *testing.T) {
	{
		var (
			A = utils.NewMatrix(2, 2, []float64{1, 0, 0, 2})
			B = utils.NewMatrix(2, 2, []float64{3, 1, 0, 1})
			P = KronProduct([]utils.Matrix{A, B}, 100)
		)
		nr, nc := P.Dims()
		assert.Equal(t, 4, nr)
		assert.Equal(t, 4, nc)
		assert.True(t, near(P.At(0, 0), 3, 1.e-15))
		assert.True(t, near(P.At(0, 1), 1, 1.e-15))
		assert.True(t, near(P.At(2, 2), 6, 1.e-15))
		assert.True(t, near(P.At(3, 3), 2, 1.e-15))
	}
	// the memory ceiling guards intermediate growth
	{
		big := utils.NewMatrix(400, 400)
		assert.Panics(t, func() {
			KronProduct([]utils.Matrix{big, big}, 1)
		})
	}
}

// applyDense forms the full operator for a subgrid and applies it
// directly, the reference for ApplyA
func applyDense(p *pde.PDE, table *elements.Table, sub distribution.Subgrid,
	x []float64) (fx []float64) {
	var (
		segSize = p.ElementSegmentSize()
		degree  = p.Dimensions[0].Degree
		numDims = p.NumDims()
	)
	fx = make([]float64, sub.NRows()*segSize)
	for row := sub.RowStart; row <= sub.RowStop; row++ {
		rowCoords := table.Coords(row)
		for col := sub.ColStart; col <= sub.ColStop; col++ {
			colCoords := table.Coords(col)
			for tm := range p.Terms {
				mats := make([]utils.Matrix, numDims)
				for d := 0; d < numDims; d++ {
					var (
						rowOff = degree * elements.Get1DIndex(
							rowCoords[d], rowCoords[numDims+d])
						colOff = degree * elements.Get1DIndex(
							colCoords[d], colCoords[numDims+d])
					)
					mats[d] = p.Terms[tm].Coeff[d].Slice(
						rowOff, rowOff+degree, colOff, colOff+degree)
				}
				var (
					dense = KronProduct(mats, 100)
					xSeg  = x[sub.ToLocalCol(col)*segSize : (sub.ToLocalCol(col)+1)*segSize]
					fxSeg = fx[sub.ToLocalRow(row)*segSize : (sub.ToLocalRow(row)+1)*segSize]
				)
				dense.MatVec(xSeg, fxSeg)
			}
		}
	}
	return
}

func TestApplyA(t *testing.T) {
	// the batched chunked apply matches the dense reference over a
	// full-table subgrid
	{
		p, _ := pde.Continuity2D(2, 2)
		pde.GenerateCoefficients(p)
		table, _ := elements.NewTable(2, 2, false)

		var (
			sub  = distribution.Subgrid{RowStart: 0, RowStop: table.Size() - 1, ColStart: 0, ColStop: table.Size() - 1}
			host = chunking.NewHostWorkspace(p, sub)
			ws   = NewBatchWorkspace(p)
		)
		for i := range host.X {
			host.X[i] = math.Sin(float64(i + 1))
		}
		for _, numChunks := range []int{1, 3, 5} {
			chunks := chunking.AssignElements(sub, numChunks)
			ApplyA(p, table, sub, chunks, host, ws)
			want := applyDense(p, table, sub, host.X)
			for i := range want {
				assert.True(t, near(host.Fx[i], want[i], 1.e-11))
			}
		}
	}
	// a proper subgrid sees only its tile
	{
		p, _ := pde.Continuity2D(2, 2)
		pde.GenerateCoefficients(p)
		table, _ := elements.NewTable(2, 2, false)

		var (
			sub  = distribution.Subgrid{RowStart: 0, RowStop: 7, ColStart: 8, ColStop: 16}
			host = chunking.NewHostWorkspace(p, sub)
			ws   = NewBatchWorkspace(p)
		)
		for i := range host.X {
			host.X[i] = float64(i%5) - 2
		}
		chunks := chunking.AssignElements(sub, 2)
		ApplyA(p, table, sub, chunks, host, ws)
		want := applyDense(p, table, sub, host.X)
		for i := range want {
			assert.True(t, near(host.Fx[i], want[i], 1.e-11))
		}
	}
}
