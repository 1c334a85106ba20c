package kronmult

import (
	"fmt"

	"github.com/notargets/gosg/utils"
)

// kronApply computes y = (blocks[0] kron ... kron blocks[D-1]) * x for
// square degree-sized blocks, applying one dimension's block at a time
// along its axis instead of forming the product. x and y have length
// degree^D; y is overwritten.
func (ws *BatchWorkspace) kronApply(x, y []float64) {
	var (
		deg      = ws.degree
		D        = ws.numDims
		cur, nxt = ws.pingA, ws.pingB
		tmp      [64]float64
	)
	if deg > len(tmp) {
		panic(fmt.Errorf("degree %d exceeds kron kernel limit %d", deg, len(tmp)))
	}
	utils.VecCopy(x, cur)
	stride := utils.IntPow(deg, D-1)
	outer := 1
	for d := 0; d < D; d++ {
		a := ws.blocks[d].Data()
		for o := 0; o < outer; o++ {
			base := o * stride * deg
			for r := 0; r < stride; r++ {
				for i := 0; i < deg; i++ {
					var sum float64
					row := a[i*deg : (i+1)*deg]
					for k := 0; k < deg; k++ {
						sum += row[k] * cur[base+k*stride+r]
					}
					tmp[i] = sum
				}
				for i := 0; i < deg; i++ {
					nxt[base+i*stride+r] = tmp[i]
				}
			}
		}
		cur, nxt = nxt, cur
		outer *= deg
		stride /= deg
	}
	utils.VecCopy(cur, y)
}

// KronProduct assembles the dense Kronecker product of a chain of
// matrices, pairwise left to right. Every intermediate is checked
// against the memory ceiling before allocation; exceeding it is a
// sizing error in the caller, so it panics.
func KronProduct(mats []utils.Matrix, limitMB int) (prod utils.Matrix) {
	if len(mats) == 0 {
		panic("empty matrix chain")
	}
	prod = mats[0].Copy()
	for _, m := range mats[1:] {
		var (
			pr, pc = prod.Dims()
			mr, mc = m.Dims()
			needMB = float64(8) * float64(pr*mr) * float64(pc*mc) / (1 << 20)
		)
		if needMB > float64(limitMB) {
			panic(fmt.Errorf(
				"kron intermediate needs %.1f MB, ceiling is %d MB",
				needMB, limitMB))
		}
		prod = prod.Kron(m)
	}
	return
}
