package timestep

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gosg/chunking"
	"github.com/notargets/gosg/comms"
	"github.com/notargets/gosg/distribution"
	"github.com/notargets/gosg/elements"
	"github.com/notargets/gosg/pde"
	"github.com/notargets/gosg/transform"
	"github.com/notargets/gosg/utils"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestGMRES(t *testing.T) {
	// diagonally dominant system against a known solution
	{
		var (
			n    = 5
			dok  = utils.NewDOK(n, n)
			want = []float64{1, -2, 3, 0.5, -1}
		)
		for i := 0; i < n; i++ {
			dok.Set(i, i, 4)
			if i > 0 {
				dok.Set(i, i-1, 1)
			}
			if i < n-1 {
				dok.Set(i, i+1, -1)
			}
		}
		var (
			A = dok.ToCSR()
			b = make([]float64, n)
			x = make([]float64, n)
		)
		A.MulVec(want, b)
		iters, err := GMRES(A, b, x, n, 100, 1.e-12)
		assert.Nil(t, err)
		assert.True(t, iters > 0)
		for i := range want {
			assert.True(t, near(x[i], want[i], 1.e-9))
		}
	}
	// zero right hand side returns the zero solution immediately
	{
		dok := utils.NewDOK(2, 2)
		dok.Set(0, 0, 1)
		dok.Set(1, 1, 1)
		x := []float64{5, 5}
		iters, err := GMRES(dok.ToCSR(), make([]float64, 2), x, 2, 10, 1.e-12)
		assert.Nil(t, err)
		assert.Equal(t, 0, iters)
		assert.Equal(t, []float64{0, 0}, x)
	}
}

func initialVector(p *pde.PDE, table *elements.Table, start, stop int) []float64 {
	perDim := make([][]float64, p.NumDims())
	for d := range p.Dimensions {
		perDim[d] = transform.ForwardTransform(&p.Dimensions[d],
			p.Dimensions[d].InitialCondition, 0)
	}
	return transform.CombineDimensions(p.Dimensions[0].Degree, table,
		start, stop, perDim, 1)
}

func TestImplicit(t *testing.T) {
	// linear decay: backward Euler divides by (1+dt) each step, for both
	// solve methods
	{
		p, _ := pde.Relaxation2D(2, 2)
		pde.GenerateCoefficients(p)
		table, _ := elements.NewTable(2, 2, false)

		for _, method := range []SolveMethod{Direct, IterativeGMRES} {
			var (
				x0      = initialVector(p, table, 0, table.Size()-1)
				x       = append([]float64{}, x0...)
				stepper = NewImplicit(p, table, method)
				dt      = 0.1
			)
			for step := 0; step < 3; step++ {
				assert.Nil(t, stepper.Step(float64(step)*dt, dt, x))
			}
			factor := 1 / math.Pow(1+dt, 3)
			for i := range x {
				assert.True(t, near(x[i], factor*x0[i], 1.e-8))
			}
		}
	}
}

func TestExplicit(t *testing.T) {
	var (
		p, _     = pde.Relaxation2D(2, 2)
		table, _ = elements.NewTable(2, 2, false)
		dt       = 0.05
	)
	pde.GenerateCoefficients(p)

	runSteps := func(numRanks, numSteps int) (final []float64) {
		var (
			cluster = comms.NewCluster(numRanks)
			plan, _ = distribution.NewPlan(numRanks, table)
			results = make([][]float64, numRanks)
			wg      sync.WaitGroup
		)
		for rank := 0; rank < numRanks; rank++ {
			wg.Add(1)
			go func(rank int) {
				defer wg.Done()
				var (
					ctx     = distribution.NewContext(cluster.Comm(rank))
					sub     = plan[rank]
					host    = chunking.NewHostWorkspace(p, sub)
					chunks  = chunking.AssignElements(sub, 2)
					segSize = p.ElementSegmentSize()
				)
				utils.VecCopy(initialVector(p, table, sub.ColStart, sub.ColStop), host.X)
				stepper := NewExplicit(p, table, plan, ctx, chunks, host)
				for step := 0; step < numSteps; step++ {
					stepper.Step(float64(step)*dt, dt)
				}
				results[rank] = distribution.GatherResults(ctx, host.X, plan, segSize)
			}(rank)
		}
		wg.Wait()
		return results[0]
	}

	// one step of third order Runge-Kutta on linear decay scales every
	// component by the cubic truncation of exp(-dt)
	{
		var (
			x0     = initialVector(p, table, 0, table.Size()-1)
			final  = runSteps(1, 1)
			factor = 1 - dt + dt*dt/2 - dt*dt*dt/6
		)
		assert.Equal(t, len(x0), len(final))
		for i := range final {
			assert.True(t, near(final[i], factor*x0[i], 1.e-12))
		}
	}
	// the distributed pipeline reproduces the single rank result
	{
		var (
			serial      = runSteps(1, 4)
			distributed = runSteps(4, 4)
		)
		assert.Equal(t, len(serial), len(distributed))
		for i := range serial {
			assert.True(t, near(serial[i], distributed[i], 1.e-12))
		}
	}
}
