/*
Package timestep advances the solution in time over the distributed
element grid. The explicit path is a three-stage Runge-Kutta scheme;
the implicit path factors or iterates on the assembled system matrix,
which is cached between steps while the grid is unchanged.

Every stage follows the same distributed cycle: apply the operator over
the rank's subgrid chunks, reduce partial outputs across the row group,
add time-scaled sources, then exchange the reduced row band back into
every rank's column band for the next stage.
*/
package timestep

import (
	"github.com/notargets/gosg/chunking"
	"github.com/notargets/gosg/distribution"
	"github.com/notargets/gosg/elements"
	"github.com/notargets/gosg/kronmult"
	"github.com/notargets/gosg/pde"
	"github.com/notargets/gosg/transform"
	"github.com/notargets/gosg/utils"
)

// third order SSP Runge-Kutta tableau
const (
	rkA21 = 0.5
	rkA31 = -1.0
	rkA32 = 2.0
	rkB1  = 1.0 / 6
	rkB2  = 2.0 / 3
	rkB3  = 1.0 / 6
	rkC2  = 0.5
	rkC3  = 1.0
)

// Explicit owns the per-rank state of the explicit time loop
type Explicit struct {
	p      *pde.PDE
	table  *elements.Table
	plan   distribution.Plan
	ctx    *distribution.Context
	sub    distribution.Subgrid
	chunks []chunking.Chunk
	host   *chunking.HostWorkspace
	batch  *kronmult.BatchWorkspace
	// per source, per dimension coefficient arrays; the time factor is
	// applied at combine time
	sourceCoeffs [][][]float64
}

func NewExplicit(p *pde.PDE, table *elements.Table, plan distribution.Plan,
	ctx *distribution.Context, chunks []chunking.Chunk,
	host *chunking.HostWorkspace) (e *Explicit) {
	e = &Explicit{
		p:      p,
		table:  table,
		plan:   plan,
		ctx:    ctx,
		sub:    plan[ctx.Rank()],
		chunks: chunks,
		host:   host,
		batch:  kronmult.NewBatchWorkspace(p),
	}
	e.sourceCoeffs = projectSources(p)
	return
}

func projectSources(p *pde.PDE) (coeffs [][][]float64) {
	coeffs = make([][][]float64, p.NumSources())
	for s, src := range p.Sources {
		coeffs[s] = make([][]float64, p.NumDims())
		for d := range p.Dimensions {
			coeffs[s][d] = transform.ForwardTransform(
				&p.Dimensions[d], src.Funcs[d], 0)
		}
	}
	return
}

// Step advances host.X by one explicit step of size dt from time
func (e *Explicit) Step(time, dt float64) {
	var (
		host = e.host
		x    = host.X
	)
	utils.VecCopy(x, host.XOrig)

	e.rhs(time, host.Result1)
	utils.VecCopy(host.XOrig, x)
	utils.VecAxpy(rkA21*dt, host.Result1, x)

	e.rhs(time+rkC2*dt, host.Result2)
	utils.VecCopy(host.XOrig, x)
	utils.VecAxpy(rkA31*dt, host.Result1, x)
	utils.VecAxpy(rkA32*dt, host.Result2, x)

	e.rhs(time+rkC3*dt, host.Result3)
	utils.VecCopy(host.XOrig, x)
	utils.VecAxpy(rkB1*dt, host.Result1, x)
	utils.VecAxpy(rkB2*dt, host.Result2, x)
	utils.VecAxpy(rkB3*dt, host.Result3, x)
}

// rhs evaluates f(x, t) for the current host.X and leaves the exchanged
// column-band result in dest
func (e *Explicit) rhs(t float64, dest []float64) {
	var (
		host    = e.host
		segSize = e.p.ElementSegmentSize()
	)
	kronmult.ApplyA(e.p, e.table, e.sub, e.chunks, host, e.batch)
	distribution.ReduceResults(e.ctx, host.Fx, host.ReducedFx, e.plan)
	e.addSources(t)
	distribution.ExchangeResults(e.ctx, host.ReducedFx, dest, segSize, e.plan)
}

// addSources accumulates the time-scaled sources over the rank's row
// band into ReducedFx
func (e *Explicit) addSources(t float64) {
	host := e.host
	for s, src := range e.p.Sources {
		scaled := transform.CombineDimensions(e.p.Dimensions[0].Degree,
			e.table, e.sub.RowStart, e.sub.RowStop,
			e.sourceCoeffs[s], src.TimeFunc(t))
		utils.VecCopy(scaled, host.ScaledSource)
		utils.VecAxpy(1, host.ScaledSource, host.ReducedFx)
	}
}
