/*
Package solver runs the full distributed solve: build the element table
and distribution plan, project initial conditions, generate
coefficients, then advance in time with each rank driven by its own
goroutine over the in-process cluster. Rank 0 reports per-step errors
against the analytic solution when one exists and gathers the final
solution.
*/
package solver

import (
	"fmt"
	"sync"

	"github.com/notargets/gosg/InputParameters"
	"github.com/notargets/gosg/chunking"
	"github.com/notargets/gosg/comms"
	"github.com/notargets/gosg/distribution"
	"github.com/notargets/gosg/elements"
	"github.com/notargets/gosg/pde"
	"github.com/notargets/gosg/timestep"
	"github.com/notargets/gosg/transform"
	"github.com/notargets/gosg/utils"
)

type Config struct {
	PDEName     string
	Level       int
	Degree      int
	FullGrid    bool
	NumSteps    int
	CFL         float64
	DT          float64
	Implicit    bool
	Method      timestep.SolveMethod
	NumRanks    int
	WorkspaceMB int
	Quiet       bool
}

// FromParameters maps the yaml-facing run description onto a Config
func FromParameters(sp *InputParameters.SolverParameters) (cfg Config, err error) {
	cfg = Config{
		PDEName:     sp.PDE,
		Level:       sp.Level,
		Degree:      sp.Degree,
		FullGrid:    sp.FullGrid,
		NumSteps:    sp.NumSteps,
		CFL:         sp.CFL,
		DT:          sp.DT,
		Implicit:    sp.Implicit,
		NumRanks:    sp.NumRanks,
		WorkspaceMB: sp.WorkspaceMB,
	}
	switch sp.SolveMethod {
	case "", "direct":
		cfg.Method = timestep.Direct
	case "gmres":
		cfg.Method = timestep.IterativeGMRES
	default:
		err = fmt.Errorf("unknown solve method %q", sp.SolveMethod)
	}
	return
}

// Result carries the outcome of a run. FinalSolution is the full
// element vector; the error slices hold one entry per rank from the
// last step, empty when the problem has no analytic solution.
type Result struct {
	PDE           *pde.PDE
	Table         *elements.Table
	FinalSolution []float64
	RMSE          []float64
	RelativeRMSE  []float64
	FinalTime     float64
}

func Run(cfg Config) (res *Result, err error) {
	p, err := pde.MakePDE(cfg.PDEName, cfg.Level, cfg.Degree)
	if err != nil {
		return
	}
	pde.GenerateCoefficients(p)
	table, err := elements.NewTable(cfg.Level, p.NumDims(), cfg.FullGrid)
	if err != nil {
		return
	}
	dt := cfg.DT
	if dt == 0 {
		dt = cfg.CFL * p.GetDt()
	}
	if !cfg.Quiet {
		fmt.Printf("-- %s: level %d, degree %d, %d elements, dt %g --\n",
			p.Name, cfg.Level, cfg.Degree, table.Size(), dt)
	}
	if cfg.Implicit {
		return runImplicit(cfg, p, table, dt)
	}
	return runExplicit(cfg, p, table, dt)
}

func runImplicit(cfg Config, p *pde.PDE, table *elements.Table,
	dt float64) (res *Result, err error) {
	var (
		x       = initialCondition(p, table, 0, table.Size()-1)
		stepper = timestep.NewImplicit(p, table, cfg.Method)
		time    float64
	)
	for step := 0; step < cfg.NumSteps; step++ {
		if err = stepper.Step(time, dt, x); err != nil {
			return
		}
		time += dt
	}
	res = &Result{PDE: p, Table: table, FinalSolution: x, FinalTime: time}
	if p.HasAnalyticSoln {
		rmse, rel := solutionError(p, table, 0, table.Size()-1, x, time)
		res.RMSE = []float64{rmse}
		res.RelativeRMSE = []float64{rel}
	}
	return
}

// rankState is what a finished rank goroutine hands back to Run
type rankState struct {
	final     []float64
	rmse, rel []float64
	err       error
}

func runExplicit(cfg Config, p *pde.PDE, table *elements.Table,
	dt float64) (res *Result, err error) {
	var (
		numRanks = distribution.EffectiveRanks(cfg.NumRanks)
		cluster  = comms.NewCluster(numRanks)
		states   = make([]rankState, numRanks)
		wg       sync.WaitGroup
	)
	plan, err := distribution.NewPlan(numRanks, table)
	if err != nil {
		return
	}
	for rank := 0; rank < numRanks; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			states[rank] = runRank(cfg, p, table, plan,
				distribution.NewContext(cluster.Comm(rank)), dt)
		}(rank)
	}
	wg.Wait()
	for rank := range states {
		if states[rank].err != nil {
			err = fmt.Errorf("rank %d: %w", rank, states[rank].err)
			return
		}
	}
	res = &Result{
		PDE:           p,
		Table:         table,
		FinalSolution: states[0].final,
		RMSE:          states[0].rmse,
		RelativeRMSE:  states[0].rel,
		FinalTime:     float64(cfg.NumSteps) * dt,
	}
	return
}

func runRank(cfg Config, p *pde.PDE, table *elements.Table,
	plan distribution.Plan, ctx *distribution.Context, dt float64) (st rankState) {
	var (
		sub     = plan[ctx.Rank()]
		segSize = p.ElementSegmentSize()
		host    = chunking.NewHostWorkspace(p, sub)
		time    float64
	)
	numChunks, err := chunking.GetNumChunks(sub, p, cfg.WorkspaceMB)
	if err != nil {
		st.err = err
		return
	}
	chunks := chunking.AssignElements(sub, numChunks)
	utils.VecCopy(initialCondition(p, table, sub.ColStart, sub.ColStop), host.X)

	stepper := timestep.NewExplicit(p, table, plan, ctx, chunks, host)
	for step := 0; step < cfg.NumSteps; step++ {
		stepper.Step(time, dt)
		time += dt
		if p.HasAnalyticSoln {
			rmse, rel := solutionError(p, table, sub.ColStart, sub.ColStop,
				host.X, time)
			st.rmse, st.rel = distribution.GatherErrors(ctx, rmse, rel)
			if ctx.Rank() == 0 && !cfg.Quiet {
				fmt.Printf("step %4d  t %8.5f  rmse %v\n", step, time, st.rmse)
			}
		}
	}
	st.final = distribution.GatherResults(ctx, host.X, plan, segSize)
	return
}

// initialCondition projects and combines the per-dimension initial
// profiles over an element range
func initialCondition(p *pde.PDE, table *elements.Table,
	startElem, stopElem int) []float64 {
	perDim := make([][]float64, p.NumDims())
	for d := range p.Dimensions {
		perDim[d] = transform.ForwardTransform(&p.Dimensions[d],
			p.Dimensions[d].InitialCondition, 0)
	}
	return transform.CombineDimensions(p.Dimensions[0].Degree, table,
		startElem, stopElem, perDim, 1)
}

// solutionError measures the element-space error against the analytic
// solution over an element range
func solutionError(p *pde.PDE, table *elements.Table, startElem, stopElem int,
	x []float64, time float64) (rmse, relative float64) {
	perDim := make([][]float64, p.NumDims())
	for d := range p.ExactVectorFuncs {
		perDim[d] = transform.ForwardTransform(&p.Dimensions[d],
			p.ExactVectorFuncs[d], time)
	}
	exact := transform.CombineDimensions(p.Dimensions[0].Degree, table,
		startElem, stopElem, perDim, p.ExactTime(time))
	rmse = utils.VecRMSE(x, exact)
	norm := utils.VecInfNorm(exact)
	if norm > 0 {
		relative = 100 * rmse / norm
	}
	return
}

// Realspace evaluates a run's final solution at the realspace sample
// points, bounded by the workspace ceiling
func Realspace(res *Result, limitMB int) []float64 {
	trans := transform.GenRealspaceTransform(res.PDE)
	return transform.WaveletToRealspace(res.PDE, res.Table, trans,
		res.FinalSolution, limitMB)
}
