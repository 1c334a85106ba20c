package timestep

import (
	"fmt"

	"github.com/notargets/gosg/elements"
	"github.com/notargets/gosg/pde"
	"github.com/notargets/gosg/transform"
	"github.com/notargets/gosg/utils"
	"gonum.org/v1/gonum/mat"
)

// SolveMethod selects how the implicit system is solved each step
type SolveMethod int

const (
	Direct SolveMethod = iota
	IterativeGMRES
)

const (
	gmresRestart = 30
	gmresTol     = 1e-10
)

// Implicit advances the solution with backward Euler. The system
// I - dt*A is assembled over the whole table and cached; repeated steps
// at the same dt reuse the factorization or the sparse operator. The
// implicit path is single-rank, the caller holds the full element
// vector.
type Implicit struct {
	p      *pde.PDE
	table  *elements.Table
	method SolveMethod

	builtDt      float64
	stale        bool
	lu           *mat.LU
	csr          utils.CSR
	rhs          []float64
	sourceCoeffs [][][]float64
}

func NewImplicit(p *pde.PDE, table *elements.Table, method SolveMethod) (s *Implicit) {
	s = &Implicit{
		p:            p,
		table:        table,
		method:       method,
		stale:        true,
		rhs:          make([]float64, table.Size()*p.ElementSegmentSize()),
		sourceCoeffs: projectSources(p),
	}
	return
}

// Invalidate forces a system rebuild on the next step, needed after the
// grid or the coefficients change
func (s *Implicit) Invalidate() { s.stale = true }

// Step advances x by one backward Euler step of size dt from time
func (s *Implicit) Step(time, dt float64, x []float64) (err error) {
	if s.stale || dt != s.builtDt {
		s.build(dt)
	}
	utils.VecCopy(x, s.rhs)
	s.addSources(time+dt, dt)
	switch s.method {
	case Direct:
		var soln mat.VecDense
		if err = s.lu.SolveVecTo(&soln, false,
			mat.NewVecDense(len(s.rhs), s.rhs)); err != nil {
			err = fmt.Errorf("implicit solve failed: %w", err)
			return
		}
		utils.VecCopy(soln.RawVector().Data, x)
	case IterativeGMRES:
		_, err = GMRES(s.csr, s.rhs, x, gmresRestart, 10*len(s.rhs), gmresTol)
	default:
		err = fmt.Errorf("unknown solve method %d", s.method)
	}
	return
}

// build assembles I - dt*A and prepares the selected solver
func (s *Implicit) build(dt float64) {
	var (
		A = BuildSystemMatrix(s.p, s.table)
		n = len(s.rhs)
	)
	switch s.method {
	case Direct:
		dense := mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				v := -dt * A.At(i, j)
				if i == j {
					v++
				}
				dense.Set(i, j, v)
			}
		}
		s.lu = &mat.LU{}
		s.lu.Factorize(dense)
	case IterativeGMRES:
		sys := utils.NewDOK(n, n)
		A.M.DoNonZero(func(i, j int, v float64) {
			sys.Set(i, j, -dt*v)
		})
		for i := 0; i < n; i++ {
			sys.Accumulate(i, i, 1)
		}
		s.csr = sys.ToCSR()
	}
	s.builtDt = dt
	s.stale = false
}

func (s *Implicit) addSources(t, dt float64) {
	for i, src := range s.p.Sources {
		scaled := transform.CombineDimensions(s.p.Dimensions[0].Degree,
			s.table, 0, s.table.Size()-1,
			s.sourceCoeffs[i], dt*src.TimeFunc(t))
		utils.VecAxpy(1, scaled, s.rhs)
	}
}
