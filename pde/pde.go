/*
Package pde describes the problems the distributed engine solves: per
dimension domain and resolution parameters, the separable operator terms
with their per-dimension 1-D coefficient matrices, time-scaled source
terms, and optional analytic solutions for error reporting.

The engine consumes these as read-only data. Coefficient matrices are
precomputed once per term and dimension over the breadth-first
(level, cell) block numbering, so an element's per-dimension operator
sub-block sits at offset degree*Get1DIndex(level, cell).
*/
package pde

import (
	"fmt"
	"math"

	"github.com/notargets/gosg/utils"
)

// VectorFunc evaluates a per-dimension profile at a set of points
type VectorFunc func(x []float64, t float64) []float64

// ScalarFunc carries the separated time dependence of a source or solution
type ScalarFunc func(t float64) float64

type Dimension struct {
	DomainMin, DomainMax float64
	Level, Degree        int
	InitialCondition     VectorFunc
	Name                 string
}

// CoefficientType selects how a term's 1-D operator matrices are generated
type CoefficientType int

const (
	Mass CoefficientType = iota
	Grad
	Diffusion
)

// Term is one separable operator term. Coeff holds the generated 1-D
// coefficient matrix per dimension; TypePerDim drives the generation.
type Term struct {
	Name       string
	TypePerDim []CoefficientType
	Scale      float64 // constant multiplier folded into dimension 0
	Coeff      []utils.Matrix
}

type Source struct {
	Funcs    []VectorFunc // one spatial profile per dimension
	TimeFunc ScalarFunc
}

type PDE struct {
	Name             string
	Dimensions       []Dimension
	Terms            []Term
	Sources          []Source
	ExactVectorFuncs []VectorFunc
	ExactTimeFunc    ScalarFunc
	HasAnalyticSoln  bool
}

// New validates and returns a PDE description. Uniform degree across
// dimensions is assumed throughout the engine.
func New(name string, dims []Dimension, terms []Term, sources []Source) (p *PDE, err error) {
	if len(dims) == 0 {
		err = fmt.Errorf("pde %s has no dimensions", name)
		return
	}
	degree := dims[0].Degree
	for _, d := range dims {
		if d.Degree != degree {
			err = fmt.Errorf("pde %s has non-uniform degree; unsupported", name)
			return
		}
		if d.Level < 0 || d.Degree < 1 {
			err = fmt.Errorf("pde %s dimension %s has invalid level %d / degree %d",
				name, d.Name, d.Level, d.Degree)
			return
		}
	}
	for _, term := range terms {
		if len(term.TypePerDim) != len(dims) {
			err = fmt.Errorf("pde %s term %s covers %d dimensions, want %d",
				name, term.Name, len(term.TypePerDim), len(dims))
			return
		}
	}
	p = &PDE{
		Name:       name,
		Dimensions: dims,
		Terms:      terms,
		Sources:    sources,
	}
	return
}

func (p *PDE) NumDims() int    { return len(p.Dimensions) }
func (p *PDE) NumTerms() int   { return len(p.Terms) }
func (p *PDE) NumSources() int { return len(p.Sources) }

// ElementSegmentSize is the degrees-of-freedom count of a single element,
// degree^numDims
func (p *PDE) ElementSegmentSize() int {
	return utils.IntPow(p.Dimensions[0].Degree, p.NumDims())
}

// GetDt returns the stability-limited base time step, scaled by CFL in the
// driver
func (p *PDE) GetDt() float64 {
	d := p.Dimensions[0]
	dx := (d.DomainMax - d.DomainMin) / float64(utils.IntPow(2, d.Level))
	return dx
}

// ExactTime returns the separated time factor of the analytic solution
func (p *PDE) ExactTime(t float64) float64 {
	if p.ExactTimeFunc == nil {
		return 1
	}
	return p.ExactTimeFunc(t)
}

// cosProfile is the separable initial condition shared by the built-in
// model problems
func cosProfile(x []float64, t float64) (fx []float64) {
	fx = make([]float64, len(x))
	for i, val := range x {
		fx[i] = math.Cos(math.Pi * val)
	}
	return
}

// Continuity1D is the 1-D advection model problem du/dt = -du/dx
func Continuity1D(level, degree int) (p *PDE, err error) {
	dims := []Dimension{
		{DomainMin: -1, DomainMax: 1, Level: level, Degree: degree,
			InitialCondition: cosProfile, Name: "x"},
	}
	terms := []Term{
		{Name: "d_dx", TypePerDim: []CoefficientType{Grad}, Scale: -1},
	}
	return New("continuity_1", dims, terms, nil)
}

// Continuity2D is the 2-D advection model problem
// du/dt = -du/dx - du/dy
func Continuity2D(level, degree int) (p *PDE, err error) {
	dims := []Dimension{
		{DomainMin: -1, DomainMax: 1, Level: level, Degree: degree,
			InitialCondition: cosProfile, Name: "x"},
		{DomainMin: -1, DomainMax: 1, Level: level, Degree: degree,
			InitialCondition: cosProfile, Name: "y"},
	}
	terms := []Term{
		{Name: "d_dx", TypePerDim: []CoefficientType{Grad, Mass}, Scale: -1},
		{Name: "d_dy", TypePerDim: []CoefficientType{Mass, Grad}, Scale: -1},
	}
	return New("continuity_2", dims, terms, nil)
}

// Diffusion2D is the 2-D heat equation du/dt = d2u/dx2 + d2u/dy2 with the
// separable analytic solution cos(pi x) cos(pi y) exp(-2 pi^2 t)
func Diffusion2D(level, degree int) (p *PDE, err error) {
	dims := []Dimension{
		{DomainMin: -1, DomainMax: 1, Level: level, Degree: degree,
			InitialCondition: cosProfile, Name: "x"},
		{DomainMin: -1, DomainMax: 1, Level: level, Degree: degree,
			InitialCondition: cosProfile, Name: "y"},
	}
	terms := []Term{
		{Name: "laplace_x", TypePerDim: []CoefficientType{Diffusion, Mass}, Scale: 1},
		{Name: "laplace_y", TypePerDim: []CoefficientType{Mass, Diffusion}, Scale: 1},
	}
	p, err = New("diffusion_2", dims, terms, nil)
	if err != nil {
		return
	}
	p.HasAnalyticSoln = true
	p.ExactVectorFuncs = []VectorFunc{cosProfile, cosProfile}
	p.ExactTimeFunc = func(t float64) float64 {
		return math.Exp(-2 * math.Pi * math.Pi * t)
	}
	return
}

// Relaxation2D is a linear decay problem du/dt = -u whose solution in any
// basis is the initial condition scaled by exp(-t); it exercises the full
// distributed pipeline with an exactly known answer
func Relaxation2D(level, degree int) (p *PDE, err error) {
	dims := []Dimension{
		{DomainMin: -1, DomainMax: 1, Level: level, Degree: degree,
			InitialCondition: cosProfile, Name: "x"},
		{DomainMin: -1, DomainMax: 1, Level: level, Degree: degree,
			InitialCondition: cosProfile, Name: "y"},
	}
	terms := []Term{
		{Name: "decay", TypePerDim: []CoefficientType{Mass, Mass}, Scale: -1},
	}
	p, err = New("relaxation_2", dims, terms, nil)
	if err != nil {
		return
	}
	p.HasAnalyticSoln = true
	p.ExactVectorFuncs = []VectorFunc{cosProfile, cosProfile}
	p.ExactTimeFunc = func(t float64) float64 { return math.Exp(-t) }
	return
}

// MakePDE maps a CLI selection string to its constructor
func MakePDE(name string, level, degree int) (p *PDE, err error) {
	switch name {
	case "continuity_1":
		p, err = Continuity1D(level, degree)
	case "continuity_2":
		p, err = Continuity2D(level, degree)
	case "diffusion_2":
		p, err = Diffusion2D(level, degree)
	case "relaxation_2":
		p, err = Relaxation2D(level, degree)
	default:
		err = fmt.Errorf("unknown pde %q", name)
	}
	return
}
