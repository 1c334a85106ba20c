package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// SolverParameters is the yaml-facing run description. Zero values fall
// back to the defaults applied in Parse.
type SolverParameters struct {
	Title        string  `json:"Title"`
	PDE          string  `json:"PDE"`
	Level        int     `json:"Level"`
	Degree       int     `json:"Degree"`
	FullGrid     bool    `json:"FullGrid"`
	NumSteps     int     `json:"NumSteps"`
	CFL          float64 `json:"CFL"`
	DT           float64 `json:"DT"`
	Implicit     bool    `json:"Implicit"`
	SolveMethod  string  `json:"SolveMethod"` // direct or gmres
	NumRanks     int     `json:"NumRanks"`
	WorkspaceMB  int     `json:"WorkspaceMB"`
	OutputRealsp bool    `json:"OutputRealspace"`
}

func (sp *SolverParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, sp); err != nil {
		return
	}
	if sp.PDE == "" {
		sp.PDE = "continuity_1"
	}
	if sp.Level == 0 {
		sp.Level = 2
	}
	if sp.Degree == 0 {
		sp.Degree = 2
	}
	if sp.NumSteps == 0 {
		sp.NumSteps = 10
	}
	if sp.CFL == 0 {
		sp.CFL = 0.01
	}
	if sp.NumRanks == 0 {
		sp.NumRanks = 1
	}
	if sp.WorkspaceMB == 0 {
		sp.WorkspaceMB = 10000
	}
	if sp.SolveMethod == "" {
		sp.SolveMethod = "direct"
	}
	return
}

func (sp *SolverParameters) Print() {
	out, err := yaml.Marshal(sp)
	if err != nil {
		panic(err)
	}
	fmt.Println("Solver parameters:")
	fmt.Println(string(out))
}
