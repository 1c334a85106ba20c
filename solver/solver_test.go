package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gosg/InputParameters"
	"github.com/notargets/gosg/timestep"
)

func TestFromParameters(t *testing.T) {
	{
		sp := &InputParameters.SolverParameters{}
		assert.Nil(t, sp.Parse([]byte("PDE: diffusion_2\nLevel: 3\nSolveMethod: gmres\n")))
		cfg, err := FromParameters(sp)
		assert.Nil(t, err)
		assert.Equal(t, "diffusion_2", cfg.PDEName)
		assert.Equal(t, 3, cfg.Level)
		assert.Equal(t, timestep.IterativeGMRES, cfg.Method)
		assert.Equal(t, 10000, cfg.WorkspaceMB)
	}
	{
		sp := &InputParameters.SolverParameters{SolveMethod: "broyden"}
		_, err := FromParameters(sp)
		assert.NotNil(t, err)
	}
}

func TestRunExplicit(t *testing.T) {
	// linear decay tracks its analytic solution through the whole
	// distributed pipeline
	{
		cfg := Config{
			PDEName:     "relaxation_2",
			Level:       2,
			Degree:      2,
			NumSteps:    10,
			CFL:         0.01,
			NumRanks:    4,
			WorkspaceMB: 1000,
			Quiet:       true,
		}
		res, err := Run(cfg)
		assert.Nil(t, err)
		assert.Equal(t, 17, res.Table.Size())
		assert.Equal(t, 17*4, len(res.FinalSolution))
		assert.Equal(t, 4, len(res.RMSE))
		for _, rmse := range res.RMSE {
			assert.True(t, rmse < 1.e-6)
		}
	}
	// rank counts beyond the tiling restriction still run
	{
		cfg := Config{
			PDEName:     "continuity_2",
			Level:       2,
			Degree:      2,
			NumSteps:    2,
			CFL:         0.01,
			NumRanks:    3,
			WorkspaceMB: 1000,
			Quiet:       true,
		}
		res, err := Run(cfg)
		assert.Nil(t, err)
		assert.Equal(t, 17*4, len(res.FinalSolution))
	}
	{
		_, err := Run(Config{PDEName: "nope", Level: 2, Degree: 2, NumRanks: 1})
		assert.NotNil(t, err)
	}
}

func TestRunImplicit(t *testing.T) {
	{
		cfg := Config{
			PDEName:     "relaxation_2",
			Level:       2,
			Degree:      2,
			NumSteps:    5,
			DT:          0.1,
			Implicit:    true,
			Method:      timestep.Direct,
			NumRanks:    1,
			WorkspaceMB: 1000,
			Quiet:       true,
		}
		res, err := Run(cfg)
		assert.Nil(t, err)
		assert.True(t, near(res.FinalTime, 0.5, 1.e-12))
		// backward Euler decay overshoots exp(-t) slightly but stays close
		assert.Equal(t, 1, len(res.RMSE))
		assert.True(t, res.RMSE[0] < 2.e-2)
	}
}

func TestRealspace(t *testing.T) {
	{
		cfg := Config{
			PDEName:     "relaxation_2",
			Level:       2,
			Degree:      2,
			NumSteps:    1,
			CFL:         0.01,
			NumRanks:    1,
			WorkspaceMB: 1000,
			Quiet:       true,
		}
		res, err := Run(cfg)
		assert.Nil(t, err)
		real := Realspace(res, 1000)
		// one value per 2D sample point of the realspace grid
		assert.Equal(t, 16*16, len(real))
	}
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
