/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/gosg/InputParameters"
	"github.com/notargets/gosg/solver"
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run a PDE solve",
	Long: `
Runs the distributed solve for one of the built-in model problems, or a
run described by a yaml input file.

gosg solve -p diffusion_2 -l 3 -d 2 --steps 20`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			sp = &InputParameters.SolverParameters{}
		)
		if inputFile, _ := cmd.Flags().GetString("input"); inputFile != "" {
			data, err := ioutil.ReadFile(inputFile)
			if err != nil {
				fmt.Printf("unable to read input file %s: %v\n", inputFile, err)
				os.Exit(1)
			}
			if err = sp.Parse(data); err != nil {
				fmt.Printf("unable to parse input file %s: %v\n", inputFile, err)
				os.Exit(1)
			}
		} else {
			_ = sp.Parse(nil)
			sp.PDE, _ = cmd.Flags().GetString("pde")
			sp.Level, _ = cmd.Flags().GetInt("level")
			sp.Degree, _ = cmd.Flags().GetInt("degree")
			sp.FullGrid, _ = cmd.Flags().GetBool("fullGrid")
			sp.NumSteps, _ = cmd.Flags().GetInt("steps")
			sp.CFL, _ = cmd.Flags().GetFloat64("CFL")
			sp.DT, _ = cmd.Flags().GetFloat64("dt")
			sp.Implicit, _ = cmd.Flags().GetBool("implicit")
			sp.SolveMethod, _ = cmd.Flags().GetString("solver")
			sp.NumRanks, _ = cmd.Flags().GetInt("ranks")
			sp.WorkspaceMB, _ = cmd.Flags().GetInt("workspace")
		}
		sp.Print()
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start().Stop()
		}
		cfg, err := solver.FromParameters(sp)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		res, err := solver.Run(cfg)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("finished at t = %g, %d unknowns\n",
			res.FinalTime, len(res.FinalSolution))
		if len(res.RMSE) != 0 {
			fmt.Printf("rmse %v, relative %v %%\n", res.RMSE, res.RelativeRMSE)
		}
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().String("input", "", "yaml input file describing the run")
	solveCmd.Flags().StringP("pde", "p", "continuity_1", "model problem: continuity_1, continuity_2, diffusion_2, relaxation_2")
	solveCmd.Flags().IntP("level", "l", 2, "sparse grid level bound")
	solveCmd.Flags().IntP("degree", "d", 2, "polynomial degree per dimension")
	solveCmd.Flags().Bool("fullGrid", false, "use the full tensor grid instead of the sparse grid")
	solveCmd.Flags().IntP("steps", "s", 10, "number of time steps")
	solveCmd.Flags().Float64("CFL", 0.01, "CFL scaling of the stability time step")
	solveCmd.Flags().Float64("dt", 0, "explicit time step, overrides CFL when set")
	solveCmd.Flags().Bool("implicit", false, "use backward Euler instead of explicit RK")
	solveCmd.Flags().String("solver", "direct", "implicit solver: direct or gmres")
	solveCmd.Flags().IntP("ranks", "r", 1, "number of ranks in the in-process cluster")
	solveCmd.Flags().Int("workspace", 10000, "per-rank workspace ceiling in MB")
	solveCmd.Flags().Bool("profile", false, "write a cpu profile for the run")
}
