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
	"os"
	"time"

	"github.com/notargets/gofea/InputParameters"
	"github.com/notargets/gofea/poisson"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

type ModelPoisson struct {
	ICFile  string
	Profile bool
}

// poissonCmd represents the poisson command
var poissonCmd = &cobra.Command{
	Use:   "poisson",
	Short: "Two dimensional Poisson solver on a structured quad mesh",
	Long: `
Assembles and solves the Poisson equation with per-side Dirichlet or Neumann
boundary conditions, exercising the FEValues / FEFaceValues evaluators.

gofea poisson -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		mp := &ModelPoisson{}
		mp.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
		mp.Profile, _ = cmd.Flags().GetBool("profile")
		ip := processPoissonInput(mp)
		RunPoisson(mp, ip)
	},
}

func processPoissonInput(mp *ModelPoisson) (ip *InputParameters.PoissonParameters) {
	var (
		err error
	)
	if len(mp.ICFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Unit Square"
PolynomialOrder: 1
Nx: 32
Ny: 32
XMax: 1.
YMax: 1.
Tolerance: 1.e-10
MaxIterations: 5000
BCs:
  left:
    Dirichlet: 0.
  right:
    Neumann: 1.
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(mp.ICFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.PoissonParameters{
		Tolerance:     1.e-10,
		MaxIterations: 5000,
	}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func init() {
	rootCmd.AddCommand(poissonCmd)
	poissonCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- PolynomialOrder\n\t- Nx, Ny\n\t- BCs")
	poissonCmd.Flags().BoolP("profile", "p", false, "write a CPU profile of the assembly and solve")
}

func RunPoisson(mp *ModelPoisson, ip *InputParameters.PoissonParameters) {
	if mp.Profile {
		defer profile.Start(profile.CPUProfile).Stop()
	}
	ip.Print()
	s := poisson.NewSolver(ip.Nx, ip.Ny, ip.XMax, ip.YMax, ip.PolynomialOrder)
	for side, params := range ip.BCs {
		if _, isNeumann := params["Neumann"]; isNeumann {
			s.NeumannSides[side] = true
		}
	}
	s.DirichletFunc = func(x []float64) (g float64) {
		// per side constants from the input file; sides without a value
		// default to zero
		for side, params := range ip.BCs {
			if onSide(x, side, ip.XMax, ip.YMax) {
				g = params["Dirichlet"]
				return
			}
		}
		return
	}
	s.NeumannFunc = func(x []float64) (h float64) {
		for side, params := range ip.BCs {
			if onSide(x, side, ip.XMax, ip.YMax) && s.NeumannSides[side] {
				h = params["Neumann"]
				return
			}
		}
		return
	}

	start := time.Now()
	s.Assemble()
	fmt.Printf("assembled %d dofs, %d non-zeros in %v\n",
		s.DM.NDofs, s.A.NNZ(), time.Since(start))

	start = time.Now()
	iters := s.Solve(ip.Tolerance, ip.MaxIterations)
	fmt.Printf("CG converged in %d iterations, %v\n", iters, time.Since(start))
}

func onSide(x []float64, side string, xmax, ymax float64) bool {
	const eps = 1.e-12
	switch side {
	case "bottom":
		return x[1] < eps
	case "right":
		return x[0] > xmax-eps
	case "top":
		return x[1] > ymax-eps
	case "left":
		return x[0] < eps
	}
	return false
}
