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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gocsm/InputParameters"
	"github.com/notargets/gocsm/assembly"
	"github.com/notargets/gocsm/elasticity"
	"github.com/notargets/gocsm/element"
	"github.com/notargets/gocsm/material"
	"github.com/notargets/gocsm/utils"
)

type PatchSummary struct {
	NElements, NNodes, NDof int
	NNZ                     int
	Symmetric               bool
	ResidualNorm            float64
	NetForce                [3]float64
	VolumeRatio             float64 // mean Vol_x/Vol_X, mean dilatation runs only
	Elapsed                 time.Duration
}

// PatchCmd represents the patch command
var PatchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Evaluate and assemble a block of elements under a homogeneous deformation",
	Long: `
Builds a structured block of Quad4 (2D, plane strain) or Hexa8 (3D) elements,
places the nodes at x = F.X and assembles the tangent stiffness and internal
forces of every element,

gocsm patch -I input.yaml --meanDilatation`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("patch called")
		ip := processPatchInput(cmd)
		ip.Print()
		stop, err := startProfile(viper.GetString("profile"), ".")
		exitOnError(err)
		s, err := RunPatch(context.Background(), ip)
		// exitOnError does not return, the profile is written first
		stop()
		exitOnError(err)
		s.Print()
		fmt.Println(utils.GetMemUsage())
	},
}

func init() {
	rootCmd.AddCommand(PatchCmd)
	PatchCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- E, Nu or Mu, Lambda\n\t- F (deformation gradient)")
	PatchCmd.Flags().IntP("dim", "n", 3, "dimension, 2 = plane strain quadrilaterals, 3 = hexahedra")
	PatchCmd.Flags().IntP("divisions", "k", 2, "elements along each edge of the block")
	PatchCmd.Flags().Float64("length", 1, "edge length of the block")
	PatchCmd.Flags().StringP("material", "m", "neohookean", fmt.Sprintf("material model, one of %v", material.Names()))
	PatchCmd.Flags().Float64("E", 1000, "Young's modulus")
	PatchCmd.Flags().Float64("nu", 0.3, "Poisson's ratio")
	PatchCmd.Flags().Float64("kappa", 0, "bulk modulus of the mean dilatation term, 0 derives it from E and nu")
	PatchCmd.Flags().Float64("stretch", 1, "uniform stretch on the diagonal of F")
	PatchCmd.Flags().Float64("shear", 0, "shear component F[0][1]")
	PatchCmd.Flags().Bool("meanDilatation", false, "add the mean dilatation (B-bar) pressure stiffness")
	PatchCmd.Flags().Bool("integrateCurrent", false, "integrate the tangent over the current volume")
	PatchCmd.Flags().IntP("parallel", "p", 0, "parallel degree, 0 = number of CPUs")
	PatchCmd.Flags().String("profile", "", "write a cpu or mem profile to the current directory")
	for _, name := range []string{"dim", "divisions", "length", "material", "E", "nu", "kappa",
		"stretch", "shear", "meanDilatation", "integrateCurrent", "parallel", "profile"} {
		if err := viper.BindPFlag(name, PatchCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func processPatchInput(cmd *cobra.Command) (ip *InputParameters.InputParameters) {
	var (
		err error
	)
	ip = InputParameters.NewInputParameters()
	if ICFile, _ := cmd.Flags().GetString("inputConditionsFile"); len(ICFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(ICFile); err != nil {
			exitOnError(err)
		}
		if err = ip.Parse(data); err != nil {
			exitOnError(err)
		}
	} else {
		// without a file the flag defaults describe the run
		ip.E, ip.Nu = viper.GetFloat64("E"), viper.GetFloat64("nu")
	}
	// flags and the config file override the input file
	set := func(key string) bool { return cmd.Flags().Changed(key) || viper.InConfig(key) }
	if set("dim") {
		ip.NDim = viper.GetInt("dim")
	}
	if set("divisions") {
		ip.Divisions = viper.GetInt("divisions")
	}
	if set("length") {
		ip.Length = viper.GetFloat64("length")
	}
	if set("material") {
		ip.Material = viper.GetString("material")
	}
	if set("E") {
		ip.E = viper.GetFloat64("E")
	}
	if set("nu") {
		ip.Nu = viper.GetFloat64("nu")
	}
	if set("kappa") {
		ip.Kappa = viper.GetFloat64("kappa")
	}
	if set("meanDilatation") {
		ip.MeanDilatation = viper.GetBool("meanDilatation")
	}
	if set("integrateCurrent") {
		ip.IntegrateCurrent = viper.GetBool("integrateCurrent")
	}
	if set("parallel") {
		ip.ParallelDegree = viper.GetInt("parallel")
	}
	if set("stretch") || set("shear") {
		ip.F = HomogeneousF(ip.NDim, viper.GetFloat64("stretch"), viper.GetFloat64("shear"))
	}
	return
}

// HomogeneousF builds an nDim x nDim deformation gradient with a uniform stretch and one shear term
func HomogeneousF(nDim int, stretch, shear float64) (F [][]float64) {
	F = make([][]float64, nDim)
	for i := range F {
		F[i] = make([]float64, nDim)
		F[i][i] = stretch
	}
	F[0][1] = shear
	return
}

// RunPatch evaluates and assembles the block described by ip
func RunPatch(ctx context.Context, ip *InputParameters.InputParameters) (s *PatchSummary, err error) {
	var (
		props  material.Properties
		F      utils.Tensor3
		mesh   *element.Mesh
		solids []*element.Solid
		sys    *assembly.System
		start  = time.Now()
	)
	if props, err = ip.Properties(); err != nil {
		return
	}
	if F, err = ip.DeformationGradient(); err != nil {
		return
	}
	if mesh, err = element.NewBlockMesh(ip.NDim, ip.Divisions, ip.Length); err != nil {
		return
	}
	if solids, err = mesh.Solids(); err != nil {
		return
	}
	if err = mesh.UpdateCurrent(solids, mesh.Deform(F)); err != nil {
		return
	}
	prm := elasticity.Parameters{Kappa: props.Kappa, IntegrateCurrent: ip.IntegrateCurrent}
	as := &assembly.Assembler{
		NDim:           ip.NDim,
		NumNodes:       mesh.NNodes(),
		ParallelDegree: ip.ParallelDegree,
		MeanDilatation: ip.MeanDilatation,
		Metrics:        assembly.NewMetrics(prometheus.NewRegistry()),
		NewKernel: func() (*elasticity.NonlinearKernel, error) {
			model, err := material.New(ip.Material, props)
			if err != nil {
				return nil, err
			}
			return elasticity.NewNonlinearKernel(ip.NDim, model, prm)
		},
	}
	if sys, err = as.Run(ctx, assembly.FromSolids(solids), mesh.EToV); err != nil {
		return
	}
	s = &PatchSummary{
		NElements:    mesh.NElements(),
		NNodes:       mesh.NNodes(),
		NDof:         len(sys.Residual),
		NNZ:          sys.K.NNZ(),
		Symmetric:    sys.K.IsSymmetric(1.e-10),
		ResidualNorm: floats.Norm(sys.Residual, 2),
		Elapsed:      time.Since(start),
	}
	for a := 0; a < mesh.NNodes(); a++ {
		for i := 0; i < ip.NDim; i++ {
			s.NetForce[i] += sys.Residual[a*ip.NDim+i]
		}
	}
	if ip.MeanDilatation {
		for _, md := range sys.Dilatation {
			s.VolumeRatio += md.Ratio()
		}
		s.VolumeRatio /= float64(len(sys.Dilatation))
	}
	return
}

// startProfile starts a cpu or mem profile written to dir, an empty kind profiles nothing
func startProfile(kind, dir string) (stop func(), err error) {
	var mode func(*profile.Profile)
	switch kind {
	case "":
		return func() {}, nil
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	default:
		return nil, fmt.Errorf("unknown profile type %q, use cpu or mem", kind)
	}
	return profile.Start(mode, profile.ProfilePath(dir), profile.NoShutdownHook).Stop, nil
}

func (s *PatchSummary) Print() {
	fmt.Printf("[%d]\t\t\t\t= Elements\n", s.NElements)
	fmt.Printf("[%d]\t\t\t\t= Nodes\n", s.NNodes)
	fmt.Printf("[%d]\t\t\t\t= Degrees of Freedom\n", s.NDof)
	fmt.Printf("[%d]\t\t\t\t= Tangent Non Zeros\n", s.NNZ)
	fmt.Printf("[%v]\t\t\t= Tangent Symmetric\n", s.Symmetric)
	fmt.Printf("%8.5e\t\t= Internal Force Norm\n", s.ResidualNorm)
	fmt.Printf("%v\t= Net Internal Force\n", s.NetForce)
	if s.VolumeRatio != 0 {
		fmt.Printf("%8.5f\t\t= Mean Volume Ratio\n", s.VolumeRatio)
	}
	fmt.Printf("%v\t\t= Elapsed\n", s.Elapsed)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
}
