package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/gocsm/material"
	"github.com/notargets/gocsm/utils"
)

// Parameters obtained from the YAML input file.
// ghodss/yaml converts YAML to JSON before decoding, so the keys are json tags.
type InputParameters struct {
	Title            string      `json:"Title"`
	NDim             int         `json:"NDim"`
	Material         string      `json:"Material"`
	E                float64     `json:"E"`  // Young's modulus, takes precedence over Mu/Lambda
	Nu               float64     `json:"Nu"` // Poisson's ratio
	Mu               float64     `json:"Mu"`
	Lambda           float64     `json:"Lambda"`
	Kappa            float64     `json:"Kappa"` // defaults to Lambda + 2Mu/3
	MeanDilatation   bool        `json:"MeanDilatation"`
	IntegrateCurrent bool        `json:"IntegrateCurrent"`
	Divisions        int         `json:"Divisions"`
	Length           float64     `json:"Length"`
	F                [][]float64 `json:"F"` // homogeneous deformation gradient, nDim x nDim
	ParallelDegree   int         `json:"ParallelDegree"`
}

func NewInputParameters() (ip *InputParameters) {
	ip = &InputParameters{}
	ip.SetDefaults()
	return
}

// SetDefaults fills unset run parameters
func (ip *InputParameters) SetDefaults() {
	if ip.NDim == 0 {
		ip.NDim = 3
	}
	if len(ip.Material) == 0 {
		ip.Material = "neohookean"
	}
	if ip.Divisions == 0 {
		ip.Divisions = 2
	}
	if ip.Length == 0 {
		ip.Length = 1
	}
}

func (ip *InputParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	ip.SetDefaults()
	return
}

// Properties resolves the elastic constants, from E and Nu when E is given
func (ip *InputParameters) Properties() (p material.Properties, err error) {
	if ip.E != 0 {
		if p, err = material.NewProperties(ip.E, ip.Nu); err != nil {
			return
		}
		if ip.Kappa != 0 {
			p.Kappa = ip.Kappa
		}
	} else {
		p = material.Properties{Mu: ip.Mu, Lambda: ip.Lambda, Kappa: ip.Kappa}
		if p.Kappa == 0 {
			p.Kappa = p.Lambda + 2*p.Mu/3
		}
	}
	err = p.Validate()
	return
}

// DeformationGradient returns F embedded in a 3x3 tensor, the identity when none is given
func (ip *InputParameters) DeformationGradient() (F utils.Tensor3, err error) {
	F = utils.Identity3()
	if len(ip.F) == 0 {
		return
	}
	if len(ip.F) != ip.NDim {
		err = fmt.Errorf("%w: F has %d rows, NDim = %d", utils.ErrDimension, len(ip.F), ip.NDim)
		return
	}
	for i, row := range ip.F {
		if len(row) != ip.NDim {
			err = fmt.Errorf("%w: F row %d has %d columns, NDim = %d",
				utils.ErrDimension, i, len(row), ip.NDim)
			return
		}
		for j := range row {
			F[i][j] = row[j]
		}
	}
	return
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Dimension\n", ip.NDim)
	fmt.Printf("[%s]\t\t= Material\n", ip.Material)
	if ip.E != 0 {
		fmt.Printf("%8.5f\t\t= E\n", ip.E)
		fmt.Printf("%8.5f\t\t= Nu\n", ip.Nu)
	} else {
		fmt.Printf("%8.5f\t\t= Mu\n", ip.Mu)
		fmt.Printf("%8.5f\t\t= Lambda\n", ip.Lambda)
	}
	fmt.Printf("%8.5f\t\t= Kappa\n", ip.Kappa)
	fmt.Printf("[%v]\t\t\t= Mean Dilatation\n", ip.MeanDilatation)
	fmt.Printf("[%v]\t\t\t= Integrate Current\n", ip.IntegrateCurrent)
	fmt.Printf("[%d]\t\t\t\t= Divisions\n", ip.Divisions)
	fmt.Printf("%8.5f\t\t= Length\n", ip.Length)
	fmt.Printf("F = %v\n", ip.F)
}
