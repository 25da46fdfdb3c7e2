package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type PoissonParameters struct {
	Title           string                        `yaml:"Title"`
	PolynomialOrder int                           `yaml:"PolynomialOrder"`
	Nx              int                           `yaml:"Nx"`
	Ny              int                           `yaml:"Ny"`
	XMax            float64                       `yaml:"XMax"`
	YMax            float64                       `yaml:"YMax"`
	Tolerance       float64                       `yaml:"Tolerance"`
	MaxIterations   int                           `yaml:"MaxIterations"`
	BCs             map[string]map[string]float64 `yaml:"BCs"` // First key is the side name, second is parameter name
}

func (ip *PoissonParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	return ip.validate()
}

func (ip *PoissonParameters) validate() error {
	if ip.PolynomialOrder < 1 {
		return fmt.Errorf("PolynomialOrder must be >= 1, have %d", ip.PolynomialOrder)
	}
	if ip.Nx < 1 || ip.Ny < 1 {
		return fmt.Errorf("mesh must have at least one cell per direction, have %dx%d", ip.Nx, ip.Ny)
	}
	for side := range ip.BCs {
		switch side {
		case "bottom", "right", "top", "left":
		default:
			return fmt.Errorf("unknown boundary side %q, must be bottom, right, top or left", side)
		}
	}
	return nil
}

func (ip *PoissonParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", ip.PolynomialOrder)
	fmt.Printf("[%dx%d]\t\t\t= Mesh Cells\n", ip.Nx, ip.Ny)
	fmt.Printf("%8.5f x %8.5f\t= Domain\n", ip.XMax, ip.YMax)
	fmt.Printf("%8.2e\t\t= Tolerance\n", ip.Tolerance)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
