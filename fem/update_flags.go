package fem

import (
	"fmt"
	"strings"
)

// UpdateFlags declares, at construction time, which fields an evaluator must
// be able to hand out. Requesting a derived field without its prerequisite is
// rejected before any Reinit can run.
type UpdateFlags uint16

const (
	UpdateValues UpdateFlags = 1 << iota
	UpdateGradients
	UpdateQuadraturePoints
	UpdateSupportPoints
	UpdateJacobians
	UpdateJxW
	UpdateNormalVectors

	UpdateDefault = UpdateValues | UpdateGradients | UpdateJacobians | UpdateJxW
)

func (uf UpdateFlags) Has(f UpdateFlags) bool {
	return uf&f != 0
}

// Validate enforces the field dependency rules: transformed gradients and JxW
// integration weights both need the per-cell Jacobian matrices.
func (uf UpdateFlags) Validate() error {
	if uf.Has(UpdateGradients) && !uf.Has(UpdateJacobians) {
		return fmt.Errorf("invalid update flags %v: gradients require jacobians", uf)
	}
	if uf.Has(UpdateJxW) && !uf.Has(UpdateJacobians) {
		return fmt.Errorf("invalid update flags %v: JxW values require jacobians", uf)
	}
	return nil
}

func (uf UpdateFlags) String() string {
	var (
		names []string
		tags  = []struct {
			f    UpdateFlags
			name string
		}{
			{UpdateValues, "values"},
			{UpdateGradients, "gradients"},
			{UpdateQuadraturePoints, "quadrature_points"},
			{UpdateSupportPoints, "support_points"},
			{UpdateJacobians, "jacobians"},
			{UpdateJxW, "JxW"},
			{UpdateNormalVectors, "normal_vectors"},
		}
	)
	for _, tag := range tags {
		if uf.Has(tag.f) {
			names = append(names, tag.name)
		}
	}
	if len(names) == 0 {
		return "[none]"
	}
	return "[" + strings.Join(names, "|") + "]"
}
