package fem

import (
	"fmt"

	"github.com/notargets/gofea/utils"
)

// FEValues evaluates a finite element basis on concrete mesh cells. The
// reference-space tables are built once in the constructor; Reinit updates
// the per-cell state for the next cell of the assembly loop and invalidates
// everything handed out for the previous one.
//
// One instance serves one assembly worker: Reinit mutates shared internal
// state without locking, so concurrent Reinit on a shared instance is a data
// race. The constructor-built tables are immutable and may back any number
// of instances.
type FEValues struct {
	NQ, NDofs int
	dim       int
	flags     UpdateFlags

	// reference tables, immutable after construction
	shapeValues       utils.Matrix // NDofs x NQ
	unitShapeGrads    [][][]float64
	weights           []float64
	unitQPoints       [][]float64
	unitSupportPoints [][]float64

	// per cell state, overwritten on every Reinit
	shapeGrads    [][][]float64
	jacobians     []utils.Matrix
	jxwValues     []float64
	qPoints       [][]float64
	supportPoints [][]float64
}

// NewFEValues builds the reference table for (fe, q) and fixes the requested
// fields for the lifetime of the instance. Both references are borrowed and
// must outlive the evaluator. An unsatisfiable flag combination fails here,
// before any Reinit can run.
func NewFEValues(fe FiniteElement, q *Quadrature, flags UpdateFlags) (fv *FEValues) {
	if err := flags.Validate(); err != nil {
		panic(err)
	}
	if q.Dim != fe.Dim() {
		panic(fmt.Errorf("quadrature dimension %d does not match element dimension %d", q.Dim, fe.Dim()))
	}
	fv = &FEValues{
		NQ:    q.NQ,
		NDofs: fe.TotalDofs(),
		dim:   fe.Dim(),
		flags: flags,
	}
	fv.buildReferenceTables(fe, q)
	fv.allocCellState()
	return
}

func (fv *FEValues) buildReferenceTables(fe FiniteElement, q *Quadrature) {
	fv.shapeValues = utils.NewMatrix(fv.NDofs, fv.NQ)
	fv.unitShapeGrads = make([][][]float64, fv.NDofs)
	for i := 0; i < fv.NDofs; i++ {
		fv.unitShapeGrads[i] = make([][]float64, fv.NQ)
		for j := 0; j < fv.NQ; j++ {
			fv.shapeValues.Set(i, j, fe.ShapeValue(i, q.Point(j)))
			fv.unitShapeGrads[i][j] = fe.ShapeGrad(i, q.Point(j))
		}
	}
	fv.shapeValues.SetReadOnly("shapeValues")

	fv.weights = make([]float64, fv.NQ)
	fv.unitQPoints = make([][]float64, fv.NQ)
	for j := 0; j < fv.NQ; j++ {
		fv.weights[j] = q.Weight(j)
		fv.unitQPoints[j] = q.Point(j)
	}

	fv.unitSupportPoints = make([][]float64, fv.NDofs)
	for i := 0; i < fv.NDofs; i++ {
		fv.unitSupportPoints[i] = fe.UnitSupportPoint(i)
	}
}

func (fv *FEValues) allocCellState() {
	fv.shapeGrads = make([][][]float64, fv.NDofs)
	for i := range fv.shapeGrads {
		fv.shapeGrads[i] = make([][]float64, fv.NQ)
		for j := range fv.shapeGrads[i] {
			fv.shapeGrads[i][j] = make([]float64, fv.dim)
		}
	}
	fv.jacobians = make([]utils.Matrix, fv.NQ)
	fv.qPoints = make([][]float64, fv.NQ)
	for j := 0; j < fv.NQ; j++ {
		fv.jacobians[j] = utils.NewMatrix(fv.dim, fv.dim)
		fv.qPoints[j] = make([]float64, fv.dim)
	}
	fv.jxwValues = make([]float64, fv.NQ)
	fv.supportPoints = make([][]float64, fv.NDofs)
	for i := 0; i < fv.NDofs; i++ {
		fv.supportPoints[i] = make([]float64, fv.dim)
	}
}

// Reinit recomputes the per-cell state for cell, overwriting the state of
// the previously visited cell. Views handed out by accessors before this
// call are invalidated.
func (fv *FEValues) Reinit(cell *Cell, mapper GeometryMapper) {
	if fv.flags.Has(UpdateJacobians) || fv.flags.Has(UpdateQuadraturePoints) ||
		fv.flags.Has(UpdateSupportPoints) {
		mapper.FillCellValues(cell, fv.unitQPoints,
			fv.jacobians, fv.flags.Has(UpdateJacobians),
			fv.unitSupportPoints, fv.supportPoints, fv.flags.Has(UpdateSupportPoints),
			fv.qPoints, fv.flags.Has(UpdateQuadraturePoints))
	}

	if fv.flags.Has(UpdateGradients) {
		fv.transformGradients(fv.unitShapeGrads)
	}

	if fv.flags.Has(UpdateJxW) {
		// the Jacobian here is the inverse-map Jacobian, so dividing by its
		// determinant recovers the forward volume element
		for j := 0; j < fv.NQ; j++ {
			fv.jxwValues[j] = fv.weights[j] / fv.jacobians[j].Det()
		}
	}
}

// transformGradients applies the chain rule
// (grad psi)_s = (grad_ref psi)_b * J[b][s], J[b][s] = dXi_b/dX_s.
func (fv *FEValues) transformGradients(unitGrads [][][]float64) {
	for i := 0; i < fv.NDofs; i++ {
		for j := 0; j < fv.NQ; j++ {
			var (
				ug = unitGrads[i][j]
				g  = fv.shapeGrads[i][j]
				J  = fv.jacobians[j]
			)
			for s := 0; s < fv.dim; s++ {
				g[s] = 0
				for b := 0; b < fv.dim; b++ {
					g[s] += ug[b] * J.At(b, s)
				}
			}
		}
	}
}

func (fv *FEValues) checkDofIndex(i int) {
	if i < 0 || i >= fv.NDofs {
		panic(fmt.Errorf("index out of range: dof index = %d, total dofs = %d", i, fv.NDofs))
	}
}

func (fv *FEValues) checkQIndex(j int) {
	if j < 0 || j >= fv.NQ {
		panic(fmt.Errorf("index out of range: quadrature index = %d, n quadrature points = %d", j, fv.NQ))
	}
}

func (fv *FEValues) checkFlag(f UpdateFlags, what string) {
	if !fv.flags.Has(f) {
		panic(fmt.Errorf("access to uninitialized field: %s not requested in update flags %v", what, fv.flags))
	}
}

// ShapeValue returns the value of basis function i at quadrature point j.
// Valid immediately after construction; independent of Reinit.
func (fv *FEValues) ShapeValue(i, j int) float64 {
	fv.checkDofIndex(i)
	fv.checkQIndex(j)
	fv.checkFlag(UpdateValues, "values")
	return fv.shapeValues.At(i, j)
}

// ShapeGrad returns the physical-space gradient of basis function i at
// quadrature point j. The returned slice is a read-only view, valid until
// the next Reinit.
func (fv *FEValues) ShapeGrad(i, j int) []float64 {
	fv.checkDofIndex(i)
	fv.checkQIndex(j)
	fv.checkFlag(UpdateGradients, "gradients")
	return fv.shapeGrads[i][j]
}

// QuadraturePoint returns the physical location of quadrature point j for
// the current cell.
func (fv *FEValues) QuadraturePoint(j int) []float64 {
	fv.checkQIndex(j)
	fv.checkFlag(UpdateQuadraturePoints, "quadrature_points")
	return fv.qPoints[j]
}

// SupportPoint returns the physical location of the node defining dof i for
// the current cell.
func (fv *FEValues) SupportPoint(i int) []float64 {
	fv.checkDofIndex(i)
	fv.checkFlag(UpdateSupportPoints, "support_points")
	return fv.supportPoints[i]
}

// JxW returns the integration weight of quadrature point j in physical
// space for the current cell.
func (fv *FEValues) JxW(j int) float64 {
	fv.checkQIndex(j)
	fv.checkFlag(UpdateJxW, "JxW")
	return fv.jxwValues[j]
}

func (fv *FEValues) Flags() UpdateFlags { return fv.flags }
