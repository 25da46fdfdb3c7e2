package fem

import (
	"fmt"

	"github.com/notargets/gofea/utils"
)

// EmbedFacePoint lifts a point given in the intrinsic dim-1 coordinates of
// face faceNo into the dim coordinates of the cell reference domain. The
// embedding is fixed per face: in 2-D, face 0 carries t to (t,0), face 1 to
// (1,t), face 2 to (t,1) and face 3 to (0,t).
func EmbedFacePoint(dim, faceNo int, p []float64) []float64 {
	if faceNo < 0 || faceNo >= 2*dim {
		panic(fmt.Errorf("index out of range: face index = %d, cell has %d faces", faceNo, 2*dim))
	}
	switch dim {
	case 2:
		t := p[0]
		switch faceNo {
		case 0:
			return []float64{t, 0}
		case 1:
			return []float64{1, t}
		case 2:
			return []float64{t, 1}
		default:
			return []float64{0, t}
		}
	default:
		panic(fmt.Errorf("face embedding not implemented for dimension %d", dim))
	}
}

// FEFaceValues evaluates a finite element basis on the faces of mesh cells.
// It keeps one reference table per face, because each face embeds the dim-1
// dimensional face quadrature rule into cell coordinates differently; the
// face selected by the last Reinit determines which table the accessors
// read.
type FEFaceValues struct {
	NQ, NDofs int
	dim       int
	nFaces    int
	flags     UpdateFlags

	// reference tables, immutable after construction, one per face
	shapeValues       []utils.Matrix
	unitShapeGrads    [][][][]float64 // [face][dof][q][dim]
	cellUnitPoints    [][][]float64   // [face][q][dim], embedded face points
	faceUnitPoints    [][]float64     // [q][dim-1]
	weights           []float64
	unitSupportPoints [][]float64

	selectedFace int

	// per cell state, overwritten on every Reinit
	shapeGrads    [][][]float64
	jacobians     []utils.Matrix
	jxwValues     []float64
	qPoints       [][]float64
	supportPoints [][]float64
	faceDets      []float64
	normals       [][]float64
}

// NewFEFaceValues takes a quadrature rule of dimension fe.Dim()-1 and builds
// one reference table per cell face. Flag validation and the face embedding
// both run here, so an unsupported configuration fails before any Reinit.
func NewFEFaceValues(fe FiniteElement, q *Quadrature, flags UpdateFlags) (fv *FEFaceValues) {
	if err := flags.Validate(); err != nil {
		panic(err)
	}
	var (
		dim = fe.Dim()
	)
	if q.Dim != dim-1 {
		panic(fmt.Errorf("face quadrature dimension %d does not match element dimension %d - 1", q.Dim, dim))
	}
	fv = &FEFaceValues{
		NQ:     q.NQ,
		NDofs:  fe.TotalDofs(),
		dim:    dim,
		nFaces: 2 * dim,
		flags:  flags,
	}
	fv.buildReferenceTables(fe, q)
	fv.allocCellState()
	return
}

func (fv *FEFaceValues) buildReferenceTables(fe FiniteElement, q *Quadrature) {
	fv.weights = make([]float64, fv.NQ)
	fv.faceUnitPoints = make([][]float64, fv.NQ)
	for j := 0; j < fv.NQ; j++ {
		fv.weights[j] = q.Weight(j)
		fv.faceUnitPoints[j] = q.Point(j)
	}

	fv.cellUnitPoints = make([][][]float64, fv.nFaces)
	fv.shapeValues = make([]utils.Matrix, fv.nFaces)
	fv.unitShapeGrads = make([][][][]float64, fv.nFaces)
	for face := 0; face < fv.nFaces; face++ {
		fv.cellUnitPoints[face] = make([][]float64, fv.NQ)
		for j := 0; j < fv.NQ; j++ {
			fv.cellUnitPoints[face][j] = EmbedFacePoint(fv.dim, face, q.Point(j))
		}
		fv.shapeValues[face] = utils.NewMatrix(fv.NDofs, fv.NQ)
		fv.unitShapeGrads[face] = make([][][]float64, fv.NDofs)
		for i := 0; i < fv.NDofs; i++ {
			fv.unitShapeGrads[face][i] = make([][]float64, fv.NQ)
			for j := 0; j < fv.NQ; j++ {
				p := fv.cellUnitPoints[face][j]
				fv.shapeValues[face].Set(i, j, fe.ShapeValue(i, p))
				fv.unitShapeGrads[face][i][j] = fe.ShapeGrad(i, p)
			}
		}
		fv.shapeValues[face].SetReadOnly(fmt.Sprintf("shapeValues[face %d]", face))
	}

	fv.unitSupportPoints = make([][]float64, fv.NDofs)
	for i := 0; i < fv.NDofs; i++ {
		fv.unitSupportPoints[i] = fe.UnitSupportPoint(i)
	}
}

func (fv *FEFaceValues) allocCellState() {
	fv.shapeGrads = make([][][]float64, fv.NDofs)
	for i := range fv.shapeGrads {
		fv.shapeGrads[i] = make([][]float64, fv.NQ)
		for j := range fv.shapeGrads[i] {
			fv.shapeGrads[i][j] = make([]float64, fv.dim)
		}
	}
	fv.jacobians = make([]utils.Matrix, fv.NQ)
	fv.qPoints = make([][]float64, fv.NQ)
	fv.normals = make([][]float64, fv.NQ)
	for j := 0; j < fv.NQ; j++ {
		fv.jacobians[j] = utils.NewMatrix(fv.dim, fv.dim)
		fv.qPoints[j] = make([]float64, fv.dim)
		fv.normals[j] = make([]float64, fv.dim)
	}
	fv.jxwValues = make([]float64, fv.NQ)
	fv.faceDets = make([]float64, fv.NQ)
	fv.supportPoints = make([][]float64, fv.NDofs)
	for i := 0; i < fv.NDofs; i++ {
		fv.supportPoints[i] = make([]float64, fv.dim)
	}
}

// Reinit recomputes the per-cell state for face faceNo of cell and records
// faceNo as the selected face. Selecting the same face twice in a row
// reproduces identical results.
func (fv *FEFaceValues) Reinit(cell *Cell, faceNo int, mapper GeometryMapper, boundary Boundary) {
	if faceNo < 0 || faceNo >= fv.nFaces {
		panic(fmt.Errorf("index out of range: face index = %d, cell has %d faces", faceNo, fv.nFaces))
	}
	fv.selectedFace = faceNo

	if fv.flags.Has(UpdateJacobians) || fv.flags.Has(UpdateQuadraturePoints) ||
		fv.flags.Has(UpdateSupportPoints) || fv.flags.Has(UpdateJxW) ||
		fv.flags.Has(UpdateNormalVectors) {
		mapper.FillFaceValues(cell, faceNo,
			fv.faceUnitPoints, fv.cellUnitPoints[faceNo],
			fv.jacobians, fv.flags.Has(UpdateJacobians),
			fv.unitSupportPoints, fv.supportPoints, fv.flags.Has(UpdateSupportPoints),
			fv.qPoints, fv.flags.Has(UpdateQuadraturePoints),
			fv.faceDets, fv.flags.Has(UpdateJxW),
			fv.normals, fv.flags.Has(UpdateNormalVectors),
			boundary)
	}

	if fv.flags.Has(UpdateGradients) {
		fv.transformGradients(fv.unitShapeGrads[faceNo])
	}

	if fv.flags.Has(UpdateJxW) {
		// the face determinant is the forward area scale of the face map,
		// so it multiplies, unlike the cell formula which divides by the
		// inverse-map determinant
		for j := 0; j < fv.NQ; j++ {
			fv.jxwValues[j] = fv.weights[j] * fv.faceDets[j]
		}
	}
}

func (fv *FEFaceValues) transformGradients(unitGrads [][][]float64) {
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

func (fv *FEFaceValues) checkDofIndex(i int) {
	if i < 0 || i >= fv.NDofs {
		panic(fmt.Errorf("index out of range: dof index = %d, total dofs = %d", i, fv.NDofs))
	}
}

func (fv *FEFaceValues) checkQIndex(j int) {
	if j < 0 || j >= fv.NQ {
		panic(fmt.Errorf("index out of range: quadrature index = %d, n quadrature points = %d", j, fv.NQ))
	}
}

func (fv *FEFaceValues) checkFlag(f UpdateFlags, what string) {
	if !fv.flags.Has(f) {
		panic(fmt.Errorf("access to uninitialized field: %s not requested in update flags %v", what, fv.flags))
	}
}

// SelectedFace returns the face index recorded by the last Reinit.
func (fv *FEFaceValues) SelectedFace() int { return fv.selectedFace }

// ShapeValue returns the value of basis function i at quadrature point j of
// the selected face.
func (fv *FEFaceValues) ShapeValue(i, j int) float64 {
	fv.checkDofIndex(i)
	fv.checkQIndex(j)
	fv.checkFlag(UpdateValues, "values")
	return fv.shapeValues[fv.selectedFace].At(i, j)
}

// ShapeGrad returns the physical-space gradient of basis function i at
// quadrature point j of the selected face, valid until the next Reinit.
func (fv *FEFaceValues) ShapeGrad(i, j int) []float64 {
	fv.checkDofIndex(i)
	fv.checkQIndex(j)
	fv.checkFlag(UpdateGradients, "gradients")
	return fv.shapeGrads[i][j]
}

// QuadraturePoint returns the physical location of quadrature point j on
// the selected face.
func (fv *FEFaceValues) QuadraturePoint(j int) []float64 {
	fv.checkQIndex(j)
	fv.checkFlag(UpdateQuadraturePoints, "quadrature_points")
	return fv.qPoints[j]
}

// SupportPoint returns the physical location of the node defining dof i for
// the current cell.
func (fv *FEFaceValues) SupportPoint(i int) []float64 {
	fv.checkDofIndex(i)
	fv.checkFlag(UpdateSupportPoints, "support_points")
	return fv.supportPoints[i]
}

// JxW returns the integration weight of quadrature point j on the selected
// face in physical space.
func (fv *FEFaceValues) JxW(j int) float64 {
	fv.checkQIndex(j)
	fv.checkFlag(UpdateJxW, "JxW")
	return fv.jxwValues[j]
}

// NormalVector returns the outward unit normal at quadrature point j of the
// selected face, valid until the next Reinit.
func (fv *FEFaceValues) NormalVector(j int) []float64 {
	fv.checkQIndex(j)
	fv.checkFlag(UpdateNormalVectors, "normal_vectors")
	return fv.normals[j]
}

func (fv *FEFaceValues) Flags() UpdateFlags { return fv.flags }
