package fem

import (
	"fmt"
	"math"

	"github.com/notargets/gofea/utils"
)

// GeometryMapper fills the per-cell geometric fields for an evaluator: the
// inverse-map Jacobian matrices J[b][s] = dXi_b/dX_s at each quadrature
// point, the physical quadrature point locations, and the physical support
// point locations. It is the only collaborator that sees the concrete cell
// geometry; the evaluators stay purely reference-space plus chain rule.
type GeometryMapper interface {
	FillCellValues(cell *Cell, unitPoints [][]float64,
		jacobians []utils.Matrix, wantJacobians bool,
		unitSupportPoints, supportPoints [][]float64, wantSupport bool,
		qPoints [][]float64, wantQPoints bool)

	// FillFaceValues additionally produces the forward face area scale
	// factors (face Jacobian determinants) and outward unit normals at the
	// face quadrature points. faceUnitPoints carries the intrinsic dim-1
	// coordinates of the points, cellUnitPoints the same points embedded in
	// cell reference coordinates.
	FillFaceValues(cell *Cell, faceNo int,
		faceUnitPoints, cellUnitPoints [][]float64,
		jacobians []utils.Matrix, wantJacobians bool,
		unitSupportPoints, supportPoints [][]float64, wantSupport bool,
		qPoints [][]float64, wantQPoints bool,
		faceDets []float64, wantDets bool,
		normals [][]float64, wantNormals bool,
		boundary Boundary)
}

// Boundary describes the geometry of cell faces, so that curved domain
// boundaries can place face quadrature points off the straight chord.
type Boundary interface {
	// FacePoint maps face parameter t in [0,1] on face faceNo of cell to a
	// physical point.
	FacePoint(cell *Cell, faceNo int, t float64) []float64
}

// StraightBoundary places face points on the straight segment between the
// face's vertices.
type StraightBoundary struct{}

func (StraightBoundary) FacePoint(cell *Cell, faceNo int, t float64) (p []float64) {
	var (
		a, b = cell.FaceVerts(faceNo)
	)
	p = make([]float64, len(a))
	for s := range p {
		p[s] = (1.-t)*a[s] + t*b[s]
	}
	return
}

// BilinearMapping is the isoparametric Q1 mapping for 2-D quad cells: the
// physical location of a reference point is the bilinear interpolant of the
// four cell vertices.
type BilinearMapping struct{}

// geometric Q1 shape functions on the unit square, vertex order
// (0,0),(1,0),(0,1),(1,1)
func q1Value(v int, p []float64) float64 {
	var (
		x, y = p[0], p[1]
	)
	switch v {
	case 0:
		return (1. - x) * (1. - y)
	case 1:
		return x * (1. - y)
	case 2:
		return (1. - x) * y
	default:
		return x * y
	}
}

func q1Grad(v int, p []float64) (g [2]float64) {
	var (
		x, y = p[0], p[1]
	)
	switch v {
	case 0:
		g = [2]float64{-(1. - y), -(1. - x)}
	case 1:
		g = [2]float64{1. - y, -x}
	case 2:
		g = [2]float64{-y, 1. - x}
	default:
		g = [2]float64{y, x}
	}
	return
}

// mapPoint evaluates the forward map X(Xi) at reference point p.
func (BilinearMapping) mapPoint(cell *Cell, p []float64) (x []float64) {
	x = make([]float64, 2)
	for v := 0; v < 4; v++ {
		n := q1Value(v, p)
		x[0] += n * cell.Verts[v][0]
		x[1] += n * cell.Verts[v][1]
	}
	return
}

// fillJacobian computes the inverse-map Jacobian J[b][s] = dXi_b/dX_s at
// reference point p by inverting the forward Jacobian dX_s/dXi_b.
func (BilinearMapping) fillJacobian(cell *Cell, p []float64, J utils.Matrix) {
	var (
		f00, f01, f10, f11 float64 // forward F[s][b] = dX_s/dXi_b
	)
	for v := 0; v < 4; v++ {
		g := q1Grad(v, p)
		f00 += cell.Verts[v][0] * g[0]
		f01 += cell.Verts[v][0] * g[1]
		f10 += cell.Verts[v][1] * g[0]
		f11 += cell.Verts[v][1] * g[1]
	}
	det := f00*f11 - f01*f10
	if det == 0 {
		panic(fmt.Errorf("degenerate cell %d: forward map Jacobian is singular", cell.ID))
	}
	J.Set(0, 0, f11/det)
	J.Set(0, 1, -f01/det)
	J.Set(1, 0, -f10/det)
	J.Set(1, 1, f00/det)
}

func (bm BilinearMapping) FillCellValues(cell *Cell, unitPoints [][]float64,
	jacobians []utils.Matrix, wantJacobians bool,
	unitSupportPoints, supportPoints [][]float64, wantSupport bool,
	qPoints [][]float64, wantQPoints bool) {
	if cell.Dim() != 2 {
		panic(fmt.Errorf("bilinear mapping not implemented for dimension %d", cell.Dim()))
	}
	for j, p := range unitPoints {
		if wantJacobians {
			bm.fillJacobian(cell, p, jacobians[j])
		}
		if wantQPoints {
			copy(qPoints[j], bm.mapPoint(cell, p))
		}
	}
	if wantSupport {
		for i, p := range unitSupportPoints {
			copy(supportPoints[i], bm.mapPoint(cell, p))
		}
	}
}

func (bm BilinearMapping) FillFaceValues(cell *Cell, faceNo int,
	faceUnitPoints, cellUnitPoints [][]float64,
	jacobians []utils.Matrix, wantJacobians bool,
	unitSupportPoints, supportPoints [][]float64, wantSupport bool,
	qPoints [][]float64, wantQPoints bool,
	faceDets []float64, wantDets bool,
	normals [][]float64, wantNormals bool,
	boundary Boundary) {
	if cell.Dim() != 2 {
		panic(fmt.Errorf("bilinear mapping not implemented for dimension %d", cell.Dim()))
	}
	var (
		a, b   = cell.FaceVerts(faceNo)
		tx, ty = b[0] - a[0], b[1] - a[1]
		length = math.Sqrt(tx*tx + ty*ty)
	)
	for j := range cellUnitPoints {
		if wantJacobians {
			bm.fillJacobian(cell, cellUnitPoints[j], jacobians[j])
		}
		if wantQPoints {
			copy(qPoints[j], boundary.FacePoint(cell, faceNo, faceUnitPoints[j][0]))
		}
		if wantDets {
			// forward area scale of the face map; the reference face has
			// unit length
			faceDets[j] = length
		}
		if wantNormals {
			nx, ny := ty/length, -tx/length
			if faceNo >= 2 {
				// top and left faces traverse opposite to the outward
				// rotation of the tangent
				nx, ny = -nx, -ny
			}
			normals[j][0], normals[j][1] = nx, ny
		}
	}
	if wantSupport {
		for i, p := range unitSupportPoints {
			copy(supportPoints[i], bm.mapPoint(cell, p))
		}
	}
}
