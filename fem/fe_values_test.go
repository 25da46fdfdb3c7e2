package fem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func unitCell() *Cell {
	return &Cell{ID: 0, Verts: [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}}
}

func scaledCell(s float64) *Cell {
	return &Cell{ID: 1, Verts: [][]float64{{0, 0}, {s, 0}, {0, s}, {s, s}}}
}

func TestFEValuesReferenceTable(t *testing.T) {
	var (
		el = NewLagrange(2, 1)
		q  = NewGaussTensor(2, 2)
		fv = NewFEValues(el, q, UpdateValues)
	)
	// shape values are valid immediately after construction, before any
	// Reinit, and equal the descriptor evaluated at the reference points
	for i := 0; i < fv.NDofs; i++ {
		for j := 0; j < fv.NQ; j++ {
			assert.True(t, near(fv.ShapeValue(i, j), el.ShapeValue(i, q.Point(j)), 1.e-14))
		}
	}
}

func TestFEValuesIdentityMap(t *testing.T) {
	var (
		el     = NewLagrange(2, 1)
		q      = NewGaussTensor(2, 2)
		flags  = UpdateValues | UpdateGradients | UpdateJacobians | UpdateJxW | UpdateQuadraturePoints | UpdateSupportPoints
		fv     = NewFEValues(el, q, flags)
		mapper = BilinearMapping{}
	)
	fv.Reinit(unitCell(), mapper)
	{ // reference cell mapped to itself: identity Jacobian, JxW = 0.25 each
		for j := 0; j < fv.NQ; j++ {
			assert.True(t, near(fv.JxW(j), 0.25, 1.e-12))
			assert.True(t, nearVec(fv.QuadraturePoint(j), q.Point(j), 1.e-14))
		}
	}
	{ // gradients pass through the identity Jacobian unchanged
		for i := 0; i < fv.NDofs; i++ {
			for j := 0; j < fv.NQ; j++ {
				assert.True(t, nearVec(fv.ShapeGrad(i, j), el.ShapeGrad(i, q.Point(j)), 1.e-12))
			}
		}
	}
	{ // support points land on the cell vertices
		assert.True(t, nearVec(fv.SupportPoint(0), []float64{0, 0}, 1.e-14))
		assert.True(t, nearVec(fv.SupportPoint(3), []float64{1, 1}, 1.e-14))
	}
}

func TestFEValuesScaledMap(t *testing.T) {
	var (
		el     = NewLagrange(2, 1)
		q      = NewGaussTensor(2, 2)
		flags  = UpdateValues | UpdateGradients | UpdateJacobians | UpdateJxW
		fv     = NewFEValues(el, q, flags)
		mapper = BilinearMapping{}
	)
	fv.Reinit(scaledCell(2), mapper)
	// uniform scaling by 2: inverse-map Jacobian determinant is 1/4, so
	// JxW = weight/0.25 = weight*4
	for j := 0; j < fv.NQ; j++ {
		assert.True(t, near(fv.JxW(j), q.Weight(j)*4., 1.e-12))
	}
	// gradients shrink by the scale factor
	for i := 0; i < fv.NDofs; i++ {
		for j := 0; j < fv.NQ; j++ {
			ref := el.ShapeGrad(i, q.Point(j))
			assert.True(t, nearVec(fv.ShapeGrad(i, j), []float64{ref[0] / 2., ref[1] / 2.}, 1.e-12))
		}
	}
}

// shearedCell is the parallelogram with forward map x = xi + eta, y = eta,
// so F = [1 1; 0 1] and the inverse-map Jacobian is [1 -1; 0 1]: the
// physical gradient of a basis function with reference gradient (a, b) is
// (a, b-a).
func shearedCell() *Cell {
	return &Cell{ID: 2, Verts: [][]float64{{0, 0}, {1, 0}, {1, 1}, {2, 1}}}
}

func TestFEValuesShearedMap(t *testing.T) {
	var (
		el     = NewLagrange(2, 1)
		q      = NewGaussTensor(2, 2)
		flags  = UpdateValues | UpdateGradients | UpdateJacobians | UpdateJxW
		fv     = NewFEValues(el, q, flags)
		mapper = BilinearMapping{}
	)
	fv.Reinit(shearedCell(), mapper)
	for i := 0; i < fv.NDofs; i++ {
		for j := 0; j < fv.NQ; j++ {
			ref := el.ShapeGrad(i, q.Point(j))
			want := []float64{ref[0], ref[1] - ref[0]}
			assert.True(t, nearVec(fv.ShapeGrad(i, j), want, 1.e-12),
				"basis %d point %d: got %v, want %v", i, j, fv.ShapeGrad(i, j))
		}
	}
	{ // spot check against the hand-computed gradient of basis 0 at the
		// cell center: in physical coordinates psi_0 = (1-x+y)(1-y), so
		// grad = (-(1-y), (1-y)-(1-xi)) = (-0.5, 0) at xi = eta = 0.5
		qc := NewGaussTensor(2, 1)
		fc := NewFEValues(el, qc, flags)
		fc.Reinit(shearedCell(), mapper)
		assert.True(t, nearVec(fc.ShapeGrad(0, 0), []float64{-0.5, 0}, 1.e-12))
	}
	// shear preserves area: det of the inverse-map Jacobian is 1
	for j := 0; j < fv.NQ; j++ {
		assert.True(t, near(fv.JxW(j), q.Weight(j), 1.e-12))
	}
}

func TestFEValuesFlagValidation(t *testing.T) {
	var (
		el = NewLagrange(2, 1)
		q  = NewGaussTensor(2, 2)
	)
	// gradients without jacobians must fail at construction, never at
	// Reinit or accessor time
	assert.Panics(t, func() { NewFEValues(el, q, UpdateGradients) })
	assert.Panics(t, func() { NewFEValues(el, q, UpdateJxW) })
	assert.NotPanics(t, func() { NewFEValues(el, q, UpdateGradients|UpdateJacobians) })
}

func TestFEValuesUninitializedAccess(t *testing.T) {
	var (
		el     = NewLagrange(2, 1)
		q      = NewGaussTensor(2, 2)
		fv     = NewFEValues(el, q, UpdateValues)
		mapper = BilinearMapping{}
	)
	fv.Reinit(unitCell(), mapper)
	// unrequested fields fail deterministically on every call, not just
	// the first
	for k := 0; k < 2; k++ {
		assert.Panics(t, func() { fv.ShapeGrad(0, 0) })
		assert.Panics(t, func() { fv.JxW(0) })
		assert.Panics(t, func() { fv.QuadraturePoint(0) })
		assert.Panics(t, func() { fv.SupportPoint(0) })
	}
}

func TestFEValuesIndexBounds(t *testing.T) {
	var (
		el = NewLagrange(2, 1)
		q  = NewGaussTensor(2, 2)
		fv = NewFEValues(el, q, UpdateValues)
	)
	assert.Panics(t, func() { fv.ShapeValue(4, 0) })
	assert.Panics(t, func() { fv.ShapeValue(-1, 0) })
	assert.Panics(t, func() { fv.ShapeValue(0, 4) })
}

func TestFEValuesDimensionMismatch(t *testing.T) {
	assert.Panics(t, func() { NewFEValues(NewLagrange(2, 1), NewGaussLegendre(2), UpdateValues) })
}
