package fem

import (
	"math"
	"testing"

	"github.com/notargets/gofea/utils"
	"github.com/stretchr/testify/assert"
)

func TestBilinearMapPoint(t *testing.T) {
	var (
		bm   = BilinearMapping{}
		cell = &Cell{ID: 0, Verts: [][]float64{{1, 1}, {3, 1}, {1, 2}, {3, 2}}}
	)
	// center of the reference cell maps to the centroid
	assert.True(t, nearVec(bm.mapPoint(cell, []float64{0.5, 0.5}), []float64{2, 1.5}, 1.e-14))
	assert.True(t, nearVec(bm.mapPoint(cell, []float64{0, 0}), []float64{1, 1}, 1.e-14))
	assert.True(t, nearVec(bm.mapPoint(cell, []float64{1, 1}), []float64{3, 2}, 1.e-14))
}

func TestBilinearJacobian(t *testing.T) {
	var (
		bm = BilinearMapping{}
		J  = utils.NewMatrix(2, 2)
	)
	{ // axis-aligned 2x1 cell: inverse-map Jacobian diag(1/2, 1)
		cell := &Cell{ID: 0, Verts: [][]float64{{1, 1}, {3, 1}, {1, 2}, {3, 2}}}
		bm.fillJacobian(cell, []float64{0.5, 0.5}, J)
		assert.True(t, near(J.At(0, 0), 0.5, 1.e-12))
		assert.True(t, near(J.At(1, 1), 1., 1.e-12))
		assert.True(t, near(J.At(0, 1), 0., 1.e-12))
		assert.True(t, near(J.At(1, 0), 0., 1.e-12))
		assert.True(t, near(J.Det(), 0.5, 1.e-12))
	}
	{ // degenerate cell trips the singularity check
		cell := &Cell{ID: 1, Verts: [][]float64{{0, 0}, {1, 0}, {0, 0}, {1, 0}}}
		assert.Panics(t, func() { bm.fillJacobian(cell, []float64{0.5, 0.5}, J) })
	}
}

func TestBilinearJacobianNonAffine(t *testing.T) {
	// on a non-parallelogram quad the Jacobian varies over the cell; check
	// the inverse property J * F = I at a few points by finite differences
	var (
		bm   = BilinearMapping{}
		cell = &Cell{ID: 0, Verts: [][]float64{{0, 0}, {2, 0.3}, {0.1, 1}, {2.4, 1.7}}}
		J    = utils.NewMatrix(2, 2)
		h    = 1.e-7
	)
	for _, p := range [][]float64{{0.2, 0.3}, {0.8, 0.6}, {0.5, 0.5}} {
		bm.fillJacobian(cell, p, J)
		// forward Jacobian by central differences
		var F [2][2]float64
		for b := 0; b < 2; b++ {
			pp := append([]float64{}, p...)
			pm := append([]float64{}, p...)
			pp[b] += h
			pm[b] -= h
			xp := bm.mapPoint(cell, pp)
			xm := bm.mapPoint(cell, pm)
			for s := 0; s < 2; s++ {
				F[s][b] = (xp[s] - xm[s]) / (2 * h)
			}
		}
		// J F = I
		for r := 0; r < 2; r++ {
			for c := 0; c < 2; c++ {
				var sum float64
				for k := 0; k < 2; k++ {
					sum += J.At(r, k) * F[k][c]
				}
				want := 0.
				if r == c {
					want = 1.
				}
				assert.True(t, near(sum, want, 1.e-6), "J*F(%d,%d) = %v", r, c, sum)
			}
		}
	}
}

func TestStraightBoundary(t *testing.T) {
	var (
		bnd  = StraightBoundary{}
		cell = &Cell{ID: 0, Verts: [][]float64{{0, 0}, {4, 0}, {0, 2}, {4, 2}}}
	)
	assert.True(t, nearVec(bnd.FacePoint(cell, 0, 0.5), []float64{2, 0}, 1.e-14))
	assert.True(t, nearVec(bnd.FacePoint(cell, 1, 0.25), []float64{4, 0.5}, 1.e-14))
	assert.True(t, nearVec(bnd.FacePoint(cell, 3, 1), []float64{0, 2}, 1.e-14))
}

func TestFaceNormalsSheared(t *testing.T) {
	// sheared cell: normals must stay unit length and outward
	var (
		el     = NewLagrange(2, 1)
		q      = NewGaussLegendre(1)
		flags  = UpdateValues | UpdateJacobians | UpdateJxW | UpdateNormalVectors | UpdateQuadraturePoints
		fv     = NewFEFaceValues(el, q, flags)
		mapper = BilinearMapping{}
		bnd    = StraightBoundary{}
		cell   = &Cell{ID: 0, Verts: [][]float64{{0, 0}, {1, 0}, {0.5, 1}, {1.5, 1}}}
	)
	centroid := []float64{0.75, 0.5}
	for face := 0; face < 4; face++ {
		fv.Reinit(cell, face, mapper, bnd)
		n := fv.NormalVector(0)
		assert.True(t, near(math.Hypot(n[0], n[1]), 1., 1.e-12))
		// outward: normal points away from the centroid
		x := fv.QuadraturePoint(0)
		dot := (x[0]-centroid[0])*n[0] + (x[1]-centroid[1])*n[1]
		assert.True(t, dot > 0, "face %d normal %v not outward at %v", face, n, x)
	}
}
