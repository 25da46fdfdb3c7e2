package fem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGaussLegendre(t *testing.T) {
	{ // one point rule is the midpoint rule on the unit interval
		q := NewGaussLegendre(1)
		assert.Equal(t, 1, q.NQ)
		assert.True(t, near(q.Point(0)[0], 0.5, 1.e-14))
		assert.True(t, near(q.Weight(0), 1., 1.e-14))
	}
	{ // two point rule
		q := NewGaussLegendre(2)
		d := 0.5 / math.Sqrt(3.)
		assert.True(t, near(q.Point(0)[0], 0.5-d, 1.e-12))
		assert.True(t, near(q.Point(1)[0], 0.5+d, 1.e-12))
		assert.True(t, near(q.Weight(0), 0.5, 1.e-12))
		assert.True(t, near(q.Weight(1), 0.5, 1.e-12))
	}
	{ // three point rule weights 5/18, 4/9, 5/18
		q := NewGaussLegendre(3)
		assert.True(t, near(q.Weight(0), 5./18., 1.e-12))
		assert.True(t, near(q.Weight(1), 4./9., 1.e-12))
		assert.True(t, near(q.Weight(2), 5./18., 1.e-12))
		assert.True(t, near(q.Point(1)[0], 0.5, 1.e-12))
	}
	{ // np points integrate polynomials up to degree 2np-1 exactly
		for np := 1; np <= 5; np++ {
			q := NewGaussLegendre(np)
			for p := 0; p <= 2*np-1; p++ {
				var sum float64
				for j := 0; j < q.NQ; j++ {
					sum += math.Pow(q.Point(j)[0], float64(p)) * q.Weight(j)
				}
				exact := 1. / float64(p+1)
				assert.True(t, near(sum, exact, 1.e-12),
					"np=%d, degree %d: got %v, want %v", np, p, sum, exact)
			}
		}
	}
}

func TestGaussTensor(t *testing.T) {
	{ // 2x2 rule on the unit square, all weights 0.25
		q := NewGaussTensor(2, 2)
		assert.Equal(t, 4, q.NQ)
		for j := 0; j < q.NQ; j++ {
			assert.True(t, near(q.Weight(j), 0.25, 1.e-12))
		}
	}
	{ // weights sum to the unit cell measure
		q := NewGaussTensor(2, 3)
		var sum float64
		for j := 0; j < q.NQ; j++ {
			sum += q.Weight(j)
		}
		assert.True(t, near(sum, 1., 1.e-12))
	}
	{ // x*y^3 integrates to 1/8 with 2 points per direction
		q := NewGaussTensor(2, 2)
		var sum float64
		for j := 0; j < q.NQ; j++ {
			p := q.Point(j)
			sum += p[0] * p[1] * p[1] * p[1] * q.Weight(j)
		}
		assert.True(t, near(sum, 0.125, 1.e-12))
	}
	{
		assert.Panics(t, func() { NewGaussTensor(4, 2) })
		assert.Panics(t, func() { NewGaussLegendre(0) })
	}
}
