package fem

import (
	"fmt"
	"math"

	"github.com/notargets/gofea/utils"
	"gonum.org/v1/gonum/mat"
)

// Quadrature is an ordered set of reference-domain points and weights on the
// unit cell [0,1]^Dim. It is consumed read-only by the evaluators.
type Quadrature struct {
	Dim, NQ int
	Points  [][]float64 // NQ points of length Dim
	W       []float64   // NQ weights, summing to the unit cell measure 1
}

func (q *Quadrature) Point(j int) []float64 { return q.Points[j] }
func (q *Quadrature) Weight(j int) float64  { return q.W[j] }

// JacobiGQ computes the N+1 point Gauss quadrature rule for the Jacobi
// polynomial (alpha,beta) on [-1,1] via the Golub-Welsch eigensolve of the
// symmetric tridiagonal recurrence matrix.
func JacobiGQ(alpha, beta float64, N int) (X, W utils.Vector) {
	var (
		x, w       []float64
		fac        float64
		h1, d0, d1 []float64
	)
	if N == 0 {
		x = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		w = []float64{2.}
		return utils.NewVector(len(x), x), utils.NewVector(len(w), w)
	}

	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: diag(-1/2*(alpha^2-beta^2)./(h1+2)./h1)
	d0 = make([]float64, N+1)
	fac = -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	// 1st upper diagonal: diag(2./(h1(1:N)+2).*sqrt((1:N).*((1:N)+alpha+beta)
	//   .* ((1:N)+alpha).*((1:N)+beta)./(h1(1:N)+1)./(h1(1:N)+3)),1)
	var ip1 float64
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := utils.NewSymTriDiagonal(d0, d1)

	var eig mat.EigenSym
	ok := eig.Factorize(JJ, true)
	if !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(x)
	X = utils.NewVector(N+1, x)

	VVr := mat.NewDense(len(x), len(x), nil)
	eig.VectorsTo(VVr)
	W = utils.NewVector(len(x), VVr.RawRowView(0)).POW(2).Scale(gamma0(alpha, beta))
	return X, W
}

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

// NewGaussLegendre returns the np point Gauss-Legendre rule rescaled from
// [-1,1] to the unit interval [0,1]; the weights sum to 1.
func NewGaussLegendre(np int) (q *Quadrature) {
	if np < 1 {
		panic(fmt.Errorf("quadrature must have at least one point, have %d", np))
	}
	X, W := JacobiGQ(0, 0, np-1)
	q = &Quadrature{
		Dim:    1,
		NQ:     np,
		Points: make([][]float64, np),
		W:      make([]float64, np),
	}
	for j := 0; j < np; j++ {
		q.Points[j] = []float64{0.5 * (X.AtVec(j) + 1.)}
		q.W[j] = 0.5 * W.AtVec(j)
	}
	return
}

// NewGaussTensor returns the tensor product of the np point Gauss-Legendre
// rule with itself, dim times, on the unit cell. The first coordinate cycles
// fastest.
func NewGaussTensor(dim, np int) (q *Quadrature) {
	if dim < 1 || dim > 3 {
		panic(fmt.Errorf("no tensor product quadrature for dimension %d", dim))
	}
	line := NewGaussLegendre(np)
	nq := 1
	for d := 0; d < dim; d++ {
		nq *= np
	}
	q = &Quadrature{
		Dim:    dim,
		NQ:     nq,
		Points: make([][]float64, nq),
		W:      make([]float64, nq),
	}
	for j := 0; j < nq; j++ {
		pt := make([]float64, dim)
		w := 1.
		rem := j
		for d := 0; d < dim; d++ {
			k := rem % np
			rem /= np
			pt[d] = line.Points[k][0]
			w *= line.W[k]
		}
		q.Points[j] = pt
		q.W[j] = w
	}
	return
}
