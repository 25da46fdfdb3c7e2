package fem

import (
	"fmt"
)

// FiniteElement describes a scalar basis on the unit cell [0,1]^dim. The
// evaluators consume it read-only; one descriptor may back any number of
// evaluator instances.
type FiniteElement interface {
	Dim() int
	TotalDofs() int
	// ShapeValue evaluates basis function i at the reference point p
	ShapeValue(i int, p []float64) float64
	// ShapeGrad evaluates the reference gradient of basis function i at p
	ShapeGrad(i int, p []float64) []float64
	// UnitSupportPoint is the reference-cell location of the node defining
	// degree of freedom i
	UnitSupportPoint(i int) []float64
}

// Lagrange is the tensor product Lagrange element of the given order on the
// unit cell, with equispaced nodes. Order 1 in two dimensions is the standard
// bilinear quad: basis 0 = (1-x)(1-y) at the lexicographically first node.
type Lagrange struct {
	dim, order int
	nodes1D    []float64
}

func NewLagrange(dim, order int) (el *Lagrange) {
	if dim < 1 || dim > 3 {
		panic(fmt.Errorf("no Lagrange element for dimension %d", dim))
	}
	if order < 1 {
		panic(fmt.Errorf("polynomial order must be >= 1, have %d", order))
	}
	el = &Lagrange{
		dim:     dim,
		order:   order,
		nodes1D: make([]float64, order+1),
	}
	for k := 0; k <= order; k++ {
		el.nodes1D[k] = float64(k) / float64(order)
	}
	return
}

func (el *Lagrange) Dim() int   { return el.dim }
func (el *Lagrange) Order() int { return el.order }

func (el *Lagrange) TotalDofs() (n int) {
	n = 1
	for d := 0; d < el.dim; d++ {
		n *= el.order + 1
	}
	return
}

// multiIndex splits dof index i into one index per coordinate direction, the
// first direction cycling fastest.
func (el *Lagrange) multiIndex(i int) (mi []int) {
	var (
		np1 = el.order + 1
	)
	mi = make([]int, el.dim)
	for d := 0; d < el.dim; d++ {
		mi[d] = i % np1
		i /= np1
	}
	return
}

func (el *Lagrange) ShapeValue(i int, p []float64) (v float64) {
	el.checkPoint(i, p)
	var (
		mi = el.multiIndex(i)
	)
	v = 1
	for d := 0; d < el.dim; d++ {
		v *= el.lagrange1D(mi[d], p[d])
	}
	return
}

func (el *Lagrange) ShapeGrad(i int, p []float64) (grad []float64) {
	el.checkPoint(i, p)
	var (
		mi = el.multiIndex(i)
	)
	grad = make([]float64, el.dim)
	for d := 0; d < el.dim; d++ {
		g := el.lagrange1DDeriv(mi[d], p[d])
		for b := 0; b < el.dim; b++ {
			if b != d {
				g *= el.lagrange1D(mi[b], p[b])
			}
		}
		grad[d] = g
	}
	return
}

func (el *Lagrange) UnitSupportPoint(i int) (p []float64) {
	if i < 0 || i >= el.TotalDofs() {
		panic(fmt.Errorf("index out of range: dof index = %d, total dofs = %d", i, el.TotalDofs()))
	}
	var (
		mi = el.multiIndex(i)
	)
	p = make([]float64, el.dim)
	for d := 0; d < el.dim; d++ {
		p[d] = el.nodes1D[mi[d]]
	}
	return
}

// lagrange1D evaluates the k-th 1-D nodal basis polynomial at t,
// l_k(t) = prod_{m != k} (t - t_m)/(t_k - t_m).
func (el *Lagrange) lagrange1D(k int, t float64) (v float64) {
	var (
		tk = el.nodes1D[k]
	)
	v = 1
	for m, tm := range el.nodes1D {
		if m == k {
			continue
		}
		v *= (t - tm) / (tk - tm)
	}
	return
}

func (el *Lagrange) lagrange1DDeriv(k int, t float64) (v float64) {
	var (
		tk = el.nodes1D[k]
	)
	for m, tm := range el.nodes1D {
		if m == k {
			continue
		}
		term := 1. / (tk - tm)
		for n, tn := range el.nodes1D {
			if n == k || n == m {
				continue
			}
			term *= (t - tn) / (tk - tn)
		}
		v += term
	}
	return
}

func (el *Lagrange) checkPoint(i int, p []float64) {
	if i < 0 || i >= el.TotalDofs() {
		panic(fmt.Errorf("index out of range: dof index = %d, total dofs = %d", i, el.TotalDofs()))
	}
	if len(p) != el.dim {
		panic(fmt.Errorf("reference point has dimension %d, element has dimension %d", len(p), el.dim))
	}
}
