package poisson

import (
	"fmt"
	"math"

	"github.com/notargets/gofea/fem"
	"github.com/notargets/gofea/utils"
)

// Solver assembles and solves the 2-D Poisson problem
//
//	-div(grad u) = f   on [0,XMax] x [0,YMax]
//
// with per-side Dirichlet or Neumann boundary conditions, using tensor
// product Lagrange elements on a structured quad mesh. It is the reference
// consumer of the FEValues / FEFaceValues evaluators.
type Solver struct {
	Order int
	Msh   *fem.Mesh
	DM    *fem.DofMap
	FE    *fem.Lagrange

	// problem data
	RHSFunc       func(x []float64) float64
	DirichletFunc func(x []float64) float64
	NeumannFunc   func(x []float64) float64
	NeumannSides  map[string]bool // sides not listed get Dirichlet data

	// assembled system
	A   utils.CSR
	RHS utils.Vector
	U   utils.Vector
}

func NewSolver(nx, ny int, xmax, ymax float64, order int) (s *Solver) {
	var (
		msh = fem.NewCartesianMesh(nx, ny, xmax, ymax)
	)
	s = &Solver{
		Order:         order,
		Msh:           msh,
		DM:            fem.NewDofMap(msh, order),
		FE:            fem.NewLagrange(2, order),
		RHSFunc:       func(x []float64) float64 { return 0 },
		DirichletFunc: func(x []float64) float64 { return 0 },
		NeumannFunc:   func(x []float64) float64 { return 0 },
		NeumannSides:  make(map[string]bool),
	}
	return
}

// Assemble builds the stiffness matrix and load vector. Dirichlet dofs are
// eliminated symmetrically: their rows carry a unit diagonal, their coupling
// to free dofs is moved to the right hand side, so the system stays SPD for
// the CG solve.
func (s *Solver) Assemble() {
	var (
		n       = s.DM.NDofs
		mapper  = fem.BilinearMapping{}
		quad    = fem.NewGaussTensor(2, s.Order+1)
		fv      = fem.NewFEValues(s.FE, quad,
			fem.UpdateValues|fem.UpdateGradients|fem.UpdateJacobians|
				fem.UpdateJxW|fem.UpdateQuadraturePoints)
		nDofs = fv.NDofs
		dok   = utils.NewDOK(n, n)
	)
	s.RHS = utils.NewVector(n)
	var (
		rhs = s.RHS.Data()
	)

	constrained, bdryVals := s.dirichletValues()

	for ci := range s.Msh.Cells {
		fv.Reinit(&s.Msh.Cells[ci], mapper)
		dofs := s.DM.CellDofs(ci)
		for j := 0; j < fv.NQ; j++ {
			var (
				jxw = fv.JxW(j)
				fx  = s.RHSFunc(fv.QuadraturePoint(j))
			)
			for i := 0; i < nDofs; i++ {
				gi := dofs[i]
				if constrained[gi] {
					continue
				}
				rhs[gi] += fx * fv.ShapeValue(i, j) * jxw
				gradI := fv.ShapeGrad(i, j)
				for k := 0; k < nDofs; k++ {
					gk := dofs[k]
					gradK := fv.ShapeGrad(k, j)
					val := (gradI[0]*gradK[0] + gradI[1]*gradK[1]) * jxw
					if constrained[gk] {
						rhs[gi] -= val * bdryVals[gk]
					} else {
						dok.Accumulate(gi, gk, val)
					}
				}
			}
		}
	}

	s.assembleNeumann(rhs, constrained, mapper)

	for g, isC := range constrained {
		if isC {
			dok.Set(g, g, 1)
			rhs[g] = bdryVals[g]
		}
	}

	s.A = dok.ToCSR()
}

// dirichletValues marks every boundary dof on a Dirichlet side and records
// its prescribed value.
func (s *Solver) dirichletValues() (constrained []bool, vals []float64) {
	var (
		n = s.DM.NDofs
	)
	constrained = make([]bool, n)
	vals = make([]float64, n)
	for _, g := range s.DM.BoundaryDofs() {
		x := s.DM.DofPoint(g)
		if s.onNeumannSideOnly(x) {
			continue
		}
		constrained[g] = true
		vals[g] = s.DirichletFunc(x)
	}
	return
}

// onNeumannSideOnly reports whether boundary point x touches Neumann sides
// exclusively; corner dofs shared with a Dirichlet side stay constrained.
func (s *Solver) onNeumannSideOnly(x []float64) bool {
	var (
		eps      = 1.e-12
		onSide   = 0
		neumann  = 0
		sideHits = []struct {
			on   bool
			side string
		}{
			{math.Abs(x[1]) < eps, "bottom"},
			{math.Abs(x[0]-s.Msh.XMax) < eps, "right"},
			{math.Abs(x[1]-s.Msh.YMax) < eps, "top"},
			{math.Abs(x[0]) < eps, "left"},
		}
	)
	for _, h := range sideHits {
		if h.on {
			onSide++
			if s.NeumannSides[h.side] {
				neumann++
			}
		}
	}
	return onSide > 0 && onSide == neumann
}

// assembleNeumann adds the boundary flux integrals over every face lying on
// a Neumann side.
func (s *Solver) assembleNeumann(rhs []float64, constrained []bool, mapper fem.GeometryMapper) {
	if len(s.NeumannSides) == 0 {
		return
	}
	var (
		faceQuad = fem.NewGaussLegendre(s.Order + 1)
		ffv      = fem.NewFEFaceValues(s.FE, faceQuad,
			fem.UpdateValues|fem.UpdateJacobians|fem.UpdateJxW|
				fem.UpdateQuadraturePoints)
		boundary = fem.StraightBoundary{}
	)
	for _, bf := range s.Msh.BFaces {
		if !s.NeumannSides[bf.Side] {
			continue
		}
		ffv.Reinit(&s.Msh.Cells[bf.Cell], bf.Face, mapper, boundary)
		dofs := s.DM.CellDofs(bf.Cell)
		for j := 0; j < ffv.NQ; j++ {
			var (
				jxw = ffv.JxW(j)
				h   = s.NeumannFunc(ffv.QuadraturePoint(j))
			)
			for i := 0; i < ffv.NDofs; i++ {
				gi := dofs[i]
				if constrained[gi] {
					continue
				}
				rhs[gi] += h * ffv.ShapeValue(i, j) * jxw
			}
		}
	}
}

// Solve runs conjugate gradients on the assembled system and stores the
// solution dof vector in U. Returns the iteration count.
func (s *Solver) Solve(tol float64, maxIter int) (iters int) {
	var (
		n = s.DM.NDofs
	)
	if s.A.M == nil {
		panic(fmt.Errorf("Solve called before Assemble"))
	}
	s.U = utils.NewVector(n)
	var (
		r = s.RHS.Copy()
		p = r.Copy()
		x = s.U
	)
	rsold := r.Dot(r)
	if math.Sqrt(rsold) < tol {
		return
	}
	for iters = 1; iters <= maxIter; iters++ {
		Ap := s.A.MulVec(p)
		alpha := rsold / p.Dot(Ap)
		var (
			xD, pD, rD, ApD = x.Data(), p.Data(), r.Data(), Ap.Data()
		)
		for i := 0; i < n; i++ {
			xD[i] += alpha * pD[i]
			rD[i] -= alpha * ApD[i]
		}
		rsnew := r.Dot(r)
		if math.Sqrt(rsnew) < tol {
			return
		}
		beta := rsnew / rsold
		for i := 0; i < n; i++ {
			pD[i] = rD[i] + beta*pD[i]
		}
		rsold = rsnew
	}
	panic(fmt.Errorf("CG failed to converge within %d iterations, residual = %v", maxIter, math.Sqrt(rsold)))
}

// MaxError compares the solution against an exact dof-point field.
func (s *Solver) MaxError(exact func(x []float64) float64) (maxErr float64) {
	var (
		uD = s.U.Data()
	)
	for g := 0; g < s.DM.NDofs; g++ {
		err := math.Abs(uD[g] - exact(s.DM.DofPoint(g)))
		if err > maxErr {
			maxErr = err
		}
	}
	return
}
