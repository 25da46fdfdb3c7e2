package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)              { return m.M.Dims() }
func (m DOK) At(i, j int) float64           { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix                 { return m.M.T() }
func (m DOK) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

// Accumulate adds val into entry (i,j), the usual element assembly operation.
func (m DOK) Accumulate(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
	return m
}

func (m DOK) ToCSR() (R CSR) {
	R = CSR{m.M.ToCSR()}
	return
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt made to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

type CSR struct {
	M *sparse.CSR
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return m.M.T() }
func (m CSR) NNZ() int            { return m.M.NNZ() }

// MulVec computes y = A*x by traversal of the stored non-zeros.
func (m CSR) MulVec(x Vector) (y Vector) {
	var (
		nr, nc = m.Dims()
	)
	if x.Len() != nc {
		err := fmt.Errorf("dimension mismatch in sparse MulVec: A is %dx%d, x has length %d", nr, nc, x.Len())
		panic(err)
	}
	y = NewVector(nr)
	var (
		xD = x.Data()
		yD = y.Data()
	)
	m.M.DoNonZero(func(i, j int, v float64) {
		yD[i] += v * xD[j]
	})
	return
}
