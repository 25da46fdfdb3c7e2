package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixBasics(t *testing.T) {
	M := NewMatrix(2, 2, []float64{1, 2, 3, 4})
	assert.Equal(t, 2., M.At(0, 1))
	assert.True(t, math.Abs(M.Det()-(-2.)) < 1.e-12)
	{
		R := M.Mul(NewMatrix(2, 2, []float64{1, 0, 0, 1}))
		assert.Equal(t, M.Data(), R.Data())
	}
	{
		Mi, err := M.Inverse()
		assert.NoError(t, err)
		I := M.Mul(Mi)
		assert.True(t, math.Abs(I.At(0, 0)-1.) < 1.e-12)
		assert.True(t, math.Abs(I.At(0, 1)) < 1.e-12)
	}
	{
		R := M.Transpose()
		assert.Equal(t, []float64{1, 3, 2, 4}, R.Data())
	}
	{
		v := M.MulVec(NewVector(2, []float64{1, 1}))
		assert.Equal(t, []float64{3, 7}, v.Data())
	}
}

func TestMatrixReadOnly(t *testing.T) {
	M := NewMatrix(2, 2)
	M.SetReadOnly("M")
	assert.Panics(t, func() { M.Set(0, 0, 1) })
	M.SetWritable()
	assert.NotPanics(t, func() { M.Set(0, 0, 1) })
}

func TestMatrixAllocationMismatch(t *testing.T) {
	assert.Panics(t, func() { NewMatrix(2, 2, []float64{1, 2, 3}) })
	assert.Panics(t, func() { NewVector(2, []float64{1}) })
}

func TestSymTriDiagonal(t *testing.T) {
	J := NewSymTriDiagonal([]float64{2, 2, 2}, []float64{-1, -1})
	assert.Equal(t, 2., J.At(1, 1))
	assert.Equal(t, -1., J.At(0, 1))
	assert.Equal(t, -1., J.At(1, 0))
	assert.Equal(t, 0., J.At(0, 2))
}
