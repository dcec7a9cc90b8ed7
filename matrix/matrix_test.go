package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		m, err := New([][]float64{{1, 2, 3}, {4, 5, 6}}, []string{"a", "b"}, []string{"x", "y", "z"})
		require.NoError(t, err)
		assert.Equal(t, 2, m.Rows())
		assert.Equal(t, 3, m.Cols())
		assert.Equal(t, "b", m.RowLabel(1))
		assert.Equal(t, "z", m.ColLabel(2))

		v, err := m.At(1, 2)
		require.NoError(t, err)
		assert.Equal(t, 6.0, v)
	})

	t.Run("PositionalLabels", func(t *testing.T) {
		m, err := FromRows([][]float64{{1, 2}, {3, 4}})
		require.NoError(t, err)
		assert.Equal(t, []string{"r0", "r1"}, m.RowLabels())
		assert.Equal(t, []string{"c0", "c1"}, m.ColLabels())
	})

	tests := []struct {
		name    string
		rows    [][]float64
		rl, cl  []string
		wantErr error
	}{
		{"Empty", nil, nil, nil, ErrBadShape},
		{"EmptyRow", [][]float64{{}}, nil, nil, ErrBadShape},
		{"Ragged", [][]float64{{1, 2}, {3}}, nil, nil, ErrRagged},
		{"NaN", [][]float64{{1, math.NaN()}}, nil, nil, ErrNaNInf},
		{"Inf", [][]float64{{math.Inf(1)}}, nil, nil, ErrNaNInf},
		{"RowLabelCount", [][]float64{{1}, {2}}, []string{"a"}, nil, ErrLabelCount},
		{"DuplicateColLabel", [][]float64{{1, 2}}, nil, []string{"x", "x"}, ErrDuplicateLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rows, tt.rl, tt.cl)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAtOutOfRange(t *testing.T) {
	m, err := FromRows([][]float64{{1}})
	require.NoError(t, err)

	_, err = m.At(1, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = m.At(0, -1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestClipFloorReturnsCopy(t *testing.T) {
	m, err := FromRows([][]float64{{10, 2000}, {999, 1000}})
	require.NoError(t, err)

	clipped := m.ClipFloor(1000)

	got := clipped.Dense()
	assert.Equal(t, []float64{1000, 2000, 1000, 1000}, got.RawData())

	// The source matrix is untouched.
	v, _ := m.At(0, 0)
	assert.Equal(t, 10.0, v)
}

func TestGather(t *testing.T) {
	m, err := FromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	require.NoError(t, err)

	sub := m.Gather(nil, []int{0, 2}, []int{2, 0})
	assert.Equal(t, 2, sub.Rows())
	assert.Equal(t, 2, sub.Cols())
	assert.Equal(t, []float64{3, 1, 9, 7}, sub.RawData())

	// Reuses the buffer for a smaller shape.
	again := m.Gather(sub, []int{1}, []int{1})
	assert.Same(t, sub, again)
	assert.Equal(t, []float64{5}, again.RawData())
}

func TestCloneIsIndependent(t *testing.T) {
	m, err := FromRows([][]float64{{1, 2}})
	require.NoError(t, err)

	c := m.Clone()
	c.dense.data[0] = 42

	v, _ := m.At(0, 0)
	assert.Equal(t, 1.0, v)
}

func TestDense(t *testing.T) {
	_, err := NewDense(0, 1, nil)
	require.ErrorIs(t, err, ErrBadShape)

	_, err = NewDense(2, 2, []float64{1})
	require.ErrorIs(t, err, ErrBadShape)

	d, err := NewDense(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, d.Col(1))

	d.Set(0, 0, 9)
	assert.Equal(t, 9.0, d.At(0, 0))

	assert.True(t, Equal(Identity(2), Identity(2), 0))
	assert.False(t, Equal(Identity(2), Ones(2, 2), 1e-9))
	assert.False(t, Equal(Identity(2), Identity(3), 1e-9))
	assert.Equal(t, "[1 1]\n[1 1]\n", Ones(2, 2).String())
}
