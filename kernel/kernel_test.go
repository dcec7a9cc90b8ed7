package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/orthoset/matrix"
)

func dense(t *testing.T, rows, cols int, data ...float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewDense(rows, cols, data)
	require.NoError(t, err)
	return d
}

func TestScoreDirect(t *testing.T) {
	tests := []struct {
		name     string
		a        *matrix.Dense
		expected float64
	}{
		{"Identity2", matrix.Identity(2), 0},
		{"Identity4", matrix.Identity(4), 0},
		{"ScaledOrthogonal", dense(t, 2, 2, 5, 0, 0, 0.25), 0},
		{"Rotation", dense(t, 2, 2, math.Cos(0.3), -math.Sin(0.3), math.Sin(0.3), math.Cos(0.3)), 0},
		// Normalized ones: Gram is all ones, off-diagonals deviate by 1.
		{"Ones2", matrix.Ones(2, 2), math.Sqrt(0.5)},
		{"Ones3", matrix.Ones(3, 3), math.Sqrt(6.0 / 9.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScoreDirect(tt.a)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestScoreDirectDoesNotMutate(t *testing.T) {
	a := dense(t, 2, 2, 3, 1, 4, 1)
	before := a.Clone()

	_, err := ScoreDirect(a)
	require.NoError(t, err)
	_, err = ScoreSequential(a)
	require.NoError(t, err)

	assert.True(t, matrix.Equal(before, a, 0))
}

func TestDegenerateColumn(t *testing.T) {
	a := dense(t, 2, 3, 1, 0, 2, 0, 0, 3)

	_, err := ScoreDirect(a)
	require.ErrorIs(t, err, ErrDegenerateColumn)

	var dce *DegenerateColumnError
	require.ErrorAs(t, err, &dce)
	assert.Equal(t, 1, dce.Column)
}

func TestSequentialAccumulationOrderSensitive(t *testing.T) {
	// Columns A=(1,0) and B=(1,1).
	ab := dense(t, 2, 2, 1, 1, 0, 1)
	ba := dense(t, 2, 2, 1, 1, 1, 0)

	sAB, err := ScoreSequential(ab)
	require.NoError(t, err)
	sBA, err := ScoreSequential(ba)
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt(0.4), sAB, 1e-12)
	assert.InDelta(t, math.Sqrt(0.45), sBA, 1e-12)
	assert.NotEqual(t, sAB, sBA)

	// The direct variant only sees the column set.
	dAB, err := ScoreDirect(ab)
	require.NoError(t, err)
	dBA, err := ScoreDirect(ba)
	require.NoError(t, err)
	assert.InDelta(t, dAB, dBA, 1e-12)
}

func TestAccumulateInPlace(t *testing.T) {
	a := dense(t, 2, 3, 1, 2, 3, 4, 5, 6)
	AccumulateInPlace(a)
	assert.Equal(t, []float64{1, 3, 6, 4, 9, 15}, a.RawData())
}

func TestGramAndRMSIdentityMatchFastPath(t *testing.T) {
	a := dense(t, 3, 2, 1, 2, 3, 4, 5, 7)
	fast, err := ScoreDirect(a)
	require.NoError(t, err)

	b := a.Clone()
	require.NoError(t, NormalizeColumnsInPlace(b))
	slow := RMSIdentity(Gram(b))

	assert.InDelta(t, slow, fast, 1e-12)

	g := Gram(b)
	assert.Equal(t, 3, g.Rows())
	assert.InDelta(t, g.At(0, 2), g.At(2, 0), 0)
}

func TestWorstCaseAndOScore(t *testing.T) {
	for k := 2; k <= 5; k++ {
		got, err := ScoreDirect(matrix.Ones(k, k))
		require.NoError(t, err)
		assert.Equal(t, WorstCase(k, k), got)
		assert.Equal(t, 2.0, OScore(got, k, k))
	}

	assert.True(t, math.IsInf(OScore(0, 2, 2), 1))
	assert.Greater(t, OScore(0.1, 2, 2), OScore(0.2, 2, 2))
}

func TestProvider(t *testing.T) {
	fn, err := Provider(Direct)
	require.NoError(t, err)
	got, err := fn(matrix.Identity(3))
	require.NoError(t, err)
	assert.InDelta(t, 0, got, 1e-12)

	fn, err = Provider(SequentialAccumulation)
	require.NoError(t, err)
	a := dense(t, 2, 2, 1, 1, 0, 1)
	got, err = fn(a)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.4), got, 1e-12)

	_, err = Provider(Variant(42))
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestVariantText(t *testing.T) {
	tests := []struct {
		in   string
		want Variant
	}{
		{"direct", Direct},
		{"", Direct},
		{"Sequential-Accumulation", SequentialAccumulation},
		{"seq", SequentialAccumulation},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v Variant
			require.NoError(t, v.UnmarshalText([]byte(tt.in)))
			assert.Equal(t, tt.want, v)
		})
	}

	_, err := ParseVariant("bogus")
	assert.ErrorIs(t, err, ErrUnknownVariant)

	b, err := SequentialAccumulation.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "sequential-accumulation", string(b))

	_, err = Variant(7).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownVariant)
	assert.Equal(t, "Unknown(7)", Variant(7).String())

	assert.True(t, SequentialAccumulation.Ordered())
	assert.False(t, Direct.Ordered())
}
