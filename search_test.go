package orthoset

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/orthoset/engine"
	"github.com/hupe1980/orthoset/kernel"
	"github.com/hupe1980/orthoset/matrix"
	"github.com/hupe1980/orthoset/rank"
	"github.com/hupe1980/orthoset/resource"
	"github.com/hupe1980/orthoset/selection"
	"github.com/hupe1980/orthoset/testutil"
)

type searchFunc func(context.Context, *matrix.Matrix, selection.Shape, ...Option) (*Result, error)

var paths = map[string]searchFunc{
	"parallel":   Search,
	"sequential": SearchSequential,
}

func assertRanked(t *testing.T, want, got []rank.Scored) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Selection, got[i].Selection, "position %d", i)
		assert.InDelta(t, want[i].Score, got[i].Score, 1e-12, "position %d", i)
	}
}

func TestSearchEndToEnd(t *testing.T) {
	m, err := matrix.New([][]float64{
		{1, 0, 1},
		{0, 1, 1},
	}, []string{"r1", "r2"}, []string{"c1", "c2", "c3"})
	require.NoError(t, err)

	for name, search := range paths {
		t.Run(name, func(t *testing.T) {
			res, err := search(context.Background(), m, selection.Shape{Rows: 2, Cols: 2})
			require.NoError(t, err)

			require.Equal(t, 3, res.Len())
			assert.Equal(t, uint64(3), res.Evaluated)
			assert.Zero(t, res.Skipped)
			assert.NotEmpty(t, res.SearchID)

			best, ok := res.Best()
			require.True(t, ok)
			assert.Equal(t, []int{0, 1}, best.Selection.Rows)
			assert.Equal(t, []int{0, 1}, best.Selection.Cols)
			assert.InDelta(t, 0, best.Score, 1e-12)
			assert.InDelta(t, 0.5, res.Scored[1].Score, 1e-12)
			assert.InDelta(t, 0.5, res.Scored[2].Score, 1e-12)
		})
	}
}

func TestSearchMatchesBruteForce(t *testing.T) {
	rng := testutil.NewRNG(42)
	m := rng.UniformMatrix(5, 6)

	tests := []struct {
		variant kernel.Variant
		shape   selection.Shape
	}{
		{kernel.Direct, selection.Shape{Rows: 2, Cols: 3}},
		{kernel.Direct, selection.Shape{Rows: 3, Cols: 2}},
		{kernel.SequentialAccumulation, selection.Shape{Rows: 2, Cols: 2}},
		{kernel.SequentialAccumulation, selection.Shape{Rows: 3, Cols: 3}},
	}

	for _, tt := range tests {
		want := testutil.BruteForce(m, tt.shape, tt.variant)
		for name, search := range paths {
			t.Run(tt.variant.String()+"/"+tt.shape.String()+"/"+name, func(t *testing.T) {
				res, err := search(context.Background(), m, tt.shape, WithVariant(tt.variant), WithWorkers(3))
				require.NoError(t, err)
				assert.Equal(t, tt.variant, res.Variant)
				assertRanked(t, want, res.Scored)
			})
		}
	}
}

func TestSearchBatchAndWorkerInvariance(t *testing.T) {
	rng := testutil.NewRNG(7)
	m := rng.UniformMatrix(6, 6)
	shape := selection.Shape{Rows: 2, Cols: 3}

	ref, err := SearchSequential(context.Background(), m, shape)
	require.NoError(t, err)
	require.Equal(t, 15*20, ref.Len())

	for _, workers := range []int{1, 2, 3, 8} {
		for _, batchSize := range []int{1, 7, 64, 10_000} {
			res, err := Search(context.Background(), m, shape, WithWorkers(workers), WithBatchSize(batchSize))
			require.NoError(t, err)
			assertRanked(t, ref.Scored, res.Scored)
		}
	}
}

func TestSearchDeterministic(t *testing.T) {
	rng := testutil.NewRNG(99)
	m := rng.UniformMatrix(5, 5)
	shape := selection.Shape{Rows: 2, Cols: 2}

	first, err := Search(context.Background(), m, shape, WithWorkers(4), WithBatchSize(5))
	require.NoError(t, err)
	second, err := Search(context.Background(), m, shape, WithWorkers(4), WithBatchSize(5))
	require.NoError(t, err)

	assert.Equal(t, first.Scored, second.Scored)
	assert.NotEqual(t, first.SearchID, second.SearchID)
}

func TestSearchTiesFollowEnumerationOrder(t *testing.T) {
	// Every 2x2 selection of an all-ones matrix has the same score.
	m, err := matrix.FromRows([][]float64{
		{1, 1, 1},
		{1, 1, 1},
		{1, 1, 1},
	})
	require.NoError(t, err)

	res, err := Search(context.Background(), m, selection.Shape{Rows: 2, Cols: 2}, WithWorkers(4), WithBatchSize(2))
	require.NoError(t, err)
	require.Equal(t, 9, res.Len())
	for i, s := range res.Scored {
		assert.Equal(t, uint64(i), s.Selection.Ordinal)
	}
}

func TestSearchThresholdConsistentAcrossPaths(t *testing.T) {
	rng := testutil.NewRNG(1234)
	m := rng.UniformMatrix(6, 5)
	shape := selection.Shape{Rows: 2, Cols: 2}

	all := testutil.BruteForce(m, shape, kernel.Direct)
	require.NotEmpty(t, all)

	// Use an actual score as the boundary: it must be excluded.
	threshold := all[len(all)/2].Score
	var want []rank.Scored
	for _, s := range all {
		if s.Score < threshold {
			want = append(want, s)
		}
	}

	for name, search := range paths {
		t.Run(name, func(t *testing.T) {
			res, err := search(context.Background(), m, shape, WithThreshold(threshold), WithBatchSize(4))
			require.NoError(t, err)
			assertRanked(t, want, res.Scored)
			assert.Equal(t, uint64(len(all)), res.Evaluated)
			for _, s := range res.Scored {
				assert.Less(t, s.Score, threshold)
			}
		})
	}
}

func TestSearchTopK(t *testing.T) {
	rng := testutil.NewRNG(5)
	m := rng.UniformMatrix(5, 5)
	shape := selection.Shape{Rows: 2, Cols: 3}
	all := testutil.BruteForce(m, shape, kernel.Direct)

	for name, search := range paths {
		t.Run(name, func(t *testing.T) {
			res, err := search(context.Background(), m, shape, WithTopK(10), WithBatchSize(13))
			require.NoError(t, err)
			assertRanked(t, all[:10], res.Scored)
			assert.Equal(t, uint64(len(all)), res.Evaluated)
		})
	}
}

func TestSearchShapeTooLarge(t *testing.T) {
	rng := testutil.NewRNG(1)
	m := rng.UniformMatrix(3, 3)

	for name, search := range paths {
		t.Run(name, func(t *testing.T) {
			res, err := search(context.Background(), m, selection.Shape{Rows: 4, Cols: 2})
			require.NoError(t, err)
			assert.Zero(t, res.Len())
			assert.Zero(t, res.Evaluated)

			_, ok := res.Best()
			assert.False(t, ok)
		})
	}
}

func TestSearchInvalidArguments(t *testing.T) {
	rng := testutil.NewRNG(1)
	m := rng.UniformMatrix(3, 3)
	shape := selection.Shape{Rows: 2, Cols: 2}

	tests := []struct {
		name  string
		m     *matrix.Matrix
		shape selection.Shape
		opts  []Option
		err   error
	}{
		{"nil matrix", nil, shape, nil, ErrNilMatrix},
		{"zero rows", m, selection.Shape{Rows: 0, Cols: 2}, nil, ErrInvalidShape},
		{"negative cols", m, selection.Shape{Rows: 1, Cols: -1}, nil, ErrInvalidShape},
		{"negative workers", m, shape, []Option{WithWorkers(-1)}, ErrInvalidWorkers},
		{"zero batch", m, shape, []Option{WithBatchSize(0)}, ErrInvalidBatchSize},
		{"negative top-k", m, shape, []Option{WithTopK(-3)}, ErrInvalidTopK},
		{"unknown variant", m, shape, []Option{WithVariant(kernel.Variant(42))}, kernel.ErrUnknownVariant},
		{"unknown policy", m, shape, []Option{WithErrorPolicy(engine.ErrorPolicy(42))}, engine.ErrUnknownPolicy},
	}

	for _, tt := range tests {
		for name, search := range paths {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				res, err := search(context.Background(), tt.m, tt.shape, tt.opts...)
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, res)
			})
		}
	}
}

func degenerateMatrix(t *testing.T) *matrix.Matrix {
	t.Helper()
	rng := testutil.NewRNG(3)
	m, err := matrix.FromRows(testutil.WithZeroColumn(rng.UniformRows(3, 4, 1, 2), 1))
	require.NoError(t, err)
	return m
}

func TestSearchAbortsOnDegenerateColumn(t *testing.T) {
	m := degenerateMatrix(t)

	for name, search := range paths {
		t.Run(name, func(t *testing.T) {
			res, err := search(context.Background(), m, selection.Shape{Rows: 2, Cols: 2}, WithBatchSize(4))
			require.Error(t, err)
			assert.Nil(t, res)

			var se *SearchError
			require.True(t, errors.As(err, &se))
			assert.NotEmpty(t, se.SearchID)

			var sel *engine.SelectionError
			require.True(t, errors.As(err, &sel))
			assert.Contains(t, sel.Selection.Cols, 1)

			var dc *kernel.DegenerateColumnError
			require.True(t, errors.As(err, &dc))
			assert.ErrorIs(t, err, kernel.ErrDegenerateColumn)
		})
	}
}

func TestSearchSkipsDegenerateColumn(t *testing.T) {
	m := degenerateMatrix(t)
	shape := selection.Shape{Rows: 2, Cols: 2}
	want := testutil.BruteForce(m, shape, kernel.Direct)

	for name, search := range paths {
		t.Run(name, func(t *testing.T) {
			res, err := search(context.Background(), m, shape,
				WithErrorPolicy(engine.ErrorPolicySkip),
				WithBatchSize(5),
				WithWorkers(2),
			)
			require.NoError(t, err)

			// 3 row pairs x 3 column pairs containing column 1.
			assert.Equal(t, uint64(9), res.Skipped)
			assert.Equal(t, uint64(18), res.Evaluated)
			assertRanked(t, want, res.Scored)
			for _, s := range res.Scored {
				assert.NotContains(t, s.Selection.Cols, 1)
			}
		})
	}
}

func TestSearchCanceled(t *testing.T) {
	rng := testutil.NewRNG(8)
	m := rng.UniformMatrix(4, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, search := range paths {
		t.Run(name, func(t *testing.T) {
			res, err := search(ctx, m, selection.Shape{Rows: 2, Cols: 2})
			assert.ErrorIs(t, err, context.Canceled)
			assert.Nil(t, res)
		})
	}
}

func TestSearchMetrics(t *testing.T) {
	rng := testutil.NewRNG(11)
	m := rng.UniformMatrix(4, 4)
	metrics := &BasicMetricsCollector{}

	res, err := Search(context.Background(), m, selection.Shape{Rows: 2, Cols: 2},
		WithBatchSize(10),
		WithMetricsCollector(metrics),
	)
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(4), stats.BatchCount) // 36 selections in batches of 10
	assert.Equal(t, int64(36), stats.BatchSelections)
	assert.Equal(t, int64(res.Len()), stats.BatchRetained)
	assert.Equal(t, int64(1), stats.SearchCount)
	assert.Equal(t, int64(36), stats.SearchEvaluated)
	assert.Zero(t, stats.SearchErrors)

	_, err = Search(context.Background(), degenerateMatrix(t), selection.Shape{Rows: 2, Cols: 2},
		WithMetricsCollector(metrics),
	)
	require.Error(t, err)
	assert.Equal(t, int64(1), metrics.GetStats().SearchErrors)
}

func TestSearchResourceController(t *testing.T) {
	rng := testutil.NewRNG(12)
	m := rng.UniformMatrix(4, 4)
	shape := selection.Shape{Rows: 2, Cols: 2}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:      1 << 20,
		MaxConcurrentSearches: 1,
	})
	res, err := Search(context.Background(), m, shape, WithResourceController(rc), WithBatchSize(8))
	require.NoError(t, err)
	assert.Equal(t, 36, res.Len())
	assert.Zero(t, rc.MemoryUsage())
	assert.True(t, rc.TryAcquireSearch())
	rc.ReleaseSearch()

	tiny := resource.NewController(resource.Config{MemoryLimitBytes: 1})
	_, err = Search(context.Background(), m, shape, WithResourceController(tiny))
	assert.ErrorIs(t, err, resource.ErrExceedsLimit)
}

func TestResultOScore(t *testing.T) {
	m, err := matrix.FromRows([][]float64{
		{1, 1, 0},
		{1, 1, 1},
	})
	require.NoError(t, err)

	res, err := Search(context.Background(), m, selection.Shape{Rows: 2, Cols: 2})
	require.NoError(t, err)
	require.Equal(t, 3, res.Len())

	// The all-ones selection {0,1} ranks last with O-score exactly 2.
	last := res.Len() - 1
	assert.Equal(t, []int{0, 1}, res.Scored[last].Selection.Cols)
	assert.InDelta(t, 2, res.OScore(last), 1e-12)
	assert.Greater(t, res.OScore(0), 2.0)
}
