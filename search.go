package orthoset

import (
	"context"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hupe1980/orthoset/engine"
	"github.com/hupe1980/orthoset/kernel"
	"github.com/hupe1980/orthoset/matrix"
	"github.com/hupe1980/orthoset/rank"
	"github.com/hupe1980/orthoset/selection"
)

// Result is the ranked outcome of a search.
type Result struct {
	SearchID string
	Shape    selection.Shape
	Variant  kernel.Variant

	// Scored is sorted ascending by score, ties broken by enumeration order.
	Scored []rank.Scored

	// Evaluated counts every selection that was scored or skipped.
	Evaluated uint64
	// Skipped counts degenerate selections dropped under ErrorPolicySkip.
	Skipped  uint64
	Duration time.Duration
}

// Len returns the number of retained selections.
func (r *Result) Len() int { return len(r.Scored) }

// Best returns the lowest-scoring selection.
func (r *Result) Best() (rank.Scored, bool) {
	if len(r.Scored) == 0 {
		return rank.Scored{}, false
	}
	return r.Scored[0], true
}

// OScore returns the orthogonality score of the i-th retained selection.
func (r *Result) OScore(i int) float64 {
	return kernel.OScore(r.Scored[i].Score, r.Shape.Rows, r.Shape.Cols)
}

// batchFunc scores one batch.
type batchFunc func(ctx context.Context, batch []selection.Selection) (engine.BatchResult, error)

// Search exhaustively scores every selection of the given shape in m and
// returns them ranked. Batches are scored in parallel by a fixed pool of
// workers, each holding its own copy of m.
//
// A shape larger than m yields an empty result, not an error. On any error
// the result is nil: an aborted ranking is never returned as if complete.
func Search(ctx context.Context, m *matrix.Matrix, shape selection.Shape, optFns ...Option) (*Result, error) {
	o, err := newOptions(optFns)
	if err != nil {
		return nil, err
	}
	if err := validate(m, shape); err != nil {
		return nil, err
	}

	d, err := engine.NewDistributor(m, o.workers, o.scorerConfig())
	if err != nil {
		return nil, err
	}
	defer d.Close()

	return run(ctx, m, shape, o, d.Dispatch)
}

// SearchSequential is the single-goroutine counterpart of Search. It applies
// the same threshold, error policy and ranking, so both paths return
// identical results for identical inputs.
func SearchSequential(ctx context.Context, m *matrix.Matrix, shape selection.Shape, optFns ...Option) (*Result, error) {
	o, err := newOptions(optFns)
	if err != nil {
		return nil, err
	}
	if err := validate(m, shape); err != nil {
		return nil, err
	}

	s, err := engine.NewScorer(m, o.scorerConfig())
	if err != nil {
		return nil, err
	}

	return run(ctx, m, shape, o, func(ctx context.Context, batch []selection.Selection) (engine.BatchResult, error) {
		scored, skipped, err := s.Run(ctx, batch)
		return engine.BatchResult{Scored: scored, Skipped: skipped}, err
	})
}

func validate(m *matrix.Matrix, shape selection.Shape) error {
	if m == nil {
		return ErrNilMatrix
	}
	if shape.Rows < 1 || shape.Cols < 1 {
		return ErrInvalidShape
	}
	return nil
}

func run(ctx context.Context, m *matrix.Matrix, shape selection.Shape, o options, score batchFunc) (res *Result, err error) {
	start := time.Now()
	id := uuid.NewString()
	logger := o.logger.WithSearchID(id).WithShape(shape)

	defer func() {
		o.metricsCollector.RecordSearch(evaluatedOf(res), time.Since(start), err)
		logger.LogSearch(ctx, res, err)
	}()

	if err := o.resources.AcquireSearch(ctx); err != nil {
		return nil, &SearchError{SearchID: id, Err: err}
	}
	defer o.resources.ReleaseSearch()

	total, exact := selection.Count(m.Rows(), m.Cols(), shape, o.variant.Ordered())
	logger.InfoContext(ctx, "search started",
		"variant", o.variant.String(),
		"workers", o.workers,
		"batch_size", o.batchSize,
		"selections", total,
		"selections_exact", exact,
	)

	var progress *rate.Sometimes
	if o.progressInterval > 0 {
		progress = &rate.Sometimes{Interval: o.progressInterval}
	}

	acc := rank.NewAccumulator(o.topK)
	var evaluated, skipped uint64

	batchNum := 0
	for batch := range selection.Batches(selection.Enumerate(m.Rows(), m.Cols(), shape, o.variant.Ordered()), o.batchSize) {
		if err := ctx.Err(); err != nil {
			return nil, &SearchError{SearchID: id, Batch: batchNum, Err: err}
		}

		bytes := batchBytes(len(batch), shape)
		if err := o.resources.AcquireMemory(ctx, bytes); err != nil {
			return nil, &SearchError{SearchID: id, Batch: batchNum, Err: err}
		}

		batchStart := time.Now()
		br, err := score(ctx, batch)
		o.resources.ReleaseMemory(bytes)
		if err != nil {
			return nil, &SearchError{SearchID: id, Batch: batchNum, Err: err}
		}

		acc.Add(br.Scored)
		evaluated += uint64(len(batch))
		skipped += uint64(len(br.Skipped))
		for _, s := range br.Skipped {
			logger.LogSkip(ctx, s)
		}

		o.metricsCollector.RecordBatch(len(batch), len(br.Scored), len(br.Skipped), time.Since(batchStart))
		logger.LogBatch(ctx, batchNum, len(batch), len(br.Scored), len(br.Skipped))
		if progress != nil {
			progress.Do(func() {
				logger.InfoContext(ctx, "search progress",
					"evaluated", evaluated,
					"selections", total,
					"retained", acc.Len(),
				)
			})
		}
		batchNum++
	}

	return &Result{
		SearchID:  id,
		Shape:     shape,
		Variant:   o.variant,
		Scored:    acc.Sorted(),
		Evaluated: evaluated,
		Skipped:   skipped,
		Duration:  time.Since(start),
	}, nil
}

// batchBytes estimates the memory held by a buffered batch. Row subsets are
// shared between selections and not counted.
func batchBytes(n int, shape selection.Shape) int64 {
	per := int64(unsafe.Sizeof(selection.Selection{})) + int64(shape.Cols)*int64(unsafe.Sizeof(int(0)))
	return int64(n) * per
}

func evaluatedOf(res *Result) uint64 {
	if res == nil {
		return 0
	}
	return res.Evaluated
}
