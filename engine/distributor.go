package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/orthoset/matrix"
	"github.com/hupe1980/orthoset/rank"
	"github.com/hupe1980/orthoset/selection"
)

// Partition splits batch into n sublists round-robin: sublist i holds the
// selections at positions i, i+n, i+2n, ... Sublists may be empty when the
// batch is shorter than n.
func Partition(batch []selection.Selection, n int) [][]selection.Selection {
	if n < 1 {
		n = 1
	}
	parts := make([][]selection.Selection, n)
	per := (len(batch) + n - 1) / n
	for i := range parts {
		parts[i] = make([]selection.Selection, 0, per)
	}
	for i, s := range batch {
		parts[i%n] = append(parts[i%n], s)
	}
	return parts
}

// BatchResult is the merged output of all workers for one batch.
type BatchResult struct {
	Scored  []rank.Scored
	Skipped []Skip
}

type workerResult struct {
	scored  []rank.Scored
	skipped []Skip
	err     error
}

// Distributor fans batches out to a fixed pool of workers, each holding its
// own copy of the matrix.
type Distributor struct {
	pool    *WorkerPool
	scorers []*Scorer
}

// NewDistributor creates a Distributor with the given number of workers.
// Every worker receives an independent clone of m.
func NewDistributor(m *matrix.Matrix, workers int, cfg ScorerConfig) (*Distributor, error) {
	pool := NewWorkerPool(workers)

	scorers := make([]*Scorer, pool.Size())
	for i := range scorers {
		s, err := NewScorer(m.Clone(), cfg)
		if err != nil {
			pool.Close()
			return nil, err
		}
		scorers[i] = s
	}

	return &Distributor{pool: pool, scorers: scorers}, nil
}

// Workers returns the number of workers.
func (d *Distributor) Workers() int { return len(d.scorers) }

// Dispatch scores one batch and blocks until every worker is done.
//
// On failure no partial result is returned. Worker errors are reported for
// the lowest failing worker index so the reported error is deterministic for
// a given batch.
func (d *Distributor) Dispatch(ctx context.Context, batch []selection.Selection) (BatchResult, error) {
	parts := Partition(batch, len(d.scorers))
	results := make([]workerResult, len(parts))

	var wg sync.WaitGroup
	for i, part := range parts {
		if len(part) == 0 {
			continue
		}

		wg.Add(1)
		scorer := d.scorers[i]
		err := d.pool.Submit(ctx, i, func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = workerResult{err: fmt.Errorf("%w: worker %d: %v", ErrWorkerPanic, i, r)}
				}
			}()

			scored, skipped, err := scorer.Run(ctx, part)
			results[i] = workerResult{scored: scored, skipped: skipped, err: err}
		})
		if err != nil {
			wg.Done()
			results[i] = workerResult{err: err}
		}
	}
	wg.Wait()

	var (
		total   int
		skipped []Skip
	)
	for i := range results {
		if results[i].err != nil {
			return BatchResult{}, results[i].err
		}
		total += len(results[i].scored)
		skipped = append(skipped, results[i].skipped...)
	}

	merged := make([]rank.Scored, 0, total)
	for i := range results {
		merged = append(merged, results[i].scored...)
	}
	return BatchResult{Scored: merged, Skipped: skipped}, nil
}

// Close stops the worker pool.
func (d *Distributor) Close() {
	d.pool.Close()
}
