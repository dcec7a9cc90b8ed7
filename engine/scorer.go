package engine

import (
	"context"
	"errors"
	"math"

	"github.com/hupe1980/orthoset/kernel"
	"github.com/hupe1980/orthoset/matrix"
	"github.com/hupe1980/orthoset/rank"
	"github.com/hupe1980/orthoset/selection"
)

// ctxCheckInterval is how many selections are scored between context checks.
const ctxCheckInterval = 1024

// Skip records a selection dropped under ErrorPolicySkip.
type Skip struct {
	Selection selection.Selection
	Err       error
}

// ScorerConfig configures a Scorer.
type ScorerConfig struct {
	Variant kernel.Variant
	// Threshold keeps only selections scoring strictly below it.
	// Use NoThreshold (+Inf) to keep everything.
	Threshold float64
	Policy    ErrorPolicy
}

// NoThreshold keeps every finite score.
var NoThreshold = math.Inf(1)

// Scorer applies one scoring variant to selections of one matrix.
//
// A Scorer owns a scratch buffer and must only be used by one goroutine at a
// time. The parallel path runs one Scorer per worker; the sequential path
// uses a single Scorer, so both apply identical threshold and error rules.
type Scorer struct {
	m       *matrix.Matrix
	fn      kernel.Func
	cfg     ScorerConfig
	scratch matrix.Dense
}

// NewScorer returns a Scorer over m. m is read, never written.
func NewScorer(m *matrix.Matrix, cfg ScorerConfig) (*Scorer, error) {
	fn, err := kernel.Provider(cfg.Variant)
	if err != nil {
		return nil, err
	}
	if cfg.Policy != ErrorPolicyAbort && cfg.Policy != ErrorPolicySkip {
		return nil, ErrUnknownPolicy
	}
	if math.IsNaN(cfg.Threshold) {
		cfg.Threshold = NoThreshold
	}
	return &Scorer{m: m, fn: fn, cfg: cfg}, nil
}

// Score computes the score of a single selection.
func (s *Scorer) Score(sel selection.Selection) (float64, error) {
	sub := s.m.Gather(&s.scratch, sel.Rows, sel.Cols)
	return s.fn(sub)
}

// Run scores sels in order. It returns the retained results (same relative
// order as sels) and, under ErrorPolicySkip, the skipped selections.
// Under ErrorPolicyAbort the first failure is returned as a *SelectionError.
func (s *Scorer) Run(ctx context.Context, sels []selection.Selection) ([]rank.Scored, []Skip, error) {
	var (
		out     []rank.Scored
		skipped []Skip
	)
	for i, sel := range sels {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		score, err := s.Score(sel)
		if err != nil {
			if s.cfg.Policy == ErrorPolicySkip && errors.Is(err, kernel.ErrDegenerateColumn) {
				skipped = append(skipped, Skip{Selection: sel, Err: err})
				continue
			}
			return nil, nil, &SelectionError{Selection: sel, Err: err}
		}

		if score < s.cfg.Threshold {
			out = append(out, rank.Scored{Score: score, Selection: sel})
		}
	}
	return out, skipped, nil
}
