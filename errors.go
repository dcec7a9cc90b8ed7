package orthoset

import (
	"errors"
	"fmt"
)

var (
	// ErrNilMatrix is returned when no matrix is supplied.
	ErrNilMatrix = errors.New("orthoset: matrix is nil")

	// ErrInvalidShape is returned when a shape dimension is not positive.
	ErrInvalidShape = errors.New("orthoset: shape dimensions must be positive")

	// ErrInvalidWorkers is returned when the worker count is negative.
	ErrInvalidWorkers = errors.New("orthoset: worker count must not be negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("orthoset: batch size must be positive")

	// ErrInvalidTopK is returned when top-K is negative.
	ErrInvalidTopK = errors.New("orthoset: top-k must not be negative")
)

// SearchError reports a search aborted while processing a batch.
//
// The failing selection, when identifiable, is available through
// errors.As with *engine.SelectionError.
type SearchError struct {
	SearchID string
	Batch    int
	Err      error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %s: batch %d: %v", e.SearchID, e.Batch, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }
