package engine

import (
	"errors"
	"fmt"

	"github.com/hupe1980/orthoset/selection"
)

var (
	// ErrPoolClosed is returned when submitting to a closed WorkerPool.
	ErrPoolClosed = errors.New("engine: worker pool closed")

	// ErrWorkerPanic is returned when a worker panicked while scoring.
	ErrWorkerPanic = errors.New("engine: worker panic")

	// ErrInvalidWorker is returned when a task is pinned to a worker index
	// outside the pool.
	ErrInvalidWorker = errors.New("engine: invalid worker index")

	// ErrUnknownPolicy is returned for an unsupported error policy.
	ErrUnknownPolicy = errors.New("engine: unknown error policy")
)

// SelectionError identifies the selection whose scoring failed.
//
// The underlying cause (for example a *kernel.DegenerateColumnError) can be
// accessed via errors.Unwrap, errors.Is and errors.As.
type SelectionError struct {
	Selection selection.Selection
	Err       error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("scoring selection %s: %v", e.Selection, e.Err)
}

func (e *SelectionError) Unwrap() error { return e.Err }
