package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool manages a fixed set of long-lived worker goroutines.
//
// Unlike a shared work queue, every task is pinned to a worker index. A
// worker executes its tasks one at a time in submission order, so state
// captured per worker index is never touched by two goroutines at once.
type WorkerPool struct {
	numWorkers int
	workChs    []chan func()
	stopCh     chan struct{}
	wg         sync.WaitGroup
	closed     atomic.Bool
	submitMu   sync.RWMutex
}

// NewWorkerPool starts numWorkers goroutines. If numWorkers <= 0,
// runtime.GOMAXPROCS(0) is used.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	wp := &WorkerPool{
		numWorkers: numWorkers,
		workChs:    make([]chan func(), numWorkers),
		stopCh:     make(chan struct{}),
	}

	wp.wg.Add(numWorkers)
	for i := range wp.workChs {
		ch := make(chan func(), 2)
		wp.workChs[i] = ch
		go wp.worker(ch)
	}

	return wp
}

// Size returns the number of workers.
func (wp *WorkerPool) Size() int { return wp.numWorkers }

func (wp *WorkerPool) worker(ch <-chan func()) {
	defer wp.wg.Done()

	// Close closes ch after stopCh; ranging drains already queued work.
	for task := range ch {
		task()
	}
}

// Submit enqueues task on the given worker and returns once it is queued.
//
// Error conditions:
//   - ErrInvalidWorker if worker is out of range
//   - ErrPoolClosed if the pool is closed
//   - ctx.Err() if ctx is done before the task could be queued
func (wp *WorkerPool) Submit(ctx context.Context, worker int, task func()) error {
	if worker < 0 || worker >= wp.numWorkers {
		return fmt.Errorf("%w: %d of %d", ErrInvalidWorker, worker, wp.numWorkers)
	}

	wp.submitMu.RLock()
	defer wp.submitMu.RUnlock()

	if wp.closed.Load() {
		return ErrPoolClosed
	}

	select {
	case wp.workChs[worker] <- task:
		return nil
	case <-wp.stopCh:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting work, waits for queued tasks to finish and stops
// the workers. It is idempotent.
func (wp *WorkerPool) Close() {
	if !wp.closed.CompareAndSwap(false, true) {
		return
	}

	// Unblock submitters waiting on a full channel before taking the lock.
	close(wp.stopCh)

	wp.submitMu.Lock()
	for _, ch := range wp.workChs {
		close(ch)
	}
	wp.submitMu.Unlock()

	wp.wg.Wait()
}
