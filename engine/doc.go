// Package engine provides the work distribution layer of the search.
//
// The engine farms scoring work for one batch of selections out to a fixed
// pool of workers and hands the partial results back to the coordinator.
//
// # Worker Model
//
//   - A WorkerPool runs N long-lived goroutines. Tasks are pinned to a worker
//     index, so everything a worker touches (its matrix copy, its scratch
//     buffer) is owned by exactly one goroutine.
//   - Each worker holds an independent copy of the full matrix. Nothing
//     mutable is shared between workers or with the coordinator.
//   - The scoring variant travels as a kernel.Variant value; each worker
//     resolves it to a function locally.
//
// # Batch Dispatch
//
//   - Partition splits a batch round-robin: worker i gets positions
//     i, i+N, i+2N, ... This spreads any order-correlated cost evenly.
//   - Every worker scores its sublist in order and applies the score
//     threshold immediately, so rejected selections are never retained.
//   - Dispatch blocks until all workers finished the batch.
//
// # Failure Semantics
//
//   - ErrorPolicyAbort (default): the first failing selection aborts the
//     batch. The error is a *SelectionError naming the selection.
//   - ErrorPolicySkip: degenerate selections are dropped and reported.
//   - A panicking worker fails the batch with ErrWorkerPanic regardless of
//     policy.
package engine
