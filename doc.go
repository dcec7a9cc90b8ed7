// Package orthoset searches a labelled numeric matrix for row/column
// sub-selections whose columns are nearly orthonormal.
//
// Every selection of a requested shape is enumerated lazily, scored by the
// RMS deviation of the Gram matrix of its normalized columns from the
// identity, and ranked ascending (lower is better). The search is exhaustive;
// a score threshold or top-K bound only limits what is retained.
//
// # Quick Start
//
//	m, _ := matrix.New(rows, rowLabels, colLabels)
//	res, err := orthoset.Search(ctx, m, selection.Shape{Rows: 3, Cols: 3},
//	    orthoset.WithWorkers(8),
//	    orthoset.WithBatchSize(100_000),
//	    orthoset.WithTopK(50),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	best, _ := res.Best()
//
// # Scoring Variants
//
//   - kernel.Direct: normalize, Gram, RMS against identity. Column subsets
//     are combinations.
//   - kernel.SequentialAccumulation: columns are cumulatively summed left to
//     right before scoring. Column subsets are permutations since order
//     changes the score.
//
// # Execution
//
// Search buffers the enumeration into batches (WithBatchSize) and
// distributes each batch round-robin over a fixed pool of workers, each with
// its own copy of the matrix. SearchSequential scores on the calling
// goroutine. Both apply the same threshold and error policy and produce the
// same ranking; batch size and worker count never change the result.
//
// # Errors
//
// A zero-norm column in a selection is a domain error. Under the default
// engine.ErrorPolicyAbort the search stops and returns a *SearchError
// wrapping the *engine.SelectionError that names the selection; under
// engine.ErrorPolicySkip the selection is dropped and counted in
// Result.Skipped.
package orthoset
