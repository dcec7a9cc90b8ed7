package selection

import "iter"

// Batches chunks seq into slices of at most size Selections, preserving
// order. The last batch may be shorter; an empty batch is never yielded.
// A size below 1 is treated as 1.
//
// The yielded slice is reused for the next batch, so at most one batch is
// held in memory. Copy it (or its elements) to retain it; Selection values
// themselves stay valid.
func Batches(seq iter.Seq[Selection], size int) iter.Seq[[]Selection] {
	if size < 1 {
		size = 1
	}
	return func(yield func([]Selection) bool) {
		batch := make([]Selection, 0, min(size, 4096))
		for s := range seq {
			batch = append(batch, s)
			if len(batch) == size {
				if !yield(batch) {
					return
				}
				clear(batch)
				batch = batch[:0]
			}
		}
		if len(batch) > 0 {
			yield(batch)
		}
	}
}
