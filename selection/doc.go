// Package selection enumerates candidate row/column sub-selections of a
// matrix and buffers the enumeration into bounded batches.
//
// Enumeration is lazy (iter.Seq) and restartable: ranging over the same
// sequence again starts from the first Selection. Row subsets are always
// combinations; column subsets are combinations, or permutations when the
// scoring variant depends on column order. Order is product order: every
// column subset for a row subset before the next row subset, each in
// increasing lexicographic index order.
package selection
