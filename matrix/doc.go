// Package matrix provides the numeric containers used by the orthogonal set search.
//
// Two types are exposed:
//
//   - Dense: a small row-major float64 matrix without labels. Scoring kernels
//     operate on Dense values gathered from the full data set.
//   - Matrix: the labelled input data set (rows = entities A, columns =
//     entities B). A Matrix is immutable once constructed; the only
//     preprocessing step, floor clipping, returns a new Matrix.
//
// # Usage
//
//	m, err := matrix.New(
//	    [][]float64{{1, 0, 1}, {0, 1, 1}},
//	    []string{"r1", "r2"},
//	    []string{"c1", "c2", "c3"},
//	)
//	sub := m.Gather(nil, []int{0, 1}, []int{0, 1})
package matrix
