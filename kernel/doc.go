// Package kernel implements the orthogonality scoring kernels.
//
// A kernel maps an m×n submatrix to the root-mean-square deviation between
// the Gram matrix of its L2-normalized columns and the m×m identity matrix.
// Lower is better; 0 means the normalized columns behave like an orthonormal
// basis.
//
// # Variants
//
//   - Direct: score the submatrix as is.
//   - SequentialAccumulation: cumulatively sum columns left to right first,
//     so column order matters. Use it with permutation-ordered column subsets.
//
// # Usage
//
//	score, err := kernel.Direct(sub)
//	fn, _ := kernel.Provider(kernel.SequentialAccumulation)
//	o := kernel.OScore(score, sub.Rows(), sub.Cols())
package kernel
