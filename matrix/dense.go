package matrix

import (
	"fmt"
	"math"
	"slices"
)

// Dense is a row-major float64 matrix.
//
// Dense is not safe for concurrent mutation. Scoring code owns its Dense
// buffers exclusively (one per worker).
type Dense struct {
	rows, cols int
	data       []float64
}

// NewDense creates a rows×cols matrix. If data is nil a zero matrix is
// allocated; otherwise data is used as backing storage (not copied) and must
// hold exactly rows*cols values.
func NewDense(rows, cols int, data []float64) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadShape, rows, cols)
	}
	if data == nil {
		data = make([]float64, rows*cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %dx%d needs %d values, got %d", ErrBadShape, rows, cols, rows*cols, len(data))
	}
	return &Dense{rows: rows, cols: cols, data: data}, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Dense {
	d := &Dense{rows: n, cols: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		d.data[i*n+i] = 1
	}
	return d
}

// Ones returns a rows×cols matrix filled with 1.
func Ones(rows, cols int) *Dense {
	d := &Dense{rows: rows, cols: cols, data: make([]float64, rows*cols)}
	for i := range d.data {
		d.data[i] = 1
	}
	return d
}

// Rows returns the number of rows.
func (d *Dense) Rows() int { return d.rows }

// Cols returns the number of columns.
func (d *Dense) Cols() int { return d.cols }

// At returns the element at (i, j). Indices are not bounds-checked beyond
// the slice access; use it on hot paths only with validated indices.
func (d *Dense) At(i, j int) float64 { return d.data[i*d.cols+j] }

// Set stores v at (i, j).
func (d *Dense) Set(i, j int, v float64) { d.data[i*d.cols+j] = v }

// Col returns a copy of column j.
func (d *Dense) Col(j int) []float64 {
	out := make([]float64, d.rows)
	for i := 0; i < d.rows; i++ {
		out[i] = d.data[i*d.cols+j]
	}
	return out
}

// RawData exposes the row-major backing slice. The caller must not retain it
// beyond the lifetime of d.
func (d *Dense) RawData() []float64 { return d.data }

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	return &Dense{rows: d.rows, cols: d.cols, data: slices.Clone(d.data)}
}

// Reshape resizes d in place to rows×cols, reusing the backing array when it
// is large enough. Contents are unspecified afterwards.
func (d *Dense) Reshape(rows, cols int) {
	n := rows * cols
	if cap(d.data) < n {
		d.data = make([]float64, n)
	}
	d.data = d.data[:n]
	d.rows, d.cols = rows, cols
}

// Equal reports whether a and b have the same shape and every element
// differs by at most tol.
func Equal(a, b *Dense, tol float64) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for i := range a.data {
		if math.Abs(a.data[i]-b.data[i]) > tol {
			return false
		}
	}
	return true
}

// String renders the matrix one row per line.
func (d *Dense) String() string {
	var b []byte
	for i := 0; i < d.rows; i++ {
		b = append(b, '[')
		for j := 0; j < d.cols; j++ {
			if j > 0 {
				b = append(b, ' ')
			}
			b = fmt.Appendf(b, "%g", d.At(i, j))
		}
		b = append(b, ']', '\n')
	}
	return string(b)
}
