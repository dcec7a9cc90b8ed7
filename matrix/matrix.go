package matrix

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Matrix is the labelled input data set searched for orthogonal subsets.
//
// Rows and columns carry unique, order-preserving labels. A Matrix is never
// mutated after construction, so a single value may be read from many
// goroutines; workers still receive their own Clone to keep data ownership
// explicit.
type Matrix struct {
	dense     Dense
	rowLabels []string
	colLabels []string
}

// New builds a Matrix from row slices and axis labels.
//
// Pass nil labels to generate positional labels ("r0", "r1", ... and
// "c0", "c1", ...). Values are copied.
func New(rows [][]float64, rowLabels, colLabels []string) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrBadShape)
	}

	r, c := len(rows), len(rows[0])
	data := make([]float64, 0, r*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRagged, i, len(row), c)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: at (%d,%d)", ErrNaNInf, i, j)
			}
		}
		data = append(data, row...)
	}

	if rowLabels == nil {
		rowLabels = positional("r", r)
	}
	if colLabels == nil {
		colLabels = positional("c", c)
	}
	if err := checkLabels(rowLabels, r); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if err := checkLabels(colLabels, c); err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	return &Matrix{
		dense:     Dense{rows: r, cols: c, data: data},
		rowLabels: slices.Clone(rowLabels),
		colLabels: slices.Clone(colLabels),
	}, nil
}

// FromRows is New with positional labels.
func FromRows(rows [][]float64) (*Matrix, error) {
	return New(rows, nil, nil)
}

func positional(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + strconv.Itoa(i)
	}
	return out
}

func checkLabels(labels []string, n int) error {
	if len(labels) != n {
		return fmt.Errorf("%w: got %d, want %d", ErrLabelCount, len(labels), n)
	}
	seen := make(map[string]struct{}, n)
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
		seen[l] = struct{}{}
	}
	return nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.dense.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.dense.cols }

// At returns the value at (i, j).
func (m *Matrix) At(i, j int) (float64, error) {
	if i < 0 || i >= m.dense.rows || j < 0 || j >= m.dense.cols {
		return 0, fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, i, j)
	}
	return m.dense.At(i, j), nil
}

// RowLabel returns the label of row i.
func (m *Matrix) RowLabel(i int) string { return m.rowLabels[i] }

// ColLabel returns the label of column j.
func (m *Matrix) ColLabel(j int) string { return m.colLabels[j] }

// RowLabels returns a copy of the row labels.
func (m *Matrix) RowLabels() []string { return slices.Clone(m.rowLabels) }

// ColLabels returns a copy of the column labels.
func (m *Matrix) ColLabels() []string { return slices.Clone(m.colLabels) }

// Dense returns a copy of the numeric values without labels.
func (m *Matrix) Dense() *Dense { return m.dense.Clone() }

// Clone returns an independent deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{
		dense:     *m.dense.Clone(),
		rowLabels: slices.Clone(m.rowLabels),
		colLabels: slices.Clone(m.colLabels),
	}
}

// ClipFloor returns a copy of m where every value below floor is replaced
// by floor. m itself is left untouched.
func (m *Matrix) ClipFloor(floor float64) *Matrix {
	out := m.Clone()
	for i, v := range out.dense.data {
		if v < floor {
			out.dense.data[i] = floor
		}
	}
	return out
}

// Gather copies the values at the given row and column positions into dst,
// in the order given, and returns it. dst is reshaped (and reallocated only
// when too small); pass nil to allocate.
//
// Indices must be valid; they come from the selection enumerator, which only
// produces positions in range.
func (m *Matrix) Gather(dst *Dense, rows, cols []int) *Dense {
	if dst == nil {
		dst = &Dense{}
	}
	dst.Reshape(len(rows), len(cols))
	k := 0
	for _, i := range rows {
		base := i * m.dense.cols
		for _, j := range cols {
			dst.data[k] = m.dense.data[base+j]
			k++
		}
	}
	return dst
}
