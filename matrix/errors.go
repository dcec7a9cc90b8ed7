package matrix

import "errors"

// Every message is prefixed with "matrix:" so it can be grepped in logs.
// Callers match these with errors.Is.
var (
	// ErrBadShape is returned when a requested shape is invalid (rows or cols <= 0)
	// or when the backing slice does not match rows*cols.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrRagged is returned when input rows have different lengths.
	ErrRagged = errors.New("matrix: ragged rows")

	// ErrNaNInf signals a NaN or ±Inf value in input data.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrLabelCount is returned when the number of labels does not match the axis length.
	ErrLabelCount = errors.New("matrix: label count mismatch")

	// ErrDuplicateLabel is returned when a label occurs twice on the same axis.
	ErrDuplicateLabel = errors.New("matrix: duplicate label")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")
)
