package kernel

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateColumn is returned when a column has zero L2 norm and
	// therefore cannot be normalized.
	ErrDegenerateColumn = errors.New("kernel: degenerate column (zero norm)")

	// ErrUnknownVariant is returned for an unsupported scoring variant.
	ErrUnknownVariant = errors.New("kernel: unknown variant")
)

// DegenerateColumnError reports which column of a submatrix had zero norm.
// Column is the position inside the scored submatrix, not in the full data set.
//
// errors.Is(err, ErrDegenerateColumn) holds for every DegenerateColumnError.
type DegenerateColumnError struct {
	Column int
}

func (e *DegenerateColumnError) Error() string {
	return fmt.Sprintf("%s at submatrix column %d", ErrDegenerateColumn, e.Column)
}

func (e *DegenerateColumnError) Unwrap() error { return ErrDegenerateColumn }
