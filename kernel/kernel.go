package kernel

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/orthoset/matrix"
)

// Variant selects the scoring kernel. It is a plain value so it can be
// handed to workers without shipping code around.
type Variant int

const (
	// Direct scores the submatrix as given.
	Direct Variant = iota
	// SequentialAccumulation cumulatively sums columns before scoring.
	SequentialAccumulation
)

func (v Variant) String() string {
	switch v {
	case Direct:
		return "direct"
	case SequentialAccumulation:
		return "sequential-accumulation"
	default:
		return fmt.Sprintf("Unknown(%d)", int(v))
	}
}

// Ordered reports whether the variant depends on column order, i.e. whether
// column subsets must be enumerated as permutations.
func (v Variant) Ordered() bool { return v == SequentialAccumulation }

// ParseVariant parses the textual form of a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "direct":
		return Direct, nil
	case "sequential-accumulation", "sequential", "seq":
		return SequentialAccumulation, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	if v != Direct && v != SequentialAccumulation {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Func scores a submatrix.
//
// Functions returned by Provider work in place: they overwrite a with
// intermediate values. Callers pass a scratch copy they own.
type Func func(a *matrix.Dense) (float64, error)

// Provider returns the in-place scoring function for the given variant.
func Provider(v Variant) (Func, error) {
	switch v {
	case Direct:
		return directInPlace, nil
	case SequentialAccumulation:
		return sequentialInPlace, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownVariant, v)
	}
}

// ScoreDirect returns the RMS deviation of a's normalized Gram matrix from
// the identity. a is not modified.
func ScoreDirect(a *matrix.Dense) (float64, error) {
	return directInPlace(a.Clone())
}

// ScoreSequential accumulates a's columns left to right and scores the
// result like ScoreDirect. a is not modified.
func ScoreSequential(a *matrix.Dense) (float64, error) {
	return sequentialInPlace(a.Clone())
}

func directInPlace(a *matrix.Dense) (float64, error) {
	if err := NormalizeColumnsInPlace(a); err != nil {
		return 0, err
	}
	return gramRMS(a), nil
}

func sequentialInPlace(a *matrix.Dense) (float64, error) {
	AccumulateInPlace(a)
	return directInPlace(a)
}

// AccumulateInPlace replaces column k with the sum of columns 0..k.
// Column 0 is unchanged.
func AccumulateInPlace(a *matrix.Dense) {
	rows, cols := a.Rows(), a.Cols()
	data := a.RawData()
	for i := 0; i < rows; i++ {
		row := data[i*cols : (i+1)*cols]
		for j := 1; j < cols; j++ {
			row[j] += row[j-1]
		}
	}
}

// NormalizeColumnsInPlace scales every column of a to unit L2 norm.
// Returns a *DegenerateColumnError for the first zero-norm column; a may be
// partially normalized in that case.
func NormalizeColumnsInPlace(a *matrix.Dense) error {
	rows, cols := a.Rows(), a.Cols()
	data := a.RawData()
	for j := 0; j < cols; j++ {
		var norm2 float64
		for i := 0; i < rows; i++ {
			v := data[i*cols+j]
			norm2 += v * v
		}
		if norm2 == 0 {
			return &DegenerateColumnError{Column: j}
		}
		inv := 1 / math.Sqrt(norm2)
		for i := 0; i < rows; i++ {
			data[i*cols+j] *= inv
		}
	}
	return nil
}

// Gram returns a·aᵀ (rows×rows).
func Gram(a *matrix.Dense) *matrix.Dense {
	rows, cols := a.Rows(), a.Cols()
	data := a.RawData()
	g, _ := matrix.NewDense(rows, rows, nil)
	for i := 0; i < rows; i++ {
		ri := data[i*cols : (i+1)*cols]
		for j := i; j < rows; j++ {
			rj := data[j*cols : (j+1)*cols]
			var s float64
			for k := range ri {
				s += ri[k] * rj[k]
			}
			g.Set(i, j, s)
			g.Set(j, i, s)
		}
	}
	return g
}

// RMSIdentity returns the root-mean-square of g - I for a square g.
func RMSIdentity(g *matrix.Dense) float64 {
	n := g.Rows()
	var sum float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := g.At(i, j)
			if i == j {
				d -= 1
			}
			sum += d * d
		}
	}
	return math.Sqrt(sum / float64(n*n))
}

// gramRMS is RMSIdentity(Gram(a)) without materializing either matrix.
func gramRMS(a *matrix.Dense) float64 {
	rows, cols := a.Rows(), a.Cols()
	data := a.RawData()
	var sum float64
	for i := 0; i < rows; i++ {
		ri := data[i*cols : (i+1)*cols]
		for j := i; j < rows; j++ {
			rj := data[j*cols : (j+1)*cols]
			var s float64
			for k := range ri {
				s += ri[k] * rj[k]
			}
			if i == j {
				d := s - 1
				sum += d * d
			} else {
				sum += 2 * s * s
			}
		}
	}
	return math.Sqrt(sum / float64(rows*rows))
}

// WorstCase returns the Direct score of an all-ones rows×cols matrix.
func WorstCase(rows, cols int) float64 {
	score, _ := directInPlace(matrix.Ones(rows, cols))
	return score
}

// OScore rescales an RMS deviation into a higher-is-better orthogonality
// score: 2 × WorstCase(rows, cols) / rms. An all-ones selection scores
// exactly 2; a perfectly orthogonal one scores +Inf.
func OScore(rms float64, rows, cols int) float64 {
	return 2 * WorstCase(rows, cols) / rms
}
