package selection

import (
	"fmt"
	"iter"
	"math/bits"
	"slices"
)

// Shape is the requested submatrix size: Rows rows by Cols columns.
type Shape struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

func (s Shape) String() string { return fmt.Sprintf("%dx%d", s.Rows, s.Cols) }

// Selection identifies one candidate submatrix by index positions into the
// full matrix.
//
// Ordinal is the position of the Selection in the enumeration and serves as
// the deterministic tie-breaker when ranking. Rows and Cols are read-only:
// Selections sharing a row subset share the backing array.
type Selection struct {
	Ordinal uint64 `json:"ordinal"`
	Rows    []int  `json:"rows"`
	Cols    []int  `json:"cols"`
}

func (s Selection) String() string {
	return fmt.Sprintf("#%d rows=%v cols=%v", s.Ordinal, s.Rows, s.Cols)
}

// Enumerate yields every Selection of the given shape from a matrix with
// rows×cols entries. When ordered is true column subsets are permutations.
//
// A shape larger than the matrix yields nothing; that is a valid, empty
// search space rather than an error.
func Enumerate(rows, cols int, shape Shape, ordered bool) iter.Seq[Selection] {
	colSeq := Combinations
	if ordered {
		colSeq = Permutations
	}
	return func(yield func(Selection) bool) {
		var ordinal uint64
		for r := range Combinations(rows, shape.Rows) {
			rowSet := slices.Clone(r)
			for c := range colSeq(cols, shape.Cols) {
				s := Selection{Ordinal: ordinal, Rows: rowSet, Cols: slices.Clone(c)}
				ordinal++
				if !yield(s) {
					return
				}
			}
		}
	}
}

// Combinations yields every k-subset of {0..n-1} in lexicographic order.
// The yielded slice is reused between iterations; clone it to retain it.
func Combinations(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k < 0 || k > n {
			return
		}
		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}
		if !yield(idx) {
			return
		}
		for {
			i := k - 1
			for i >= 0 && idx[i] == i+n-k {
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
			if !yield(idx) {
				return
			}
		}
	}
}

// Permutations yields every ordered k-arrangement of distinct values from
// {0..n-1} in lexicographic order. The yielded slice is reused between
// iterations; clone it to retain it.
func Permutations(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k < 0 || k > n {
			return
		}
		buf := make([]int, 0, k)
		used := make([]bool, n)

		var walk func() bool
		walk = func() bool {
			if len(buf) == k {
				return yield(buf)
			}
			for i := 0; i < n; i++ {
				if used[i] {
					continue
				}
				used[i] = true
				buf = append(buf, i)
				if !walk() {
					return false
				}
				buf = buf[:len(buf)-1]
				used[i] = false
			}
			return true
		}
		walk()
	}
}

// Count returns the number of Selections Enumerate produces. ok is false if
// the count does not fit in a uint64.
func Count(rows, cols int, shape Shape, ordered bool) (n uint64, ok bool) {
	r, ok := binomial(rows, shape.Rows)
	if !ok {
		return 0, false
	}
	var c uint64
	if ordered {
		c, ok = arrangements(cols, shape.Cols)
	} else {
		c, ok = binomial(cols, shape.Cols)
	}
	if !ok {
		return 0, false
	}
	hi, lo := bits.Mul64(r, c)
	if hi != 0 {
		return 0, false
	}
	return lo, true
}

func binomial(n, k int) (uint64, bool) {
	if k < 0 || k > n {
		return 0, true
	}
	if k > n-k {
		k = n - k
	}
	res := uint64(1)
	for i := 0; i < k; i++ {
		hi, lo := bits.Mul64(res, uint64(n-i))
		d := uint64(i + 1)
		if hi >= d {
			return 0, false
		}
		res, _ = bits.Div64(hi, lo, d)
	}
	return res, true
}

func arrangements(n, k int) (uint64, bool) {
	if k < 0 || k > n {
		return 0, true
	}
	res := uint64(1)
	for i := 0; i < k; i++ {
		hi, lo := bits.Mul64(res, uint64(n-i))
		if hi != 0 {
			return 0, false
		}
		res = lo
	}
	return res, true
}
