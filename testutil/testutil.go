package testutil

import (
	"fmt"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/orthoset/kernel"
	"github.com/hupe1980/orthoset/matrix"
	"github.com/hupe1980/orthoset/rank"
	"github.com/hupe1980/orthoset/selection"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformRows generates rows×cols values in range [minVal, maxVal).
// Locks only once per call.
func (r *RNG) UniformRows(rows, cols int, minVal, maxVal float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, rows*cols)
	out := make([][]float64, rows)
	for i := range out {
		row := data[i*cols : (i+1)*cols]
		for j := range row {
			row[j] = minVal + r.rand.Float64()*(maxVal-minVal)
		}
		out[i] = row
	}
	return out
}

// UniformMatrix generates a matrix with values in [0, 1) and positional labels.
// Columns are never degenerate with overwhelming probability.
func (r *RNG) UniformMatrix(rows, cols int) *matrix.Matrix {
	return mustMatrix(r.UniformRows(rows, cols, 0, 1))
}

// PlantedMatrix generates a rows×cols matrix of positive noise in
// [1, 2) and plants a k×k diagonal block of magnitude peak at a random set
// of rows and columns. It returns the matrix and the planted row and column
// positions (ascending).
func (r *RNG) PlantedMatrix(rows, cols, k int, peak float64) (*matrix.Matrix, []int, []int) {
	data := r.UniformRows(rows, cols, 1, 2)

	r.mu.Lock()
	rowPos := sortedSample(r.rand, rows, k)
	colPos := sortedSample(r.rand, cols, k)
	r.mu.Unlock()

	for i := 0; i < k; i++ {
		data[rowPos[i]][colPos[i]] = peak
	}
	return mustMatrix(data), rowPos, colPos
}

func sortedSample(rnd *rand.Rand, n, k int) []int {
	out := rnd.Perm(n)[:k]
	slices.Sort(out)
	return out
}

// WithZeroColumn returns a copy of rows where column j is all zeros.
func WithZeroColumn(rows [][]float64, j int) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = append([]float64(nil), row...)
		out[i][j] = 0
	}
	return out
}

// BruteForce scores every selection of the given shape sequentially with
// the public kernel functions and returns the ranked result. Degenerate
// selections are skipped. It is the reference the optimized paths are
// compared against.
func BruteForce(m *matrix.Matrix, shape selection.Shape, v kernel.Variant) []rank.Scored {
	full := m.Dense()
	score := kernel.ScoreDirect
	if v == kernel.SequentialAccumulation {
		score = kernel.ScoreSequential
	}

	var out []rank.Scored
	for sel := range selection.Enumerate(m.Rows(), m.Cols(), shape, v.Ordered()) {
		sub, _ := matrix.NewDense(len(sel.Rows), len(sel.Cols), nil)
		for i, ri := range sel.Rows {
			for j, cj := range sel.Cols {
				sub.Set(i, j, full.At(ri, cj))
			}
		}
		s, err := score(sub)
		if err != nil {
			continue
		}
		out = append(out, rank.Scored{Score: s, Selection: sel})
	}
	rank.Sort(out)
	return out
}

func mustMatrix(rows [][]float64) *matrix.Matrix {
	m, err := matrix.FromRows(rows)
	if err != nil {
		panic(fmt.Errorf("testutil: %w", err))
	}
	return m
}
