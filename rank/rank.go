// Package rank merges scored selections into one globally ordered sequence.
//
// Ordering is ascending by score. Ties fall back to the selection's ordinal
// in the enumeration, which makes the final order independent of batch size,
// worker count and the order in which partial results arrive.
package rank

import (
	"cmp"
	"slices"

	"github.com/hupe1980/orthoset/queue"
	"github.com/hupe1980/orthoset/selection"
)

// Scored pairs a selection with its deviation score (lower is better).
type Scored struct {
	Score     float64             `json:"score"`
	Selection selection.Selection `json:"selection"`
}

// Compare orders by score, then by enumeration ordinal.
func Compare(a, b Scored) int {
	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.Selection.Ordinal, b.Selection.Ordinal)
}

// Less reports whether a ranks before b.
func Less(a, b Scored) bool { return Compare(a, b) < 0 }

// Sort orders s in place.
func Sort(s []Scored) { slices.SortFunc(s, Compare) }

// Accumulator collects partial result lists from any number of batches and
// workers. It is owned by the coordinator and is not safe for concurrent use.
type Accumulator struct {
	all   []Scored
	top   *queue.TopK[Scored]
	added uint64
}

// NewAccumulator returns an Accumulator. If topK > 0 only the best topK
// entries are retained, in O(topK) memory.
func NewAccumulator(topK int) *Accumulator {
	a := &Accumulator{}
	if topK > 0 {
		a.top = queue.NewTopK(topK, Less)
	}
	return a
}

// Add appends partial results. Order across calls does not matter.
func (a *Accumulator) Add(parts ...[]Scored) {
	for _, p := range parts {
		a.added += uint64(len(p))
		if a.top != nil {
			for _, s := range p {
				a.top.Push(s)
			}
			continue
		}
		a.all = append(a.all, p...)
	}
}

// Len returns the number of retained entries.
func (a *Accumulator) Len() int {
	if a.top != nil {
		return a.top.Len()
	}
	return len(a.all)
}

// Added returns how many entries were offered in total, retained or not.
func (a *Accumulator) Added() uint64 { return a.added }

// Sorted returns the retained entries in rank order.
func (a *Accumulator) Sorted() []Scored {
	if a.top != nil {
		return a.top.Sorted()
	}
	out := slices.Clone(a.all)
	Sort(out)
	return out
}
