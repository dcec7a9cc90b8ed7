// Package report turns ranked search results into labelled tables.
//
// The pairing of selected columns with rows is display-only: each column is
// matched to the selected row holding its largest value, and when two
// columns claim the same row the pairing falls back to positional order.
package report

import (
	"math"

	"github.com/hupe1980/orthoset"
	"github.com/hupe1980/orthoset/matrix"
	"github.com/hupe1980/orthoset/selection"
)

// Pair matches a selected column with a selected row. Row is empty when the
// selection has more columns than rows and positional pairing ran out.
type Pair struct {
	Column string `json:"column"`
	Row    string `json:"row"`
}

// Row is one line of a report.
type Row struct {
	Rank   int      `json:"rank"`
	Score  float64  `json:"score"`
	OScore float64  `json:"-"`
	Rows   []string `json:"rows"`
	Cols   []string `json:"cols"`
	Pairs  []Pair   `json:"pairs"`
	// Positional reports that best-match pairing was ambiguous.
	Positional bool `json:"positional"`
}

// Build maps the first limit entries of res back to m's labels.
// A limit of zero or less includes every entry.
func Build(res *orthoset.Result, m *matrix.Matrix, limit int) []Row {
	n := res.Len()
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]Row, n)
	for i := range n {
		s := res.Scored[i]
		pairs, positional := Pairing(m, s.Selection)
		out[i] = Row{
			Rank:       i + 1,
			Score:      s.Score,
			OScore:     res.OScore(i),
			Rows:       labels(s.Selection.Rows, m.RowLabel),
			Cols:       labels(s.Selection.Cols, m.ColLabel),
			Pairs:      pairs,
			Positional: positional,
		}
	}
	return out
}

// Pairing matches every selected column, in selection order, with the
// selected row holding its largest value. If two columns pick the same row
// the i-th column is paired with the i-th row instead and positional is true.
func Pairing(m *matrix.Matrix, sel selection.Selection) (pairs []Pair, positional bool) {
	pairs = make([]Pair, len(sel.Cols))
	seen := make(map[int]struct{}, len(sel.Cols))

	for k, c := range sel.Cols {
		best, bestVal := -1, math.Inf(-1)
		for _, r := range sel.Rows {
			v, _ := m.At(r, c)
			if v > bestVal {
				best, bestVal = r, v
			}
		}
		pairs[k] = Pair{Column: m.ColLabel(c), Row: m.RowLabel(best)}
		if _, dup := seen[best]; dup {
			positional = true
		}
		seen[best] = struct{}{}
	}

	if !positional {
		return pairs, false
	}

	for k, c := range sel.Cols {
		pairs[k] = Pair{Column: m.ColLabel(c)}
		if k < len(sel.Rows) {
			pairs[k].Row = m.RowLabel(sel.Rows[k])
		}
	}
	return pairs, true
}

func labels(idx []int, label func(int) string) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = label(j)
	}
	return out
}
