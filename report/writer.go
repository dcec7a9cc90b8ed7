package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/orthoset/internal/compress"
	"github.com/hupe1980/orthoset/resource"
)

// LabelSep joins multiple labels in a single CSV cell.
const LabelSep = ";"

// WriteCSV writes rows as CSV with a header. Pair columns are named
// column_1, row_1, ..., column_k, row_k for the widest selection.
func WriteCSV(w io.Writer, rows []Row) error {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Pairs))
	}

	cw := csv.NewWriter(w)

	header := []string{"rank", "score", "o_score", "rows", "cols", "positional"}
	for k := 1; k <= width; k++ {
		header = append(header, "column_"+strconv.Itoa(k), "row_"+strconv.Itoa(k))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	rec := make([]string, len(header))
	for _, r := range rows {
		rec = rec[:0]
		rec = append(rec,
			strconv.Itoa(r.Rank),
			formatFloat(r.Score),
			formatFloat(r.OScore),
			strings.Join(r.Rows, LabelSep),
			strings.Join(r.Cols, LabelSep),
			strconv.FormatBool(r.Positional),
		)
		for k := range width {
			if k < len(r.Pairs) {
				rec = append(rec, r.Pairs[k].Column, r.Pairs[k].Row)
			} else {
				rec = append(rec, "", "")
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type jsonRow struct {
	Row
	// OScore is null when the score is zero (infinite O-score).
	OScore *float64 `json:"o_score"`
}

// WriteJSONL writes one JSON object per row.
func WriteJSONL(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	for _, r := range rows {
		jr := jsonRow{Row: r}
		if !math.IsInf(r.OScore, 0) && !math.IsNaN(r.OScore) {
			o := r.OScore
			jr.OScore = &o
		}
		if err := enc.Encode(jr); err != nil {
			return err
		}
	}
	return nil
}

type fileWriter struct {
	io.WriteCloser
	f *os.File
}

func (w *fileWriter) Close() error {
	return errors.Join(w.WriteCloser.Close(), w.f.Close())
}

// Create opens path for writing a report. The output is compressed when the
// extension is .zst or .lz4 and throttled by rc's IO limit (rc may be nil).
// Close flushes the codec and closes the file.
func Create(ctx context.Context, path string, rc *resource.Controller) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	cw, err := compress.NewWriter(resource.NewRateLimitedWriter(ctx, f, rc), compress.FromPath(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &fileWriter{WriteCloser: cw, f: f}, nil
}
