// Package dataset loads labelled matrices from CSV files.
//
// The expected layout is a header row of column labels (its first cell is
// ignored) followed by one row per entity: a row label and one value per
// column. Files ending in .zst or .lz4, or carrying those formats' magic
// bytes, are decompressed transparently.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/orthoset/internal/compress"
	"github.com/hupe1980/orthoset/matrix"
)

// DefaultFloor is the value below which measurements are clipped.
const DefaultFloor = 1000

var (
	// ErrEmpty is returned when the input has no header or no data rows.
	ErrEmpty = errors.New("dataset: no data")

	// ErrFieldCount is returned when a row has a different number of fields
	// than the header.
	ErrFieldCount = errors.New("dataset: wrong number of fields")
)

// ParseError reports a value that is not a number.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dataset: line %d, column %q: cannot parse %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Options configures Load and ReadCSV.
type Options struct {
	// Comma is the field delimiter. Default ','.
	Comma rune

	// Floor replaces every value below it. Default DefaultFloor.
	Floor float64

	// DisableClip keeps values below Floor unchanged.
	DisableClip bool
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		Comma: ',',
		Floor: DefaultFloor,
	}
}

// Load reads the CSV file at path, decompressing it if needed.
func Load(path string, optFns ...func(o *Options)) (*matrix.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	typ := compress.FromPath(path)
	if typ == compress.None {
		// Peek errors mean a short file; Detect then reports None.
		prefix, _ := br.Peek(4)
		typ = compress.Detect(prefix)
	}

	r, err := compress.NewReader(br, typ)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	m, err := ReadCSV(r, optFns...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadCSV parses a labelled matrix from r and applies floor clipping.
func ReadCSV(r io.Reader, optFns ...func(o *Options)) (*matrix.Matrix, error) {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.Comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: header has no column labels", ErrEmpty)
	}
	colLabels := header[1:]

	var (
		rows      [][]float64
		rowLabels []string
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := cr.FieldPos(0)
		if len(rec) != len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d", ErrFieldCount, line, len(rec), len(header))
		}

		row := make([]float64, len(colLabels))
		for j, field := range rec[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, &ParseError{Line: line, Column: colLabels[j], Value: field, Err: err}
			}
			row[j] = v
		}
		rows = append(rows, row)
		rowLabels = append(rowLabels, rec[0])
	}

	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	m, err := matrix.New(rows, rowLabels, colLabels)
	if err != nil {
		return nil, err
	}
	if opts.DisableClip {
		return m, nil
	}
	return m.ClipFloor(opts.Floor), nil
}
