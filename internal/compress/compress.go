// Package compress selects a streaming compression codec for dataset input
// and report output.
package compress

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None indicates no compression.
	None Type = 0
	// LZ4 indicates LZ4 frame compression (fast).
	LZ4 Type = 1
	// Zstd indicates Zstandard compression (better ratio).
	Zstd Type = 2
)

var (
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Ext returns the conventional file extension, including the dot.
func (t Type) Ext() string {
	switch t {
	case LZ4:
		return ".lz4"
	case Zstd:
		return ".zst"
	default:
		return ""
	}
}

// Parse converts a name ("none", "lz4", "zstd") to a Type.
func Parse(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd", "zst":
		return Zstd, nil
	default:
		return None, fmt.Errorf("compress: unknown type %q", s)
	}
}

// FromPath infers the Type from a file extension.
func FromPath(path string) Type {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lz4":
		return LZ4
	case ".zst", ".zstd":
		return Zstd
	default:
		return None
	}
}

// Detect infers the Type from the leading bytes of a stream.
func Detect(prefix []byte) Type {
	switch {
	case bytes.HasPrefix(prefix, zstdMagic):
		return Zstd
	case bytes.HasPrefix(prefix, lz4Magic):
		return LZ4
	default:
		return None
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w with the given codec. Closing the returned writer
// flushes the codec but does not close w.
func NewWriter(w io.Writer, t Type) (io.WriteCloser, error) {
	switch t {
	case None:
		return nopWriteCloser{w}, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	default:
		return nil, fmt.Errorf("compress: unknown type %d", uint8(t))
	}
}

// NewReader wraps r with the given codec. Closing the returned reader
// releases codec resources but does not close r.
func NewReader(r io.Reader, t Type) (io.ReadCloser, error) {
	switch t {
	case None:
		return io.NopCloser(r), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("compress: unknown type %d", uint8(t))
	}
}
