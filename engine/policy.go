package engine

import (
	"fmt"
	"strings"
)

// ErrorPolicy decides what happens when a selection cannot be scored.
// The same policy governs the parallel and the sequential search paths.
type ErrorPolicy int

const (
	// ErrorPolicyAbort fails the batch, and therefore the search, on the
	// first selection that cannot be scored.
	ErrorPolicyAbort ErrorPolicy = iota
	// ErrorPolicySkip drops such selections and reports them as skipped.
	ErrorPolicySkip
)

func (p ErrorPolicy) String() string {
	switch p {
	case ErrorPolicyAbort:
		return "abort"
	case ErrorPolicySkip:
		return "skip"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// ParseErrorPolicy parses "abort" or "skip".
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return ErrorPolicyAbort, nil
	case "skip":
		return ErrorPolicySkip, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p ErrorPolicy) MarshalText() ([]byte, error) {
	if p != ErrorPolicyAbort && p != ErrorPolicySkip {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ErrorPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseErrorPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
