package dynamo

import (
	"errors"
	"fmt"
)

// Sentinels for vector math, world records and the update pass.
var (
	// ErrDegenerateVector indicates a zero-length or non-finite vector, which
	// has no usable direction.
	ErrDegenerateVector = errors.New("dynamo: cannot normalize zero-length or non-finite vector")

	// ErrInvalidState indicates a body position or velocity went NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDoubleImpact indicates an impact was requested for a body already
	// marked for removal this tick.
	ErrDoubleImpact = errors.New("dynamo: impact on body already removed")

	// ErrUnknownTag indicates a serialized record names no known classification.
	ErrUnknownTag = errors.New("dynamo: unknown classification tag")

	// ErrMalformedRecord indicates a serialized record is truncated or not numeric.
	ErrMalformedRecord = errors.New("dynamo: malformed record")
)

// FormatError wraps a load failure with the position of the offending token.
type FormatError struct {
	Record  int
	Token   int
	Value   string
	Wrapped error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("record %d, token %d (%q): %v", e.Record, e.Token, e.Value, e.Wrapped)
}

func (e *FormatError) Unwrap() error {
	return e.Wrapped
}
