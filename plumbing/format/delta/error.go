package delta

import (
	"errors"
	"fmt"
)

// Delta errors. Every error returned by this package wraps one of them, so
// callers can tell them apart with errors.Is.
var (
	// ErrTruncatedStream is returned when a varint or a command operand
	// was expected but the delta ended.
	ErrTruncatedStream = errors.New("truncated delta stream")
	// ErrVarintOverflow is returned when a varint does not fit in a uint.
	ErrVarintOverflow = errors.New("varint overflows uint")
	// ErrSourceLengthMismatch is returned when the source size declared in
	// the delta header differs from the size of the given source.
	ErrSourceLengthMismatch = errors.New("source length mismatch")
	// ErrTargetLengthMismatch is returned when the produced output does not
	// match the target size declared in the delta header.
	ErrTargetLengthMismatch = errors.New("target length mismatch")
	// ErrCopyOutOfBounds is returned when a copy command reaches past the
	// end of the source.
	ErrCopyOutOfBounds = errors.New("copy out of bounds")
	// ErrInsertOutOfBounds is returned when an insert command asks for more
	// literal bytes than remain in the delta.
	ErrInsertOutOfBounds = errors.New("insert out of bounds")
)

// Error specifies errors returned while decoding or applying a delta.
type Error struct {
	error
}

// NewError returns a new error.
func NewError(reason string) *Error {
	return &Error{errors.New(reason)}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.error
}

// AddDetails adds details to an error, with additional text.
func (e *Error) AddDetails(format string, args ...interface{}) *Error {
	err := fmt.Errorf(format, args...)
	if e.error == nil {
		return &Error{err}
	}
	return &Error{fmt.Errorf("%w: %w", e.error, err)}
}

func newError(kind error, format string, args ...interface{}) error {
	return (&Error{kind}).AddDetails(format, args...)
}
