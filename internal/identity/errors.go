package identity

import (
	"errors"
	"fmt"
)

// Sentinel errors of the identity package. None of them is fatal: callers
// record them and continue with placeholder values.
var (
	// ErrMalformedRecord is wrapped by a ParseWarning for a token that does not
	// carry any known key.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrMissingValue is wrapped by a ParseWarning for a known key followed by
	// an empty value.
	ErrMissingValue = errors.New("missing value")

	// ErrTokenTooLong is wrapped by a ParseWarning for a token of
	// MaxTokenLen bytes or more. Parsing resumes after the token.
	ErrTokenTooLong = errors.New("token too long")

	// ErrResourceUnavailable is returned when id.dat cannot be opened.
	ErrResourceUnavailable = errors.New("identity file unavailable")

	// ErrMalformedToken is returned when an account token cannot be decoded.
	ErrMalformedToken = errors.New("malformed account token")
)

// ParseWarning records a token that could not be turned into a field update.
// Use errors.Is with ErrMalformedRecord, ErrMissingValue or ErrTokenTooLong to
// inspect it.
type ParseWarning struct {
	Line  int    // 1-based line number, 0 when parsing a single token
	Token string // offending token
	Err   error  // ErrMalformedRecord, ErrMissingValue or ErrTokenTooLong
}

// Error returns a human-readable description of the warning.
// The token itself is left out because it may contain identifiers.
func (w *ParseWarning) Error() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %v", w.Line, w.Err)
	}
	return w.Err.Error()
}

// Unwrap returns the underlying sentinel error.
func (w *ParseWarning) Unwrap() error {
	return w.Err
}
