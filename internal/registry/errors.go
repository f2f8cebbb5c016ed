package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceUnavailable is returned when the registry blob cannot be opened.
	ErrResourceUnavailable = errors.New("registry blob unavailable")

	// ErrShortBlob is returned when the blob ends before the schema offset.
	ErrShortBlob = errors.New("registry blob too short")

	// ErrUnknownSchema is returned by LookupSchema for an unregistered version.
	ErrUnknownSchema = errors.New("unknown registry schema")
)

// ResourceError records a failure to read the registry blob at Path.
// It unwraps to both the package sentinel and the underlying cause.
type ResourceError struct {
	Path string
	Err  error
}

// Error returns a human-readable description of the failure.
func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResourceError) Unwrap() error {
	return e.Err
}
