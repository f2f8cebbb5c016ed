package probe

import (
	"errors"
	"fmt"
)

var (
	// ErrProbe is returned when a probe has no reading.
	ErrProbe = errors.New("probe failed")

	// ErrResourceUnavailable is returned when the capture file cannot be read.
	ErrResourceUnavailable = errors.New("probe capture unavailable")

	// ErrInvalidCapture is returned when the capture file is not valid YAML
	// or holds a value of the wrong type.
	ErrInvalidCapture = errors.New("invalid probe capture")

	// ErrInvalidIdentifier is returned by ParseMAC and ParseConsoleID.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// ProbeError records the failure of a named probe.
type ProbeError struct {
	// Probe names the probe, for registry reads the registry key.
	Probe string
	Err   error
}

// Error returns a human-readable description of the failure.
func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Probe, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProbeError) Unwrap() error {
	return e.Err
}

// failed returns a ProbeError wrapping ErrProbe.
func failed(name string) error {
	return &ProbeError{Probe: name, Err: ErrProbe}
}
