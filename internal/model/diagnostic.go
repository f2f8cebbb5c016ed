package model

// DiagnosticKind classifies a recoverable problem met while building a report.
// None of the kinds stops classification of the remaining fields.
type DiagnosticKind int

const (
	// DiagnosticParseWarning is a malformed or unrecognized id.dat token.
	DiagnosticParseWarning DiagnosticKind = iota

	// DiagnosticResourceUnavailable is a missing or unreadable input file.
	// Affected fields fall back to empty or Unknown values.
	DiagnosticResourceUnavailable

	// DiagnosticProbeError is a failed capability or registry probe.
	DiagnosticProbeError

	// DiagnosticMalformedToken is an account token that could not be decoded.
	DiagnosticMalformedToken
)

// String returns a short label for the kind.
func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticParseWarning:
		return "parse_warning"
	case DiagnosticResourceUnavailable:
		return "resource_unavailable"
	case DiagnosticProbeError:
		return "probe_error"
	case DiagnosticMalformedToken:
		return "malformed_token"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind as its label.
func (k DiagnosticKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic records one recoverable problem.
type Diagnostic struct {
	// Source names the step or input that produced the diagnostic
	// (for example "identity" or "registry").
	Source string `json:"source"`

	// Kind classifies the problem.
	Kind DiagnosticKind `json:"kind"`

	// Message is the error text.
	Message string `json:"message"`
}
