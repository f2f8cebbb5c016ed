package model

import "time"

// Settings holds the registry values shown in the "Registry/Settings" and
// "PSN Account" sections.
type Settings struct {
	// ButtonAssign is the confirm button label ("X = Enter" or "O = Enter").
	ButtonAssign string `json:"button_assign"`

	// Language is the system language label.
	Language string `json:"language"`

	// LanguageTag is the BCP 47 tag of the system language ("und" if unknown).
	LanguageTag string `json:"language_tag"`

	// SuspendIntervalSeconds is /CONFIG/POWER_SAVING/suspend_interval.
	// It is -1 when the registry key could not be read.
	SuspendIntervalSeconds int `json:"suspend_interval_seconds"`

	// AccountEmail is /CONFIG/NP/login_id.
	AccountEmail string `json:"account_email,omitempty"`

	// AccountCountry is /CONFIG/NP/country.
	AccountCountry string `json:"account_country,omitempty"`
}

// DeviceReport is the result of examining one device dump.
// Pipeline steps fill it in order; report writers only read it.
type DeviceReport struct {
	// Source is the dump directory the report was built from.
	Source string `json:"source"`

	// DateGenerated is when the report was created.
	DateGenerated time.Time `json:"date_generated"`

	// Identity holds the id.dat fields exactly as stored.
	Identity IdentityRecord `json:"identity"`

	// AccountID is the de-obfuscated account token, empty when the token is
	// missing or malformed.
	AccountID string `json:"account_id,omitempty"`

	// Region is the decoded region_no byte.
	Region RegionCode `json:"region"`

	// Mode is the classified manufacturing mode.
	Mode DeviceMode `json:"mode"`

	// Model is the classified hardware model.
	Model HardwareModel `json:"model"`

	// MACAddress is the primary network interface address.
	MACAddress string `json:"mac_address,omitempty"`

	// ConsoleID is the IDPS as 32 hex digits.
	ConsoleID string `json:"console_id,omitempty"`

	// FirmwareRaw is the kernel version string as reported by the probe.
	FirmwareRaw string `json:"firmware_raw,omitempty"`

	// Firmware is FirmwareRaw after normalization.
	Firmware string `json:"firmware,omitempty"`

	// Settings holds registry derived values.
	Settings Settings `json:"settings"`

	// Telemetry holds passthrough hardware readings.
	Telemetry Telemetry `json:"telemetry"`

	// Fingerprint is a stable hash over the device identifiers.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Diagnostics lists every recoverable problem in the order it occurred.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps"`

	// Error holds the last step error when a step failed outright.
	Error error `json:"-"`

	// ErrorMessage is Error as text, kept for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// TimedOut is set when the pipeline was cancelled before finishing.
	TimedOut bool `json:"timed_out,omitempty"`
}

// NewDeviceReport returns an empty report for the given dump directory.
// Enumerations start at their "unknown" values.
func NewDeviceReport(source string) *DeviceReport {
	return &DeviceReport{
		Source:        source,
		DateGenerated: time.Now(),
		Region:        RegionUnknown,
		Mode:          ModeError,
		Model:         UnknownModel(0),
		Settings: Settings{
			SuspendIntervalSeconds: -1,
			LanguageTag:            "und",
		},
		Diagnostics:    make([]Diagnostic, 0),
		PerformedSteps: make([]string, 0),
	}
}

// AddDiagnostic appends a diagnostic built from err. A nil err is ignored.
func (r *DeviceReport) AddDiagnostic(source string, kind DiagnosticKind, err error) {
	if err == nil {
		return
	}
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Source:  source,
		Kind:    kind,
		Message: err.Error(),
	})
}

// HasDiagnostics reports whether any diagnostic was recorded.
func (r *DeviceReport) HasDiagnostics() bool {
	return len(r.Diagnostics) > 0
}

// DiagnosticsByKind returns the diagnostics of the given kind.
func (r *DeviceReport) DiagnosticsByKind(kind DiagnosticKind) []Diagnostic {
	var result []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			result = append(result, d)
		}
	}
	return result
}

// HasBattery reports whether battery telemetry should be shown.
func (r *DeviceReport) HasBattery() bool {
	return r.Telemetry.Battery != nil && r.Model.HasBattery()
}
