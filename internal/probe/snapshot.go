package probe

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/psvident/internal/model"
	"github.com/nao1215/psvident/internal/registry"
)

// DefaultCaptureFile is the capture file name inside a dump directory.
const DefaultCaptureFile = "probes.yaml"

// Snapshot is a probe capture loaded from probes.yaml.
//
// Example:
//
//	retail: true
//	model_id: 0x10000
//	mac_address: "D4:4B:5E:01:02:03"
//	console_id: "00000001008C0000F0E1D2C3B4A59687"
//	firmware_version: "3.60 変革-03"
//	registry:
//	  /CONFIG/SYSTEM/language: 1
//	  /CONFIG/NP/country: "us"
//	telemetry:
//	  clock: {arm_mhz: 444, bus_mhz: 222}
//
// Registry keys that are absent fail like missing keys on the device. The
// zero value is a capture in which every probe failed.
type Snapshot struct {
	Retail   bool `yaml:"retail"`
	Dev      bool `yaml:"dev"`
	Tool     bool `yaml:"tool"`
	IDU      bool `yaml:"idu"`
	ShowMode bool `yaml:"show_mode"`

	ModelIDValue int    `yaml:"model_id"`
	MAC          string `yaml:"mac_address"`
	IDPS         string `yaml:"console_id"`
	Firmware     string `yaml:"firmware_version"`

	Registry map[string]any `yaml:"registry"`

	TelemetryCapture *TelemetryCapture `yaml:"telemetry"`
}

// TelemetryCapture is the telemetry section of a capture.
type TelemetryCapture struct {
	Battery    *BatteryCapture `yaml:"battery"`
	Clock      ClockCapture    `yaml:"clock"`
	MemoryCard StorageCapture  `yaml:"memory_card"`
}

// BatteryCapture holds raw power controller readings.
type BatteryCapture struct {
	Percent         int  `yaml:"percent"`
	RemainingMAh    int  `yaml:"remaining_mah"`
	FullMAh         int  `yaml:"full_mah"`
	Charging        bool `yaml:"charging"`
	LifetimeMinutes int  `yaml:"lifetime_minutes"`
	TemperatureRaw  int  `yaml:"temperature_raw"`
	VoltageRaw      int  `yaml:"voltage_raw"`
	StateOfHealth   int  `yaml:"state_of_health"`
}

// ClockCapture holds clock frequencies in MHz.
type ClockCapture struct {
	ARMMHz int `yaml:"arm_mhz"`
	BusMHz int `yaml:"bus_mhz"`
}

// StorageCapture holds ux0: capacity in bytes.
type StorageCapture struct {
	FreeBytes uint64 `yaml:"free_bytes"`
	MaxBytes  uint64 `yaml:"max_bytes"`
}

// Compile-time check that Snapshot implements Prober.
var _ Prober = (*Snapshot)(nil)

// LoadSnapshot reads a capture file.
// A missing or unreadable file returns an error wrapping
// ErrResourceUnavailable; malformed YAML one wrapping ErrInvalidCapture.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the dump directory the user selected
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceUnavailable, path, err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes a capture from YAML.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCapture, err)
	}
	if s.Registry == nil {
		s.Registry = make(map[string]any)
	}
	return &s, nil
}

// IsRetail returns the CEX probe.
func (s *Snapshot) IsRetail() bool { return s.Retail }

// IsDev returns the DEX probe.
func (s *Snapshot) IsDev() bool { return s.Dev }

// IsTool returns the tool probe.
func (s *Snapshot) IsTool() bool { return s.Tool }

// IsIDU returns the IDU probe.
func (s *Snapshot) IsIDU() bool { return s.IDU }

// IsShowMode returns the show mode probe.
func (s *Snapshot) IsShowMode() bool { return s.ShowMode }

// DebugFlag reads the debug_mode registry key.
func (s *Snapshot) DebugFlag() (int, error) {
	return s.RegistryInt(registry.KeyDebugMode)
}

// ModelID returns the captured model id.
func (s *Snapshot) ModelID() int { return s.ModelIDValue }

// MACAddress parses the captured MAC address.
func (s *Snapshot) MACAddress() ([]byte, error) {
	if s.MAC == "" {
		return nil, failed("mac_address")
	}
	mac, err := ParseMAC(s.MAC)
	if err != nil {
		return nil, &ProbeError{Probe: "mac_address", Err: err}
	}
	return mac, nil
}

// ConsoleID parses the captured IDPS.
func (s *Snapshot) ConsoleID() ([]byte, error) {
	if s.IDPS == "" {
		return nil, failed("console_id")
	}
	id, err := ParseConsoleID(s.IDPS)
	if err != nil {
		return nil, &ProbeError{Probe: "console_id", Err: err}
	}
	return id, nil
}

// FirmwareVersion returns the captured kernel version string.
func (s *Snapshot) FirmwareVersion() (string, error) {
	if s.Firmware == "" {
		return "", failed("firmware_version")
	}
	return s.Firmware, nil
}

// RegistryInt returns the int value captured for key.
func (s *Snapshot) RegistryInt(key string) (int, error) {
	v, ok := s.Registry[key]
	if !ok {
		return registry.UnreadInt, failed(key)
	}
	n, ok := v.(int)
	if !ok {
		return registry.UnreadInt, &ProbeError{Probe: key, Err: fmt.Errorf("%w: %T is not an int", ErrInvalidCapture, v)}
	}
	return n, nil
}

// RegistryString returns the string value captured for key.
func (s *Snapshot) RegistryString(key string) (string, error) {
	v, ok := s.Registry[key]
	if !ok {
		return "", failed(key)
	}
	str, ok := v.(string)
	if !ok {
		return "", &ProbeError{Probe: key, Err: fmt.Errorf("%w: %T is not a string", ErrInvalidCapture, v)}
	}
	return str, nil
}

// Telemetry converts the captured telemetry section.
func (s *Snapshot) Telemetry() (model.Telemetry, error) {
	if s.TelemetryCapture == nil {
		return model.Telemetry{}, failed("telemetry")
	}
	tc := s.TelemetryCapture
	t := model.Telemetry{
		Clock: model.Clock{ARMMHz: tc.Clock.ARMMHz, BusMHz: tc.Clock.BusMHz},
		MemoryCard: model.Storage{
			FreeBytes: tc.MemoryCard.FreeBytes,
			MaxBytes:  tc.MemoryCard.MaxBytes,
		},
	}
	if b := tc.Battery; b != nil {
		t.Battery = &model.Battery{
			Percent:         b.Percent,
			RemainingMAh:    b.RemainingMAh,
			FullMAh:         b.FullMAh,
			Charging:        b.Charging,
			LifetimeMinutes: b.LifetimeMinutes,
			TemperatureRaw:  b.TemperatureRaw,
			VoltageRaw:      b.VoltageRaw,
			StateOfHealth:   b.StateOfHealth,
		}
	}
	return t, nil
}

// IsProbeError reports whether err came from a failed probe.
func IsProbeError(err error) bool {
	var pe *ProbeError
	return errors.As(err, &pe)
}
