package probe

import "github.com/nao1215/psvident/internal/model"

// Capabilities are the boolean manufacturing probes.
// A kernel that cannot answer reports false.
type Capabilities interface {
	IsRetail() bool
	IsDev() bool
	IsTool() bool
	IsIDU() bool
	IsShowMode() bool
}

// Prober supplies every reading a device report needs.
type Prober interface {
	Capabilities

	// DebugFlag reads /CONFIG/SYSTEM/debug_mode. The key only exists on
	// test and development registries, so an error is expected on retail
	// units.
	DebugFlag() (int, error)

	// ModelID returns the kernel model id, 0 when unknown.
	ModelID() int

	// MACAddress returns the primary network interface address.
	MACAddress() ([]byte, error)

	// ConsoleID returns the 16 byte IDPS.
	ConsoleID() ([]byte, error)

	// FirmwareVersion returns the raw kernel version string.
	FirmwareVersion() (string, error)

	// RegistryInt reads an int registry key given as "/DIR/name".
	RegistryInt(key string) (int, error)

	// RegistryString reads a string registry key given as "/DIR/name".
	RegistryString(key string) (string, error)

	// Telemetry returns battery, clock and memory card readings.
	Telemetry() (model.Telemetry, error)
}
