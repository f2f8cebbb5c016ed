package model

// DeviceMode is the manufacturing/build class of a console as reported by
// the mode classifier.
type DeviceMode int

const (
	// ModeError means none of the retail, dev or tool probes reported true.
	ModeError DeviceMode = iota
	// ModeRetail is a retail (CEX) unit.
	ModeRetail
	// ModeRetailIDU is a retail unit configured as an in-store demo unit.
	ModeRetailIDU
	// ModeDevKit is a test or development kit (DEX).
	ModeDevKit
	// ModeDevKitShowMode is a test or development kit in show mode.
	ModeDevKitShowMode
	// ModeTool is a factory tool unit.
	ModeTool
	// ModeTestOrDevUndetermined is reported when the CEX and DEX probes agree
	// and the debug_mode registry key exists.
	ModeTestOrDevUndetermined
)

// String returns the label shown to users.
func (m DeviceMode) String() string {
	switch m {
	case ModeRetail:
		return "CEX"
	case ModeRetailIDU:
		return "CEX (IDU)"
	case ModeDevKit:
		return "Test/Dev Kit"
	case ModeDevKitShowMode:
		return "Test/Dev Kit (Show Mode)"
	case ModeTool:
		return "Tool"
	case ModeTestOrDevUndetermined:
		return "Test/Dev Kit (undetermined)"
	default:
		return "error"
	}
}

// ID returns a stable identifier used in machine readable output.
func (m DeviceMode) ID() string {
	switch m {
	case ModeRetail:
		return "retail"
	case ModeRetailIDU:
		return "retail_idu"
	case ModeDevKit:
		return "devkit"
	case ModeDevKitShowMode:
		return "devkit_show_mode"
	case ModeTool:
		return "tool"
	case ModeTestOrDevUndetermined:
		return "test_or_dev_undetermined"
	default:
		return "error"
	}
}

// IsRetail reports whether m is one of the retail modes.
func (m DeviceMode) IsRetail() bool {
	return m == ModeRetail || m == ModeRetailIDU
}

// MarshalText encodes the mode as its stable identifier.
func (m DeviceMode) MarshalText() ([]byte, error) {
	return []byte(m.ID()), nil
}
