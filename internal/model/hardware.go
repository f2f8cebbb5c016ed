package model

import (
	"encoding/json"
	"fmt"
)

// Model ids returned by the kernel model query.
const (
	// ModelIDVita is shared by the Vita Fat and the Vita Slim.
	ModelIDVita = 0x10000
	// ModelIDPSTV is the PlayStation TV.
	ModelIDPSTV = 0x20000
)

// ModelKind enumerates the hardware models psvident can tell apart.
type ModelKind int

const (
	// ModelUnknown is any model id without a known mapping.
	ModelUnknown ModelKind = iota
	// ModelVitaFat is the original PCH-1000 series.
	ModelVitaFat
	// ModelVitaSlim is the PCH-2000 series.
	ModelVitaSlim
	// ModelPSTV is the PlayStation TV (VTE-1000).
	ModelPSTV
)

// HardwareModel pairs the classified kind with the raw model id.
type HardwareModel struct {
	Kind ModelKind
	ID   int
}

// UnknownModel returns the model value used for unmapped ids.
func UnknownModel(id int) HardwareModel {
	return HardwareModel{Kind: ModelUnknown, ID: id}
}

// String returns the display name of the model.
func (m HardwareModel) String() string {
	switch m.Kind {
	case ModelVitaFat:
		return "Vita Fat"
	case ModelVitaSlim:
		return "Vita Slim"
	case ModelPSTV:
		return "PlayStation TV"
	default:
		return "Unknown model!?"
	}
}

// HexID returns the raw model id formatted as 0x%08X.
func (m HardwareModel) HexID() string {
	return fmt.Sprintf("0x%08X", m.ID)
}

// HasBattery reports whether the model runs on a battery.
// Unknown models are assumed to have one.
func (m HardwareModel) HasBattery() bool {
	return m.Kind != ModelPSTV
}

// kindID returns the identifier of the model kind used in JSON output.
func (m HardwareModel) kindID() string {
	switch m.Kind {
	case ModelVitaFat:
		return "vita_fat"
	case ModelVitaSlim:
		return "vita_slim"
	case ModelPSTV:
		return "pstv"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the model with its kind, display name and hex id.
func (m HardwareModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
		ID   string `json:"id"`
	}{
		Kind: m.kindID(),
		Name: m.String(),
		ID:   m.HexID(),
	})
}
