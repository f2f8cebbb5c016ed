package model

import "fmt"

// Telemetry holds hardware readings taken by the probe provider.
// psvident does not compute these values; it only formats them.
type Telemetry struct {
	// Battery is nil when the device has no battery (PlayStation TV).
	Battery *Battery `json:"battery,omitempty"`

	// Clock holds the processor clock frequencies.
	Clock Clock `json:"clock"`

	// MemoryCard holds the ux0: capacity.
	MemoryCard Storage `json:"memory_card"`
}

// Battery holds the raw readings of the power controller.
type Battery struct {
	Percent         int  `json:"percent"`
	RemainingMAh    int  `json:"remaining_mah"`
	FullMAh         int  `json:"full_mah"`
	Charging        bool `json:"charging"`
	LifetimeMinutes int  `json:"lifetime_minutes"`

	// TemperatureRaw is in hundredths of a degree Celsius.
	TemperatureRaw int `json:"temperature_raw"`

	// VoltageRaw is in millivolts.
	VoltageRaw int `json:"voltage_raw"`

	// StateOfHealth is a percentage.
	StateOfHealth int `json:"state_of_health"`
}

// Status returns "Charging" or "In use".
func (b Battery) Status() string {
	if b.Charging {
		return "Charging"
	}
	return "In use"
}

// Temperature returns the temperature in degrees Celsius with two decimals.
func (b Battery) Temperature() string {
	return fmt.Sprintf("%0.2f", float64(b.TemperatureRaw)/100.0)
}

// Voltage returns the voltage in volts with two decimals.
func (b Battery) Voltage() string {
	return fmt.Sprintf("%0.2f", float64(b.VoltageRaw)/1000.0)
}

// Clock holds processor frequencies in MHz.
type Clock struct {
	ARMMHz int `json:"arm_mhz"`
	BusMHz int `json:"bus_mhz"`
}

// Storage holds the capacity of a storage device in bytes.
type Storage struct {
	FreeBytes uint64 `json:"free_bytes"`
	MaxBytes  uint64 `json:"max_bytes"`
}

// sizeUnits are the binary unit suffixes used by FormatSize.
var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FormatSize formats a byte count using 1024-based units.
// Bytes are printed without decimals, larger units with two.
func FormatSize(size uint64) string {
	value := float64(size)
	i := 0
	for value >= 1024.0 && i < len(sizeUnits)-1 {
		value /= 1024.0
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%.0f %s", value, sizeUnits[i])
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnits[i])
}
