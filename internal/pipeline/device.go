package pipeline

import (
	"path/filepath"

	"github.com/nao1215/psvident/internal/probe"
)

// Default file names inside a dump directory.
const (
	DefaultIDFile       = "id.dat"
	DefaultRegistryFile = "system.dreg"
	DefaultProbeFile    = probe.DefaultCaptureFile
)

// Layout names the input files of a dump directory.
// Absolute names are used as is.
type Layout struct {
	IDFile       string
	RegistryFile string
	ProbeFile    string
}

// DefaultLayout returns the layout written by PSVident dumps.
func DefaultLayout() Layout {
	return Layout{
		IDFile:       DefaultIDFile,
		RegistryFile: DefaultRegistryFile,
		ProbeFile:    DefaultProbeFile,
	}
}

// Device is the input shared by the steps of one pipeline.
type Device struct {
	// Dir is the dump directory.
	Dir string

	// Layout names the files inside Dir.
	Layout Layout

	// Prober supplies kernel and registry readings. CaptureStep loads it
	// from the capture file when it is nil.
	Prober probe.Prober
}

// NewDevice returns a device for the dump directory dir.
func NewDevice(dir string, layout Layout) *Device {
	return &Device{Dir: dir, Layout: layout}
}

// Path resolves a layout file name against the dump directory.
func (d *Device) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// probes returns the prober, or a capture in which every probe fails.
func (d *Device) probes() probe.Prober {
	if d.Prober == nil {
		return &probe.Snapshot{}
	}
	return d.Prober
}
