package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/psvident/internal/classify"
	"github.com/nao1215/psvident/internal/identity"
	"github.com/nao1215/psvident/internal/registry"
)

// Default configuration values.
const (
	// DefaultIDFile is the identity file name inside a dump directory.
	DefaultIDFile = "id.dat"

	// DefaultRegistryFile is the registry blob name inside a dump directory.
	DefaultRegistryFile = "system.dreg"

	// DefaultProbeFile is the probe capture name inside a dump directory.
	DefaultProbeFile = "probes.yaml"

	// DefaultRegistrySchema is the registry layout used by firmware 3.60.
	DefaultRegistrySchema = registry.DefaultSchemaVersion

	// DefaultTieBreak treats only Retail && Dev as spoofed.
	DefaultTieBreak = "both_set"

	// DefaultBatchSize processes one dump at a time.
	DefaultBatchSize = 1

	// AppName is the application name used for XDG directory paths.
	AppName = "psvident"
)

// Config holds all options of a psvident run.
// It is built from flags and the configuration file and passed down
// explicitly; there is no global configuration.
type Config struct {
	// IDFile is the name of the identity file inside each dump directory.
	IDFile string

	// RegistryFile is the name of the registry blob inside each dump.
	RegistryFile string

	// ProbeFile is the name of the probe capture inside each dump.
	ProbeFile string

	// RegistrySchema is the version of the registry layout, see
	// registry.LookupSchema.
	RegistrySchema string

	// StrictKeys matches id.dat keys by prefix instead of by substring.
	StrictKeys bool

	// TieBreak names the mode tie break, "both_set" or "agree".
	TieBreak string

	// ShowAccount decodes the account id and reads the PSN account keys.
	ShowAccount bool

	// Verbose enables debug logging.
	Verbose bool

	// BatchSize is the number of dumps processed at once.
	BatchSize int

	// ConfigFilePath is the explicit configuration file, if any.
	ConfigFilePath string

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output.
	MarkdownReport bool

	// ReportFile is the output file. Empty means stdout.
	ReportFile string

	// Targets are the dump directories to examine.
	Targets []string
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		IDFile:         DefaultIDFile,
		RegistryFile:   DefaultRegistryFile,
		ProbeFile:      DefaultProbeFile,
		RegistrySchema: DefaultRegistrySchema,
		TieBreak:       DefaultTieBreak,
		ShowAccount:    true,
		BatchSize:      DefaultBatchSize,
	}
}

// XDGConfigDir returns the XDG config directory for psvident.
// On Linux: ~/.config/psvident
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the configuration file inside XDGConfigDir.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), "config.yaml")
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.IDFile == "" || c.RegistryFile == "" || c.ProbeFile == "" {
		return ErrEmptyFileName
	}

	if _, err := c.Schema(); err != nil {
		return err
	}

	if _, err := c.ModeTieBreak(); err != nil {
		return err
	}

	return nil
}

// Schema returns the registry schema named by RegistrySchema.
func (c *Config) Schema() (registry.Schema, error) {
	s, err := registry.LookupSchema(c.RegistrySchema)
	if err != nil {
		return registry.Schema{}, fmt.Errorf("%w: %q", ErrUnknownSchema, c.RegistrySchema)
	}
	return s, nil
}

// ModeTieBreak returns the tie break named by TieBreak.
func (c *Config) ModeTieBreak() (classify.TieBreak, error) {
	tb, err := classify.ParseTieBreak(c.TieBreak)
	if err != nil {
		return tb, fmt.Errorf("%w: %q", ErrUnknownTieBreak, c.TieBreak)
	}
	return tb, nil
}

// MatchMode returns the id.dat key matching mode.
func (c *Config) MatchMode() identity.MatchMode {
	if c.StrictKeys {
		return identity.MatchPrefix
	}
	return identity.MatchContains
}
