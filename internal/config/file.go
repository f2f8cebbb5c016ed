package config

import "fmt"

// Report formats accepted by report.format.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// File represents the structure of the .psvident configuration file.
// Pointer fields distinguish "not set" from the zero value.
type File struct {
	// IDFile overrides the identity file name.
	IDFile string `yaml:"id_file,omitempty"`

	// RegistryFile overrides the registry blob name.
	RegistryFile string `yaml:"registry_file,omitempty"`

	// ProbeFile overrides the probe capture name.
	ProbeFile string `yaml:"probe_file,omitempty"`

	// RegistrySchema selects the registry layout version.
	RegistrySchema string `yaml:"registry_schema,omitempty"`

	// StrictKeys enables prefix matching of id.dat keys.
	StrictKeys *bool `yaml:"strict_keys,omitempty"`

	// TieBreak selects the mode tie break.
	TieBreak string `yaml:"tie_break,omitempty"`

	// Batch is the number of dumps processed at once.
	Batch int `yaml:"batch,omitempty"`

	// Report holds output settings.
	Report ReportSection `yaml:"report,omitempty"`
}

// ReportSection is the report block of the configuration file.
type ReportSection struct {
	// Format is text, json or markdown.
	Format string `yaml:"format,omitempty"`

	// Output is the report file path.
	Output string `yaml:"output,omitempty"`

	// ShowAccount enables account data in reports.
	ShowAccount *bool `yaml:"show_account,omitempty"`
}

// Apply copies every value set in the file onto c.
func (f *File) Apply(c *Config) error {
	if f.IDFile != "" {
		c.IDFile = f.IDFile
	}
	if f.RegistryFile != "" {
		c.RegistryFile = f.RegistryFile
	}
	if f.ProbeFile != "" {
		c.ProbeFile = f.ProbeFile
	}
	if f.RegistrySchema != "" {
		c.RegistrySchema = f.RegistrySchema
	}
	if f.StrictKeys != nil {
		c.StrictKeys = *f.StrictKeys
	}
	if f.TieBreak != "" {
		c.TieBreak = f.TieBreak
	}
	if f.Batch != 0 {
		c.BatchSize = f.Batch
	}
	if f.Report.Output != "" {
		c.ReportFile = f.Report.Output
	}
	if f.Report.ShowAccount != nil {
		c.ShowAccount = *f.Report.ShowAccount
	}

	switch f.Report.Format {
	case "":
	case FormatText:
		c.JSONReport, c.MarkdownReport = false, false
	case FormatJSON:
		c.JSONReport, c.MarkdownReport = true, false
	case FormatMarkdown:
		c.JSONReport, c.MarkdownReport = false, true
	default:
		return fmt.Errorf("%w: %q", ErrUnknownReportFormat, f.Report.Format)
	}
	return nil
}
