package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/psvident/internal/model"
)

// JSONWriter outputs reports in JSON format for other tools.
// A single report is written as an object, a batch as an array.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report as a JSON object.
func (w *JSONWriter) Write(report *model.DeviceReport) (int, error) {
	return w.writeJSON(report)
}

// WriteAll outputs the reports as one JSON array.
func (w *JSONWriter) WriteAll(reports []*model.DeviceReport) (int, error) {
	if reports == nil {
		reports = []*model.DeviceReport{}
	}
	return w.writeJSON(reports)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Trailing newline so the prompt starts on its own line.
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps one report with the version of psvident that built it.
type JSONReport struct {
	// Version is the psvident version that generated this report.
	Version string `json:"version"`

	// Report is the device report.
	Report *model.DeviceReport `json:"report"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(report *model.DeviceReport, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Report:  report,
	}
}

// JSONBatchReport wraps the reports of a batch run.
type JSONBatchReport struct {
	Version string                `json:"version"`
	Count   int                   `json:"count"`
	Reports []*model.DeviceReport `json:"reports"`
}

// NewJSONBatchReport creates a JSONBatchReport wrapper.
func NewJSONBatchReport(reports []*model.DeviceReport, version string) *JSONBatchReport {
	if reports == nil {
		reports = []*model.DeviceReport{}
	}
	return &JSONBatchReport{
		Version: version,
		Count:   len(reports),
		Reports: reports,
	}
}

// FullJSONWriter outputs reports inside a metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	// version is the psvident version string.
	version string
}

// NewFullJSONWriter creates a writer for wrapped reports.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the report wrapped with metadata.
func (w *FullJSONWriter) Write(report *model.DeviceReport) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}

// WriteAll outputs the batch wrapped with metadata.
func (w *FullJSONWriter) WriteAll(reports []*model.DeviceReport) (int, error) {
	return w.writeJSON(NewJSONBatchReport(reports, w.version))
}
