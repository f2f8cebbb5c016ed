package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/psvident/internal/model"
)

// placeholder is printed for values that could not be read.
const placeholder = "-"

// malformedPlaceholder is printed for an account token that failed to decode.
const malformedPlaceholder = "(malformed)"

// Writer renders device reports to a destination.
type Writer interface {
	// Write renders a single report.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.DeviceReport) (int, error)

	// WriteAll renders the reports of a batch run in order.
	WriteAll(reports []*model.DeviceReport) (int, error)
}

// MultiWriter writes each report to several Writers, for example the
// terminal and a file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Stops on the first error.
func (m *MultiWriter) Write(report *model.DeviceReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteAll outputs the batch to all configured Writers.
func (m *MultiWriter) WriteAll(reports []*model.DeviceReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteAll(reports)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// writeEach calls write for every report and sums the byte counts.
func writeEach(reports []*model.DeviceReport, write func(*model.DeviceReport) (int, error)) (int, error) {
	var total int
	for _, r := range reports {
		n, err := write(r)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// valueOr returns s, or the placeholder when s is empty.
func valueOr(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// accountID returns the decoded account id as it should be displayed.
func accountID(r *model.DeviceReport) string {
	if r.AccountID != "" {
		return r.AccountID
	}
	if len(r.DiagnosticsByKind(model.DiagnosticMalformedToken)) > 0 {
		return malformedPlaceholder
	}
	return placeholder
}

// kernelVersion combines the normalized firmware string with the mode label
// the way the console shows it, e.g. "3.60 HENkaku-03 CEX".
func kernelVersion(r *model.DeviceReport) string {
	return strings.TrimSpace(r.Firmware + " " + r.Mode.String())
}

// modelLine returns the model name followed by the raw id.
func modelLine(r *model.DeviceReport) string {
	return fmt.Sprintf("%s (%s)", r.Model.String(), r.Model.HexID())
}

// regionLine returns the region label with its numeric code.
func regionLine(r *model.DeviceReport) string {
	if !r.Region.IsKnown() {
		return r.Region.String()
	}
	return fmt.Sprintf("%s (%s)", r.Region.String(), r.Region.Code())
}

// suspendInterval formats the suspend interval, which is negative when the
// registry key could not be read.
func suspendInterval(r *model.DeviceReport) string {
	if r.Settings.SuspendIntervalSeconds < 0 {
		return placeholder
	}
	return fmt.Sprintf("%d seconds", r.Settings.SuspendIntervalSeconds)
}

// memoryCard formats the ux0: capacity as "free / max".
func memoryCard(r *model.DeviceReport) string {
	mc := r.Telemetry.MemoryCard
	if mc.MaxBytes == 0 {
		return placeholder
	}
	return fmt.Sprintf("%s / %s", model.FormatSize(mc.FreeBytes), model.FormatSize(mc.MaxBytes))
}

// clock formats a frequency, which is zero when it was not captured.
func clock(mhz int) string {
	if mhz <= 0 {
		return placeholder
	}
	return fmt.Sprintf("%d MHz", mhz)
}
