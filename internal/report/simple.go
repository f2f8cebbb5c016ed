package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/psvident/internal/model"
)

// ruleWidth is the width of the section rules.
const ruleWidth = 70

// SimpleWriter outputs plain text reports for the terminal.
// Section names and labels follow the PSVident on-device screen so output can
// be compared line by line with a photo of the console.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with nothing to show are printed.
	showEmpty bool

	// verbose adds the raw firmware string and the performed steps.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.DeviceReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeConsole(&sb, report)
	w.writeProcessors(&sb, report)
	w.writeBattery(&sb, report)
	w.writeSettings(&sb, report)
	w.writeAccount(&sb, report)
	w.writeIdentityFile(&sb, report)
	w.writeDiagnostics(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteAll outputs each report in turn.
func (w *SimpleWriter) WriteAll(reports []*model.DeviceReport) (int, error) {
	return writeEach(reports, w.Write)
}

// writeHeader writes the report title and the dump information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.DeviceReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                         PSVIDENT REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Dump:           %s\n", report.Source))
	sb.WriteString(fmt.Sprintf("Report Date:    %s\n", report.DateGenerated.Format("2006-01-02 15:04:05 MST")))

	switch {
	case report.TimedOut:
		sb.WriteString("Status:         INTERRUPTED (partial results)\n")
	case report.ErrorMessage != "":
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", report.ErrorMessage))
	default:
		sb.WriteString("Status:         Complete\n")
	}

	if w.verbose {
		sb.WriteString(fmt.Sprintf("Steps:          %s\n", strings.Join(report.PerformedSteps, ", ")))
	}

	sb.WriteString("\n")
}

// writeSection writes a section title between two rules.
func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// writeField writes one "* label: value" line with aligned values.
func writeField(sb *strings.Builder, label, value string) {
	sb.WriteString(fmt.Sprintf("  * %-22s%s\n", label+":", value))
}

func (w *SimpleWriter) writeConsole(sb *strings.Builder, report *model.DeviceReport) {
	writeSection(sb, "CONSOLE")

	writeField(sb, "Vita model", modelLine(report))
	writeField(sb, "Kernel version", kernelVersion(report))
	if w.verbose {
		writeField(sb, "Raw kernel version", valueOr(report.FirmwareRaw))
	}
	writeField(sb, "MAC address", valueOr(report.MACAddress))
	writeField(sb, "IDPS", valueOr(report.ConsoleID))
	writeField(sb, "MemoryCard", memoryCard(report))
	writeField(sb, "Fingerprint", valueOr(report.Fingerprint))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeProcessors(sb *strings.Builder, report *model.DeviceReport) {
	writeSection(sb, "PROCESSOR(S)")

	writeField(sb, "ARM Clock frequency", clock(report.Telemetry.Clock.ARMMHz))
	writeField(sb, "BUS Clock frequency", clock(report.Telemetry.Clock.BusMHz))
	sb.WriteString("\n")
}

// writeBattery writes the battery section. PlayStation TV units have no
// battery, and the section is skipped for them.
func (w *SimpleWriter) writeBattery(sb *strings.Builder, report *model.DeviceReport) {
	if !report.HasBattery() {
		if w.showEmpty {
			writeSection(sb, "BATTERY")
			sb.WriteString("  No battery\n\n")
		}
		return
	}

	b := report.Telemetry.Battery
	writeSection(sb, "BATTERY")

	writeField(sb, "Battery percentage", strconv.Itoa(b.Percent)+"%")
	writeField(sb, "Battery capacity", fmt.Sprintf("%d/%d mAh", b.RemainingMAh, b.FullMAh))
	writeField(sb, "Battery status", b.Status())
	writeField(sb, "Battery lifetime", fmt.Sprintf("%d minutes", b.LifetimeMinutes))
	writeField(sb, "Battery temperature", b.Temperature()+" Celsius")
	writeField(sb, "Battery voltage", b.Voltage()+" Volt")
	writeField(sb, "State of Health", strconv.Itoa(b.StateOfHealth)+"%")
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSettings(sb *strings.Builder, report *model.DeviceReport) {
	writeSection(sb, "REGISTRY/SETTINGS")

	writeField(sb, "button_assign", valueOr(report.Settings.ButtonAssign))
	writeField(sb, "language", valueOr(report.Settings.Language))
	writeField(sb, "region_no", regionLine(report))
	writeField(sb, "suspend_interval", suspendInterval(report))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeAccount(sb *strings.Builder, report *model.DeviceReport) {
	writeSection(sb, "PSN ACCOUNT")

	writeField(sb, "PSN Nickname", valueOr(report.Identity.Nickname()))
	writeField(sb, "E-Mail", valueOr(report.Settings.AccountEmail))
	writeField(sb, "PSID", valueOr(report.Identity.PSID()))
	writeField(sb, "account_id", accountID(report))
	writeField(sb, "region", valueOr(report.Settings.AccountCountry))
	sb.WriteString("\n")
}

// writeIdentityFile writes the id.dat fields not shown elsewhere.
func (w *SimpleWriter) writeIdentityFile(sb *strings.Builder, report *model.DeviceReport) {
	if report.Identity.IsEmpty() && !w.showEmpty {
		return
	}

	writeSection(sb, "ID.DAT")

	writeField(sb, "MID", valueOr(report.Identity.ManufacturingID()))
	writeField(sb, "DIG", valueOr(report.Identity.Digest()))
	writeField(sb, "SVR", valueOr(report.Identity.FirmwareTag()))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeDiagnostics(sb *strings.Builder, report *model.DeviceReport) {
	if !report.HasDiagnostics() && !w.showEmpty {
		return
	}

	writeSection(sb, "DIAGNOSTICS")

	if !report.HasDiagnostics() {
		sb.WriteString("  No diagnostics\n\n")
		return
	}

	for _, d := range report.Diagnostics {
		sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", d.Kind, d.Source, d.Message))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by psvident\n")
	sb.WriteString("https://github.com/nao1215/psvident\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}
