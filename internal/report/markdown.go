package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/psvident/internal/model"
)

// maxMessageLen limits diagnostic messages in the summary table.
const maxMessageLen = 80

// MarkdownWriter outputs reports in Markdown format for sharing, built with
// nao1215/markdown (tables, GitHub alerts, mermaid charts).
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.DeviceReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeAlert(md, report)
	w.writeConsole(md, report)
	w.writeBattery(md, report)
	w.writeSettings(md, report)
	w.writeAccount(md, report)
	w.writeDiagnostics(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteAll outputs each report as its own document, one after another.
func (w *MarkdownWriter) WriteAll(reports []*model.DeviceReport) (int, error) {
	return writeEach(reports, w.Write)
}

// writeHeader writes the title and the dump information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.DeviceReport) {
	md.H1("PSVident Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Dump", code(report.Source)},
			{"Report Date", report.DateGenerated.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.DeviceReport) string {
	if report.TimedOut {
		return "⚠️ Interrupted (partial results)"
	}
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeAlert writes one alert summarizing how trustworthy the result is.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.DeviceReport) {
	switch {
	case report.Mode == model.ModeError:
		md.Cautionf(
			"The manufacturing mode could not be determined. %d diagnostic(s) recorded.",
			len(report.Diagnostics),
		)
	case report.Mode == model.ModeTestOrDevUndetermined:
		md.Importantf(
			"The CEX and DEX probes both reported true and debug_mode is present. Mode reported as %s.",
			report.Mode.String(),
		)
	case report.HasDiagnostics():
		md.Warningf(
			"%d diagnostic(s) recorded. Some fields fall back to placeholder values.",
			len(report.Diagnostics),
		)
	default:
		md.Tip("All inputs were read without problems.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeConsole(md *markdown.Markdown, report *model.DeviceReport) {
	md.H2("Console")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Vita model", modelLine(report)},
			{"Kernel version", kernelVersion(report)},
			{"MAC address", code(report.MACAddress)},
			{"IDPS", code(report.ConsoleID)},
			{"MemoryCard", memoryCard(report)},
			{"ARM Clock frequency", clock(report.Telemetry.Clock.ARMMHz)},
			{"BUS Clock frequency", clock(report.Telemetry.Clock.BusMHz)},
			{"Fingerprint", code(report.Fingerprint)},
		},
	})
	md.PlainText("")
}

// writeBattery writes the battery table and a capacity chart.
// Models without a battery get no section.
func (w *MarkdownWriter) writeBattery(md *markdown.Markdown, report *model.DeviceReport) {
	if !report.HasBattery() {
		return
	}
	b := report.Telemetry.Battery

	md.H2("Battery")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Battery percentage", strconv.Itoa(b.Percent) + "%"},
			{"Battery capacity", strconv.Itoa(b.RemainingMAh) + "/" + strconv.Itoa(b.FullMAh) + " mAh"},
			{"Battery status", b.Status()},
			{"Battery lifetime", strconv.Itoa(b.LifetimeMinutes) + " minutes"},
			{"Battery temperature", b.Temperature() + " Celsius"},
			{"Battery voltage", b.Voltage() + " Volt"},
			{"State of Health", strconv.Itoa(b.StateOfHealth) + "%"},
		},
	})
	md.PlainText("")

	w.writeCapacityChart(md, b)
}

// writeCapacityChart writes a mermaid pie chart of remaining vs used charge.
// Nothing is written when the full capacity is unknown.
func (w *MarkdownWriter) writeCapacityChart(md *markdown.Markdown, b *model.Battery) {
	if b.FullMAh <= 0 || b.RemainingMAh < 0 {
		return
	}

	remaining := b.RemainingMAh
	if remaining > b.FullMAh {
		remaining = b.FullMAh
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Battery Capacity (mAh)"),
		piechart.WithShowData(true),
	)
	chart.LabelAndIntValue("Remaining", uint64(remaining))
	chart.LabelAndIntValue("Used", uint64(b.FullMAh-remaining))

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeSettings(md *markdown.Markdown, report *model.DeviceReport) {
	md.H2("Registry/Settings")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Key", "Value"},
		Rows: [][]string{
			{"button_assign", valueOr(report.Settings.ButtonAssign)},
			{"language", languageCell(report.Settings)},
			{"region_no", regionLine(report)},
			{"suspend_interval", suspendInterval(report)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeAccount(md *markdown.Markdown, report *model.DeviceReport) {
	md.H2("PSN Account")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"PSN Nickname", escapeCell(valueOr(report.Identity.Nickname()))},
			{"E-Mail", escapeCell(valueOr(report.Settings.AccountEmail))},
			{"PSID", code(report.Identity.PSID())},
			{"account_id", accountIDCell(report)},
			{"region", escapeCell(valueOr(report.Settings.AccountCountry))},
		},
	})
	md.PlainText("")

	if !report.Identity.IsEmpty() {
		md.Details("id.dat", "MID="+valueOr(report.Identity.ManufacturingID())+
			" DIG="+valueOr(report.Identity.Digest())+
			" SVR="+valueOr(report.Identity.FirmwareTag()))
		md.PlainText("")
	}
}

// writeDiagnostics writes the diagnostics table, or a note when clean.
func (w *MarkdownWriter) writeDiagnostics(md *markdown.Markdown, report *model.DeviceReport) {
	md.H2("Diagnostics")
	md.PlainText("")

	if !report.HasDiagnostics() {
		md.PlainText("No diagnostics recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Diagnostics))
	for i, d := range report.Diagnostics {
		rows[i] = []string{d.Source, d.Kind.String(), escapeCell(truncateString(d.Message, maxMessageLen))}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Source", "Kind", "Message"},
		Rows:   rows,
	})
	md.PlainText("")

	// Full messages for the ones cut in the table.
	for _, d := range report.Diagnostics {
		if len(d.Message) > maxMessageLen {
			md.Details(d.Source, d.Message)
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [psvident](https://github.com/nao1215/psvident)*")
}

// code wraps s in backticks, or returns the placeholder when s is empty.
func code(s string) string {
	if s == "" {
		return placeholder
	}
	return "`" + escapeCell(s) + "`"
}

// escapeCell escapes the column separator so s stays inside one table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// languageCell shows the language label with its BCP 47 tag.
func languageCell(s model.Settings) string {
	if s.Language == "" {
		return placeholder
	}
	if s.LanguageTag == "" || s.LanguageTag == "und" {
		return s.Language
	}
	return s.Language + " (`" + s.LanguageTag + "`)"
}

// accountIDCell formats the account id for a table cell.
func accountIDCell(report *model.DeviceReport) string {
	id := accountID(report)
	if id == placeholder || id == malformedPlaceholder {
		return id
	}
	return code(id)
}

// truncateString truncates a string to at most maxLen bytes with ellipsis,
// without splitting a multi-byte rune.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return model.TruncateBytes(s, maxLen)
	}
	return model.TruncateBytes(s, maxLen-3) + "..."
}
