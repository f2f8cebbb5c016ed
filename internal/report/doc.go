// Package report renders device reports.
//
// Three writers share the Writer interface:
//   - SimpleWriter: plain text laid out like the on-device PSVident screen
//   - JSONWriter and FullJSONWriter: structured output for other tools
//   - MarkdownWriter: tables, alerts and a battery chart for sharing
//
// Writers only read the report. Which account fields are present is decided
// when the report is built, not here.
package report
