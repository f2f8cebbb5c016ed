package config

import "errors"

// Configuration validation errors returned by Config.Validate and
// File.Apply. Callers match them with errors.Is.
var (
	// ErrNoTarget is returned when no dump directory is given.
	ErrNoTarget = errors.New("no target specified: provide a dump directory")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownSchema is returned for a registry schema version that is
	// not registered.
	ErrUnknownSchema = errors.New("unknown registry schema")

	// ErrUnknownTieBreak is returned for an unknown mode tie break name.
	ErrUnknownTieBreak = errors.New("unknown mode tie break")

	// ErrUnknownReportFormat is returned for a report.format value other
	// than text, json or markdown.
	ErrUnknownReportFormat = errors.New("unknown report format: must be text, json or markdown")

	// ErrEmptyFileName is returned when a dump file name is empty.
	ErrEmptyFileName = errors.New("empty dump file name")
)
