package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/psvident/internal/classify"
	"github.com/nao1215/psvident/internal/config"
	pslog "github.com/nao1215/psvident/internal/log"
	"github.com/nao1215/psvident/internal/model"
	"github.com/nao1215/psvident/internal/pipeline"
	"github.com/nao1215/psvident/internal/registry"
	"github.com/nao1215/psvident/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [dump-dir...]",
		Short: "Identify the console of one or more dump directories",
		Long: `Report reads a PSVident dump and prints what it tells about the console:
- Vita model (Fat, Slim, PlayStation TV) and firmware version
- Region and manufacturing mode (CEX, Test/Dev Kit, Tool)
- MAC address, IDPS and PSID
- Battery, clock and memory card readings
- Registry settings and the PSN account

Each dump directory must contain id.dat, system.dreg and probes.yaml (the
names can be changed with flags or the configuration file). The current
directory is used when no directory is given.

Examples:
  # Report on the dump in the current directory
  psvident report

  # Report on several dumps, two at a time, as JSON
  psvident report -b 2 --json dumps/vita1 dumps/vita2

  # Write a Markdown report to a file
  psvident report -m -o reports/vita.md dumps/vita1

  # Match id.dat keys only at the start of a token
  psvident report --strict-keys dumps/vita1`,
		Args: cobra.ArbitraryArgs,
		RunE: runReportCmd,
	}

	// Dump layout flags
	cmd.Flags().String("id-file", config.DefaultIDFile,
		"Identity file name inside each dump directory")
	cmd.Flags().String("registry-file", config.DefaultRegistryFile,
		"Registry blob name inside each dump directory")
	cmd.Flags().String("probe-file", config.DefaultProbeFile,
		"Probe capture name inside each dump directory")

	// Classification flags
	cmd.Flags().String("registry-schema", config.DefaultRegistrySchema,
		"Registry layout version used to locate region_no")
	cmd.Flags().Bool("strict-keys", false,
		"Match id.dat keys only at the start of a token")
	cmd.Flags().String("tie-break", config.DefaultTieBreak,
		"Which probe combinations count as spoofed: both_set or agree")
	cmd.Flags().Bool("show-account", true,
		"Decode the account id and read the PSN account settings")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of dumps processed at once")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .psvident in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runReport(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file and
// the flags, in that order. Only flags the user set override the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named file must exist; a missing default file is fine.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	stringFlags := map[string]*string{
		"id-file":         &cfg.IDFile,
		"registry-file":   &cfg.RegistryFile,
		"probe-file":      &cfg.ProbeFile,
		"registry-schema": &cfg.RegistrySchema,
		"tie-break":       &cfg.TieBreak,
		"output":          &cfg.ReportFile,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}

	boolFlags := map[string]*bool{
		"strict-keys":  &cfg.StrictKeys,
		"show-account": &cfg.ShowAccount,
		"json":         &cfg.JSONReport,
		"markdown":     &cfg.MarkdownReport,
	}
	for name, dst := range boolFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetBool(name); err != nil {
			return nil, err
		}
	}

	// A format flag replaces the format of the file instead of conflicting
	// with it.
	if flags.Changed("json") && !flags.Changed("markdown") && cfg.JSONReport {
		cfg.MarkdownReport = false
	}
	if flags.Changed("markdown") && !flags.Changed("json") && cfg.MarkdownReport {
		cfg.JSONReport = false
	}

	if flags.Changed("batch") {
		if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	cfg.Targets = args
	if len(cfg.Targets) == 0 {
		cfg.Targets = []string{"."}
	}

	return cfg, nil
}

// setupLogger creates the logger for a run. Identifiers are masked.
func setupLogger(verbose bool) *slog.Logger {
	return pslog.NewSecureLogger(os.Stderr, verbose)
}

// runReport builds a report for every target and writes them.
// Interrupted runs still write the reports finished before the signal.
func runReport(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	schema, err := cfg.Schema()
	if err != nil {
		return err
	}
	tieBreak, err := cfg.ModeTieBreak()
	if err != nil {
		return err
	}

	logger.Info("starting report",
		"targets", len(cfg.Targets),
		"batch", cfg.BatchSize,
		"schema", schema.Version,
		"tie_break", tieBreak.String(),
	)
	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func(dir string) *pipeline.Pipeline {
			return createPipeline(dir, cfg, schema, tieBreak, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	reports, batchErr := bp.ProcessBatch(ctx, cfg.Targets)
	reports = finishedReports(reports)

	logger.Info("report complete",
		"reports", len(reports),
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if err := outputReports(cfg, reports, stdout); err != nil {
		return err
	}

	if batchErr != nil {
		return fmt.Errorf("report interrupted: %w", batchErr)
	}
	return nil
}

// createPipeline creates the pipeline for one dump directory.
func createPipeline(dir string, cfg *config.Config, schema registry.Schema, tieBreak classify.TieBreak, logger *slog.Logger) *pipeline.Pipeline {
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineLayout(pipeline.Layout{
			IDFile:       cfg.IDFile,
			RegistryFile: cfg.RegistryFile,
			ProbeFile:    cfg.ProbeFile,
		}),
		pipeline.WithPipelineMatchMode(cfg.MatchMode()),
		pipeline.WithPipelineSchema(schema),
		pipeline.WithPipelineTieBreak(tieBreak),
		pipeline.WithPipelineShowAccount(cfg.ShowAccount),
	}

	return pipeline.DefaultPipeline(dir, pipelineOpts, configOpts...)
}

// finishedReports drops the nil entries left by dumps skipped on cancel.
func finishedReports(reports []*model.DeviceReport) []*model.DeviceReport {
	out := make([]*model.DeviceReport, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// newWriter returns the report writer for the configured format.
func newWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// outputReports writes the reports in the requested format to the report
// file, or to stdout when none is set. A single report is written on its
// own; several are written as a batch.
func outputReports(cfg *config.Config, reports []*model.DeviceReport, stdout io.Writer) (err error) {
	if len(reports) == 0 {
		return nil
	}

	output := stdout
	if cfg.ReportFile != "" {
		f, ferr := createReportFile(cfg.ReportFile)
		if ferr != nil {
			return ferr
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()
		output = f
	}

	w := newWriter(cfg, output)
	if len(reports) == 1 {
		_, err = w.Write(reports[0])
	} else {
		_, err = w.WriteAll(reports)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// createReportFile creates or truncates path and its parent directories.
// Reports carry device identifiers, so the file is readable only by its
// owner.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // path is the user's --output
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
