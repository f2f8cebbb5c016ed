package pipeline

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/nao1215/psvident/internal/classify"
	"github.com/nao1215/psvident/internal/identity"
	"github.com/nao1215/psvident/internal/model"
	"github.com/nao1215/psvident/internal/probe"
	"github.com/nao1215/psvident/internal/registry"
)

// Step names, in default pipeline order.
const (
	StepCapture     = "capture"
	StepIdentity    = "identity"
	StepRegion      = "region"
	StepMode        = "mode"
	StepModel       = "model"
	StepFirmware    = "firmware"
	StepSettings    = "settings"
	StepTelemetry   = "telemetry"
	StepFingerprint = "fingerprint"
)

// CaptureStep loads the probe capture of the device.
// A missing or malformed capture leaves a prober whose probes all fail, so
// the remaining steps still run and report Unknown values.
type CaptureStep struct {
	device *Device
	logger *slog.Logger
}

// NewCaptureStep creates a capture step for device.
func NewCaptureStep(device *Device, logger *slog.Logger) *CaptureStep {
	return &CaptureStep{device: device, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *CaptureStep) Name() string { return StepCapture }

// Do loads the capture unless a prober was supplied.
func (s *CaptureStep) Do(_ context.Context, report *model.DeviceReport) error {
	if s.device.Prober != nil {
		return nil
	}

	path := s.device.Path(s.device.Layout.ProbeFile)
	snap, err := probe.LoadSnapshot(path)
	if err != nil {
		kind := model.DiagnosticResourceUnavailable
		if errors.Is(err, probe.ErrInvalidCapture) {
			kind = model.DiagnosticProbeError
		}
		s.logger.Warn("probe capture unavailable", "path", path, "error", err)
		report.AddDiagnostic(StepCapture, kind, err)
		s.device.Prober = &probe.Snapshot{}
		return nil
	}

	s.device.Prober = snap
	return nil
}

// IdentityStep parses id.dat and decodes the account token.
type IdentityStep struct {
	device      *Device
	parser      *identity.Parser
	showAccount bool
	logger      *slog.Logger
}

// NewIdentityStep creates an identity step.
// When showAccount is false the account token and nickname are dropped
// from the record and nothing is decoded.
func NewIdentityStep(device *Device, parser *identity.Parser, showAccount bool, logger *slog.Logger) *IdentityStep {
	if parser == nil {
		parser = identity.NewParser()
	}
	return &IdentityStep{
		device:      device,
		parser:      parser,
		showAccount: showAccount,
		logger:      orDefault(logger),
	}
}

// Name returns the step name.
func (s *IdentityStep) Name() string { return StepIdentity }

// Do parses the identity file. Malformed tokens become parse warnings.
func (s *IdentityStep) Do(_ context.Context, report *model.DeviceReport) error {
	path := s.device.Path(s.device.Layout.IDFile)
	rec, warnings, err := s.parser.ParseFile(path)
	for _, w := range warnings {
		// The token may hold an identifier, only the line is logged.
		s.logger.Warn("skipped identity token", "path", path, "line", w.Line, "error", w.Err)
		report.AddDiagnostic(StepIdentity, model.DiagnosticParseWarning, w)
	}
	if !s.showAccount {
		// The stored token decodes straight to the account id.
		rec.Set(model.FieldAccountToken, "")
		rec.Set(model.FieldNickname, "")
	}
	report.Identity = rec
	if err != nil {
		s.logger.Warn("identity file unavailable", "path", path, "error", err)
		report.AddDiagnostic(StepIdentity, model.DiagnosticResourceUnavailable, err)
		return nil
	}

	if !s.showAccount || !rec.IsSet(model.FieldAccountToken) {
		return nil
	}
	accountID, err := identity.Deobfuscate(rec.AccountToken())
	if err != nil {
		report.AddDiagnostic(StepIdentity, model.DiagnosticMalformedToken, err)
		return nil
	}
	report.AccountID = accountID
	return nil
}

// RegionStep decodes the region byte of system.dreg.
type RegionStep struct {
	device *Device
	schema registry.Schema
	logger *slog.Logger
}

// NewRegionStep creates a region step using schema.
func NewRegionStep(device *Device, schema registry.Schema, logger *slog.Logger) *RegionStep {
	return &RegionStep{device: device, schema: schema, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *RegionStep) Name() string { return StepRegion }

// Do reads the region. Failures leave the region Unknown.
func (s *RegionStep) Do(_ context.Context, report *model.DeviceReport) error {
	path := s.device.Path(s.device.Layout.RegistryFile)
	region, err := registry.ReadRegion(path, s.schema)
	report.Region = region
	if err != nil {
		s.logger.Warn("region unavailable", "path", path, "error", err)
		report.AddDiagnostic(StepRegion, model.DiagnosticResourceUnavailable, err)
	}
	return nil
}

// ModeStep classifies the manufacturing mode from the capability probes.
type ModeStep struct {
	device   *Device
	tieBreak classify.TieBreak
	logger   *slog.Logger
}

// NewModeStep creates a mode step.
func NewModeStep(device *Device, tieBreak classify.TieBreak, logger *slog.Logger) *ModeStep {
	return &ModeStep{device: device, tieBreak: tieBreak, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ModeStep) Name() string { return StepMode }

// Do classifies the mode. A failed debug_mode lookup is a normal answer on
// retail units and is only logged.
func (s *ModeStep) Do(_ context.Context, report *model.DeviceReport) error {
	p := s.device.probes()
	signals := classify.Signals{
		Retail:   p.IsRetail(),
		Dev:      p.IsDev(),
		Tool:     p.IsTool(),
		IDU:      p.IsIDU(),
		ShowMode: p.IsShowMode(),
	}
	debug := func() (int, error) {
		v, err := p.DebugFlag()
		if err != nil {
			s.logger.Debug("debug_mode lookup failed", "error", err)
		}
		return v, err
	}

	report.Mode = s.tieBreak.ClassifyMode(signals, debug)
	s.logger.Debug("classified mode", "dump", report.Source, "mode", report.Mode.ID())
	return nil
}

// ModelStep reads the hardware identifiers and classifies the model.
type ModelStep struct {
	device *Device
	logger *slog.Logger
}

// NewModelStep creates a model step.
func NewModelStep(device *Device, logger *slog.Logger) *ModelStep {
	return &ModelStep{device: device, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ModelStep) Name() string { return StepModel }

// Do fills the MAC address, console id and model.
func (s *ModelStep) Do(_ context.Context, report *model.DeviceReport) error {
	p := s.device.probes()

	if mac, err := p.MACAddress(); err != nil {
		report.AddDiagnostic(StepModel, model.DiagnosticProbeError, err)
	} else {
		report.MACAddress = probe.FormatMAC(mac)
	}

	if id, err := p.ConsoleID(); err != nil {
		report.AddDiagnostic(StepModel, model.DiagnosticProbeError, err)
	} else {
		report.ConsoleID = probe.FormatConsoleID(id)
	}

	report.Model = classify.ClassifyModel(p.ModelID(), report.MACAddress)
	return nil
}

// FirmwareStep reads and normalizes the kernel version string.
type FirmwareStep struct {
	device *Device
	logger *slog.Logger
}

// NewFirmwareStep creates a firmware step.
func NewFirmwareStep(device *Device, logger *slog.Logger) *FirmwareStep {
	return &FirmwareStep{device: device, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *FirmwareStep) Name() string { return StepFirmware }

// Do fills the raw and normalized firmware version.
func (s *FirmwareStep) Do(_ context.Context, report *model.DeviceReport) error {
	raw, err := s.device.probes().FirmwareVersion()
	if err != nil {
		report.AddDiagnostic(StepFirmware, model.DiagnosticProbeError, err)
		return nil
	}
	report.FirmwareRaw = raw
	report.Firmware = classify.NormalizeVersion(raw)
	if classify.IsHENkaku(raw) {
		s.logger.Debug("normalized HENkaku version", "raw", raw, "normalized", report.Firmware)
	}
	return nil
}

// SettingsStep reads the system and account registry keys.
type SettingsStep struct {
	device      *Device
	showAccount bool
	logger      *slog.Logger
}

// NewSettingsStep creates a settings step.
// When showAccount is false the /CONFIG/NP keys are not read.
func NewSettingsStep(device *Device, showAccount bool, logger *slog.Logger) *SettingsStep {
	return &SettingsStep{device: device, showAccount: showAccount, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *SettingsStep) Name() string { return StepSettings }

// Do fills the settings. Unreadable int keys keep the -1 placeholder.
func (s *SettingsStep) Do(_ context.Context, report *model.DeviceReport) error {
	p := s.device.probes()
	readInt := func(key string) int {
		v, err := p.RegistryInt(key)
		if err != nil {
			report.AddDiagnostic(StepSettings, model.DiagnosticProbeError, err)
			return registry.UnreadInt
		}
		return v
	}
	readString := func(key string) string {
		v, err := p.RegistryString(key)
		if err != nil {
			report.AddDiagnostic(StepSettings, model.DiagnosticProbeError, err)
			return ""
		}
		return v
	}

	report.Settings.ButtonAssign = registry.ButtonAssign(readInt(registry.KeyButtonAssign))
	lang := registry.Language(readInt(registry.KeyLanguage))
	report.Settings.Language = lang.Label
	report.Settings.LanguageTag = lang.Tag.String()
	report.Settings.SuspendIntervalSeconds = readInt(registry.KeySuspendInterval)

	if s.showAccount {
		report.Settings.AccountEmail = readString(registry.KeyLoginID)
		report.Settings.AccountCountry = readString(registry.KeyCountry)
	}
	return nil
}

// TelemetryStep copies the telemetry readings into the report.
type TelemetryStep struct {
	device *Device
	logger *slog.Logger
}

// NewTelemetryStep creates a telemetry step.
func NewTelemetryStep(device *Device, logger *slog.Logger) *TelemetryStep {
	return &TelemetryStep{device: device, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *TelemetryStep) Name() string { return StepTelemetry }

// Do fills the telemetry. Battery readings of models without a battery are
// dropped.
func (s *TelemetryStep) Do(_ context.Context, report *model.DeviceReport) error {
	t, err := s.device.probes().Telemetry()
	if err != nil {
		report.AddDiagnostic(StepTelemetry, model.DiagnosticProbeError, err)
		return nil
	}
	if !report.Model.HasBattery() {
		t.Battery = nil
	}
	report.Telemetry = t
	return nil
}

// FingerprintStep hashes the device identifiers.
type FingerprintStep struct{}

// NewFingerprintStep creates a fingerprint step.
func NewFingerprintStep() *FingerprintStep {
	return &FingerprintStep{}
}

// Name returns the step name.
func (s *FingerprintStep) Name() string { return StepFingerprint }

// Do sets the fingerprint. It stays empty when no identifier is known.
func (s *FingerprintStep) Do(_ context.Context, report *model.DeviceReport) error {
	report.Fingerprint = Fingerprint(report.ConsoleID, report.Identity.PSID(), report.MACAddress)
	return nil
}

// Fingerprint returns the hex BLAKE2b-256 of the IDPS, PSID and MAC address
// joined with "|". Identifiers are compared case-insensitively.
func Fingerprint(consoleID, psid, mac string) string {
	if consoleID == "" && psid == "" && mac == "" {
		return ""
	}
	input := strings.ToUpper(strings.Join([]string{consoleID, psid, mac}, "|"))
	sum := blake2b.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// DefaultPipelineConfig holds the settings of the default pipeline.
type DefaultPipelineConfig struct {
	// Layout names the input files.
	Layout Layout

	// MatchMode selects how id.dat keys are matched.
	MatchMode identity.MatchMode

	// Schema locates the region byte in system.dreg.
	Schema registry.Schema

	// TieBreak selects which probe combinations count as spoofed.
	TieBreak classify.TieBreak

	// ShowAccount enables decoding of the account id and reading of the
	// PSN account keys.
	ShowAccount bool
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineLayout sets the dump file names.
func WithPipelineLayout(layout Layout) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Layout = layout
	}
}

// WithPipelineMatchMode sets the id.dat key matching mode.
func WithPipelineMatchMode(mode identity.MatchMode) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MatchMode = mode
	}
}

// WithPipelineSchema sets the registry schema.
func WithPipelineSchema(schema registry.Schema) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Schema = schema
	}
}

// WithPipelineTieBreak sets the mode tie break.
func WithPipelineTieBreak(tb classify.TieBreak) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.TieBreak = tb
	}
}

// WithPipelineShowAccount enables or disables account data.
func WithPipelineShowAccount(show bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.ShowAccount = show
	}
}

// NewDefaultPipelineConfig returns the default configuration.
func NewDefaultPipelineConfig(opts ...DefaultPipelineOption) DefaultPipelineConfig {
	cfg := DefaultPipelineConfig{
		Layout:      DefaultLayout(),
		MatchMode:   identity.MatchContains,
		Schema:      registry.SchemaV1,
		TieBreak:    classify.TieBreakBothSet,
		ShowAccount: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultPipeline creates a pipeline with every step for the device in
// dir. Steps continue after failures so that one unreadable input does not
// hide the others.
func DefaultPipeline(dir string, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	cfg := NewDefaultPipelineConfig(configOpts...)
	return NewDevicePipeline(NewDevice(dir, cfg.Layout), cfg, pipelineOpts...)
}

// NewDevicePipeline creates the default steps for an already opened device.
func NewDevicePipeline(device *Device, cfg DefaultPipelineConfig, pipelineOpts ...Option) *Pipeline {
	opts := append([]Option{WithContinueOnError(true)}, pipelineOpts...)
	p := New(opts...)
	logger := p.logger

	p.AddSteps(
		NewCaptureStep(device, logger),
		NewIdentityStep(device, identity.NewParser(identity.WithMatchMode(cfg.MatchMode)), cfg.ShowAccount, logger),
		NewRegionStep(device, cfg.Schema, logger),
		NewModeStep(device, cfg.TieBreak, logger),
		NewModelStep(device, logger),
		NewFirmwareStep(device, logger),
		NewSettingsStep(device, cfg.ShowAccount, logger),
		NewTelemetryStep(device, logger),
		NewFingerprintStep(),
	)
	return p
}
