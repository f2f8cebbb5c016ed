package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/psvident/internal/classify"
	"github.com/nao1215/psvident/internal/identity"
	"github.com/nao1215/psvident/internal/model"
	"github.com/nao1215/psvident/internal/probe"
	"github.com/nao1215/psvident/internal/registry"
)

const fatCapture = `retail: true
model_id: 0x10000
mac_address: "D4:4B:5E:11:22:33"
console_id: "00000001008C0000F0E1D2C3B4A59687"
firmware_version: "3.60 変革-03"
registry:
  /CONFIG/SYSTEM/button_assign: 1
  /CONFIG/SYSTEM/language: 1
  /CONFIG/POWER_SAVING/suspend_interval: 300
  /CONFIG/NP/login_id: "player@example.com"
  /CONFIG/NP/country: "us"
telemetry:
  battery: {percent: 50, charging: false, temperature_raw: 3012, voltage_raw: 3900}
  clock: {arm_mhz: 444, bus_mhz: 222}
  memory_card: {free_bytes: 1048576, max_bytes: 4194304}
`

const fatIDDat = "MID=0000000100000000\nDID=0000000100c80000aabbccddeeff0011\nAID=efcdab8967452301\nOID=vita_player\n"

// writeDump creates a dump directory holding the given files.
func writeDump(t *testing.T, files map[string][]byte) string {
	t.Helper()

	dir := t.TempDir()
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

// regionBlob returns a system.dreg with region set at the v1 offset.
func regionBlob(region byte) []byte {
	blob := make([]byte, 128)
	blob[registry.SchemaV1.Offset] = region
	return blob
}

// fullDump returns a dump directory with every input present.
func fullDump(t *testing.T) string {
	t.Helper()
	return writeDump(t, map[string][]byte{
		DefaultIDFile:       []byte(fatIDDat),
		DefaultRegistryFile: regionBlob(2),
		DefaultProbeFile:    []byte(fatCapture),
	})
}

// TestDefaultPipeline tests a full run over a complete dump.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	dir := fullDump(t)
	report := model.NewDeviceReport(dir)
	p := DefaultPipeline(dir, nil)

	expectedSteps := []string{
		StepCapture, StepIdentity, StepRegion, StepMode, StepModel,
		StepFirmware, StepSettings, StepTelemetry, StepFingerprint,
	}
	names := p.StepNames()
	if len(names) != len(expectedSteps) {
		t.Fatalf("expected %d steps, got %v", len(expectedSteps), names)
	}
	for i, name := range expectedSteps {
		if names[i] != name {
			t.Errorf("step %d: expected %s, got %s", i, name, names[i])
		}
	}

	if err := p.Execute(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.HasDiagnostics() {
		t.Errorf("expected no diagnostics, got %+v", report.Diagnostics)
	}
	if report.Identity.Nickname() != "vita_player" {
		t.Errorf("unexpected nickname %q", report.Identity.Nickname())
	}
	if report.AccountID != "0123456789abcdef" {
		t.Errorf("unexpected account id %q", report.AccountID)
	}
	if report.Region != model.RegionNorthAmerica {
		t.Errorf("expected North America, got %v", report.Region)
	}
	if report.Mode != model.ModeRetail {
		t.Errorf("expected retail, got %v", report.Mode)
	}
	if report.Model.Kind != model.ModelVitaFat {
		t.Errorf("expected Vita Fat, got %v", report.Model)
	}
	if report.MACAddress != "D4:4B:5E:11:22:33" {
		t.Errorf("unexpected MAC %q", report.MACAddress)
	}
	if report.ConsoleID != "00000001008C0000F0E1D2C3B4A59687" {
		t.Errorf("unexpected console id %q", report.ConsoleID)
	}
	if report.Firmware != "3.60 HENkaku-03" || report.FirmwareRaw != "3.60 変革-03" {
		t.Errorf("unexpected firmware %q (raw %q)", report.Firmware, report.FirmwareRaw)
	}
	if report.Settings.ButtonAssign != "X = Enter" || report.Settings.Language != "English US" {
		t.Errorf("unexpected settings %+v", report.Settings)
	}
	if report.Settings.LanguageTag != "en-US" || report.Settings.SuspendIntervalSeconds != 300 {
		t.Errorf("unexpected settings %+v", report.Settings)
	}
	if report.Settings.AccountEmail != "player@example.com" || report.Settings.AccountCountry != "us" {
		t.Errorf("unexpected account settings %+v", report.Settings)
	}
	if !report.HasBattery() || report.Telemetry.Battery.Temperature() != "30.12" {
		t.Errorf("unexpected battery %+v", report.Telemetry.Battery)
	}
	if len(report.Fingerprint) != 64 {
		t.Errorf("expected 64 hex digit fingerprint, got %q", report.Fingerprint)
	}
}

// TestDefaultPipelineEmptyDump tests that a dump without inputs degrades to
// placeholders and diagnostics.
func TestDefaultPipelineEmptyDump(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	report := model.NewDeviceReport(dir)
	if err := DefaultPipeline(dir, nil).Execute(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Region != model.RegionUnknown {
		t.Errorf("expected Unknown region, got %v", report.Region)
	}
	if report.Mode != model.ModeError {
		t.Errorf("expected error mode, got %v", report.Mode)
	}
	if report.Model.Kind != model.ModelUnknown {
		t.Errorf("expected Unknown model, got %v", report.Model)
	}
	if !report.Identity.IsEmpty() || report.Fingerprint != "" {
		t.Error("expected empty identity and fingerprint")
	}
	if report.Settings.SuspendIntervalSeconds != registry.UnreadInt {
		t.Errorf("expected unread suspend interval, got %d", report.Settings.SuspendIntervalSeconds)
	}
	if got := len(report.DiagnosticsByKind(model.DiagnosticResourceUnavailable)); got != 3 {
		t.Errorf("expected 3 unavailable resources, got %d: %+v", got, report.Diagnostics)
	}
	if len(report.DiagnosticsByKind(model.DiagnosticProbeError)) == 0 {
		t.Error("expected probe errors")
	}
	if len(report.PerformedSteps) != 9 {
		t.Errorf("expected every step to run, got %v", report.PerformedSteps)
	}
}

// TestIdentityStep tests id.dat handling.
func TestIdentityStep(t *testing.T) {
	t.Parallel()

	t.Run("malformed tokens become parse warnings", func(t *testing.T) {
		t.Parallel()

		dir := writeDump(t, map[string][]byte{DefaultIDFile: []byte("OID=ok\nnonsense\nAID=123\n")})
		report := model.NewDeviceReport(dir)
		step := NewIdentityStep(NewDevice(dir, DefaultLayout()), nil, true, nil)
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		warnings := report.DiagnosticsByKind(model.DiagnosticParseWarning)
		if len(warnings) != 1 || warnings[0].Message != "line 2: malformed record" {
			t.Errorf("unexpected warnings: %+v", warnings)
		}
		if len(report.DiagnosticsByKind(model.DiagnosticMalformedToken)) != 1 {
			t.Errorf("expected malformed token diagnostic, got %+v", report.Diagnostics)
		}
		if report.AccountID != "" {
			t.Errorf("expected no account id, got %q", report.AccountID)
		}
		if report.Identity.AccountToken() != "123" {
			t.Errorf("expected stored token to be kept, got %q", report.Identity.AccountToken())
		}
	})

	t.Run("account decoding can be disabled", func(t *testing.T) {
		t.Parallel()

		dir := writeDump(t, map[string][]byte{DefaultIDFile: []byte(fatIDDat)})
		report := model.NewDeviceReport(dir)
		step := NewIdentityStep(NewDevice(dir, DefaultLayout()), nil, false, nil)
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.AccountID != "" {
			t.Errorf("expected no account id, got %q", report.AccountID)
		}
		if report.Identity.IsSet(model.FieldAccountToken) || report.Identity.IsSet(model.FieldNickname) {
			t.Errorf("expected account fields to be dropped, got %q %q",
				report.Identity.AccountToken(), report.Identity.Nickname())
		}
		if !report.Identity.IsSet(model.FieldPSID) {
			t.Error("expected the PSID to be kept")
		}
	})

	t.Run("prefix matching", func(t *testing.T) {
		t.Parallel()

		dir := writeDump(t, map[string][]byte{DefaultIDFile: []byte("OID=MID=x\n")})
		report := model.NewDeviceReport(dir)
		parser := identity.NewParser(identity.WithMatchMode(identity.MatchPrefix))
		step := NewIdentityStep(NewDevice(dir, DefaultLayout()), parser, true, nil)
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Identity.Nickname() != "MID=x" || report.Identity.IsSet(model.FieldManufacturingID) {
			t.Errorf("unexpected identity: %q", report.Identity.Nickname())
		}
	})
}

// TestCaptureStep tests loading of the probe capture.
func TestCaptureStep(t *testing.T) {
	t.Parallel()

	t.Run("keeps a supplied prober", func(t *testing.T) {
		t.Parallel()

		supplied := &probe.Snapshot{Dev: true}
		dev := NewDevice(t.TempDir(), DefaultLayout())
		dev.Prober = supplied

		report := model.NewDeviceReport(dev.Dir)
		if err := NewCaptureStep(dev, nil).Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dev.Prober != supplied || report.HasDiagnostics() {
			t.Error("expected supplied prober to be kept without diagnostics")
		}
	})

	t.Run("malformed capture is a probe error", func(t *testing.T) {
		t.Parallel()

		dir := writeDump(t, map[string][]byte{DefaultProbeFile: []byte("retail: [")})
		dev := NewDevice(dir, DefaultLayout())
		report := model.NewDeviceReport(dir)
		if err := NewCaptureStep(dev, nil).Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.DiagnosticsByKind(model.DiagnosticProbeError)) != 1 {
			t.Errorf("expected probe error diagnostic, got %+v", report.Diagnostics)
		}
		if dev.Prober == nil {
			t.Error("expected fallback prober")
		}
	})
}

// TestModeStep tests the tie break configuration.
func TestModeStep(t *testing.T) {
	t.Parallel()

	dev := NewDevice(t.TempDir(), DefaultLayout())
	dev.Prober = &probe.Snapshot{Tool: true}

	report := model.NewDeviceReport(dev.Dir)
	if err := NewModeStep(dev, classify.TieBreakBothSet, nil).Do(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Mode != model.ModeTool {
		t.Errorf("expected tool, got %v", report.Mode)
	}

	if err := NewModeStep(dev, classify.TieBreakAgree, nil).Do(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Mode != model.ModeRetail {
		t.Errorf("expected retail with agree tie break, got %v", report.Mode)
	}

	dev.Prober = &probe.Snapshot{
		Retail:   true,
		Dev:      true,
		Registry: map[string]any{registry.KeyDebugMode: 1},
	}
	if err := NewModeStep(dev, classify.TieBreakBothSet, nil).Do(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Mode != model.ModeTestOrDevUndetermined {
		t.Errorf("expected undetermined test/dev kit, got %v", report.Mode)
	}
}

// TestTelemetryStep tests that PSTV battery readings are dropped.
func TestTelemetryStep(t *testing.T) {
	t.Parallel()

	dev := NewDevice(t.TempDir(), DefaultLayout())
	dev.Prober = &probe.Snapshot{TelemetryCapture: &probe.TelemetryCapture{
		Battery: &probe.BatteryCapture{Percent: 100},
		Clock:   probe.ClockCapture{ARMMHz: 333},
	}}

	report := model.NewDeviceReport(dev.Dir)
	report.Model = classify.ClassifyModel(model.ModelIDPSTV, "")
	if err := NewTelemetryStep(dev, nil).Do(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Telemetry.Battery != nil {
		t.Error("expected battery to be dropped for PSTV")
	}
	if report.Telemetry.Clock.ARMMHz != 333 {
		t.Errorf("expected clock to be kept, got %+v", report.Telemetry.Clock)
	}
}

// TestFingerprint tests identifier hashing.
func TestFingerprint(t *testing.T) {
	t.Parallel()

	if Fingerprint("", "", "") != "" {
		t.Error("expected empty fingerprint without identifiers")
	}

	a := Fingerprint("00000001008C0000F0E1D2C3B4A59687", "psid", "D4:4B:5E:11:22:33")
	b := Fingerprint("00000001008c0000f0e1d2c3b4a59687", "PSID", "d4:4b:5e:11:22:33")
	if a != b {
		t.Error("expected fingerprint to ignore case")
	}
	if a == Fingerprint("00000001008C0000F0E1D2C3B4A59687", "psid", "D4:4B:5E:11:22:34") {
		t.Error("expected different MAC to change the fingerprint")
	}
	if Fingerprint("a", "b", "") == Fingerprint("a", "", "b") {
		t.Error("expected field position to matter")
	}
}

// TestDevicePath tests layout resolution.
func TestDevicePath(t *testing.T) {
	t.Parallel()

	dev := NewDevice("dump", DefaultLayout())
	if got := dev.Path(DefaultIDFile); got != filepath.Join("dump", "id.dat") {
		t.Errorf("unexpected path %s", got)
	}
	abs := filepath.Join(t.TempDir(), "other.dreg")
	if dev.Path(abs) != abs {
		t.Error("expected absolute name to be kept")
	}
}
