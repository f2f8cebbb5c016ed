package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestSecureHandler_SanitizesSensitiveKeys tests that identifier keys are masked.
func TestSecureHandler_SanitizesSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "psid", key: "psid", value: "short-psid", wantMask: true},
		{name: "upper case idps", key: "IDPS", value: "idps-value", wantMask: true},
		{name: "console id", key: "console_id", value: "cid-value", wantMask: true},
		{name: "account token", key: "account_token", value: "2143", wantMask: true},
		{name: "login id", key: "login_id", value: "player", wantMask: true},
		{name: "password", key: "password", value: "hunter2", wantMask: true},
		{name: "mac", key: "mac", value: "vendor-mac", wantMask: true},
		{name: "keyword inside key", key: "np_login_name", value: "someone", wantMask: true},
		{name: "path is kept", key: "path", value: "dumps/vita1/id.dat", wantMask: false},
		{name: "step is kept", key: "step", value: "region", wantMask: false},
		{name: "line is kept", key: "line", value: "12", wantMask: false},
		{name: "firmware is kept", key: "raw", value: "3.60", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)
			logger.Info("test message", tt.key, tt.value)

			output := buf.String()
			if tt.wantMask {
				if strings.Contains(output, tt.value) {
					t.Errorf("expected %q to be masked: %s", tt.value, output)
				}
				if !strings.Contains(output, MaskValue) {
					t.Errorf("expected mask in output: %s", output)
				}
			} else if !strings.Contains(output, tt.value) {
				t.Errorf("expected %q in output: %s", tt.value, output)
			}
		})
	}
}

// TestIsSensitiveValue tests value pattern detection.
func TestIsSensitiveValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value    string
		expected bool
	}{
		{"00000001008C0000F0E1D2C3B4A59687", true},
		{"efcdab8967452301", true},
		{"D4:4B:5E:11:22:33", true},
		{"d4-4b-5e-11-22-33", true},
		{"player@example.com", true},
		{"DID=0000000100c80000", true},
		{"AID=x", true},
		{"03600011", false},
		{"OID=vita_player", false},
		{"Europe", false},
		{"3.60 HENkaku-03", false},
		{"dumps/vita1", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			if got := isSensitiveValue(tt.value); got != tt.expected {
				t.Errorf("isSensitiveValue(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

// TestContainsSensitiveKeyword tests keyword detection in keys.
func TestContainsSensitiveKeyword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key      string
		expected bool
	}{
		{"new_psid", true},
		{"idps_hex", true},
		{"np_password", true},
		{"login_name", true},
		{"account_email", true},
		{"path", false},
		{"dump", false},
		{"region", false},
		{"mode", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			if got := containsSensitiveKeyword(tt.key); got != tt.expected {
				t.Errorf("containsSensitiveKeyword(%q) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

// TestSecureHandler_LogLevels tests the verbose switch.
func TestSecureHandler_LogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		verbose    bool
		level      slog.Level
		shouldShow bool
	}{
		{"debug in verbose mode", true, slog.LevelDebug, true},
		{"debug in quiet mode", false, slog.LevelDebug, false},
		{"info in quiet mode", false, slog.LevelInfo, false},
		{"warn in quiet mode", false, slog.LevelWarn, true},
		{"error in quiet mode", false, slog.LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, tt.verbose)
			logger.Log(t.Context(), tt.level, "level check")

			if got := strings.Contains(buf.String(), "level check"); got != tt.shouldShow {
				t.Errorf("expected shown=%v, got output %q", tt.shouldShow, buf.String())
			}
		})
	}
}

// TestSecureHandler_WithAttrs tests masking of attributes added with With.
func TestSecureHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true).With("psid", "abc")
	logger.Warn("parsed identity")

	if strings.Contains(buf.String(), "abc") {
		t.Errorf("expected psid to be masked: %s", buf.String())
	}
}

// TestSecureHandler_WithGroup tests masking inside groups.
func TestSecureHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)
	logger.Info("device",
		slog.Group("identity", "nickname", "vita_player", "email", "player@example.com"),
	)

	output := buf.String()
	if !strings.Contains(output, "vita_player") {
		t.Errorf("expected nickname in output: %s", output)
	}
	if strings.Contains(output, "player@example.com") {
		t.Errorf("expected email to be masked: %s", output)
	}
}

// TestNewSecureJSONLogger tests the JSON logger.
func TestNewSecureJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureJSONLogger(&buf, false)
	logger.Warn("identity", "console_id", "00000001008C0000F0E1D2C3B4A59687")

	output := buf.String()
	if !strings.HasPrefix(output, "{") {
		t.Errorf("expected JSON output, got %s", output)
	}
	if strings.Contains(output, "F0E1D2C3") {
		t.Errorf("expected console id to be masked: %s", output)
	}
}

// TestNewSecureHandler_NilHandler tests the nil handler fallback.
func TestNewSecureHandler_NilHandler(t *testing.T) {
	t.Parallel()

	handler := NewSecureHandler(nil)
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}
	slog.New(handler).Debug("no panic")
}
