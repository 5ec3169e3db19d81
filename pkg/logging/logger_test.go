package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("DefaultConfig().Level = %s, want %s", cfg.Level, LevelInfo)
	}
	if cfg.Pretty {
		t.Error("DefaultConfig().Pretty = true, want JSON output")
	}
	if cfg.Output == nil {
		t.Error("DefaultConfig().Output is nil")
	}
}

func TestSetup_JSONFields(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelDebug, Output: buf})

	log.Debug().
		Str("endpoint", "/api/payments/search").
		Int("status", 404).
		Str("error_class", "not_found").
		Msg("Search failed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	want := map[string]any{
		"level":       "debug",
		"endpoint":    "/api/payments/search",
		"status":      float64(404),
		"error_class": "not_found",
		"message":     "Search failed",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("entry[%q] = %v, want %v", k, entry[k], v)
		}
	}
	if _, ok := entry["time"]; !ok {
		t.Error("entry has no timestamp")
	}
}

func TestSetup_Pretty(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Pretty: true, Output: buf})

	log.Info().Str("addr", ":8080").Msg("Starting payments view server")

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("pretty output looks like JSON: %q", out)
	}
	if !strings.Contains(out, "Starting payments view server") || !strings.Contains(out, ":8080") {
		t.Errorf("pretty output missing message or field: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected zerolog.Level
	}{
		{LevelDebug, zerolog.DebugLevel},
		{LevelInfo, zerolog.InfoLevel},
		{LevelWarn, zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"invalid", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	for _, level := range []LogLevel{"debug", "INFO", "warn", "warning", "error"} {
		if !ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = false, want true", level)
		}
	}
	for _, level := range []LogLevel{"", "trace", "verbose"} {
		if ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = true, want false", level)
		}
	}
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf})

	logger := NewLogger("payments-client")
	logger.Info().Msg("Client ready")

	out := buf.String()
	if !strings.Contains(out, `"component":"payments-client"`) {
		t.Errorf("output missing component field: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level   LogLevel
		visible []string
		hidden  []string
	}{
		{LevelDebug, []string{"debug", "info", "warn", "error"}, nil},
		{LevelInfo, []string{"info", "warn", "error"}, []string{"debug"}},
		{LevelWarn, []string{"warn", "error"}, []string{"debug", "info"}},
		{LevelError, []string{"error"}, []string{"debug", "info", "warn"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			buf := &bytes.Buffer{}
			Setup(Config{Level: tt.level, Output: buf})

			logger := NewLogger("fetch")
			logger.Debug().Msg("debug message")
			logger.Info().Msg("info message")
			logger.Warn().Msg("warn message")
			logger.Error().Msg("error message")

			out := buf.String()
			for _, l := range tt.visible {
				if !strings.Contains(out, l+" message") {
					t.Errorf("%s message missing at level %s", l, tt.level)
				}
			}
			for _, l := range tt.hidden {
				if strings.Contains(out, l+" message") {
					t.Errorf("%s message logged at level %s", l, tt.level)
				}
			}
		})
	}
}
