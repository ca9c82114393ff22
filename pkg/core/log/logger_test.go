package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	fdlerror "github.com/msto63/fdl/pkg/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: format, Output: &buf, Name: "test"}), &buf
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		min     Level
		log     func(l *Logger)
		written bool
	}{
		{"debug below info", LevelInfo, func(l *Logger) { l.Debug("x") }, false},
		{"info at info", LevelInfo, func(l *Logger) { l.Info("x") }, true},
		{"error above warn", LevelWarn, func(l *Logger) { l.Error("x") }, true},
		{"trace at trace", LevelTrace, func(l *Logger) { l.Trace("x") }, true},
		{"off drops errors", LevelOff, func(l *Logger) { l.Error("x") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(tt.min, FormatJSON)
			tt.log(logger)
			if (buf.Len() > 0) != tt.written {
				t.Errorf("written = %v, want %v (output %q)", buf.Len() > 0, tt.written, buf.String())
			}
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	logger.WithField("component", "parser").Info("parsed", Fields{"things": 3})

	var data map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	want := map[string]interface{}{
		"level":     "info",
		"message":   "parsed",
		"logger":    "test",
		"component": "parser",
		"things":    float64(3),
	}
	for k, v := range want {
		if data[k] != v {
			t.Errorf("data[%q] = %v, want %v", k, data[k], v)
		}
	}
}

func TestLogger_TextOutputSortsFields(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)
	logger.Warn("slow parse", Fields{"zeta": 1, "alpha": 2})

	out := buf.String()
	if !strings.Contains(out, "[WRN] {test} slow parse [alpha=2 zeta=1]") {
		t.Errorf("unexpected text output %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("text output must end with a newline")
	}
}

func TestLogger_WithFieldDoesNotMutateParent(t *testing.T) {
	parent, buf := newBufferLogger(LevelInfo, FormatJSON)
	_ = parent.WithField("child", true)

	parent.Info("hello")
	if strings.Contains(buf.String(), "child") {
		t.Errorf("parent logger picked up child field: %q", buf.String())
	}
}

func TestLogger_LogErrorUsesSeverity(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
	}{
		{"plain error", errors.New("boom"), "error"},
		{"syntax error is low", fdlerror.New("bad").WithCode(fdlerror.CodeSyntax), "info"},
		{"io error is medium", fdlerror.New("io").WithCode(fdlerror.CodeIO), "warn"},
		{"store error is high", fdlerror.New("db").WithCode(fdlerror.CodeStore), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace, FormatJSON)
			logger.LogError(tt.err)

			var data map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			if data["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", data["level"], tt.wantLevel)
			}
		})
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	if logger.IsLevelEnabled(LevelError) {
		t.Error("Nop logger must not enable any level")
	}
	logger.Error("dropped")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"WARNING", LevelWarn, false},
		{"", LevelInfo, false},
		{"off", LevelOff, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_ReportsBadSettings(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{Name: "cli", Level: "chatty", Format: "text"})
	if err == nil {
		t.Error("NewLogger() should report an unknown level")
	}
	if logger == nil {
		t.Fatal("NewLogger() must still return a logger")
	}
	if logger.GetLevel() != LevelInfo {
		t.Errorf("fallback level = %v, want info", logger.GetLevel())
	}
}
