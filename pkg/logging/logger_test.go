package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{" Info ", InfoLevel},
		{"WARN", WarnLevel},
		{"warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"", InfoLevel},
		{"invalid", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("key", "value"), "key", "value"},
		{"Int", Int("count", 42), "count", 42},
		{"Bool", Bool("enabled", true), "enabled", true},
		{"Duration", Duration("timeout", 5*time.Second), "timeout", "5s"},
		{"Error", Error(errors.New("bad plug")), "error", "bad plug"},
		{"Error_nil", Error(nil), "error", nil},
		{"Window", Window("ADU"), "window", "ADU"},
		{"Reflector", Reflector("B"), "reflector", "B"},
		{"Plugs", Plugs(10), "plugs", 10},
		{"RunID", RunID("abc"), "run_id", "abc"},
		{"Component", Component("cli"), "component", "cli"},
		{"Operation", Operation("encrypt"), "operation", "encrypt"},
		{"Path", Path("/tmp/key.yaml"), "path", "/tmp/key.yaml"},
		{"Count", Count(7), "count", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("%s() = %+v, want {Key:%s Value:%v}", tt.name, tt.field, tt.key, tt.value)
			}
		})
	}

	f := Rotors([]string{"I", "II", "III"})
	if names, ok := f.Value.([]string); f.Key != "rotors" || !ok || len(names) != 3 {
		t.Errorf("Rotors() = %+v", f)
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("machine configured", Window("AAA"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "machine configured" {
		t.Errorf("Message = %v, want 'machine configured'", entry.Message)
	}
	if entry.Fields["window"] != "AAA" {
		t.Errorf("Fields[window] = %v, want AAA", entry.Fields["window"])
	}
	if entry.Time == "" {
		t.Error("Time field is empty")
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}

	for i, want := range []string{"WARN", "ERROR"} {
		var entry LogEntry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("Failed to unmarshal entry %d: %v", i, err)
		}
		if entry.Level != want {
			t.Errorf("Entry %d level = %v, want %v", i, entry.Level, want)
		}
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("cli"), RunID("run-1"))
	child.Info("processed", Count(12))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if entry.Fields["component"] != "cli" {
		t.Errorf("component field = %v, want cli", entry.Fields["component"])
	}
	if entry.Fields["run_id"] != "run-1" {
		t.Errorf("run_id field = %v, want run-1", entry.Fields["run_id"])
	}
	if entry.Fields["count"] != float64(12) { // JSON unmarshals numbers as float64
		t.Errorf("count field = %v, want 12", entry.Fields["count"])
	}

	// The parent keeps its own fields
	buf.Reset()
	logger.Info("parent")
	if strings.Contains(buf.String(), "run_id") {
		t.Error("child fields leaked into parent logger")
	}
}

func TestJSONLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.SetLevel(ErrorLevel)
	if logger.GetLevel() != ErrorLevel {
		t.Errorf("After SetLevel, level = %v, want ErrorLevel", logger.GetLevel())
	}

	logger.Info("info")
	if buf.Len() != 0 {
		t.Error("Expected no output for Info at ErrorLevel")
	}

	logger.Error("error")
	if buf.Len() == 0 {
		t.Error("Expected output for Error at ErrorLevel")
	}
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, InfoLevel).Info("bare")

	if strings.Contains(buf.String(), `"fields"`) {
		t.Errorf("entry without fields should omit the fields key: %s", buf.String())
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(LevelEnv, "error")
	if got := LevelFromEnv(); got != ErrorLevel {
		t.Errorf("LevelFromEnv() = %v, want ERROR", got)
	}

	t.Setenv(LevelEnv, "")
	if got := LevelFromEnv(); got != InfoLevel {
		t.Errorf("LevelFromEnv() with empty env = %v, want INFO", got)
	}
}

func TestLevelSet(t *testing.T) {
	var l Level
	if l != InfoLevel {
		t.Fatalf("zero Level = %v, want INFO", l)
	}

	if err := l.Set("Warning"); err != nil || l != WarnLevel {
		t.Errorf("Set(Warning) = %v, level %v", err, l)
	}
	if err := l.Set("verbose"); err == nil {
		t.Error("Set(verbose) should fail")
	}
	if l != WarnLevel {
		t.Errorf("failed Set changed level to %v", l)
	}
	if l.Type() != "level" {
		t.Errorf("Type() = %q", l.Type())
	}
}

func TestJSONLogger_Enabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	child := logger.With(Component("cli"))

	if child.Enabled(DebugLevel) {
		t.Error("DEBUG should be disabled at INFO")
	}
	logger.SetLevel(DebugLevel)
	if !logger.Enabled(DebugLevel) || !logger.Enabled(ErrorLevel) {
		t.Error("DEBUG and ERROR should be enabled at DEBUG")
	}
}

func TestJSONLogger_CallFieldsOverride(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, InfoLevel).With(Window("AAA")).Info("stepped", Window("AAB"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Fields["window"] != "AAB" {
		t.Errorf("window = %v, want the call-site value AAB", entry.Fields["window"])
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Debug("ignored")
	logger.Error("ignored", Error(errors.New("x")))
	if logger.With(Count(1)) == nil {
		t.Error("NopLogger.With returned nil")
	}
	if logger.Enabled(ErrorLevel) {
		t.Error("NopLogger should report every level disabled")
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	op := StartTimer(logger, "process", Operation("encrypt"))
	if d := op.End(Count(5)); d < 0 {
		t.Errorf("End() duration = %v", d)
	}

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Fields["operation"] != "encrypt" || entry.Fields["count"] != float64(5) {
		t.Errorf("fields = %v", entry.Fields)
	}
	if _, ok := entry.Fields["latency"]; !ok {
		t.Error("latency field missing")
	}

	buf.Reset()
	StartTimer(logger, "load key").EndError(errors.New("no such file"))
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Level != "ERROR" || entry.Fields["error"] != "no such file" {
		t.Errorf("EndError entry = %+v", entry)
	}
}
