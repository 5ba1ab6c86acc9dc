package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:   DebugLevel,
		Output:  &buf,
		Service: "test-service",
		Version: "1.0.0",
		Encoder: NewJSONEncoder(false),
	})

	logger.InfoWithFields("test message", nil)

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected log output to contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, "test-service") {
		t.Errorf("Expected log output to contain service name, got: %s", output)
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  InfoLevel,
		Output: &buf,
	})

	logger.WithField("component", "history").InfoWithFields("walk finished", map[string]interface{}{
		"commits": 12,
	})

	var entry LogEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry.Service != "dossiers" {
		t.Errorf("Expected default service name, got %q", entry.Service)
	}
	if entry.Fields["component"] != "history" {
		t.Errorf("Expected inherited field, got %v", entry.Fields)
	}
	if entry.Fields["commits"] != float64(12) {
		t.Errorf("Expected call field, got %v", entry.Fields)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  WarnLevel,
		Output: &buf,
	})

	logger.DebugWithFields("hidden debug", nil)
	logger.InfoWithFields("hidden info", nil)
	logger.WarnWithFields("visible warning", map[string]interface{}{"n": 1})

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("Entries below the level must be dropped, got: %s", output)
	}
	if strings.Count(output, "\n") != 1 {
		t.Errorf("Expected one entry, got: %s", output)
	}
	if !logger.Enabled(ErrorLevel) || logger.Enabled(InfoLevel) {
		t.Error("Enabled should follow the configured level")
	}
}

func TestDisabledLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelFromString("off"), Output: &buf})
	if logger.Enabled(ErrorLevel) {
		t.Error("A disabled logger should not be enabled at any level")
	}
	logger.WarnWithFields("dropped", nil)
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got: %s", buf.String())
	}
}

func TestLogLevelFromString(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		" error ": ErrorLevel,
		"off":     disabledLevel,
		"bogus":   InfoLevel,
	}

	for input, expected := range tests {
		if got := LogLevelFromString(input); got != expected {
			t.Errorf("LogLevelFromString(%q) = %v, want %v", input, got, expected)
		}
	}
}

func TestOrDefault(t *testing.T) {
	custom := NewLogger(LoggerConfig{Level: ErrorLevel})
	if OrDefault(custom) != custom {
		t.Error("OrDefault should keep a non-nil logger")
	}
	if OrDefault(nil) != GetDefaultLogger() {
		t.Error("OrDefault should fall back to the default logger")
	}
}
