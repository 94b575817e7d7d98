package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to unmarshal log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

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
		{"warn", WarnLevel},
		{"Warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
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
		{"String", String("k", "v"), "k", "v"},
		{"Int", Int("n", 42), "n", 42},
		{"Uint64", Uint64("id", 9876543210), "id", uint64(9876543210)},
		{"Duration", Duration("timeout", 5*time.Second), "timeout", "5s"},
		{"Error", Error(errors.New("boom")), "error", "boom"},
		{"ErrorNil", Error(nil), "error", nil},
		{"RunID", RunID("abc"), "run_id", "abc"},
		{"GraphLabel", GraphLabel("Period 2"), "graph", "Period 2"},
		{"Period", Period(3), "period", 3},
		{"Modularity", Modularity(0.25), "modularity", 0.25},
		{"LouvainLevel", LouvainLevel(1), "level", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("%s = %+v, want {Key:%s Value:%v}", tt.name, tt.field, tt.key, tt.value)
			}
		})
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("graph analyzed", GraphLabel("Aggregate"), Communities(4))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "graph analyzed" {
		t.Errorf("Message = %v, want 'graph analyzed'", entry.Message)
	}
	if entry.Fields["graph"] != "Aggregate" {
		t.Errorf("Fields[graph] = %v, want Aggregate", entry.Fields["graph"])
	}
	if entry.Fields["communities"] != float64(4) { // JSON numbers decode as float64
		t.Errorf("Fields[communities] = %v, want 4", entry.Fields["communities"])
	}
	if _, err := time.Parse(time.RFC3339Nano, entry.Time); err != nil {
		t.Errorf("Time %q is not RFC3339: %v", entry.Time, err)
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[1].Level != "ERROR" {
		t.Errorf("Levels = %s, %s; want WARN, ERROR", entries[0].Level, entries[1].Level)
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("pipeline"), RunID("run-1"))
	child.Info("task done", Period(2), RunID("override"))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].Fields
	if fields["component"] != "pipeline" {
		t.Errorf("component = %v, want pipeline", fields["component"])
	}
	if fields["run_id"] != "override" {
		t.Errorf("run_id = %v, want call-site value to win", fields["run_id"])
	}
	if fields["period"] != float64(2) {
		t.Errorf("period = %v, want 2", fields["period"])
	}
}

func TestJSONLogger_ChildSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	child := logger.With(Component("ingest"))

	logger.SetLevel(ErrorLevel)
	if child.GetLevel() != ErrorLevel {
		t.Errorf("child level = %v, want ERROR", child.GetLevel())
	}

	child.Info("suppressed")
	if buf.Len() != 0 {
		t.Error("Expected no output for Info at ErrorLevel")
	}
	child.Error("emitted")
	if buf.Len() == 0 {
		t.Error("Expected output for Error at ErrorLevel")
	}
}

func TestJSONLogger_ConcurrentChildren(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	var wg sync.WaitGroup
	for p := 1; p <= 8; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			child := logger.With(Period(p))
			for i := 0; i < 20; i++ {
				child.Info("tick")
			}
		}(p)
	}
	wg.Wait()

	// Interleaved writes would break line decoding
	if entries := decodeLines(t, &buf); len(entries) != 160 {
		t.Errorf("Expected 160 entries, got %d", len(entries))
	}
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("message without fields")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, exists := entry["fields"]; exists {
		t.Error("Expected fields key to be omitted when empty")
	}
}

func TestGlobalHelperFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	defer SetDefaultLogger(NewDefaultLogger())

	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	ErrorLog("error msg")
	With(Component("cli")).Info("child msg")

	entries := decodeLines(t, &buf)
	if len(entries) != 5 {
		t.Fatalf("Expected 5 log entries, got %d", len(entries))
	}
	levels := []string{"DEBUG", "INFO", "WARN", "ERROR", "INFO"}
	for i, want := range levels {
		if entries[i].Level != want {
			t.Errorf("Entry %d level = %v, want %v", i, entries[i].Level, want)
		}
	}
	if entries[4].Fields["component"] != "cli" {
		t.Errorf("component = %v, want cli", entries[4].Fields["component"])
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	timer := StartTimer(logger, "louvain", GraphLabel("Period 1"))
	timer.End(Modularity(0.4))
	StartTimer(logger, "stats").EndWithLevel(DebugLevel, "stats computed")
	StartTimer(logger, "export").EndError(errors.New("disk full"))

	entries := decodeLines(t, &buf)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Fields["graph"] != "Period 1" || entries[0].Fields["modularity"] != 0.4 {
		t.Errorf("End() fields = %v", entries[0].Fields)
	}
	for i, entry := range entries {
		if _, ok := entry.Fields["latency"]; !ok {
			t.Errorf("Entry %d missing latency", i)
		}
	}
	if entries[1].Level != "DEBUG" || entries[1].Message != "stats computed" {
		t.Errorf("EndWithLevel() = %s %q", entries[1].Level, entries[1].Message)
	}
	if entries[2].Level != "ERROR" || entries[2].Fields["error"] != "disk full" {
		t.Errorf("EndError() = %s %v", entries[2].Level, entries[2].Fields)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.With(Component("x")).Info("ignored")
	if logger.GetLevel() != InfoLevel {
		t.Errorf("GetLevel() = %v, want INFO", logger.GetLevel())
	}
}

func BenchmarkJSONLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", GraphLabel("Aggregate"), Communities(4))
	}
}
