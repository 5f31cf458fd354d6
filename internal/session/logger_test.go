package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDebugLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")

	logger, err := NewDebugLogger(path)
	if err != nil {
		t.Fatalf("NewDebugLogger failed: %v", err)
	}
	logger.Log("graded card %d with %s", 3, "good")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "graded card 3 with good") {
		t.Errorf("log contents = %q", string(data))
	}
}

func TestDebugLoggerNilSafe(t *testing.T) {
	var logger *DebugLogger
	logger.Log("should not panic")
	if err := logger.Close(); err != nil {
		t.Errorf("nil Close returned %v", err)
	}

	nop := NopLogger()
	nop.Log("also fine")
	if err := nop.Close(); err != nil {
		t.Errorf("nop Close returned %v", err)
	}
}

func TestDebugLoggerEmptyPathIsNop(t *testing.T) {
	logger, err := NewDebugLogger("")
	if err != nil {
		t.Fatalf("NewDebugLogger(\"\") failed: %v", err)
	}
	logger.Log("discarded")
	if err := logger.Close(); err != nil {
		t.Errorf("Close returned %v", err)
	}
}
