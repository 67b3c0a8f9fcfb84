package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ninanguyen24/sqlcore/internal/config"
)

func TestNewWritesAStatementRecord(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "sqlcore.log")
	log, err := New(config.Config{LogFile: logFile})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Statement("SELECT", 5*time.Millisecond, 3, nil)
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)
	for _, want := range []string{"stmt_kind=SELECT", "rows=3", "statement executed"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected the log record to contain %q, got %q", want, text)
		}
	}
}

func TestNewLogsErrorsWithTheirMessage(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "sqlcore.log")
	log, err := New(config.Config{LogFile: logFile})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Statement("INSERT", time.Millisecond, 0, errors.New("boom"))
	log.Close()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "boom") {
		t.Fatalf("expected the failure message in the log record, got %q", data)
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	log := Discard()
	log.Statement("SELECT", time.Millisecond, 0, nil)
	if err := log.Close(); err != nil {
		t.Fatalf("Close on a discard logger should be a no-op, got %v", err)
	}
}

func TestNewCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "nested", "deeper", "sqlcore.log")
	log, err := New(config.Config{LogFile: logFile})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer log.Close()
	if _, err := os.Stat(filepath.Dir(logFile)); err != nil {
		t.Fatalf("expected parent directories to be created: %v", err)
	}
}
