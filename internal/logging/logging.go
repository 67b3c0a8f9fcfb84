// Package logging wraps log/slog over a lumberjack-rotated file, the same
// shape the teacher's cmd/bd wraps slog.Logger in its daemonLogger type
// (see cmd/bd/daemon_server.go, cmd/bd/dual_mode_test.go) even though the
// teacher itself never wires lumberjack in; this repo is the first to put
// that otherwise-unused go.mod entry to work.
package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ninanguyen24/sqlcore/internal/config"
)

// Logger wraps *slog.Logger with the one record shape the executor emits
// per statement.
type Logger struct {
	logger *slog.Logger
	closer *lumberjack.Logger
}

// New opens (creating parent directories as needed) a rotated log file at
// cfg.LogFile and returns a Logger writing structured text records to it.
func New(cfg config.Config) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, err
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		Compress:   true,
	}
	handler := slog.NewTextHandler(lj, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Logger{logger: slog.New(handler), closer: lj}, nil
}

// Discard returns a Logger that drops every record, for tests.
func Discard() *Logger {
	return &Logger{logger: slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Close releases the underlying rotated file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Statement logs one executor.Execute call: its kind, duration, row count,
// and error (nil on success).
func (l *Logger) Statement(kind string, dur time.Duration, rows int, err error) {
	attrs := []any{
		slog.String("stmt_kind", kind),
		slog.Int64("duration_ms", dur.Milliseconds()),
		slog.Int("rows", rows),
	}
	if err != nil {
		l.logger.Error("statement failed", append(attrs, slog.String("err", err.Error()))...)
		return
	}
	l.logger.Info("statement executed", attrs...)
}
