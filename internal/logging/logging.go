// Package logging builds the two slog loggers raovat uses: a plain text
// file log for the TUI, whose terminal belongs to Bubble Tea, and a
// colorized console log for the stub server.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
)

const consoleTimeFormat = "2006-01-02 15:04:05"

// FileLogger returns a logger that appends text records to the file at
// path, creating parent directories as needed. The caller owns the
// returned closer.
func FileLogger(path string, level slog.Leveler) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(handler), file, nil
}

// ConsoleLogger returns a colorized logger writing to w. tint degrades to
// plain text when w is not a terminal.
func ConsoleLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: consoleTimeFormat,
	})
	return slog.New(handler)
}
