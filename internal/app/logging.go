package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

const logPrefix = "smooai-log-viewer"

// DefaultLogPath is where --debug writes while the TUI owns the terminal.
func DefaultLogPath() string {
	return filepath.Join(os.TempDir(), "smooai-log-viewer.log")
}

// newLogger builds the process logger. The TUI cannot share the terminal
// with log output, so interactive runs log to a file only with debug on.
// Headless commands log warnings to stderr.
func newLogger(debug bool, path string, interactive bool) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if !interactive {
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts)), func() {}, nil
	}
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, handlerOpts)), func() {}, nil
	}

	if path == "" {
		path = DefaultLogPath()
	}
	f, err := tea.LogToFile(path, logPrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, handlerOpts)), func() { _ = f.Close() }, nil
}
