package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
)

// FileName is the debug log written under .graft/logs.
const FileName = "graft.log"

// Logger appends structured lines to .graft/logs/graft.log so a run can be
// inspected after the console output is gone.
type Logger struct {
	*charmlog.Logger
	file *os.File
}

// Options controls where log lines go.
type Options struct {
	// Verbose also writes debug-level lines to Stderr.
	Verbose bool
	Stderr  io.Writer
}

// New creates (or reuses) the log file inside logDir.
func New(logDir string, opts Options) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	var out io.Writer = f
	level := charmlog.InfoLevel
	if opts.Verbose {
		level = charmlog.DebugLevel
		if opts.Stderr != nil {
			out = io.MultiWriter(f, opts.Stderr)
		}
	}
	logger := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02T15:04:05Z07:00",
		Level:           level,
		Prefix:          "graft",
	})
	logger.SetFormatter(charmlog.LogfmtFormatter)
	return &Logger{Logger: logger, file: f}, nil
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *Logger {
	return &Logger{Logger: charmlog.New(io.Discard)}
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
