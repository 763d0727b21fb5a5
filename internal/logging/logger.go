// Package logging writes the smokeplan operations log.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileName is the log file created inside the logs directory.
const FileName = "smokeplan.log"

// Logger appends timestamped lines to <root>/logs/smokeplan.log so placements
// that failed or were rejected can be reviewed after the command exits.
// A nil *Logger discards everything.
type Logger struct {
	w   io.Writer
	c   io.Closer
	now func() time.Time
}

// New creates (or reuses) the log file in logDir.
func New(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{w: f, c: f, now: time.Now}, nil
}

// NewWriter logs to w using now for timestamps.
func NewWriter(w io.Writer, now func() time.Time) *Logger {
	if now == nil {
		now = time.Now
	}
	return &Logger{w: w, now: now}
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.c == nil {
		return nil
	}
	return l.c.Close()
}

// Printf writes a single timestamped line to the log.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.w == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	line = strings.TrimRight(line, "\n")
	timestamp := l.now().Format(time.RFC3339)
	fmt.Fprintf(l.w, "[%s] %s\n", timestamp, line)
}
