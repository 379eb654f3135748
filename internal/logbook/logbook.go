package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileName is the run journal written under .graft/logs.
const FileName = "runs.log"

// Level represents the severity of a journal entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logbook records one line per task outcome so earlier runs can be reviewed
// with `graft history`.
type Logbook struct {
	path string
	now  func() time.Time
}

// Option customizes a Logbook.
type Option func(*Logbook)

// WithClock overrides the clock used for entry timestamps.
func WithClock(clock func() time.Time) Option {
	return func(l *Logbook) {
		l.now = clock
	}
}

// New creates a logbook that writes to the provided path.
func New(path string, opts ...Option) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure dir: %w", err)
	}
	l := &Logbook{path: path, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Run groups the entries of one evaluation under a shared run stamp.
type Run struct {
	book  *Logbook
	stamp string
}

// StartRun opens a run and writes its header entry.
func (l *Logbook) StartRun(summary string) *Run {
	if l == nil {
		return nil
	}
	run := &Run{book: l, stamp: l.now().UTC().Format("20060102T150405Z")}
	run.Record(LevelInfo, "-", summary)
	return run
}

// Record appends an entry for one task. Write failures are ignored; the
// journal never interrupts a run.
func (r *Run) Record(level Level, taskID, message string) {
	if r == nil || r.book == nil {
		return
	}
	line := fmt.Sprintf("%s %-5s run=%s task=%s %s\n",
		r.book.now().UTC().Format(time.RFC3339),
		string(level),
		r.stamp,
		taskID,
		strings.Join(strings.Fields(message), " "),
	)
	file, err := os.OpenFile(r.book.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
}

// Tail returns up to maxLines of the most recent entries and the total count.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil || maxLines <= 0 {
		return nil, 0
	}
	file, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	total := len(lines)
	if total > maxLines {
		lines = lines[total-maxLines:]
	}
	return lines, total
}
