package logbook

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	run := book.StartRun("run started")
	for i := 0; i < 4; i++ {
		run.Record(LevelInfo, "t1", "entry-"+string(rune('0'+i)))
	}
	lines, total := book.Tail(3)
	if total != 5 {
		t.Fatalf("total lines = %d, want 5", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-1", "entry-2", "entry-3"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestRecordFormatsRunAndTask(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }
	book, err := New(filepath.Join(t.TempDir(), "logs", "runs.log"), WithClock(clock))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	run := book.StartRun("2/4 completed")
	run.Record(LevelWarn, "a5001fc", "no code\nblocks   found")
	lines, _ := book.Tail(10)
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	want := "2026-10-18T09:30:00Z WARN  run=20261018T093000Z task=a5001fc no code blocks found"
	if lines[1] != want {
		t.Fatalf("line = %q\nwant   %q", lines[1], want)
	}
}

func TestTailMissingFile(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "runs.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	lines, total := book.Tail(5)
	if lines != nil || total != 0 {
		t.Fatalf("expected empty tail, got %v %d", lines, total)
	}
	var nilBook *Logbook
	nilBook.StartRun("ignored").Record(LevelInfo, "x", "ignored")
}
