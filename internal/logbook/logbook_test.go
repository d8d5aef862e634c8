package logbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJournalAppendAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "journal.log")
	j, err := New(path)
	if err != nil {
		t.Fatalf("new journal: %v", err)
	}
	j.Info("planned %d tasks", 3)
	j.Warn("2 tasks overflowed")
	j.Error("roster missing")

	lines := j.Tail(10)
	if len(lines) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "INFO") || !strings.Contains(lines[0], "planned 3 tasks") {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if !strings.Contains(lines[2], "ERROR") {
		t.Fatalf("levels should be recorded: %q", lines[2])
	}
}

func TestJournalTailLimitsToMostRecent(t *testing.T) {
	j, err := New(filepath.Join(t.TempDir(), "journal.log"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		j.Info("entry %d", i)
	}
	lines := j.Tail(2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[1], "entry 4") {
		t.Fatalf("tail should keep the newest entries: %v", lines)
	}
}

func TestJournalNilReceiverIsSafe(t *testing.T) {
	var j *Journal
	j.Info("ignored")
	if j.Path() != "" {
		t.Fatalf("nil journal has no path")
	}
	if lines := j.Tail(5); lines != nil {
		t.Fatalf("nil journal has no entries")
	}
}

func TestJournalTailMissingFile(t *testing.T) {
	j, err := New(filepath.Join(t.TempDir(), "journal.log"))
	if err != nil {
		t.Fatal(err)
	}
	if _, statErr := os.Stat(j.Path()); !os.IsNotExist(statErr) {
		t.Fatalf("file should not exist before the first append")
	}
	if lines := j.Tail(5); lines != nil {
		t.Fatalf("missing file should read as empty")
	}
}
