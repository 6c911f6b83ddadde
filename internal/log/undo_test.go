package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("recording"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func TestUndoRenameOperation(t *testing.T) {
	tempDir := t.TempDir()
	oldPath := filepath.Join(tempDir, "Family_Guy_16.02.23_21-40_pro7_25_TVOON_DE.mpg.HQ.avi")
	newPath := filepath.Join(tempDir, "Family Guy 12.19 [HQ] (Fifteen Minutes of Shame).avi")
	touch(t, newPath)

	result := UndoOperation(OperationLog{
		ID:         "test_op",
		Timestamp:  time.Now(),
		Type:       OpRename,
		SourcePath: oldPath,
		DestPath:   newPath,
		Success:    true,
	})
	if !result.Success {
		t.Fatalf("UndoOperation failed: %v", result.Error)
	}
	if _, err := os.Stat(oldPath); err != nil {
		t.Error("Original file should exist after undo")
	}
	if _, err := os.Stat(newPath); err == nil {
		t.Error("Renamed file should not exist after undo")
	}
}

func TestUndoRenameOperationFailures(t *testing.T) {
	tempDir := t.TempDir()
	existing := filepath.Join(tempDir, "existing.avi")
	renamed := filepath.Join(tempDir, "renamed.avi")
	touch(t, existing)
	touch(t, renamed)

	tests := []struct {
		name string
		op   OperationLog
	}{
		{name: "missing destination", op: OperationLog{Type: OpRename, SourcePath: existing}},
		{name: "destination gone", op: OperationLog{Type: OpRename, SourcePath: filepath.Join(tempDir, "x.avi"), DestPath: filepath.Join(tempDir, "gone.avi")}},
		{name: "source exists", op: OperationLog{Type: OpRename, SourcePath: existing, DestPath: renamed}},
		{name: "unknown type", op: OperationLog{Type: "delete", SourcePath: existing}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UndoOperation(tt.op)
			if result.Success || result.Error == nil {
				t.Errorf("UndoOperation() = %+v, want failure", result)
			}
		})
	}

	// Nothing was overwritten
	for _, p := range []string{existing, renamed} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s should still exist: %v", p, err)
		}
	}
}

func TestUndoSession(t *testing.T) {
	tempDir := t.TempDir()
	a := filepath.Join(tempDir, "a_TVOON.avi")
	aNew := filepath.Join(tempDir, "A.avi")
	b := filepath.Join(tempDir, "b_TVOON.avi")
	bNew := filepath.Join(tempDir, "B.avi")
	touch(t, aNew)
	touch(t, b) // the second rename was never performed

	session := &LogSession{
		Metadata: SessionMetadata{SessionID: "test_session"},
		Operations: []OperationLog{
			{ID: "test_session_0", Type: OpRename, SourcePath: a, DestPath: aNew, Success: true},
			{ID: "test_session_1", Type: OpRename, SourcePath: b, DestPath: bNew, Success: false},
		},
	}

	successful, failed, errs := UndoSession(session)
	if successful != 1 || failed != 0 || len(errs) != 0 {
		t.Errorf("UndoSession() = %d, %d, %v; want 1, 0, none", successful, failed, errs)
	}
	if _, err := os.Stat(a); err != nil {
		t.Error("first recording should be restored")
	}
}

func TestFindLatestSessionAndMarkUndone(t *testing.T) {
	dir := t.TempDir()

	older := fixedJournal(t, dir)
	older.now = func() time.Time { return time.Date(2016, 2, 1, 12, 0, 0, 0, time.UTC) }
	older.Start("otr-tidy", []string{"old"})
	older.LogRename("x", "y", true, nil)
	if _, err := older.End(); err != nil {
		t.Fatal(err)
	}

	newer := fixedJournal(t, dir)
	newer.Start("otr-tidy", []string{"new"})
	newer.LogRename("x", "y", true, nil)
	newPath, err := newer.End()
	if err != nil {
		t.Fatal(err)
	}

	os.WriteFile(filepath.Join(dir, "2099-01-01_000000.000.json"), []byte("not json"), 0644)

	session, path, err := FindLatestSession(dir)
	if err != nil {
		t.Fatalf("FindLatestSession() error = %v", err)
	}
	if path != newPath || session.Metadata.CommandArgs[1] != "new" {
		t.Fatalf("FindLatestSession() = %s %v, want newest session", path, session.Metadata.CommandArgs)
	}

	if err := MarkUndone(path, session, time.Now()); err != nil {
		t.Fatalf("MarkUndone() error = %v", err)
	}
	session, _, err = FindLatestSession(dir)
	if err != nil {
		t.Fatalf("FindLatestSession() error = %v", err)
	}
	if session.Metadata.CommandArgs[1] != "old" {
		t.Errorf("undone session should be skipped, got %v", session.Metadata.CommandArgs)
	}

	summaries, err := GetSessionSummaries(dir)
	if err != nil {
		t.Fatalf("GetSessionSummaries() error = %v", err)
	}
	if len(summaries) != 2 || summaries[0].Session.Metadata.UndoneAt == nil {
		t.Errorf("GetSessionSummaries() = %+v, want newest (undone) first", summaries)
	}
}

func TestFindLatestSessionEmpty(t *testing.T) {
	_, _, err := FindLatestSession(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("FindLatestSession() error = %v, want ErrNoSession", err)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		time     time.Time
		expected string
	}{
		{name: "just now", time: now.Add(-30 * time.Second), expected: "just now"},
		{name: "1 minute ago", time: now.Add(-1 * time.Minute), expected: "1 minute ago"},
		{name: "5 minutes ago", time: now.Add(-5 * time.Minute), expected: "5 minutes ago"},
		{name: "1 hour ago", time: now.Add(-1 * time.Hour), expected: "1 hour ago"},
		{name: "3 hours ago", time: now.Add(-3 * time.Hour), expected: "3 hours ago"},
		{name: "1 day ago", time: now.Add(-24 * time.Hour), expected: "1 day ago"},
		{name: "3 days ago", time: now.Add(-72 * time.Hour), expected: "3 days ago"},
		{
			name:     "8 days ago",
			time:     now.Add(-8 * 24 * time.Hour),
			expected: now.Add(-8 * 24 * time.Hour).Format("Jan 2, 2006"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatRelativeTime(tt.time)
			if result != tt.expected {
				t.Errorf("formatRelativeTime(%v) = %s, want %s", tt.time, result, tt.expected)
			}
		})
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n        int
		expected string
	}{
		{0, "s"},
		{1, ""},
		{2, "s"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n_%d", tt.n), func(t *testing.T) {
			if result := plural(tt.n); result != tt.expected {
				t.Errorf("plural(%d) = %q, want %q", tt.n, result, tt.expected)
			}
		})
	}
}
