package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/cloud2303/ziptool/pkg/ziptool/config"
	"github.com/cloud2303/ziptool/pkg/ziptool/history"
)

func TestRunHistoryCleanEmptyPathUsesDefaultDir(t *testing.T) {
	// Registered before Setenv so it runs after the env restore and xdg
	// recomputes the real paths once the test is done.
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()

	setTestConfig(t, "history:\n  path: \"\"\n  retention_days: 30\n")

	store, err := history.New(config.HistoryDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := store.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}

	old, err := store.Record(history.Entry{Operation: history.OpZip, Root: "/old"})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	fresh, err := store.Record(history.Entry{Operation: history.OpZip, Root: "/fresh"})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	// Age the first entry past the retention window
	oldTime := time.Now().AddDate(0, 0, -45)
	oldPath := filepath.Join(config.HistoryDir(), old.ID+".json")
	if err := os.Chtimes(oldPath, oldTime, oldTime); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	if err := runHistoryClean(historyCleanCmd, nil); err != nil {
		t.Fatalf("runHistoryClean() error = %v", err)
	}

	entries, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].ID != fresh.ID {
		t.Errorf("remaining entries = %d, want only %s", len(entries), fresh.ID)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "shorter than max",
			input:    "zip-2026",
			maxLen:   40,
			expected: "zip-2026",
		},
		{
			name:     "exactly max",
			input:    "abcde",
			maxLen:   5,
			expected: "abcde",
		},
		{
			name:     "longer gets ellipsis",
			input:    "zip-2026-01-02T15-04-05-deadbeef",
			maxLen:   12,
			expected: "zip-2026-...",
		},
		{
			name:     "tiny max cuts raw",
			input:    "abcdef",
			maxLen:   2,
			expected: "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateString(tt.input, tt.maxLen); got != tt.expected {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}
