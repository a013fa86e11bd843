package main

import (
	"context"
	"testing"
	"time"

	"github.com/nao1215/simscan/internal/database"
	"github.com/nao1215/simscan/internal/model"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history" {
			t.Errorf("expected use 'history', got %q", cmd.Use)
		}
	})

	t.Run("has limit flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
	})

	t.Run("has run flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("run") == nil {
			t.Error("expected run flag")
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("json") == nil {
			t.Error("expected json flag")
		}
	})
}

// TestListAndPrintRun tests listing and replaying stored runs against a
// temporary database.
func TestListAndPrintRun(t *testing.T) {
	t.Parallel()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	r := model.NewReport("corpus", "top.v", 5, 10)
	r.GeneratedAt = time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	r.Pairs = []model.PairResult{
		{FileA: "corpus/a/top.v", FileB: "corpus/b/top.v", Score: 0.9},
	}
	runID, err := db.SaveRun(ctx, r)
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	t.Run("lists stored runs", func(t *testing.T) {
		if err := listRuns(ctx, db, 10); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("prints stored run as text", func(t *testing.T) {
		if err := printRun(ctx, db, runID, false); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("prints stored run as JSON", func(t *testing.T) {
		if err := printRun(ctx, db, runID, true); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unknown run is an error", func(t *testing.T) {
		if err := printRun(ctx, db, 9999, false); err == nil {
			t.Error("expected error for unknown run ID")
		}
	})
}

// TestTruncate tests table-cell truncation.
func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short string unchanged", in: "top.v", n: 12, want: "top.v"},
		{name: "long string elided", in: "a-very-long-directory-name", n: 10, want: "a-very-..."},
		{name: "tiny width hard cut", in: "abcdef", n: 3, want: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
