package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/simscan/internal/model"
)

// testReport builds a small sorted report for storage tests.
func testReport() *model.Report {
	r := model.NewReport("corpus", "top.v", 5, 10)
	r.Candidates = []model.Candidate{
		{Path: "corpus/alice/top.v", Digest: "aa"},
		{Path: "corpus/bob/top.v", Digest: "bb"},
	}
	r.Pairs = []model.PairResult{
		{FileA: "corpus/alice/top.v", FileB: "corpus/bob/top.v", Score: 0.75},
	}
	return r
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database file with default options", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Errorf("close failed: %v", err)
		}
	})

	t.Run("fails when database missing and creation disabled", func(t *testing.T) {
		t.Parallel()

		opts := DefaultOptions()
		opts.CreateIfNotExists = false
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Fatal("expected error for missing database")
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatal(err)
		}

		opts := DefaultOptions()
		opts.CreateIfNotExists = false
		db2, err := Open(dir, opts)
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		if err := db2.Close(); err != nil {
			t.Errorf("close failed: %v", err)
		}
	})
}

func TestResultDB_SaveAndGetRun(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	report := testReport()
	report.GeneratedAt = time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	runID, err := db.SaveRun(ctx, report)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID <= 0 {
		t.Fatalf("run ID = %d, want positive", runID)
	}

	got, err := db.GetRun(ctx, runID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.CorpusDir != "corpus" || got.TargetFile != "top.v" {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if got.NGram != 5 || got.Window != 10 {
		t.Errorf("winnowing params mismatch: n=%d w=%d", got.NGram, got.Window)
	}
	if !got.GeneratedAt.Equal(report.GeneratedAt) {
		t.Errorf("timestamp = %v, want %v", got.GeneratedAt, report.GeneratedAt)
	}
	if len(got.Pairs) != 1 {
		t.Fatalf("pair count = %d, want 1", len(got.Pairs))
	}
	if got.Pairs[0].Score != 0.75 {
		t.Errorf("score = %v, want 0.75", got.Pairs[0].Score)
	}
	if len(got.Candidates) != 2 {
		t.Fatalf("candidate count = %d, want 2", len(got.Candidates))
	}
	if got.Candidates[1].Digest != "bb" {
		t.Errorf("digest = %q, want %q", got.Candidates[1].Digest, "bb")
	}
}

func TestResultDB_GetRun_NotFound(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.GetRun(context.Background(), 12345); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("error = %v, want ErrRunNotFound", err)
	}
}

func TestResultDB_ListRuns(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	for i := range 3 {
		r := testReport()
		r.GeneratedAt = base.Add(time.Duration(i) * time.Hour)
		if _, err := db.SaveRun(ctx, r); err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		runs, err := db.ListRuns(ctx, 0)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("run count = %d, want 3", len(runs))
		}
		if !runs[0].Timestamp.After(runs[2].Timestamp) {
			t.Errorf("runs not sorted newest first: %v", runs)
		}
		if runs[0].PairCount != 1 {
			t.Errorf("pair count = %d, want 1", runs[0].PairCount)
		}
	})

	t.Run("limit applies", func(t *testing.T) {
		runs, err := db.ListRuns(ctx, 2)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("run count = %d, want 2", len(runs))
		}
	})
}
