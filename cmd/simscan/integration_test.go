package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/simscan/internal/config"
	"github.com/nao1215/simscan/internal/database"
)

// sourceA and sourceB are structurally identical Verilog modules with
// renamed identifiers, so a scan must score their pair at 1.00.
const sourceA = `module counter(input clk, output reg [7:0] out);
  always @(posedge clk) begin
    out <= out + 1;
  end
endmodule
`

const sourceB = `module ticker(input clock, output reg [7:0] value);
  always @(posedge clock) begin
    value <= value + 1;
  end
endmodule
`

// writeArchive writes a gzip-compressed tar archive containing a single
// file named top.v with the given content.
func writeArchive(t *testing.T, path, content string) {
	t.Helper()

	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)
	hdr := &tar.Header{
		Name: "top.v",
		Mode: 0o644,
		Size: int64(len(content)),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(tw, content); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	var gzBuf bytes.Buffer
	gw := gzip.NewWriter(&gzBuf)
	if _, err := gw.Write(tarBuf.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, gzBuf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
}

// TestScanEndToEnd runs the whole scan path on a fabricated corpus: two
// archives, renamed but structurally identical sources, report written to
// disk and the run saved to a temporary database.
func TestScanEndToEnd(t *testing.T) {
	corpusDir := t.TempDir()
	writeArchive(t, filepath.Join(corpusDir, "alice.tar.gz"), sourceA)
	writeArchive(t, filepath.Join(corpusDir, "bob.tar.gz"), sourceB)

	cfg := config.NewConfig()
	cfg.CorpusDir = corpusDir
	cfg.TargetFile = "top.v"
	cfg.ReportDir = filepath.Join(t.TempDir(), "report")
	cfg.DBDir = t.TempDir()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("config invalid: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runScan(context.Background(), cfg, logger); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	t.Run("report file written", func(t *testing.T) {
		entries, err := os.ReadDir(cfg.ReportDir)
		if err != nil {
			t.Fatalf("report directory missing: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("report file count = %d, want 1", len(entries))
		}
		name := entries[0].Name()
		if !strings.HasPrefix(name, "ast_pairwise_report_") || !strings.HasSuffix(name, ".txt") {
			t.Errorf("unexpected report file name %q", name)
		}

		content, err := os.ReadFile(filepath.Join(cfg.ReportDir, name))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), ": 1.00") {
			t.Errorf("renamed identical sources should score 1.00:\n%s", content)
		}
	})

	t.Run("extracted directories cleaned up", func(t *testing.T) {
		entries, err := os.ReadDir(corpusDir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if e.IsDir() {
				t.Errorf("extracted directory %q left behind", e.Name())
			}
		}
	})

	t.Run("run recorded in history database", func(t *testing.T) {
		opts := database.DefaultOptions()
		opts.CreateIfNotExists = false
		db, err := database.Open(cfg.DBDir, opts)
		if err != nil {
			t.Fatalf("history database missing: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("run count = %d, want 1", len(runs))
		}
		if runs[0].PairCount != 1 {
			t.Errorf("pair count = %d, want 1", runs[0].PairCount)
		}
	})
}

// TestScanEndToEnd_NoCleanup verifies that --no-cleanup keeps the
// extracted directories for manual inspection.
func TestScanEndToEnd_NoCleanup(t *testing.T) {
	corpusDir := t.TempDir()
	writeArchive(t, filepath.Join(corpusDir, "alice.tar.gz"), sourceA)

	cfg := config.NewConfig()
	cfg.CorpusDir = corpusDir
	cfg.TargetFile = "top.v"
	cfg.ReportDir = filepath.Join(t.TempDir(), "report")
	cfg.DBDir = t.TempDir()
	cfg.NoCleanup = true
	cfg.NoSave = true

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runScan(context.Background(), cfg, logger); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(corpusDir, "alice")); err != nil {
		t.Errorf("expected extracted directory to remain: %v", err)
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	if _, err := database.Open(cfg.DBDir, opts); err == nil {
		t.Error("expected no database when --no-save is set")
	}
}
