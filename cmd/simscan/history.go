package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/simscan/internal/config"
	"github.com/nao1215/simscan/internal/database"
	"github.com/nao1215/simscan/internal/report"
)

// NewHistoryCmd creates the history command.
// This command browses past runs stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past scan runs",
		Long: `History lists runs recorded by previous scans and replays their reports.

Every scan is stored in the history database unless --no-save was given.
Listing shows the run ID, timestamp, corpus, target file, winnowing
parameters, and pair count. A stored run can be printed in full with
--run, using the same text format as the original report.

Examples:
  # List the ten most recent runs
  simscan history --limit 10

  # Print the ranked pairs of run 3
  simscan history --run 3

  # Print run 3 as JSON
  simscan history --run 3 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 for all)")
	cmd.Flags().Int64("run", 0,
		"Print the stored report of a specific run by ID")
	cmd.Flags().BoolP("json", "j", false,
		"Print the stored report in JSON format (requires --run)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("no run history yet (run 'simscan scan' first): %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if runID > 0 {
		return printRun(ctx, db, runID, jsonOutput)
	}
	return listRuns(ctx, db, limit)
}

// listRuns prints the stored runs, newest first.
func listRuns(ctx context.Context, db *database.ResultDB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println("\nUse 'simscan scan' to compare a corpus and record the result.")
		return nil
	}

	fmt.Printf("Recorded runs (%d):\n\n", len(runs))
	fmt.Printf("  %-6s  %-20s  %-20s  %-12s  %-8s  %s\n",
		"ID", "Date", "Corpus", "Target", "n/w", "Pairs")
	fmt.Println("  " + strings.Repeat("-", 80))
	for _, r := range runs {
		fmt.Printf("  %-6d  %-20s  %-20s  %-12s  %-8s  %d\n",
			r.ID,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			truncate(r.CorpusDir, 20),
			truncate(r.TargetFile, 12),
			fmt.Sprintf("%d/%d", r.NGram, r.Window),
			r.PairCount,
		)
	}
	fmt.Println("\nUse 'simscan history --run <id>' to print a stored report.")

	return nil
}

// printRun replays a stored run's report on stdout.
func printRun(ctx context.Context, db *database.ResultDB, runID int64, jsonOutput bool) error {
	stored, err := db.GetRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", runID, err)
	}

	var w report.Writer
	if jsonOutput {
		w = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	} else {
		w = report.NewTextWriter(os.Stdout)
	}
	_, err = w.Write(stored)
	return err
}

// truncate shortens s to at most n runes for table display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
