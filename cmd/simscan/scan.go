package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/simscan/internal/canonical"
	"github.com/nao1215/simscan/internal/config"
	"github.com/nao1215/simscan/internal/database"
	"github.com/nao1215/simscan/internal/log"
	"github.com/nao1215/simscan/internal/model"
	"github.com/nao1215/simscan/internal/pipeline"
	"github.com/nao1215/simscan/internal/report"
	"github.com/nao1215/simscan/internal/similarity"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [corpus-dir]",
		Short: "Rank submission pairs by structural similarity",
		Long: `Scan extracts every submission archive found under the corpus directory,
locates the target source file in each, and scores every pair of
submissions by winnowing-fingerprint similarity of their syntax trees.

The ranked report is written to the report directory as a timestamped
text file and echoed to stdout. Each run is also recorded in the history
database unless --no-save is given.

Examples:
  # Compare top.v across all archives under ./submissions
  simscan scan -t top.v ./submissions

  # Exclude the instructor template and keep extracted directories
  simscan scan -t top.v -T skeleton/top.v --no-cleanup ./submissions

  # Markdown report with custom winnowing sensitivity
  simscan scan -t alu.v --ngram 4 --window 8 -m ./submissions

Configuration file (.simscan) example:
  defaults:
    workers: 8
  assignments:
    top.v:
      template: skeleton/top.v
      ngram: 4
      window: 8`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}

	// Target selection flags
	cmd.Flags().StringP("target", "t", "",
		"Target filename matched by suffix in every submission (required)")
	cmd.Flags().StringP("template", "T", "",
		"Template file whose lines are excluded from every submission")

	// Scan behavior flags
	cmd.Flags().IntP("workers", "b", config.DefaultWorkers,
		"Number of concurrent extraction and comparison tasks")
	cmd.Flags().Int("ngram", similarity.DefaultNGram,
		"N-gram length for fingerprinting")
	cmd.Flags().Int("window", similarity.DefaultWindow,
		"Winnowing window size")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .simscan in current or home directory)")

	// Report flags
	cmd.Flags().StringP("report-dir", "r", config.DefaultReportDir,
		"Directory the timestamped report file is written to")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")

	// Housekeeping flags
	cmd.Flags().Bool("no-cleanup", false,
		"Keep extracted submission directories after the report is written")
	cmd.Flags().Bool("no-save", false,
		"Do not record this run in the history database")
	cmd.Flags().Bool("anonymize-logs", false,
		"Mask student-identifying path components in log output")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	anonymize, err := cmd.Flags().GetBool("anonymize-logs")
	if err != nil {
		return err
	}
	logger := log.NewLogger(os.Stderr, cfg.Verbose, anonymize)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the optional
// .simscan file. Assignment settings from the file replace built-in
// defaults, and explicitly set flags win over both.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.CorpusDir = args[0]

	var err error

	cfg.TargetFile, err = cmd.Flags().GetString("target")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load assignment configurations from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyAssignment(cf.GetAssignmentConfig(cfg.TargetFile))
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Flags set on the command line override the config file.
	if cmd.Flags().Changed("template") {
		cfg.TemplateFile, err = cmd.Flags().GetString("template")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers, err = cmd.Flags().GetInt("workers")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("ngram") {
		cfg.NGram, err = cmd.Flags().GetInt("ngram")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("window") {
		cfg.Window, err = cmd.Flags().GetInt("window")
		if err != nil {
			return nil, err
		}
	}

	cfg.ReportDir, err = cmd.Flags().GetString("report-dir")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.NoCleanup, err = cmd.Flags().GetBool("no-cleanup")
	if err != nil {
		return nil, err
	}

	cfg.NoSave, err = cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"dir", cfg.CorpusDir,
		"file", cfg.TargetFile,
		"workers", cfg.Workers,
	)

	canonOpts := []canonical.Option{}
	if len(cfg.DirectivePrefixes) > 0 {
		canonOpts = append(canonOpts, canonical.WithDirectivePrefixes(cfg.DirectivePrefixes))
	}
	canon, err := canonical.New(cfg.TemplateFile, canonOpts...)
	if err != nil {
		return err
	}

	p := pipeline.New(canon,
		pipeline.WithLogger(logger),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithWinnowing(cfg.NGram, cfg.Window),
	)

	startTime := time.Now()
	fmt.Printf("Scanning %s for %s...\n", cfg.CorpusDir, cfg.TargetFile)

	scanReport, submissions, err := p.Run(ctx, cfg.CorpusDir, cfg.TargetFile)
	if !cfg.NoCleanup {
		defer pipeline.Cleanup(submissions, logger)
	}
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Scan completed in %s: %d candidates, %d pairs\n\n",
		elapsed.Round(time.Millisecond), len(scanReport.Candidates), len(scanReport.Pairs))

	if err := outputReport(cfg, scanReport); err != nil {
		return err
	}

	if !cfg.NoSave {
		if err := saveReport(ctx, cfg, scanReport, logger); err != nil {
			logger.Error("failed to save run", "error", err)
		}
	}

	return nil
}

// outputReport writes the report file and echoes the report to stdout.
func outputReport(cfg *config.Config, scanReport *model.Report) error {
	if err := os.MkdirAll(cfg.ReportDir, 0750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(cfg.ReportDir, report.FileName(scanReport.GeneratedAt))
	switch {
	case cfg.JSONReport:
		path = jsonReportPath(path)
	case cfg.MarkdownReport:
		path = markdownReportPath(path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Path derives from a fixed name pattern
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewMultiWriter(
			report.NewJSONWriter(f, report.WithPrettyPrint()),
			report.NewJSONWriter(os.Stdout, report.WithPrettyPrint()),
		)
	case cfg.MarkdownReport:
		w = report.NewMultiWriter(
			report.NewMarkdownWriter(f),
			report.NewMarkdownWriter(os.Stdout),
		)
	default:
		w = report.NewMultiWriter(
			report.NewTextWriter(f),
			report.NewTextWriter(os.Stdout),
		)
	}

	if _, err := w.Write(scanReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("\nReport written to %s\n", path)
	return nil
}

// jsonReportPath swaps the .txt extension for .json.
func jsonReportPath(path string) string {
	return path[:len(path)-len(".txt")] + ".json"
}

// markdownReportPath swaps the .txt extension for .md.
func markdownReportPath(path string) string {
	return path[:len(path)-len(".txt")] + ".md"
}

// saveReport records the run in the history database.
func saveReport(ctx context.Context, cfg *config.Config, scanReport *model.Report, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runID, err := db.SaveRun(ctx, scanReport)
	if err != nil {
		return err
	}
	logger.Info("run saved", "runID", runID)
	return nil
}
