package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/nao1215/simscan/internal/similarity"
)

// Default configuration values.
const (
	// DefaultWorkers bounds the number of concurrent extraction and
	// comparison tasks. Pair counts grow quadratically in the number of
	// matched files, so an unbounded pool would exhaust file handles on
	// large corpora.
	DefaultWorkers = 10

	// DefaultReportDir is where text reports are written when no
	// directory is specified.
	DefaultReportDir = "report"

	// AppName is the application name used for XDG directory paths.
	AppName = "simscan"
)

// Config holds all options for one scan invocation.
// It is populated from CLI flags (optionally merged with the .simscan
// file) and passed through the application via dependency injection.
type Config struct {
	// CorpusDir is the directory containing submission archives.
	CorpusDir string

	// TargetFile is the filename to compare across submissions.
	// Discovered file names are matched by suffix against it.
	TargetFile string

	// TemplateFile is the instructor-supplied skeleton whose lines are
	// excluded verbatim from every submission. Empty disables exclusion.
	TemplateFile string

	// ReportDir is the directory the timestamped text report is written
	// to. Created if it does not exist.
	ReportDir string

	// Workers is the maximum number of concurrent tasks for both
	// extraction and comparison.
	Workers int

	// NGram is the substring length hashed during fingerprinting.
	NGram int

	// Window is the winnowing window size.
	Window int

	// DirectivePrefixes are the conditional-compilation markers whose
	// lines are dropped during canonicalization. Nil means the
	// canonicalizer defaults.
	DirectivePrefixes []string

	// JSONReport writes the report as JSON instead of text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport writes the report as GitHub-flavored Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// NoCleanup keeps the extracted working directories after the report
	// is written. Useful when inspecting flagged submissions by hand.
	NoCleanup bool

	// NoSave skips recording the run in the history database.
	NoSave bool

	// DBDir is the directory holding the run-history database.
	// Defaults to the XDG data directory.
	DBDir string

	// ConfigFilePath is an explicitly requested .simscan file. Empty
	// means search the current directory and then the home directory.
	ConfigFilePath string

	// Verbose enables debug-level log output.
	Verbose bool
}

// NewConfig creates a Config with defaults. Zero values would be invalid
// for most fields (worker count, winnowing parameters), so the defaults
// double as documentation of sensible settings.
func NewConfig() *Config {
	return &Config{
		ReportDir: DefaultReportDir,
		Workers:   DefaultWorkers,
		NGram:     similarity.DefaultNGram,
		Window:    similarity.DefaultWindow,
		DBDir:     XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for simscan.
// On Linux: ~/.local/share/simscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration, returning the first problem found as
// a sentinel error. Called once after flag parsing, before any extraction
// begins.
func (c *Config) Validate() error {
	if c.CorpusDir == "" {
		return ErrNoCorpusDir
	}
	if c.TargetFile == "" {
		return ErrNoTargetFile
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.NGram <= 0 {
		return ErrInvalidNGram
	}
	if c.Window <= 0 {
		return ErrInvalidWindow
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// ApplyAssignment overlays per-assignment settings from the config file.
// Assignment values replace built-in defaults; the caller re-applies any
// explicitly set flags afterwards so that flags always win.
func (c *Config) ApplyAssignment(a AssignmentConfig) {
	if a.Template != "" {
		c.TemplateFile = a.Template
	}
	if a.NGram > 0 {
		c.NGram = a.NGram
	}
	if a.Window > 0 {
		c.Window = a.Window
	}
	if a.Workers > 0 {
		c.Workers = a.Workers
	}
	if len(a.DirectivePrefixes) > 0 {
		c.DirectivePrefixes = a.DirectivePrefixes
	}
}
