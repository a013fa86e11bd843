package config

import "errors"

// Configuration validation errors returned by Config.Validate().
// Sentinel errors let callers use errors.Is() while still carrying a
// human-readable message.
var (
	// ErrNoCorpusDir is returned when no corpus directory is specified.
	ErrNoCorpusDir = errors.New("no corpus directory specified: pass the submissions directory as an argument")

	// ErrNoTargetFile is returned when no target filename is specified.
	ErrNoTargetFile = errors.New("no target file specified: use --target to name the file to compare")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidNGram is returned when the n-gram length is not positive.
	ErrInvalidNGram = errors.New("invalid ngram length: must be positive")

	// ErrInvalidWindow is returned when the winnowing window is not positive.
	ErrInvalidWindow = errors.New("invalid window size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
