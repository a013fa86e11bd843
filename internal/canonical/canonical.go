package canonical

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultDirectivePrefixes are the conditional-compilation markers whose
// lines are dropped during canonicalization. Both the Verilog backtick
// form and the C preprocessor form are covered by default.
var DefaultDirectivePrefixes = []string{
	"`ifdef", "`ifndef", "`endif",
	"#ifdef", "#ifndef", "#endif",
}

// UnreadableError reports that a source file could not be read.
// Callers treat the file as unparsable: every pair involving it scores 0.
type UnreadableError struct {
	// Path is the file that could not be read.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *UnreadableError) Error() string {
	return fmt.Sprintf("unreadable source file %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *UnreadableError) Unwrap() error { return e.Err }

// Canonicalizer strips comments, directive lines, and template boilerplate
// from source files. A Canonicalizer is immutable after construction and
// safe for concurrent use.
type Canonicalizer struct {
	// templateLines holds each template line verbatim, including its
	// trailing newline. Lines present here are dropped from every source.
	templateLines map[string]struct{}

	// directivePrefixes are the markers that identify directive lines.
	directivePrefixes []string
}

// Option configures a Canonicalizer.
type Option func(*Canonicalizer)

// WithDirectivePrefixes replaces the default conditional-compilation
// markers. An empty slice disables directive-line removal.
func WithDirectivePrefixes(prefixes []string) Option {
	return func(c *Canonicalizer) {
		c.directivePrefixes = prefixes
	}
}

// New creates a Canonicalizer. templatePath may be empty, in which case no
// template exclusion is performed. A template that is specified but cannot
// be read is a construction error: silently comparing with boilerplate
// included would inflate every score.
func New(templatePath string, opts ...Option) (*Canonicalizer, error) {
	c := &Canonicalizer{
		templateLines:     make(map[string]struct{}),
		directivePrefixes: DefaultDirectivePrefixes,
	}
	for _, opt := range opts {
		opt(c)
	}

	if templatePath != "" {
		text, err := readNormalized(templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read template file: %w", err)
		}
		for _, line := range splitKeepNewline(text) {
			c.templateLines[line] = struct{}{}
		}
	}
	return c, nil
}

// Canonicalize reads the source file and returns its canonical text.
// On read failure the error is an *UnreadableError.
func (c *Canonicalizer) Canonicalize(sourcePath string) (string, error) {
	text, err := readNormalized(sourcePath)
	if err != nil {
		return "", &UnreadableError{Path: sourcePath, Err: err}
	}
	return c.CanonicalizeText(text), nil
}

// CanonicalizeText canonicalizes already-loaded source text.
// Processing order per line: template exclusion on the raw line, block
// comment removal, directive-line removal, line comment truncation.
func (c *Canonicalizer) CanonicalizeText(text string) string {
	var out strings.Builder
	out.Grow(len(text))

	inBlock := false
	for _, line := range splitKeepNewline(text) {
		if _, ok := c.templateLines[line]; ok {
			continue
		}

		var kept string
		kept, inBlock = stripBlockComment(line, inBlock)
		if kept == "" {
			continue
		}

		if c.isDirectiveLine(kept) {
			continue
		}

		if idx := strings.Index(kept, "//"); idx >= 0 {
			kept = kept[:idx] + "\n"
		}
		out.WriteString(kept)
	}
	return out.String()
}

// isDirectiveLine reports whether the line's first non-whitespace token
// starts with one of the configured directive markers.
func (c *Canonicalizer) isDirectiveLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range c.directivePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// stripBlockComment removes /* ... */ regions from one line.
// It returns the surviving text and whether the scanner is still inside a
// block comment afterwards. Text before an opening marker and after a
// closing marker survives; a line consumed entirely by comment returns ""
// so its newline is dropped with it.
func stripBlockComment(line string, inBlock bool) (string, bool) {
	var sb strings.Builder
	for {
		if inBlock {
			idx := strings.Index(line, "*/")
			if idx < 0 {
				return sb.String(), true
			}
			line = line[idx+2:]
			inBlock = false
			continue
		}

		idx := strings.Index(line, "/*")
		if idx < 0 {
			sb.WriteString(line)
			return sb.String(), false
		}
		sb.WriteString(line[:idx])
		line = line[idx+2:]
		inBlock = true
	}
}

// readNormalized reads a file and normalizes its content to NFC.
func readNormalized(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Candidate paths come from the extracted corpus
	if err != nil {
		return "", err
	}
	text, _, err := transform.String(norm.NFC, string(data))
	if err != nil {
		// Undecodable bytes are kept as-is; the parser tolerates them.
		return string(data), nil
	}
	return text, nil
}

// splitKeepNewline splits text into lines with the trailing newline kept
// attached, matching the template-exclusion contract of verbatim-line
// comparison. A final line without a newline is returned as-is.
func splitKeepNewline(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
