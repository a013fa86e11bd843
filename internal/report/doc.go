// Package report writes similarity reports in multiple output formats.
//
// This package contains writers for different output formats:
//   - TextWriter: The classic pairwise text report for archiving
//   - MarkdownWriter: GitHub Flavored Markdown for sharing with reviewers
//   - JSONWriter: Structured JSON for tool integration
//
// Writers sort the report (descending score, stable on ties) before
// emitting it, so the output never depends on the completion order of the
// concurrent comparison tasks that produced the results.
package report
