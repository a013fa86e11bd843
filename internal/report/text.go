package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/simscan/internal/model"
)

// textHeader is the banner line of the archived text report. The format
// is shared with earlier tooling so graders' scripts keep working.
const textHeader = "AST Pairwise Plagiarism Detection Report"

// TextWriter outputs the classic pairwise text report: one line per
// compared pair, sorted by descending score, scores formatted to two
// decimal places.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in text format.
func (w *TextWriter) Write(report *model.Report) (int, error) {
	report.Sort()

	var sb strings.Builder
	sb.WriteString(textHeader)
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("=", 50))
	sb.WriteByte('\n')
	for _, p := range report.Pairs {
		fmt.Fprintf(&sb, "Similarity between %s and %s: %.2f\n", p.FileA, p.FileB, p.Score)
	}

	return io.WriteString(w.output, sb.String())
}
