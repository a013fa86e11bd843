package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/simscan/internal/model"
)

// highScoreThreshold is the score above which a pair is called out in the
// markdown summary alert.
const highScoreThreshold = 0.8

// MarkdownWriter outputs reports in GitHub Flavored Markdown, designed
// for sharing with reviewers and course staff.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	report.Sort()

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writePairs(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("Structural Similarity Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Corpus", "`" + report.CorpusDir + "`"},
			{"Target File", "`" + report.TargetFile + "`"},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Candidates", strconv.Itoa(len(report.Candidates))},
			{"Pairs", strconv.Itoa(len(report.Pairs))},
			{"Winnowing", fmt.Sprintf("n=%d, w=%d", report.NGram, report.Window)},
		},
	})
	md.PlainText("")
}

// writeSummary writes an alert describing how many pairs scored above the
// review threshold.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.Report) {
	high := 0
	for _, p := range report.Pairs {
		if p.Score >= highScoreThreshold {
			high++
		}
	}

	switch {
	case high > 0:
		md.Warningf("%d pair(s) scored %.2f or higher and should be reviewed by hand.", high, highScoreThreshold)
	case len(report.Pairs) > 0:
		md.Tip("No pair reached the review threshold.")
	default:
		md.Note("No comparable pairs were found in the corpus.")
	}
	md.PlainText("")
}

// writePairs writes the ranked pair table.
func (w *MarkdownWriter) writePairs(md *markdown.Markdown, report *model.Report) {
	md.H2("Ranked Pairs")
	md.PlainText("")

	if len(report.Pairs) == 0 {
		md.PlainText("No pairs to report.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Pairs))
	for i, p := range report.Pairs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			"`" + p.FileA + "`",
			"`" + p.FileB + "`",
			fmt.Sprintf("%.2f", p.Score),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "File A", "File B", "Score"},
		Rows:   rows,
	})
	md.PlainText("")
}
