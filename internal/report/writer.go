package report

import (
	"io"
	"time"

	"github.com/nao1215/simscan/internal/model"
)

// Writer defines the interface for report output.
// Implementations write the pair results in various formats.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.Report) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously, which is how the
// scan command outputs to both the terminal and the report file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written; stops on the first error encountered.
func (m *MultiWriter) Write(report *model.Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// FileName returns the timestamped report filename for a generation time,
// e.g. "ast_pairwise_report_2026_08_25_14_03_59.txt".
func FileName(t time.Time) string {
	return "ast_pairwise_report_" + t.Format("2006_01_02_15_04_05") + ".txt"
}
