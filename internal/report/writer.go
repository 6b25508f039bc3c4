package report

import (
	"errors"
	"io"

	"github.com/nao1215/rbpscraper/internal/model"
)

// ErrNilReport is returned when a writer is given a nil report or summary.
var ErrNilReport = errors.New("report is nil")

// Report is one crawl run as rendered by the writers.
type Report struct {
	// Summary is the outcome of the run.
	Summary *model.RunSummary `json:"summary"`

	// Library contains the rows written to the library CSV.
	// Writers only list them in verbose or full formats.
	Library []model.LibraryRow `json:"library,omitempty"`
}

// HistoryEntry is one stored run as listed by the history command.
type HistoryEntry struct {
	// ID is the database id of the run.
	ID int64 `json:"id"`

	// Summary is the stored outcome of the run.
	Summary *model.RunSummary `json:"summary"`
}

// Writer defines the interface for report output.
// Implementations write run summaries in various formats.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *Report) (int, error)

	// WriteHistory outputs a list of stored runs.
	WriteHistory(entries []HistoryEntry) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *Report) (int, error) {
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

// WriteHistory outputs the run list to all configured Writers.
func (m *MultiWriter) WriteHistory(entries []HistoryEntry) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteHistory(entries)
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

// validate rejects reports the writers cannot render.
func validate(report *Report) error {
	if report == nil || report.Summary == nil {
		return ErrNilReport
	}
	return nil
}

// timeFormat is the timestamp layout used by the text and Markdown writers.
const timeFormat = "2006-01-02 15:04:05 MST"

// statusText returns a short status for a summary.
func statusText(s *model.RunSummary) string {
	if !s.Succeeded() {
		return "ERROR - " + s.Error
	}
	if s.SkippedCount() > 0 {
		return "Complete (with skipped articles)"
	}
	return "Complete"
}
