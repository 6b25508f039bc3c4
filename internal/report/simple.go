package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nao1215/rbpscraper/internal/model"
)

// ruleWidth is the width of the section rules in text output.
const ruleWidth = 70

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with plain ASCII sections.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with nothing to list are shown.
	showEmpty bool

	// verbose adds the library rows to the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with the library rows.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *Report) (int, error) {
	if err := validate(report); err != nil {
		return 0, err
	}

	var sb strings.Builder
	w.writeHeader(&sb, report.Summary)
	w.writeResults(&sb, report.Summary)
	w.writeSkipped(&sb, report.Summary)
	if w.verbose {
		w.writeLibrary(&sb, report.Library)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteHistory outputs stored runs as a table, newest first as given.
func (w *SimpleWriter) WriteHistory(entries []HistoryEntry) (int, error) {
	if len(entries) == 0 {
		return w.output.Write([]byte("No runs recorded.\n"))
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Started", "Label", "Descriptor", "Indexed", "Archived", "Skipped", "Status"})

	var indexed, archived, skipped int
	for _, e := range entries {
		s := e.Summary
		if s == nil {
			continue
		}
		status := "ok"
		if !s.Succeeded() {
			status = "error"
		}
		t.AppendRow(table.Row{
			e.ID, s.StartedAt.Format(timeFormat), s.Label, truncateString(s.Descriptor, 40),
			s.Indexed, s.Archived, s.SkippedCount(), status,
		})
		indexed += s.Indexed
		archived += s.Archived
		skipped += s.SkippedCount()
	}
	t.AppendFooter(table.Row{"", "", "", "Total", indexed, archived, skipped, ""})

	return w.output.Write([]byte(t.Render() + "\n"))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *model.RunSummary) {
	sb.WriteString("\n")
	writeRule(sb, "=")
	sb.WriteString("                       RBPSCRAPER RUN REPORT\n")
	writeRule(sb, "=")
	sb.WriteString("\n")

	if s.RunUUID != "" {
		fmt.Fprintf(sb, "Run:            %s\n", s.RunUUID)
	}
	fmt.Fprintf(sb, "Descriptor:     %s (%s)\n", s.Descriptor, s.Label)
	fmt.Fprintf(sb, "Search URL:     %s\n", s.SearchURL)
	fmt.Fprintf(sb, "Output:         %s\n", s.OutputDir)
	if !s.StartedAt.IsZero() {
		fmt.Fprintf(sb, "Started:        %s\n", s.StartedAt.Format(timeFormat))
	}
	if d := s.Duration(); d > 0 {
		fmt.Fprintf(sb, "Duration:       %s\n", d.Round(time.Millisecond))
	}
	fmt.Fprintf(sb, "Status:         %s\n", statusText(s))
	sb.WriteString("\n")
}

// writeResults writes the counters section.
func (w *SimpleWriter) writeResults(sb *strings.Builder, s *model.RunSummary) {
	writeRule(sb, "-")
	sb.WriteString("RESULTS\n")
	writeRule(sb, "-")
	sb.WriteString("\n")

	fmt.Fprintf(sb, "  Search pages:       %d\n", s.TotalPages)
	fmt.Fprintf(sb, "  Indexed articles:   %d\n", s.Indexed)
	fmt.Fprintf(sb, "  Archived articles:  %d\n", s.Archived)
	fmt.Fprintf(sb, "  Skipped articles:   %d\n", s.SkippedCount())
	fmt.Fprintf(sb, "  Re-authentications: %d\n", s.Reauthentications)
	if s.LibraryPath != "" {
		fmt.Fprintf(sb, "  Library:            %s\n", s.LibraryPath)
	}
	sb.WriteString("\n")
}

// writeSkipped lists the ids that could not be extracted.
func (w *SimpleWriter) writeSkipped(sb *strings.Builder, s *model.RunSummary) {
	if s.SkippedCount() == 0 && !w.showEmpty {
		return
	}

	writeRule(sb, "-")
	sb.WriteString("SKIPPED ARTICLES\n")
	writeRule(sb, "-")
	sb.WriteString("\n")

	if s.SkippedCount() == 0 {
		sb.WriteString("  None\n\n")
		return
	}
	for _, id := range s.Skipped {
		fmt.Fprintf(sb, "  [-] %s\n", id)
	}
	sb.WriteString("\n")
}

// writeLibrary lists the library rows.
func (w *SimpleWriter) writeLibrary(sb *strings.Builder, rows []model.LibraryRow) {
	if len(rows) == 0 && !w.showEmpty {
		return
	}

	writeRule(sb, "-")
	sb.WriteString("LIBRARY\n")
	writeRule(sb, "-")
	sb.WriteString("\n")

	if len(rows) == 0 {
		sb.WriteString("  No articles\n\n")
		return
	}
	for _, r := range rows {
		fmt.Fprintf(sb, "  * %s  %s\n", r.ID, r.Title)
		fmt.Fprintf(sb, "    %s, %s, %s\n", r.Author, r.Source, r.Date)
		if len(r.Subjects) > 0 {
			fmt.Fprintf(sb, "    Subjects: %s\n", strings.Join(r.Subjects, ", "))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	writeRule(sb, "=")
	sb.WriteString("Report generated by rbpscraper\n")
	writeRule(sb, "=")
}

func writeRule(sb *strings.Builder, ch string) {
	sb.WriteString(strings.Repeat(ch, ruleWidth))
	sb.WriteString("\n")
}
