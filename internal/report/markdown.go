package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/rbpscraper/internal/model"
)

// maxCellLen bounds table cells so long titles do not break the layout.
const maxCellLen = 60

// MarkdownWriter outputs reports in Markdown format.
// The output renders on GitHub, including alerts and mermaid charts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *Report) (int, error) {
	if err := validate(report); err != nil {
		return 0, err
	}

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report.Summary)
	w.writeResults(md, report.Summary)
	w.writeSkipped(md, report.Summary)
	w.writeLibrary(md, report.Library)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteHistory outputs stored runs as a Markdown table.
func (w *MarkdownWriter) WriteHistory(entries []HistoryEntry) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("rbpscraper Run History")
	md.PlainText("")

	if len(entries) == 0 {
		md.PlainText("No runs recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		s := e.Summary
		if s == nil {
			continue
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			s.StartedAt.Format(timeFormat),
			"`" + s.Label + "`",
			truncateString(s.Descriptor, maxCellLen),
			strconv.Itoa(s.Indexed),
			strconv.Itoa(s.Archived),
			strconv.Itoa(s.SkippedCount()),
			statusText(s),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Started", "Label", "Descriptor", "Indexed", "Archived", "Skipped", "Status"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.RunSummary) {
	md.H1("rbpscraper Run Report")
	md.PlainText("")

	rows := [][]string{
		{"Descriptor", s.Descriptor},
		{"Label", "`" + s.Label + "`"},
		{"Search URL", "`" + s.SearchURL + "`"},
		{"Output", "`" + s.OutputDir + "`"},
	}
	if s.RunUUID != "" {
		rows = append(rows, []string{"Run", "`" + s.RunUUID + "`"})
	}
	if !s.StartedAt.IsZero() {
		rows = append(rows, []string{"Started", s.StartedAt.Format(timeFormat)})
	}
	if d := s.Duration(); d > 0 {
		rows = append(rows, []string{"Duration", d.Round(time.Millisecond).String()})
	}
	rows = append(rows, []string{"Status", statusText(s)})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeResults writes the counters, chart and alert.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Results")
	md.PlainText("")

	rows := [][]string{
		{"Search pages", strconv.Itoa(s.TotalPages)},
		{"Indexed articles", strconv.Itoa(s.Indexed)},
		{"Archived articles", strconv.Itoa(s.Archived)},
		{"Skipped articles", strconv.Itoa(s.SkippedCount())},
		{"Re-authentications", strconv.Itoa(s.Reauthentications)},
	}
	if s.LibraryPath != "" {
		rows = append(rows, []string{"Library", "`" + s.LibraryPath + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.Archived+s.SkippedCount() > 0 {
		w.writePieChart(md, s)
	}

	w.writeAlert(md, s)
}

// writePieChart writes a mermaid pie chart of archived and skipped articles.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *model.RunSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Article Outcomes"),
		piechart.WithShowData(true),
	)

	if s.Archived > 0 {
		chart.LabelAndIntValue("Archived", uint64(s.Archived))
	}
	if n := s.SkippedCount(); n > 0 {
		chart.LabelAndIntValue("Skipped", uint64(n))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s *model.RunSummary) {
	switch {
	case !s.Succeeded():
		md.Cautionf("The run stopped early: %s", s.Error)
	case s.SkippedCount() > 0:
		md.Warningf(
			"%d article(s) could not be extracted and are missing from the library.",
			s.SkippedCount(),
		)
	case s.Reauthentications > 0:
		md.Importantf(
			"The session expired during the run and cookies were pasted %d time(s).",
			s.Reauthentications,
		)
	case s.Indexed == 0:
		md.Note("The search returned no articles.")
	default:
		md.Tip("All indexed articles were archived.")
	}
	md.PlainText("")
}

// writeSkipped lists the skipped ids.
func (w *MarkdownWriter) writeSkipped(md *markdown.Markdown, s *model.RunSummary) {
	if s.SkippedCount() == 0 {
		return
	}
	md.H2("Skipped Articles")
	md.PlainText("")

	ids := make([]string, 0, len(s.Skipped))
	for _, id := range s.Skipped {
		ids = append(ids, "`"+id+"`")
	}
	md.BulletList(ids...)
	md.PlainText("")
}

// writeLibrary writes the library rows as a table.
func (w *MarkdownWriter) writeLibrary(md *markdown.Markdown, rows []model.LibraryRow) {
	md.H2("Library")
	md.PlainText("")

	if len(rows) == 0 {
		md.PlainText("No articles archived.")
		md.PlainText("")
		return
	}

	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			"`" + r.ID + "`",
			truncateString(r.Title, maxCellLen),
			r.Author,
			r.Source,
			r.Date,
			r.Type,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Title", "Author", "Source", "Date", "Type"},
		Rows:   tableRows,
	})
	md.PlainText("")

	for _, r := range rows {
		if len(r.Subjects) > 0 {
			md.Details(r.ID+" subjects", strings.Join(r.Subjects, ", "))
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by rbpscraper*")
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
