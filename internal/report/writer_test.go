package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/rbpscraper/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *Report {
	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &Report{
		Summary: &model.RunSummary{
			RunUUID:           "5f0c2a4e-1b7d-4c3e-9a8f-2d6b1e0c7a93",
			Descriptor:        "Jimi Hendrix",
			Label:             "jh",
			SearchURL:         "https://www.rocksbackpages.com/Library/SearchResults?PageNumber=1",
			OutputDir:         "/tmp/out",
			TotalPages:        2,
			Indexed:           3,
			Archived:          2,
			Skipped:           []string{"jh101"},
			Reauthentications: 1,
			LibraryPath:       "/tmp/out/jhLIB.csv",
			StartedAt:         started,
			FinishedAt:        started.Add(90 * time.Second),
		},
		Library: []model.LibraryRow{
			{
				ID: "jh100", Title: "Hendrix at the Royal Albert Hall", Author: "Nick Kent",
				Source: "NME", Date: "1 March 1969", Subjects: []string{"Jimi Hendrix", "Noel Redding"},
				Topic: "Jimi Hendrix", Type: "Live Review", Href: "/Library/Article/a",
			},
			{
				ID: "jh200", Title: "Electric Ladyland", Author: "Lillian Roxon",
				Source: "Sydney Morning Herald", Date: "1968", Subjects: []string{"Jimi Hendrix"},
				Topic: "Jimi Hendrix", Type: "Review", Href: "/Library/Article/b",
			},
		},
	}
}

// createCleanReport creates a report for a run without skips.
func createCleanReport() *Report {
	r := createTestReport()
	r.Summary.Skipped = nil
	r.Summary.Reauthentications = 0
	r.Summary.Indexed = 2
	return r
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "RBPSCRAPER RUN REPORT") {
			t.Error("expected output to contain report header")
		}
		if !strings.Contains(output, "Jimi Hendrix (jh)") {
			t.Error("expected output to contain descriptor and label")
		}
		if !strings.Contains(output, "Run:            5f0c2a4e-1b7d-4c3e-9a8f-2d6b1e0c7a93") {
			t.Errorf("expected run uuid in output: %s", output)
		}
		if !strings.Contains(output, "Duration:       1m30s") {
			t.Errorf("expected duration in output: %s", output)
		}
		if !strings.Contains(output, "Complete (with skipped articles)") {
			t.Error("expected status to mention skipped articles")
		}
	})

	t.Run("writes counters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Search pages:       2",
			"Indexed articles:   3",
			"Archived articles:  2",
			"Skipped articles:   1",
			"Re-authentications: 1",
			"/tmp/out/jhLIB.csv",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("lists skipped ids", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "[-] jh101") {
			t.Error("expected skipped id in output")
		}
	})

	t.Run("library only in verbose mode", func(t *testing.T) {
		t.Parallel()

		var quiet bytes.Buffer
		if _, err := NewSimpleWriter(&quiet).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(quiet.String(), "LIBRARY") {
			t.Error("library section should be hidden without verbose")
		}

		var verbose bytes.Buffer
		if _, err := NewSimpleWriter(&verbose, WithVerbose(true)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := verbose.String()
		if !strings.Contains(output, "jh100  Hendrix at the Royal Albert Hall") {
			t.Errorf("expected library row in verbose output: %s", output)
		}
		if !strings.Contains(output, "Subjects: Jimi Hendrix, Noel Redding") {
			t.Error("expected subjects in verbose output")
		}
	})

	t.Run("show empty sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowEmpty(true))
		if _, err := w.Write(createCleanReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "SKIPPED ARTICLES") {
			t.Error("expected empty skipped section")
		}
	})

	t.Run("writes error status", func(t *testing.T) {
		t.Parallel()

		r := createTestReport()
		r.Summary.Error = "credentials unavailable"

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "ERROR - credentials unavailable") {
			t.Error("expected error status")
		}
	})
}

// TestSimpleWriterHistory tests the text run listing.
func TestSimpleWriterHistory(t *testing.T) {
	t.Parallel()

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No runs recorded.") {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("lists runs", func(t *testing.T) {
		t.Parallel()

		failed := createTestReport().Summary
		failed.Error = "boom"
		entries := []HistoryEntry{
			{ID: 2, Summary: createCleanReport().Summary},
			{ID: 1, Summary: failed},
		}

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(entries); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{"ID", "STARTED", "DESCRIPTOR", "STATUS", "TOTAL"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}

		var rows []string
		for _, line := range strings.Split(out, "\n") {
			if strings.Contains(line, " ok ") || strings.Contains(line, " error ") {
				rows = append(rows, line)
			}
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d:\n%s", len(rows), out)
		}
		if !strings.Contains(rows[0], " 2 ") || !strings.Contains(rows[0], " ok ") {
			t.Errorf("unexpected first row %q", rows[0])
		}
		if !strings.Contains(rows[1], " 1 ") || !strings.Contains(rows[1], " error ") {
			t.Errorf("unexpected second row %q", rows[1])
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithVersion("v1.2.3"))
		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			Version string             `json:"version"`
			Summary model.RunSummary   `json:"summary"`
			Library []model.LibraryRow `json:"library"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Version != "v1.2.3" {
			t.Errorf("expected version v1.2.3, got %q", decoded.Version)
		}
		want := createTestReport()
		if diff := cmp.Diff(*want.Summary, decoded.Summary); diff != "" {
			t.Errorf("summary mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(want.Library, decoded.Library); diff != "" {
			t.Errorf("library mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("compact by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := strings.TrimSuffix(buf.String(), "\n")
		if strings.Contains(out, "\n") {
			t.Error("compact output should be a single line")
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("expected trailing newline")
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"summary\"") {
			t.Errorf("expected indented output: %s", buf.String())
		}
	})

	t.Run("custom indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent("", "\t")).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n\t\"summary\"") {
			t.Errorf("expected tab indentation: %s", buf.String())
		}
	})

	t.Run("empty history is an array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"runs":[]`) {
			t.Errorf("expected empty runs array, got %s", buf.String())
		}
	})

	t.Run("history entries", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		entries := []HistoryEntry{{ID: 7, Summary: createCleanReport().Summary}}
		if _, err := NewJSONWriter(&buf).WriteHistory(entries); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded JSONHistory
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(decoded.Runs) != 1 || decoded.Runs[0].ID != 7 || decoded.Runs[0].Summary.Label != "jh" {
			t.Errorf("unexpected history: %+v", decoded.Runs)
		}
	})
}

// TestMarkdownWriter tests the Markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# rbpscraper Run Report") {
			t.Error("expected output to contain H1 header")
		}
		if !strings.Contains(output, "`jh`") {
			t.Error("expected output to contain label")
		}
		if !strings.Contains(output, "## Results") {
			t.Error("expected results section")
		}
	})

	t.Run("includes pie chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "```mermaid") {
			t.Error("expected mermaid code block")
		}
		if !strings.Contains(output, "pie") || !strings.Contains(output, "Skipped") {
			t.Error("expected pie chart with skipped slice")
		}
	})

	t.Run("warns about skipped articles", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!WARNING]") {
			t.Error("expected warning alert")
		}
		if !strings.Contains(output, "## Skipped Articles") || !strings.Contains(output, "`jh101`") {
			t.Error("expected skipped list")
		}
	})

	t.Run("tip on clean run", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createCleanReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!TIP]") {
			t.Error("expected tip alert")
		}
		if strings.Contains(output, "## Skipped Articles") {
			t.Error("skipped section should be omitted")
		}
	})

	t.Run("caution on error", func(t *testing.T) {
		t.Parallel()

		r := createTestReport()
		r.Summary.Error = "credentials unavailable"

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!CAUTION]") {
			t.Error("expected caution alert")
		}
	})

	t.Run("writes library table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Library") {
			t.Error("expected library section")
		}
		if !strings.Contains(output, "Electric Ladyland") || !strings.Contains(output, "Lillian Roxon") {
			t.Error("expected library rows")
		}
		if !strings.Contains(output, "<details>") {
			t.Error("expected subjects in details blocks")
		}
	})

	t.Run("writes history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		entries := []HistoryEntry{{ID: 3, Summary: createCleanReport().Summary}}
		if _, err := NewMarkdownWriter(&buf).WriteHistory(entries); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# rbpscraper Run History") {
			t.Error("expected history header")
		}
		if !strings.Contains(output, "Jimi Hendrix") {
			t.Error("expected history row")
		}
	})
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := mw.Write(createTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
	}
	if !json.Valid(js.Bytes()) {
		t.Error("expected valid JSON from second writer")
	}

	text.Reset()
	js.Reset()
	if _, err := mw.WriteHistory([]HistoryEntry{{ID: 1, Summary: createCleanReport().Summary}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected both writers to receive the history")
	}
}

// TestWriteNilReport tests that every writer rejects nil input.
func TestWriteNilReport(t *testing.T) {
	t.Parallel()

	writers := map[string]Writer{
		"simple":   NewSimpleWriter(&bytes.Buffer{}),
		"json":     NewJSONWriter(&bytes.Buffer{}),
		"markdown": NewMarkdownWriter(&bytes.Buffer{}),
	}
	for name, w := range writers {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := w.Write(nil); !errors.Is(err, ErrNilReport) {
				t.Errorf("expected ErrNilReport, got %v", err)
			}
			if _, err := w.Write(&Report{}); !errors.Is(err, ErrNilReport) {
				t.Errorf("expected ErrNilReport for missing summary, got %v", err)
			}
		})
	}
}

// TestTruncateString tests rune aware truncation.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "short", input: "abc", maxLen: 10, want: "abc"},
		{name: "exact", input: "abcde", maxLen: 5, want: "abcde"},
		{name: "long", input: "abcdefghij", maxLen: 6, want: "abc..."},
		{name: "tiny limit", input: "abcdef", maxLen: 2, want: "ab"},
		{name: "multibyte", input: "Motörhead live", maxLen: 8, want: "Motör..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
