package archive

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/rbpscraper/internal/model"
)

func contentOf(t *testing.T, body string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	return doc.Find("#content")
}

// TestStore_Archive tests the html and txt archive files.
func TestStore_Archive(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	store := NewStore(dir)
	content := contentOf(t, `<html><body><div id="nav">menu</div><div id="content">
<h1 class="article">  Purple   Haze </h1>

<p>First   paragraph.</p>
<p>Second &amp; last.</p>
</div></body></html>`)

	if err := store.Archive("jh100", content); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("html contains content region only", func(t *testing.T) {
		t.Parallel()

		data, err := os.ReadFile(store.HTMLPath("jh100"))
		if err != nil {
			t.Fatalf("failed to read html: %v", err)
		}
		got := string(data)
		if !strings.HasPrefix(got, `<div id="content">`) {
			t.Errorf("expected content div, got %q", got)
		}
		if strings.Contains(got, "menu") {
			t.Error("navigation must not be archived")
		}
		if !strings.Contains(got, "Second &amp; last.") {
			t.Errorf("expected escaped markup, got %q", got)
		}
	})

	t.Run("txt collapses whitespace per line", func(t *testing.T) {
		t.Parallel()

		data, err := os.ReadFile(store.TextPath("jh100"))
		if err != nil {
			t.Fatalf("failed to read txt: %v", err)
		}
		want := "Purple Haze\nFirst paragraph.\nSecond & last.\n"
		if string(data) != want {
			t.Errorf("got %q, want %q", data, want)
		}
	})
}

// TestStore_WithoutText tests disabling the text archive.
func TestStore_WithoutText(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir(), WithoutText())
	if err := store.Archive("a1", contentOf(t, `<div id="content">x</div>`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(store.HTMLPath("a1")); err != nil {
		t.Errorf("expected html file: %v", err)
	}
	if _, err := os.Stat(store.TextPath("a1")); !os.IsNotExist(err) {
		t.Errorf("expected no txt file, got %v", err)
	}
}

// TestStore_ArchiveErrors tests empty content and unwritable directories.
func TestStore_ArchiveErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty selection", func(t *testing.T) {
		t.Parallel()

		store := NewStore(t.TempDir())
		if err := store.Archive("a1", contentOf(t, `<p>none</p>`)); !errors.Is(err, ErrEmptyContent) {
			t.Errorf("expected ErrEmptyContent, got %v", err)
		}
		if err := store.Archive("a1", nil); !errors.Is(err, ErrEmptyContent) {
			t.Errorf("expected ErrEmptyContent for nil, got %v", err)
		}
	})

	t.Run("output path is a file", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		store := NewStore(file)
		if err := store.Archive("a1", contentOf(t, `<div id="content">x</div>`)); err == nil {
			t.Error("expected error when output dir is a file")
		}
	})
}

// TestStore_WriteLibrary tests the library CSV.
func TestStore_WriteLibrary(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "out")
	store := NewStore(dir)
	rows := []model.LibraryRow{
		{ID: "ab100", Title: "One, Two", Author: "A", Source: "NME", Date: "1970", Subjects: []string{"x", "y"}, Topic: "Alice Bob", Type: "Interview", Href: "/Library/Article/one"},
		{ID: "ab200", Title: `Say "Hi"`, Topic: "Alice Bob", Type: "Review", Href: "/Library/Article/two"},
	}

	path, err := store.WriteLibrary("ab", rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "abLIB.csv") {
		t.Errorf("unexpected path %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open library: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d records", len(records))
	}
	if !slices.Equal(records[0], model.LibraryHeader) {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][1] != "One, Two" || records[1][5] != "x;y" {
		t.Errorf("unexpected first row %v", records[1])
	}
	if records[2][1] != `Say "Hi"` {
		t.Errorf("unexpected quoting %v", records[2])
	}
}

// TestStore_WriteLibraryEmpty tests a library without rows.
func TestStore_WriteLibraryEmpty(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	path, err := store.WriteLibrary("x", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read library: %v", err)
	}
	if strings.TrimSpace(string(data)) != strings.Join(model.LibraryHeader, ",") {
		t.Errorf("expected header only, got %q", data)
	}
}
