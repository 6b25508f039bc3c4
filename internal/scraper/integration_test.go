package scraper

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/rbpscraper/internal/archive"
	"github.com/nao1215/rbpscraper/internal/auth/authtest"
	"github.com/nao1215/rbpscraper/internal/fetcher"
)

// fakeSite serves a two page search whose second article never validates.
type fakeSite struct {
	mu      sync.Mutex
	hits    map[string]int
	cookies []string
}

func (s *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.cookies = append(s.cookies, r.Header.Get("Cookie"))
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	switch r.URL.Path {
	case "/Library/SearchResults":
		switch r.URL.Query().Get("PageNumber") {
		case "1":
			_, _ = w.Write([]byte(resultsHTML(2, "/Library/Article/one", "/Library/Article/two")))
		case "2":
			_, _ = w.Write([]byte(resultsHTML(2, "/Library/Article/three")))
		default:
			http.NotFound(w, r)
		}
	case "/Library/Article/one":
		_, _ = w.Write([]byte(articleHTML("One")))
	case "/Library/Article/two":
		_, _ = w.Write([]byte(expiredHTML()))
	case "/Library/Article/three":
		_, _ = w.Write([]byte(articleHTML("Three")))
	default:
		http.NotFound(w, r)
	}
}

func (s *fakeSite) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TestScraper_EndToEnd crawls a fake site with the real fetcher and archive.
func TestScraper_EndToEnd(t *testing.T) {
	t.Parallel()

	site := &fakeSite{hits: make(map[string]int)}
	server := httptest.NewServer(site)
	defer server.Close()

	client, err := fetcher.NewHTTPClient(5*time.Second, "", "rbpscraper-test")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	outDir := filepath.Join(t.TempDir(), "out")
	provider := authtest.NewScriptedProvider("sid=fresh")
	session := newSession(t, provider)
	var console bytes.Buffer

	s := New(Options{
		Descriptor:   "Alice Bob",
		SearchURL:    server.URL + "/Library/SearchResults?SearchText=&PageNumber=1&NewSearch=True",
		OutputDir:    outDir,
		ProgressStep: 10,
	}, fetcher.New(client), session, archive.NewStore(outDir), WithNotifier(NewWriterNotifier(&console)))

	ctx := context.Background()
	if err := s.Search(ctx); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if err := s.Collect(ctx); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	path, err := s.WriteLibrary()
	if err != nil {
		t.Fatalf("write library failed: %v", err)
	}

	t.Run("library holds ab100 and ab200", func(t *testing.T) {
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("failed to open library: %v", err)
		}
		defer f.Close()

		records, err := csv.NewReader(f).ReadAll()
		if err != nil {
			t.Fatalf("failed to read library: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header and 2 rows, got %v", records)
		}
		if records[1][0] != "ab100" || records[2][0] != "ab200" {
			t.Errorf("unexpected ids %q, %q", records[1][0], records[2][0])
		}
		if records[1][1] != "One" || records[1][5] != "jimi-hendrix" || records[1][6] != "Alice Bob" {
			t.Errorf("unexpected row %v", records[1])
		}
		if filepath.Base(path) != "abLIB.csv" {
			t.Errorf("unexpected library name %q", path)
		}
	})

	t.Run("one skip notice for ab101", func(t *testing.T) {
		if n := strings.Count(console.String(), "not found"); n != 1 {
			t.Errorf("expected one skip notice, got %d in %q", n, console.String())
		}
		if !strings.Contains(console.String(), "article ab101 not found.") {
			t.Errorf("expected skip notice for ab101, got %q", console.String())
		}
	})

	t.Run("one re-acquisition and one re-fetch", func(t *testing.T) {
		if provider.Calls() != 1 {
			t.Errorf("expected one re-acquisition, got %d", provider.Calls())
		}
		if n := site.count("/Library/Article/two"); n != 2 {
			t.Errorf("expected two fetches of the expired article, got %d", n)
		}
		if n := site.count("/Library/Article/one"); n != 1 {
			t.Errorf("expected one fetch of a valid article, got %d", n)
		}
	})

	t.Run("archive files exist for extracted articles only", func(t *testing.T) {
		for _, id := range []string{"ab100", "ab200"} {
			for _, p := range []string{
				filepath.Join(outDir, "html", id+".html"),
				filepath.Join(outDir, "txt", id+".txt"),
			} {
				if _, err := os.Stat(p); err != nil {
					t.Errorf("expected %s: %v", p, err)
				}
			}
		}
		if _, err := os.Stat(filepath.Join(outDir, "html", "ab101.html")); !os.IsNotExist(err) {
			t.Errorf("expected no archive for ab101, got %v", err)
		}
	})

	t.Run("requests carry the session cookie", func(t *testing.T) {
		site.mu.Lock()
		defer site.mu.Unlock()
		if site.cookies[0] != "sid=first" {
			t.Errorf("expected initial cookie, got %q", site.cookies[0])
		}
		if last := site.cookies[len(site.cookies)-1]; last != "sid=fresh" {
			t.Errorf("expected fresh cookie after re-authentication, got %q", last)
		}
	})

	t.Run("summary", func(t *testing.T) {
		sum := s.Summary()
		if sum.TotalPages != 2 || sum.Indexed != 3 || sum.Archived != 2 || sum.Reauthentications != 1 {
			t.Errorf("unexpected summary %+v", sum)
		}
		if len(sum.Skipped) != 1 || sum.Skipped[0] != "ab101" {
			t.Errorf("unexpected skipped %v", sum.Skipped)
		}
	})
}
