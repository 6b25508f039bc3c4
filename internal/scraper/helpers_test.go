package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/rbpscraper/internal/auth"
	"github.com/nao1215/rbpscraper/internal/model"
)

const (
	testRoot     = "https://rbp.example"
	testTemplate = testRoot + "/Library/SearchResults?SearchText=x&PageNumber=1&NewSearch=True"
)

func pageURL(n int) string {
	return strings.Replace(testTemplate, "PageNumber=1", fmt.Sprintf("PageNumber=%d", n), 1)
}

// resultsHTML builds a search result page announcing total pages and
// listing one article per href.
func resultsHTML(total int, hrefs ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><body><div id="content"><p class="paging-details">Page 1 of %d. Results</p>`, total)
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<div class="article-listing"><p><a href="%s">Artist: Title %s</a></p><p>Interview by A Writer, <i>NME</i>, 1 May 1970</p></div>`, href, href)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func articleHTML(title string) string {
	return "<html><body><div id=\"content\"><h1 class=\"article\">" + title + "</h1>" +
		"<p class=\"article-details\">\r\n<span class=\"writer\">Nick Kent</span>, <span class=\"publication\">NME</span>,\r\n 3 March 1973\r\n</p>" +
		`<span class="citations">Cite</span>` +
		`<aside><a href="/Library/Artist/jimi-hendrix">Jimi Hendrix</a></aside>` +
		`<p>Body of ` + title + `</p></div></body></html>`
}

func expiredHTML() string {
	return `<html><body><div id="content"><form action="/Account/Login"><input name="user"></form></div></body></html>`
}

type fakeResponse struct {
	body string
	err  error
}

// fakeFetcher serves scripted responses per URL. The last response of a
// script repeats once it is exhausted.
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string][]fakeResponse
	calls   map[string]int
	cookies []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: make(map[string][]fakeResponse), calls: make(map[string]int)}
}

func (f *fakeFetcher) serve(url string, responses ...fakeResponse) {
	f.pages[url] = responses
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, creds auth.CredentialSet) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.calls[url]
	f.calls[url]++
	f.cookies = append(f.cookies, creds.Header())

	script := f.pages[url]
	if len(script) == 0 {
		return nil, errors.New("connection refused")
	}
	if i >= len(script) {
		i = len(script) - 1
	}
	if script[i].err != nil {
		return nil, script[i].err
	}
	return []byte(script[i].body), nil
}

func (f *fakeFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

// fakeArchiver records archived ids and libraries in memory.
type fakeArchiver struct {
	archived   []string
	archiveErr error
	rows       []model.LibraryRow
	label      string
}

func (a *fakeArchiver) Archive(id string, content *goquery.Selection) error {
	if a.archiveErr != nil {
		return a.archiveErr
	}
	if content == nil || content.Length() == 0 {
		return errors.New("empty content")
	}
	a.archived = append(a.archived, id)
	return nil
}

func (a *fakeArchiver) WriteLibrary(label string, rows []model.LibraryRow) (string, error) {
	a.label = label
	a.rows = rows
	return "/out/" + model.LibraryFileName(label), nil
}

// eventRecorder collects notifier events.
type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) Notify(e Event) {
	r.events = append(r.events, e)
}

func (r *eventRecorder) of(kind EventKind) []Event {
	var out []Event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func newSession(t *testing.T, provider auth.CredentialProvider) *auth.Session {
	t.Helper()
	initial, err := auth.ParseCredentials("sid=first")
	if err != nil {
		t.Fatalf("failed to parse credentials: %v", err)
	}
	return auth.NewSession(provider, auth.WithInitialCredentials(initial))
}

func testOptions() Options {
	return Options{
		Descriptor:   "Alice Bob",
		SearchURL:    testTemplate,
		OutputDir:    "/out",
		ProgressStep: 10,
	}
}
