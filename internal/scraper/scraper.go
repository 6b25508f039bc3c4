package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/nao1215/rbpscraper/internal/auth"
	"github.com/nao1215/rbpscraper/internal/crawler"
	"github.com/nao1215/rbpscraper/internal/fetcher"
	"github.com/nao1215/rbpscraper/internal/model"
)

// Fetcher retrieves a page with the given credentials.
// *fetcher.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string, creds auth.CredentialSet) ([]byte, error)
}

// Archiver stores article content and the library.
// *archive.Store implements it.
type Archiver interface {
	Archive(id string, content *goquery.Selection) error
	WriteLibrary(label string, rows []model.LibraryRow) (string, error)
}

// Options describes the search to crawl.
type Options struct {
	// Descriptor names the search; its initials form the id label.
	Descriptor string
	// SearchURL is the first search result page.
	SearchURL string
	// OutputDir is recorded in the run summary.
	OutputDir string
	// SearchDelay spaces out search result page fetches.
	SearchDelay time.Duration
	// DetailDelay spaces out article fetches.
	DetailDelay time.Duration
	// ProgressStep is the percentage between progress events.
	ProgressStep int
}

// Scraper crawls one search. It is not safe for concurrent use.
type Scraper struct {
	opts     Options
	label    string
	fetcher  Fetcher
	session  *auth.Session
	store    Archiver
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	searchLimiter *rate.Limiter
	detailLimiter *rate.Limiter

	root      string
	index     *model.SearchIndex
	metadata  []model.ArticleMetadata
	library   []model.LibraryRow
	collected bool
	summary   model.RunSummary
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithNotifier sets where crawl events go. The default discards them.
func WithNotifier(n Notifier) Option {
	return func(s *Scraper) {
		s.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scraper) {
		s.logger = logger
	}
}

// WithClock sets the clock used for the run summary timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scraper) {
		s.now = now
	}
}

// New creates a Scraper.
func New(opts Options, f Fetcher, session *auth.Session, store Archiver, options ...Option) *Scraper {
	s := &Scraper{
		opts:          opts,
		label:         model.Label(opts.Descriptor),
		fetcher:       f,
		session:       session,
		store:         store,
		notifier:      NewWriterNotifier(io.Discard),
		logger:        slog.Default(),
		now:           time.Now,
		searchLimiter: fetcher.NewLimiter(opts.SearchDelay),
		detailLimiter: fetcher.NewLimiter(opts.DetailDelay),
	}
	for _, opt := range options {
		opt(s)
	}
	s.summary = model.RunSummary{
		RunUUID:    uuid.NewString(),
		Descriptor: opts.Descriptor,
		Label:      s.label,
		SearchURL:  opts.SearchURL,
		OutputDir:  opts.OutputDir,
	}
	return s
}

// Label returns the id label of the run.
func (s *Scraper) Label() string {
	return s.label
}

// Search fetches every search result page and builds the search index.
// A previous index is replaced only when the search succeeds.
func (s *Scraper) Search(ctx context.Context) error {
	if s.summary.StartedAt.IsZero() {
		s.summary.StartedAt = s.now()
	}

	root, err := crawler.SiteRoot(s.opts.SearchURL)
	if err != nil {
		return err
	}
	if err := s.session.Ensure(ctx); err != nil {
		return fmt.Errorf("failed to get credentials: %w", err)
	}

	first, err := s.fetchSearchPage(ctx, s.opts.SearchURL)
	if err != nil {
		return err
	}
	total, err := crawler.TotalPages(first)
	if err != nil {
		return err
	}
	s.notifier.Notify(Event{Kind: EventPagesFound, Count: total})
	s.notifier.Notify(Event{Kind: EventSearchStarted})

	urls, err := crawler.PlanPages(s.opts.SearchURL, total)
	if err != nil {
		return err
	}

	index := model.NewSearchIndex()
	for i, pageURL := range urls {
		page := i + 1

		body := first
		if pageURL != s.opts.SearchURL {
			if body, err = s.fetchSearchPage(ctx, pageURL); err != nil {
				return err
			}
		}

		listings, err := crawler.ParseResults(body)
		if err != nil {
			return fmt.Errorf("failed to parse search page %d: %w", page, err)
		}
		for pos, l := range listings {
			if err := index.Add(l.Entry(model.EntryID(s.label, page, pos))); err != nil {
				return err
			}
		}
		s.logger.Debug("indexed search page", "page", page, "listings", len(listings))
	}

	s.root = root
	s.index = index
	s.metadata = nil
	s.library = nil
	s.collected = false
	s.summary.TotalPages = total
	s.summary.Indexed = index.Len()
	s.summary.Archived = 0
	s.summary.Skipped = nil
	s.summary.LibraryPath = ""

	s.logger.Info("search complete", "pages", total, "entries", index.Len())
	return nil
}

func (s *Scraper) fetchSearchPage(ctx context.Context, pageURL string) ([]byte, error) {
	if err := s.searchLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := s.fetcher.Fetch(ctx, pageURL, s.session.Credentials())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search page: %w", err)
	}
	return body, nil
}

// Collect visits every indexed article in index order.
// Articles that cannot be fetched or extracted are skipped and reported.
// Archive write errors and context cancellation stop the run.
func (s *Scraper) Collect(ctx context.Context) error {
	if s.index == nil {
		return ErrSearchNotRun
	}

	s.notifier.Notify(Event{Kind: EventDetailStarted})

	entries := s.index.Entries()
	prog := newProgress(len(entries), s.opts.ProgressStep)
	metadata := make([]model.ArticleMetadata, 0, len(entries))
	var skipped []string

	for _, entry := range entries {
		m, content, err := s.collectArticle(ctx, entry)
		switch {
		case err == nil:
			if err := s.store.Archive(entry.ID, content); err != nil {
				return fmt.Errorf("failed to archive article %s: %w", entry.ID, err)
			}
			metadata = append(metadata, m)
		case isFatal(ctx, err):
			return err
		default:
			s.logger.Warn("skipping article", "id", entry.ID, "error", err)
			s.notifier.Notify(Event{Kind: EventArticleSkipped, ID: entry.ID})
			skipped = append(skipped, entry.ID)
		}

		for _, percent := range prog.advance() {
			s.notifier.Notify(Event{Kind: EventProgress, Percent: percent, Count: prog.done})
		}
	}

	s.metadata = metadata
	s.library = model.BuildLibrary(s.index, metadata, s.opts.Descriptor)
	s.collected = true
	s.summary.Archived = len(metadata)
	s.summary.Skipped = skipped
	s.summary.FinishedAt = s.now()
	return nil
}

// collectArticle fetches an article, re-authenticating and re-fetching once
// if the page is not a valid article.
func (s *Scraper) collectArticle(ctx context.Context, entry model.SearchIndexEntry) (model.ArticleMetadata, *goquery.Selection, error) {
	articleURL := crawler.DetailURL(s.root, entry.Href)

	page, err := s.fetchArticle(ctx, articleURL)
	if err != nil {
		return model.ArticleMetadata{}, nil, err
	}

	if c := page.Classification(); c != crawler.DocumentValid {
		s.logger.Warn("session expired", "id", entry.ID, "classification", c.String())
		s.notifier.Notify(Event{Kind: EventSessionExpired, ID: entry.ID})

		if err := s.session.Reacquire(ctx); err != nil {
			return model.ArticleMetadata{}, nil, fmt.Errorf("failed to re-authenticate: %w", err)
		}
		if page, err = s.fetchArticle(ctx, articleURL); err != nil {
			return model.ArticleMetadata{}, nil, err
		}
		if c := page.Classification(); c != crawler.DocumentValid {
			return model.ArticleMetadata{}, nil, &crawler.ExtractionError{
				ID:     entry.ID,
				Field:  "page",
				Reason: "document is " + c.String() + " after re-authentication",
			}
		}
	}

	m, err := page.Metadata(entry.ID)
	if err != nil {
		return model.ArticleMetadata{}, nil, err
	}
	content, _ := page.Content()
	return m, content, nil
}

func (s *Scraper) fetchArticle(ctx context.Context, articleURL string) (*crawler.Page, error) {
	if err := s.detailLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := s.fetcher.Fetch(ctx, articleURL, s.session.Credentials())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}
	page, err := crawler.ParsePage(body)
	if err != nil {
		return nil, &crawler.ExtractionError{Field: "page", Reason: err.Error()}
	}
	return page, nil
}

// isFatal reports whether err must stop the detail phase: the context is
// done or no credentials can be obtained any more.
func isFatal(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, auth.ErrNoCredentials)
}

// WriteLibrary writes the library CSV and returns its path.
func (s *Scraper) WriteLibrary() (string, error) {
	if !s.collected {
		return "", ErrDetailNotRun
	}
	path, err := s.store.WriteLibrary(s.label, s.library)
	if err != nil {
		return "", err
	}
	s.summary.LibraryPath = path
	s.summary.FinishedAt = s.now()
	return path, nil
}

// Index returns the search index, or nil before Search.
func (s *Scraper) Index() *model.SearchIndex {
	return s.index
}

// Library returns the library rows built by Collect.
func (s *Scraper) Library() []model.LibraryRow {
	out := make([]model.LibraryRow, len(s.library))
	copy(out, s.library)
	return out
}

// Summary returns the run summary so far.
func (s *Scraper) Summary() model.RunSummary {
	sum := s.summary
	sum.Skipped = append([]string(nil), s.summary.Skipped...)
	sum.Reauthentications = s.session.Reacquisitions()
	return sum
}
