package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"

	"github.com/nao1215/rbpscraper/internal/auth"
)

// PageFetcher retrieves a page with the given credentials.
// *Fetcher implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string, creds auth.CredentialSet) ([]byte, error)
}

// RobotsFetcher refuses pages that the site's robots.txt disallows for
// its user agent and passes every other request on to the wrapped fetcher.
// robots.txt is fetched once per host.
type RobotsFetcher struct {
	next      PageFetcher
	client    *http.Client
	userAgent string
	logger    *slog.Logger

	mu    sync.Mutex
	rules map[string]*robotstxt.RobotsData
}

// NewRobotsFetcher wraps next. client fetches robots.txt; a nil client
// uses http.DefaultClient.
func NewRobotsFetcher(next PageFetcher, client *http.Client, userAgent string, logger *slog.Logger) *RobotsFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RobotsFetcher{
		next:      next,
		client:    client,
		userAgent: userAgent,
		logger:    logger,
		rules:     make(map[string]*robotstxt.RobotsData),
	}
}

// Fetch implements PageFetcher.
func (r *RobotsFetcher) Fetch(ctx context.Context, pageURL string, creds auth.CredentialSet) ([]byte, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	if !r.test(ctx, u) {
		return nil, fmt.Errorf("%w: %s", ErrDisallowedByRobots, pageURL)
	}
	return r.next.Fetch(ctx, pageURL, creds)
}

// Allowed reports whether robots.txt allows pageURL.
func (r *RobotsFetcher) Allowed(ctx context.Context, pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	return r.test(ctx, u)
}

func (r *RobotsFetcher) test(ctx context.Context, u *url.URL) bool {
	data := r.rulesFor(ctx, u)
	return data == nil || data.TestAgent(u.RequestURI(), r.userAgent)
}

// rulesFor returns the cached rules for the host of u. A robots.txt that
// cannot be fetched allows everything and is retried on the next request.
func (r *RobotsFetcher) rulesFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	host := u.Scheme + "://" + u.Host

	r.mu.Lock()
	data, ok := r.rules[host]
	r.mu.Unlock()
	if ok {
		return data
	}

	robotsURL := host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		r.logger.Warn("failed to create robots.txt request", "url", robotsURL, "error", err)
		return nil
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("failed to fetch robots.txt, allowing all pages", "url", robotsURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		r.logger.Warn("failed to parse robots.txt, allowing all pages", "url", robotsURL, "error", err)
		data = &robotstxt.RobotsData{}
	}
	r.logger.Debug("loaded robots.txt", "url", robotsURL, "status", resp.StatusCode)

	r.mu.Lock()
	r.rules[host] = data
	r.mu.Unlock()
	return data
}
