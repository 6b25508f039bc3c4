package fetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// maxRedirects stops redirect loops, e.g. between a login page and a proxy.
const maxRedirects = 10

// DefaultAccept is the Accept header sent with every request.
const DefaultAccept = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"

// NewHTTPClient creates the HTTP client used for a run.
//
// proxyAddress is optional. A bare host:port is a SOCKS5 proxy; a URL
// selects the proxy type by scheme (http, https, socks5, socks5h).
// userAgent is added to requests that do not set one.
func NewHTTPClient(timeout time.Duration, proxyAddress, userAgent string) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if proxyAddress != "" {
		if err := configureProxy(transport, proxyAddress); err != nil {
			return nil, err
		}
	}

	return &http.Client{
		Transport: &headerInjectingTransport{
			base: transport,
			headers: map[string]string{
				"User-Agent": userAgent,
				"Accept":     DefaultAccept,
			},
		},
		Timeout: timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// configureProxy routes transport through the proxy at address.
func configureProxy(transport *http.Transport, address string) error {
	u, err := parseProxyURL(address)
	if err != nil {
		return err
	}

	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
		return nil
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = dialContext(dialer)
		return nil
	default:
		return ErrInvalidProxyAddress
	}
}

// parseProxyURL parses a proxy URL. A bare host:port is a SOCKS5 proxy.
func parseProxyURL(address string) (*url.URL, error) {
	if !strings.Contains(address, "://") {
		if !isValidProxyAddress(address) {
			return nil, ErrInvalidProxyAddress
		}
		address = "socks5://" + address
	}

	u, err := url.Parse(address)
	if err != nil || u.Host == "" {
		return nil, ErrInvalidProxyAddress
	}
	return u, nil
}

// dialContext adapts a proxy.Dialer to http.Transport.DialContext.
func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}

// isValidProxyAddress checks for a "host:port" address with a port in 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// headerInjectingTransport sets default headers on every request,
// including requests issued while following redirects.
type headerInjectingTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for key, value := range t.headers {
		if value != "" && clone.Header.Get(key) == "" {
			clone.Header.Set(key, value)
		}
	}
	return t.base.RoundTrip(clone)
}
