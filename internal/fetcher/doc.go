// Package fetcher retrieves pages from the library over HTTP.
//
// A Fetcher owns one keep-alive http.Client used for the whole run. Every
// request carries the current session cookies, a User-Agent and an Accept
// header. Response bodies are size limited and decoded to UTF-8.
//
// Requests can be routed through an upstream proxy, which is how
// institutional subscribers reach the site:
//
//	client, err := fetcher.NewHTTPClient(30*time.Second, "socks5://127.0.0.1:1080", "rbpscraper/1.0")
//	f := fetcher.New(client)
//	body, err := f.Fetch(ctx, url, session.Credentials())
//
// CheckProxy verifies the proxy before a run starts. RobotsFetcher wraps a
// fetcher and refuses pages the site's robots.txt disallows.
package fetcher
