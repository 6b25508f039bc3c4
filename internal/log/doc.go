// Package log provides the application's slog setup.
//
// Every logger built here wraps its output handler in a SecureHandler,
// which masks values that could authenticate against the library site:
// cookie strings, session identifiers and anything else that looks like a
// token. Crawl logs are often pasted into bug reports, so masking happens
// unconditionally, including in verbose mode.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("fetching page", "url", pageURL, "cookie", set.Header())
//	// cookie=***REDACTED***
package log
