// Package scraper runs a crawl of one library search.
//
// A Scraper works in three steps that must run in order:
//
//  1. Search fetches every search result page and builds the search index.
//  2. Collect visits every indexed article, re-authenticates once per
//     article when the session has expired, extracts its metadata and
//     archives its content. Articles that cannot be extracted are skipped.
//  3. WriteLibrary writes the joined library CSV.
//
// Everything runs on the calling goroutine, one request at a time.
package scraper
