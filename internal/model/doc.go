// Package model defines the data structures shared by the crawler, the
// scraper, the archive writers, the history database and the reports.
//
// This package contains the following main types:
//   - SearchIndexEntry and SearchIndex: one row per search result listing
//   - ArticleMetadata: fields extracted from an article page
//   - LibraryRow: the search index joined with article metadata
//   - RunSummary: the outcome of one crawl run
//
// Models live in their own package so that crawler, scraper, database and
// report can share them without import cycles.
package model
