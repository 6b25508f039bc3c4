// Package crawler knows the markup of the Rock's Backpages library.
//
// It plans the search result pages of a search, extracts listings from a
// result page, classifies article pages (valid, expired session, malformed)
// and extracts article metadata. It does no I/O; the scraper package fetches
// pages and feeds their bodies here.
//
// # Components
//
//   - PlanPages, TotalPages, SiteRoot: pagination of a search
//   - ParseResults: listings of one search result page
//   - ParsePage, Classify, ParseDetail: article pages
//
// Selectors are hard-coded for the one site this tool targets.
package crawler
