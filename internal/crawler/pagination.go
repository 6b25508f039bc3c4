package crawler

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	contentSelector = "#content"
	pagingSelector  = "p.paging-details"
	libraryPath     = "/Library"
	pageNumberParam = "PageNumber="
)

var (
	pageNumberPattern = regexp.MustCompile(`PageNumber=[0-9]+`)
	// The page count is the first number directly followed by a period,
	// as in "Page 1 of 42."
	pageCountPattern = regexp.MustCompile(`[0-9]+\.`)
)

// PlanPages returns the URLs of result pages 1..total of the search whose
// first page is template. Only the PageNumber value differs between them.
func PlanPages(template string, total int) ([]string, error) {
	loc := pageNumberPattern.FindStringIndex(template)
	if loc == nil {
		return nil, &ParseError{Op: "search url", Reason: "no " + pageNumberParam + "<n> parameter"}
	}
	if total < 0 {
		return nil, &ParseError{Op: "page count", Reason: "negative total " + strconv.Itoa(total)}
	}

	prefix := template[:loc[0]] + pageNumberParam
	suffix := template[loc[1]:]

	urls := make([]string, 0, total)
	for page := 1; page <= total; page++ {
		urls = append(urls, prefix+strconv.Itoa(page)+suffix)
	}
	return urls, nil
}

// TotalPages returns the number of result pages announced in the paging
// details of a search result page.
func TotalPages(body []byte) (int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0, &ParseError{Op: "page count", Reason: err.Error()}
	}

	paging := doc.Find(contentSelector).First().Find(pagingSelector).First()
	if paging.Length() == 0 {
		return 0, &ParseError{Op: "page count", Reason: "no paging details"}
	}

	markup, err := goquery.OuterHtml(paging)
	if err != nil {
		return 0, &ParseError{Op: "page count", Reason: err.Error()}
	}

	match := pageCountPattern.FindString(markup)
	if match == "" {
		return 0, &ParseError{Op: "page count", Reason: "no page count in paging details"}
	}

	n, err := strconv.Atoi(strings.TrimSuffix(match, "."))
	if err != nil {
		return 0, &ParseError{Op: "page count", Reason: err.Error()}
	}
	return n, nil
}

// SiteRoot returns the part of the search URL before /Library.
// Listing hrefs are relative to it.
func SiteRoot(template string) (string, error) {
	i := strings.Index(template, libraryPath)
	if i < 0 {
		return "", &ParseError{Op: "site root", Reason: "no " + libraryPath + " path in search url"}
	}
	return template[:i], nil
}

// DetailURL returns the absolute URL of a listing href.
func DetailURL(root, href string) string {
	return root + href
}
