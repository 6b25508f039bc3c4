package crawler

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/rbpscraper/internal/model"
)

const listingSelector = "div.article-listing"

// Listing is one search result as shown on a result page.
type Listing struct {
	// Href is the site-relative link of the article.
	Href string
	// Type is the article type, e.g. "Interview".
	Type string
	// Title is the link text without a leading "Artist: " part.
	Title string
	// Author is the writer named after "by ".
	Author string
	// Publication is the italicised publication name.
	Publication string
	// Date is the text after the last ", " of the details paragraph.
	Date string
}

// Entry returns the listing as a search index entry with the given id.
func (l Listing) Entry(id string) model.SearchIndexEntry {
	return model.SearchIndexEntry{
		ID:          id,
		Type:        l.Type,
		Href:        l.Href,
		Title:       l.Title,
		Author:      l.Author,
		Publication: l.Publication,
		Date:        l.Date,
	}
}

// ParseResults returns the listings of a search result page in document order.
func ParseResults(body []byte) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ExtractionError{Field: "results", Reason: err.Error()}
	}

	content := doc.Find(contentSelector).First()
	if content.Length() == 0 {
		return nil, &ExtractionError{Field: "results", Reason: "no content region"}
	}

	blocks := content.Find(listingSelector)
	listings := make([]Listing, 0, blocks.Length())
	for i := range blocks.Length() {
		l, err := parseListing(blocks.Eq(i))
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func parseListing(block *goquery.Selection) (Listing, error) {
	link := block.Find("a").First()
	href, ok := link.Attr("href")
	if !ok {
		return Listing{}, &ExtractionError{Field: "href", Reason: "listing has no link"}
	}

	details := block.Find("p").Eq(1)
	if details.Length() == 0 {
		return Listing{}, &ExtractionError{Field: "type", Reason: "listing has no details paragraph"}
	}
	text := details.Text()

	return Listing{
		Href:        href,
		Type:        listingType(text),
		Title:       listingTitle(link.Text()),
		Author:      listingAuthor(text),
		Publication: details.Find("i").First().Text(),
		Date:        listingDate(text),
	}, nil
}

// listingType returns the text before the first comma, then before " by".
func listingType(details string) string {
	head, _, _ := strings.Cut(details, ",")
	head, _, _ = strings.Cut(head, " by")
	return head
}

// listingTitle drops the "Artist: " part of "Artist: Song Title".
func listingTitle(linkText string) string {
	parts := strings.Split(linkText, ": ")
	if len(parts) < 2 {
		return linkText
	}
	return strings.Join(parts[1:], ": ")
}

// listingAuthor returns the text between "by " and the first comma.
func listingAuthor(details string) string {
	head, _, _ := strings.Cut(details, ",")
	_, author, ok := strings.Cut(head, "by ")
	if !ok {
		return ""
	}
	return author
}

func listingDate(details string) string {
	i := strings.LastIndex(details, ", ")
	if i < 0 {
		return details
	}
	return details[i+len(", "):]
}
