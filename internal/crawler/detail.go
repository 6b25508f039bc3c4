package crawler

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/rbpscraper/internal/model"
)

// Classification is the state of a fetched article page.
type Classification int

const (
	// DocumentValid is an article page with its citation marker.
	DocumentValid Classification = iota
	// DocumentExpired is a page without the citation marker. The site
	// serves it when the session cookies are no longer accepted.
	DocumentExpired
	// DocumentMalformed is a page without a content region.
	DocumentMalformed
)

// String returns the classification name.
func (c Classification) String() string {
	switch c {
	case DocumentValid:
		return "valid"
	case DocumentExpired:
		return "expired"
	case DocumentMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

const (
	citationSelector = "span.citations"
	detailsSelector  = "p.article-details"
	sidebarSelector  = "aside"
)

// subjectPattern takes the text between "Artist/" and the next `">`.
var subjectPattern = regexp.MustCompile(`Artist/(.*?)">`)

// Page is a parsed article page.
type Page struct {
	content *goquery.Selection
}

// ParsePage parses the body of an article page.
// A body without a content region still parses and classifies as
// DocumentMalformed.
func ParsePage(body []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &Page{content: doc.Find(contentSelector).First()}, nil
}

// Classification classifies the page.
func (p *Page) Classification() Classification {
	if p.content.Length() == 0 {
		return DocumentMalformed
	}
	if p.content.Find(citationSelector).Length() == 0 {
		return DocumentExpired
	}
	return DocumentValid
}

// Content returns the content region of the page.
func (p *Page) Content() (*goquery.Selection, bool) {
	return p.content, p.content.Length() > 0
}

// fieldSelector extracts one metadata field from the content region.
type fieldSelector struct {
	name    string
	extract func(content *goquery.Selection) (string, bool)
	assign  func(m *model.ArticleMetadata, value string)
}

var requiredFields = []fieldSelector{
	{
		name:    "title",
		extract: textOf("h1.article"),
		assign:  func(m *model.ArticleMetadata, v string) { m.Title = v },
	},
	{
		name:    "author",
		extract: textOf(detailsSelector + " span.writer"),
		assign:  func(m *model.ArticleMetadata, v string) { m.Author = v },
	},
	{
		name:    "source",
		extract: textOf(detailsSelector + " span.publication"),
		assign:  func(m *model.ArticleMetadata, v string) { m.Source = v },
	},
	{
		name:    "date",
		extract: publicationDate,
		assign:  func(m *model.ArticleMetadata, v string) { m.Date = v },
	},
	{
		name: "sidebar",
		extract: func(content *goquery.Selection) (string, bool) {
			return "", content.Find(sidebarSelector).Length() > 0
		},
		assign: func(*model.ArticleMetadata, string) {},
	},
}

func textOf(selector string) func(*goquery.Selection) (string, bool) {
	return func(content *goquery.Selection) (string, bool) {
		sel := content.Find(selector).First()
		if sel.Length() == 0 {
			return "", false
		}
		return strings.TrimSpace(sel.Text()), true
	}
}

// publicationDate returns the second to last line of the article details.
// The parser folds CRLF line endings into LF, so lines are split on LF.
func publicationDate(content *goquery.Selection) (string, bool) {
	sel := content.Find(detailsSelector).First()
	if sel.Length() == 0 {
		return "", false
	}
	text := strings.ReplaceAll(sel.Text(), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return "", false
	}
	return strings.TrimSpace(lines[len(lines)-2]), true
}

// subjects returns the artist slugs linked from the sidebar in link order.
// Links that are not artist links are skipped.
func subjects(content *goquery.Selection) []string {
	out := make([]string, 0)
	content.Find(sidebarSelector).First().Find("a").Each(func(_ int, a *goquery.Selection) {
		markup, err := goquery.OuterHtml(a)
		if err != nil {
			return
		}
		if m := subjectPattern.FindStringSubmatch(markup); m != nil {
			out = append(out, m[1])
		}
	})
	return out
}

// Metadata extracts the article fields. The page must be DocumentValid.
func (p *Page) Metadata(id string) (model.ArticleMetadata, error) {
	if c := p.Classification(); c != DocumentValid {
		return model.ArticleMetadata{}, &ExtractionError{ID: id, Field: "page", Reason: "document is " + c.String()}
	}

	m := model.ArticleMetadata{ID: id}
	for _, f := range requiredFields {
		v, ok := f.extract(p.content)
		if !ok {
			return model.ArticleMetadata{}, &ExtractionError{ID: id, Field: f.name, Reason: "not found"}
		}
		f.assign(&m, v)
	}
	m.Subjects = subjects(p.content)
	return m, nil
}

// Classify parses body and classifies it.
func Classify(body []byte) Classification {
	p, err := ParsePage(body)
	if err != nil {
		return DocumentMalformed
	}
	return p.Classification()
}

// ParseDetail parses body and extracts the article fields.
func ParseDetail(id string, body []byte) (model.ArticleMetadata, error) {
	p, err := ParsePage(body)
	if err != nil {
		return model.ArticleMetadata{}, &ExtractionError{ID: id, Field: "page", Reason: err.Error()}
	}
	return p.Metadata(id)
}
