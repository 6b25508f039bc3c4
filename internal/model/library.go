package model

import "strings"

// SubjectSeparator joins subjects into the single library CSV column.
const SubjectSeparator = ";"

// ArticleMetadata holds the fields extracted from one article page.
type ArticleMetadata struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Source   string   `json:"source"`
	Date     string   `json:"date"`
	Subjects []string `json:"subjects"`
}

// LibraryRow is one row of the article library.
type LibraryRow struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Source   string   `json:"source"`
	Date     string   `json:"date"`
	Subjects []string `json:"subjects"`
	Topic    string   `json:"topic"`
	Type     string   `json:"type"`
	Href     string   `json:"href"`
}

// LibraryHeader is the column order of the library CSV.
var LibraryHeader = []string{"id", "title", "author", "source", "date", "subjects", "topic", "type", "href"}

// Record returns the row as CSV fields in LibraryHeader order.
func (r LibraryRow) Record() []string {
	return []string{
		r.ID,
		r.Title,
		r.Author,
		r.Source,
		r.Date,
		strings.Join(r.Subjects, SubjectSeparator),
		r.Topic,
		r.Type,
		r.Href,
	}
}

// BuildLibrary joins the search index with the collected metadata on id.
// Rows follow index order and only ids with metadata are included.
// Every row carries topic.
func BuildLibrary(index *SearchIndex, metadata []ArticleMetadata, topic string) []LibraryRow {
	if index == nil {
		return nil
	}

	byID := make(map[string]ArticleMetadata, len(metadata))
	for _, m := range metadata {
		byID[m.ID] = m
	}

	rows := make([]LibraryRow, 0, len(metadata))
	for _, e := range index.entries {
		m, ok := byID[e.ID]
		if !ok {
			continue
		}
		rows = append(rows, LibraryRow{
			ID:       e.ID,
			Title:    m.Title,
			Author:   m.Author,
			Source:   m.Source,
			Date:     m.Date,
			Subjects: m.Subjects,
			Topic:    topic,
			Type:     e.Type,
			Href:     e.Href,
		})
	}
	return rows
}
