package model

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned when an id is added to a SearchIndex twice.
var ErrDuplicateID = errors.New("duplicate entry id")

// SearchIndexEntry is one search result listing.
type SearchIndexEntry struct {
	// ID is label + (page*100 + position).
	ID string `json:"id"`

	// Type is the article type, e.g. "Interview" or "Live Review".
	Type string `json:"type"`

	// Href is the site-relative link to the article page.
	Href string `json:"href"`

	// Title, Author, Publication and Date come from the listing block.
	// They are empty when the block does not carry them.
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Publication string `json:"publication,omitempty"`
	Date        string `json:"date,omitempty"`
}

// SearchIndex is the ordered collection of entries found by the search phase.
// The zero value is not usable; create one with NewSearchIndex.
type SearchIndex struct {
	entries []SearchIndexEntry
	byID    map[string]int
}

// NewSearchIndex creates an empty SearchIndex.
func NewSearchIndex() *SearchIndex {
	return &SearchIndex{byID: make(map[string]int)}
}

// Add appends an entry. It returns ErrDuplicateID if the id is already present.
func (s *SearchIndex) Add(e SearchIndexEntry) error {
	if _, ok := s.byID[e.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}
	s.byID[e.ID] = len(s.entries)
	s.entries = append(s.entries, e)
	return nil
}

// Get returns the entry with the given id.
func (s *SearchIndex) Get(id string) (SearchIndexEntry, bool) {
	i, ok := s.byID[id]
	if !ok {
		return SearchIndexEntry{}, false
	}
	return s.entries[i], true
}

// Len returns the number of entries.
func (s *SearchIndex) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the entries in insertion order.
func (s *SearchIndex) Entries() []SearchIndexEntry {
	out := make([]SearchIndexEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
