package crawler

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("failed to parse search page")

	// ErrExtraction is matched by every *ExtractionError.
	ErrExtraction = errors.New("failed to extract article")
)

// ParseError reports a search URL or search result page that does not have
// the expected structure. It aborts the search phase.
type ParseError struct {
	// Op is what was being parsed, e.g. "page count".
	Op string
	// Reason describes what was missing.
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrParse, e.Op, e.Reason)
}

// Unwrap returns ErrParse.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

// ExtractionError reports an article or listing whose markup lacks a
// required field. The item is skipped and the run continues.
type ExtractionError struct {
	// ID is the entry id, empty for search result listings.
	ID string
	// Field is the name of the missing field.
	Field string
	// Reason describes what was missing.
	Reason string
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s: %s", ErrExtraction, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s: %s", ErrExtraction, e.ID, e.Field, e.Reason)
}

// Unwrap returns ErrExtraction.
func (e *ExtractionError) Unwrap() error {
	return ErrExtraction
}
