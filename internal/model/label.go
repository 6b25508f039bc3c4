package model

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EntriesPerPage is the multiplier used to build entry ids.
// A page listing this many entries or more produces colliding ids.
const EntriesPerPage = 100

// Label returns the id prefix for a descriptor: the first letter of each
// whitespace separated word, lowercased. "Jimi Hendrix" becomes "jh".
func Label(descriptor string) string {
	var b strings.Builder
	for _, word := range strings.Fields(descriptor) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(r)
	}
	return cases.Lower(language.Und).String(b.String())
}

// EntryID returns the id of the entry at position pos (0-based) on search
// result page page (1-based).
func EntryID(label string, page, pos int) string {
	return label + strconv.Itoa(page*EntriesPerPage+pos)
}

// LibraryFileName returns the library CSV file name for a label.
func LibraryFileName(label string) string {
	return label + "LIB.csv"
}
