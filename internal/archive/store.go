package archive

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	htmlDir = "html"
	txtDir  = "txt"

	dirPerm  = 0750
	filePerm = 0600
)

// ErrEmptyContent is returned when there is nothing to archive.
var ErrEmptyContent = errors.New("no content to archive")

// Store writes archived articles below an output directory.
type Store struct {
	dir       string
	writeText bool
}

// Option configures a Store.
type Option func(*Store)

// WithoutText disables the plain-text archive.
func WithoutText() Option {
	return func(s *Store) {
		s.writeText = false
	}
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, writeText: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// HTMLPath returns the path of the archived markup for id.
func (s *Store) HTMLPath(id string) string {
	return filepath.Join(s.dir, htmlDir, id+".html")
}

// TextPath returns the path of the archived text for id.
func (s *Store) TextPath(id string) string {
	return filepath.Join(s.dir, txtDir, id+".txt")
}

// Archive writes the content region of article id.
func (s *Store) Archive(id string, content *goquery.Selection) error {
	if content == nil || content.Length() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyContent, id)
	}

	markup, err := renderMarkup(content)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", id, err)
	}
	if err := writeFile(s.HTMLPath(id), markup); err != nil {
		return err
	}

	if s.writeText {
		if err := writeFile(s.TextPath(id), []byte(plainText(content))); err != nil {
			return err
		}
	}
	return nil
}

// renderMarkup serializes the selected nodes, one per line.
func renderMarkup(sel *goquery.Selection) ([]byte, error) {
	var buf bytes.Buffer
	for _, n := range sel.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// plainText returns the text of sel with whitespace collapsed within each
// line and blank lines removed.
func plainText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, line := range strings.Split(sel.Text(), "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		b.WriteString(strings.Join(words, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
