package archive

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/rbpscraper/internal/model"
)

// LibraryPath returns the path of the library CSV for label.
func (s *Store) LibraryPath(label string) string {
	return filepath.Join(s.dir, model.LibraryFileName(label))
}

// WriteLibrary writes rows as <dir>/<label>LIB.csv with a header line and
// returns the path written.
func (s *Store) WriteLibrary(label string, rows []model.LibraryRow) (string, error) {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := s.LibraryPath(label)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm) //nolint:gosec // path is built from the configured output directory
	if err != nil {
		return "", fmt.Errorf("failed to create library file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(model.LibraryHeader); err != nil {
		return "", fmt.Errorf("failed to write library header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.Record()); err != nil {
			return "", fmt.Errorf("failed to write library row %s: %w", row.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush library file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close library file: %w", err)
	}
	return path, nil
}
