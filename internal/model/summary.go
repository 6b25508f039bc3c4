package model

import "time"

// RunSummary is the outcome of one crawl run.
// It is printed by the report writers and stored in the history database.
type RunSummary struct {
	// RunUUID identifies the run across the report, the history database
	// and the files of one output directory.
	RunUUID string `json:"run_uuid"`

	// Descriptor is the human readable description of the search.
	Descriptor string `json:"descriptor"`

	// Label is the id prefix derived from Descriptor.
	Label string `json:"label"`

	// SearchURL is the first search result page.
	SearchURL string `json:"search_url"`

	// OutputDir is the directory the archive and library were written to.
	OutputDir string `json:"output_dir"`

	// TotalPages is the number of search result pages reported by the site.
	TotalPages int `json:"total_pages"`

	// Indexed is the number of search index entries.
	Indexed int `json:"indexed"`

	// Archived is the number of articles extracted and archived.
	Archived int `json:"archived"`

	// Skipped lists the ids that could not be extracted, in crawl order.
	Skipped []string `json:"skipped,omitempty"`

	// Reauthentications is the number of times credentials were re-acquired.
	Reauthentications int `json:"reauthentications"`

	// LibraryPath is the path of the library CSV, empty until it is written.
	LibraryPath string `json:"library_path,omitempty"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Error contains the error that stopped the run, if any.
	Error string `json:"error,omitempty"`
}

// Duration returns how long the run took.
// It is zero while the run has not finished.
func (s *RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() || s.StartedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// SkippedCount returns the number of skipped articles.
func (s *RunSummary) SkippedCount() int {
	return len(s.Skipped)
}

// Succeeded reports whether the run finished without a fatal error.
func (s *RunSummary) Succeeded() bool {
	return s.Error == ""
}
