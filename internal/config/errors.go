package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoSearchURL is returned when neither a flag nor the config file
	// provides a search URL.
	ErrNoSearchURL = errors.New("no search URL specified: use --url or set url in the config file")

	// ErrInvalidSearchURL is returned when the search URL has no PageNumber
	// parameter to paginate over.
	ErrInvalidSearchURL = errors.New("invalid search URL: must contain a PageNumber=<n> parameter")

	// ErrNoDescriptor is returned when the descriptor has no words to build
	// the id label from.
	ErrNoDescriptor = errors.New("no descriptor specified: use --descriptor (e.g. \"Jimi Hendrix\")")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDelay is returned when a per-phase delay is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidProgressStep is returned when the progress step is outside 1..100.
	ErrInvalidProgressStep = errors.New("invalid progress step: must be between 1 and 100 percent")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
