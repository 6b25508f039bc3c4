package scraper

import (
	"errors"
	"fmt"
)

// ErrState is matched by errors returned when steps run out of order.
var ErrState = errors.New("invalid scraper state")

var (
	// ErrSearchNotRun is returned by Collect before a successful Search.
	ErrSearchNotRun = fmt.Errorf("%w: Search must be called before Collect", ErrState)

	// ErrDetailNotRun is returned by WriteLibrary before a successful Collect.
	ErrDetailNotRun = fmt.Errorf("%w: Collect must be called before WriteLibrary", ErrState)
)
