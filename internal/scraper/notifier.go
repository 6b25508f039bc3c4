package scraper

import (
	"fmt"
	"io"
)

// EventKind identifies a user facing crawl event.
type EventKind int

const (
	// EventPagesFound reports the number of search result pages.
	EventPagesFound EventKind = iota
	// EventSearchStarted marks the start of the search phase.
	EventSearchStarted
	// EventDetailStarted marks the start of the detail phase.
	EventDetailStarted
	// EventProgress reports a detail phase checkpoint.
	EventProgress
	// EventSessionExpired reports an expired session before re-authentication.
	EventSessionExpired
	// EventArticleSkipped reports an article that could not be extracted.
	EventArticleSkipped
)

// Event is a user facing crawl event.
type Event struct {
	Kind EventKind
	// ID is the article id for session and skip events.
	ID string
	// Count is the page count for EventPagesFound and the number of
	// processed articles for EventProgress.
	Count int
	// Percent is the checkpoint reached for EventProgress.
	Percent int
}

// String renders the event as a console line.
func (e Event) String() string {
	switch e.Kind {
	case EventPagesFound:
		return fmt.Sprintf("Number of pages: %d", e.Count)
	case EventSearchStarted:
		return "Retrieving metadata..."
	case EventDetailStarted:
		return "Retrieving articles..."
	case EventProgress:
		return fmt.Sprintf("%d%% Complete", e.Percent)
	case EventSessionExpired:
		return "Cookies expired"
	case EventArticleSkipped:
		return fmt.Sprintf("article %s not found.", e.ID)
	default:
		return ""
	}
}

// Notifier receives crawl events.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

// Notify calls f(e).
func (f NotifierFunc) Notify(e Event) {
	f(e)
}

// WriterNotifier prints events one per line.
type WriterNotifier struct {
	w io.Writer
}

// NewWriterNotifier creates a Notifier printing to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify implements Notifier.
func (n *WriterNotifier) Notify(e Event) {
	_, _ = fmt.Fprintln(n.w, e.String()) //nolint:errcheck // console output
}

// progress emits EventProgress each time another step percent of the
// articles has been processed. The last article always reports 100.
type progress struct {
	total int
	step  int
	next  int
	last  int
	done  int
}

func newProgress(total, step int) *progress {
	if step < 1 || step > 100 {
		step = 10
	}
	return &progress{total: total, step: step, next: step}
}

// advance records one processed article and returns the checkpoints reached.
func (p *progress) advance() []int {
	if p.total <= 0 {
		return nil
	}
	p.done++
	percent := p.done * 100 / p.total
	var reached []int
	for p.next <= 100 && percent >= p.next {
		reached = append(reached, p.next)
		p.last = p.next
		p.next += p.step
	}
	if p.done >= p.total && p.last < 100 {
		reached = append(reached, 100)
		p.last = 100
	}
	return reached
}
