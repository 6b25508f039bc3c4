package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/rbpscraper/internal/model"
)

// Crawler is the orchestrator the crawl steps drive.
// It is implemented by *scraper.Scraper.
type Crawler interface {
	Label() string
	Search(ctx context.Context) error
	Collect(ctx context.Context) error
	WriteLibrary() (string, error)
	Summary() model.RunSummary
	Library() []model.LibraryRow
}

// Run is the state shared by the steps of one crawl.
type Run struct {
	// Crawler performs the crawl phases.
	Crawler Crawler

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string

	// Err is the first error returned by a step.
	Err error

	// Cancelled is set when the context was done before a step started.
	Cancelled bool

	// RunID is the history database id, set once the run is saved.
	RunID int64

	// StartedAt and FinishedAt bound the pipeline executions.
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRun creates a Run for the given crawler.
func NewRun(c Crawler) *Run {
	return &Run{Crawler: c}
}

// Summary returns the crawler summary completed with the run outcome.
func (r *Run) Summary() model.RunSummary {
	s := r.Crawler.Summary()
	if s.StartedAt.IsZero() {
		s.StartedAt = r.StartedAt
	}
	if s.FinishedAt.IsZero() || s.FinishedAt.Before(r.FinishedAt) {
		s.FinishedAt = r.FinishedAt
	}
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	return s
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the shared Run.
type Step interface {
	// Do executes the pipeline step.
	// Per article failures are handled by the crawler; an error returned
	// here ends the pipeline unless it continues on error.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool

	// now returns the current time.
	now func() time.Time
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Output steps use this so that a failed report
// write does not prevent the run from being recorded.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// WithClock sets the time source used for the run bounds.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// Cancellation is checked before each step; a running step observes ctx
// itself.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete. The first error is also kept on run.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = p.now()
	}
	defer func() {
		run.FinishedAt = p.now()
	}()

	label := run.Crawler.Label()
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			run.Cancelled = true
			p.record(run, ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"label", label,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"label", label,
				"error", err,
			)
			p.record(run, err)

			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"label", label,
			)
		}

		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}

	return nil
}

// record keeps the first error of the run.
func (p *Pipeline) record(run *Run, err error) {
	if run.Err == nil {
		run.Err = err
	}
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
