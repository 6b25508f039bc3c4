package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/rbpscraper/internal/model"
	"github.com/nao1215/rbpscraper/internal/report"
)

// SearchStep runs the search phase and builds the search index.
type SearchStep struct{}

// NewSearchStep creates a search step.
func NewSearchStep() *SearchStep {
	return &SearchStep{}
}

// Name returns the step name.
func (s *SearchStep) Name() string {
	return "search"
}

// Do executes the search phase.
func (s *SearchStep) Do(ctx context.Context, run *Run) error {
	if err := run.Crawler.Search(ctx); err != nil {
		return fmt.Errorf("failed to search: %w", err)
	}
	return nil
}

// CollectStep runs the detail phase and archives every article.
type CollectStep struct{}

// NewCollectStep creates a collect step.
func NewCollectStep() *CollectStep {
	return &CollectStep{}
}

// Name returns the step name.
func (s *CollectStep) Name() string {
	return "collect"
}

// Do executes the detail phase.
func (s *CollectStep) Do(ctx context.Context, run *Run) error {
	if err := run.Crawler.Collect(ctx); err != nil {
		return fmt.Errorf("failed to collect articles: %w", err)
	}
	return nil
}

// LibraryStep writes the library CSV.
type LibraryStep struct {
	logger *slog.Logger
}

// LibraryStepOption configures a LibraryStep.
type LibraryStepOption func(*LibraryStep)

// WithLibraryLogger sets a custom logger for the library step.
func WithLibraryLogger(logger *slog.Logger) LibraryStepOption {
	return func(s *LibraryStep) {
		s.logger = logger
	}
}

// NewLibraryStep creates a library step.
func NewLibraryStep(opts ...LibraryStepOption) *LibraryStep {
	s := &LibraryStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *LibraryStep) Name() string {
	return "library"
}

// Do writes the library.
func (s *LibraryStep) Do(_ context.Context, run *Run) error {
	path, err := run.Crawler.WriteLibrary()
	if err != nil {
		return fmt.Errorf("failed to write library: %w", err)
	}
	s.logger.Info("library written", "path", path)
	return nil
}

// ReportStep renders the run with a report writer.
type ReportStep struct {
	writer report.Writer
}

// NewReportStep creates a step that writes the run report to w.
func NewReportStep(w report.Writer) *ReportStep {
	return &ReportStep{writer: w}
}

// Name returns the step name.
func (s *ReportStep) Name() string {
	return "report"
}

// Do writes the report.
func (s *ReportStep) Do(_ context.Context, run *Run) error {
	summary := run.Summary()
	r := &report.Report{
		Summary: &summary,
		Library: run.Crawler.Library(),
	}
	if _, err := s.writer.Write(r); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// HistoryStore records finished runs.
// It is implemented by *database.HistoryDB.
type HistoryStore interface {
	SaveRun(ctx context.Context, summary model.RunSummary, rows []model.LibraryRow) (int64, error)
}

// HistoryStep saves the run into the history database.
type HistoryStep struct {
	store  HistoryStore
	logger *slog.Logger
}

// HistoryStepOption configures a HistoryStep.
type HistoryStepOption func(*HistoryStep)

// WithHistoryLogger sets a custom logger for the history step.
func WithHistoryLogger(logger *slog.Logger) HistoryStepOption {
	return func(s *HistoryStep) {
		s.logger = logger
	}
}

// NewHistoryStep creates a step that saves the run to store.
func NewHistoryStep(store HistoryStore, opts ...HistoryStepOption) *HistoryStep {
	s := &HistoryStep{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return "history"
}

// Do saves the run and stores its id on run.
func (s *HistoryStep) Do(ctx context.Context, run *Run) error {
	id, err := s.store.SaveRun(ctx, run.Summary(), run.Crawler.Library())
	if err != nil {
		return fmt.Errorf("failed to save run history: %w", err)
	}
	run.RunID = id
	s.logger.Debug("run saved", "run_id", id)
	return nil
}

// CrawlPipeline returns a pipeline with the search, collect and library steps.
func CrawlPipeline(opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewSearchStep(),
		NewCollectStep(),
		NewLibraryStep(WithLibraryLogger(p.logger)),
	)
	return p
}

// OutputPipeline returns a pipeline that writes the report and, when store is
// not nil, saves the run. It continues on error so both outputs are attempted.
func OutputPipeline(w report.Writer, store HistoryStore, opts ...Option) *Pipeline {
	p := New(append(opts, WithContinueOnError(true))...)
	if w != nil {
		p.AddStep(NewReportStep(w))
	}
	if store != nil {
		p.AddStep(NewHistoryStep(store, WithHistoryLogger(p.logger)))
	}
	return p
}
