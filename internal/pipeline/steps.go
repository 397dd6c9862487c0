package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/nao1215/chronoscan/internal/archive"
	"github.com/nao1215/chronoscan/internal/classify"
	"github.com/nao1215/chronoscan/internal/log"
	"github.com/nao1215/chronoscan/internal/model"
	"github.com/nao1215/chronoscan/internal/report"
)

// Fetcher retrieves the archived URLs for a target.
// *archive.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, target string) archive.Result
}

// RunStore persists finished runs.
// *database.HistoryDB implements it.
type RunStore interface {
	SaveRun(ctx context.Context, report *model.ScanReport) (int64, error)
}

// FetchStep queries the archive for the target's URLs.
// It halts the pipeline when nothing was retrieved.
type FetchStep struct {
	fetcher Fetcher
}

// NewFetchStep creates a FetchStep.
func NewFetchStep(fetcher Fetcher) *FetchStep {
	return &FetchStep{fetcher: fetcher}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, r *model.ScanReport) error {
	res := s.fetcher.Fetch(ctx, r.Target)
	r.SetSnapshots(res.URLs)

	if res.Failure != nil && !errors.Is(res.Failure, archive.ErrNotArchived) {
		r.Error = res.Failure.Error()
	}

	if len(res.URLs) == 0 {
		r.SetOutcome(model.OutcomeNoData)
		return ErrHalt
	}
	return nil
}

// ClassifyStep runs every snapshot through the classifier and pushes each
// finding to the reporter as it is discovered.
type ClassifyStep struct {
	classifier *classify.Classifier
	reporter   log.Reporter
	now        func() time.Time
}

// NewClassifyStep creates a ClassifyStep.
func NewClassifyStep(classifier *classify.Classifier, reporter log.Reporter) *ClassifyStep {
	if reporter == nil {
		reporter = log.NopReporter{}
	}
	return &ClassifyStep{
		classifier: classifier,
		reporter:   reporter,
		now:        time.Now,
	}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do executes the classification step.
func (s *ClassifyStep) Do(_ context.Context, r *model.ScanReport) error {
	s.reporter.Info("Starting heuristic analysis engine...")
	start := s.now()

	for _, f := range s.classifier.ClassifyAll(r.Snapshots) {
		r.AddFinding(f)
		s.reporter.Finding(f)
	}

	elapsed := s.now().Sub(start)
	s.reporter.Success(fmt.Sprintf("Analysis completed in %.2f seconds. Artifacts found: %d",
		elapsed.Seconds(), len(r.Findings)))

	if r.HasFindings() {
		r.SetOutcome(model.OutcomeFindings)
	} else {
		r.SetOutcome(model.OutcomeNoFindings)
	}
	return nil
}

// ReportStep writes the report file. It writes nothing when there are no
// findings, and turns write failures into a single advisory.
type ReportStep struct {
	format     report.Format
	outputFile string
	outputDir  string
	version    string
	reporter   log.Reporter
	now        func() time.Time
}

// ReportStepOption configures a ReportStep.
type ReportStepOption func(*ReportStep)

// WithOutputFile sets an explicit report path.
func WithOutputFile(path string) ReportStepOption {
	return func(s *ReportStep) {
		s.outputFile = path
	}
}

// WithOutputDir sets the directory for default-named reports.
func WithOutputDir(dir string) ReportStepOption {
	return func(s *ReportStep) {
		s.outputDir = dir
	}
}

// WithReportVersion records the tool version in formats that carry it.
func WithReportVersion(version string) ReportStepOption {
	return func(s *ReportStep) {
		s.version = version
	}
}

// WithReportClock sets the clock used to stamp the report time.
func WithReportClock(now func() time.Time) ReportStepOption {
	return func(s *ReportStep) {
		s.now = now
	}
}

// NewReportStep creates a ReportStep for the given format.
func NewReportStep(format report.Format, reporter log.Reporter, opts ...ReportStepOption) *ReportStep {
	if reporter == nil {
		reporter = log.NopReporter{}
	}
	s := &ReportStep{format: format, reporter: reporter, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ReportStep) Name() string {
	return "report"
}

// Path returns where the report for target is written.
func (s *ReportStep) Path(target string) string {
	if s.outputFile != "" {
		return s.outputFile
	}
	return filepath.Join(s.outputDir, report.DefaultFilename(target, s.format))
}

// Do executes the report step.
func (s *ReportStep) Do(_ context.Context, r *model.ScanReport) error {
	path := s.Path(r.Target)

	if r.HasFindings() {
		r.ReportedAt = s.now()
	}
	err := report.Save(r, path, s.format, report.WithToolVersion(s.version))
	switch {
	case errors.Is(err, report.ErrNoFindings):
		return nil
	case err != nil:
		r.Error = err.Error()
		s.reporter.Critical(fmt.Sprintf("Report generation failed: %v", err))
		return nil
	}

	r.ReportPath = path
	s.reporter.Success("Full report exported to: " + path)
	return nil
}

// HistoryStep records the run in the history store.
// A storage failure is logged and never affects the run.
type HistoryStep struct {
	store  RunStore
	logger *slog.Logger
}

// NewHistoryStep creates a HistoryStep.
func NewHistoryStep(store RunStore, logger *slog.Logger) *HistoryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return "history"
}

// Do executes the history step.
func (s *HistoryStep) Do(ctx context.Context, r *model.ScanReport) error {
	id, err := s.store.SaveRun(ctx, r)
	if err != nil {
		s.logger.Warn("failed to save run history", "target", r.Target, "error", err)
		return nil
	}
	s.logger.Debug("run saved", "target", r.Target, "run_id", id)
	return nil
}
