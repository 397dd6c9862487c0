package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/chronoscan/internal/classify"
	"github.com/nao1215/chronoscan/internal/log"
	"github.com/nao1215/chronoscan/internal/model"
	"github.com/nao1215/chronoscan/internal/report"
	"github.com/nao1215/chronoscan/internal/target"
)

// ScanSettings wires the steps of a scan pipeline.
type ScanSettings struct {
	// Fetcher retrieves archived URLs. Required.
	Fetcher Fetcher

	// Classifier defaults to classify.New().
	Classifier *classify.Classifier

	// Reporter receives advisory lines and live findings.
	Reporter log.Reporter

	// Store records each run. Nil disables history.
	Store RunStore

	// Format is the report format.
	Format report.Format

	// OutputFile is an explicit report path. Single target only.
	OutputFile string

	// OutputDir holds default-named reports. Empty means the working directory.
	OutputDir string

	// Version is recorded in JSON and Markdown reports.
	Version string

	// Logger is the diagnostic logger.
	Logger *slog.Logger
}

// NewScanPipeline builds the fetch, classify, report pipeline with history
// recording as a final step.
func NewScanPipeline(s ScanSettings) *Pipeline {
	if s.Classifier == nil {
		s.Classifier = classify.New()
	}
	if s.Reporter == nil {
		s.Reporter = log.NopReporter{}
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}

	p := New(WithLogger(s.Logger))
	p.AddSteps(
		NewFetchStep(s.Fetcher),
		NewClassifyStep(s.Classifier, s.Reporter),
		NewReportStep(s.Format, s.Reporter,
			WithOutputFile(s.OutputFile),
			WithOutputDir(s.OutputDir),
			WithReportVersion(s.Version),
		),
	)
	if s.Store != nil {
		p.AddFinalStep(NewHistoryStep(s.Store, s.Logger))
	}

	return p
}

// Scan normalizes rawTarget and runs p over it.
func Scan(ctx context.Context, p *Pipeline, rawTarget string) (*model.ScanReport, error) {
	r := model.NewScanReport(target.Normalize(rawTarget))
	err := p.Execute(ctx, r)
	return r, err
}
