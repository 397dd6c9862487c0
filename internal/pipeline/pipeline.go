package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/chronoscan/internal/model"
)

// ErrHalt is returned by a step to end the pipeline early without error.
// Remaining steps are skipped and final steps still run.
var ErrHalt = errors.New("pipeline halted")

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// report from previous steps.
type Step interface {
	// Do executes the pipeline step.
	// Non-critical problems should be recorded in the report and return nil.
	Do(ctx context.Context, report *model.ScanReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// finalSteps run after steps, even when the pipeline halted or failed.
	finalSteps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. ErrHalt always stops the main steps.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:      make([]Step, 0),
		finalSteps: make([]Step, 0),
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

// AddFinalStep appends a step that runs after all other steps, whether the
// pipeline completed, halted or failed. It is skipped only on cancellation.
func (p *Pipeline) AddFinalStep(step Step) {
	p.finalSteps = append(p.finalSteps, step)
}

// Execute runs all pipeline steps in sequence.
//
// Returns the first error encountered if continueOnError is false, or nil
// if all steps complete. A step returning ErrHalt is not an error.
func (p *Pipeline) Execute(ctx context.Context, report *model.ScanReport) error {
	runErr := p.run(ctx, report, p.steps, true)
	if ctx.Err() != nil {
		return runErr
	}

	if err := p.run(ctx, report, p.finalSteps, false); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// run executes steps in order. When halting is true, ErrHalt stops the loop.
func (p *Pipeline) run(ctx context.Context, report *model.ScanReport, steps []Step, halting bool) error {
	for _, step := range steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"target", report.Target,
		)

		err := step.Do(ctx, report)
		report.PerformedSteps = append(report.PerformedSteps, step.Name())

		switch {
		case err == nil:
			p.logger.Debug("step completed", "step", step.Name(), "target", report.Target)
		case errors.Is(err, ErrHalt):
			p.logger.Debug("pipeline halted", "step", step.Name(), "target", report.Target)
			if halting {
				return nil
			}
		default:
			p.logger.Error("step failed",
				"step", step.Name(),
				"target", report.Target,
				"error", err,
			)
			report.Error = err.Error()
			if !p.continueOnError {
				return err
			}
		}
	}

	return nil
}

// StepCount returns the number of steps in the pipeline, final steps included.
func (p *Pipeline) StepCount() int {
	return len(p.steps) + len(p.finalSteps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, p.StepCount())
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	for _, step := range p.finalSteps {
		names = append(names, step.Name())
	}
	return names
}
