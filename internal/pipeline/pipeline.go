package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/hkfire/newsurl/internal/adapter"
	"github.com/hkfire/newsurl/internal/model"
)

// Step is one stage of processing a site.
// Steps run in the order they were added; the first error stops the site.
type Step interface {
	// Do executes the step against the site's job.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Recorder stores the outcome of a site run. *database.NewsDB implements it.
type Recorder interface {
	MarkSeen(ctx context.Context, seenAt time.Time, articles ...model.Article) (int, error)
	RecordRun(ctx context.Context, startedAt time.Time, run model.SiteRun) (int64, error)
}

// Pipeline runs its steps for every adapter and collects a Summary.
type Pipeline struct {
	// steps contains the ordered list of steps to execute per site.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// concurrency is the number of sites processed at once.
	concurrency int

	// recorder, when set, receives every site run and the written URLs.
	recorder Recorder

	// now returns the current time.
	now func() time.Time
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithConcurrency sets how many sites are processed at once.
// Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithRecorder stores each site run and marks written URLs as seen.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithClock overrides the clock used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:       make([]Step, 0),
		concurrency: 1,
		now:         time.Now,
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
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Run processes every adapter and returns the per-site results in adapter order.
// Site failures are reported in the Summary; see Summary.Err.
func (p *Pipeline) Run(ctx context.Context, adapters []adapter.Adapter) *Summary {
	summary := &Summary{StartedAt: p.now()}

	p.logger.Info("starting run",
		"sites", len(adapters),
		"concurrency", p.concurrency,
	)

	if p.concurrency <= 1 {
		summary.Results = make([]SiteResult, len(adapters))
		for i, a := range adapters {
			summary.Results[i] = p.runSite(ctx, summary.StartedAt, a)
		}
	} else {
		summary.Results = p.runConcurrent(ctx, summary.StartedAt, adapters)
	}

	p.logger.Info("run complete",
		"sites", len(adapters),
		"failed", summary.Failed(),
		"written", summary.Written(),
	)
	return summary
}

// runSite executes every step for one adapter and records the outcome.
func (p *Pipeline) runSite(ctx context.Context, startedAt time.Time, a adapter.Adapter) SiteResult {
	start := time.Now()
	job := &Job{
		Adapter: a,
		Result:  &SiteResult{Site: a.ID(), Title: a.Title()},
		Logger:  p.logger.With("site", a.ID()),
	}

	job.Logger.Info("scraping site")
	p.execute(ctx, job)
	job.Result.Duration = time.Since(start)

	switch {
	case job.Result.Err != nil:
		job.Logger.Warn("site failed", "error", job.Result.Err)
	case job.Result.WriteErr != nil:
		job.Logger.Error("output not written", "error", job.Result.WriteErr)
	default:
		job.Logger.Info("site complete",
			"candidates", job.Result.Candidates,
			"matched", job.Result.Matched,
			"written", job.Result.Written,
			"skipped", job.Result.Skipped,
			"output", job.Result.Output,
		)
	}

	p.record(ctx, startedAt, job)
	return *job.Result
}

// execute runs the steps in order and stops at the first error.
func (p *Pipeline) execute(ctx context.Context, job *Job) {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			job.Logger.Warn("pipeline cancelled", "step", step.Name(), "reason", err)
			job.Result.Err = err
			return
		}

		job.Logger.Debug("executing step", "step", step.Name())
		if err := step.Do(ctx, job); err != nil {
			if job.Result.Err == nil && job.Result.WriteErr == nil {
				job.Result.Err = err
			}
			return
		}
	}
}

// record hands the site run to the recorder. Recording errors are logged only.
func (p *Pipeline) record(ctx context.Context, startedAt time.Time, job *Job) {
	if p.recorder == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	if job.Result.Status() == model.StatusOK && job.Document != nil && job.Document.Len() > 0 {
		if _, err := p.recorder.MarkSeen(ctx, p.now(), job.Document.Entries()...); err != nil {
			job.Logger.Warn("failed to mark articles seen", "error", err)
		}
	}
	if _, err := p.recorder.RecordRun(ctx, startedAt, job.Result.SiteRun()); err != nil {
		job.Logger.Warn("failed to record run", "error", err)
	}
}
