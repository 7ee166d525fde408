package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hkfire/newsurl/internal/adapter"
	"github.com/hkfire/newsurl/internal/model"
	"github.com/hkfire/newsurl/internal/report"
)

// Job carries the state of one site through the pipeline steps.
type Job struct {
	// Adapter produces the site's candidates.
	Adapter adapter.Adapter

	// Candidates holds every candidate the adapter yielded.
	Candidates []model.Article

	// Matches holds the candidates accepted so far, in listing order.
	Matches []model.Article

	// Document is the document handed to the writer.
	Document *model.OutputDocument

	// Result accumulates the counters reported for the site.
	Result *SiteResult

	// Logger is scoped to the site.
	Logger *slog.Logger
}

// CollectStep drains the adapter's candidate sequence.
// On a fetch error the partial results are discarded.
type CollectStep struct{}

// NewCollectStep creates a CollectStep.
func NewCollectStep() *CollectStep {
	return &CollectStep{}
}

// Name returns the step name.
func (s *CollectStep) Name() string {
	return "collect"
}

// Do executes the collect step.
func (s *CollectStep) Do(ctx context.Context, job *Job) error {
	var candidates []model.Article
	for article, err := range job.Adapter.Candidates(ctx) {
		if err != nil {
			job.Candidates = nil
			job.Result.Err = fmt.Errorf("fetch %s: %w", job.Adapter.ID(), err)
			return job.Result.Err
		}
		candidates = append(candidates, article)
	}

	job.Candidates = candidates
	job.Result.Candidates = len(candidates)
	return nil
}

// Matcher decides whether an article is kept. *filter.Keyword implements it.
type Matcher interface {
	Match(a model.Article) bool
}

// keywordReporter is implemented by matchers that can name the keywords hit.
type keywordReporter interface {
	Matches(a model.Article) []string
}

// FilterStep keeps the candidates accepted by a Matcher.
// A URL listed twice by the adapter is kept once.
type FilterStep struct {
	matcher Matcher
}

// NewFilterStep creates a FilterStep.
func NewFilterStep(matcher Matcher) *FilterStep {
	return &FilterStep{matcher: matcher}
}

// Name returns the step name.
func (s *FilterStep) Name() string {
	return "filter"
}

// Do executes the filter step.
func (s *FilterStep) Do(_ context.Context, job *Job) error {
	seen := make(map[string]bool, len(job.Candidates))
	matches := make([]model.Article, 0)

	for _, a := range job.Candidates {
		if seen[a.URL] || !s.matcher.Match(a) {
			continue
		}
		seen[a.URL] = true
		matches = append(matches, a)

		if r, ok := s.matcher.(keywordReporter); ok {
			job.Logger.Debug("article matched", "url", a.URL, "keywords", r.Matches(a))
		}
	}

	job.Matches = matches
	job.Result.Matched = len(matches)
	return nil
}

// SeenChecker reports whether a URL was recorded by an earlier run.
// *database.NewsDB implements it.
type SeenChecker interface {
	HasSeen(ctx context.Context, site, url string) (bool, error)
}

// DedupStep drops matches whose URL an earlier run already recorded.
// A lookup error keeps the article.
type DedupStep struct {
	seen SeenChecker
}

// NewDedupStep creates a DedupStep.
func NewDedupStep(seen SeenChecker) *DedupStep {
	return &DedupStep{seen: seen}
}

// Name returns the step name.
func (s *DedupStep) Name() string {
	return "dedup"
}

// Do executes the dedup step.
func (s *DedupStep) Do(ctx context.Context, job *Job) error {
	fresh := make([]model.Article, 0, len(job.Matches))
	for _, a := range job.Matches {
		seen, err := s.seen.HasSeen(ctx, a.Source, a.URL)
		if err != nil {
			job.Logger.Warn("seen lookup failed", "url", a.URL, "error", err)
		}
		if seen {
			job.Result.Skipped++
			continue
		}
		fresh = append(fresh, a)
	}
	job.Matches = fresh
	return nil
}

// DocumentWriter writes a document to a file. *report.FileWriter implements it.
type DocumentWriter interface {
	WriteFile(path string, doc *model.OutputDocument) (report.FileResult, error)
}

// WriteStep builds the site's OutputDocument and writes it.
type WriteStep struct {
	writer DocumentWriter
	path   func(site string) string
}

// NewWriteStep creates a WriteStep. path maps a site id to its output file.
func NewWriteStep(writer DocumentWriter, path func(site string) string) *WriteStep {
	return &WriteStep{writer: writer, path: path}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// Do executes the write step.
func (s *WriteStep) Do(_ context.Context, job *Job) error {
	doc := model.NewOutputDocument(job.Adapter.ID(), job.Adapter.Title())
	for _, a := range job.Matches {
		doc.Add(a)
	}
	job.Document = doc

	path := s.path(job.Adapter.ID())
	job.Result.Output = path

	res, err := s.writer.WriteFile(path, doc)
	if err != nil {
		job.Result.WriteErr = fmt.Errorf("write %s: %w", path, err)
		return job.Result.WriteErr
	}
	job.Result.Written = res.Written
	job.Result.Skipped += res.Skipped
	return nil
}
