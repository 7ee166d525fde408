package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/hkfire/newsurl/internal/model"
)

// ErrAllAdaptersFailed is returned by Summary.Err when no site could be fetched.
var ErrAllAdaptersFailed = errors.New("all adapters failed")

// SiteResult is the outcome of one site.
type SiteResult struct {
	// Site is the adapter identifier.
	Site string

	// Title is the outlet name.
	Title string

	// Output is the markdown file path, empty when nothing was written.
	Output string

	// Candidates is the number of candidates the adapter yielded.
	Candidates int

	// Matched is the number of distinct candidates accepted by the filter.
	Matched int

	// Written is the number of link lines written to the output file.
	Written int

	// Skipped counts matches left out because an earlier run or the
	// existing file already had them.
	Skipped int

	// Err is the adapter failure. The site's output was not touched.
	Err error

	// WriteErr is the output write failure.
	WriteErr error

	// Duration is how long the site took.
	Duration time.Duration
}

// Status classifies the result.
func (r SiteResult) Status() model.RunStatus {
	switch {
	case r.Err != nil:
		return model.StatusFetchFailed
	case r.WriteErr != nil:
		return model.StatusWriteFailed
	default:
		return model.StatusOK
	}
}

// SiteRun converts the result to its model form.
func (r SiteResult) SiteRun() model.SiteRun {
	run := model.SiteRun{
		Site:       r.Site,
		Title:      r.Title,
		Output:     r.Output,
		Status:     r.Status(),
		Candidates: r.Candidates,
		Matched:    r.Matched,
		Written:    r.Written,
		Skipped:    r.Skipped,
		Duration:   r.Duration,
	}
	switch {
	case r.Err != nil:
		run.Error = r.Err.Error()
	case r.WriteErr != nil:
		run.Error = r.WriteErr.Error()
	}
	return run
}

// Summary holds the results of one run in adapter order.
type Summary struct {
	StartedAt time.Time
	Results   []SiteResult
}

// Err returns ErrAllAdaptersFailed when every site failed to fetch, the
// joined write errors when any output could not be written, and nil otherwise.
func (s *Summary) Err() error {
	if len(s.Results) == 0 {
		return nil
	}

	var fetchErrs, writeErrs []error
	for _, r := range s.Results {
		if r.Err != nil {
			fetchErrs = append(fetchErrs, r.Err)
		}
		if r.WriteErr != nil {
			writeErrs = append(writeErrs, r.WriteErr)
		}
	}

	if len(fetchErrs) == len(s.Results) {
		return fmt.Errorf("%w: %w", ErrAllAdaptersFailed, errors.Join(fetchErrs...))
	}
	return errors.Join(writeErrs...)
}

// Failed returns the number of sites that did not complete.
func (s *Summary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Status() != model.StatusOK {
			n++
		}
	}
	return n
}

// Written returns the number of link lines written across sites.
func (s *Summary) Written() int {
	n := 0
	for _, r := range s.Results {
		n += r.Written
	}
	return n
}

// RunSummary converts the summary for the summary writers.
func (s *Summary) RunSummary() *model.RunSummary {
	sites := make([]model.SiteRun, len(s.Results))
	for i, r := range s.Results {
		sites[i] = r.SiteRun()
	}
	return &model.RunSummary{StartedAt: s.StartedAt, Sites: sites}
}
