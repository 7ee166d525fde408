package model

import "time"

// RunStatus is the outcome of scraping one site.
type RunStatus int

const (
	// StatusOK means the listing was read and the output file written.
	StatusOK RunStatus = iota

	// StatusFetchFailed means the adapter failed; its partial results were discarded.
	StatusFetchFailed

	// StatusWriteFailed means the output file could not be written.
	StatusWriteFailed
)

// String returns the lowercase status name.
func (s RunStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFetchFailed:
		return "fetch-failed"
	case StatusWriteFailed:
		return "write-failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s RunStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SiteRun records what happened to one site during a run.
type SiteRun struct {
	Site       string        `json:"site"`
	Title      string        `json:"title"`
	Output     string        `json:"output,omitempty"`
	Status     RunStatus     `json:"status"`
	Candidates int           `json:"candidates"`
	Matched    int           `json:"matched"`
	Written    int           `json:"written"`
	Skipped    int           `json:"skipped"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// RunSummary is the per-site outcome of one invocation, in adapter order.
type RunSummary struct {
	StartedAt time.Time `json:"started_at"`
	Sites     []SiteRun `json:"sites"`
}

// Count returns how many sites ended with status s.
func (r *RunSummary) Count(s RunStatus) int {
	n := 0
	for _, site := range r.Sites {
		if site.Status == s {
			n++
		}
	}
	return n
}

// Written returns the total number of lines written across sites.
func (r *RunSummary) Written() int {
	n := 0
	for _, site := range r.Sites {
		n += site.Written
	}
	return n
}
