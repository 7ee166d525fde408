package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hkfire/newsurl/internal/adapter"
)

// runConcurrent processes adapters with at most p.concurrency sites in flight.
// Results keep adapter order. A site failure never cancels the others, so the
// group functions always return nil.
func (p *Pipeline) runConcurrent(ctx context.Context, startedAt time.Time, adapters []adapter.Adapter) []SiteResult {
	results := make([]SiteResult, len(adapters))

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, a := range adapters {
		g.Go(func() error {
			results[i] = p.runSite(ctx, startedAt, a)
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // site errors are stored in results
	return results
}
