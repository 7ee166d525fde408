package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hkfire/newsurl/internal/model"
)

// SimpleWriter prints the run summary as an aligned table for terminals.
type SimpleWriter struct {
	baseWriter
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose adds durations and skip counts to the table.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter returns a SimpleWriter writing to output.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write prints one row per site followed by a totals line.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	header := "SITE\tSTATUS\tCANDIDATES\tMATCHED\tWRITTEN"
	if w.verbose {
		header += "\tSKIPPED\tDURATION"
	}
	fmt.Fprintln(tw, header+"\tOUTPUT")

	for _, site := range summary.Sites {
		row := fmt.Sprintf("%s\t%s\t%d\t%d\t%d", site.Site, site.Status, site.Candidates, site.Matched, site.Written)
		if w.verbose {
			row += fmt.Sprintf("\t%d\t%s", site.Skipped, site.Duration.Round(time.Millisecond))
		}
		output := site.Output
		if site.Error != "" {
			output = site.Error
		}
		fmt.Fprintln(tw, row+"\t"+output)
	}
	if err := tw.Flush(); err != nil {
		return 0, err
	}

	fmt.Fprintf(&sb, "\n%d site(s): %d ok, %d fetch failed, %d write failed, %d link(s) written\n",
		len(summary.Sites),
		summary.Count(model.StatusOK),
		summary.Count(model.StatusFetchFailed),
		summary.Count(model.StatusWriteFailed),
		summary.Written(),
	)

	return io.WriteString(w.output, sb.String())
}
