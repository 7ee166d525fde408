package report

import (
	"io"

	"github.com/hkfire/newsurl/internal/model"
)

// SummaryWriter prints the outcome of a run.
type SummaryWriter interface {
	// Write outputs the summary and returns the number of bytes written.
	Write(summary *model.RunSummary) (int, error)
}

// MultiWriter writes a summary to several SummaryWriters in turn.
type MultiWriter struct {
	writers []SummaryWriter
}

// NewMultiWriter returns a SummaryWriter writing to all writers.
func NewMultiWriter(writers ...SummaryWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write writes to every writer and stops at the first error.
func (m *MultiWriter) Write(summary *model.RunSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
