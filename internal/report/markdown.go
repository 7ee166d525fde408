package report

import (
	"io"

	"github.com/nao1215/markdown"

	"github.com/hkfire/newsurl/internal/config"
	"github.com/hkfire/newsurl/internal/model"
)

// MarkdownWriter renders an OutputDocument.
//
// The list layout is
//
//	# <site title>
//
//	- [title](url)
//
// and the by-date layout groups the bullets under "## <date>" headings.
// Nothing time-dependent is rendered, so equal documents give equal bytes.
type MarkdownWriter struct {
	baseWriter
	layout string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithLayout selects config.LayoutList or config.LayoutByDate.
func WithLayout(layout string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.layout = layout
	}
}

// NewMarkdownWriter returns a MarkdownWriter writing to output.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		layout:     config.LayoutList,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders doc and returns the number of bytes written.
func (w *MarkdownWriter) Write(doc *model.OutputDocument) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1(doc.Title)
	md.PlainText("")

	if w.layout == config.LayoutByDate {
		for i, group := range doc.ByDate() {
			if i > 0 {
				md.PlainText("")
			}
			md.H2(group.Date)
			md.PlainText("")
			md.BulletList(items(group.Articles)...)
		}
	} else {
		md.BulletList(items(doc.Entries())...)
	}

	if doc.Len() > 0 {
		md.PlainText("")
	}
	return len(md.String()), md.Build()
}

// Item returns the markdown link for an article, without the bullet.
// Titles are written verbatim.
func Item(a model.Article) string {
	return markdown.Link(a.Title, a.URL)
}

func items(articles []model.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = Item(a)
	}
	return out
}
