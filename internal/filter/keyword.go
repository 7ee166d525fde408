package filter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/hkfire/newsurl/internal/model"
)

// Keyword accepts articles whose title contains at least one keyword as a
// substring. The summary is searched too only when WithSummary(true) is set.
// Both sides are NFKC-normalized and case-folded, so "ＴＡＩ ＰＯ" matches
// "tai po"; there is no stemming or fuzzy matching.
type Keyword struct {
	keywords     []string
	folded       []string
	matchSummary bool
}

// Option configures a Keyword filter.
type Option func(*Keyword)

// WithSummary makes the filter search the article summary in addition to
// the title.
func WithSummary(enabled bool) Option {
	return func(f *Keyword) {
		f.matchSummary = enabled
	}
}

// NewKeyword returns a filter for keywords. Blank and duplicate keywords are
// dropped; an empty set matches nothing.
func NewKeyword(keywords []string, opts ...Option) *Keyword {
	f := &Keyword{}
	for _, opt := range opts {
		opt(f)
	}
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		folded := fold(kw)
		if seen[folded] {
			continue
		}
		seen[folded] = true
		f.keywords = append(f.keywords, kw)
		f.folded = append(f.folded, folded)
	}
	return f
}

// Keywords returns the effective keyword set.
func (f *Keyword) Keywords() []string {
	return append([]string(nil), f.keywords...)
}

// MatchesSummary reports whether the summary is searched.
func (f *Keyword) MatchesSummary() bool {
	return f.matchSummary
}

// Match reports whether the article mentions any keyword.
func (f *Keyword) Match(a model.Article) bool {
	if len(f.folded) == 0 {
		return false
	}
	fields := f.fields(a)
	for _, kw := range f.folded {
		if containsAny(fields, kw) {
			return true
		}
	}
	return false
}

// Matches returns the keywords the article mentions, in configured order.
func (f *Keyword) Matches(a model.Article) []string {
	fields := f.fields(a)
	var hits []string
	for i, kw := range f.folded {
		if containsAny(fields, kw) {
			hits = append(hits, f.keywords[i])
		}
	}
	return hits
}

// fields returns the folded text searched for a.
func (f *Keyword) fields(a model.Article) []string {
	if f.matchSummary && a.Summary != "" {
		return []string{fold(a.Title), fold(a.Summary)}
	}
	return []string{fold(a.Title)}
}

func containsAny(fields []string, kw string) bool {
	for _, s := range fields {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// fold builds a fresh Caser per call because Casers are not safe for
// concurrent use.
func fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}
