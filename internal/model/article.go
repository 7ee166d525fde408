package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Article validation errors.
var (
	// ErrInvalidURL is returned when an article link is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("article url must be an absolute http(s) URL")

	// ErrEmptyTitle is returned when an article has no title text.
	ErrEmptyTitle = errors.New("article title is empty")
)

// Article is a news article link produced by a site adapter.
// Values are created by NewArticle and treated as immutable afterwards;
// the With* helpers return modified copies.
type Article struct {
	// URL is the absolute article URL. It is unique per source.
	URL string `json:"url"`

	// Title is the human-readable headline with whitespace collapsed.
	Title string `json:"title"`

	// Source is the identifier of the adapter that produced the article.
	Source string `json:"source"`

	// Published is the listing date in YYYY-MM-DD form, or empty when the
	// listing does not expose one.
	Published string `json:"published,omitempty"`

	// Summary is optional teaser text shown next to the headline.
	Summary string `json:"summary,omitempty"`
}

// NewArticle validates and normalizes a candidate link.
func NewArticle(source, rawURL, title string) (Article, error) {
	title = NormalizeText(title)
	if title == "" {
		return Article{}, ErrEmptyTitle
	}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Article{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Article{}, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	u.Fragment = ""

	return Article{
		URL:    u.String(),
		Title:  title,
		Source: source,
	}, nil
}

// WithPublished returns a copy of the article with the publication date set.
func (a Article) WithPublished(date string) Article {
	a.Published = strings.TrimSpace(date)
	return a
}

// WithSummary returns a copy of the article with the summary set.
func (a Article) WithSummary(summary string) Article {
	a.Summary = NormalizeText(summary)
	return a
}

// NormalizeText collapses runs of whitespace (including newlines and
// full-width spaces) into single ASCII spaces and trims the result.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
