package model

import (
	"cmp"
	"slices"
)

// UndatedGroup is the DateGroup label for articles without a publication date.
const UndatedGroup = "Undated"

// OutputDocument is the ordered list of accepted articles for one site.
// Adding an article whose URL is already present is a no-op, so each URL
// appears at most once per run.
type OutputDocument struct {
	// Site is the adapter identifier the document belongs to.
	Site string

	// Title is the heading written at the top of the output file.
	Title string

	entries []Article
	seen    map[string]struct{}
}

// NewOutputDocument creates an empty document for the given site.
func NewOutputDocument(site, title string) *OutputDocument {
	if title == "" {
		title = site
	}
	return &OutputDocument{
		Site:    site,
		Title:   title,
		entries: make([]Article, 0),
		seen:    make(map[string]struct{}),
	}
}

// Add appends the article unless its URL is already in the document.
// It reports whether the article was added.
func (d *OutputDocument) Add(a Article) bool {
	if _, ok := d.seen[a.URL]; ok {
		return false
	}
	d.seen[a.URL] = struct{}{}
	d.entries = append(d.entries, a)
	return true
}

// Contains reports whether an article with the given URL was added.
func (d *OutputDocument) Contains(url string) bool {
	_, ok := d.seen[url]
	return ok
}

// Len returns the number of entries.
func (d *OutputDocument) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the entries in insertion order.
func (d *OutputDocument) Entries() []Article {
	return slices.Clone(d.entries)
}

// DateGroup holds the articles published on one date.
type DateGroup struct {
	Date     string
	Articles []Article
}

// ByDate groups entries by publication date in ascending date order.
// Articles inside a group are sorted by title, then URL. Undated articles
// are collected in a final UndatedGroup.
func (d *OutputDocument) ByDate() []DateGroup {
	groups := make(map[string][]Article)
	for _, a := range d.entries {
		key := a.Published
		if key == "" {
			key = UndatedGroup
		}
		groups[key] = append(groups[key], a)
	}

	dates := make([]string, 0, len(groups))
	for date := range groups {
		if date != UndatedGroup {
			dates = append(dates, date)
		}
	}
	slices.Sort(dates)
	if _, ok := groups[UndatedGroup]; ok {
		dates = append(dates, UndatedGroup)
	}

	result := make([]DateGroup, 0, len(dates))
	for _, date := range dates {
		articles := groups[date]
		slices.SortStableFunc(articles, func(a, b Article) int {
			return cmp.Or(cmp.Compare(a.Title, b.Title), cmp.Compare(a.URL, b.URL))
		})
		result = append(result, DateGroup{Date: date, Articles: articles})
	}
	return result
}
