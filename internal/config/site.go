package config

import (
	"maps"
	"slices"
)

// Adapter kinds understood by the adapter package.
const (
	KindInmedia   = "inmedia"
	KindRSS       = "rss"
	KindWordPress = "wordpress"
	KindSelector  = "selector"
	KindAnchors   = "anchors"
)

// Kinds lists every supported adapter kind.
var Kinds = []string{KindInmedia, KindRSS, KindWordPress, KindSelector, KindAnchors}

// Selectors holds the CSS selectors used by the selector kind.
// Link, Title, Date and Summary are evaluated relative to each Item match.
type Selectors struct {
	// Item matches one listing entry.
	Item string `yaml:"item,omitempty"`

	// Link matches the anchor carrying the article href.
	Link string `yaml:"link,omitempty"`

	// Title matches the headline element. Defaults to the link text.
	Title string `yaml:"title,omitempty"`

	// Date matches the publication date element.
	Date string `yaml:"date,omitempty"`

	// Summary matches the teaser text element.
	Summary string `yaml:"summary,omitempty"`
}

// SiteConfig describes one news site and how its listing is scraped.
type SiteConfig struct {
	// Kind selects the adapter implementation.
	Kind string `yaml:"kind,omitempty"`

	// Title is the outlet name written as the output file heading.
	Title string `yaml:"title,omitempty"`

	// URL is the listing endpoint (page, feed or WordPress base URL).
	URL string `yaml:"url,omitempty"`

	// File overrides the output file name inside the output directory.
	File string `yaml:"file,omitempty"`

	// Pages is the number of listing pages to walk. Zero means one.
	Pages int `yaml:"pages,omitempty"`

	// Query is the search term sent to search-capable endpoints.
	Query string `yaml:"query,omitempty"`

	// Cookie is sent as the Cookie header.
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra request headers.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Selectors configures the selector kind.
	Selectors Selectors `yaml:"selectors,omitempty"`
}

// PageCount returns the number of listing pages, at least one.
func (s SiteConfig) PageCount() int {
	if s.Pages < 1 {
		return 1
	}
	return s.Pages
}

// OutputFile returns the output file name for the site.
func (s SiteConfig) OutputFile(id string) string {
	if s.File != "" {
		return s.File
	}
	return id + ".md"
}

// Merge returns s overridden by the non-zero fields of override.
// Headers are merged key by key.
func (s SiteConfig) Merge(override SiteConfig) SiteConfig {
	result := s
	result.Headers = maps.Clone(s.Headers)

	if override.Kind != "" {
		result.Kind = override.Kind
	}
	if override.Title != "" {
		result.Title = override.Title
	}
	if override.URL != "" {
		result.URL = override.URL
	}
	if override.File != "" {
		result.File = override.File
	}
	if override.Pages > 0 {
		result.Pages = override.Pages
	}
	if override.Query != "" {
		result.Query = override.Query
	}
	if override.Cookie != "" {
		result.Cookie = override.Cookie
	}
	if len(override.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		maps.Copy(result.Headers, override.Headers)
	}
	if override.Selectors != (Selectors{}) {
		result.Selectors = override.Selectors
	}

	return result
}

// DefaultSites returns the built-in site definitions keyed by adapter id.
func DefaultSites() map[string]SiteConfig {
	return map[string]SiteConfig{
		"inmedia": {
			Kind:  KindInmedia,
			Title: "獨立媒體",
			URL:   "https://www.inmediahk.net/taxonomy/term/541575/530434",
		},
		"rthk": {
			Kind:  KindRSS,
			Title: "香港電台",
			URL:   "https://rthk.hk/rthk/news/rss/c_expressnews_clocal.xml",
		},
		"collective": {
			Kind:  KindWordPress,
			Title: "集誌社",
			URL:   "https://thecollectivehk.com",
			Query: "宏福苑",
		},
	}
}

// DefaultAdapters returns the adapter ids enabled when nothing else is configured.
func DefaultAdapters() []string {
	return []string{"inmedia", "rthk", "collective"}
}

func isKnownKind(kind string) bool {
	return slices.Contains(Kinds, kind)
}
