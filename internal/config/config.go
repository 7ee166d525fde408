package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "newsurl"

	// DefaultOutputDir is where per-site markdown files are written.
	DefaultOutputDir = "output"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestDelay is the minimum gap between two requests of one client.
	DefaultRequestDelay = 1 * time.Second

	// DefaultConcurrency runs adapters one after another.
	DefaultConcurrency = 1

	// DefaultUserAgent is sent with every listing request.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultMaxBodySize limits how much of a listing response is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Output modes.
const (
	ModeOverwrite = "overwrite"
	ModeAppend    = "append"
)

// Output layouts.
const (
	LayoutList   = "list"
	LayoutByDate = "by-date"
)

// Dedup policies.
const (
	DedupNone     = "none"
	DedupRegistry = "registry"
)

// DefaultKeywords returns the keyword set used when none is configured.
func DefaultKeywords() []string {
	return []string{"大埔", "宏福苑"}
}

// Config holds all options of a scraping run.
// It is built once at startup and must not be modified after Validate.
type Config struct {
	// Keywords is the substring set an article title must contain.
	Keywords []string

	// MatchSummary also searches the article summary for keywords.
	MatchSummary bool

	// Adapters is the ordered list of enabled site ids.
	Adapters []string

	// OutputDir is the directory receiving one markdown file per site.
	OutputDir string

	// Mode is ModeOverwrite or ModeAppend.
	Mode string

	// Layout is LayoutList or LayoutByDate.
	Layout string

	// Dedup is DedupNone or DedupRegistry.
	Dedup string

	// Concurrency is the number of adapters run at once.
	Concurrency int

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// RequestDelay is the politeness gap between requests.
	RequestDelay time.Duration

	// UserAgent is the User-Agent header.
	UserAgent string

	// MaxBodySize is the maximum number of response bytes read per request.
	MaxBodySize int64

	// SaveToDB enables the SQLite registry of seen URLs and runs.
	SaveToDB bool

	// DBDir is the directory holding the SQLite database.
	DBDir string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the YAML file the configuration was loaded from, if any.
	ConfigFilePath string

	// Sites holds every known site definition keyed by adapter id.
	Sites map[string]SiteConfig
}

// NewConfig creates a Config populated with the built-in defaults.
func NewConfig() *Config {
	return &Config{
		Keywords:     DefaultKeywords(),
		Adapters:     DefaultAdapters(),
		OutputDir:    DefaultOutputDir,
		Mode:         ModeOverwrite,
		Layout:       LayoutList,
		Dedup:        DedupNone,
		Concurrency:  DefaultConcurrency,
		Timeout:      DefaultTimeout,
		RequestDelay: DefaultRequestDelay,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
		SaveToDB:     true,
		DBDir:        XDGDataDir(),
		Sites:        DefaultSites(),
	}
}

// XDGDataDir returns the XDG data directory for newsurl.
// On Linux: ~/.local/share/newsurl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for newsurl.
// On Linux: ~/.config/newsurl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile overlays the values set in a configuration file.
// Defaults from the file are merged into every site before the
// site-specific entries are applied.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	if kws := CleanList(f.Keywords); len(kws) > 0 {
		c.Keywords = kws
	}
	if f.MatchSummary != nil {
		c.MatchSummary = *f.MatchSummary
	}
	if ids := CleanList(f.Adapters); len(ids) > 0 {
		for i := range ids {
			ids[i] = strings.ToLower(ids[i])
		}
		c.Adapters = ids
	}
	if f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if f.Output.Mode != "" {
		c.Mode = strings.ToLower(f.Output.Mode)
	}
	if f.Output.Layout != "" {
		c.Layout = strings.ToLower(f.Output.Layout)
	}
	if f.Dedup != "" {
		c.Dedup = strings.ToLower(f.Dedup)
	}
	if f.Concurrency != 0 {
		c.Concurrency = f.Concurrency
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.RequestDelay != nil {
		c.RequestDelay = *f.RequestDelay
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.MaxBodySize != 0 {
		c.MaxBodySize = f.MaxBodySize
	}
	if f.Database.Enabled != nil {
		c.SaveToDB = *f.Database.Enabled
	}
	if f.Database.Dir != "" {
		c.DBDir = f.Database.Dir
	}

	sites := make(map[string]SiteConfig, len(c.Sites)+len(f.Sites))
	for id, site := range c.Sites {
		sites[id] = f.Defaults.Merge(site)
	}
	for id, site := range f.Sites {
		id = strings.ToLower(strings.TrimSpace(id))
		base, ok := sites[id]
		if !ok {
			base = f.Defaults
		}
		sites[id] = base.Merge(site)
	}
	c.Sites = sites
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if len(CleanList(c.Keywords)) == 0 {
		return ErrNoKeywords
	}
	if len(c.Adapters) == 0 {
		return ErrNoAdapters
	}
	for _, id := range c.Adapters {
		site, ok := c.Sites[id]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAdapter, id)
		}
		if err := validateSite(site); err != nil {
			return fmt.Errorf("site %q: %w", id, err)
		}
	}

	if strings.TrimSpace(c.OutputDir) == "" {
		return ErrEmptyOutputDir
	}
	if c.Mode != ModeOverwrite && c.Mode != ModeAppend {
		return ErrInvalidMode
	}
	if c.Layout != LayoutList && c.Layout != LayoutByDate {
		return ErrInvalidLayout
	}
	if c.Layout == LayoutByDate && c.Mode != ModeOverwrite {
		return ErrLayoutRequiresOverwrite
	}
	if c.Dedup != DedupNone && c.Dedup != DedupRegistry {
		return ErrInvalidDedup
	}
	if c.Dedup == DedupRegistry && !c.SaveToDB {
		return ErrDedupRequiresDB
	}
	if c.Dedup == DedupRegistry && c.Mode != ModeAppend {
		return ErrDedupRequiresAppend
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RequestDelay < 0 {
		return ErrInvalidRequestDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}

func validateSite(site SiteConfig) error {
	if strings.TrimSpace(site.URL) == "" {
		return ErrSiteMissingURL
	}
	if !isKnownKind(site.Kind) {
		return fmt.Errorf("%w: %q", ErrSiteUnknownKind, site.Kind)
	}
	if site.Kind == KindSelector && (site.Selectors.Item == "" || site.Selectors.Link == "") {
		return ErrSiteMissingSelector
	}
	return nil
}

// NamedSite pairs a site definition with its adapter id.
type NamedSite struct {
	ID string
	SiteConfig
}

// EnabledSites returns the enabled site definitions in adapter order.
// Unknown ids are skipped; Validate reports them.
func (c *Config) EnabledSites() []NamedSite {
	sites := make([]NamedSite, 0, len(c.Adapters))
	for _, id := range c.Adapters {
		if site, ok := c.Sites[id]; ok {
			sites = append(sites, NamedSite{ID: id, SiteConfig: site})
		}
	}
	return sites
}

// SiteIDs returns every known site id in sorted order.
func (c *Config) SiteIDs() []string {
	ids := make([]string, 0, len(c.Sites))
	for id := range c.Sites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsEnabled reports whether the site id is in the adapter list.
func (c *Config) IsEnabled(id string) bool {
	return slices.Contains(c.Adapters, id)
}

// OutputPath returns the markdown file path for a site.
func (c *Config) OutputPath(id string) string {
	return filepath.Join(c.OutputDir, c.Sites[id].OutputFile(id))
}

// CleanList trims entries and drops empty ones and duplicates.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || slices.Contains(out, item) {
			continue
		}
		out = append(out, item)
	}
	return out
}
