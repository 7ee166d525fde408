package adapter

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/hkfire/newsurl/internal/config"
	"github.com/hkfire/newsurl/internal/httpclient"
	"github.com/hkfire/newsurl/internal/model"
)

// ErrUnknownKind is returned by Build for an unsupported site kind.
var ErrUnknownKind = errors.New("unknown adapter kind")

// Adapter produces candidate articles for one site.
type Adapter interface {
	// ID returns the site identifier, used as the article source.
	ID() string

	// Title returns the outlet name written as the output heading.
	Title() string

	// Candidates returns a single-pass sequence of candidate articles.
	// Iterating again fetches the listing again.
	Candidates(ctx context.Context) iter.Seq2[model.Article, error]
}

// Fetcher performs HTTP GET requests. *httpclient.Client implements it.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, headers map[string]string) (*httpclient.Response, error)
}

// Build returns the adapter implementing site.Kind.
func Build(site config.NamedSite, client Fetcher, logger *slog.Logger) (Adapter, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := base{
		id:     site.ID,
		site:   site.SiteConfig,
		client: client,
		logger: logger.With("site", site.ID),
	}

	switch site.Kind {
	case config.KindInmedia:
		return &inmediaAdapter{base: b}, nil
	case config.KindRSS:
		return &rssAdapter{base: b}, nil
	case config.KindWordPress:
		return &wordpressAdapter{base: b}, nil
	case config.KindSelector:
		return &selectorAdapter{base: b}, nil
	case config.KindAnchors:
		return &anchorsAdapter{base: b}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, site.Kind)
	}
}

// Registry maps site identifiers to adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry returns a registry holding the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// NewRegistryFromConfig builds an adapter for every enabled site.
func NewRegistryFromConfig(cfg *config.Config, client Fetcher, logger *slog.Logger) (*Registry, error) {
	r := NewRegistry()
	for _, site := range cfg.EnabledSites() {
		a, err := Build(site, client, logger)
		if err != nil {
			return nil, fmt.Errorf("site %q: %w", site.ID, err)
		}
		r.Register(a)
	}
	return r, nil
}

// Register adds or replaces an adapter. Nil adapters are ignored.
func (r *Registry) Register(a Adapter) {
	if a == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[normalizeID(a.ID())] = a
}

// Get returns the adapter for id.
func (r *Registry) Get(id string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[normalizeID(id)]
	return a, ok
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.adapters))
}

// Select returns the adapters for ids in the given order.
func (r *Registry) Select(ids []string) ([]Adapter, error) {
	out := make([]Adapter, 0, len(ids))
	for _, id := range ids {
		a, ok := r.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownAdapter, id)
		}
		out = append(out, a)
	}
	return out, nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// base carries what every adapter kind shares.
type base struct {
	id     string
	site   config.SiteConfig
	client Fetcher
	logger *slog.Logger
}

func (b *base) ID() string {
	return b.id
}

func (b *base) Title() string {
	if b.site.Title != "" {
		return b.site.Title
	}
	return b.id
}

// headers returns the request headers configured for the site.
func (b *base) headers() map[string]string {
	h := maps.Clone(b.site.Headers)
	if h == nil {
		h = make(map[string]string)
	}
	if b.site.Cookie != "" {
		h["Cookie"] = b.site.Cookie
	}
	return h
}

// fetch retrieves one listing page.
func (b *base) fetch(ctx context.Context, pageURL string) (*httpclient.Response, error) {
	b.logger.Debug("fetching listing page", "url", pageURL)
	resp, err := b.client.Get(ctx, pageURL, b.headers())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.id, err)
	}
	if resp.Truncated {
		b.logger.Warn("listing page truncated", "url", pageURL, "bytes", len(resp.Body))
	}
	return resp, nil
}

// candidate validates one listing entry, logging and dropping malformed ones.
func (b *base) candidate(pageURL *url.URL, href, title string) (model.Article, bool) {
	link := resolveURL(pageURL, href)
	a, err := model.NewArticle(b.id, link, title)
	if err != nil {
		b.logger.Debug("skipping malformed candidate", "href", href, "title", title, "error", err)
		return model.Article{}, false
	}
	return a, true
}

// pageFunc loads the articles of one listing page. page starts at 0.
// done reports that no further pages exist.
type pageFunc func(ctx context.Context, page int) (articles []model.Article, done bool, err error)

// paginate walks up to pages listing pages lazily.
func paginate(ctx context.Context, pages int, load pageFunc) iter.Seq2[model.Article, error] {
	return func(yield func(model.Article, error) bool) {
		for page := range pages {
			if err := ctx.Err(); err != nil {
				yield(model.Article{}, err)
				return
			}

			articles, done, err := load(ctx, page)
			if err != nil {
				yield(model.Article{}, err)
				return
			}
			for _, a := range articles {
				if !yield(a, nil) {
					return
				}
			}
			if done || len(articles) == 0 {
				return
			}
		}
	}
}
