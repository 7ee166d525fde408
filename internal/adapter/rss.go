package adapter

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hkfire/newsurl/internal/model"
)

// rssAdapter reads an RSS or Atom feed. Feeds have a single page.
type rssAdapter struct {
	base
}

func (a *rssAdapter) Candidates(ctx context.Context) iter.Seq2[model.Article, error] {
	return paginate(ctx, 1, a.loadFeed)
}

func (a *rssAdapter) loadFeed(ctx context.Context, _ int) ([]model.Article, bool, error) {
	resp, err := a.fetch(ctx, a.site.URL)
	if err != nil {
		return nil, true, err
	}
	articles, err := a.parse(resp.URL, string(resp.Body))
	return articles, true, err
}

func (a *rssAdapter) parse(feedURL, body string) ([]model.Article, error) {
	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("%s: parse feed: %w", a.id, err)
	}
	feedBase, _ := url.Parse(feedURL)

	articles := make([]model.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		article, ok := a.candidate(feedBase, itemLink(item), textOf(item.Title))
		if !ok {
			continue
		}
		article = article.WithPublished(itemDate(item))
		if summary := textOf(item.Description); summary != "" {
			article = article.WithSummary(summary)
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// itemLink prefers the item link and falls back to a URL-shaped GUID.
func itemLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if strings.HasPrefix(item.GUID, "http") {
		return item.GUID
	}
	return ""
}

func itemDate(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.Format(time.DateOnly)
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.Format(time.DateOnly)
	default:
		return normalizeDate(item.Published)
	}
}
