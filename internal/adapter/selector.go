package adapter

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/hkfire/newsurl/internal/model"
)

// selectorAdapter reads an HTML listing described by CSS selectors.
type selectorAdapter struct {
	base
}

func (a *selectorAdapter) Candidates(ctx context.Context) iter.Seq2[model.Article, error] {
	return paginate(ctx, a.site.PageCount(), a.loadPage)
}

func (a *selectorAdapter) loadPage(ctx context.Context, page int) ([]model.Article, bool, error) {
	target, paged := pageURL(a.site.URL, page)
	if !paged && page > 0 {
		return nil, true, nil
	}

	resp, err := a.fetch(ctx, target)
	if err != nil {
		return nil, true, err
	}
	articles, err := a.parse(resp.URL, resp.Body)
	return articles, !paged, err
}

func (a *selectorAdapter) parse(pageURL string, body []byte) ([]model.Article, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse page url: %w", a.id, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse listing: %w", a.id, err)
	}

	sel := a.site.Selectors
	var articles []model.Article
	doc.Find(sel.Item).Each(func(_ int, item *goquery.Selection) {
		link := item.Find(sel.Link).First()
		if link.Length() == 0 && item.Is(sel.Link) {
			link = item
		}
		href, _ := link.Attr("href")

		title := link.Text()
		if sel.Title != "" {
			title = item.Find(sel.Title).First().Text()
		}

		article, ok := a.candidate(page, href, title)
		if !ok {
			return
		}
		if sel.Date != "" {
			article = article.WithPublished(selectionDate(item.Find(sel.Date).First()))
		}
		if sel.Summary != "" {
			article = article.WithSummary(item.Find(sel.Summary).First().Text())
		}
		articles = append(articles, article)
	})
	return articles, nil
}

// selectionDate prefers a machine-readable datetime attribute over text.
func selectionDate(s *goquery.Selection) string {
	if dt, ok := s.Attr("datetime"); ok {
		if date := normalizeDate(dt); date != "" {
			return date
		}
	}
	return normalizeDate(s.Text())
}
