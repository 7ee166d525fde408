package adapter

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hkfire/newsurl/internal/model"
)

// inmediaAdapter reads inmediahk.net topic pages.
//
// Each teaser block holds a date paragraph and an anchor wrapping an <h3>
// headline. Further pages are addressed with Drupal's zero-based "page"
// query parameter.
type inmediaAdapter struct {
	base
}

func (a *inmediaAdapter) Candidates(ctx context.Context) iter.Seq2[model.Article, error] {
	return paginate(ctx, a.site.PageCount(), a.loadPage)
}

func (a *inmediaAdapter) loadPage(ctx context.Context, page int) ([]model.Article, bool, error) {
	target := a.site.URL
	if page > 0 {
		var err error
		if target, err = withQuery(a.site.URL, "page", strconv.Itoa(page)); err != nil {
			return nil, true, err
		}
	}

	resp, err := a.fetch(ctx, target)
	if err != nil {
		return nil, true, err
	}
	articles, err := a.parse(resp.URL, resp.Body)
	return articles, false, err
}

func (a *inmediaAdapter) parse(pageURL string, body []byte) ([]model.Article, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse page url: %w", a.id, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse listing: %w", a.id, err)
	}

	var articles []model.Article
	doc.Find("a h3").Each(func(_ int, h3 *goquery.Selection) {
		link := h3.Closest("a")
		href, _ := link.Attr("href")

		article, ok := a.candidate(page, href, h3.Text())
		if !ok {
			return
		}

		teaser := link.Parent()
		if date := normalizeDate(teaser.ChildrenFiltered("p").First().Text()); date != "" {
			article = article.WithPublished(date)
		}
		if summary := teaser.ChildrenFiltered("p").Slice(1, goquery.ToEnd).Text(); strings.TrimSpace(summary) != "" {
			article = article.WithSummary(summary)
		}
		articles = append(articles, article)
	})
	return articles, nil
}
