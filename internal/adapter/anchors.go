package adapter

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/hkfire/newsurl/internal/model"
)

// anchorsAdapter treats every anchor with text on a page as a candidate.
// It suits plain listing pages where headlines are the link text.
type anchorsAdapter struct {
	base
}

func (a *anchorsAdapter) Candidates(ctx context.Context) iter.Seq2[model.Article, error] {
	return paginate(ctx, a.site.PageCount(), a.loadPage)
}

func (a *anchorsAdapter) loadPage(ctx context.Context, page int) ([]model.Article, bool, error) {
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

func (a *anchorsAdapter) parse(pageURL string, body []byte) ([]model.Article, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse page url: %w", a.id, err)
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse listing: %w", a.id, err)
	}

	var (
		articles []model.Article
		seen     = make(map[string]bool)
	)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := getAttr(n, "href")
			title := nodeText(n)
			if title == "" {
				title = getAttr(n, "title")
			}
			if article, ok := a.candidate(page, href, title); ok && !seen[article.URL] {
				seen[article.URL] = true
				articles = append(articles, article)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return articles, nil
}

// nodeText returns the concatenated text below n, skipping scripts and styles.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return model.NormalizeText(sb.String())
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
