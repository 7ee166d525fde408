package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hkfire/newsurl/internal/httpclient"
	"github.com/hkfire/newsurl/internal/model"
)

// wordpressPerPage is the page size requested from the REST API.
const wordpressPerPage = 20

// wordpressAdapter searches a WordPress site through /wp-json/wp/v2/posts.
type wordpressAdapter struct {
	base
}

type wordpressRendered struct {
	Rendered string `json:"rendered"`
}

type wordpressPost struct {
	Link    string            `json:"link"`
	Date    string            `json:"date"`
	Title   wordpressRendered `json:"title"`
	Excerpt wordpressRendered `json:"excerpt"`
}

func (a *wordpressAdapter) Candidates(ctx context.Context) iter.Seq2[model.Article, error] {
	return paginate(ctx, a.site.PageCount(), a.loadPage)
}

// endpoint returns the posts search URL for 1-based page n.
func (a *wordpressAdapter) endpoint(n int) (string, error) {
	u, err := url.Parse(strings.TrimRight(a.site.URL, "/"))
	if err != nil {
		return "", fmt.Errorf("%s: parse site url: %w", a.id, err)
	}
	if !strings.Contains(u.Path, "/wp-json/") {
		u.Path += "/wp-json/wp/v2/posts"
	}

	q := u.Query()
	if a.site.Query != "" {
		q.Set("search", a.site.Query)
	}
	q.Set("per_page", strconv.Itoa(wordpressPerPage))
	q.Set("page", strconv.Itoa(n))
	q.Set("_fields", "link,date,title,excerpt")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (a *wordpressAdapter) loadPage(ctx context.Context, page int) ([]model.Article, bool, error) {
	target, err := a.endpoint(page + 1)
	if err != nil {
		return nil, true, err
	}

	resp, err := a.fetch(ctx, target)
	if err != nil {
		// WordPress answers 400 rest_post_invalid_page_number past the last page.
		var statusErr *httpclient.StatusError
		if page > 0 && errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest {
			return nil, true, nil
		}
		return nil, true, err
	}

	var posts []wordpressPost
	if err := json.Unmarshal(resp.Body, &posts); err != nil {
		return nil, true, fmt.Errorf("%s: decode posts: %w", a.id, err)
	}

	articles := make([]model.Article, 0, len(posts))
	for _, post := range posts {
		article, ok := a.candidate(nil, post.Link, textOf(post.Title.Rendered))
		if !ok {
			continue
		}
		article = article.WithPublished(normalizeDate(post.Date))
		if excerpt := textOf(post.Excerpt.Rendered); excerpt != "" {
			article = article.WithSummary(excerpt)
		}
		articles = append(articles, article)
	}
	return articles, len(posts) < wordpressPerPage, nil
}
