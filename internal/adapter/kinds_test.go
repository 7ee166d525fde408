package adapter

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/hkfire/newsurl/internal/config"
	"github.com/hkfire/newsurl/internal/httpclient"
)

const inmediaURL = "https://www.inmediahk.net/taxonomy/term/541575/530434"

const inmediaFixture = `<html><body><section>
<div><div class="img"></div><div class="text">
  <p>2025-11-27</p>
  <a href="/tags/fire">火災</a>
  <a href="/node/1001"><h3>大埔宏福苑五級火</h3></a>
  <p>消防處通宵灌救</p>
</div></div>
<div><div class="img"></div><div class="text">
  <p>27/11/2025</p>
  <a href="/tags/housing">房屋</a>
  <a href="https://www.inmediahk.net/node/1002"><h3> 宏福苑
     居民 安置 </h3></a>
</div></div>
<div><div class="img"></div><div class="text">
  <p>2025-11-26</p>
  <a href="javascript:void(0)"><h3>Broken link</h3></a>
</div></div>
<div><div class="img"></div><div class="text">
  <p></p>
  <a href="/node/1003"><h3>  </h3></a>
</div></div>
<div class="pager"><a href="?page=1">下一頁</a></div>
</section></body></html>`

const inmediaPage2Fixture = `<html><body><section>
<div><div></div><div><p>2025-11-20</p><a href="/tags/x">x</a><a href="/node/900"><h3>舊聞</h3></a></div></div>
</section></body></html>`

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>RTHK 本地新聞</title>
<item>
  <title>大埔火警</title>
  <link>https://news.rthk.hk/rthk/ch/component/k2/1.htm</link>
  <description>&lt;p&gt;宏福苑&lt;/p&gt;</description>
  <pubDate>Thu, 27 Nov 2025 10:00:00 +0800</pubDate>
</item>
<item>
  <title>No link at all</title>
</item>
<item>
  <title>GUID only</title>
  <guid>https://news.rthk.hk/rthk/ch/component/k2/2.htm</guid>
</item>
</channel></rss>`

func TestInmediaAdapter(t *testing.T) {
	t.Parallel()

	t.Run("extracts teaser blocks", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string]string{inmediaURL: inmediaFixture}}
		a := mustBuild(t, "inmedia", config.SiteConfig{Kind: config.KindInmedia, URL: inmediaURL}, f)

		articles, err := collect(t, a)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(articles) != 2 {
			t.Fatalf("expected 2 articles, got %d: %s", len(articles), titles(articles))
		}

		first := articles[0]
		if first.URL != "https://www.inmediahk.net/node/1001" {
			t.Errorf("unexpected url %q", first.URL)
		}
		if first.Title != "大埔宏福苑五級火" || first.Published != "2025-11-27" {
			t.Errorf("unexpected article %+v", first)
		}
		if first.Summary != "消防處通宵灌救" {
			t.Errorf("unexpected summary %q", first.Summary)
		}
		if first.Source != "inmedia" {
			t.Errorf("unexpected source %q", first.Source)
		}

		second := articles[1]
		if second.Title != "宏福苑 居民 安置" || second.Published != "2025-11-27" {
			t.Errorf("unexpected article %+v", second)
		}
	})

	t.Run("walks further pages", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string]string{
			inmediaURL:             inmediaFixture,
			inmediaURL + "?page=1": inmediaPage2Fixture,
		}}
		a := mustBuild(t, "inmedia", config.SiteConfig{Kind: config.KindInmedia, URL: inmediaURL, Pages: 2}, f)

		articles, err := collect(t, a)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(articles) != 3 || articles[2].Title != "舊聞" {
			t.Errorf("unexpected articles %s", titles(articles))
		}
	})

	t.Run("later pages are fetched lazily", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string]string{
			inmediaURL:             inmediaFixture,
			inmediaURL + "?page=1": inmediaPage2Fixture,
		}}
		a := mustBuild(t, "inmedia", config.SiteConfig{Kind: config.KindInmedia, URL: inmediaURL, Pages: 2}, f)

		for _, err := range a.Candidates(t.Context()) {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			break
		}
		if f.requestCount() != 1 {
			t.Errorf("expected 1 request, got %d", f.requestCount())
		}
	})
}

func TestRSSAdapter(t *testing.T) {
	t.Parallel()

	t.Run("reads feed items", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string]string{"https://rthk.example/local.xml": rssFixture}}
		a := mustBuild(t, "rthk", config.SiteConfig{Kind: config.KindRSS, URL: "https://rthk.example/local.xml"}, f)

		articles, err := collect(t, a)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(articles) != 2 {
			t.Fatalf("expected 2 articles, got %d: %s", len(articles), titles(articles))
		}
		if articles[0].Published != "2025-11-27" || articles[0].Summary != "宏福苑" {
			t.Errorf("unexpected first article %+v", articles[0])
		}
		if articles[1].URL != "https://news.rthk.hk/rthk/ch/component/k2/2.htm" {
			t.Errorf("expected GUID fallback, got %q", articles[1].URL)
		}
	})

	t.Run("invalid feed is an error", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string]string{"https://rthk.example/local.xml": "<html>maintenance</html>"}}
		a := mustBuild(t, "rthk", config.SiteConfig{Kind: config.KindRSS, URL: "https://rthk.example/local.xml"}, f)

		if _, err := collect(t, a); err == nil {
			t.Error("expected parse error")
		}
	})
}

func wordpressPosts(start, n int) string {
	posts := make([]string, n)
	for i := range n {
		posts[i] = fmt.Sprintf(`{"link":"https://thecollectivehk.com/%d/","date":"2025-11-27T10:%02d:00","title":{"rendered":"宏福苑 &#8211; %d"},"excerpt":{"rendered":"<p>大埔</p>"}}`, start+i, i, start+i)
	}
	return "[" + strings.Join(posts, ",") + "]"
}

func TestWordPressAdapter(t *testing.T) {
	t.Parallel()

	t.Run("searches posts endpoint", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{handler: func(rawURL string) (*httpclient.Response, error) {
			return &httpclient.Response{URL: rawURL, StatusCode: http.StatusOK, Body: []byte(wordpressPosts(1, 2))}, nil
		}}
		a := mustBuild(t, "collective", config.SiteConfig{
			Kind:  config.KindWordPress,
			URL:   "https://thecollectivehk.com/",
			Query: "宏福苑",
			Pages: 3,
		}, f)

		articles, err := collect(t, a)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(articles) != 2 {
			t.Fatalf("expected 2 articles, got %d", len(articles))
		}
		if articles[0].Title != "宏福苑 – 1" || articles[0].Published != "2025-11-27" || articles[0].Summary != "大埔" {
			t.Errorf("unexpected article %+v", articles[0])
		}
		if f.requestCount() != 1 {
			t.Errorf("short page must end paging, got %d requests", f.requestCount())
		}

		req := f.requests[0]
		if !strings.HasPrefix(req, "https://thecollectivehk.com/wp-json/wp/v2/posts?") {
			t.Errorf("unexpected endpoint %q", req)
		}
		if !strings.Contains(req, "search=%E5%AE%8F%E7%A6%8F%E8%8B%91") || !strings.Contains(req, "page=1") {
			t.Errorf("unexpected query %q", req)
		}
	})

	t.Run("past last page ends without error", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{handler: func(rawURL string) (*httpclient.Response, error) {
			if strings.Contains(rawURL, "&page=2") {
				return nil, &httpclient.StatusError{URL: rawURL, StatusCode: http.StatusBadRequest}
			}
			return &httpclient.Response{URL: rawURL, StatusCode: http.StatusOK, Body: []byte(wordpressPosts(1, wordpressPerPage))}, nil
		}}
		a := mustBuild(t, "collective", config.SiteConfig{Kind: config.KindWordPress, URL: "https://thecollectivehk.com", Pages: 5}, f)

		articles, err := collect(t, a)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(articles) != wordpressPerPage {
			t.Errorf("expected %d articles, got %d", wordpressPerPage, len(articles))
		}
		if f.requestCount() != 2 {
			t.Errorf("expected 2 requests, got %d", f.requestCount())
		}
	})

	t.Run("first page 400 is an error", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{handler: func(rawURL string) (*httpclient.Response, error) {
			return nil, &httpclient.StatusError{URL: rawURL, StatusCode: http.StatusBadRequest}
		}}
		a := mustBuild(t, "collective", config.SiteConfig{Kind: config.KindWordPress, URL: "https://thecollectivehk.com"}, f)

		if _, err := collect(t, a); err == nil {
			t.Error("expected error")
		}
	})
}

func TestSelectorAdapter(t *testing.T) {
	t.Parallel()

	const listing = `<html><body><ul>
<li class="news"><a href="/a/1">大埔消息</a><time datetime="2025-11-28T09:00:00+08:00">28 Nov</time><span class="teaser"> 宏福苑 </span></li>
<li class="news"><a href="">Empty href</a></li>
<li class="news"><span>no link</span></li>
<li class="news"><a href="/a/2"><b>Second</b></a><time>2025年11月29日</time></li>
</ul></body></html>`

	f := &fakeFetcher{pages: map[string]string{
		"https://news.example/list?p=1": listing,
		"https://news.example/list?p=2": `<html><body></body></html>`,
	}}
	a := mustBuild(t, "example", config.SiteConfig{
		Kind:  config.KindSelector,
		URL:   "https://news.example/list?p={page}",
		Pages: 3,
		Selectors: config.Selectors{
			Item:    "li.news",
			Link:    "a",
			Date:    "time",
			Summary: ".teaser",
		},
	}, f)

	articles, err := collect(t, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d: %s", len(articles), titles(articles))
	}
	if articles[0].URL != "https://news.example/a/1" || articles[0].Published != "2025-11-28" || articles[0].Summary != "宏福苑" {
		t.Errorf("unexpected first article %+v", articles[0])
	}
	if articles[1].Title != "Second" || articles[1].Published != "2025-11-29" {
		t.Errorf("unexpected second article %+v", articles[1])
	}
	if f.requestCount() != 2 {
		t.Errorf("empty page must end paging, got %d requests", f.requestCount())
	}
}

func TestAnchorsAdapter(t *testing.T) {
	t.Parallel()

	const page = `<html><body>
<a href="/a">One</a>
<a href="/a">One again</a>
<a href="#top">Top</a>
<a href="mailto:desk@news.example">Mail</a>
<a href="/b"><img src="x.png" alt=""></a>
<a href="/c" title="Titled"></a>
<a href="https://other.example/d"><span>Other</span><script>var x = 1;</script></a>
</body></html>`

	f := &fakeFetcher{pages: map[string]string{"https://news.example/": page}}
	a := mustBuild(t, "plain", config.SiteConfig{Kind: config.KindAnchors, URL: "https://news.example/", Pages: 4}, f)

	articles, err := collect(t, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titles(articles); got != "One|Titled|Other" {
		t.Errorf("unexpected titles %q", got)
	}
	if f.requestCount() != 1 {
		t.Errorf("listing without page placeholder has one page, got %d requests", f.requestCount())
	}
}
