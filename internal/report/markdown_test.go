package report

import (
	"bytes"
	"testing"

	"github.com/hkfire/newsurl/internal/config"
	"github.com/hkfire/newsurl/internal/model"
)

func mustArticle(t *testing.T, url, title, date string) model.Article {
	t.Helper()

	a, err := model.NewArticle("test", url, title)
	if err != nil {
		t.Fatalf("NewArticle(%q, %q) failed: %v", url, title, err)
	}
	return a.WithPublished(date)
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("list layout", func(t *testing.T) {
		t.Parallel()

		doc := model.NewOutputDocument("inmedia", "獨立媒體")
		doc.Add(mustArticle(t, "https://www.inmediahk.net/node/2", "宏福苑居民安置", "2025-11-28"))
		doc.Add(mustArticle(t, "https://www.inmediahk.net/node/1", "大埔五級火", "2025-11-27"))

		var buf bytes.Buffer
		n, err := NewMarkdownWriter(&buf).Write(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "# 獨立媒體\n" +
			"\n" +
			"- [宏福苑居民安置](https://www.inmediahk.net/node/2)\n" +
			"- [大埔五級火](https://www.inmediahk.net/node/1)\n"
		if buf.String() != want {
			t.Errorf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
		}
		if n != len(want) {
			t.Errorf("expected %d bytes, got %d", len(want), n)
		}
	})

	t.Run("by-date layout", func(t *testing.T) {
		t.Parallel()

		doc := model.NewOutputDocument("rthk", "香港電台")
		doc.Add(mustArticle(t, "https://news.example/3", "B headline", "2025-11-28"))
		doc.Add(mustArticle(t, "https://news.example/4", "Undated item", ""))
		doc.Add(mustArticle(t, "https://news.example/1", "A headline", "2025-11-28"))
		doc.Add(mustArticle(t, "https://news.example/2", "Earlier", "2025-11-27"))

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, WithLayout(config.LayoutByDate)).Write(doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "# 香港電台\n" +
			"\n" +
			"## 2025-11-27\n" +
			"\n" +
			"- [Earlier](https://news.example/2)\n" +
			"\n" +
			"## 2025-11-28\n" +
			"\n" +
			"- [A headline](https://news.example/1)\n" +
			"- [B headline](https://news.example/3)\n" +
			"\n" +
			"## Undated\n" +
			"\n" +
			"- [Undated item](https://news.example/4)\n"
		if buf.String() != want {
			t.Errorf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
		}
	})

	t.Run("empty document has only the heading", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(model.NewOutputDocument("rthk", "")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "# rthk\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("titles are written verbatim", func(t *testing.T) {
		t.Parallel()

		a := mustArticle(t, "https://news.example/x", "[更新] 大埔*火警*", "")
		if got := Item(a); got != "[[更新] 大埔*火警*](https://news.example/x)" {
			t.Errorf("unexpected item %q", got)
		}
	})
}
