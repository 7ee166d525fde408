package model

import (
	"errors"
	"testing"
)

// TestNewArticle tests candidate validation and normalization.
func TestNewArticle(t *testing.T) {
	t.Parallel()

	t.Run("valid article keeps fields", func(t *testing.T) {
		t.Parallel()

		a, err := NewArticle("inmedia", "https://www.inmediahk.net/node/123", "大埔宏福苑火災")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.URL != "https://www.inmediahk.net/node/123" {
			t.Errorf("unexpected url %q", a.URL)
		}
		if a.Title != "大埔宏福苑火災" {
			t.Errorf("unexpected title %q", a.Title)
		}
		if a.Source != "inmedia" {
			t.Errorf("unexpected source %q", a.Source)
		}
	})

	t.Run("collapses whitespace in title", func(t *testing.T) {
		t.Parallel()

		a, err := NewArticle("rthk", "https://news.rthk.hk/a", "  大埔\n\t火警　最新  ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Title != "大埔 火警 最新" {
			t.Errorf("expected collapsed title, got %q", a.Title)
		}
	})

	t.Run("strips fragment", func(t *testing.T) {
		t.Parallel()

		a, err := NewArticle("hkfp", "https://hongkongfp.com/2025/11/27/fire/#comments", "Tai Po fire")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.URL != "https://hongkongfp.com/2025/11/27/fire/" {
			t.Errorf("expected fragment removed, got %q", a.URL)
		}
	})

	tests := []struct {
		name    string
		url     string
		title   string
		wantErr error
	}{
		{name: "empty title", url: "https://example.com/a", title: "   ", wantErr: ErrEmptyTitle},
		{name: "relative url", url: "/node/1", title: "t", wantErr: ErrInvalidURL},
		{name: "mailto url", url: "mailto:a@example.com", title: "t", wantErr: ErrInvalidURL},
		{name: "ftp url", url: "ftp://example.com/a", title: "t", wantErr: ErrInvalidURL},
		{name: "empty url", url: "", title: "t", wantErr: ErrInvalidURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewArticle("src", tt.url, tt.title)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestArticleWith tests the copy-on-write helpers.
func TestArticleWith(t *testing.T) {
	t.Parallel()

	orig, err := NewArticle("src", "https://example.com/a", "title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dated := orig.WithPublished(" 2025-11-27 ").WithSummary("  宏福苑\n居民  ")
	if dated.Published != "2025-11-27" {
		t.Errorf("unexpected published %q", dated.Published)
	}
	if dated.Summary != "宏福苑 居民" {
		t.Errorf("unexpected summary %q", dated.Summary)
	}
	if orig.Published != "" || orig.Summary != "" {
		t.Error("original article must not change")
	}
}
