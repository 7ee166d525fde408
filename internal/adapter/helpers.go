package adapter

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// resolveURL resolves href against the page it was found on.
// It returns "" for links that never point at an article.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}

// withQuery returns rawURL with key set to value.
func withQuery(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse listing url: %w", err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// pageURL returns the URL of listing page n (0-based) and whether the
// listing is paged at all. A "{page}" placeholder is replaced with the
// 1-based page number; without one only the first page exists.
func pageURL(rawURL string, n int) (string, bool) {
	if strings.Contains(rawURL, "{page}") {
		return strings.ReplaceAll(rawURL, "{page}", strconv.Itoa(n+1)), true
	}
	return rawURL, false
}

var (
	ymdPattern = regexp.MustCompile(`(\d{4})\s*[-/.年]\s*(\d{1,2})\s*[-/.月]\s*(\d{1,2})`)
	dmyPattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
)

// normalizeDate extracts a calendar date from listing text and formats it
// as YYYY-MM-DD. Day-first numeric dates are read the Hong Kong way
// (dd/mm/yyyy). It returns "" when no valid date is found.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(time.DateOnly)
	}

	if m := ymdPattern.FindStringSubmatch(s); m != nil {
		return formatDate(m[1], m[2], m[3])
	}
	if m := dmyPattern.FindStringSubmatch(s); m != nil {
		return formatDate(m[3], m[2], m[1])
	}
	return ""
}

func formatDate(year, month, day string) string {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return ""
	}
	return t.Format(time.DateOnly)
}

// textOf returns the visible text of an HTML fragment.
func textOf(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}
