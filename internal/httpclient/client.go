package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// ErrUnexpectedStatus is wrapped by StatusError.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Snippet    string
}

// Error implements error.
func (e *StatusError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("GET %s: %s: %d", e.URL, ErrUnexpectedStatus, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %s: %d body: %s", e.URL, ErrUnexpectedStatus, e.StatusCode, e.Snippet)
}

// Unwrap returns ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Response is a fetched body with the metadata adapters care about.
type Response struct {
	// URL is the final URL after redirects.
	URL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body, truncated to the client's limit.
	Body []byte

	// Truncated reports whether Body was cut at the limit.
	Truncated bool
}

// Client fetches listing pages.
type Client struct {
	resty       *resty.Client
	httpClient  *http.Client
	timeout     time.Duration
	limiter     *rate.Limiter
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize limits how many bytes of a response are read.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithDelay enforces a minimum gap between requests.
// Zero disables the limiter.
func WithDelay(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying http.Client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New returns a Client with defaults suitable for news sites.
func New(opts ...Option) *Client {
	c := &Client{
		timeout:     30 * time.Second,
		userAgent:   "newsurl",
		maxBodySize: 5 * 1024 * 1024,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.resty = resty.NewWithClient(c.httpClient)
	} else {
		c.resty = resty.New()
	}
	c.resty.SetTimeout(c.timeout)
	return c
}

// Get fetches rawURL with the given extra headers.
// A "Cookie" entry in headers is sent as the Cookie header.
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("GET %s: %w", rawURL, err)
		}
	}

	req := c.resty.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("User-Agent", c.userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.8,*/*;q=0.7").
		SetHeader("Accept-Language", "zh-HK,zh;q=0.9,en;q=0.5")
	for k, v := range headers {
		if strings.TrimSpace(v) != "" {
			req.SetHeader(k, v)
		}
	}

	start := time.Now()
	resp, err := req.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	raw := resp.RawBody()
	defer raw.Close()

	body, err := io.ReadAll(io.LimitReader(raw, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("GET %s: read body: %w", rawURL, err)
	}
	truncated := int64(len(body)) > c.maxBodySize
	if truncated {
		body = body[:c.maxBodySize]
	}

	c.logger.Debug("fetched",
		"url", rawURL,
		"status", resp.StatusCode(),
		"bytes", len(body),
		"truncated", truncated,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode(), Snippet: snippet(body)}
	}

	finalURL := rawURL
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		finalURL = resp.RawResponse.Request.URL.String()
	}

	return &Response{
		URL:         finalURL,
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        body,
		Truncated:   truncated,
	}, nil
}

func snippet(body []byte) string {
	const maxLen = 256
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
