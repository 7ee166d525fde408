package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientGet(t *testing.T) {
	t.Parallel()

	t.Run("returns body and sends headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("User-Agent"); got != "test-agent" {
				t.Errorf("expected user agent test-agent, got %q", got)
			}
			if got := r.Header.Get("Cookie"); got != "has_js=1" {
				t.Errorf("expected cookie has_js=1, got %q", got)
			}
			if got := r.Header.Get("X-Empty"); got != "" {
				t.Errorf("expected blank header to be skipped, got %q", got)
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html>大埔</html>"))
		}))
		t.Cleanup(server.Close)

		client := New(WithUserAgent("test-agent"), WithDelay(0))
		resp, err := client.Get(t.Context(), server.URL, map[string]string{"Cookie": "has_js=1", "X-Empty": " "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.Body) != "<html>大埔</html>" {
			t.Errorf("unexpected body %q", resp.Body)
		}
		if !strings.HasPrefix(resp.ContentType, "text/html") {
			t.Errorf("unexpected content type %q", resp.ContentType)
		}
		if resp.Truncated {
			t.Error("expected body not truncated")
		}
	})

	t.Run("non-2xx returns StatusError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		t.Cleanup(server.Close)

		_, err := New().Get(t.Context(), server.URL, nil)
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
		}
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected *StatusError, got %T", err)
		}
		if statusErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", statusErr.StatusCode)
		}
		if statusErr.Snippet != "boom" {
			t.Errorf("expected snippet boom, got %q", statusErr.Snippet)
		}
	})

	t.Run("body is truncated at the limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 100)))
		}))
		t.Cleanup(server.Close)

		resp, err := New(WithMaxBodySize(10)).Get(t.Context(), server.URL, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Body) != 10 || !resp.Truncated {
			t.Errorf("expected 10 truncated bytes, got %d (truncated=%v)", len(resp.Body), resp.Truncated)
		}
	})

	t.Run("connection failure is a transport error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := New(WithTimeout(time.Second)).Get(t.Context(), url, nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if errors.Is(err, ErrUnexpectedStatus) {
			t.Error("transport failure must not be a status error")
		}
	})

	t.Run("cancelled context stops the limiter wait", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
		t.Cleanup(server.Close)

		client := New(WithDelay(time.Hour))
		if _, err := client.Get(t.Context(), server.URL, nil); err != nil {
			t.Fatalf("first request should pass the limiter: %v", err)
		}

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if _, err := client.Get(ctx, server.URL, nil); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestStatusError(t *testing.T) {
	t.Parallel()

	err := &StatusError{URL: "https://news.example", StatusCode: 404}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status code in message, got %q", err.Error())
	}
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Error("expected errors.Is to match ErrUnexpectedStatus")
	}
}
