package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hkfire/newsurl/internal/model"
)

func sampleSummary() *model.RunSummary {
	return &model.RunSummary{
		StartedAt: time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC),
		Sites: []model.SiteRun{
			{Site: "inmedia", Title: "獨立媒體", Output: "output/inmedia.md", Status: model.StatusOK, Candidates: 5, Matched: 3, Written: 3, Duration: 1500 * time.Millisecond},
			{Site: "rthk", Title: "香港電台", Status: model.StatusFetchFailed, Error: "GET https://rthk.example: unexpected HTTP status: 500"},
		},
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("prints one row per site", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(sampleSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()

		for _, want := range []string{"SITE", "inmedia", "ok", "output/inmedia.md", "rthk", "fetch-failed", "500", "2 site(s): 1 ok, 1 fetch failed, 0 write failed, 3 link(s) written"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
		if strings.Contains(out, "DURATION") {
			t.Error("duration column is verbose only")
		}
	})

	t.Run("verbose adds durations", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(sampleSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "DURATION") || !strings.Contains(buf.String(), "1.5s") {
			t.Errorf("expected duration column, got:\n%s", buf.String())
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleSummary()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Sites []struct {
			Site    string `json:"site"`
			Status  string `json:"status"`
			Written int    `json:"written"`
		} `json:"sites"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded.Sites) != 2 || decoded.Sites[1].Status != "fetch-failed" || decoded.Sites[0].Written != 3 {
		t.Errorf("unexpected decoded summary %+v", decoded)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected indented output")
	}
}

type failingWriter struct{}

func (failingWriter) Write(*model.RunSummary) (int, error) {
	return 0, errors.New("disk full")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	n, err := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b)).Write(sampleSummary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != a.Len()+b.Len() || a.Len() == 0 || b.Len() == 0 {
		t.Errorf("expected both writers used, n=%d a=%d b=%d", n, a.Len(), b.Len())
	}

	var c bytes.Buffer
	if _, err := NewMultiWriter(failingWriter{}, NewJSONWriter(&c)).Write(sampleSummary()); err == nil {
		t.Error("expected error")
	}
	if c.Len() != 0 {
		t.Error("expected writers after the failure to be skipped")
	}
}
