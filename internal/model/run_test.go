package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRunStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status RunStatus
		want   string
	}{
		{StatusOK, "ok"},
		{StatusFetchFailed, "fetch-failed"},
		{StatusWriteFailed, "write-failed"},
		{RunStatus(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.status.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunSummary(t *testing.T) {
	t.Parallel()

	summary := &RunSummary{Sites: []SiteRun{
		{Site: "inmedia", Status: StatusOK, Written: 3},
		{Site: "rthk", Status: StatusFetchFailed, Error: "GET: 500"},
		{Site: "collective", Status: StatusOK, Written: 2},
	}}

	if got := summary.Count(StatusOK); got != 2 {
		t.Errorf("expected 2 ok sites, got %d", got)
	}
	if got := summary.Count(StatusFetchFailed); got != 1 {
		t.Errorf("expected 1 failed site, got %d", got)
	}
	if got := summary.Written(); got != 5 {
		t.Errorf("expected 5 written, got %d", got)
	}

	data, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"status":"fetch-failed"`) {
		t.Errorf("expected textual status in JSON, got %s", data)
	}
}
