package main

import (
	"strings"
	"testing"
)

// TestRunSitesCmd tests listing configured sites.
func TestRunSitesCmd(t *testing.T) {
	t.Parallel()

	srv := newNewsServer(t)
	path, _ := writeConfig(t, srv, "fixture")

	stdout, err := executeRoot(t, "sites", "-c", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("expected header line, got %q", lines[0])
	}

	rows := make(map[string]string)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		rows[fields[0]] = line
	}
	for _, id := range []string{"inmedia", "rthk", "collective", "fixture", "broken"} {
		if _, ok := rows[id]; !ok {
			t.Errorf("expected site %s in:\n%s", id, stdout)
		}
	}
	if f := strings.Fields(rows["fixture"]); len(f) < 3 || f[1] != "anchors" || f[2] != "yes" {
		t.Errorf("unexpected fixture row %q", rows["fixture"])
	}
	if f := strings.Fields(rows["inmedia"]); len(f) < 3 || f[2] != "no" {
		t.Errorf("inmedia should be disabled by the file: %q", rows["inmedia"])
	}
}
