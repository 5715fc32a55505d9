package static

import (
	"strings"
	"testing"
	"time"

	"github.com/raphi011/cspace/internal/codespace"
)

func TestCodespaceRow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cs := codespace.Codespace{
		Name:        "fuzzy-potato",
		State:       "Available",
		Repository:  "octo/app",
		GitStatus:   codespace.GitStatus{Ref: "main", HasUnpushedChanges: true},
		MachineName: "largePremiumLinux",
		LastUsedAt:  now.Add(-3 * time.Hour),
	}

	row := CodespaceRow(cs, now)

	if len(row) != len(CodespaceHeaders) {
		t.Fatalf("expected %d columns, got %d", len(CodespaceHeaders), len(row))
	}
	want := []string{"fuzzy-potato", "octo/app", "main*", "Available", "largePremiumLinux", "3h ago"}
	for i, w := range want {
		if row[i+1] != w {
			t.Errorf("column %d (%s) = %q, want %q", i+1, CodespaceHeaders[i+1], row[i+1], w)
		}
	}
}

func TestAge(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{2 * time.Hour, "2h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		if got := Age(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("Age(-%s) = %q, want %q", tt.ago, got, tt.want)
		}
	}
	if got := Age(time.Time{}, now); got != "-" {
		t.Errorf("Age(zero) = %q, want %q", got, "-")
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	if got := RenderTable([]string{"A"}, nil); got != "" {
		t.Errorf("RenderTable(no rows) = %q, want empty", got)
	}

	out := RenderTable([]string{"NAME", "STATE"}, [][]string{{"fuzzy-potato", "Available"}, {"x", "Shutdown"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), out)
	}
	for _, want := range []string{"NAME", "fuzzy-potato", "Shutdown"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
