package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raphi011/cspace/internal/codespace"
)

type staticLister struct {
	list []codespace.Codespace
	err  error
}

func (s staticLister) List(context.Context, string) ([]codespace.Codespace, error) {
	return s.list, s.err
}

func sampleCodespaces() []codespace.Codespace {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	return []codespace.Codespace{
		{Name: "fluffy-potato-x7", Repository: "acme/widgets", GitStatus: codespace.GitStatus{Ref: "fix-login"}, State: "Available", LastUsedAt: now.Add(-time.Hour)},
		{Name: "crispy-waffle-q9", Repository: "acme/api", GitStatus: codespace.GitStatus{Ref: "main"}, State: "Shutdown", LastUsedAt: now},
		{Name: "silver-spoon-k2", Repository: "acme/widgets", GitStatus: codespace.GitStatus{Ref: "add-search"}, State: "Shutdown", LastUsedAt: now.Add(-24 * time.Hour)},
	}
}

func names(list []codespace.Codespace) []string {
	out := make([]string, len(list))
	for i, cs := range list {
		out[i] = cs.Name
	}
	return out
}

func TestMatchCodespaces(t *testing.T) {
	t.Parallel()

	list := sampleCodespaces()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query matches all", "", []string{"fluffy-potato-x7", "crispy-waffle-q9", "silver-spoon-k2"}},
		{"exact name", "crispy-waffle-q9", []string{"crispy-waffle-q9"}},
		{"branch", "fix-login", []string{"fluffy-potato-x7"}},
		{"repository", "acme/api", []string{"crispy-waffle-q9"}},
		{"no match", "zzzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := names(matchCodespaces(list, tt.query))
			if len(got) != len(tt.want) {
				t.Fatalf("matchCodespaces(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("matchCodespaces(%q)[%d] = %q, want %q", tt.query, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMatchCodespaces_Fuzzy(t *testing.T) {
	t.Parallel()

	got := names(matchCodespaces(sampleCodespaces(), "widgets"))
	if len(got) != 2 {
		t.Fatalf("matchCodespaces(widgets) = %v, want both widgets codespaces", got)
	}
	for _, n := range got {
		if n == "crispy-waffle-q9" {
			t.Errorf("matchCodespaces(widgets) included %s", n)
		}
	}
}

func TestPickCodespace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("single match", func(t *testing.T) {
		t.Parallel()
		cs, err := pickCodespace(ctx, staticLister{list: sampleCodespaces()}, "add-search", "delete", true)
		if err != nil {
			t.Fatalf("pickCodespace() error = %v", err)
		}
		if cs.Name != "silver-spoon-k2" {
			t.Errorf("pickCodespace() = %s, want silver-spoon-k2", cs.Name)
		}
	})

	t.Run("only codespace without query", func(t *testing.T) {
		t.Parallel()
		list := sampleCodespaces()[:1]
		cs, err := pickCodespace(ctx, staticLister{list: list}, "", "connect to", true)
		if err != nil {
			t.Fatalf("pickCodespace() error = %v", err)
		}
		if cs.Name != "fluffy-potato-x7" {
			t.Errorf("pickCodespace() = %s", cs.Name)
		}
	})

	t.Run("ambiguous in immediate mode", func(t *testing.T) {
		t.Parallel()
		_, err := pickCodespace(ctx, staticLister{list: sampleCodespaces()}, "", "delete", true)
		if err == nil {
			t.Fatal("pickCodespace() expected error for several matches")
		}
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()
		_, err := pickCodespace(ctx, staticLister{list: sampleCodespaces()}, "zzzz", "delete", true)
		if err == nil {
			t.Fatal("pickCodespace() expected error")
		}
	})

	t.Run("no codespaces", func(t *testing.T) {
		t.Parallel()
		_, err := pickCodespace(ctx, staticLister{}, "", "delete", true)
		if !errors.Is(err, errNoCodespaces) {
			t.Errorf("pickCodespace() error = %v, want errNoCodespaces", err)
		}
	})

	t.Run("list error", func(t *testing.T) {
		t.Parallel()
		want := errors.New("gh failed")
		_, err := pickCodespace(ctx, staticLister{err: want}, "", "delete", true)
		if !errors.Is(err, want) {
			t.Errorf("pickCodespace() error = %v, want %v", err, want)
		}
	})
}

func TestSortByLastUsed(t *testing.T) {
	t.Parallel()

	list := sampleCodespaces()
	sortByLastUsed(list)

	want := []string{"crispy-waffle-q9", "fluffy-potato-x7", "silver-spoon-k2"}
	for i, n := range names(list) {
		if n != want[i] {
			t.Errorf("sorted[%d] = %s, want %s", i, n, want[i])
		}
	}
}
