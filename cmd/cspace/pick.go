package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/cspace/internal/codespace"
	"github.com/raphi011/cspace/internal/ui/prompt"
	"github.com/raphi011/cspace/internal/workflow"
)

// errNoCodespaces is returned when the user has no codespaces at all.
var errNoCodespaces = errors.New("no codespaces found")

// codespaceSource lets fuzzy search name, repository, branch and
// display name at once.
type codespaceSource []codespace.Codespace

func (s codespaceSource) String(i int) string {
	cs := s[i]
	return cs.Name + " " + cs.Repository + " " + cs.Branch() + " " + cs.DisplayName
}

func (s codespaceSource) Len() int { return len(s) }

// matchCodespaces returns the codespaces matching query, best match
// first. An exact name match wins outright. An empty query matches all.
func matchCodespaces(list []codespace.Codespace, query string) []codespace.Codespace {
	if query == "" {
		return list
	}
	for _, cs := range list {
		if cs.Name == query {
			return []codespace.Codespace{cs}
		}
	}
	matches := fuzzy.FindFrom(query, codespaceSource(list))
	out := make([]codespace.Codespace, len(matches))
	for i, m := range matches {
		out[i] = list[m.Index]
	}
	return out
}

type lister interface {
	List(ctx context.Context, repo string) ([]codespace.Codespace, error)
}

// pickCodespace narrows the user's codespaces by query and asks to
// choose when more than one remains.
func pickCodespace(ctx context.Context, client lister, query, action string, immediate bool) (codespace.Codespace, error) {
	list, err := client.List(ctx, "")
	if err != nil {
		return codespace.Codespace{}, err
	}
	if len(list) == 0 {
		return codespace.Codespace{}, errNoCodespaces
	}
	sortByLastUsed(list)

	matches := matchCodespaces(list, query)
	switch {
	case len(matches) == 0:
		return codespace.Codespace{}, fmt.Errorf("no codespace matches %q", query)
	case len(matches) == 1:
		return matches[0], nil
	case immediate || !prompt.Interactive():
		if query == "" {
			return codespace.Codespace{}, fmt.Errorf("%d codespaces found, pass a name or query", len(matches))
		}
		return codespace.Codespace{}, fmt.Errorf("%q matches %d codespaces, be more specific", query, len(matches))
	}

	options := make([]prompt.Option, len(matches))
	for i, cs := range matches {
		options[i] = prompt.Option{
			Title:       cs.Name,
			Description: fmt.Sprintf("%s @ %s (%s)", cs.Repository, cs.Branch(), cs.State),
		}
	}
	res, err := prompt.Select(ctx, "Select a codespace to "+action, options)
	if err != nil {
		return codespace.Codespace{}, err
	}
	if res.Cancelled {
		return codespace.Codespace{}, workflow.ErrAborted
	}
	return matches[res.Index], nil
}
