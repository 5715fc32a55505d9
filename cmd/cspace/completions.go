package main

import (
	"context"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/cspace/internal/codespace"
)

// completeCodespaces completes codespace names.
func completeCodespaces(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	list, err := codespace.New(nil).List(context.Background(), "")
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var matches []string
	for _, cs := range list {
		if strings.HasPrefix(cs.Name, toComplete) {
			matches = append(matches, cs.Name+"\t"+cs.Repository+" @ "+cs.Branch())
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeRepos completes repositories that already have codespaces.
func completeRepos(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	list, err := codespace.New(nil).List(context.Background(), "")
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var repos []string
	for _, cs := range list {
		if strings.HasPrefix(cs.Repository, toComplete) && !slices.Contains(repos, cs.Repository) {
			repos = append(repos, cs.Repository)
		}
	}
	slices.Sort(repos)
	return repos, cobra.ShellCompDirectiveNoFileComp
}
