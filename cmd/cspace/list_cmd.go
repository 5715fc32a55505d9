package main

import (
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/cspace/internal/codespace"
	"github.com/raphi011/cspace/internal/log"
	"github.com/raphi011/cspace/internal/output"
	"github.com/raphi011/cspace/internal/ui/static"
)

func newListCmd() *cobra.Command {
	var (
		jsonOutput bool
		repo       string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List codespaces",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List your codespaces, most recently used first.

A '*' after the branch marks uncommitted or unpushed changes.`,
		Example: `  cspace list                  # All codespaces
  cspace list -R acme/widgets  # Only one repository
  cspace list --json           # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			list, err := codespace.New(nil).List(ctx, repo)
			if err != nil {
				return err
			}
			sortByLastUsed(list)

			if jsonOutput {
				if list == nil {
					list = []codespace.Codespace{}
				}
				return out.JSON(list)
			}

			if len(list) == 0 {
				l.Infof("No codespaces found")
				return nil
			}

			now := time.Now()
			rows := make([][]string, len(list))
			for i, cs := range list {
				rows[i] = static.CodespaceRow(cs, now)
			}
			out.Print(static.RenderTable(static.CodespaceHeaders, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVarP(&repo, "repo", "R", "", "Only list codespaces of this repository")
	cmd.RegisterFlagCompletionFunc("repo", completeRepos)

	return cmd
}

// sortByLastUsed orders codespaces most recently used first.
func sortByLastUsed(list []codespace.Codespace) {
	slices.SortStableFunc(list, func(a, b codespace.Codespace) int {
		return b.LastUsedAt.Compare(a.LastUsedAt)
	})
}
