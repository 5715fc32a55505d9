package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/cspace/internal/codespace"
	"github.com/raphi011/cspace/internal/log"
)

func newSSHCmd() *cobra.Command {
	var immediate bool

	cmd := &cobra.Command{
		Use:               "ssh [query]",
		Short:             "Open a shell in a codespace",
		GroupID:           GroupCore,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeCodespaces,
		Long: `Open an interactive shell in a codespace.

The query is matched fuzzily against name, repository and branch. When
several codespaces match you are asked to pick one.`,
		Example: `  cspace ssh              # Pick from all codespaces
  cspace ssh widgets      # Codespaces of acme/widgets
  cspace ssh fix-login    # Codespace on branch fix-login`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			var query string
			if len(args) == 1 {
				query = args[0]
			}

			client := codespace.New(nil)
			cs, err := pickCodespace(ctx, client, query, "connect to", immediate)
			if err != nil {
				return err
			}

			if cs.State != codespace.StateAvailable {
				l.Infof("Codespace %s is %s, gh will start it", cs.Name, cs.State)
			}
			l.Debug("connecting", "codespace", cs.Name)
			return client.Connect(ctx, cs.Name)
		},
	}

	cmd.Flags().BoolVarP(&immediate, "immediate", "i", false, "Fail instead of prompting when several codespaces match")

	return cmd
}
