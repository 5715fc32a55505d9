package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/cspace/internal/codespace"
	"github.com/raphi011/cspace/internal/log"
	"github.com/raphi011/cspace/internal/ui/prompt"
	"github.com/raphi011/cspace/internal/workflow"
)

func newDeleteCmd() *cobra.Command {
	var (
		force     bool
		immediate bool
	)

	cmd := &cobra.Command{
		Use:               "delete [query]",
		Short:             "Delete a codespace",
		Aliases:           []string{"rm"},
		GroupID:           GroupCore,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeCodespaces,
		Long: `Delete a codespace, including uncommitted and unpushed work.

The query is matched like 'cspace ssh'. You are asked to confirm unless
--force or --immediate is set.`,
		Example: `  cspace delete                  # Pick, then confirm
  cspace delete fix-login        # Codespace on branch fix-login
  cspace delete -f my-codespace  # No confirmation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			var query string
			if len(args) == 1 {
				query = args[0]
			}

			client := codespace.New(nil)
			cs, err := pickCodespace(ctx, client, query, "delete", immediate)
			if err != nil {
				return err
			}

			if !force && !immediate {
				res, err := prompt.Confirm(ctx, fmt.Sprintf("Delete codespace %s (%s @ %s)?", cs.Name, cs.Repository, cs.Branch()))
				if errors.Is(err, prompt.ErrNotInteractive) {
					return fmt.Errorf("refusing to delete %s without confirmation, pass --force", cs.Name)
				}
				if err != nil {
					return err
				}
				if res.Cancelled {
					return workflow.ErrAborted
				}
				if !res.Confirmed {
					l.Infof("Kept codespace %s", cs.Name)
					return nil
				}
			}

			if err := client.Delete(ctx, cs.Name); err != nil {
				return err
			}
			l.Infof("Deleted codespace %s", cs.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation")
	cmd.Flags().BoolVarP(&immediate, "immediate", "i", false, "Never prompt")

	return cmd
}
