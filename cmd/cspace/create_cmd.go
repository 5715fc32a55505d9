package main

import (
	"cmp"
	"context"
	"errors"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/cspace/internal/codespace"
	"github.com/raphi011/cspace/internal/config"
	"github.com/raphi011/cspace/internal/log"
	"github.com/raphi011/cspace/internal/output"
	"github.com/raphi011/cspace/internal/ui/progress"
	"github.com/raphi011/cspace/internal/ui/prompt"
	"github.com/raphi011/cspace/internal/workflow"
)

func newCreateCmd() *cobra.Command {
	var (
		opts    workflow.Options
		copyCmd bool
	)

	cmd := &cobra.Command{
		Use:     "create [branch]",
		Short:   "Create a codespace and check out a branch",
		Aliases: []string{"new"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Create a codespace for a repository and check out a branch in it.

The branch is checked out if it exists on origin and created otherwise.
Without a branch argument cspace asks for one, unless --immediate is set.

The repository defaults to $REPO or the config file's repo, the machine
type to $CODESPACE_SIZE and the devcontainer to $DEVCONTAINER_PATH.`,
		Example: `  cspace create my-feature                   # Default repository
  cspace create -R acme/widgets fix-login    # Other repository
  cspace create --reuse my-feature           # Reuse an existing codespace
  cspace create -i my-feature                # Never prompt
  cspace create --dry-run my-feature         # Show what would run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			cfg := config.FromContext(ctx)

			if len(args) == 1 {
				opts.Branch = args[0]
			}
			opts.Repo = cmp.Or(opts.Repo, cfg.Repo)

			var hookOut io.Writer = os.Stderr
			if opts.DryRun {
				hookOut = out.Writer()
			}

			w := &workflow.Workflow{
				Platform: codespace.New(nil),
				Config:   cfg,
				Progress: func(message string) func() {
					s := progress.Start(message, progress.Enabled(l.IsVerbose()) && !l.IsQuiet())
					return s.Stop
				},
				Stdout: hookOut,
				Stderr: os.Stderr,
				Stdin:  os.Stdin,
			}
			if !opts.Immediate && prompt.Interactive() {
				w.PromptBranch = promptBranch
				w.PromptSecret = promptSecret
			}

			res, err := w.Run(ctx, opts)
			if err != nil {
				return err
			}
			if res.DryRun {
				return nil
			}

			if res.BranchCreated {
				l.Infof("Codespace %s is ready on new branch %s", res.Codespace, res.Branch)
			} else {
				l.Infof("Codespace %s is ready on branch %s", res.Codespace, res.Branch)
			}
			out.Println(res.ConnectCommand())

			if copyCmd {
				if err := clipboard.WriteAll(res.ConnectCommand()); err != nil {
					l.Warnf("Could not copy to clipboard: %v", err)
				} else {
					l.Infof("Copied connect command to clipboard")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Repo, "repo", "R", "", "Repository in owner/name form")
	cmd.Flags().StringVarP(&opts.Machine, "machine", "m", "", "Machine type")
	cmd.Flags().StringVar(&opts.DevcontainerPath, "devcontainer-path", "", "Path to devcontainer.json")
	cmd.Flags().BoolVar(&opts.DefaultPermissions, "default-permissions", false, "Skip additional permissions requested by the devcontainer")
	cmd.Flags().BoolVarP(&opts.Immediate, "immediate", "i", false, "Never prompt; skip unset secrets")
	cmd.Flags().BoolVar(&opts.Reuse, "reuse", false, "Reuse an existing codespace for the repository")
	cmd.Flags().BoolVar(&copyCmd, "copy", false, "Copy the connect command to the clipboard")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the create command and hooks without running anything")
	cmd.Flags().BoolVar(&opts.SkipFetch, "skip-fetch", false, "Do not fetch from origin before checkout")

	cmd.RegisterFlagCompletionFunc("repo", completeRepos)
	cmd.RegisterFlagCompletionFunc("machine", cobra.NoFileCompletions)

	return cmd
}

func promptBranch(ctx context.Context) (string, bool, error) {
	res, err := prompt.TextInput(ctx, "Branch to check out:", "my-feature", workflow.ValidateBranch)
	if err != nil {
		return "", false, err
	}
	return res.Value, !res.Cancelled, nil
}

func promptSecret(ctx context.Context, name string) (string, bool, error) {
	res, err := prompt.Secret(ctx, name)
	if errors.Is(err, prompt.ErrNotInteractive) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return res.Value, !res.Cancelled, nil
}
