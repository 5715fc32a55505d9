package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "completion <shell>",
		Short:       "Generate completion script",
		GroupID:     GroupConfig,
		Long:        `Generate shell completion script.`,
		ValidArgs:   []string{"bash", "zsh", "fish", "powershell"},
		Args:        cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Annotations: map[string]string{annotationNoConfig: "true", annotationNoGH: "true"},
		Example: `  # Fish
  cspace completion fish > ~/.config/fish/completions/cspace.fish

  # Bash
  cspace completion bash > ~/.local/share/bash-completion/completions/cspace

  # Zsh
  cspace completion zsh > ~/.zfunc/_cspace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
