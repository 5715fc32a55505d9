package main

import (
	"cmp"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/cspace/internal/config"
	"github.com/raphi011/cspace/internal/log"
	"github.com/raphi011/cspace/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage cspace configuration.

The config file lives at $CSPACE_CONFIG, or config.toml in
$XDG_CONFIG_HOME/cspace (default ~/.config/cspace).`,
		Example: `  cspace config init              # Create the config file
  cspace config path              # Print its location
  cspace config show -R acme/api  # Effective settings for a repository`,
		Annotations: map[string]string{annotationNoGH: "true"},
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create the default config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoConfig: "true"},
		Example: `  cspace config init      # Create config
  cspace config init -f   # Overwrite existing config
  cspace config init -s   # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if stdout {
				out.Print(config.Template())
				return nil
			}

			path, err := config.Init(force)
			if err != nil {
				return err
			}
			log.FromContext(ctx).Infof("Created config file: %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			output.FromContext(cmd.Context()).Println(path)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	var repo string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration for a repository",
		Args:  cobra.NoArgs,
		Long: `Show the settings a create run would use for a repository, after
environment variables and matching [[overrides]] are applied.

Secret values are never printed, only their names.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)

			resolved, err := config.ApplyOverrides(cfg, cmp.Or(repo, cfg.Repo))
			if err != nil {
				return err
			}
			writeConfigShow(output.FromContext(ctx).Writer(), cfg, resolved)
			return nil
		},
	}

	cmd.Flags().StringVarP(&repo, "repo", "R", "", "Repository to resolve (default: configured repo)")
	cmd.RegisterFlagCompletionFunc("repo", completeRepos)

	return cmd
}

func writeConfigShow(w io.Writer, cfg *config.Config, r *config.Resolved) {
	source := cfg.Path
	if source == "" {
		source = "(built-in defaults)"
	}
	terminfo := r.Terminfo()
	if terminfo == "" {
		terminfo = "(disabled)"
	}

	fmt.Fprintf(w, "config:            %s\n", source)
	fmt.Fprintf(w, "repo:              %s\n", r.Repo())
	fmt.Fprintf(w, "machine:           %s\n", r.Machine())
	fmt.Fprintf(w, "devcontainer_path: %s\n", r.DevcontainerPath())
	fmt.Fprintf(w, "terminfo:          %s\n", terminfo)
	fmt.Fprintf(w, "skip_credentials:  %t\n", r.SkipCredentials())
	fmt.Fprintf(w, "skip_fetch:        %t\n", r.SkipFetch())

	var env []string
	for _, v := range r.RemoteEnv() {
		if v.HasValue {
			env = append(env, v.String())
			continue
		}
		env = append(env, v.Name+" (from local env)")
	}
	writeList(w, "remote_env_vars", env)
	writeList(w, "remote_secret_vars", r.SecretVars())

	writeHooks(w, "hooks", r.Hooks)
	writeHooks(w, "optional_hooks", r.OptionalHooks)
}

func writeHooks(w io.Writer, name string, hooks func(config.Stage) []string) {
	fmt.Fprintf(w, "%s:\n", name)
	for _, stage := range config.Stages {
		cmds := hooks(stage)
		if len(cmds) == 0 {
			fmt.Fprintf(w, "  %s: (none)\n", stage)
			continue
		}
		fmt.Fprintf(w, "  %s:\n", stage)
		for i, c := range cmds {
			fmt.Fprintf(w, "    %d. %s\n", i+1, c)
		}
	}
}

func writeList(w io.Writer, name string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(w, "%s: (none)\n", name)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", name, strings.Join(items, ", "))
}
