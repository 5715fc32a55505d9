package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/raphi011/cspace/internal/codespace"
	"github.com/raphi011/cspace/internal/config"
	"github.com/raphi011/cspace/internal/log"
	"github.com/raphi011/cspace/internal/output"
)

var (
	// Global flags
	verbose bool
	quiet   bool
)

// Command group IDs for organizing help output
const (
	GroupCore   = "core"
	GroupConfig = "config"
)

// Annotations that let a command run without parts of the setup.
const (
	annotationNoConfig = "cspace/no-config"
	annotationNoGH     = "cspace/no-gh"
)

var rootCmd = &cobra.Command{
	Use:   "cspace",
	Short: "Create GitHub Codespaces ready to work on a branch",
	Long: `cspace creates a GitHub Codespace, waits until it is reachable, and
checks out a branch inside it.

Hooks, environment variables and secrets can be configured globally and
per repository in ~/.config/cspace/config.toml.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE:          setup,
}

// setup installs the logger and configuration on the command context and
// checks that gh is usable.
func setup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logger := log.New(os.Stderr, verbose, quiet)
	ctx = log.WithLogger(ctx, logger)
	cmd.SetContext(ctx)

	if skips(cmd, annotationNoConfig) {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return &configError{err: err}
	}
	for _, w := range cfg.Warnings {
		logger.Warnf("%s", w)
	}
	cmd.SetContext(config.WithConfig(ctx, &cfg))

	if skips(cmd, annotationNoGH) || dryRun(cmd) {
		return nil
	}
	return codespace.CheckGH()
}

// dryRun reports whether cmd was asked to only print what it would do.
func dryRun(cmd *cobra.Command) bool {
	f := cmd.Flags().Lookup("dry-run")
	return f != nil && f.Changed && f.Value.String() == "true"
}

// skips reports whether cmd or one of its parents opts out of a setup
// step. Cobra's generated commands skip everything.
func skips(cmd *cobra.Command, annotation string) bool {
	switch cmd.Name() {
	case "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotation] == "true" {
			return true
		}
	}
	return false
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Replaced in setup once flags are parsed.
	ctx = log.WithLogger(ctx, log.New(os.Stderr, false, false))
	ctx = output.WithPrinter(ctx, colorprofile.NewWriter(os.Stdout, os.Environ()))

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return exitOK
	}

	logCtx := ctx
	if cmd != nil && cmd.Context() != nil {
		logCtx = cmd.Context()
	}
	report(log.FromContext(logCtx), os.Stderr, err)
	if isUsageError(err) {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'cspace -h' for help")
	}
	return exitCode(ctx, err)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show gh commands being executed and debug detail")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only show errors")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newSSHCmd())
	rootCmd.AddCommand(newDeleteCmd())

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newDoctorCmd())
}
