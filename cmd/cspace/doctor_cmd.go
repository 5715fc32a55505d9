package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/cspace/internal/config"
	"github.com/raphi011/cspace/internal/doctor"
	"github.com/raphi011/cspace/internal/output"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Short:   "Check that cspace can run on this machine",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Check the local setup cspace depends on.

Checks:
- gh is installed and authenticated
- the config file parses
- the configured terminfo entry exists locally
- a clipboard utility is available for --copy`,
		Annotations: map[string]string{annotationNoConfig: "true", annotationNoGH: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			cfg, cfgErr := config.Load()
			_, err := doctor.Run(ctx, out.Writer(), doctor.DefaultEnv(), &cfg, cfgErr)
			return err
		},
	}
}
