package commands

import (
	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/internal/update"
	"github.com/gantry-build/gantry/pkg/logging"
)

// Version of the gantry binary, with an optional check for a newer release.
func Version(logger logging.Logger, version string) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Args:  cobra.NoArgs,
		Short: "Show current 'gantry' version",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			logger.Info(version)

			if !check {
				return nil
			}

			checker := update.NewChecker(cmd.Context())
			newer, available, err := checker.NewerVersion(cmd.Context(), version)
			if err != nil {
				return err
			}
			if available {
				logger.Infof("A newer version %s is available", style.Symbol(newer))
			} else {
				logger.Info("No newer version available")
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check for a newer released version")
	AddHelpFlag(cmd, "version")
	return cmd
}
