package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/pkg/client"
	"github.com/gantry-build/gantry/pkg/logging"
)

// RunFlags define flags provided to the Run command.
type RunFlags struct {
	BuildFlags
	Ports          []string
	StartupTimeout time.Duration
}

// Run builds an app image and launches it, waiting for the app to bind its
// port.
func Run(logger logging.Logger, cfg config.Config, gantryClient GantryClient) *cobra.Command {
	var flags RunFlags

	cmd := &cobra.Command{
		Use:     "run <image-name>",
		Args:    cobra.ExactArgs(1),
		Short:   "Build and run app image",
		Example: "gantry run my-app --ports 8080:8000",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			imageName := args[0]

			buildOpts, err := buildOptions(logger, flags.BuildFlags, cfg, imageName)
			if err != nil {
				return err
			}

			return gantryClient.Run(cmd.Context(), client.RunOptions{
				BuildOptions:   buildOpts,
				Ports:          flags.Ports,
				StartupTimeout: flags.StartupTimeout,
			})
		}),
	}
	buildCommandFlags(cmd, &flags.BuildFlags)
	cmd.Flags().StringSliceVar(&flags.Ports, "ports", nil, "Port publish spec, in the form '[host-ip:]host-port:container-port' (defaults to the app port on both sides)")
	cmd.Flags().DurationVar(&flags.StartupTimeout, "startup-timeout", client.DefaultStartupTimeout, "Maximum time to wait for the app to bind its port")
	AddHelpFlag(cmd, "run")
	return cmd
}
