package commands

import (
	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/client"
	"github.com/gantry-build/gantry/pkg/image"
	"github.com/gantry-build/gantry/pkg/logging"
)

// RebaseFlags define flags provided to the Rebase command.
type RebaseFlags struct {
	BaseImage string
	Publish   bool
	Policy    string
}

// Rebase swaps the base image layers under an existing app image without
// rebuilding it.
func Rebase(logger logging.Logger, cfg config.Config, gantryClient GantryClient) *cobra.Command {
	var flags RebaseFlags

	cmd := &cobra.Command{
		Use:   "rebase <image-name>",
		Args:  cobra.ExactArgs(1),
		Short: "Rebase app image with latest base image",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			imageName := args[0]

			stringPolicy := flags.Policy
			if stringPolicy == "" {
				stringPolicy = cfg.PullPolicy
			}
			pullPolicy, err := image.ParsePullPolicy(stringPolicy)
			if err != nil {
				return err
			}

			if err := gantryClient.Rebase(cmd.Context(), client.RebaseOptions{
				RepoName:   imageName,
				BaseImage:  flags.BaseImage,
				Publish:    flags.Publish,
				PullPolicy: pullPolicy,
			}); err != nil {
				return err
			}
			logger.Infof("Successfully rebased image %s", style.Symbol(imageName))
			return nil
		}),
	}
	cmd.Flags().StringVar(&flags.BaseImage, "base-image", "", "Base image to rebase onto (defaults to the base recorded on the image)")
	cmd.Flags().BoolVar(&flags.Publish, "publish", false, "Rebase directly in the registry")
	cmd.Flags().StringVar(&flags.Policy, "pull-policy", "", `Pull policy to use. Accepted values are always, never, and if-not-present. (default "always")`)
	AddHelpFlag(cmd, "rebase")
	return cmd
}
