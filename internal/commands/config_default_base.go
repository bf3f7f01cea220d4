package commands

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/logging"
)

// ConfigDefaultBase lists, sets, or unsets the base image the app is
// layered onto when neither the command line nor the project descriptor
// names one.
func ConfigDefaultBase(logger logging.Logger, cfg config.Config, cfgPath string) *cobra.Command {
	var unset bool

	cmd := &cobra.Command{
		Use:   "default-base <base-image>",
		Args:  cobra.MaximumNArgs(1),
		Short: "List, set and unset the default base image used by other commands",
		Long: "You can use this command to list, set, and unset the default base image:\n" +
			"* To list your default base image, run `gantry config default-base`.\n" +
			"* To set your default base image, run `gantry config default-base <base-image>`.\n" +
			"* To unset your default base image, run `gantry config default-base --unset`.\n" +
			"Unsetting the base image falls back to the slim variant of the builder's python.",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			switch {
			case unset:
				if len(args) > 0 {
					return errors.Errorf("base image and --unset cannot be specified simultaneously")
				}
				if cfg.DefaultBase == "" {
					return errors.New("no default base image was set")
				}
				oldBase := cfg.DefaultBase
				cfg.DefaultBase = ""
				if err := config.Write(cfg, cfgPath); err != nil {
					return errors.Wrapf(err, "writing config to %s", cfgPath)
				}
				logger.Infof("Successfully unset default base image %s", style.Symbol(oldBase))
			case len(args) == 0:
				if cfg.DefaultBase == "" {
					logger.Info("No default base image is set, the base is derived from the builder's python")
					return nil
				}
				logger.Infof("The current default base image is %s", style.Symbol(cfg.DefaultBase))
			default:
				imageName := args[0]
				if imageName == cfg.DefaultBase {
					logger.Infof("Default base image is already set to %s", style.Symbol(imageName))
					return nil
				}
				cfg.DefaultBase = imageName
				if err := config.Write(cfg, cfgPath); err != nil {
					return errors.Wrapf(err, "writing config to %s", cfgPath)
				}
				logger.Infof("Successfully set %s as the default base image", style.Symbol(imageName))
			}

			return nil
		}),
	}

	cmd.Flags().BoolVarP(&unset, "unset", "u", false, "Unset the default base image")
	AddHelpFlag(cmd, "default-base")
	return cmd
}
