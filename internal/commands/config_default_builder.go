package commands

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/logging"
)

// ConfigDefaultBuilder lists, sets, or unsets the builder image used when
// neither the command line nor the project descriptor names one.
func ConfigDefaultBuilder(logger logging.Logger, cfg config.Config, cfgPath string) *cobra.Command {
	var unset bool

	cmd := &cobra.Command{
		Use:   "default-builder <builder-image>",
		Args:  cobra.MaximumNArgs(1),
		Short: "List, set and unset the default builder image used by other commands",
		Long: "You can use this command to list, set, and unset the default builder image:\n" +
			"* To list your default builder image, run `gantry config default-builder`.\n" +
			"* To set your default builder image, run `gantry config default-builder <builder-image>`.\n" +
			"* To unset your default builder image, run `gantry config default-builder --unset`.\n",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			switch {
			case unset:
				if len(args) > 0 {
					return errors.Errorf("builder image and --unset cannot be specified simultaneously")
				}
				if cfg.DefaultBuilder == "" {
					return errors.New("no default builder image was set")
				}
				oldBuilder := cfg.DefaultBuilder
				cfg.DefaultBuilder = ""
				if err := config.Write(cfg, cfgPath); err != nil {
					return errors.Wrapf(err, "writing config to %s", cfgPath)
				}
				logger.Infof("Successfully unset default builder image %s", style.Symbol(oldBuilder))
			case len(args) == 0:
				if cfg.DefaultBuilder == "" {
					logger.Info("No default builder image is set, the install stage runs in the stock python image")
					return nil
				}
				logger.Infof("The current default builder image is %s", style.Symbol(cfg.DefaultBuilder))
			default:
				imageName := args[0]
				if imageName == cfg.DefaultBuilder {
					logger.Infof("Default builder image is already set to %s", style.Symbol(imageName))
					return nil
				}
				cfg.DefaultBuilder = imageName
				if err := config.Write(cfg, cfgPath); err != nil {
					return errors.Wrapf(err, "writing config to %s", cfgPath)
				}
				logger.Infof("Successfully set %s as the default builder image", style.Symbol(imageName))
			}

			return nil
		}),
	}

	cmd.Flags().BoolVarP(&unset, "unset", "u", false, "Unset the default builder image")
	AddHelpFlag(cmd, "default-builder")
	return cmd
}
