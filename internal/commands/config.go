package commands

import (
	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/pkg/logging"
)

// NewConfigCommand groups the subcommands that read and write the gantry
// config file.
func NewConfigCommand(logger logging.Logger, cfg config.Config, cfgPath string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Interact with your local gantry configuration",
		RunE:  nil,
	}

	cmd.AddCommand(ConfigDefaultBuilder(logger, cfg, cfgPath))
	cmd.AddCommand(ConfigDefaultBase(logger, cfg, cfgPath))
	cmd.AddCommand(ConfigPullPolicy(logger, cfg, cfgPath))
	cmd.AddCommand(ConfigRegistryMirrors(logger, cfg, cfgPath))

	AddHelpFlag(cmd, "config")
	return cmd
}
