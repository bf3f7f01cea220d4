package commands

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/logging"
)

// ConfigRegistryMirrors manages the registry-to-mirror mapping applied to
// every remote image reference.
func ConfigRegistryMirrors(logger logging.Logger, cfg config.Config, cfgPath string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "registry-mirrors",
		Aliases: []string{"registry-mirror"},
		Short:   "List, add and remove registry mirrors",
		Long: "A registry mirror replaces the registry of image references before they are pulled:\n" +
			"* To list your registry mirrors, run `gantry config registry-mirrors list`.\n" +
			"* To add a registry mirror, run `gantry config registry-mirrors add <registry> --mirror <mirror>`.\n" +
			"* To remove a registry mirror, run `gantry config registry-mirrors remove <registry>`.",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			listRegistryMirrors(logger, cfg)
			return nil
		}),
	}

	cmd.AddCommand(addRegistryMirror(logger, cfg, cfgPath))
	cmd.AddCommand(removeRegistryMirror(logger, cfg, cfgPath))
	cmd.AddCommand(listRegistryMirrorsCommand(logger, cfg))

	AddHelpFlag(cmd, "registry-mirrors")
	return cmd
}

func addRegistryMirror(logger logging.Logger, cfg config.Config, cfgPath string) *cobra.Command {
	var mirror string

	cmd := &cobra.Command{
		Use:   "add <registry>",
		Args:  cobra.ExactArgs(1),
		Short: "Add a registry mirror",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			registry := args[0]
			if mirror == "" {
				return errors.New("a mirror is required, supply it with --mirror")
			}

			if cfg.RegistryMirrors == nil {
				cfg.RegistryMirrors = map[string]string{}
			}
			cfg.RegistryMirrors[registry] = mirror
			if err := config.Write(cfg, cfgPath); err != nil {
				return errors.Wrapf(err, "writing config to %s", cfgPath)
			}

			logger.Infof("Registry %s configured with mirror %s", style.Symbol(registry), style.Symbol(mirror))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&mirror, "mirror", "m", "", "Mirror to pull the registry's images from")
	AddHelpFlag(cmd, "add")
	return cmd
}

func removeRegistryMirror(logger logging.Logger, cfg config.Config, cfgPath string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <registry>",
		Args:  cobra.ExactArgs(1),
		Short: "Remove a registry mirror",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			registry := args[0]
			if _, ok := cfg.RegistryMirrors[registry]; !ok {
				return errors.Errorf("no mirror is configured for registry %s", style.Symbol(registry))
			}

			delete(cfg.RegistryMirrors, registry)
			if err := config.Write(cfg, cfgPath); err != nil {
				return errors.Wrapf(err, "writing config to %s", cfgPath)
			}

			logger.Infof("Removed mirror for registry %s", style.Symbol(registry))
			return nil
		}),
	}

	AddHelpFlag(cmd, "remove")
	return cmd
}

func listRegistryMirrorsCommand(logger logging.Logger, cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Args:  cobra.NoArgs,
		Short: "List registry mirrors",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			listRegistryMirrors(logger, cfg)
			return nil
		}),
	}

	AddHelpFlag(cmd, "list")
	return cmd
}

func listRegistryMirrors(logger logging.Logger, cfg config.Config) {
	if len(cfg.RegistryMirrors) == 0 {
		logger.Info("No registry mirrors have been set")
		return
	}

	registries := make([]string, 0, len(cfg.RegistryMirrors))
	for registry := range cfg.RegistryMirrors {
		registries = append(registries, registry)
	}
	sort.Strings(registries)

	logger.Info("Registry Mirrors:")
	for _, registry := range registries {
		logger.Infof("  %s -> %s", registry, style.Symbol(cfg.RegistryMirrors[registry]))
	}
}
