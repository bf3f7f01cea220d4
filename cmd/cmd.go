// Package cmd wires the gantry commands into a single cobra tree.
package cmd

import (
	"github.com/heroku/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/commands"
	"github.com/gantry-build/gantry/internal/config"
	inspectimagewriter "github.com/gantry-build/gantry/internal/inspectimage/writer"
	"github.com/gantry-build/gantry/pkg/client"
	"github.com/gantry-build/gantry/pkg/logging"
)

// ConfigurableLogger defines behavior required by the GantryCommand.
type ConfigurableLogger interface {
	logging.Logger
	WantTime(f bool)
	WantQuiet(f bool)
	WantVerbose(f bool)
}

// NewGantryCommand generates the root gantry command.
func NewGantryCommand(logger ConfigurableLogger) (*cobra.Command, error) {
	cobra.EnableCommandSorting = false
	cfg, cfgPath, err := initConfig()
	if err != nil {
		return nil, err
	}

	gantryClient, err := initClient(logger, cfg)
	if err != nil {
		return nil, err
	}

	rootCmd := &cobra.Command{
		Use:   "gantry",
		Short: "CLI for building runnable images of Python ASGI apps",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if fs := cmd.Flags(); fs != nil {
				if flag, err := fs.GetBool("no-color"); err == nil {
					color.Disable(flag)
				}
				if flag, err := fs.GetBool("quiet"); err == nil {
					logger.WantQuiet(flag)
				}
				if flag, err := fs.GetBool("verbose"); err == nil {
					logger.WantVerbose(flag)
				}
				if flag, err := fs.GetBool("timestamps"); err == nil {
					logger.WantTime(flag)
				}
			}
		},
	}

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	rootCmd.PersistentFlags().Bool("timestamps", false, "Enable timestamps in output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Show less output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show more output")
	rootCmd.Flags().Bool("version", false, "Show current 'gantry' version")

	commands.AddHelpFlag(rootCmd, "gantry")

	rootCmd.AddCommand(commands.Build(logger, cfg, gantryClient))
	rootCmd.AddCommand(commands.Run(logger, cfg, gantryClient))
	rootCmd.AddCommand(commands.Rebase(logger, cfg, gantryClient))
	rootCmd.AddCommand(commands.InspectImage(logger, inspectimagewriter.NewFactory(), cfg, gantryClient))

	rootCmd.AddCommand(commands.NewConfigCommand(logger, cfg, cfgPath))

	rootCmd.AddCommand(commands.Version(logger, client.Version))
	rootCmd.AddCommand(commands.Report(logger, client.Version))
	rootCmd.AddCommand(commands.CompletionCommand(logger))

	rootCmd.Version = client.Version
	rootCmd.SetVersionTemplate(`{{.Version}}{{"\n"}}`)
	rootCmd.SetOut(logging.GetWriterForLevel(logger, logging.InfoLevel))
	rootCmd.SetErr(logging.GetWriterForLevel(logger, logging.ErrorLevel))

	return rootCmd, nil
}

func initConfig() (config.Config, string, error) {
	path, err := config.DefaultConfigPath()
	if err != nil {
		return config.Config{}, "", errors.Wrap(err, "getting config path")
	}

	cfg, err := config.Read(path)
	if err != nil {
		return config.Config{}, "", errors.Wrap(err, "reading gantry config")
	}
	return cfg, path, nil
}

func initClient(logger logging.Logger, cfg config.Config) (*client.Client, error) {
	return client.NewClient(
		client.WithLogger(logger),
		client.WithExperimental(cfg.Experimental),
		client.WithRegistryMirrors(cfg.RegistryMirrors),
	)
}
