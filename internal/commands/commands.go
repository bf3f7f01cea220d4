package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/client"
	"github.com/gantry-build/gantry/pkg/logging"
	"github.com/gantry-build/gantry/pkg/project"
)

//go:generate mockgen -package testmocks -destination testmocks/mock_gantry_client.go github.com/gantry-build/gantry/internal/commands GantryClient

// GantryClient is the interface of the client commands drive.
type GantryClient interface {
	Build(ctx context.Context, opts client.BuildOptions) error
	Run(ctx context.Context, opts client.RunOptions) error
	Rebase(ctx context.Context, opts client.RebaseOptions) error
	InspectImage(name string, daemon bool) (*client.ImageInfo, error)
}

func AddHelpFlag(cmd *cobra.Command, commandName string) {
	cmd.Flags().BoolP("help", "h", false, fmt.Sprintf("Help for '%s'", commandName))
}

func CreateCancellableContext() context.Context {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-signals
		cancel()
	}()

	return ctx
}

func logError(logger logging.Logger, f func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		err := f(cmd, args)
		if err != nil {
			if _, isSoftError := errors.Cause(err).(client.SoftError); !isSoftError {
				logger.Error(err.Error())
			}
			if ee, isExpError := errors.Cause(err).(client.ExperimentError); isExpError {
				configPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				ee.Tip(logger, configPath)
			}
			return err
		}
		return nil
	}
}

func parseEnv(envFiles []string, envVars []string) (map[string]string, error) {
	env := map[string]string{}

	for _, envFile := range envFiles {
		envFileVars, err := parseEnvFile(envFile)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing env file %s", style.Symbol(envFile))
		}

		for k, v := range envFileVars {
			env[k] = v
		}
	}
	for _, envVar := range envVars {
		env = addEnvVar(env, envVar)
	}
	return env, nil
}

func parseEnvFile(filename string) (map[string]string, error) {
	out := make(map[string]string)
	f, err := os.ReadFile(filepath.Clean(filename))
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}
	for _, line := range strings.Split(string(f), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = addEnvVar(out, line)
	}
	return out, nil
}

func addEnvVar(env map[string]string, item string) map[string]string {
	arr := strings.SplitN(item, "=", 2)
	if len(arr) > 1 {
		env[arr[0]] = arr[1]
	} else {
		env[arr[0]] = os.Getenv(arr[0])
	}
	return env
}

// parseDescriptor reads the project descriptor, resolving the default
// gantry.toml inside the app dir when no path is given. A missing default
// descriptor is not an error.
func parseDescriptor(appPath, descriptorPath string) (project.Descriptor, string, error) {
	actualPath := descriptorPath
	computePath := descriptorPath == ""

	if computePath {
		actualPath = filepath.Join(appPath, "gantry.toml")
	}

	if _, err := os.Stat(actualPath); err != nil {
		if computePath {
			return project.Descriptor{}, "", nil
		}
		return project.Descriptor{}, "", errors.Wrap(err, "stat project descriptor")
	}

	descriptor, err := project.ReadDescriptor(actualPath)
	return descriptor, actualPath, err
}
