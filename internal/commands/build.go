package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/client"
	"github.com/gantry-build/gantry/pkg/image"
	"github.com/gantry-build/gantry/pkg/logging"
	"github.com/gantry-build/gantry/pkg/project"
)

// BuildFlags define flags provided to the Build command.
type BuildFlags struct {
	AppPath        string
	Manifest       string
	Module         string
	Port           int
	Builder        string
	BaseImage      string
	Env            []string
	EnvFiles       []string
	DescriptorPath string
	Policy         string
	Publish        bool
	ClearCache     bool
	Platform       string
	Network        string
	Interactive    bool
}

// Build an app image from source code and a requirements manifest.
func Build(logger logging.Logger, cfg config.Config, gantryClient GantryClient) *cobra.Command {
	var flags BuildFlags

	cmd := &cobra.Command{
		Use:     "build <image-name>",
		Args:    cobra.ExactArgs(1),
		Short:   "Generate app image from source code",
		Example: "gantry build my-app --path apps/my-app --port 8080",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			imageName := args[0]

			opts, err := buildOptions(logger, flags, cfg, imageName)
			if err != nil {
				return err
			}

			if err := gantryClient.Build(cmd.Context(), opts); err != nil {
				return err
			}
			if logging.IsQuiet(logger) {
				fmt.Fprintln(logger.Writer(), imageName)
				return nil
			}
			logger.Infof("Successfully built image %s", style.Symbol(imageName))
			return nil
		}),
	}
	buildCommandFlags(cmd, &flags)
	AddHelpFlag(cmd, "build")
	return cmd
}

func buildCommandFlags(cmd *cobra.Command, buildFlags *BuildFlags) {
	cmd.Flags().StringVarP(&buildFlags.AppPath, "path", "p", "", "Path to app dir (defaults to current working directory)")
	cmd.Flags().StringVarP(&buildFlags.Manifest, "manifest", "m", "", "Path or URL of the requirements manifest (defaults to requirements.txt in the app dir)")
	cmd.Flags().StringVar(&buildFlags.Module, "module", "", "ASGI application to serve, in the form 'MODULE:ATTRIBUTE' (defaults to main:app)")
	cmd.Flags().IntVar(&buildFlags.Port, "port", 0, "Port the app listens on inside the container (defaults to 8000)")
	cmd.Flags().StringVarP(&buildFlags.Builder, "builder", "B", "", "Builder image the dependency install runs in")
	cmd.Flags().StringVar(&buildFlags.BaseImage, "base-image", "", "Base image of the app image (defaults to the slim variant of the builder's python)")
	cmd.Flags().StringArrayVarP(&buildFlags.Env, "env", "e", []string{}, "Environment variable baked into the image, in the form 'VAR=VALUE' or 'VAR'.\nWhen using latter value-less form, value will be taken from current\n  environment at the time this command is executed.\nThis flag may be specified multiple times and will override\n  individual values defined by --env-file.")
	cmd.Flags().StringArrayVar(&buildFlags.EnvFiles, "env-file", []string{}, "Environment variables file\nOne variable per line, of the form 'VAR=VALUE' or 'VAR'")
	cmd.Flags().StringVarP(&buildFlags.DescriptorPath, "descriptor", "d", "", "Path to the project descriptor file (defaults to gantry.toml in the app dir)")
	cmd.Flags().StringVar(&buildFlags.Policy, "pull-policy", "", `Pull policy to use. Accepted values are always, never, and if-not-present. (default "always")`)
	cmd.Flags().BoolVar(&buildFlags.Publish, "publish", false, "Publish to registry")
	cmd.Flags().BoolVar(&buildFlags.ClearCache, "clear-cache", false, "Clear the dependency layer cache before building")
	cmd.Flags().StringVar(&buildFlags.Platform, "platform", "", `Platform of the app image, in the form 'os[/arch]'`)
	cmd.Flags().StringVar(&buildFlags.Network, "network", "", "Connect the installer container to network")
	cmd.Flags().BoolVar(&buildFlags.Interactive, "interactive", false, "Launch a terminal UI to depict the build process (experimental)")
}

func buildOptions(logger logging.Logger, flags BuildFlags, cfg config.Config, imageName string) (client.BuildOptions, error) {
	appPath := flags.AppPath

	descriptor, actualDescriptorPath, err := parseDescriptor(appPath, flags.DescriptorPath)
	if err != nil {
		return client.BuildOptions{}, err
	}
	if actualDescriptorPath != "" {
		logger.Debugf("Using project descriptor located at %s", style.Symbol(actualDescriptorPath))
	}

	env, err := parseEnv(flags.EnvFiles, flags.Env)
	if err != nil {
		return client.BuildOptions{}, err
	}

	stringPolicy := flags.Policy
	if stringPolicy == "" {
		stringPolicy = cfg.PullPolicy
	}
	pullPolicy, err := image.ParsePullPolicy(stringPolicy)
	if err != nil {
		return client.BuildOptions{}, err
	}

	return client.BuildOptions{
		Image:        imageName,
		AppPath:      appPath,
		ManifestPath: flags.Manifest,
		Module:       flags.Module,
		Port:         flags.Port,
		Builder:      resolveBuilder(flags, cfg, descriptor),
		BaseImage:    resolveBaseImage(flags, cfg, descriptor),
		Env:          env,
		Descriptor:   descriptor,
		Publish:      flags.Publish,
		PullPolicy:   pullPolicy,
		ClearCache:   flags.ClearCache,
		Platform:     flags.Platform,
		Network:      flags.Network,
		Interactive:  flags.Interactive,
	}, nil
}

// Flags outrank the descriptor, the descriptor outranks the config
// defaults. The client handles the descriptor itself, so the config
// default only applies when neither of the other two is set.
func resolveBuilder(flags BuildFlags, cfg config.Config, descriptor project.Descriptor) string {
	if flags.Builder != "" {
		return flags.Builder
	}
	if descriptor.Build.Builder == "" {
		return cfg.DefaultBuilder
	}
	return ""
}

func resolveBaseImage(flags BuildFlags, cfg config.Config, descriptor project.Descriptor) string {
	if flags.BaseImage != "" {
		return flags.BaseImage
	}
	if descriptor.Build.BaseImage == "" {
		return cfg.DefaultBase
	}
	return ""
}
