// Package build runs the dependency install stage inside a builder
// container and turns its output into a reusable image layer.
package build

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/docker/docker/api/types"
	dcontainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/pkg/errors"

	"github.com/gantry-build/gantry/internal/container"
	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/archive"
	"github.com/gantry-build/gantry/pkg/logging"
	"github.com/gantry-build/gantry/pkg/manifest"
)

const (
	// DepsPrefix is where pip installs into inside the installer, and where
	// the dependency layer lives inside the output image.
	DepsPrefix = "/gantry/deps"
	// Workspace is the working directory of the installer and the app dir
	// of the output image.
	Workspace = "/workspace"

	manifestPath = Workspace + "/requirements.txt"
)

// DockerClient is the subset of the docker API the installer uses.
type DockerClient interface {
	container.DockerClient
	ContainerCreate(ctx context.Context, config *dcontainer.Config, hostConfig *dcontainer.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (dcontainer.CreateResponse, error)
	ContainerRemove(ctx context.Context, containerID string, options dcontainer.RemoveOptions) error
	CopyToContainer(ctx context.Context, containerID, dstPath string, content io.Reader, options types.CopyToContainerOptions) error
	CopyFromContainer(ctx context.Context, containerID, srcPath string) (io.ReadCloser, types.ContainerPathStat, error)
	ImageInspectWithRaw(ctx context.Context, imageID string) (types.ImageInspect, []byte, error)
}

// Installer runs pip in a builder container and captures the installed
// dependency tree as a normalized layer tar.
type Installer struct {
	docker DockerClient
	logger logging.Logger
}

func NewInstaller(logger logging.Logger, docker DockerClient) *Installer {
	return &Installer{
		docker: docker,
		logger: logger,
	}
}

// InstallOptions configures one install run.
type InstallOptions struct {
	// BuilderImage must already be present on the daemon.
	BuilderImage string
	Manifest     manifest.Manifest
	// Env is extra environment for pip, such as PIP_INDEX_URL.
	Env map[string]string
	// Platform requests a specific os/arch for the installer container.
	Platform string
	// Network sets the container network mode, empty for the default.
	Network string
	// DestPath is where the dependency layer tar is written.
	DestPath string
	// Handler overrides how container output is consumed.
	Handler container.Handler
}

// InstallResult describes the produced dependency layer.
type InstallResult struct {
	// DiffID is the digest of the uncompressed layer tar.
	DiffID string
	// Bytes is the content size of the installed tree.
	Bytes int64
}

// Install copies the manifest into a fresh builder container, runs pip
// install against the deps prefix, and writes the normalized layer tar to
// opts.DestPath. Any pip failure aborts with no layer written.
func (i *Installer) Install(ctx context.Context, opts InstallOptions) (InstallResult, error) {
	ctrID, err := i.createContainer(ctx, creationOptions{
		image:    opts.BuilderImage,
		cmd:      pipCommand(),
		env:      envSlice(opts.Env),
		platform: opts.Platform,
		network:  opts.Network,
	})
	if err != nil {
		return InstallResult{}, errors.Wrap(err, "creating installer container")
	}
	defer i.removeContainer(ctrID)

	manifestTar, err := archive.CreateSingleFileTarReader(manifestPath, string(opts.Manifest.Raw))
	if err != nil {
		return InstallResult{}, errors.Wrap(err, "creating manifest archive")
	}

	if err := i.docker.CopyToContainer(ctx, ctrID, "/", manifestTar, types.CopyToContainerOptions{}); err != nil {
		return InstallResult{}, errors.Wrap(err, "copying manifest to installer container")
	}

	handler := opts.Handler
	if handler == nil {
		infoWriter := logging.NewPrefixWriter(logging.GetWriterForLevel(i.logger, logging.InfoLevel), "installer")
		errorWriter := logging.NewPrefixWriter(logging.GetWriterForLevel(i.logger, logging.ErrorLevel), "installer")
		defer infoWriter.Close()
		defer errorWriter.Close()
		handler = container.DefaultHandler(infoWriter, errorWriter)
	}

	if err := container.RunWithHandler(ctx, i.docker, ctrID, handler); err != nil {
		return InstallResult{}, errors.Wrap(err, "installing dependencies")
	}

	return i.exportDepsLayer(ctx, ctrID, opts.DestPath)
}

// PythonVersion resolves the interpreter version of the builder image. The
// official python images declare PYTHON_VERSION; anything else gets probed
// with a one-off container.
func (i *Installer) PythonVersion(ctx context.Context, builderImage, platform string) (string, error) {
	inspect, _, err := i.docker.ImageInspectWithRaw(ctx, builderImage)
	if err != nil {
		return "", errors.Wrapf(err, "inspecting builder image %s", style.Symbol(builderImage))
	}

	for _, kv := range inspect.Config.Env {
		if version, ok := strings.CutPrefix(kv, "PYTHON_VERSION="); ok && version != "" {
			return version, nil
		}
	}

	i.logger.Debugf("Builder %s does not declare PYTHON_VERSION, probing", style.Symbol(builderImage))
	return i.probePythonVersion(ctx, builderImage, platform)
}

func (i *Installer) probePythonVersion(ctx context.Context, builderImage, platform string) (string, error) {
	ctrID, err := i.createContainer(ctx, creationOptions{
		image:    builderImage,
		cmd:      []string{"python", "-c", "import platform; print(platform.python_version())"},
		platform: platform,
	})
	if err != nil {
		return "", errors.Wrap(err, "creating probe container")
	}
	defer i.removeContainer(ctrID)

	var out strings.Builder
	errorWriter := logging.GetWriterForLevel(i.logger, logging.ErrorLevel)
	if err := container.Run(ctx, i.docker, ctrID, &out, errorWriter); err != nil {
		return "", errors.Wrapf(err, "probing python version in %s", style.Symbol(builderImage))
	}

	version := strings.TrimSpace(out.String())
	if version == "" {
		return "", errors.Errorf("builder image %s did not report a python version", style.Symbol(builderImage))
	}

	return version, nil
}

type creationOptions struct {
	image    string
	cmd      []string
	env      []string
	platform string
	network  string
}

func (i *Installer) createContainer(ctx context.Context, opts creationOptions) (string, error) {
	var platform *ocispec.Platform
	if opts.platform != "" {
		parts := strings.SplitN(opts.platform, "/", 2)
		platform = &ocispec.Platform{OS: parts[0]}
		if len(parts) > 1 {
			platform.Architecture = parts[1]
		}
	}

	ctr, err := i.docker.ContainerCreate(ctx,
		&dcontainer.Config{
			Image:      opts.image,
			Cmd:        opts.cmd,
			Env:        opts.env,
			WorkingDir: Workspace,
			Labels:     map[string]string{"build.gantry.installer": "true"},
		},
		&dcontainer.HostConfig{
			NetworkMode: dcontainer.NetworkMode(opts.network),
		},
		nil, platform, "")
	if err != nil {
		return "", err
	}

	return ctr.ID, nil
}

func (i *Installer) removeContainer(ctrID string) {
	if err := i.docker.ContainerRemove(context.Background(), ctrID, dcontainer.RemoveOptions{Force: true}); err != nil {
		i.logger.Debugf("Failed to remove installer container %s: %s", style.Symbol(ctrID), err)
	}
}

func (i *Installer) exportDepsLayer(ctx context.Context, ctrID, destPath string) (InstallResult, error) {
	rc, _, err := i.docker.CopyFromContainer(ctx, ctrID, DepsPrefix)
	if err != nil {
		return InstallResult{}, errors.Wrap(err, "copying dependencies out of installer container")
	}
	defer rc.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return InstallResult{}, errors.Wrap(err, "creating dependency layer")
	}
	defer dest.Close()

	digester := digest.SHA256.Digester()
	tw := tar.NewWriter(io.MultiWriter(dest, digester.Hash()))

	written, err := archive.RewriteTar(rc, tw, "deps", DepsPrefix)
	if err != nil {
		return InstallResult{}, errors.Wrap(err, "normalizing dependency layer")
	}

	if err := tw.Close(); err != nil {
		return InstallResult{}, errors.Wrap(err, "finishing dependency layer")
	}
	if err := dest.Close(); err != nil {
		return InstallResult{}, errors.Wrap(err, "finishing dependency layer")
	}

	return InstallResult{
		DiffID: digester.Digest().String(),
		Bytes:  written,
	}, nil
}

// The prefix is created up front so that a manifest with nothing to
// install still exports an empty layer instead of failing the copy out.
func pipCommand() []string {
	return []string{
		"/bin/sh", "-c",
		"mkdir -p " + DepsPrefix + " && exec pip install" +
			" --prefix " + DepsPrefix +
			" --no-cache-dir" +
			" --no-compile" +
			" --disable-pip-version-check" +
			" -r " + manifestPath,
	}
}

func envSlice(env map[string]string) []string {
	var kvs []string
	for k, v := range env {
		kvs = append(kvs, k+"="+v)
	}
	sort.Strings(kvs)
	return kvs
}
