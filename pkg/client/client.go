/*
Package client provides all the functionality of gantry as a Go library.

# Prerequisites

In order to use most functionality, you will need an OCI runtime such as
Docker or podman installed and a running daemon.

# References

The client turns a Python ASGI app directory and its requirements manifest
into a runnable OCI image, with the dependency install stage executed in a
builder container and the result assembled onto a minimal base.
*/
package client

import (
	"context"
	"os"
	"path/filepath"

	"github.com/buildpacks/imgutil"
	dockerClient "github.com/docker/docker/client"
	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/pkg/errors"

	"github.com/gantry-build/gantry/internal/build"
	iconfig "github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/pkg/blob"
	"github.com/gantry-build/gantry/pkg/cache"
	"github.com/gantry-build/gantry/pkg/image"
	"github.com/gantry-build/gantry/pkg/logging"
)

//go:generate mockgen -package testmocks -destination ../testmocks/mock_image_fetcher.go github.com/gantry-build/gantry/pkg/client ImageFetcher

// ImageFetcher is an interface representing the ability to fetch local and remote images.
type ImageFetcher interface {
	// Fetch fetches an image by resolving it both remotely and locally depending on provided parameters.
	// The pull behavior is dictated by the pull policy:
	//   - PullNever: try to use the daemon to return a `local.Image`.
	//   - PullIfNotPresent: try to use the daemon to return a `local.Image`, if none is found fetch a remote image.
	//   - PullAlways: it will only try to fetch a remote image.
	//
	// These pull policies interact with the daemon parameter.
	// PullIfNotPresent and daemon = false gives us the same behavior as PullAlways.
	// There is a single invalid configuration, PullNever and daemon = false, this will always fail.
	Fetch(ctx context.Context, name string, options image.FetchOptions) (imgutil.Image, error)
}

//go:generate mockgen -package testmocks -destination ../testmocks/mock_blob_downloader.go github.com/gantry-build/gantry/pkg/client BlobDownloader

// BlobDownloader is an interface for collecting both remote and local assets as blobs.
type BlobDownloader interface {
	// Download collects both local and remote assets and provides a blob object
	// used to read asset contents.
	Download(ctx context.Context, pathOrURI string) (blob.Blob, error)
}

//go:generate mockgen -package testmocks -destination ../testmocks/mock_image_factory.go github.com/gantry-build/gantry/pkg/client ImageFactory

// ImageFactory is an interface representing the ability to create a new OCI image.
type ImageFactory interface {
	// NewImage initializes an image object on top of the named base so that
	// it can be saved either to the daemon or to a registry.
	NewImage(repoName string, daemon bool, baseImageName, platform string) (imgutil.Image, error)
}

//go:generate mockgen -package testmocks -destination ../testmocks/mock_deps_installer.go github.com/gantry-build/gantry/pkg/client DepsInstaller

// DepsInstaller is an interface for executing the dependency install stage
// in a builder container.
type DepsInstaller interface {
	// Install runs the package installer in a fresh builder container and
	// writes the normalized dependency layer tar to opts.DestPath.
	Install(ctx context.Context, opts build.InstallOptions) (build.InstallResult, error)

	// PythonVersion reports the interpreter version of the builder image.
	PythonVersion(ctx context.Context, builderImage, platform string) (string, error)
}

//go:generate mockgen -package testmocks -destination ../testmocks/mock_access_checker.go github.com/gantry-build/gantry/pkg/client ImageAccessChecker

// ImageAccessChecker is an interface for checking remote repository access.
type ImageAccessChecker interface {
	// Check returns true when repo is readable with the current credentials.
	// Builds that stay on the daemon always pass.
	Check(repo string, publish bool) bool
}

// Client is an orchestration object, it contains all parameters needed to
// build and run app images. All settings on this object should be changed
// through Option functions.
type Client struct {
	logger logging.Logger
	docker dockerClient.CommonAPIClient

	keychain      authn.Keychain
	imageFactory  ImageFactory
	imageFetcher  ImageFetcher
	accessChecker ImageAccessChecker
	downloader    BlobDownloader
	installer     DepsInstaller
	depsCache     *cache.DepsCache

	cacheDir        string
	experimental    bool
	registryMirrors map[string]string
	version         string
}

// Option is a type of function that mutate settings on the client.
// Values in these functions are set through currying.
type Option func(c *Client)

// WithLogger supply your own logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithImageFactory supply your own image factory.
func WithImageFactory(f ImageFactory) Option {
	return func(c *Client) {
		c.imageFactory = f
	}
}

// WithFetcher supply your own fetcher.
// A fetcher retrieves both local and remote images to make them available.
func WithFetcher(f ImageFetcher) Option {
	return func(c *Client) {
		c.imageFetcher = f
	}
}

// WithDownloader supply your own downloader.
// A downloader is used to gather manifests from both remote urls and local sources.
func WithDownloader(d BlobDownloader) Option {
	return func(c *Client) {
		c.downloader = d
	}
}

// WithInstaller supply your own dependency installer.
func WithInstaller(i DepsInstaller) Option {
	return func(c *Client) {
		c.installer = i
	}
}

// WithAccessChecker supply your own registry access checker.
func WithAccessChecker(a ImageAccessChecker) Option {
	return func(c *Client) {
		c.accessChecker = a
	}
}

// WithCacheDir supply your own cache directory. Downloaded manifests and
// dependency layers are kept under it.
func WithCacheDir(path string) Option {
	return func(c *Client) {
		c.cacheDir = path
	}
}

// WithDockerClient supply your own docker client.
func WithDockerClient(docker dockerClient.CommonAPIClient) Option {
	return func(c *Client) {
		c.docker = docker
	}
}

// WithExperimental sets whether experimental features should be enabled.
func WithExperimental(experimental bool) Option {
	return func(c *Client) {
		c.experimental = experimental
	}
}

// WithRegistryMirrors sets mirrors to pull images from.
func WithRegistryMirrors(registryMirrors map[string]string) Option {
	return func(c *Client) {
		c.registryMirrors = registryMirrors
	}
}

// WithKeychain sets keychain of credentials to image registries.
func WithKeychain(keychain authn.Keychain) Option {
	return func(c *Client) {
		c.keychain = keychain
	}
}

// DockerAPIVersion is the oldest daemon API gantry is known to work with.
const DockerAPIVersion = "1.38"

// NewClient allocates and returns a Client configured with the specified options.
func NewClient(opts ...Option) (*Client, error) {
	client := &Client{
		version:  Version,
		keychain: authn.DefaultKeychain,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.logger == nil {
		client.logger = logging.NewSimpleLogger(os.Stderr)
	}

	if client.docker == nil {
		dockerOpts := []dockerClient.Opt{
			dockerClient.FromEnv,
			dockerClient.WithVersion(DockerAPIVersion),
		}

		host, err := resolveDockerContextHost()
		if err != nil {
			return nil, errors.Wrap(err, "resolving docker context")
		}
		if host != "" {
			dockerOpts = append(dockerOpts, dockerClient.WithHost(host))
		}

		client.docker, err = dockerClient.NewClientWithOpts(dockerOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "creating docker client")
		}
	}

	if client.cacheDir == "" {
		gantryHome, err := iconfig.GantryHome()
		if err != nil {
			return nil, errors.Wrap(err, "getting gantry home")
		}
		client.cacheDir = filepath.Join(gantryHome, "cache")
	}

	if client.downloader == nil {
		client.downloader = blob.NewDownloader(client.logger, filepath.Join(client.cacheDir, "download"))
	}

	if client.depsCache == nil {
		client.depsCache = cache.NewDepsCache(filepath.Join(client.cacheDir, "deps"))
	}

	if client.imageFetcher == nil {
		client.imageFetcher = image.NewFetcher(client.logger, client.docker, image.WithRegistryMirrors(client.registryMirrors), image.WithKeychain(client.keychain))
	}

	if client.imageFactory == nil {
		client.imageFactory = image.NewFactory(client.docker, client.keychain)
	}

	if client.accessChecker == nil {
		client.accessChecker = image.NewAccessChecker(client.logger, client.keychain)
	}

	if client.installer == nil {
		client.installer = build.NewInstaller(client.logger, client.docker)
	}

	return client, nil
}
