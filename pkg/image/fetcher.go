// Package image fetches and constructs the images a build touches: the
// builder the installer runs in, the runtime base, and the output image.
package image

import (
	"context"
	"io"
	"strings"

	"github.com/buildpacks/imgutil"
	"github.com/buildpacks/imgutil/local"
	"github.com/buildpacks/imgutil/remote"
	"github.com/docker/docker/api/types"
	registrytypes "github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/google/go-containerregistry/pkg/authn"
	gname "github.com/google/go-containerregistry/pkg/name"
	"github.com/pkg/errors"

	"github.com/gantry-build/gantry/internal/name"
	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/logging"
)

// ErrNotFound is wrapped by fetch errors for images that do not exist.
var ErrNotFound = errors.New("not found")

// FetchOptions controls where an image is fetched from and when it is pulled.
type FetchOptions struct {
	// Daemon fetches from the local docker daemon rather than a registry.
	Daemon bool
	// Platform requests a specific os/arch when pulling, e.g. linux/amd64.
	Platform   string
	PullPolicy PullPolicy
}

type FetcherOption func(*Fetcher)

// WithRegistryMirrors translates image references through mirrors before
// fetching.
func WithRegistryMirrors(registryMirrors map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.registryMirrors = registryMirrors
	}
}

// WithKeychain overrides the keychain used for registry auth.
func WithKeychain(keychain authn.Keychain) FetcherOption {
	return func(f *Fetcher) {
		f.keychain = keychain
	}
}

type Fetcher struct {
	docker          client.CommonAPIClient
	logger          logging.Logger
	registryMirrors map[string]string
	keychain        authn.Keychain
}

func NewFetcher(logger logging.Logger, docker client.CommonAPIClient, opts ...FetcherOption) *Fetcher {
	fetcher := &Fetcher{
		logger:   logger,
		docker:   docker,
		keychain: authn.DefaultKeychain,
	}

	for _, opt := range opts {
		opt(fetcher)
	}

	return fetcher
}

func (f *Fetcher) Fetch(ctx context.Context, imageName string, options FetchOptions) (imgutil.Image, error) {
	imageName, err := name.TranslateRegistry(imageName, f.registryMirrors, f.logger)
	if err != nil {
		return nil, err
	}

	if !options.Daemon {
		return f.fetchRemoteImage(imageName, options.Platform)
	}

	switch options.PullPolicy {
	case PullNever:
		img, err := f.fetchDaemonImage(imageName)
		return img, err
	case PullIfNotPresent:
		img, err := f.fetchDaemonImage(imageName)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return img, err
		}
	}

	f.logger.Debugf("Pulling image %s", style.Symbol(imageName))
	if err := f.pullImage(ctx, imageName, options.Platform); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return f.fetchDaemonImage(imageName)
}

func (f *Fetcher) fetchDaemonImage(imageName string) (imgutil.Image, error) {
	img, err := local.NewImage(imageName, f.docker, local.FromBaseImage(imageName))
	if err != nil {
		return nil, err
	}

	if !img.Found() {
		return nil, errors.Wrapf(ErrNotFound, "image %s does not exist on the daemon", style.Symbol(imageName))
	}

	return img, nil
}

func (f *Fetcher) fetchRemoteImage(imageName, platform string) (imgutil.Image, error) {
	opts := []imgutil.ImageOption{remote.FromBaseImage(imageName)}
	if platform != "" {
		p, err := ParsePlatform(platform)
		if err != nil {
			return nil, err
		}
		opts = append(opts, remote.WithDefaultPlatform(p))
	}

	img, err := remote.NewImage(imageName, f.keychain, opts...)
	if err != nil {
		return nil, err
	}

	if !img.Found() {
		return nil, errors.Wrapf(ErrNotFound, "image %s does not exist in registry", style.Symbol(imageName))
	}

	return img, nil
}

func (f *Fetcher) pullImage(ctx context.Context, imageName, platform string) error {
	regAuth, err := registryAuth(f.keychain, imageName)
	if err != nil {
		return err
	}

	rc, err := f.docker.ImagePull(ctx, imageName, types.ImagePullOptions{RegistryAuth: regAuth, Platform: platform})
	if err != nil {
		if client.IsErrNotFound(err) {
			return errors.Wrapf(ErrNotFound, "image %s does not exist on the daemon", style.Symbol(imageName))
		}

		return err
	}

	writer := logging.GetWriterForLevel(f.logger, logging.InfoLevel)
	termFd, isTerm := logging.IsTerminal(writer)

	if err := jsonmessage.DisplayJSONMessagesStream(rc, &colorizedWriter{writer}, termFd, isTerm, nil); err != nil {
		if jsonErr, ok := err.(*jsonmessage.JSONError); ok {
			return errors.Wrap(ErrNotFound, jsonErr.Message)
		}
		return err
	}

	return rc.Close()
}

func registryAuth(keychain authn.Keychain, ref string) (string, error) {
	reference, err := gname.ParseReference(ref, gname.WeakValidation)
	if err != nil {
		return "", errors.Wrapf(err, "parsing reference %s", style.Symbol(ref))
	}

	authenticator, err := keychain.Resolve(reference.Context().Registry)
	if err != nil {
		return "", errors.Wrapf(err, "resolving auth for ref %s", style.Symbol(ref))
	}

	authConfig, err := authenticator.Authorization()
	if err != nil {
		return "", err
	}

	return registrytypes.EncodeAuthConfig(registrytypes.AuthConfig{
		Username:      authConfig.Username,
		Password:      authConfig.Password,
		Auth:          authConfig.Auth,
		IdentityToken: authConfig.IdentityToken,
		RegistryToken: authConfig.RegistryToken,
	})
}

type colorizedWriter struct {
	writer io.Writer
}

type colorFunc = func(string, ...interface{}) string

func (w *colorizedWriter) Write(p []byte) (n int, err error) {
	msg := string(p)
	colorizers := map[string]colorFunc{
		"Waiting":           style.Waiting,
		"Pulling fs layer":  style.Waiting,
		"Downloading":       style.Working,
		"Download complete": style.Working,
		"Extracting":        style.Working,
		"Pull complete":     style.Complete,
		"Already exists":    style.Complete,
		"=":                 style.ProgressBar,
		">":                 style.ProgressBar,
	}
	for pattern, colorize := range colorizers {
		msg = strings.ReplaceAll(msg, pattern, colorize(pattern))
	}
	return w.writer.Write([]byte(msg))
}
