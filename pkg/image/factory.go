package image

import (
	"github.com/buildpacks/imgutil"
	"github.com/buildpacks/imgutil/local"
	"github.com/buildpacks/imgutil/remote"
	"github.com/docker/docker/client"
	"github.com/google/go-containerregistry/pkg/authn"
)

// Factory constructs writable image handles derived from a base image.
type Factory struct {
	docker   client.CommonAPIClient
	keychain authn.Keychain
}

func NewFactory(docker client.CommonAPIClient, keychain authn.Keychain) *Factory {
	factory := &Factory{
		docker:   docker,
		keychain: keychain,
	}

	if factory.keychain == nil {
		factory.keychain = authn.DefaultKeychain
	}

	return factory
}

// NewImage returns a handle for writing repoName on top of baseImageName.
// With daemon the image saves to the docker daemon, otherwise it pushes to
// the registry. platform is os[/arch], empty for the default.
func (f *Factory) NewImage(repoName string, daemon bool, baseImageName, platform string) (imgutil.Image, error) {
	if daemon {
		opts := []imgutil.ImageOption{local.FromBaseImage(baseImageName)}
		if platform != "" {
			p, err := ParsePlatform(platform)
			if err != nil {
				return nil, err
			}
			opts = append(opts, local.WithDefaultPlatform(p))
		}
		return local.NewImage(repoName, f.docker, opts...)
	}

	opts := []imgutil.ImageOption{remote.FromBaseImage(baseImageName)}
	if platform != "" {
		p, err := ParsePlatform(platform)
		if err != nil {
			return nil, err
		}
		opts = append(opts, remote.WithDefaultPlatform(p))
	}
	return remote.NewImage(repoName, f.keychain, opts...)
}
