package client

import (
	"context"

	"github.com/pkg/errors"

	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/image"
	"github.com/gantry-build/gantry/pkg/metadata"
)

// RebaseOptions describes configuration for swapping the base image under
// an existing app image.
type RebaseOptions struct {
	// RepoName of the image to rebase, required.
	RepoName string

	// BaseImage to rebase onto. Defaults to the recorded base, picking up
	// whatever its tag points at now.
	BaseImage string

	// Publish rebases directly in the registry instead of the daemon.
	Publish bool

	// PullPolicy for the app and base images.
	PullPolicy image.PullPolicy
}

// Rebase swaps everything below the dependency layer for the base image's
// current layers, leaving dependency and app layers untouched, then
// refreshes the recorded base in the image metadata.
func (c *Client) Rebase(ctx context.Context, opts RebaseOptions) error {
	appImage, err := c.imageFetcher.Fetch(ctx, opts.RepoName, image.FetchOptions{
		Daemon:     !opts.Publish,
		PullPolicy: opts.PullPolicy,
	})
	if err != nil {
		return err
	}

	var md metadata.Metadata
	found, err := metadata.FromLabel(appImage, &md)
	if err != nil {
		return err
	}
	if !found {
		return errors.Errorf("image %s is missing label %s, only gantry images can be rebased", style.Symbol(appImage.Name()), style.Symbol(metadata.Label))
	}
	if md.Base.TopLayer == "" {
		return errors.Errorf("image %s does not record its base top layer", style.Symbol(appImage.Name()))
	}

	baseName := opts.BaseImage
	if baseName == "" {
		baseName = md.Base.Image
	}
	if baseName == "" {
		return errors.New("base image must be specified")
	}

	baseImage, err := c.imageFetcher.Fetch(ctx, baseName, image.FetchOptions{
		Daemon:     !opts.Publish,
		PullPolicy: opts.PullPolicy,
	})
	if err != nil {
		return errors.Wrapf(err, "fetching base image %s", style.Symbol(baseName))
	}

	c.logger.Infof("Rebasing %s on base image %s", style.Symbol(appImage.Name()), style.Symbol(baseImage.Name()))
	if err := appImage.Rebase(md.Base.TopLayer, baseImage); err != nil {
		return errors.Wrap(err, "rebasing image")
	}

	baseID, err := baseImage.Identifier()
	if err != nil {
		return errors.Wrap(err, "reading base image identifier")
	}
	topLayer, err := baseImage.TopLayer()
	if err != nil {
		return errors.Wrap(err, "reading base image top layer")
	}

	md.Base.Image = baseImage.Name()
	md.Base.Reference = baseID.String()
	md.Base.TopLayer = topLayer

	if err := metadata.ToLabel(appImage, md); err != nil {
		return err
	}

	if err := appImage.Save(); err != nil {
		return errors.Wrapf(err, "saving image %s", style.Symbol(appImage.Name()))
	}

	id, err := appImage.Identifier()
	if err != nil {
		return errors.Wrap(err, "reading image identifier")
	}
	c.logger.Infof("Rebased image %s, new reference %s", style.Symbol(appImage.Name()), style.Symbol(id.String()))

	return nil
}
