package client

import (
	"context"

	"github.com/pkg/errors"

	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/image"
	"github.com/gantry-build/gantry/pkg/metadata"
)

// ImageInfo is the gantry-relevant information recorded on a built image.
type ImageInfo struct {
	// Module is the ASGI import string the image launches.
	Module string

	// Port the app listens on inside the container.
	Port int

	// PythonVersion of the interpreter that installed the dependencies.
	PythonVersion string

	// Builder image the install stage ran in.
	Builder string

	// Base image the app is layered onto, with the reference and top layer
	// used for rebasing.
	Base metadata.Base

	// ManifestDigest identifies the dependency set.
	ManifestDigest string

	// Packages installed into the dependency layer.
	Packages []string

	// Commit of the app source, when built from a git worktree.
	Commit string

	// Dirty marks a source worktree that had uncommitted changes.
	Dirty bool

	// GantryVersion that built the image.
	GantryVersion string
}

// InspectImage reads the recorded metadata of a built image, from the
// daemon or a registry. A missing image returns nil info and no error.
func (c *Client) InspectImage(name string, daemon bool) (*ImageInfo, error) {
	img, err := c.imageFetcher.Fetch(context.Background(), name, image.FetchOptions{Daemon: daemon, PullPolicy: image.PullNever})
	if err != nil {
		if errors.Cause(err) == image.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	var md metadata.Metadata
	found, err := metadata.FromLabel(img, &md)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Errorf("image %s is missing label %s", style.Symbol(name), style.Symbol(metadata.Label))
	}

	return &ImageInfo{
		Module:         md.App.Module,
		Port:           md.App.Port,
		PythonVersion:  md.Python.Version,
		Builder:        md.Builder.Image,
		Base:           md.Base,
		ManifestDigest: md.Deps.ManifestDigest,
		Packages:       md.Deps.Packages,
		Commit:         md.App.Commit,
		Dirty:          md.App.Dirty,
		GantryVersion:  md.Gantry.Version,
	}, nil
}
