// Package metadata defines the label gantry stamps on every image it builds.
package metadata

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/gantry-build/gantry/internal/style"
)

// Label is the image label holding the build metadata, JSON-encoded.
const Label = "build.gantry.metadata"

// Metadata records how an image was assembled. Everything rebase and
// inspect need lives here.
type Metadata struct {
	App     App     `json:"app"`
	Python  Python  `json:"python"`
	Deps    Deps    `json:"deps"`
	Builder Builder `json:"builder"`
	Base    Base    `json:"base"`
	Gantry  Gantry  `json:"gantry"`
}

// App describes the packaged application and its entry process.
type App struct {
	// Module is the ASGI application locator the entry process serves.
	Module string `json:"module"`
	// Port is the port the entry process binds.
	Port int `json:"port"`
	// Commit is the short source revision, when the app dir is versioned.
	Commit string `json:"commit,omitempty"`
	// Dirty is set when the working tree had uncommitted changes.
	Dirty bool `json:"dirty,omitempty"`
}

// Python records the interpreter the dependency layer was built against.
type Python struct {
	Version string `json:"version"`
}

// Deps records the dependency layer provenance.
type Deps struct {
	// ManifestDigest is the digest of the requirements manifest.
	ManifestDigest string `json:"manifest-digest"`
	// LayerDiffID is the uncompressed digest of the dependency layer.
	LayerDiffID string `json:"layer-diffid"`
	// Packages are the canonical names declared in the manifest.
	Packages []string `json:"packages,omitempty"`
}

// Builder records the image the installer ran in.
type Builder struct {
	Image string `json:"image"`
}

// Base records the runtime base so the image can be rebased later.
type Base struct {
	Image     string `json:"image,omitempty"`
	Reference string `json:"reference,omitempty"`
	TopLayer  string `json:"top-layer,omitempty"`
}

// Gantry records the tool version that produced the image.
type Gantry struct {
	Version string `json:"version"`
}

type Labeled interface {
	Label(name string) (value string, err error)
}

type Labelable interface {
	SetLabel(name string, value string) error
}

// ToLabel sets the metadata label on image.
func ToLabel(image Labelable, md Metadata) error {
	data, err := json.Marshal(md)
	if err != nil {
		return errors.Wrapf(err, "marshalling data for label %s", style.Symbol(Label))
	}
	if err := image.SetLabel(Label, string(data)); err != nil {
		return errors.Wrapf(err, "setting label %s", style.Symbol(Label))
	}
	return nil
}

// FromLabel reads the metadata label from image. ok is false when the
// image carries no gantry metadata.
func FromLabel(image Labeled, md *Metadata) (ok bool, err error) {
	data, err := image.Label(Label)
	if err != nil {
		return false, errors.Wrapf(err, "retrieving label %s", style.Symbol(Label))
	}
	if data == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(data), md); err != nil {
		return false, errors.Wrapf(err, "unmarshalling label %s", style.Symbol(Label))
	}
	return true, nil
}
