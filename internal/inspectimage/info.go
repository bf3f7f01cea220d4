// Package inspectimage turns the metadata recorded on a built image into
// display structures shared by every output format.
package inspectimage

import (
	"github.com/gantry-build/gantry/pkg/client"
	"github.com/gantry-build/gantry/pkg/logging"
)

// GeneralInfo is the image-independent context of one inspect invocation.
type GeneralInfo struct {
	Name string
}

// InspectImageWriter renders local and remote views of an image.
type InspectImageWriter interface {
	Print(
		logger logging.Logger,
		generalInfo GeneralInfo,
		local, remote *client.ImageInfo,
		localErr, remoteErr error,
	) error
}

type BaseDisplay struct {
	Image     string `json:"image,omitempty" yaml:"image,omitempty" toml:"image,omitempty"`
	Reference string `json:"reference" yaml:"reference" toml:"reference"`
	TopLayer  string `json:"top_layer" yaml:"top_layer" toml:"top_layer"`
}

type DepsDisplay struct {
	ManifestDigest string   `json:"manifest_digest" yaml:"manifest_digest" toml:"manifest_digest"`
	Packages       []string `json:"packages,omitempty" yaml:"packages,omitempty" toml:"packages,omitempty"`
}

type SourceDisplay struct {
	Commit string `json:"commit,omitempty" yaml:"commit,omitempty" toml:"commit,omitempty"`
	Dirty  bool   `json:"dirty,omitempty" yaml:"dirty,omitempty" toml:"dirty,omitempty"`
}

type InfoDisplay struct {
	Module        string        `json:"module" yaml:"module" toml:"module"`
	Port          int           `json:"port" yaml:"port" toml:"port"`
	PythonVersion string        `json:"python_version" yaml:"python_version" toml:"python_version"`
	Builder       string        `json:"builder" yaml:"builder" toml:"builder"`
	Base          BaseDisplay   `json:"base_image" yaml:"base_image" toml:"base_image"`
	Deps          DepsDisplay   `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
	Source        SourceDisplay `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	GantryVersion string        `json:"gantry_version" yaml:"gantry_version" toml:"gantry_version"`
}

type InspectOutput struct {
	ImageName string       `json:"image_name" yaml:"image_name" toml:"image_name"`
	Remote    *InfoDisplay `json:"remote_info" yaml:"remote_info" toml:"remote_info"`
	Local     *InfoDisplay `json:"local_info" yaml:"local_info" toml:"local_info"`
}

func NewInfoDisplay(info *client.ImageInfo, generalInfo GeneralInfo) *InfoDisplay {
	if info == nil {
		return nil
	}
	return &InfoDisplay{
		Module:        info.Module,
		Port:          info.Port,
		PythonVersion: info.PythonVersion,
		Builder:       info.Builder,
		Base: BaseDisplay{
			Image:     info.Base.Image,
			Reference: info.Base.Reference,
			TopLayer:  info.Base.TopLayer,
		},
		Deps: DepsDisplay{
			ManifestDigest: info.ManifestDigest,
			Packages:       info.Packages,
		},
		Source: SourceDisplay{
			Commit: info.Commit,
			Dirty:  info.Dirty,
		},
		GantryVersion: info.GantryVersion,
	}
}
