// Package project reads the optional gantry.toml descriptor that keeps
// per-project build settings out of the command line.
package project

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// EnvVar is one build-time environment variable for the installer.
type EnvVar struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

// App describes the application being packaged.
type App struct {
	Name string `toml:"name"`
	// Module is the ASGI application locator, such as api.main:app.
	Module string `toml:"module"`
	// Port is the port the entry process listens on.
	Port int `toml:"port"`
	// Manifest is the requirements file path, relative to the app dir.
	Manifest string `toml:"manifest"`
}

// Build describes how the dependency layer is produced.
type Build struct {
	Builder   string   `toml:"builder"`
	BaseImage string   `toml:"base-image"`
	Include   []string `toml:"include"`
	Exclude   []string `toml:"exclude"`
	Env       []EnvVar `toml:"env"`
}

// Run constrains the runtime the image will carry.
type Run struct {
	// Python is a version constraint the resolved interpreter must satisfy,
	// such as ">= 3.11".
	Python string `toml:"python"`
}

// Descriptor is a parsed gantry.toml.
type Descriptor struct {
	App   App   `toml:"app"`
	Build Build `toml:"build"`
	Run   Run   `toml:"run"`
}

// ReadDescriptor parses and validates the descriptor at path.
func ReadDescriptor(path string) (Descriptor, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, err
	}

	var descriptor Descriptor
	if _, err := toml.Decode(string(contents), &descriptor); err != nil {
		return Descriptor{}, errors.Wrapf(err, "parsing descriptor %s", path)
	}

	if err := descriptor.validate(); err != nil {
		return Descriptor{}, errors.Wrapf(err, "invalid descriptor %s", path)
	}

	return descriptor, nil
}

func (d Descriptor) validate() error {
	if len(d.Build.Include) > 0 && len(d.Build.Exclude) > 0 {
		return errors.New("cannot have both include and exclude defined")
	}

	if d.App.Port < 0 || d.App.Port > 65535 {
		return errors.Errorf("port %d is out of range", d.App.Port)
	}

	for _, env := range d.Build.Env {
		if env.Name == "" {
			return errors.New("build env variables must have a name")
		}
	}

	return nil
}
