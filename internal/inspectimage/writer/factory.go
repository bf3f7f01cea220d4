package writer

import (
	"fmt"

	"github.com/gantry-build/gantry/internal/inspectimage"
	"github.com/gantry-build/gantry/internal/style"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Writer(kind string) (inspectimage.InspectImageWriter, error) {
	switch kind {
	case "human-readable":
		return NewHumanReadable(), nil
	case "json":
		return NewJSON(), nil
	case "yaml":
		return NewYAML(), nil
	case "toml":
		return NewTOML(), nil
	}

	return nil, fmt.Errorf("output format %s is not supported", style.Symbol(kind))
}
