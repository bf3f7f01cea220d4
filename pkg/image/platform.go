package image

import (
	"strings"

	"github.com/buildpacks/imgutil"
	"github.com/pkg/errors"

	"github.com/gantry-build/gantry/internal/style"
)

// ParsePlatform parses an os[/arch] string such as linux/amd64. Platform
// variants cannot be carried onto an image, so they are rejected here
// rather than silently dropped.
func ParsePlatform(platform string) (imgutil.Platform, error) {
	parts := strings.Split(platform, "/")
	for _, part := range parts {
		if part == "" {
			return imgutil.Platform{}, errors.Errorf("unable to parse platform %s, expected format os[/arch]", style.Symbol(platform))
		}
	}

	switch len(parts) {
	case 1:
		return imgutil.Platform{OS: parts[0]}, nil
	case 2:
		return imgutil.Platform{OS: parts[0], Architecture: parts[1]}, nil
	}

	return imgutil.Platform{}, errors.Errorf("unable to parse platform %s, expected format os[/arch]", style.Symbol(platform))
}
