package image

import "github.com/pkg/errors"

// PullPolicy defines how the fetcher treats images that may already be
// present on the daemon.
type PullPolicy int

const (
	// PullAlways pulls images, even when they are present.
	PullAlways PullPolicy = iota
	// PullNever never pulls images, even when they are not present.
	PullNever
	// PullIfNotPresent pulls images only when they are not present.
	PullIfNotPresent
)

var nameMap = map[string]PullPolicy{
	"always":         PullAlways,
	"never":          PullNever,
	"if-not-present": PullIfNotPresent,
	"":               PullAlways,
}

// ParsePullPolicy from string.
func ParsePullPolicy(policy string) (PullPolicy, error) {
	if val, ok := nameMap[policy]; ok {
		return val, nil
	}

	return PullAlways, errors.Errorf("invalid pull policy %s", policy)
}

func (p PullPolicy) String() string {
	switch p {
	case PullAlways:
		return "always"
	case PullNever:
		return "never"
	case PullIfNotPresent:
		return "if-not-present"
	}

	return ""
}
