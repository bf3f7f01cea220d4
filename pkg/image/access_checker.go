package image

import (
	"github.com/buildpacks/imgutil/remote"
	"github.com/google/go-containerregistry/pkg/authn"

	"github.com/gantry-build/gantry/pkg/logging"
)

// Checker verifies registry access before a published build starts work.
type Checker struct {
	logger   logging.Logger
	keychain authn.Keychain
}

func NewAccessChecker(logger logging.Logger, keychain authn.Keychain) *Checker {
	checker := &Checker{
		logger:   logger,
		keychain: keychain,
	}

	if checker.keychain == nil {
		checker.keychain = authn.DefaultKeychain
	}

	return checker
}

// Check reports whether repo is readable. Builds against the daemon always
// pass; only published builds need registry access.
func (c *Checker) Check(repo string, publish bool) bool {
	if !publish {
		return true
	}

	img, err := remote.NewImage(repo, c.keychain)
	if err != nil {
		return false
	}

	if ok, err := img.CheckReadAccess(); !ok {
		c.logger.Debugf("CheckReadAccess failed for %s, error: %s", repo, err.Error())
		return false
	}

	c.logger.Debugf("CheckReadAccess succeeded for %s", repo)
	return true
}
