// Package update checks GitHub releases for a newer gantry.
package update

import (
	"context"
	"os"

	"github.com/Masterminds/semver"
	"github.com/google/go-github/v30/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const (
	defaultOwner = "gantry-build"
	defaultRepo  = "gantry"

	// TokenEnv optionally authenticates release lookups, raising the API
	// rate limit.
	TokenEnv = "GANTRY_GITHUB_TOKEN"
)

// Checker resolves the latest released version.
type Checker struct {
	github *github.Client
	owner  string
	repo   string
}

// NewChecker builds a Checker against the public GitHub API, authenticated
// when TokenEnv is set.
func NewChecker(ctx context.Context) *Checker {
	var httpClient = oauth2.NewClient(ctx, nil)
	if token := os.Getenv(TokenEnv); token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}

	return &Checker{
		github: github.NewClient(httpClient),
		owner:  defaultOwner,
		repo:   defaultRepo,
	}
}

// NewCheckerWithClient is used by tests to point the checker at a fake API.
func NewCheckerWithClient(gh *github.Client, owner, repo string) *Checker {
	return &Checker{github: gh, owner: owner, repo: repo}
}

// LatestVersion returns the tag of the newest release, without a leading v.
func (c *Checker) LatestVersion(ctx context.Context) (string, error) {
	release, _, err := c.github.Repositories.GetLatestRelease(ctx, c.owner, c.repo)
	if err != nil {
		return "", errors.Wrap(err, "fetching latest release")
	}

	tag := release.GetTagName()
	if tag == "" {
		return "", errors.New("latest release has no tag")
	}

	version, err := semver.NewVersion(tag)
	if err != nil {
		return "", errors.Wrapf(err, "parsing release tag %s", tag)
	}

	return version.String(), nil
}

// NewerVersion reports the latest released version when it is newer than
// current. Development builds (0.0.0) never report an update.
func (c *Checker) NewerVersion(ctx context.Context, current string) (version string, available bool, err error) {
	currentVersion, err := semver.NewVersion(current)
	if err != nil {
		return "", false, errors.Wrapf(err, "parsing current version %s", current)
	}
	if currentVersion.String() == "0.0.0" {
		return "", false, nil
	}

	latest, err := c.LatestVersion(ctx)
	if err != nil {
		return "", false, err
	}

	latestVersion, err := semver.NewVersion(latest)
	if err != nil {
		return "", false, errors.Wrapf(err, "parsing latest version %s", latest)
	}

	if latestVersion.GreaterThan(currentVersion) {
		return latestVersion.String(), true, nil
	}
	return "", false, nil
}
