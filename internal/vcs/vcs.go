// Package vcs reads version control info from the app dir, so images can
// record the source revision they were built from.
package vcs

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"
)

const shortHashLen = 7

// Info describes the source revision of an app dir.
type Info struct {
	// Commit is the abbreviated HEAD hash, empty when the dir is not
	// versioned or has no commits.
	Commit string
	// Dirty is set when the working tree has uncommitted changes.
	Dirty bool
}

// Describe returns revision info for appPath. Directories that are not
// inside a git repository yield a zero Info with no error.
func Describe(appPath string) (Info, error) {
	repo, err := git.PlainOpenWithOptions(appPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Info{}, nil
		}
		return Info{}, errors.Wrap(err, "opening git repository")
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Info{}, nil
		}
		return Info{}, errors.Wrap(err, "resolving HEAD")
	}

	info := Info{Commit: head.Hash().String()[:shortHashLen]}

	worktree, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return info, nil
		}
		return Info{}, errors.Wrap(err, "opening worktree")
	}

	status, err := worktree.Status()
	if err != nil {
		return Info{}, errors.Wrap(err, "reading worktree status")
	}
	info.Dirty = !status.IsClean()

	return info, nil
}
