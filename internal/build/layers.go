package build

import (
	"archive/tar"
	"io"
	"os"

	"github.com/opencontainers/go-digest"
	"github.com/pkg/errors"

	"github.com/gantry-build/gantry/pkg/archive"
)

// WriteAppLayer tars appDir under the workspace path into destPath and
// returns the layer diffID. Entries rejected by fileFilter are left out; a
// nil filter keeps everything.
func WriteAppLayer(appDir, destPath string, fileFilter func(string) bool) (string, error) {
	dest, err := os.Create(destPath)
	if err != nil {
		return "", errors.Wrap(err, "creating app layer")
	}
	defer dest.Close()

	digester := digest.SHA256.Digester()
	tw := tar.NewWriter(io.MultiWriter(dest, digester.Hash()))

	if err := archive.WriteDirToTar(tw, appDir, Workspace, 0, 0, -1, fileFilter); err != nil {
		return "", errors.Wrap(err, "archiving app dir")
	}

	if err := tw.Close(); err != nil {
		return "", errors.Wrap(err, "finishing app layer")
	}
	if err := dest.Close(); err != nil {
		return "", errors.Wrap(err, "finishing app layer")
	}

	return digester.Digest().String(), nil
}
