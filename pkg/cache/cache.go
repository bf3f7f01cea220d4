// Package cache stores dependency layers between builds, keyed on
// everything that can change the installed tree.
package cache

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// formatVersion is part of every key, so layout changes invalidate old
// entries instead of misreading them.
const formatVersion = "1"

// Key identifies a dependency layer. Two builds share a layer only when
// every field matches.
type Key struct {
	// ManifestDigest is the digest of the requirements manifest.
	ManifestDigest string
	// BuilderImage is the identifier of the builder the install ran in.
	BuilderImage string
	// Platform is the requested os/arch, empty for the daemon default.
	Platform string
	// PythonVersion is the interpreter the layer was built against.
	PythonVersion string
}

// Digest returns the hex key the entry is stored under.
func (k Key) Digest() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf(
		"%s\n%s\n%s\n%s\n%s\n",
		formatVersion, k.ManifestDigest, k.BuilderImage, k.Platform, k.PythonVersion,
	)))
	return fmt.Sprintf("%x", sum)
}

// Entry is a stored dependency layer.
type Entry struct {
	// LayerTarPath is the layer tar on disk.
	LayerTarPath string
	// DiffID is the digest of the uncompressed layer.
	DiffID string
	// Bytes is the content size of the installed tree.
	Bytes int64
	// Packages are the canonical package names the manifest declared.
	Packages []string
}

type sidecar struct {
	DiffID         string    `toml:"diff-id"`
	Bytes          int64     `toml:"bytes"`
	Packages       []string  `toml:"packages"`
	ManifestDigest string    `toml:"manifest-digest"`
	PythonVersion  string    `toml:"python-version"`
	Created        time.Time `toml:"created"`
}

// DepsCache is a directory of layer tars with toml sidecars.
type DepsCache struct {
	dir string
}

func NewDepsCache(dir string) *DepsCache {
	return &DepsCache{dir: dir}
}

// StagingPath returns where a new layer for key should be written before
// Commit. It lives in the cache dir so Commit is a rename.
func (c *DepsCache) StagingPath(key Key) (string, error) {
	if err := os.MkdirAll(c.dir, 0750); err != nil {
		return "", errors.Wrap(err, "creating cache dir")
	}
	return filepath.Join(c.dir, key.Digest()+".staging"), nil
}

// Lookup returns the stored entry for key when both the layer tar and its
// sidecar are present.
func (c *DepsCache) Lookup(key Key) (Entry, bool, error) {
	tarPath := c.tarPath(key)
	if _, err := os.Stat(tarPath); err != nil {
		if os.IsNotExist(err) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}

	var meta sidecar
	if _, err := toml.DecodeFile(c.sidecarPath(key), &meta); err != nil {
		if os.IsNotExist(err) {
			return Entry{}, false, nil
		}
		return Entry{}, false, errors.Wrapf(err, "reading cache metadata for %s", key.Digest())
	}

	return Entry{
		LayerTarPath: tarPath,
		DiffID:       meta.DiffID,
		Bytes:        meta.Bytes,
		Packages:     meta.Packages,
	}, true, nil
}

// Commit moves the staged layer into place and records its metadata. The
// rename keeps a concurrent Lookup from ever seeing a partial tar.
func (c *DepsCache) Commit(key Key, stagingPath string, entry Entry) (Entry, error) {
	tarPath := c.tarPath(key)
	if err := os.Rename(stagingPath, tarPath); err != nil {
		return Entry{}, errors.Wrap(err, "committing dependency layer")
	}

	f, err := os.Create(c.sidecarPath(key))
	if err != nil {
		return Entry{}, errors.Wrap(err, "writing cache metadata")
	}
	defer f.Close()

	err = toml.NewEncoder(f).Encode(sidecar{
		DiffID:         entry.DiffID,
		Bytes:          entry.Bytes,
		Packages:       entry.Packages,
		ManifestDigest: key.ManifestDigest,
		PythonVersion:  key.PythonVersion,
		Created:        time.Now().UTC(),
	})
	if err != nil {
		return Entry{}, errors.Wrap(err, "writing cache metadata")
	}

	entry.LayerTarPath = tarPath
	return entry, nil
}

// Clear removes every stored layer.
func (c *DepsCache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return errors.Wrap(err, "clearing dependency cache")
	}
	return nil
}

func (c *DepsCache) tarPath(key Key) string {
	return filepath.Join(c.dir, key.Digest()+".tar")
}

func (c *DepsCache) sidecarPath(key Key) string {
	return filepath.Join(c.dir, key.Digest()+".toml")
}
