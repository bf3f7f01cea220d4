// Package blob fetches requirements manifests from local paths and URLs.
package blob

import (
	"context"
	"io"
	"os"
)

// Blob is a fetched file.
type Blob interface {
	// Open returns the raw content. Callers close the reader.
	Open() (io.ReadCloser, error)
	// Path is where the content lives on the local filesystem.
	Path() string
}

// Downloader resolves a path or URL to a local Blob.
type Downloader interface {
	Download(ctx context.Context, pathOrURI string) (Blob, error)
}

type blob struct {
	path string
}

// NewBlob returns a Blob backed by the file at path.
func NewBlob(path string) Blob {
	return &blob{path: path}
}

func (b *blob) Open() (io.ReadCloser, error) {
	return os.Open(b.path)
}

func (b *blob) Path() string {
	return b.path
}
