// Package archive builds the normalized tarballs that become image layers.
package archive

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// NormalizedDateTime is the timestamp carried by every layer entry, so that
// identical content produces identical layers across builds.
var NormalizedDateTime time.Time

func init() {
	NormalizedDateTime = time.Date(1980, time.January, 1, 0, 0, 1, 0, time.UTC)
}

// CreateSingleFileTarReader returns an in-memory tarball holding txt at path.
func CreateSingleFileTarReader(path, txt string) (io.Reader, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{
		Name: path,
		Size: int64(len(txt)),
		Mode: 0644,
	}); err != nil {
		return nil, err
	}

	if _, err := tw.Write([]byte(txt)); err != nil {
		return nil, err
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}

	return bytes.NewReader(buf.Bytes()), nil
}

// WriteDirToTar walks srcDir and writes its entries under basePath. Entries
// for which fileFilter returns false are skipped; a nil filter keeps
// everything. Ownership, mode (when not -1) and timestamps are normalized.
func WriteDirToTar(tw *tar.Writer, srcDir, basePath string, uid, gid int, mode int64, fileFilter func(string) bool) error {
	return filepath.Walk(srcDir, func(file string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(srcDir, file)
		if err != nil {
			return err
		} else if relPath == "." {
			return nil
		}

		if fileFilter != nil && !fileFilter(relPath) {
			if fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if fi.Mode()&os.ModeSocket != 0 {
			return nil
		}

		var header *tar.Header
		if fi.Mode()&os.ModeSymlink != 0 {
			target, err := os.Readlink(file)
			if err != nil {
				return err
			}

			header, err = tar.FileInfoHeader(fi, target)
			if err != nil {
				return err
			}
		} else {
			header, err = tar.FileInfoHeader(fi, fi.Name())
			if err != nil {
				return err
			}
		}

		header.Name = filepath.ToSlash(filepath.Join(basePath, relPath))
		finalizeHeader(header, uid, gid, mode)

		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		if fi.Mode().IsRegular() {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			if _, err := io.Copy(tw, f); err != nil {
				return err
			}
		}

		return nil
	})
}

// RewriteTar copies entries from r to tw, renaming names under fromPrefix to
// live under toPrefix and normalizing ownership and timestamps. It returns
// the total content bytes copied.
func RewriteTar(r io.Reader, tw *tar.Writer, fromPrefix, toPrefix string) (int64, error) {
	var written int64

	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, errors.Wrap(err, "reading tar entry")
		}

		name := path.Clean(strings.TrimPrefix(filepath.ToSlash(header.Name), "./"))
		if name == fromPrefix {
			name = toPrefix
		} else if strings.HasPrefix(name, fromPrefix+"/") {
			name = path.Join(toPrefix, strings.TrimPrefix(name, fromPrefix+"/"))
		}
		header.Name = name
		finalizeHeader(header, 0, 0, -1)

		if err := tw.WriteHeader(header); err != nil {
			return written, errors.Wrapf(err, "writing header for %s", header.Name)
		}

		if header.Typeflag == tar.TypeReg {
			n, err := io.Copy(tw, tr)
			if err != nil {
				return written, errors.Wrapf(err, "copying %s", header.Name)
			}
			written += n
		}
	}
}

func finalizeHeader(header *tar.Header, uid, gid int, mode int64) {
	if mode != -1 {
		header.Mode = mode
	}
	header.ModTime = NormalizedDateTime
	header.AccessTime = time.Time{}
	header.ChangeTime = time.Time{}
	header.Uid = uid
	header.Gid = gid
	header.Uname = ""
	header.Gname = ""
}
