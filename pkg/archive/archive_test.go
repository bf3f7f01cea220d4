package archive_test

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/gantry-build/gantry/pkg/archive"
	h "github.com/gantry-build/gantry/testhelpers"
)

func TestArchive(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "archive", testArchive, spec.Report(report.Terminal{}))
}

func testArchive(t *testing.T, when spec.G, it spec.S) {
	var tmpDir string

	it.Before(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "gantry.archive.test")
		h.AssertNil(t, err)
	})

	it.After(func() {
		h.AssertNil(t, os.RemoveAll(tmpDir))
	})

	when("#CreateSingleFileTarReader", func() {
		it("returns a tar with the file as its only entry", func() {
			rc, err := archive.CreateSingleFileTarReader("/workspace/requirements.txt", "fastapi==0.110.0\n")
			h.AssertNil(t, err)

			entries := h.ReadTarEntries(t, rc)
			h.AssertEq(t, len(entries), 1)

			entry := entries["/workspace/requirements.txt"]
			h.AssertEq(t, string(entry.Content), "fastapi==0.110.0\n")
			h.AssertEq(t, entry.Header.Mode, int64(0644))
		})
	})

	when("#WriteDirToTar", func() {
		var src string

		it.Before(func() {
			src = filepath.Join(tmpDir, "src")
			h.AssertNil(t, os.MkdirAll(filepath.Join(src, "api"), 0755))
			h.AssertNil(t, os.WriteFile(filepath.Join(src, "main.py"), []byte("app = 1\n"), 0644))
			h.AssertNil(t, os.WriteFile(filepath.Join(src, "api", "routes.py"), []byte("router = 2\n"), 0600))
		})

		writeTar := func(uid, gid int, mode int64, filter func(string) bool) map[string]h.TarEntry {
			var buf bytes.Buffer
			tw := tar.NewWriter(&buf)
			h.AssertNil(t, archive.WriteDirToTar(tw, src, "/workspace", uid, gid, mode, filter))
			h.AssertNil(t, tw.Close())
			return h.ReadTarEntries(t, &buf)
		}

		it("nests entries under the base path", func() {
			entries := writeTar(0, 0, -1, nil)

			h.AssertEq(t, string(entries["/workspace/main.py"].Content), "app = 1\n")
			h.AssertEq(t, string(entries["/workspace/api/routes.py"].Content), "router = 2\n")
			h.AssertEq(t, entries["/workspace/api"].Header.Typeflag, byte(tar.TypeDir))
		})

		it("normalizes ownership and times", func() {
			entries := writeTar(1234, 4321, -1, nil)

			entry := entries["/workspace/main.py"]
			h.AssertEq(t, entry.Header.Uid, 1234)
			h.AssertEq(t, entry.Header.Gid, 4321)
			h.AssertEq(t, entry.Header.Uname, "")
			h.AssertEq(t, entry.Header.Gname, "")
			h.AssertTrue(t, entry.Header.ModTime.Equal(archive.NormalizedDateTime))
		})

		it("overrides the mode when one is given", func() {
			entries := writeTar(0, 0, 0777, nil)
			h.AssertEq(t, entries["/workspace/api/routes.py"].Header.Mode, int64(0777))
		})

		it("keeps the source mode when mode is -1", func() {
			if runtime.GOOS == "windows" {
				t.Skip("file modes are not preserved on windows")
			}

			entries := writeTar(0, 0, -1, nil)
			h.AssertEq(t, entries["/workspace/api/routes.py"].Header.Mode, int64(0600))
		})

		it("skips entries rejected by the filter", func() {
			entries := writeTar(0, 0, -1, func(relPath string) bool {
				return relPath != "api"
			})

			_, ok := entries["/workspace/main.py"]
			h.AssertTrue(t, ok)
			_, ok = entries["/workspace/api"]
			h.AssertFalse(t, ok)
			_, ok = entries["/workspace/api/routes.py"]
			h.AssertFalse(t, ok)
		})

		it("preserves symlinks", func() {
			if runtime.GOOS == "windows" {
				t.Skip("creating symlinks requires privileges on windows")
			}

			h.AssertNil(t, os.Symlink("main.py", filepath.Join(src, "app.py")))

			entries := writeTar(0, 0, -1, nil)
			link := entries["/workspace/app.py"]
			h.AssertEq(t, link.Header.Typeflag, byte(tar.TypeSymlink))
			h.AssertEq(t, link.Header.Linkname, "main.py")
		})
	})

	when("#RewriteTar", func() {
		buildSource := func() io.Reader {
			var buf bytes.Buffer
			tw := tar.NewWriter(&buf)

			h.AssertNil(t, tw.WriteHeader(&tar.Header{
				Name:     "deps/",
				Typeflag: tar.TypeDir,
				Mode:     0755,
				Uid:      1000,
				Gid:      1000,
				Uname:    "somebody",
				Gname:    "somegroup",
				ModTime:  time.Now(),
			}))

			content := []byte("# fastapi\n")
			h.AssertNil(t, tw.WriteHeader(&tar.Header{
				Name:    "deps/lib/python3.11/site-packages/fastapi/__init__.py",
				Size:    int64(len(content)),
				Mode:    0644,
				Uid:     1000,
				Gid:     1000,
				Uname:   "somebody",
				ModTime: time.Now(),
			}))
			_, err := tw.Write(content)
			h.AssertNil(t, err)

			h.AssertNil(t, tw.WriteHeader(&tar.Header{
				Name:     "deps/bin/uvicorn",
				Typeflag: tar.TypeSymlink,
				Linkname: "../lib/python3.11/site-packages/uvicorn",
				Mode:     0777,
				Uid:      1000,
				Gid:      1000,
				ModTime:  time.Now(),
			}))

			h.AssertNil(t, tw.Close())
			return &buf
		}

		rewrite := func() ([]byte, int64) {
			var out bytes.Buffer
			tw := tar.NewWriter(&out)
			n, err := archive.RewriteTar(buildSource(), tw, "deps", "/gantry/deps")
			h.AssertNil(t, err)
			h.AssertNil(t, tw.Close())
			return out.Bytes(), n
		}

		it("renames entries under the target prefix", func() {
			raw, _ := rewrite()
			entries := h.ReadTarEntries(t, bytes.NewReader(raw))

			_, ok := entries["/gantry/deps"]
			h.AssertTrue(t, ok)
			entry, ok := entries["/gantry/deps/lib/python3.11/site-packages/fastapi/__init__.py"]
			h.AssertTrue(t, ok)
			h.AssertEq(t, string(entry.Content), "# fastapi\n")
		})

		it("normalizes ownership and times and keeps modes", func() {
			raw, _ := rewrite()
			entries := h.ReadTarEntries(t, bytes.NewReader(raw))

			entry := entries["/gantry/deps/lib/python3.11/site-packages/fastapi/__init__.py"]
			h.AssertEq(t, entry.Header.Uid, 0)
			h.AssertEq(t, entry.Header.Gid, 0)
			h.AssertEq(t, entry.Header.Uname, "")
			h.AssertTrue(t, entry.Header.ModTime.Equal(archive.NormalizedDateTime))
			h.AssertEq(t, entry.Header.Mode, int64(0644))

			link := entries["/gantry/deps/bin/uvicorn"]
			h.AssertEq(t, link.Header.Typeflag, byte(tar.TypeSymlink))
			h.AssertEq(t, link.Header.Linkname, "../lib/python3.11/site-packages/uvicorn")
		})

		it("returns the content bytes copied", func() {
			_, n := rewrite()
			h.AssertEq(t, n, int64(len("# fastapi\n")))
		})

		it("produces identical bytes for identical content", func() {
			first, _ := rewrite()
			second, _ := rewrite()
			h.AssertEq(t, first, second)
		})
	})
}
