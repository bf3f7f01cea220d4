package testhelpers

import (
	"archive/tar"
	"io"
	"testing"
)

// TarEntry is one entry of a tarball read into memory.
type TarEntry struct {
	Header  *tar.Header
	Content []byte
}

// ReadTarEntries reads every entry of a tar stream into memory, keyed by name.
func ReadTarEntries(t *testing.T, r io.Reader) map[string]TarEntry {
	t.Helper()

	entries := map[string]TarEntry{}
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		AssertNil(t, err)

		var content []byte
		if header.Typeflag == tar.TypeReg {
			content, err = io.ReadAll(tr)
			AssertNil(t, err)
		}

		entries[header.Name] = TarEntry{Header: header, Content: content}
	}

	return entries
}

// AssertTarHasEntry fails unless the named entry exists, returning it when it does.
func AssertTarHasEntry(t *testing.T, entries map[string]TarEntry, name string) TarEntry {
	t.Helper()

	entry, ok := entries[name]
	if !ok {
		var names []string
		for n := range entries {
			names = append(names, n)
		}
		t.Fatalf("expected tar to contain entry %q, has %q", name, names)
	}
	return entry
}
