package paths

import (
	"net/url"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

var schemeRegexp = regexp.MustCompile(`^.+://.*`)

// IsURI reports whether ref carries a URI scheme.
func IsURI(ref string) bool {
	return schemeRegexp.MatchString(ref)
}

// FilePathToURI converts a filesystem path, absolute or relative to
// relativeTo, into a file:// URI.
func FilePathToURI(path, relativeTo string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(relativeTo, path)
		var err error
		path, err = filepath.Abs(path)
		if err != nil {
			return "", err
		}
	}

	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, `\\`) {
			return "file://" + filepath.ToSlash(strings.TrimPrefix(path, `\\`)), nil
		}
		return "file:///" + filepath.ToSlash(path), nil
	}
	return "file://" + path, nil
}

// URIToFilePath converts a file:// URI into a filesystem path.
//
// examples:
//
//	unix file: file://laptop/some%20dir/file.tgz
//	windows drive: file:///C:/Documents%20and%20Settings/file.tgz
//	windows share: file://laptop/My%20Documents/file.tgz
func URIToFilePath(uri string) (string, error) {
	var (
		osPath = uri
		err    error
	)

	osPath = filepath.FromSlash(strings.TrimPrefix(uri, "file://"))

	if osPath, err = url.PathUnescape(osPath); err != nil {
		return "", err
	}

	if runtime.GOOS == "windows" {
		if strings.HasPrefix(osPath, `\`) {
			return strings.TrimPrefix(osPath, `\`), nil
		}
		return `\\` + osPath, nil
	}
	return osPath, nil
}
