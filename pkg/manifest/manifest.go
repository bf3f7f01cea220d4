// Package manifest reads pip requirements manifests.
//
// The manifest is copied verbatim into the installer container, so gantry
// only needs to understand enough of the format to validate it, name the
// declared packages, and reject directives that reference files the
// installer will not have.
package manifest

import (
	"regexp"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
)

// nameRegexp matches a package name per PEP 508.
var nameRegexp = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?$`)

var versionOperators = []string{"===", "==", "~=", "!=", ">=", "<=", ">", "<"}

// fileDirectives reference paths outside the manifest itself. Only the
// manifest file reaches the installer container, so these cannot resolve.
var fileDirectives = []string{"-r", "--requirement", "-c", "--constraint", "-e", "--editable"}

// Requirement is one package declaration from the manifest.
type Requirement struct {
	// Name is the declared package name, empty for URL requirements.
	Name string
	// Constraint is the version specifier, empty when unpinned.
	Constraint string
	// Raw is the full logical line as pip will see it.
	Raw string
}

// Canonical returns the normalized package name per PEP 503.
func (r Requirement) Canonical() string {
	return CanonicalName(r.Name)
}

// Manifest is a parsed requirements file.
type Manifest struct {
	// Path is the file path or URL the manifest was read from.
	Path string
	// Raw is the manifest exactly as it will be handed to pip.
	Raw []byte

	Requirements []Requirement
	// Options are pip install options declared in the manifest, such as
	// --index-url. They pass through untouched.
	Options []string
}

// Parse validates raw as a requirements manifest. displayPath is used in
// error messages only.
func Parse(displayPath string, raw []byte) (Manifest, error) {
	m := Manifest{
		Path: displayPath,
		Raw:  raw,
	}

	for _, line := range logicalLines(string(raw)) {
		if isDirective(line.text, fileDirectives) {
			return Manifest{}, errors.Errorf(
				"%s: line %d: %s references files the installer cannot see",
				displayPath, line.number, strings.Fields(line.text)[0],
			)
		}

		if strings.HasPrefix(line.text, "-") {
			m.Options = append(m.Options, line.text)
			continue
		}

		req, err := parseRequirement(line.text)
		if err != nil {
			return Manifest{}, errors.Wrapf(err, "%s: line %d", displayPath, line.number)
		}
		m.Requirements = append(m.Requirements, req)
	}

	return m, nil
}

// Digest identifies the manifest content. It covers the logical lines
// rather than the raw bytes, so edits to comments or whitespace do not
// change it. Builds with the same digest may share a dependency layer.
func (m Manifest) Digest() digest.Digest {
	var b strings.Builder
	for _, line := range logicalLines(string(m.Raw)) {
		b.WriteString(line.text)
		b.WriteString("\n")
	}
	return digest.FromString(b.String())
}

// PackageNames returns the canonical names of all named requirements, in
// declaration order.
func (m Manifest) PackageNames() []string {
	var names []string
	for _, req := range m.Requirements {
		if req.Name != "" {
			names = append(names, req.Canonical())
		}
	}
	return names
}

// HasPackage reports whether the manifest declares the named package.
func (m Manifest) HasPackage(name string) bool {
	want := CanonicalName(name)
	for _, req := range m.Requirements {
		if req.Canonical() == want {
			return true
		}
	}
	return false
}

// Duplicates returns canonical names declared more than once, sorted.
func (m Manifest) Duplicates() []string {
	seen := map[string]int{}
	for _, req := range m.Requirements {
		if req.Name != "" {
			seen[req.Canonical()]++
		}
	}

	var dupes []string
	for name, count := range seen {
		if count > 1 {
			dupes = append(dupes, name)
		}
	}
	sort.Strings(dupes)
	return dupes
}

// CanonicalName normalizes a package name per PEP 503: lowercase, with runs
// of '-', '_' and '.' collapsed to a single '-'.
func CanonicalName(name string) string {
	var b strings.Builder
	separator := false
	for _, r := range strings.ToLower(name) {
		if r == '-' || r == '_' || r == '.' {
			separator = true
			continue
		}
		if separator && b.Len() > 0 {
			b.WriteByte('-')
		}
		separator = false
		b.WriteRune(r)
	}
	return b.String()
}

type line struct {
	text   string
	number int
}

// logicalLines joins backslash continuations, strips comments and drops
// blank lines, the way pip preprocesses a requirements file.
func logicalLines(content string) []line {
	var lines []line

	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	for i := 0; i < len(raw); i++ {
		number := i + 1
		text := raw[i]
		for strings.HasSuffix(strings.TrimRight(text, " \t"), `\`) && i+1 < len(raw) {
			text = strings.TrimSuffix(strings.TrimRight(text, " \t"), `\`) + raw[i+1]
			i++
		}

		text = stripComment(text)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		lines = append(lines, line{text: text, number: number})
	}

	return lines
}

// stripComment removes a '#' comment. pip only treats '#' as a comment
// marker at the start of a line or after whitespace.
func stripComment(text string) string {
	if strings.HasPrefix(strings.TrimLeft(text, " \t"), "#") {
		return ""
	}
	for i := 1; i < len(text); i++ {
		if text[i] == '#' && (text[i-1] == ' ' || text[i-1] == '\t') {
			return text[:i]
		}
	}
	return text
}

func isDirective(text string, directives []string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	flag, _, _ := strings.Cut(fields[0], "=")
	for _, d := range directives {
		if flag == d {
			return true
		}
	}
	return false
}

func parseRequirement(text string) (Requirement, error) {
	req := Requirement{Raw: text}

	spec := text
	if i := strings.Index(spec, ";"); i >= 0 {
		spec = strings.TrimSpace(spec[:i])
	}

	if strings.Contains(spec, "://") {
		if name, _, found := strings.Cut(spec, "@"); found {
			name = strings.TrimSpace(name)
			if nameRegexp.MatchString(stripExtras(name)) {
				req.Name = stripExtras(name)
			}
		}
		return req, nil
	}

	if strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") {
		return Requirement{}, errors.Errorf("local path requirement %s is not supported", spec)
	}

	name := spec
	for _, op := range versionOperators {
		if i := strings.Index(spec, op); i >= 0 && i < len(name) {
			candidate := spec[:i]
			if len(candidate) < len(name) {
				name = candidate
				req.Constraint = strings.TrimSpace(spec[i:])
			}
		}
	}

	name = stripExtras(strings.TrimSpace(name))
	if !nameRegexp.MatchString(name) {
		return Requirement{}, errors.Errorf("invalid requirement %s", text)
	}

	req.Name = name
	return req, nil
}

func stripExtras(name string) string {
	base, _, _ := strings.Cut(name, "[")
	return strings.TrimSpace(base)
}
