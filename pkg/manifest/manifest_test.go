package manifest_test

import (
	"testing"

	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/gantry-build/gantry/pkg/manifest"
	h "github.com/gantry-build/gantry/testhelpers"
)

func TestManifest(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "manifest", testManifest, spec.Report(report.Terminal{}))
}

func testManifest(t *testing.T, when spec.G, it spec.S) {
	when("#Parse", func() {
		it("parses pinned and unpinned requirements", func() {
			m, err := manifest.Parse("requirements.txt", []byte(
				"fastapi==0.110.0\nuvicorn[standard]>=0.29,<1\npydantic\n",
			))
			h.AssertNil(t, err)
			h.AssertEq(t, len(m.Requirements), 3)

			h.AssertEq(t, m.Requirements[0].Name, "fastapi")
			h.AssertEq(t, m.Requirements[0].Constraint, "==0.110.0")

			h.AssertEq(t, m.Requirements[1].Name, "uvicorn")
			h.AssertEq(t, m.Requirements[1].Constraint, ">=0.29,<1")
			h.AssertEq(t, m.Requirements[1].Raw, "uvicorn[standard]>=0.29,<1")

			h.AssertEq(t, m.Requirements[2].Name, "pydantic")
			h.AssertEq(t, m.Requirements[2].Constraint, "")
		})

		it("strips comments and blank lines", func() {
			m, err := manifest.Parse("requirements.txt", []byte(
				"# web framework\nfastapi==0.110.0  # pinned\n\n   \nuvicorn\n",
			))
			h.AssertNil(t, err)
			h.AssertEq(t, len(m.Requirements), 2)
			h.AssertEq(t, m.Requirements[0].Raw, "fastapi==0.110.0")
		})

		it("keeps a fragment marker that is not preceded by whitespace", func() {
			m, err := manifest.Parse("requirements.txt", []byte(
				"requests @ https://example.com/requests.zip#sha256=abc\n",
			))
			h.AssertNil(t, err)
			h.AssertEq(t, m.Requirements[0].Name, "requests")
			h.AssertContains(t, m.Requirements[0].Raw, "#sha256=abc")
		})

		it("joins backslash continuations", func() {
			m, err := manifest.Parse("requirements.txt", []byte(
				"fastapi==\\\n0.110.0\n",
			))
			h.AssertNil(t, err)
			h.AssertEq(t, len(m.Requirements), 1)
			h.AssertEq(t, m.Requirements[0].Name, "fastapi")
			h.AssertEq(t, m.Requirements[0].Constraint, "==0.110.0")
		})

		it("ignores environment markers when naming the package", func() {
			m, err := manifest.Parse("requirements.txt", []byte(
				`uvloop==0.19.0; sys_platform != "win32"`+"\n",
			))
			h.AssertNil(t, err)
			h.AssertEq(t, m.Requirements[0].Name, "uvloop")
			h.AssertEq(t, m.Requirements[0].Constraint, "==0.19.0")
		})

		it("passes install options through", func() {
			m, err := manifest.Parse("requirements.txt", []byte(
				"--index-url https://pypi.internal/simple\nfastapi\n",
			))
			h.AssertNil(t, err)
			h.AssertEq(t, m.Options, []string{"--index-url https://pypi.internal/simple"})
			h.AssertEq(t, len(m.Requirements), 1)
		})

		it("keeps URL requirements without a name", func() {
			m, err := manifest.Parse("requirements.txt", []byte(
				"https://example.com/wheels/extra-1.0-py3-none-any.whl\n",
			))
			h.AssertNil(t, err)
			h.AssertEq(t, m.Requirements[0].Name, "")
			h.AssertContains(t, m.Requirements[0].Raw, "extra-1.0")
		})

		it("rejects nested requirement files", func() {
			_, err := manifest.Parse("requirements.txt", []byte("-r base.txt\n"))
			h.AssertErrorContains(t, err, "requirements.txt: line 1")
			h.AssertErrorContains(t, err, "-r references files the installer cannot see")
		})

		it("rejects constraint and editable directives", func() {
			_, err := manifest.Parse("requirements.txt", []byte("fastapi\n--constraint constraints.txt\n"))
			h.AssertErrorContains(t, err, "line 2")

			_, err = manifest.Parse("requirements.txt", []byte("-e .\n"))
			h.AssertErrorContains(t, err, "-e references files the installer cannot see")
		})

		it("rejects local path requirements", func() {
			_, err := manifest.Parse("requirements.txt", []byte("./vendored/pkg\n"))
			h.AssertErrorContains(t, err, "local path requirement ./vendored/pkg is not supported")
		})

		it("rejects names that are not valid package names", func() {
			_, err := manifest.Parse("requirements.txt", []byte("not a package\n"))
			h.AssertErrorContains(t, err, "requirements.txt: line 1: invalid requirement")
		})

		it("accepts an empty manifest", func() {
			m, err := manifest.Parse("requirements.txt", []byte("# nothing yet\n"))
			h.AssertNil(t, err)
			h.AssertEq(t, len(m.Requirements), 0)
		})
	})

	when("#Digest", func() {
		it("is stable for identical content", func() {
			first, err := manifest.Parse("a.txt", []byte("fastapi==0.110.0\n"))
			h.AssertNil(t, err)
			second, err := manifest.Parse("b.txt", []byte("fastapi==0.110.0\n"))
			h.AssertNil(t, err)

			h.AssertEq(t, first.Digest().String(), second.Digest().String())
		})

		it("changes when content changes", func() {
			first, err := manifest.Parse("a.txt", []byte("fastapi==0.110.0\n"))
			h.AssertNil(t, err)
			second, err := manifest.Parse("a.txt", []byte("fastapi==0.110.1\n"))
			h.AssertNil(t, err)

			h.AssertNotEq(t, first.Digest().String(), second.Digest().String())
		})

		it("ignores comments and whitespace", func() {
			first, err := manifest.Parse("a.txt", []byte("fastapi==0.110.0\nuvicorn==0.29.0\n"))
			h.AssertNil(t, err)
			second, err := manifest.Parse("a.txt", []byte("# web stack\n\n  fastapi==0.110.0  # pinned\nuvi\\\ncorn==0.29.0\n"))
			h.AssertNil(t, err)

			h.AssertEq(t, first.Digest().String(), second.Digest().String())
		})
	})

	when("package name helpers", func() {
		it("canonicalizes names per the packaging rules", func() {
			h.AssertEq(t, manifest.CanonicalName("Django"), "django")
			h.AssertEq(t, manifest.CanonicalName("typing_extensions"), "typing-extensions")
			h.AssertEq(t, manifest.CanonicalName("zope.interface"), "zope-interface")
			h.AssertEq(t, manifest.CanonicalName("a--b__c..d"), "a-b-c-d")
		})

		it("finds packages regardless of spelling", func() {
			m, err := manifest.Parse("requirements.txt", []byte("Typing_Extensions==4.9\n"))
			h.AssertNil(t, err)
			h.AssertTrue(t, m.HasPackage("typing-extensions"))
			h.AssertFalse(t, m.HasPackage("uvicorn"))
		})

		it("reports duplicate declarations", func() {
			m, err := manifest.Parse("requirements.txt", []byte(
				"uvicorn==0.29.0\nfastapi\nUvicorn>=0.20\n",
			))
			h.AssertNil(t, err)
			h.AssertEq(t, m.Duplicates(), []string{"uvicorn"})
		})

		it("lists package names in declaration order", func() {
			m, err := manifest.Parse("requirements.txt", []byte("uvicorn\nfastapi\n"))
			h.AssertNil(t, err)
			h.AssertEq(t, m.PackageNames(), []string{"uvicorn", "fastapi"})
		})
	})
}
