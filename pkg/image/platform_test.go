package image_test

import (
	"testing"

	"github.com/buildpacks/imgutil"
	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/gantry-build/gantry/pkg/image"
	h "github.com/gantry-build/gantry/testhelpers"
)

func TestPlatform(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "Platform", testPlatform, spec.Report(report.Terminal{}))
}

func testPlatform(t *testing.T, when spec.G, it spec.S) {
	when("#ParsePlatform", func() {
		it("parses os", func() {
			p, err := image.ParsePlatform("linux")
			h.AssertNil(t, err)
			h.AssertEq(t, p, imgutil.Platform{OS: "linux"})
		})

		it("parses os/arch", func() {
			p, err := image.ParsePlatform("linux/amd64")
			h.AssertNil(t, err)
			h.AssertEq(t, p, imgutil.Platform{OS: "linux", Architecture: "amd64"})
		})

		it("rejects empty segments", func() {
			_, err := image.ParsePlatform("linux/")
			h.AssertErrorContains(t, err, "unable to parse platform 'linux/'")
		})

		it("rejects a variant", func() {
			_, err := image.ParsePlatform("linux/arm/v7")
			h.AssertErrorContains(t, err, "unable to parse platform 'linux/arm/v7', expected format os[/arch]")
		})
	})
}
