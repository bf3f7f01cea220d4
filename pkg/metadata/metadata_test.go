package metadata_test

import (
	"testing"

	"github.com/buildpacks/imgutil/fakes"
	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/gantry-build/gantry/pkg/metadata"
	h "github.com/gantry-build/gantry/testhelpers"
)

func TestMetadata(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "metadata", testMetadata, spec.Report(report.Terminal{}))
}

func testMetadata(t *testing.T, when spec.G, it spec.S) {
	var image *fakes.Image

	it.Before(func() {
		image = fakes.NewImage("some/app", "", nil)
	})

	it.After(func() {
		h.AssertNil(t, image.Cleanup())
	})

	when("round-tripping through the label", func() {
		it("preserves every field", func() {
			written := metadata.Metadata{
				App:     metadata.App{Module: "api.main:app", Port: 8000, Commit: "abc1234", Dirty: true},
				Python:  metadata.Python{Version: "3.11.9"},
				Deps:    metadata.Deps{ManifestDigest: "sha256:beef", LayerDiffID: "sha256:feed", Packages: []string{"fastapi", "uvicorn"}},
				Builder: metadata.Builder{Image: "python:3.11"},
				Base:    metadata.Base{Image: "python:3.11-slim", Reference: "0123456789ab", TopLayer: "sha256:aaaa"},
				Gantry:  metadata.Gantry{Version: "0.1.0"},
			}
			h.AssertNil(t, metadata.ToLabel(image, written))

			var read metadata.Metadata
			ok, err := metadata.FromLabel(image, &read)
			h.AssertNil(t, err)
			h.AssertTrue(t, ok)
			h.AssertEq(t, read, written)
		})
	})

	when("the image has no metadata", func() {
		it("reports not ok", func() {
			var read metadata.Metadata
			ok, err := metadata.FromLabel(image, &read)
			h.AssertNil(t, err)
			h.AssertFalse(t, ok)
		})
	})

	when("the label is not valid JSON", func() {
		it("errors", func() {
			h.AssertNil(t, image.SetLabel(metadata.Label, "{not json"))

			var read metadata.Metadata
			_, err := metadata.FromLabel(image, &read)
			h.AssertErrorContains(t, err, "unmarshalling label 'build.gantry.metadata'")
		})
	})
}
