package writer_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/heroku/color"
	gotoml "github.com/pelletier/go-toml"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"gopkg.in/yaml.v3"

	"github.com/gantry-build/gantry/internal/inspectimage"
	"github.com/gantry-build/gantry/internal/inspectimage/writer"
	"github.com/gantry-build/gantry/pkg/client"
	"github.com/gantry-build/gantry/pkg/logging"
	"github.com/gantry-build/gantry/pkg/metadata"
	h "github.com/gantry-build/gantry/testhelpers"
)

func TestStructuredWriters(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "StructuredWriters", testStructuredWriters, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testStructuredWriters(t *testing.T, when spec.G, it spec.S) {
	var (
		outBuf      bytes.Buffer
		logger      logging.Logger
		generalInfo inspectimage.GeneralInfo
		local       *client.ImageInfo
		remote      *client.ImageInfo
	)

	it.Before(func() {
		logger = logging.NewLogWithWriters(&outBuf, &outBuf)
		generalInfo = inspectimage.GeneralInfo{Name: "some/image"}
		local = &client.ImageInfo{
			Module:        "main:app",
			Port:          8000,
			PythonVersion: "3.11.9",
			Builder:       "python:3.11",
			Base: metadata.Base{
				Image:     "python:3.11-slim",
				Reference: "sha256:aaaa",
				TopLayer:  "sha256:bbbb",
			},
			ManifestDigest: "sha256:cccc",
			Packages:       []string{"fastapi", "uvicorn"},
			GantryVersion:  "1.0.0",
		}
		remote = &client.ImageInfo{
			Module:        "main:app",
			Port:          8000,
			PythonVersion: "3.11.8",
			Builder:       "python:3.11",
			GantryVersion: "0.9.0",
		}
	})

	when("JSON", func() {
		it("renders both views", func() {
			h.AssertNil(t, writer.NewJSON().Print(logger, generalInfo, local, remote, nil, nil))

			var parsed inspectimage.InspectOutput
			h.AssertNil(t, json.Unmarshal(outBuf.Bytes(), &parsed))
			h.AssertEq(t, parsed.ImageName, "some/image")
			h.AssertEq(t, parsed.Local.PythonVersion, "3.11.9")
			h.AssertEq(t, parsed.Remote.PythonVersion, "3.11.8")
		})
	})

	when("YAML", func() {
		it("renders both views", func() {
			h.AssertNil(t, writer.NewYAML().Print(logger, generalInfo, local, remote, nil, nil))

			var parsed inspectimage.InspectOutput
			h.AssertNil(t, yaml.Unmarshal(outBuf.Bytes(), &parsed))
			h.AssertEq(t, parsed.ImageName, "some/image")
			h.AssertEq(t, parsed.Local.Deps.Packages, []string{"fastapi", "uvicorn"})
		})
	})

	when("TOML", func() {
		it("renders both views", func() {
			h.AssertNil(t, writer.NewTOML().Print(logger, generalInfo, local, remote, nil, nil))

			var parsed inspectimage.InspectOutput
			h.AssertNil(t, gotoml.Unmarshal(outBuf.Bytes(), &parsed))
			h.AssertEq(t, parsed.ImageName, "some/image")
			h.AssertEq(t, parsed.Local.Base.Image, "python:3.11-slim")
		})
	})

	when("no image is found", func() {
		it("errors", func() {
			err := writer.NewJSON().Print(logger, generalInfo, nil, nil, nil, nil)
			h.AssertError(t, err, "unable to find image 'some/image' locally or remotely")
		})
	})

	when("a lookup failed", func() {
		it("propagates the local error", func() {
			err := writer.NewJSON().Print(logger, generalInfo, nil, remote, errors.New("daemon unreachable"), nil)
			h.AssertErrorContains(t, err, "daemon unreachable")
		})

		it("propagates the remote error", func() {
			err := writer.NewJSON().Print(logger, generalInfo, local, nil, nil, errors.New("registry unreachable"))
			h.AssertErrorContains(t, err, "registry unreachable")
		})
	})
}
