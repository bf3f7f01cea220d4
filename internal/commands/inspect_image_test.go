package commands_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/commands"
	"github.com/gantry-build/gantry/internal/commands/testmocks"
	"github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/internal/inspectimage"
	"github.com/gantry-build/gantry/internal/inspectimage/writer"
	"github.com/gantry-build/gantry/pkg/client"
	"github.com/gantry-build/gantry/pkg/logging"
	"github.com/gantry-build/gantry/pkg/metadata"
	h "github.com/gantry-build/gantry/testhelpers"
)

func TestInspectImageCommand(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "Commands", testInspectImageCommand, spec.Random(), spec.Report(report.Terminal{}))
}

func testInspectImageCommand(t *testing.T, when spec.G, it spec.S) {
	var (
		command        *cobra.Command
		outBuf         bytes.Buffer
		mockController *gomock.Controller
		mockClient     *testmocks.MockGantryClient
		info           *client.ImageInfo
	)

	it.Before(func() {
		logger := logging.NewLogWithWriters(&outBuf, &outBuf)
		mockController = gomock.NewController(t)
		mockClient = testmocks.NewMockGantryClient(mockController)
		info = &client.ImageInfo{
			Module:        "api.api_main:app",
			Port:          8000,
			PythonVersion: "3.11.9",
			Builder:       "python:3.11",
			Base: metadata.Base{
				Image:     "python:3.11-slim",
				Reference: "sha256:abcd",
				TopLayer:  "sha256:ef01",
			},
			ManifestDigest: "sha256:2222",
			Packages:       []string{"fastapi", "uvicorn"},
			GantryVersion:  "1.2.3",
		}

		command = commands.InspectImage(logger, writer.NewFactory(), config.Config{}, mockClient)
	})

	it.After(func() {
		mockController.Finish()
	})

	when("#InspectImage", func() {
		when("the image exists locally", func() {
			it.Before(func() {
				mockClient.EXPECT().InspectImage("some/image", false).Return(nil, nil)
				mockClient.EXPECT().InspectImage("some/image", true).Return(info, nil)
			})

			it("displays the recorded metadata", func() {
				command.SetArgs([]string{"some/image"})
				h.AssertNil(t, command.Execute())

				out := outBuf.String()
				h.AssertContains(t, out, "Inspecting image: 'some/image'")
				h.AssertContains(t, out, "api.api_main:app")
				h.AssertContains(t, out, "python:3.11-slim")
				h.AssertContains(t, out, "fastapi")
			})

			it("renders json output", func() {
				command.SetArgs([]string{"some/image", "-o", "json"})
				h.AssertNil(t, command.Execute())

				var parsed inspectimage.InspectOutput
				h.AssertNil(t, json.Unmarshal(outBuf.Bytes(), &parsed))
				h.AssertEq(t, parsed.ImageName, "some/image")
				h.AssertNil(t, parsed.Remote)
				h.AssertEq(t, parsed.Local.Module, "api.api_main:app")
				h.AssertEq(t, parsed.Local.Deps.Packages, []string{"fastapi", "uvicorn"})
			})
		})

		when("the image is missing everywhere", func() {
			it("errors", func() {
				mockClient.EXPECT().InspectImage("missing/image", false).Return(nil, nil)
				mockClient.EXPECT().InspectImage("missing/image", true).Return(nil, nil)

				command.SetArgs([]string{"missing/image"})
				err := command.Execute()
				h.AssertError(t, err, "unable to find image 'missing/image' locally or remotely")
			})
		})

		when("a fetch fails", func() {
			it("propagates the failure", func() {
				mockClient.EXPECT().InspectImage("some/image", false).Return(nil, errors.New("registry unreachable"))
				mockClient.EXPECT().InspectImage("some/image", true).Return(info, nil)

				command.SetArgs([]string{"some/image", "-o", "json"})
				err := command.Execute()
				h.AssertErrorContains(t, err, "registry unreachable")
			})
		})

		when("the output format is unknown", func() {
			it("errors", func() {
				mockClient.EXPECT().InspectImage("some/image", false).Return(nil, nil)
				mockClient.EXPECT().InspectImage("some/image", true).Return(info, nil)

				command.SetArgs([]string{"some/image", "-o", "csv"})
				h.AssertError(t, command.Execute(), "output format 'csv' is not supported")
			})
		})
	})
}
