package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/commands"
	"github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/pkg/logging"
	h "github.com/gantry-build/gantry/testhelpers"
)

func TestConfigDefaultBuilderCommand(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "Commands", testConfigDefaultBuilderCommand, spec.Random(), spec.Report(report.Terminal{}))
}

func testConfigDefaultBuilderCommand(t *testing.T, when spec.G, it spec.S) {
	var (
		command *cobra.Command
		outBuf  bytes.Buffer
		tmpDir  string
		cfgPath string
	)

	it.Before(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "gantry-config-test")
		h.AssertNil(t, err)
		cfgPath = filepath.Join(tmpDir, "config.toml")

		command = commands.ConfigDefaultBuilder(logging.NewLogWithWriters(&outBuf, &outBuf), config.Config{}, cfgPath)
	})

	it.After(func() {
		h.AssertNil(t, os.RemoveAll(tmpDir))
	})

	when("#ConfigDefaultBuilder", func() {
		when("no arguments", func() {
			it("reports that no default is set", func() {
				command.SetArgs([]string{})
				h.AssertNil(t, command.Execute())
				h.AssertContains(t, outBuf.String(), "No default builder image is set")
			})

			it("lists the configured default", func() {
				command = commands.ConfigDefaultBuilder(
					logging.NewLogWithWriters(&outBuf, &outBuf),
					config.Config{DefaultBuilder: "python:3.12"},
					cfgPath,
				)
				command.SetArgs([]string{})
				h.AssertNil(t, command.Execute())
				h.AssertContains(t, outBuf.String(), "The current default builder image is 'python:3.12'")
			})
		})

		when("setting", func() {
			it("writes the builder to the config file", func() {
				command.SetArgs([]string{"python:3.12"})
				h.AssertNil(t, command.Execute())
				h.AssertContains(t, outBuf.String(), "Successfully set 'python:3.12' as the default builder image")

				cfg, err := config.Read(cfgPath)
				h.AssertNil(t, err)
				h.AssertEq(t, cfg.DefaultBuilder, "python:3.12")
			})
		})

		when("unsetting", func() {
			it("errors when nothing is set", func() {
				command.SetArgs([]string{"--unset"})
				h.AssertError(t, command.Execute(), "no default builder image was set")
			})

			it("removes the configured default", func() {
				command = commands.ConfigDefaultBuilder(
					logging.NewLogWithWriters(&outBuf, &outBuf),
					config.Config{DefaultBuilder: "python:3.12"},
					cfgPath,
				)
				command.SetArgs([]string{"--unset"})
				h.AssertNil(t, command.Execute())
				h.AssertContains(t, outBuf.String(), "Successfully unset default builder image 'python:3.12'")

				cfg, err := config.Read(cfgPath)
				h.AssertNil(t, err)
				h.AssertEq(t, cfg.DefaultBuilder, "")
			})

			it("rejects an image together with --unset", func() {
				command.SetArgs([]string{"python:3.12", "--unset"})
				h.AssertError(t, command.Execute(), "builder image and --unset cannot be specified simultaneously")
			})
		})
	})
}
