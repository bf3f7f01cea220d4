package commands_test

import (
	"bytes"
	"testing"

	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/commands"
	"github.com/gantry-build/gantry/pkg/logging"
	h "github.com/gantry-build/gantry/testhelpers"
)

func TestVersionCommand(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "Commands", testVersionCommand, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testVersionCommand(t *testing.T, when spec.G, it spec.S) {
	var (
		command *cobra.Command
		outBuf  bytes.Buffer
	)

	it.Before(func() {
		command = commands.Version(logging.NewLogWithWriters(&outBuf, &outBuf), "1.2.3")
	})

	when("#Version", func() {
		it("returns the version", func() {
			command.SetArgs([]string{})
			h.AssertNil(t, command.Execute())
			h.AssertEq(t, outBuf.String(), "1.2.3\n")
		})
	})
}
