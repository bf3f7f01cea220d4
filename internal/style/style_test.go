package style_test

import (
	"testing"

	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/gantry-build/gantry/internal/style"
	h "github.com/gantry-build/gantry/testhelpers"
)

func TestStyle(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "testStyle", testStyle, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testStyle(t *testing.T, when spec.G, it spec.S) {
	when("#Symbol", func() {
		it("quotes the value when color is disabled", func() {
			h.AssertEq(t, style.Symbol("Symbol"), "'Symbol'")
		})

		it("quotes the empty string", func() {
			h.AssertEq(t, style.Symbol(""), "''")
		})
	})

	when("#Map", func() {
		it("returns all key value pairs sorted by key", func() {
			h.AssertEq(t, style.Map(map[string]string{"FOO": "foo", "BAR": "bar"}, "", " "), "'BAR=bar FOO=foo'")
			h.AssertEq(t, style.Map(map[string]string{"FOO": "foo", "BAR": "bar"}, "  ", "\n"), "'BAR=bar\n  FOO=foo'")
		})

		it("returns an empty string for an empty map", func() {
			h.AssertEq(t, style.Map(map[string]string{}, "", " "), "''")
		})
	})

	when("#Step", func() {
		it("prefixes the banner arrow", func() {
			h.AssertEq(t, style.Step("%s phase", "INSTALLING"), "===> INSTALLING phase")
		})
	})
}
