package stringset_test

import (
	"sort"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/gantry-build/gantry/internal/stringset"
	h "github.com/gantry-build/gantry/testhelpers"
)

func TestStringSet(t *testing.T) {
	spec.Run(t, "StringSet", testStringSet, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testStringSet(t *testing.T, when spec.G, it spec.S) {
	when("#FromSlice", func() {
		it("dedupes entries", func() {
			set := stringset.FromSlice([]string{"a", "b", "a"})
			h.AssertEq(t, len(set), 2)
		})
	})

	when("#Compare", func() {
		it("splits extra, missing and common", func() {
			extra, missing, common := stringset.Compare(
				[]string{"fastapi", "uvicorn", "pydantic"},
				[]string{"fastapi", "httpx"},
			)

			sort.Strings(extra)
			h.AssertEq(t, extra, []string{"pydantic", "uvicorn"})
			h.AssertEq(t, missing, []string{"httpx"})
			h.AssertEq(t, common, []string{"fastapi"})
		})

		it("returns empty extra and missing for equal sets", func() {
			extra, missing, common := stringset.Compare([]string{"a"}, []string{"a"})
			h.AssertEq(t, len(extra), 0)
			h.AssertEq(t, len(missing), 0)
			h.AssertEq(t, common, []string{"a"})
		})
	})
}
