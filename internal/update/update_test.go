package update_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v30/github"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/gantry-build/gantry/internal/update"
	h "github.com/gantry-build/gantry/testhelpers"
)

func TestChecker(t *testing.T) {
	spec.Run(t, "Checker", testChecker, spec.Report(report.Terminal{}))
}

func testChecker(t *testing.T, when spec.G, it spec.S) {
	var (
		server  *httptest.Server
		checker *update.Checker
		tag     string
		status  int
	)

	it.Before(func() {
		tag = "v1.2.3"
		status = http.StatusOK
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/gantry-build/gantry/releases/latest", func(w http.ResponseWriter, r *http.Request) {
			if status != http.StatusOK {
				w.WriteHeader(status)
				return
			}
			fmt.Fprintf(w, `{"tag_name": %q}`, tag)
		})
		server = httptest.NewServer(mux)

		gh := github.NewClient(nil)
		baseURL, err := url.Parse(server.URL + "/")
		h.AssertNil(t, err)
		gh.BaseURL = baseURL

		checker = update.NewCheckerWithClient(gh, "gantry-build", "gantry")
	})

	it.After(func() {
		server.Close()
	})

	when("#LatestVersion", func() {
		it("returns the release tag without the leading v", func() {
			version, err := checker.LatestVersion(context.Background())
			h.AssertNil(t, err)
			h.AssertEq(t, version, "1.2.3")
		})

		it("errors when the API fails", func() {
			status = http.StatusInternalServerError
			_, err := checker.LatestVersion(context.Background())
			h.AssertErrorContains(t, err, "fetching latest release")
		})
	})

	when("#NewerVersion", func() {
		it("reports a newer release", func() {
			version, available, err := checker.NewerVersion(context.Background(), "1.0.0")
			h.AssertNil(t, err)
			h.AssertTrue(t, available)
			h.AssertEq(t, version, "1.2.3")
		})

		it("reports nothing when up to date", func() {
			_, available, err := checker.NewerVersion(context.Background(), "1.2.3")
			h.AssertNil(t, err)
			h.AssertFalse(t, available)
		})

		it("reports nothing for a newer local build", func() {
			_, available, err := checker.NewerVersion(context.Background(), "2.0.0")
			h.AssertNil(t, err)
			h.AssertFalse(t, available)
		})

		it("skips the lookup for development builds", func() {
			status = http.StatusInternalServerError
			_, available, err := checker.NewerVersion(context.Background(), "0.0.0")
			h.AssertNil(t, err)
			h.AssertFalse(t, available)
		})

		it("errors on an unparsable current version", func() {
			_, _, err := checker.NewerVersion(context.Background(), "not-a-version")
			h.AssertErrorContains(t, err, "parsing current version")
		})
	})
}
