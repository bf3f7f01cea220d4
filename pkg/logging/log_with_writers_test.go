package logging_test

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/gantry-build/gantry/pkg/logging"
	h "github.com/gantry-build/gantry/testhelpers"
)

const testTimeFmt = "2006/01/02 15:04:05.000000"

func TestLogWithWriters(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "LogWithWriters", testLogWithWriters, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testLogWithWriters(t *testing.T, when spec.G, it spec.S) {
	var (
		logger           *logging.LogWithWriters
		outCons, errCons *bytes.Buffer
	)

	it.Before(func() {
		outCons = &bytes.Buffer{}
		errCons = &bytes.Buffer{}
		logger = logging.NewLogWithWriters(outCons, errCons, logging.WithClock(func() time.Time {
			clock, _ := time.Parse(testTimeFmt, "2019/05/15 01:01:01.000000")
			return clock
		}))
	})

	it("logs info to the standard writer", func() {
		logger.Info("test")
		h.AssertEq(t, outCons.String(), "test\n")
	})

	it("logs errors to the error writer", func() {
		logger.Error("oh no")
		h.AssertEq(t, errCons.String(), "ERROR: oh no\n")
	})

	it("prefixes warnings", func() {
		logger.Warn("careful")
		h.AssertEq(t, outCons.String(), "Warning: careful\n")
	})

	it("hides debug output by default", func() {
		logger.Debug("hidden")
		h.AssertEq(t, outCons.String(), "")
		h.AssertEq(t, logger.IsVerbose(), false)
	})

	it("shows debug output when verbose", func() {
		logger.WantVerbose(true)
		logger.Debugf("%s shown", "now")
		h.AssertEq(t, outCons.String(), "now shown\n")
		h.AssertEq(t, logger.IsVerbose(), true)
	})

	it("hides info output when quiet", func() {
		logger.WantQuiet(true)
		logger.Info("hidden")
		logger.Warn("still shown")
		h.AssertEq(t, outCons.String(), "Warning: still shown\n")
		h.AssertEq(t, logging.IsQuiet(logger), true)
	})

	it("prepends time when wanted", func() {
		logger.WantTime(true)
		logger.Info("test")
		h.AssertEq(t, outCons.String(), "2019/05/15 01:01:01.000000 test\n")
	})

	when("#WriterForLevel", func() {
		it("discards levels below the logger's", func() {
			writer := logger.WriterForLevel(logging.DebugLevel)
			h.AssertEq(t, writer, io.Discard)
		})

		it("returns an error writer for the error level", func() {
			writer := logger.WriterForLevel(logging.ErrorLevel)
			_, err := writer.Write([]byte("failure\n"))
			h.AssertNil(t, err)
			h.AssertEq(t, errCons.String(), "failure\n")
		})

		it("returns a writer that appends missing line feeds", func() {
			writer := logger.WriterForLevel(logging.InfoLevel)
			_, err := writer.Write([]byte("no newline"))
			h.AssertNil(t, err)
			h.AssertEq(t, outCons.String(), "no newline\n")
		})

		it("prepends time on level writers when wanted", func() {
			logger.WantTime(true)
			writer := logger.WriterForLevel(logging.InfoLevel)
			_, err := writer.Write([]byte("stamped\n"))
			h.AssertNil(t, err)
			h.AssertEq(t, outCons.String(), "2019/05/15 01:01:01.000000 stamped\n")
		})
	})

	when("#GetWriterForLevel", func() {
		it("selects the level writer when the logger supports it", func() {
			writer := logging.GetWriterForLevel(logger, logging.ErrorLevel)
			_, err := writer.Write([]byte("routed\n"))
			h.AssertNil(t, err)
			h.AssertEq(t, errCons.String(), "routed\n")
		})
	})
}
