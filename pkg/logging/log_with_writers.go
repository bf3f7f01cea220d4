package logging

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/gantry-build/gantry/internal/style"
)

const (
	errorLevelText = "ERROR: "
	warnLevelText  = "Warning: "

	// time format the log writers use
	timeFmt = "2006/01/02 15:04:05.000000"

	// log level to use when quiet is true
	quietLevel = log.WarnLevel
	// log level to use when verbose is true
	verboseLevel = log.DebugLevel
)

// LogWithWriters is a logger used with the gantry CLI, allowing users to print
// timestamps, colors, and themselves be quiet or verbose.
type LogWithWriters struct {
	sync.Mutex
	log.Logger
	wantTime bool
	clock    func() time.Time
	out      io.Writer
	errOut   io.Writer
}

// NewLogWithWriters creates a logger to be used with the gantry CLI.
func NewLogWithWriters(stdout, stderr io.Writer, opts ...func(*LogWithWriters)) *LogWithWriters {
	lw := &LogWithWriters{
		Logger: log.Logger{
			Level: log.InfoLevel,
		},
		wantTime: false,
		clock:    time.Now,
		out:      stdout,
		errOut:   stderr,
	}
	lw.Logger.Handler = lw

	for _, opt := range opts {
		opt(lw)
	}

	return lw
}

// WithClock is an option used to initialize a LogWithWriters with a given clock function.
func WithClock(clock func() time.Time) func(lw *LogWithWriters) {
	return func(lw *LogWithWriters) {
		lw.clock = clock
	}
}

// WithVerbose is an option used to initialize a LogWithWriters with verbose logging.
func WithVerbose() func(lw *LogWithWriters) {
	return func(lw *LogWithWriters) {
		lw.Level = log.DebugLevel
	}
}

// HandleLog handles log events, printing entries appropriately.
func (lw *LogWithWriters) HandleLog(e *log.Entry) error {
	lw.Lock()
	defer lw.Unlock()

	writer := lw.writerForApexLevel(e.Level)

	prefix := ""
	if lw.wantTime {
		prefix = fmt.Sprintf("%s ", lw.clock().Format(timeFmt))
	}

	switch e.Level {
	case log.ErrorLevel:
		_, err := fmt.Fprintf(writer, "%s%s%s\n", prefix, style.Error(errorLevelText), e.Message)
		return err
	case log.WarnLevel:
		_, err := fmt.Fprintf(writer, "%s%s%s\n", prefix, style.Warn(warnLevelText), e.Message)
		return err
	}

	_, err := fmt.Fprintf(writer, "%s%s\n", prefix, e.Message)
	return err
}

// WriterForLevel returns a Writer for the given Level. Timestamps are prepended
// when the logger wants them.
func (lw *LogWithWriters) WriterForLevel(level Level) io.Writer {
	if lw.Level > log.Level(level) {
		return io.Discard
	}

	if level == ErrorLevel {
		return newLogWriter(lw.errOut, lw.clock, lw.wantTime)
	}

	return newLogWriter(lw.out, lw.clock, lw.wantTime)
}

func (lw *LogWithWriters) writerForApexLevel(level log.Level) io.Writer {
	switch level {
	case log.ErrorLevel, log.FatalLevel:
		return lw.errOut
	default:
		return lw.out
	}
}

// Writer returns the base writer for this logger.
func (lw *LogWithWriters) Writer() io.Writer {
	return lw.out
}

// WantTime turns timestamps in output on or off.
func (lw *LogWithWriters) WantTime(f bool) {
	lw.wantTime = f
}

// WantQuiet reduces the number of things printed.
func (lw *LogWithWriters) WantQuiet(f bool) {
	if f {
		lw.Level = quietLevel
	}
}

// WantVerbose increases the number of things printed.
func (lw *LogWithWriters) WantVerbose(f bool) {
	if f {
		lw.Level = verboseLevel
	}
}

// IsVerbose returns whether verbose logging is on.
func (lw *LogWithWriters) IsVerbose() bool {
	return lw.Level == log.DebugLevel
}

// IsQuiet returns whether quiet logging is on.
func (lw *LogWithWriters) IsQuiet() bool {
	return lw.Level == quietLevel
}

// NewSimpleLogger creates a logger without distinct out and error writers,
// for internal and test use.
func NewSimpleLogger(w io.Writer) *LogWithWriters {
	return NewLogWithWriters(w, w)
}
