// Package logging defines the minimal interface that loggers must support
// to be used by the gantry client and commands.
package logging

import (
	"io"

	"golang.org/x/term"

	"github.com/gantry-build/gantry/internal/style"
)

// Level of the log output.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Logger defines behavior required by a logging package used by gantry libraries.
type Logger interface {
	Debug(msg string)
	Debugf(fmt string, v ...interface{})

	Info(msg string)
	Infof(fmt string, v ...interface{})

	Warn(msg string)
	Warnf(fmt string, v ...interface{})

	Error(msg string)
	Errorf(fmt string, v ...interface{})

	Writer() io.Writer

	IsVerbose() bool
}

type isSelectableWriter interface {
	WriterForLevel(level Level) io.Writer
}

// GetWriterForLevel retrieves the appropriate writer for the log level provided.
//
// See isSelectableWriter
func GetWriterForLevel(logger Logger, level Level) io.Writer {
	if w, ok := logger.(isSelectableWriter); ok {
		return w.WriterForLevel(level)
	}

	return logger.Writer()
}

// IsQuiet defines whether a logger is set to quiet mode.
func IsQuiet(logger Logger) bool {
	if quietable, ok := logger.(interface{ IsQuiet() bool }); ok {
		return quietable.IsQuiet()
	}

	return false
}

// Tip logs a tip.
func Tip(l Logger, format string, v ...interface{}) {
	l.Infof(style.Tip("Tip: ")+format, v...)
}

// IsTerminal reports whether the writer is backed by a terminal, along with
// its file descriptor.
func IsTerminal(w io.Writer) (fd uintptr, isTerminal bool) {
	if f, ok := w.(hasDescriptor); ok {
		termFd := f.Fd()
		return termFd, term.IsTerminal(int(termFd))
	}
	return 0, false
}
