package client

import (
	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/logging"
)

// SoftError is an error that has already been surfaced to the user and
// should not be logged again.
type SoftError struct{}

func NewSoftError() SoftError {
	return SoftError{}
}

func (se SoftError) Error() string {
	return ""
}

// ExperimentError denotes that an experimental feature was trying to be used without experimental features enabled.
type ExperimentError struct {
	msg string
}

func NewExperimentError(msg string) ExperimentError {
	return ExperimentError{msg}
}

func (ee ExperimentError) Error() string {
	return ee.msg
}

func (ee ExperimentError) Tip(logger logging.Logger, configPath string) {
	logging.Tip(logger, "To enable experimental features, add %s to %s.", style.Symbol("experimental = true"), style.Symbol(configPath))
}
