package app

import (
	"fmt"
	"io"
	"os"

	"kronosphere/internal/logger"
)

// StartupFailure prefixes the diagnostic printed when the application cannot run.
const StartupFailure = "error while running kronosphere application"

// Runner blocks for the lifetime of the application.
type Runner interface {
	Run() error
}

var diagnostics io.Writer = os.Stderr

// Launch builds and runs the application. Any failure is fatal: it is logged,
// printed to stderr and the process exits with status 1. There is no retry.
func Launch(build func() (Runner, error), log logger.Logger, exit func(int)) {
	if log == nil {
		log = logger.NoOpLogger{}
	}

	runner, err := build()
	if err == nil {
		err = runner.Run()
	}
	if err == nil {
		return
	}

	log.Error("Application", err, map[string]interface{}{"stage": "launch"})
	fmt.Fprintf(diagnostics, "%s: %v\n", StartupFailure, err)
	exit(1)
}
