package cmd

import (
	"os"

	"github.com/gems-ir/collector/pkg/logging"
)

// Warning logs a warning message through the root logger.
func Warning(message string) {
	logging.RootLogger.Warnf("%s", message)
}

// Error logs an error through the root logger.
func Error(err error) {
	logging.RootLogger.Error(err)
}

// Fatal logs an error through the root logger and then terminates the
// process with an error exit code.
func Fatal(err error) {
	Error(err)
	os.Exit(1)
}
