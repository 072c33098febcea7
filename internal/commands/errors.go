package commands

import (
	"fmt"
	"io"

	"taskr/internal/exitcode"
	"taskr/internal/service"
)

// reportError prints err with its failure category and returns the exit code.
func reportError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %s\n", service.Describe(err))
	return exitcode.FromError(err)
}

// userError prints a formatted usage problem and returns exitcode.UserError.
func userError(errOut io.Writer, format string, args ...any) int {
	fmt.Fprintf(errOut, "error: "+format+"\n", args...)
	return exitcode.UserError
}
