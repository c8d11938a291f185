// Package cmd provides the repo-summary command.
package cmd

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully, including a
	// branch query that matched nothing.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitUsageError indicates wrong arity or an invalid flag.
	ExitUsageError = ExitGeneralError

	// ExitIOError indicates the summary file could not be read.
	ExitIOError = ExitGeneralError

	// ExitFormatError indicates the summary file is malformed.
	ExitFormatError = 2
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitFormatError:
		return "Format Error"
	default:
		return "Unknown"
	}
}
