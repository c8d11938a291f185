package cmd

import (
	"errors"

	oerrors "github.com/opmodel/repo-summary/internal/errors"
	"github.com/opmodel/repo-summary/internal/gvariant"
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for ExitError first
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, oerrors.ErrUsage):
		return ExitUsageError
	case errors.Is(err, oerrors.ErrIO):
		return ExitIOError
	case errors.Is(err, oerrors.ErrFormat), errors.Is(err, gvariant.ErrFormat):
		return ExitFormatError
	default:
		return ExitGeneralError
	}
}
