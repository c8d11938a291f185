// Package errors provides sentinel errors for repo-summary.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// DetailError captures structured error information.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file the error relates to (optional).
	Location string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface. The result is a single line.
func (e *DetailError) Error() string {
	if e.Location != "" {
		return e.Location + ": " + e.Message
	}
	return e.Message
}

// Detail renders the multi-line form shown in verbose mode.
func (e *DetailError) Detail() string {
	var b strings.Builder

	b.WriteString(e.Type)
	b.WriteString("\n")
	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")
	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewUsageError creates a usage error.
func NewUsageError(message string) error {
	return &DetailError{
		Type:    "invalid usage",
		Message: message,
		Cause:   ErrUsage,
	}
}

// NewIOError creates an error for a summary file that could not be read.
// The path is reported once, through Location.
func NewIOError(path string, cause error) error {
	message := cause.Error()
	var pathErr *fs.PathError
	if errors.As(cause, &pathErr) {
		message = pathErr.Op + ": " + pathErr.Err.Error()
	}
	return &DetailError{
		Type:     "read failed",
		Message:  message,
		Location: path,
		Hint:     "Check that REPO points at an OSTree repository with a summary file",
		Cause:    fmt.Errorf("%w: %w", ErrIO, cause),
	}
}

// NewFormatError creates an error for summary data that failed to decode.
func NewFormatError(path string, cause error) error {
	return &DetailError{
		Type:     "malformed summary",
		Message:  cause.Error(),
		Location: path,
		Hint:     "Regenerate the summary with 'flatpak build-update-repo'",
		Cause:    fmt.Errorf("%w: %w", ErrFormat, cause),
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
