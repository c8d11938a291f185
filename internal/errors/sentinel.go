package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrUsage indicates invalid arguments or flags.
	ErrUsage = errors.New("usage error")

	// ErrIO indicates the summary file could not be opened or read.
	ErrIO = errors.New("i/o error")

	// ErrFormat indicates malformed or mistyped summary data.
	ErrFormat = errors.New("format error")
)
