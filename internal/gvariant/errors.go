package gvariant

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrFormat indicates serialised data that does not match its type.
	ErrFormat = errors.New("invalid gvariant data")

	// ErrTypeMismatch indicates an accessor was used on a value of another type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrIndex indicates a child index out of range.
	ErrIndex = errors.New("index out of range")
)

// FormatError describes malformed serialised data.
type FormatError struct {
	Type   *Type
	Offset int
	Msg    string
}

func formatErrf(t *Type, off int, format string, args ...any) error {
	return &FormatError{Type: t, Offset: off, Msg: fmt.Sprintf(format, args...)}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: %s value at offset %d: %s", ErrFormat, e.Type, e.Offset, e.Msg)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// TypeMismatchError is a FormatError raised by typed accessors.
type TypeMismatchError struct {
	Want string
	Got  *Type
}

func mismatch(want string, got *Type) error {
	return &TypeMismatchError{Want: want, Got: got}
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%v: expected %s, got %s", ErrTypeMismatch, e.Want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch || target == ErrFormat
}

// IndexError reports a child index outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: index %d, %d children", ErrIndex, e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndex
}
