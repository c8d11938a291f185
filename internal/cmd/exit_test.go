package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	oerrors "github.com/opmodel/repo-summary/internal/errors"
	"github.com/opmodel/repo-summary/internal/gvariant"
)

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			wantCode: ExitSuccess,
		},
		{
			name:     "usage error",
			err:      oerrors.NewUsageError("unknown flag: --bogus"),
			wantCode: ExitUsageError,
		},
		{
			name:     "io error",
			err:      oerrors.NewIOError("/repo/summary", fs.ErrNotExist),
			wantCode: ExitIOError,
		},
		{
			name:     "format error",
			err:      oerrors.NewFormatError("/repo/summary", errors.New("bad offset")),
			wantCode: ExitFormatError,
		},
		{
			name:     "wrapped format sentinel",
			err:      oerrors.Wrap(oerrors.ErrFormat, "decoding cache"),
			wantCode: ExitFormatError,
		},
		{
			name:     "bare codec error",
			err:      fmt.Errorf("printing: %w", &gvariant.FormatError{Msg: "short"}),
			wantCode: ExitFormatError,
		},
		{
			name:     "unknown error returns general error",
			err:      errors.New("something went wrong"),
			wantCode: ExitGeneralError,
		},
		{
			name:     "exit error with custom code",
			err:      NewExitError(errors.New("custom error"), 42),
			wantCode: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitCodeName(t *testing.T) {
	assert.Equal(t, "Success", ExitCodeName(ExitSuccess))
	assert.Equal(t, "General Error", ExitCodeName(ExitUsageError))
	assert.Equal(t, "Format Error", ExitCodeName(ExitFormatError))
	assert.Equal(t, "Unknown", ExitCodeName(99))
}
