package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()

	require.NotEmpty(t, info.GoVersion, "GoVersion should be populated")
	require.NotEmpty(t, info.Version)
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "abc123",
		BuildDate: "2026-01-29",
		GoVersion: "go1.25",
	}

	str := info.String()

	assert.Contains(t, str, "repo-summary version v1.0.0")
	assert.Contains(t, str, "abc123")
	assert.Contains(t, str, "2026-01-29")
	assert.Contains(t, str, "go1.25")
}

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-03-01T10:00:00Z"},
		},
	}

	tests := []struct {
		name     string
		in       Info
		expected Info
	}{
		{
			name:     "placeholders are filled",
			in:       Info{Version: devVersion, GitCommit: unknownValue, BuildDate: unknownValue},
			expected: Info{Version: "v1.2.3", GitCommit: "0123456789ab", BuildDate: "2026-03-01T10:00:00Z"},
		},
		{
			name:     "ldflags values win",
			in:       Info{Version: "v9.9.9", GitCommit: "feedbeef", BuildDate: "2026-01-01"},
			expected: Info{Version: "v9.9.9", GitCommit: "feedbeef", BuildDate: "2026-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubBuildInfo(t, bi)
			got := tt.in
			fillFromBuildInfo(&got)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFillFromBuildInfo_DevelVersion(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	info := Info{Version: devVersion, GitCommit: unknownValue, BuildDate: unknownValue}
	fillFromBuildInfo(&info)
	assert.Equal(t, devVersion, info.Version)
	assert.Equal(t, unknownValue, info.GitCommit)
}

func TestFillFromBuildInfo_Unavailable(t *testing.T) {
	stubBuildInfo(t, nil)

	info := Info{Version: devVersion}
	fillFromBuildInfo(&info)
	assert.Equal(t, devVersion, info.Version)
}
