package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, "si", cfg.SizeUnits)
	assert.Equal(t, "auto", cfg.Color)
	require.NotNil(t, cfg.Log.Timestamps)
	assert.True(t, *cfg.Log.Timestamps)
}

func TestConfig_WithDefaults(t *testing.T) {
	off := false
	cfg := &Config{Output: "json", Log: LogConfig{Timestamps: &off}}

	got := cfg.WithDefaults()

	assert.Equal(t, "json", got.Output, "set values are kept")
	assert.Equal(t, "si", got.SizeUnits)
	assert.Equal(t, "auto", got.Color)
	assert.False(t, *got.Log.Timestamps)
	assert.Empty(t, cfg.SizeUnits, "receiver is not modified")
}
