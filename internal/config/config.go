// Package config provides configuration loading and management.
package config

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config represents the repo-summary configuration file.
// Loaded from ~/.config/repo-summary/config.yaml.
type Config struct {
	// Output is the default output format: text, table, json or yaml.
	// Env: REPO_SUMMARY_OUTPUT, Default: text
	Output string `mapstructure:"output" yaml:"output,omitempty"`

	// SizeUnits selects si (kB) or iec (KiB) byte sizes.
	// Env: REPO_SUMMARY_SIZE_UNITS, Default: si
	SizeUnits string `mapstructure:"sizeUnits" yaml:"sizeUnits,omitempty"`

	// Color is auto, always or never.
	// Env: REPO_SUMMARY_COLOR, Default: auto
	Color string `mapstructure:"color" yaml:"color,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" yaml:"log,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *Config {
	timestamps := true
	return &Config{
		Output:    "text",
		SizeUnits: "si",
		Color:     "auto",
		Log:       LogConfig{Timestamps: &timestamps},
	}
}

// WithDefaults returns a copy of c with unset fields taken from DefaultConfig.
func (c *Config) WithDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.Output == "" {
		out.Output = def.Output
	}
	if out.SizeUnits == "" {
		out.SizeUnits = def.SizeUnits
	}
	if out.Color == "" {
		out.Color = def.Color
	}
	if out.Log.Timestamps == nil {
		out.Log.Timestamps = def.Log.Timestamps
	}
	return &out
}
