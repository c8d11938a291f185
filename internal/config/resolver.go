package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/opmodel/repo-summary/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records the winning value for a key and what it shadowed.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveOptions contains the candidate values for one key.
type ResolveOptions struct {
	Key string
	// FlagValue is only considered when FlagSet is true.
	FlagValue   string
	FlagSet     bool
	EnvValue    string
	ConfigValue string
	Default     string
}

// Resolve picks a value using precedence: flag > env > config > default.
// Empty env and config values count as unset.
func Resolve(opts ResolveOptions) ResolvedValue {
	result := ResolvedValue{
		Key:      opts.Key,
		Value:    opts.Default,
		Source:   SourceDefault,
		Shadowed: make(map[ConfigSource]string),
	}

	candidates := []struct {
		source ConfigSource
		value  string
		set    bool
	}{
		{SourceFlag, opts.FlagValue, opts.FlagSet},
		{SourceEnv, opts.EnvValue, opts.EnvValue != ""},
		{SourceConfig, opts.ConfigValue, opts.ConfigValue != ""},
	}

	won := false
	for _, c := range candidates {
		if !c.set {
			continue
		}
		if won {
			result.Shadowed[c.source] = c.value
			continue
		}
		result.Value = c.value
		result.Source = c.source
		won = true
	}

	return result
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) REPO_SUMMARY_CONFIG env, (3) ~/.config/repo-summary/config.yaml
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolvedValue, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolvedValue{}, err
	}

	return Resolve(ResolveOptions{
		Key:       "config",
		FlagValue: opts.FlagValue,
		FlagSet:   opts.FlagValue != "",
		EnvValue:  os.Getenv(EnvConfig),
		Default:   paths.ConfigFile,
	}), nil
}

// Flags carries command-line values and whether each was set explicitly.
type Flags struct {
	Output        string
	OutputSet     bool
	SizeUnits     string
	SizeUnitsSet  bool
	Color         string
	ColorSet      bool
	Timestamps    bool
	TimestampsSet bool
}

// Settings are the effective presentation settings for a run.
type Settings struct {
	Output     output.OutputFormat
	SizeUnits  output.SizeUnits
	Color      output.ColorMode
	Timestamps bool
}

// ResolveSettings merges flags, environment and config file into Settings.
// env and file may be nil. The returned values list every key's resolution for
// LogResolvedValues.
func ResolveSettings(flags Flags, env, file *Config) (*Settings, []ResolvedValue, error) {
	if env == nil {
		env = &Config{}
	}
	if file == nil {
		file = &Config{}
	}
	def := DefaultConfig()

	values := []ResolvedValue{
		Resolve(ResolveOptions{Key: "output", FlagValue: flags.Output, FlagSet: flags.OutputSet,
			EnvValue: env.Output, ConfigValue: file.Output, Default: def.Output}),
		Resolve(ResolveOptions{Key: "sizeUnits", FlagValue: flags.SizeUnits, FlagSet: flags.SizeUnitsSet,
			EnvValue: env.SizeUnits, ConfigValue: file.SizeUnits, Default: def.SizeUnits}),
		Resolve(ResolveOptions{Key: "color", FlagValue: flags.Color, FlagSet: flags.ColorSet,
			EnvValue: env.Color, ConfigValue: file.Color, Default: def.Color}),
		Resolve(ResolveOptions{Key: "log.timestamps", FlagValue: strconv.FormatBool(flags.Timestamps),
			FlagSet: flags.TimestampsSet, ConfigValue: boolString(file.Log.Timestamps),
			Default: boolString(def.Log.Timestamps)}),
	}

	var s Settings
	var err error
	if s.Output, err = output.ParseOutputFormat(values[0].Value); err != nil {
		return nil, values, sourced(values[0], err)
	}
	if s.SizeUnits, err = output.ParseSizeUnits(values[1].Value); err != nil {
		return nil, values, sourced(values[1], err)
	}
	if s.Color, err = output.ParseColorMode(values[2].Value); err != nil {
		return nil, values, sourced(values[2], err)
	}
	if s.Timestamps, err = strconv.ParseBool(values[3].Value); err != nil {
		return nil, values, sourced(values[3], err)
	}
	return &s, values, nil
}

func sourced(v ResolvedValue, err error) error {
	return fmt.Errorf("%s (from %s): %w", v.Key, v.Source, err)
}

func boolString(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
