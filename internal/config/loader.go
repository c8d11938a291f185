package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// Environment variable prefix for repo-summary configuration.
const envPrefix = "REPO_SUMMARY"

// Environment variables read by repo-summary.
const (
	EnvConfig    = envPrefix + "_CONFIG"
	EnvOutput    = envPrefix + "_OUTPUT"
	EnvSizeUnits = envPrefix + "_SIZE_UNITS"
	EnvColor     = envPrefix + "_COLOR"
)

// Loader reads configuration from the config file and the environment.
// The two sources are kept apart so the resolver can report which one won.
type Loader struct {
	v   *viper.Viper
	env *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	env := viper.New()
	env.SetEnvPrefix(envPrefix)

	// Bind specific environment variables
	_ = env.BindEnv("output", EnvOutput)
	_ = env.BindEnv("sizeUnits", EnvSizeUnits)
	_ = env.BindEnv("color", EnvColor)

	return &Loader{v: viper.New(), env: env}
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path.
// A missing file yields an empty Config; an unreadable or invalid one is an error.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	// Expand ~ in path
	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file %s: %w", expandedPath, err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", expandedPath, err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration and applies defaults.
func (l *Loader) LoadWithDefaults(configFile string) (*Config, error) {
	cfg, err := l.Load(configFile)
	if err != nil {
		return nil, err
	}

	return cfg.WithDefaults(), nil
}

// LoadFromEnvOnly loads configuration from environment variables only.
// Values are not validated here; the resolver reports bad values with their source.
func (l *Loader) LoadFromEnvOnly() (*Config, error) {
	var cfg Config
	if err := l.env.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling environment: %w", err)
	}
	return &cfg, nil
}
