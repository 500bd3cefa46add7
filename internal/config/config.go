// Package config provides configuration loading and validation for astdiff.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers = errors.New("workers must be positive")
	ErrInvalidSize    = errors.New("invalid max file size")
	ErrInvalidFilter  = errors.New("invalid name filter")
	ErrInvalidLevel   = errors.New("invalid log level")
	ErrInvalidFormat  = errors.New("invalid format")
)

// Default configuration values.
const (
	defaultRepositoryPath   = "."
	defaultMaxFileSize      = "1MB"
	defaultMaxFileSizeBytes = 1_000_000
	defaultLogLevel         = "warn"
	defaultLogFormat        = "text"
	defaultOutputFormat     = "text"
)

// Config holds all configuration for astdiff.
type Config struct {
	Repository RepositoryConfig `mapstructure:"repository"`
	Compare    CompareConfig    `mapstructure:"compare"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Output     OutputConfig     `mapstructure:"output"`
}

// RepositoryConfig holds repository-specific configuration.
type RepositoryConfig struct {
	Path        string `mapstructure:"path"`
	MaxFileSize string `mapstructure:"max_file_size"`
}

// CompareConfig holds comparison-specific configuration.
type CompareConfig struct {
	Languages    []string `mapstructure:"languages"`
	SkipPrefixes []string `mapstructure:"skip_prefixes"`
	NameFilter   string   `mapstructure:"name_filter"`
	SkipVendored bool     `mapstructure:"skip_vendored"`
	Workers      int      `mapstructure:"workers"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig holds output-specific configuration.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("astdiff")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("/etc/astdiff")
	}

	viperCfg.SetEnvPrefix("ASTDIFF")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the built-in configuration, ignoring config files and
// the environment.
func Default() *Config {
	return &Config{
		Repository: RepositoryConfig{
			Path:        defaultRepositoryPath,
			MaxFileSize: defaultMaxFileSize,
		},
		Compare: CompareConfig{
			Languages:    []string{"Go", "Python"},
			SkipPrefixes: []string{},
			SkipVendored: true,
			Workers:      runtime.NumCPU(),
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Output: OutputConfig{
			Format: defaultOutputFormat,
		},
	}
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	defaults := Default()

	viperCfg.SetDefault("repository.path", defaults.Repository.Path)
	viperCfg.SetDefault("repository.max_file_size", defaults.Repository.MaxFileSize)

	viperCfg.SetDefault("compare.languages", defaults.Compare.Languages)
	viperCfg.SetDefault("compare.skip_prefixes", defaults.Compare.SkipPrefixes)
	viperCfg.SetDefault("compare.name_filter", "")
	viperCfg.SetDefault("compare.skip_vendored", defaults.Compare.SkipVendored)
	viperCfg.SetDefault("compare.workers", defaults.Compare.Workers)

	viperCfg.SetDefault("logging.level", defaults.Logging.Level)
	viperCfg.SetDefault("logging.format", defaults.Logging.Format)

	viperCfg.SetDefault("output.format", defaults.Output.Format)
	viperCfg.SetDefault("output.no_color", defaults.Output.NoColor)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Compare.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Compare.Workers)
	}

	if _, err := humanize.ParseBytes(config.Repository.MaxFileSize); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSize, config.Repository.MaxFileSize)
	}

	if config.Compare.NameFilter != "" {
		if _, err := regexp.Compile(config.Compare.NameFilter); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidFilter, config.Compare.NameFilter)
		}
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLevel, config.Logging.Level)
	}

	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: logging %s", ErrInvalidFormat, config.Logging.Format)
	}

	switch config.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("%w: output %s", ErrInvalidFormat, config.Output.Format)
	}

	return nil
}

// MaxFileSizeBytes returns the parsed max file size in bytes.
func (c *Config) MaxFileSizeBytes() uint64 {
	size, err := humanize.ParseBytes(c.Repository.MaxFileSize)
	if err != nil {
		return defaultMaxFileSizeBytes
	}

	return size
}

// NameFilter returns the compiled file name filter, nil when unset.
func (c *Config) NameFilter() *regexp.Regexp {
	if c.Compare.NameFilter == "" {
		return nil
	}

	filter, err := regexp.Compile(c.Compare.NameFilter)
	if err != nil {
		return nil
	}

	return filter
}
