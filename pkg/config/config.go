// Package config loads the objref tool configuration.
//
// Configuration sources, in order of precedence:
//  1. CLI flags (highest)
//  2. Environment variables (OBJREF_*)
//  3. Configuration file (YAML)
//  4. Defaults (lowest)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/kodingen/oleviewdotnet/internal/logger"
)

// Config captures the static configuration of the objref tool.
type Config struct {
	// Logging controls diagnostic output on stderr.
	Logging logger.Config `mapstructure:"logging" yaml:"logging"`

	// Output controls how marshaled references are emitted.
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Resolver controls interface pointer resolution against the local
	// process table.
	Resolver ResolverConfig `mapstructure:"resolver" yaml:"resolver"`
}

// OutputConfig selects the default encoding for emitted references.
type OutputConfig struct {
	// Encoding is one of hex, base64, moniker, or raw.
	Encoding string `mapstructure:"encoding" validate:"oneof=hex base64 moniker raw" yaml:"encoding"`
}

// ResolverConfig controls display metadata resolution.
type ResolverConfig struct {
	// Enabled turns on process/apartment lookups for standard and
	// handler references during decode.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging:  logger.Config{Level: "info", Format: "text"},
		Output:   OutputConfig{Encoding: "hex"},
		Resolver: ResolverConfig{Enabled: false},
	}
}

// DefaultPath returns the default configuration file location,
// $XDG_CONFIG_HOME/objref/config.yaml.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "objref", "config.yaml")
}

// Load reads configuration from the given file path, environment, and
// defaults. An empty path falls back to DefaultPath; a missing file at the
// default location is not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults := Default()
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("output.encoding", defaults.Output.Encoding)
	v.SetDefault("resolver.enabled", defaults.Resolver.Enabled)

	v.SetEnvPrefix("OBJREF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		err := v.ReadInConfig()
		switch {
		case err == nil:
		case !explicit && os.IsNotExist(err):
			// No file at the default location; run on defaults.
		default:
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
