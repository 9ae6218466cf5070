// Package config provides configuration file parsing for brewmigrate.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "brewmigrate"
	// FileName is the config file name inside Dir().
	FileName = "config.toml"
	// EnvPrefix prefixes environment overrides, e.g. BREWMIGRATE_INSTALL_VERBOSE.
	EnvPrefix = "BREWMIGRATE"
)

// Config holds user defaults. Command-line flags override these.
type Config struct {
	Brew    string  `mapstructure:"brew"`
	DB      string  `mapstructure:"db"`
	History bool    `mapstructure:"history"`
	Install Install `mapstructure:"install"`
}

// Install holds default invocation flags for brewmigrate import.
type Install struct {
	BuildBottle     bool `mapstructure:"build_bottle"`
	BuildFromSource bool `mapstructure:"build_from_source"`
	ForceBottle     bool `mapstructure:"force_bottle"`
	Verbose         bool `mapstructure:"verbose"`
	Debug           bool `mapstructure:"debug"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Brew:    "brew",
		History: true,
	}
}

// Dir returns the brewmigrate config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/brewmigrate if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}

// Load reads the config file at path, or Dir()/config.toml when path is
// empty. A missing default file yields the defaults; a missing explicit
// path is an error. Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("brew", defaults.Brew)
	v.SetDefault("db", defaults.DB)
	v.SetDefault("history", defaults.History)
	v.SetDefault("install.build_bottle", defaults.Install.BuildBottle)
	v.SetDefault("install.build_from_source", defaults.Install.BuildFromSource)
	v.SetDefault("install.force_bottle", defaults.Install.ForceBottle)
	v.SetDefault("install.verbose", defaults.Install.Verbose)
	v.SetDefault("install.debug", defaults.Install.Debug)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, FileName)
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) || explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
