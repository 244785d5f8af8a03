package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ErrConfigNotFound is returned when the config file is not found by Load.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config is the CLI harness configuration. Embedded hosts configure the
// connector programmatically and never read this.
type Config struct {
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Profiles ProfilesConfig `mapstructure:"profiles"`
	Listen   ListenConfig   `mapstructure:"listen"`
}

// DefaultsConfig holds per-operation defaults.
type DefaultsConfig struct {
	Limit     int  `mapstructure:"limit"`
	ReturnAll bool `mapstructure:"return_all"`
	Simplify  bool `mapstructure:"simplify"`
}

// LoggingConfig configures the audit log.
type LoggingConfig struct {
	File    string `mapstructure:"file"`
	MaxSize int64  `mapstructure:"max_size"`
}

// ProfilesConfig selects the default credential profile.
type ProfilesConfig struct {
	Default string `mapstructure:"default"`
}

// ListenConfig configures the local webhook receiver.
type ListenConfig struct {
	Addr      string `mapstructure:"addr"`
	PublicURL string `mapstructure:"public_url"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Limit: 50,
		},
		Logging: LoggingConfig{
			MaxSize: 10 * 1024 * 1024,
		},
		Profiles: ProfilesConfig{
			Default: "default",
		},
		Listen: ListenConfig{
			Addr: "127.0.0.1:8484",
		},
	}
}

// ConfigDir returns the directory configuration and profiles live in.
func ConfigDir() string {
	if dir := os.Getenv("DIRECTUS_NODE_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".directus-node"
	}
	return filepath.Join(home, ".directus-node")
}

// Load reads configuration from configFile, or from the default location
// when configFile is empty. A missing default file yields the defaults, not
// an error; a missing explicit file yields ErrConfigNotFound.
func Load(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DIRECTUS_NODE")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configFile)
			}
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			// No config file anywhere: defaults apply.
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Defaults.Limit <= 0 {
		cfg.Defaults.Limit = 50
	}
	return cfg, nil
}
