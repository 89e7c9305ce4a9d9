// Package config handles CLI configuration using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the wlmon configuration
type Config struct {
	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`

	// Events configuration
	Events EventsConfig `mapstructure:"events"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

// EventsConfig tunes event delivery and action handling
type EventsConfig struct {
	// ActionTimeout is how long the CLI waits for an action outcome, in
	// seconds. The library itself never times out.
	ActionTimeout int `mapstructure:"action_timeout"`
	// ChannelCapacity sizes the event and action channels.
	ChannelCapacity int `mapstructure:"channel_capacity"`
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
		Events: EventsConfig{
			ActionTimeout:   5,
			ChannelCapacity: 16,
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("wlmon")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		if home := os.Getenv("HOME"); home != "" {
			viper.AddConfigPath(filepath.Join(home, ".config", "wlmon"))
		}
		viper.AddConfigPath(".") // Current directory (lowest priority)
	}

	// Set defaults - individual fields for proper merging
	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)
	viper.SetDefault("events.action_timeout", DefaultConfig.Events.ActionTimeout)
	viper.SetDefault("events.channel_capacity", DefaultConfig.Events.ChannelCapacity)

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// Guard against nonsense values; fall back to defaults.
	if cfg.Events.ActionTimeout <= 0 {
		cfg.Events.ActionTimeout = DefaultConfig.Events.ActionTimeout
	}
	if cfg.Events.ChannelCapacity <= 0 {
		cfg.Events.ChannelCapacity = DefaultConfig.Events.ChannelCapacity
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}
	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "wlmon.toml"
	}
	return filepath.Join(home, ".config", "wlmon", "wlmon.toml")
}
