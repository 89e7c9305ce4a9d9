package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestInit(t *testing.T) {
	t.Run("initializes with defaults when no config exists", func(t *testing.T) {
		viper.Reset()
		cfg = nil

		tmpDir := t.TempDir()
		oldWd, _ := os.Getwd()
		os.Chdir(tmpDir)
		defer os.Chdir(oldWd)

		if err := Init(); err != nil {
			t.Errorf("Init() failed: %v", err)
		}

		config := Get()
		if config == nil {
			t.Fatal("Get() returned nil after Init()")
		}
		if config.Events.ActionTimeout != 5 {
			t.Errorf("Expected default action timeout 5, got %d", config.Events.ActionTimeout)
		}
		if config.Events.ChannelCapacity != 16 {
			t.Errorf("Expected default channel capacity 16, got %d", config.Events.ChannelCapacity)
		}
	})

	t.Run("reads values from a config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		content := `[logging]
log_level = "debug"

[events]
action_timeout = 10
channel_capacity = 64`
		if err := os.WriteFile(filepath.Join(tmpDir, "wlmon.toml"), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		oldWd, _ := os.Getwd()
		os.Chdir(tmpDir)
		defer os.Chdir(oldWd)

		viper.Reset()
		cfg = nil

		if err := Init(); err != nil {
			t.Fatalf("Init() failed: %v", err)
		}

		config := Get()
		if config.Logging.LogLevel != "debug" {
			t.Errorf("Expected log level debug, got %q", config.Logging.LogLevel)
		}
		if config.Events.ActionTimeout != 10 {
			t.Errorf("Expected action timeout 10, got %d", config.Events.ActionTimeout)
		}
		if config.Events.ChannelCapacity != 64 {
			t.Errorf("Expected channel capacity 64, got %d", config.Events.ChannelCapacity)
		}
	})

	t.Run("rejects nonsense values and keeps defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		content := `[events]
action_timeout = -3
channel_capacity = 0`
		if err := os.WriteFile(filepath.Join(tmpDir, "wlmon.toml"), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		oldWd, _ := os.Getwd()
		os.Chdir(tmpDir)
		defer os.Chdir(oldWd)

		viper.Reset()
		cfg = nil

		if err := Init(); err != nil {
			t.Fatalf("Init() failed: %v", err)
		}

		config := Get()
		if config.Events.ActionTimeout != 5 {
			t.Errorf("Expected fallback action timeout 5, got %d", config.Events.ActionTimeout)
		}
		if config.Events.ChannelCapacity != 16 {
			t.Errorf("Expected fallback channel capacity 16, got %d", config.Events.ChannelCapacity)
		}
	})
}

func TestConfigPathResolution(t *testing.T) {
	t.Run("explicit override wins", func(t *testing.T) {
		SetConfigPath("/tmp/custom/wlmon.toml")
		defer SetConfigPath("")

		if got := GetConfigPath(); got != "/tmp/custom/wlmon.toml" {
			t.Errorf("Expected override path, got %s", got)
		}
	})

	t.Run("defaults to user config directory", func(t *testing.T) {
		viper.Reset()
		originalHome := os.Getenv("HOME")
		os.Setenv("HOME", "/home/testuser")
		defer os.Setenv("HOME", originalHome)

		expected := "/home/testuser/.config/wlmon/wlmon.toml"
		if got := GetConfigPath(); got != expected {
			t.Errorf("Expected path %s, got %s", expected, got)
		}
	})
}
