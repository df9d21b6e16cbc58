// Package config wraps the viper configuration singleton.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/tknoepfli/sleipnir/internal/lifecycle"
)

var v *viper.Viper

// DefaultActor is the actor recorded on audit entries when none is configured.
const DefaultActor = "System"

// Initialize sets up the viper configuration singleton
// Should be called once at application startup
func Initialize() error {
	v = viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Walk up from CWD to find a project .sleipnir/ directory so commands
	// work from subdirectories.
	cwd, err := os.Getwd()
	if err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			appDir := filepath.Join(dir, ".sleipnir")
			if info, err := os.Stat(appDir); err == nil && info.IsDir() {
				v.AddConfigPath(appDir)
				break
			}
		}
		v.AddConfigPath(filepath.Join(cwd, ".sleipnir"))
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "slp"))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".sleipnir"))
	}

	// Environment variables take precedence over the config file, e.g.
	// SLP_DB, SLP_ACTOR, SLP_JSON.
	v.SetEnvPrefix("SLP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("json", false)
	v.SetDefault("db", "")
	v.SetDefault("actor", DefaultActor)
	v.SetDefault("sprint-length", lifecycle.DefaultSprintLengthDays)
	v.SetDefault("log-file", "")
	v.SetDefault("log-level", "warn")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found - this is ok, we'll use defaults
	}

	return nil
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// Set sets a configuration value
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}
