// Package config loads tr31tool's runtime configuration: logging verbosity and output format,
// layered as defaults, an optional YAML file, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	configData Config
	v          *viper.Viper
)

// Config holds all configuration settings.
type Config struct {
	// Logging configuration
	Log struct {
		Level  string
		Format string
	}
}

// Initialize sets up the configuration system.
func Initialize() error {
	// Use the package-level viper instance rather than a fresh one, so that flags bound via
	// viper.BindPFlag in cmd/root.go (which bind against the global instance) are visible here.
	v = viper.GetViper()

	// Set config name and paths
	v.SetConfigName("config")          // name of config file (without extension)
	v.SetConfigType("yaml")            // config file type
	v.AddConfigPath(".")               // optionally look for config in working directory
	v.AddConfigPath("$HOME/.tr31tool") // look for config in .tr31tool directory in home
	v.AddConfigPath("/etc/tr31tool/")  // path to look for the config file in

	// Set default values
	setDefaults()

	// Environment variables
	v.SetEnvPrefix("TR31TOOL") // prefix for env vars
	v.AutomaticEnv()           // read in environment variables that match
	v.SetEnvKeyReplacer(       // replace dots with underscores in env vars
		strings.NewReplacer(".", "_"),
	)

	// Create config file if it doesn't exist
	if err := ensureConfig(); err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}

	// Read in config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if we can't find a config file, we'll use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal config into struct
	if err := v.Unmarshal(&configData); err != nil {
		return fmt.Errorf("unable to decode into config struct: %w", err)
	}

	return nil
}

// setDefaults sets default values for all configuration options.
func setDefaults() {
	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "human")
}

// ensureConfig creates a default config file if none exists.
func ensureConfig() error {
	// Check if config directory exists
	dir := filepath.Join(os.Getenv("HOME"), ".tr31tool")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		// Create directory
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		// Create default config file
		defaultConfig := `# tr31tool configuration file
log:
  level: info
  format: human
`
		if err := os.WriteFile(configFile, []byte(defaultConfig), 0o644); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the current configuration.
func Get() *Config {
	return &configData
}

// GetViper returns the viper instance.
func GetViper() *viper.Viper {
	return v
}
