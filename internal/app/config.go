package app

import (
	"fleetgate/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of the file setting.
	Debug bool

	// Silent discards log output, used by one-shot commands that print
	// their own results.
	Silent bool

	// WatchConfig remounts the console when the configuration file changes.
	WatchConfig bool

	// Custom configuration path (optional). Empty means ~/.config/fleetgate.
	ConfigPath string

	// Loaded configuration. When set before NewApplication, loading is skipped.
	FleetgateConfig *config.FleetgateConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug, silent bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
	}
}
