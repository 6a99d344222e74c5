package config

import "time"

// FleetgateConfig is the top-level configuration structure for fleetgate.
type FleetgateConfig struct {
	Kibana  KibanaConfig  `yaml:"kibana"`
	Server  ServerConfig  `yaml:"server"`
	Agents  AgentsConfig  `yaml:"agents"`
	License LicenseConfig `yaml:"license"`
	Logging LoggingConfig `yaml:"logging"`
}

// KibanaConfig locates and authenticates against the Kibana instance.
type KibanaConfig struct {
	URL      string        `yaml:"url" validate:"required,url"`
	Version  string        `yaml:"version,omitempty" validate:"omitempty,semver"` // Kibana version, used for agent upgrade checks
	Space    string        `yaml:"space,omitempty"`
	Username string        `yaml:"username,omitempty" validate:"required_with=Password"`
	Password string        `yaml:"password,omitempty"`
	APIKey   string        `yaml:"apiKey,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty" validate:"gte=0"`
}

// ServerConfig is the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host,omitempty" validate:"required"`
	Port int    `yaml:"port,omitempty" validate:"gte=1,lte=65535"`
}

// AgentsConfig gates the fleet section and tunes agent polling.
type AgentsConfig struct {
	Enabled      bool          `yaml:"enabled"`
	PollInterval time.Duration `yaml:"pollInterval,omitempty" validate:"gte=0"`
}

// LicenseConfig tunes the license watcher.
type LicenseConfig struct {
	PollInterval time.Duration `yaml:"pollInterval,omitempty" validate:"gte=0"`
}

// LoggingConfig selects level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format,omitempty" validate:"omitempty,oneof=text json"`
}
