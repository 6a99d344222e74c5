package config

import "time"

const (
	DefaultKibanaURL           = "http://localhost:5601"
	DefaultKibanaVersion       = "7.10.0"
	DefaultServerHost          = "localhost"
	DefaultServerPort          = 8220
	DefaultAgentPollInterval   = 5 * time.Second
	DefaultLicensePollInterval = 30 * time.Second
	DefaultRequestTimeout      = 30 * time.Second
)

// GetDefaultConfig returns the configuration used when no file is present.
func GetDefaultConfig() FleetgateConfig {
	return FleetgateConfig{
		Kibana: KibanaConfig{
			URL:     DefaultKibanaURL,
			Version: DefaultKibanaVersion,
			Timeout: DefaultRequestTimeout,
		},
		Server: ServerConfig{
			Host: DefaultServerHost,
			Port: DefaultServerPort,
		},
		Agents: AgentsConfig{
			Enabled:      true,
			PollInterval: DefaultAgentPollInterval,
		},
		License: LicenseConfig{
			PollInterval: DefaultLicensePollInterval,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
