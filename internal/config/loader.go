package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fleetgate/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/fleetgate"
	configFileName = "config.yaml"
)

// Environment variables that override credentials from the file.
const (
	EnvKibanaURL      = "FLEETGATE_KIBANA_URL"
	EnvKibanaUsername = "FLEETGATE_KIBANA_USERNAME"
	EnvKibanaPassword = "FLEETGATE_KIBANA_PASSWORD"
	EnvKibanaAPIKey   = "FLEETGATE_KIBANA_API_KEY"
)

// GetDefaultConfigPath returns ~/.config/fleetgate.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// ResolveConfigFile turns a directory or file path into the config file path.
// An empty path resolves to the user config directory.
func ResolveConfigFile(configPath string) (string, error) {
	if configPath == "" {
		dir, err := GetDefaultConfigPath()
		if err != nil {
			return "", err
		}
		configPath = dir
	}
	if info, err := os.Stat(configPath); err == nil && info.IsDir() {
		return filepath.Join(configPath, configFileName), nil
	}
	if filepath.Ext(configPath) == "" {
		return filepath.Join(configPath, configFileName), nil
	}
	return configPath, nil
}

// LoadConfig loads configuration from configPath, which may be a directory
// containing config.yaml or the file itself. Values from the file are laid
// over the defaults, then environment overrides are applied and the result
// is validated.
func LoadConfig(configPath string) (FleetgateConfig, error) {
	configFilePath, err := ResolveConfigFile(configPath)
	if err != nil {
		return FleetgateConfig{}, err
	}

	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return FleetgateConfig{}, newConfigurationError(configFilePath, ErrorTypeIO, err.Error())
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return FleetgateConfig{}, newConfigurationError(configFilePath, ErrorTypeParse, err.Error())
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	applyEnvOverrides(&config)

	if err := Validate(config); err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			cerr := newConfigurationError(configFilePath, ErrorTypeValidation, verrs.Error())
			return FleetgateConfig{}, cerr
		}
		return FleetgateConfig{}, err
	}
	return config, nil
}

func applyEnvOverrides(config *FleetgateConfig) {
	if v := os.Getenv(EnvKibanaURL); v != "" {
		config.Kibana.URL = v
	}
	if v := os.Getenv(EnvKibanaUsername); v != "" {
		config.Kibana.Username = v
	}
	if v := os.Getenv(EnvKibanaPassword); v != "" {
		config.Kibana.Password = v
	}
	if v := os.Getenv(EnvKibanaAPIKey); v != "" {
		config.Kibana.APIKey = v
	}
}
