package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvKibanaURL, EnvKibanaUsername, EnvKibanaPassword, EnvKibanaAPIKey} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
kibana:
  url: https://kibana.example.com:5601
  space: ops
server:
  port: 9000
agents:
  enabled: false
  pollInterval: 10s
logging:
  format: json
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://kibana.example.com:5601", cfg.Kibana.URL)
	assert.Equal(t, "ops", cfg.Kibana.Space)
	assert.Equal(t, DefaultKibanaVersion, cfg.Kibana.Version)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, DefaultServerHost, cfg.Server.Host)
	assert.False(t, cfg.Agents.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Agents.PollInterval)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_ExplicitFilePath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 1234\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.Server.Port)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "kibana:\n  url: http://from-file:5601\n")

	t.Setenv(EnvKibanaURL, "http://from-env:5601")
	t.Setenv(EnvKibanaUsername, "elastic")
	t.Setenv(EnvKibanaPassword, "changeme")
	t.Setenv(EnvKibanaAPIKey, "")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:5601", cfg.Kibana.URL)
	assert.Equal(t, "elastic", cfg.Kibana.Username)
	assert.Equal(t, "changeme", cfg.Kibana.Password)
}

func TestLoadConfig_ParseError(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "kibana: [unclosed\n")

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var ce ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrorTypeParse, ce.ErrorType)
	assert.Equal(t, "config.yaml", ce.FileName)
	assert.NotEmpty(t, ce.Suggestions)
}

func TestLoadConfig_ValidationError(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
kibana:
  url: not a url
  version: seven
server:
  port: 70000
logging:
  level: verbose
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))

	msg := err.Error()
	assert.Contains(t, msg, "kibana.url")
	assert.Contains(t, msg, "kibana.version")
	assert.Contains(t, msg, "server.port")
	assert.Contains(t, msg, "logging.level")
}

func TestResolveConfigFile(t *testing.T) {
	dir := t.TempDir()

	got, err := ResolveConfigFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), got)

	file := filepath.Join(dir, "other.yaml")
	got, err = ResolveConfigFile(file)
	require.NoError(t, err)
	assert.Equal(t, file, got)
}
