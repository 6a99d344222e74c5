package app

import (
	"os"
	"path/filepath"
	"testing"

	"fleetgate/internal/config"
	"fleetgate/internal/initseq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplication_WithPreloadedConfig(t *testing.T) {
	fc := config.GetDefaultConfig()
	fc.Agents.Enabled = false
	cfg := NewConfig(false, true, "")
	cfg.FleetgateConfig = &fc

	a, err := NewApplication(cfg)
	require.NoError(t, err)

	require.NotNil(t, a.Services())
	assert.NotNil(t, a.Services().Kibana)
	assert.NotNil(t, a.Services().Sequencer)
	assert.NotNil(t, a.Services().License)
	assert.False(t, a.RouteOptions().AgentsEnabled)
	assert.False(t, a.Shell().Mounted())
}

func TestNewApplication_LoadsFromPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("kibana:\n  url: http://kibana.internal:5601\n"), 0o644))

	a, err := NewApplication(NewConfig(false, true, dir))
	require.NoError(t, err)
	assert.Equal(t, "http://kibana.internal:5601", a.Settings().Kibana.URL)
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("kibana:\n  url: \"\"\n"), 0o644))

	_, err := NewApplication(NewConfig(false, true, dir))
	require.Error(t, err)
	assert.True(t, config.IsConfigurationError(err))
}

func TestInitializeServices_RequiresConfig(t *testing.T) {
	_, err := InitializeServices(&Config{})
	assert.Error(t, err)
}

func TestApplication_ReloadSwapsShell(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agents:\n  enabled: true\n"), 0o644))

	a, err := NewApplication(NewConfig(false, true, dir))
	require.NoError(t, err)
	before := a.Shell()

	require.NoError(t, os.WriteFile(path, []byte("agents:\n  enabled: false\n"), 0o644))
	require.NoError(t, a.Reload())

	assert.NotSame(t, before, a.Shell())
	assert.False(t, a.RouteOptions().AgentsEnabled)
}

func TestApplication_ReloadRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o644))

	a, err := NewApplication(NewConfig(false, true, dir))
	require.NoError(t, err)
	before := a.Shell()

	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o644))
	assert.Error(t, a.Reload())
	assert.Same(t, before, a.Shell())
	assert.Equal(t, 9000, a.Settings().Server.Port)
}

func TestApplication_UnmountWithoutMount(t *testing.T) {
	fc := config.GetDefaultConfig()
	cfg := NewConfig(false, true, "")
	cfg.FleetgateConfig = &fc
	a, err := NewApplication(cfg)
	require.NoError(t, err)

	a.Unmount()
	_, err = a.Remount()
	assert.ErrorIs(t, err, ErrNotMounted)

	assert.Equal(t, initseq.PhaseNotStarted, a.Shell().Snapshot().State.Phase)
}
