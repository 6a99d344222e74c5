package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetgate/internal/config"
	"fleetgate/internal/view"
)

func TestSetVersion(t *testing.T) {
	original := rootCmd.Version
	defer func() { rootCmd.Version = original }()

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", GetVersion())
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "fleetgate", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("debug"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config-path"))
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "check", "agent", "routes", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{Use: "test", Version: "1.0.0"}
	testCmd.SetVersionTemplate(`{{printf "fleetgate version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	require.NoError(t, testCmd.Execute())
	assert.Equal(t, "fleetgate version 1.0.0\n", buf.String())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"generic", errors.New("boom"), ExitCodeError},
		{"configuration", fmt.Errorf("load: %w", config.ConfigurationError{FileName: "config.yaml"}), ExitCodeConfigError},
		{"missing role", &GateError{View: view.View{Kind: view.KindPermissionMissingRole}}, ExitCodePermissionDenied},
		{"request error", &GateError{View: view.View{Kind: view.KindPermissionRequestError}}, ExitCodePermissionDenied},
		{"security disabled", &GateError{View: view.View{Kind: view.KindPermissionSecurityDisabled}}, ExitCodePermissionDenied},
		{"initialization", fmt.Errorf("wrapped: %w", &GateError{View: view.View{Kind: view.KindInitializationError}}), ExitCodeInitializationError},
		{"loading", &GateError{View: view.View{Kind: view.KindLoading}}, ExitCodeError},
		{"agent not found", fmt.Errorf("Cannot find agent ID x: %w", errAgentNotFound), ExitCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestGateError(t *testing.T) {
	err := &GateError{View: view.View{Title: "Permission denied", Body: "needs superuser"}}
	assert.Equal(t, "Permission denied: needs superuser", err.Error())

	err = &GateError{View: view.View{Title: "Loading"}}
	assert.Equal(t, "Loading", err.Error())
}
