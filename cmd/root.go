package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fleetgate/internal/config"
	"fleetgate/internal/view"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfigError indicates the configuration could not be loaded or is invalid.
	ExitCodeConfigError = 2
	// ExitCodePermissionDenied indicates Fleet refused access (including a failed permission check).
	ExitCodePermissionDenied = 3
	// ExitCodeInitializationError indicates Fleet setup reported an error.
	ExitCodeInitializationError = 4
	// ExitCodeNotFound indicates a requested agent does not exist.
	ExitCodeNotFound = 5
)

// Flags shared by every command.
var (
	debug      bool
	configPath string
)

// GateError is returned when the console cannot be used because the
// initialization sequence settled on anything but the main view.
type GateError struct {
	View view.View
}

func (e *GateError) Error() string {
	if e.View.Body == "" {
		return e.View.Title
	}
	return fmt.Sprintf("%s: %s", e.View.Title, e.View.Body)
}

// errAgentNotFound marks a missing agent for exit code purposes.
var errAgentNotFound = errors.New("agent not found")

// rootCmd represents the base command for the fleetgate application.
var rootCmd = &cobra.Command{
	Use:   "fleetgate",
	Short: "Permission-gated front door for the Fleet console",
	Long: `fleetgate checks whether the configured Kibana user may use Fleet,
runs Fleet setup, and serves the resulting console state over HTTP.

It can also be used one-shot: 'fleetgate check' runs the initialization
sequence once and exits with a code describing the outcome.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "fleetgate version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if config.IsConfigurationError(err) {
		return ExitCodeConfigError
	}

	var gateErr *GateError
	if errors.As(err, &gateErr) {
		switch {
		case gateErr.View.Kind.IsPermissionError():
			return ExitCodePermissionDenied
		case gateErr.View.Kind == view.KindInitializationError:
			return ExitCodeInitializationError
		}
		return ExitCodeError
	}

	if errors.Is(err, errAgentNotFound) {
		return ExitCodeNotFound
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "", "Configuration directory or file (default ~/.config/fleetgate)")
}
