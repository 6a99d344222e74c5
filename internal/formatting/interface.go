// Package formatting renders command results for the terminal.
//
// Every command that prints structured data goes through a Formatter so
// that --output behaves the same everywhere: table output is meant for
// people, json and yaml for scripts.
package formatting

import (
	"fmt"
	"io"
	"os"

	"fleetgate/internal/agentdetails"
	"fleetgate/internal/routes"
	"fleetgate/internal/view"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
	FormatTable OutputFormat = "table" // Rich table output
)

// ParseOutputFormat validates a --output value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatJSON, FormatYAML, FormatTable:
		return OutputFormat(s), nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("unsupported output format %q (want table, json or yaml)", s)
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool      // Suppress decorative elements
	Out    io.Writer // Defaults to os.Stdout
}

// GateReport is the result of one initialization check.
type GateReport struct {
	KibanaURL           string    `json:"kibanaUrl" yaml:"kibanaUrl"`
	AttemptID           string    `json:"attemptId" yaml:"attemptId"`
	Phase               string    `json:"phase" yaml:"phase"`
	View                view.View `json:"view" yaml:"view"`
	InitializationError string    `json:"initializationError,omitempty" yaml:"initializationError,omitempty"`
	Duration            string    `json:"duration" yaml:"duration"`
}

// Formatter renders fleetgate results.
type Formatter interface {
	FormatGate(report GateReport) error
	FormatAgentPage(page agentdetails.Page) error
	FormatRoutes(entries []routes.Entry) error
}

// New creates the formatter for options.Format.
func New(options Options) Formatter {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	switch options.Format {
	case FormatJSON:
		return &JSONFormatter{options: options}
	case FormatYAML:
		return &YAMLFormatter{options: options}
	default:
		return &TableFormatter{options: options}
	}
}
