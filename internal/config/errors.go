package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Error types used in ConfigurationError.
const (
	ErrorTypeIO         = "io"
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
)

// ConfigurationError represents a structured error that occurs during configuration loading
type ConfigurationError struct {
	FilePath    string   `json:"filePath"`    // Full path to the file that caused the error
	FileName    string   `json:"fileName"`    // Base name of the file
	ErrorType   string   `json:"errorType"`   // Type of error (parse, validation, io)
	Message     string   `json:"message"`     // Human-readable error message
	Suggestions []string `json:"suggestions"` // Actionable suggestions to fix the error
}

// Error implements the error interface
func (ce ConfigurationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ce.ErrorType, ce.FileName, ce.Message)
}

// DetailedError returns a detailed error message with all context
func (ce ConfigurationError) DetailedError() string {
	parts := []string{
		fmt.Sprintf("Configuration Error in %s", ce.FileName),
		fmt.Sprintf("  File: %s", ce.FilePath),
		fmt.Sprintf("  Type: %s", ce.ErrorType),
		fmt.Sprintf("  Error: %s", ce.Message),
	}
	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, suggestion := range ce.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", suggestion))
		}
	}
	return strings.Join(parts, "\n")
}

// IsConfigurationError checks if an error is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce ConfigurationError
	return errors.As(err, &ce)
}

func newConfigurationError(path, errorType, message string) ConfigurationError {
	return ConfigurationError{
		FilePath:    path,
		FileName:    filepath.Base(path),
		ErrorType:   errorType,
		Message:     message,
		Suggestions: suggestionsFor(errorType),
	}
}

func suggestionsFor(errorType string) []string {
	switch errorType {
	case ErrorTypeParse:
		return []string{
			"Check YAML indentation (spaces, not tabs)",
			"Durations take a unit, e.g. 5s or 1m",
		}
	case ErrorTypeValidation:
		return []string{
			"kibana.url must include the scheme, e.g. https://kibana.example.com:5601",
			"Credentials can come from FLEETGATE_KIBANA_USERNAME / FLEETGATE_KIBANA_PASSWORD or FLEETGATE_KIBANA_API_KEY",
		}
	case ErrorTypeIO:
		return []string{"Check that the file exists and is readable"}
	}
	return nil
}
