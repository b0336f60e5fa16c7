// Package errors provides error types for romple.
// This file contains configuration-related errors.
package errors

import (
	"fmt"
	"strings"
)

// ConfigNotFound creates an error for missing configuration.
func ConfigNotFound(configPath string) *RompleError {
	return &RompleError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("configuration file not found: %s", configPath),
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Initialize romple first:

  Option 1: Write the default configuration
    romple init

  Option 2: Create the config manually
    mkdir -p .romple
    touch .romple/config.yaml`,
	}
}

// ConfigParseError creates an error for YAML parsing failures.
func ConfigParseError(configPath string, parseErr error) *RompleError {
	return &RompleError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("failed to parse configuration: %s", configPath),
		Cause:   parseErr,
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Check your config.yaml for syntax errors:
  1. Ensure proper YAML indentation (use spaces, not tabs)
  2. Check for missing colons or quotes
  3. Lists need a proper '- ' prefix`,
	}
}

// ConfigValidationError creates an error for invalid configuration values.
func ConfigValidationError(field, message string, validOptions []string) *RompleError {
	suggestion := fmt.Sprintf("Fix the %q field in .romple/config.yaml", field)
	if len(validOptions) > 0 {
		suggestion += fmt.Sprintf("\n  Valid options: %s", strings.Join(validOptions, ", "))
	}
	return &RompleError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("invalid configuration: %s: %s", field, message),
		Details: map[string]string{
			"field": field,
		},
		Suggestion: suggestion,
	}
}
