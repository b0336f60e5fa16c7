// Package errors provides error types with actionable suggestions for the
// romple application. Errors include contextual information to help users
// resolve issues quickly.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors for use with errors.Is().
var (
	// ErrConfig indicates a configuration error.
	ErrConfig = errors.New("configuration error")
	// ErrManifest indicates a dependency manifest error.
	ErrManifest = errors.New("manifest error")
	// ErrDAT indicates a DAT file error.
	ErrDAT = errors.New("dat error")
	// ErrStore indicates a database error.
	ErrStore = errors.New("store error")
	// ErrScan indicates a ROM scan failure.
	ErrScan = errors.New("scan error")
	// ErrOrganize indicates a file organization failure.
	ErrOrganize = errors.New("organize error")
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")
)

// RompleError is the base error type for romple errors.
// It wraps an underlying error and provides additional context.
type RompleError struct {
	// Kind is the category of error (e.g., ErrConfig, ErrDAT).
	Kind error
	// Message is the human-readable error message.
	Message string
	// Suggestion provides actionable advice for resolving the error.
	Suggestion string
	// Cause is the underlying error that caused this error.
	Cause error
	// Details provides additional context (e.g., file path, system name).
	Details map[string]string
}

// Error implements the error interface.
func (e *RompleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *RompleError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports whether any error in err's chain matches the target.
func (e *RompleError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Format returns a formatted error message with suggestions.
func (e *RompleError) Format() string {
	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	if len(e.Details) > 0 {
		sb.WriteString("\nDetails:\n")
		for k, v := range e.Details {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, v))
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// WithDetails adds details to the error.
func (e *RompleError) WithDetails(key, value string) *RompleError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause of the error.
func (e *RompleError) WithCause(cause error) *RompleError {
	e.Cause = cause
	return e
}

// New creates a new RompleError with the given kind and message.
func New(kind error, message string) *RompleError {
	return &RompleError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind error, message string) *RompleError {
	return &RompleError{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// WithSuggestion creates a new error with a suggestion.
func WithSuggestion(kind error, message, suggestion string) *RompleError {
	return &RompleError{
		Kind:       kind,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Is re-exports the standard library's errors.Is so callers need only one
// errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As re-exports the standard library's errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
