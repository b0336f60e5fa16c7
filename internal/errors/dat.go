// Package errors provides error types for romple.
// This file contains DAT ingestion and scanning errors.
package errors

import (
	"fmt"
)

// DATParseError creates an error for a DAT file that could not be parsed.
func DATParseError(path string, parseErr error) *RompleError {
	return &RompleError{
		Kind:    ErrDAT,
		Message: fmt.Sprintf("failed to parse DAT file: %s", path),
		Cause:   parseErr,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: `Check that the file is a valid No-Intro DAT:
  1. The file must be well-formed XML
  2. It should contain a <header> and one or more <game> elements
  3. Re-download the DAT if the file appears truncated`,
	}
}

// SystemNotFound creates an error for an unknown system name.
func SystemNotFound(name string) *RompleError {
	return &RompleError{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("system not found: %s", name),
		Details: map[string]string{
			"system": name,
		},
		Suggestion: `Import a DAT file for this system first:

  romple dat import <file.dat>

List known systems with:

  romple dat list`,
	}
}

// ScanFolderError creates an error for an unreadable ROM folder.
func ScanFolderError(path string, cause error) *RompleError {
	return &RompleError{
		Kind:    ErrScan,
		Message: fmt.Sprintf("cannot scan folder: %s", path),
		Cause:   cause,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: "Check that the folder exists and is readable.",
	}
}
