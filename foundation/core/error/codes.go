// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across fmwkit so that parser,
//              cache, configuration and REST client failures can be told
//              apart by callers and by the CLI exit handling.
// Version: v0.2.0
// Created: 2026-09-28
// Modified: 2026-10-09
//
// Change History:
// - 2026-09-28 v0.1.0: Initial code table
// - 2026-10-09 v0.2.0: Added workspace field-map conflict code

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Input format
	CodeInvalidFormat Code = "INVALID_FORMAT"

	// Workspace analysis
	CodeFieldMapConflict Code = "FIELDMAP_CONFLICT"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"

	// Remote services
	CodeUnauthorized         Code = "UNAUTHORIZED"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"

	// Storage
	CodeStorageError Code = "STORAGE_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodeInvalidFormat, CodeFieldMapConflict,
		CodeConfigError, CodeMissingConfig,
		CodeUnauthorized, CodeServiceUnavailable, CodeExternalServiceError,
		CodeStorageError:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeInvalidFormat:
		return "format"
	case CodeFieldMapConflict:
		return "workspace"
	case CodeConfigError, CodeMissingConfig:
		return "configuration"
	case CodeUnauthorized, CodeServiceUnavailable, CodeExternalServiceError:
		return "service"
	case CodeStorageError:
		return "storage"
	default:
		return "generic"
	}
}

// ExitCode maps an error code to a process exit status for the CLI.
func (c Code) ExitCode() int {
	switch c {
	case CodeInvalidInput, CodeConfigError, CodeMissingConfig:
		return 2
	case CodeInvalidFormat:
		return 3
	case CodeNotFound:
		return 4
	case CodeUnauthorized, CodeServiceUnavailable, CodeExternalServiceError, CodeTimeout:
		return 5
	default:
		return 1
	}
}
