// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors. The logger uses the
//              severity to choose the level an error is reported at.
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow marks recoverable conditions, e.g. a parameter that
	// could not be resolved for one accessor call
	SeverityLow Severity = iota

	// SeverityMedium marks failures of a single operation
	SeverityMedium

	// SeverityHigh marks failures that abort the current command
	SeverityHigh

	// SeverityCritical marks failures that leave the tool unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeStorageError, CodeInternal:
		return SeverityHigh
	case CodeUnauthorized, CodeServiceUnavailable, CodeExternalServiceError,
		CodeTimeout, CodeConfigError, CodeMissingConfig, CodeInvalidFormat:
		return SeverityMedium
	case CodeNotFound, CodeInvalidInput, CodeFieldMapConflict:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
