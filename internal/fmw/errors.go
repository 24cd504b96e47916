package fmw

import (
	"fmt"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
)

// FormatError reports input that matches none of the expected shapes. It
// aborts the current parse.
type FormatError struct {
	Line   int // 1-based source line, 0 when unknown
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

// LookupError reports a published parameter or schema that could not be
// resolved. It fails the accessor call only.
type LookupError struct {
	Name   string
	Reason string
}

func (e *LookupError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Name)
	}
	return "parameter not found: " + e.Name
}

// ConflictWarning reports that both field-map extraction paths produced
// results for one workspace. It is never fatal.
type ConflictWarning struct {
	Renamer int
	Drawn   int
}

func (w *ConflictWarning) Error() string {
	return fmt.Sprintf("field maps found in %d renamer and %d drawn-line entries; results are concatenated",
		w.Renamer, w.Drawn)
}

// Code lets callers treat the warning like other coded errors.
func (w *ConflictWarning) Code() mdwerror.Code {
	return mdwerror.CodeFieldMapConflict
}

func formatErr(op string, line int, format string, args ...interface{}) error {
	return mdwerror.Wrap(&FormatError{Line: line, Reason: fmt.Sprintf(format, args...)}, op).
		WithCode(mdwerror.CodeInvalidFormat).
		WithOperation(op).
		WithDetail("line", line)
}

func lookupErr(op, name, reason string) error {
	return mdwerror.Wrap(&LookupError{Name: name, Reason: reason}, op).
		WithCode(mdwerror.CodeNotFound).
		WithOperation(op).
		WithDetail("name", name)
}
