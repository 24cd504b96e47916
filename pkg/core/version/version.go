// ============================================================================
// fmwkit - FME workspace toolkit
// ============================================================================
//
// Package:     version
// Description: Central version management for the toolkit components
// Created:     2026-10-08
// License:     MIT
// ============================================================================

package version

import "fmt"

// Version constants for the fmwkit components
const (
	// Toolkit version
	Toolkit = "0.3.0"

	// Component versions
	Parser    = "0.3.0"
	Report    = "0.2.0"
	FMEServer = "0.2.0"
	TNSNames  = "0.1.0"
)

// Set at build time with -ldflags "-X ...".
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "parser", "fmw":
		return Parser
	case "report":
		return Report
	case "fmeserver":
		return FMEServer
	case "tnsnames":
		return TNSNames
	default:
		return Toolkit
	}
}

// String returns the toolkit version line printed by the CLI
func String() string {
	return fmt.Sprintf("fmwkit %s (commit %s, built %s)", Toolkit, Commit, BuildDate)
}
