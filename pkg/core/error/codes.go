// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     error
// Description: Error codes and severities for the FDL toolkit
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package error

// Code classifies an error for reporting and exit handling.
type Code string

const (
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"

	// Source processing
	CodeSyntax Code = "SYNTAX"
	CodeValue  Code = "VALUE"
	CodeIO     Code = "IO"

	// Application layer
	CodeConfig Code = "CONFIG"
	CodeStore  Code = "STORE"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// Category groups codes for display.
func (c Code) Category() string {
	switch c {
	case CodeSyntax, CodeValue:
		return "source"
	case CodeIO, CodeNotFound:
		return "filesystem"
	case CodeConfig:
		return "configuration"
	case CodeStore:
		return "storage"
	default:
		return "general"
	}
}

// Severity is the importance of an error.
type Severity int

const (
	// SeverityLow marks problems caused by user input, e.g. a malformed source file
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
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

// defaultSeverity returns the severity a code carries unless overridden
func defaultSeverity(c Code) Severity {
	switch c {
	case CodeSyntax, CodeValue, CodeInvalidInput, CodeNotFound:
		return SeverityLow
	case CodeInternal, CodeStore:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
