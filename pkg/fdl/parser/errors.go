// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     parser
// Description: Parse error type
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package parser

import (
	"errors"
	"fmt"

	"github.com/msto63/fdl/pkg/fdl/lexer"
)

// ErrorKind classifies a ParseError
type ErrorKind int

const (
	// Structural errors violate the grammar
	Structural ErrorKind = iota
	// Value errors carry a literal that does not convert to its declared type
	Value
)

func (k ErrorKind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Value:
		return "value"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError is the single error a parse stops at
type ParseError struct {
	Pos     lexer.Position
	Message string
	Kind    ErrorKind
}

// Error renders "line L:C - message" with zero-based counters
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d:%d - %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// AsParseError extracts a *ParseError from an error chain
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func structuralf(pos lexer.Position, format string, args ...interface{}) *ParseError {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...), Kind: Structural}
}

func valuef(pos lexer.Position, format string, args ...interface{}) *ParseError {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...), Kind: Value}
}
