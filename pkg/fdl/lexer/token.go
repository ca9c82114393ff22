// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     lexer
// Description: Token kinds, tokens and source positions
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package lexer

import "fmt"

// Kind classifies a token
type Kind int

const (
	String Kind = iota // "quoted", literal keeps the quotes
	Number             // 12, 12.5
	Word               // thing, int, my_prop2
	Symbol             // any other single character
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case String:
		return "STRING"
	case Number:
		return "NUMBER"
	case Word:
		return "WORD"
	case Symbol:
		return "SYMBOL"
	default:
		return "UNKNOWN"
	}
}

// Token is a classified lexical unit. Literal is the exact source text.
type Token struct {
	Kind    Kind
	Literal string
}

// String returns a debug representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Literal)
}

// Is reports whether t has the given kind and literal
func (t Token) Is(kind Kind, literal string) bool {
	return t.Kind == kind && t.Literal == literal
}

// Position locates a token. Line and Column are zero-based; Column counts
// code points from the start of the line.
type Position struct {
	Line   int
	Column int
}

// String renders the position as line:column
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Item pairs a token with its position
type Item struct {
	Token Token
	Pos   Position
}
