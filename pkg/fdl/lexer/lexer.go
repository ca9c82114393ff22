// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     lexer
// Description: Tokenizer turning FDL source into a lazy token sequence
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package lexer

import (
	"iter"
	"unicode"
)

// eof is returned by peek past the end of the input
const eof rune = -1

// Lexer converts source text into tokens one at a time. A Lexer cannot be
// rewound; create a new one to restart.
type Lexer struct {
	source       []rune
	index        int
	line         int
	lineStartIdx int
}

// New creates a lexer over src
func New(src string) *Lexer {
	return &Lexer{source: []rune(src)}
}

// Next returns the next token and its position. ok is false once the input
// is exhausted; further calls keep returning false.
func (l *Lexer) Next() (tok Token, pos Position, ok bool) {
	l.skipWhitespace()

	pos = Position{Line: l.line, Column: l.index - l.lineStartIdx}

	c := l.peek(0)
	switch {
	case c == eof:
		return Token{}, pos, false
	case isDigit(c):
		return l.readNumber(), pos, true
	case unicode.IsLetter(c):
		return l.readWord(), pos, true
	case c == '"':
		return l.readString(), pos, true
	default:
		l.index++
		return Token{Kind: Symbol, Literal: string(c)}, pos, true
	}
}

// All returns the remaining tokens as a lazy sequence
func (l *Lexer) All() iter.Seq2[Token, Position] {
	return func(yield func(Token, Position) bool) {
		for {
			tok, pos, ok := l.Next()
			if !ok || !yield(tok, pos) {
				return
			}
		}
	}
}

// Tokenize returns a lazy token sequence for src. Each iteration of the
// returned sequence starts from the beginning of src.
func Tokenize(src string) iter.Seq2[Token, Position] {
	return func(yield func(Token, Position) bool) {
		for tok, pos := range New(src).All() {
			if !yield(tok, pos) {
				return
			}
		}
	}
}

// Collect tokenizes src eagerly
func Collect(src string) []Item {
	var items []Item
	for tok, pos := range Tokenize(src) {
		items = append(items, Item{Token: tok, Pos: pos})
	}
	return items
}

func (l *Lexer) peek(offset int) rune {
	i := l.index + offset
	if i < 0 || i >= len(l.source) {
		return eof
	}
	return l.source[i]
}

func (l *Lexer) skipWhitespace() {
	for c := l.peek(0); c != eof && unicode.IsSpace(c); c = l.peek(0) {
		if c == '\n' {
			l.line++
			l.lineStartIdx = l.index + 1
		}
		l.index++
	}
}

// readNumber consumes digits, taking a '.' only when a digit follows it
func (l *Lexer) readNumber() Token {
	start := l.index
	for {
		c := l.peek(0)
		if isDigit(c) || (c == '.' && isDigit(l.peek(1))) {
			l.index++
			continue
		}
		break
	}
	return Token{Kind: Number, Literal: string(l.source[start:l.index])}
}

func (l *Lexer) readWord() Token {
	start := l.index
	for c := l.peek(0); c != eof && (unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'); c = l.peek(0) {
		l.index++
	}
	return Token{Kind: Word, Literal: string(l.source[start:l.index])}
}

// readString consumes from the opening quote through the first quote that
// is not directly preceded by a backslash. Newlines are kept verbatim in the
// literal and still count as lines. An unterminated string runs to the end
// of input.
func (l *Lexer) readString() Token {
	start := l.index
	l.index++ // opening quote

	for {
		c := l.peek(0)
		if c == eof {
			break
		}
		if c == '\n' {
			l.line++
			l.lineStartIdx = l.index + 1
		}
		l.index++
		if c == '"' && l.peek(-2) != '\\' {
			break
		}
	}
	return Token{Kind: String, Literal: string(l.source[start:l.index])}
}

// IsTerminated reports whether a String literal produced by the lexer ends
// with a closing quote. It applies the same escape rule as the lexer.
func IsTerminated(literal string) bool {
	r := []rune(literal)
	if len(r) < 2 || r[0] != '"' || r[len(r)-1] != '"' {
		return false
	}
	return len(r) == 2 || r[len(r)-2] != '\\'
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
