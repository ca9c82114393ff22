// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     parser
// Description: Stack-based parser building a forest from a token sequence
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package parser

import (
	"iter"

	"github.com/msto63/fdl/pkg/core/log"
	"github.com/msto63/fdl/pkg/fdl/ast"
	"github.com/msto63/fdl/pkg/fdl/lexer"
)

// Options configures parser behavior
type Options struct {
	// Logger receives debug traces. Nil discards them.
	Logger *log.Logger
}

// Parser turns token sequences into forests. A Parser holds no state
// between calls and may be reused.
type Parser struct {
	logger *log.Logger
}

// New creates a parser with the given options
func New(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}
	return &Parser{
		logger: opts.Logger.WithField("component", "fdl-parser"),
	}
}

// Parse consumes tokens and returns the completed forest. It stops at the
// first error, which is always a *ParseError.
func (p *Parser) Parse(tokens iter.Seq2[lexer.Token, lexer.Position]) (*ast.Forest, error) {
	next, stop := iter.Pull2(tokens)
	defer stop()

	s := &state{next: next, forest: ast.NewForest()}

	p.logger.Debug("Starting FDL parsing")

	if err := s.run(); err != nil {
		p.logger.Debug("FDL parsing failed", log.Fields{
			"error":  err.Error(),
			"tokens": s.consumed,
		})
		return nil, err
	}

	p.logger.Debug("FDL parsing completed", log.Fields{
		"tokens": s.consumed,
		"roots":  s.forest.Len(),
	})
	return s.forest, nil
}

// Parse parses tokens with default options
func Parse(tokens iter.Seq2[lexer.Token, lexer.Position]) (*ast.Forest, error) {
	return New(Options{}).Parse(tokens)
}

// ParseString tokenizes and parses src with default options
func ParseString(src string) (*ast.Forest, error) {
	return Parse(lexer.Tokenize(src))
}

// state is the working set of a single parse: the forest of completed
// roots and the stack of open things, innermost last.
type state struct {
	next     func() (lexer.Token, lexer.Position, bool)
	forest   *ast.Forest
	stack    []*ast.Thing
	last     lexer.Position
	consumed int
}

func (s *state) advance() (lexer.Token, lexer.Position, bool) {
	tok, pos, ok := s.next()
	if ok {
		s.last = pos
		s.consumed++
	}
	return tok, pos, ok
}

func (s *state) run() error {
	for {
		tok, pos, ok := s.advance()
		if !ok {
			return s.finish()
		}

		var err error
		switch {
		case tok.Is(lexer.Word, "thing"):
			err = s.thingDecl()
		case tok.Is(lexer.Symbol, "}"):
			err = s.closeThing(pos)
		case tok.Kind == lexer.Word:
			typ, isType := ast.ParsePropType(tok.Literal)
			if !isType {
				err = structuralf(pos, "unexpected token `%s`", tok.Literal)
				break
			}
			err = s.propDecl(typ, pos)
		default:
			err = structuralf(pos, "unexpected token `%s`", tok.Literal)
		}
		if err != nil {
			return err
		}
	}
}

// thingDecl handles STRING "{" after the thing keyword
func (s *state) thingDecl() error {
	name, pos, ok := s.advance()
	if !ok {
		return structuralf(s.last, "expected string name after keyword `thing`")
	}
	if name.Kind != lexer.String {
		return structuralf(pos, "expected string name after keyword `thing`")
	}
	if !lexer.IsTerminated(name.Literal) {
		return structuralf(pos, "unterminated string literal")
	}

	brace, pos, ok := s.advance()
	if !ok {
		return structuralf(s.last, "expected `{` after thing name")
	}
	if !brace.Is(lexer.Symbol, "{") {
		return structuralf(pos, "expected `{` after thing name")
	}

	s.stack = append(s.stack, ast.NewThing(ast.StripQuotes(name.Literal)))
	return nil
}

// propDecl handles WORD "=" VALUE after a type word
func (s *state) propDecl(typ ast.PropType, typePos lexer.Position) error {
	if len(s.stack) == 0 {
		return structuralf(typePos, "prop defined outside of any thing")
	}

	name, pos, ok := s.advance()
	if !ok {
		return structuralf(s.last, "expected prop name after type `%s`", typ)
	}
	if name.Kind != lexer.Word {
		return structuralf(pos, "expected prop name after type `%s`", typ)
	}

	eq, pos, ok := s.advance()
	if !ok {
		return structuralf(s.last, "expected `=` after prop name `%s`", name.Literal)
	}
	if !eq.Is(lexer.Symbol, "=") {
		return structuralf(pos, "expected `=` after prop name `%s`", name.Literal)
	}

	literal, pos, err := s.value(typ)
	if err != nil {
		return err
	}

	prop := ast.NewProp(typ, name.Literal, literal)
	if prop.Value.IsError() {
		return valuef(pos, "cannot convert `%s` to %s", literal, typ)
	}

	s.stack[len(s.stack)-1].SetProp(prop)
	return nil
}

// value reads the literal of a prop value. Any single token is accepted and
// left to the type conversion. A `-` symbol in front of a numeric value
// joins the literal that follows it.
func (s *state) value(typ ast.PropType) (string, lexer.Position, error) {
	tok, pos, ok := s.advance()
	if !ok {
		return "", s.last, structuralf(s.last, "expected value after `=`")
	}

	numeric := typ == ast.TypeInt || typ == ast.TypeFloat
	switch {
	case tok.Is(lexer.Symbol, "-") && numeric:
		rest, _, ok := s.advance()
		if !ok {
			return "", s.last, structuralf(s.last, "expected number after `-`")
		}
		return "-" + rest.Literal, pos, nil
	case tok.Kind == lexer.String && !lexer.IsTerminated(tok.Literal):
		return "", pos, structuralf(pos, "unterminated string literal")
	}
	return tok.Literal, pos, nil
}

func (s *state) closeThing(pos lexer.Position) error {
	if len(s.stack) == 0 {
		return structuralf(pos, "unexpected closing brace")
	}

	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]

	if len(s.stack) > 0 {
		s.stack[len(s.stack)-1].AddChild(top)
	} else {
		s.forest.Add(top)
	}
	return nil
}

// finish reports a thing left open at the end of the stream. The error is
// positioned at the last token read.
func (s *state) finish() error {
	if len(s.stack) == 0 {
		return nil
	}
	open := s.stack[len(s.stack)-1]
	return structuralf(s.last, "thing `%s` is missing a closing brace `}`", open.Name)
}
