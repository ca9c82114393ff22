// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     fdl
// Description: Entry points for loading and parsing FDL documents
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

// Package fdl ties the language core to the application layer. It reads
// documents from disk, runs the lexer and parser, and converts failures into
// coded errors while keeping the *parser.ParseError reachable through
// errors.As.
package fdl

import (
	"errors"
	"io/fs"
	"os"

	fdlerr "github.com/msto63/fdl/pkg/core/error"
	"github.com/msto63/fdl/pkg/fdl/ast"
	"github.com/msto63/fdl/pkg/fdl/lexer"
	"github.com/msto63/fdl/pkg/fdl/parser"
)

// ReadSource reads the document at path
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := fdlerr.CodeIO
		if errors.Is(err, fs.ErrNotExist) {
			code = fdlerr.CodeNotFound
		}
		return "", fdlerr.Wrap(err, "failed to read document").
			WithCode(code).
			WithOperation("fdl.read").
			WithDetail("path", path)
	}
	return string(data), nil
}

// ParseSource parses src with p. A nil p uses default options.
func ParseSource(p *parser.Parser, src string) (*ast.Forest, error) {
	if p == nil {
		p = parser.New(parser.Options{})
	}
	forest, err := p.Parse(lexer.Tokenize(src))
	if err != nil {
		return nil, wrapParseError(err)
	}
	return forest, nil
}

// Load reads and parses the document at path
func Load(path string) (*ast.Forest, error) {
	return LoadWith(nil, path)
}

// LoadWith reads the document at path and parses it with p
func LoadWith(p *parser.Parser, path string) (*ast.Forest, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	forest, err := ParseSource(p, src)
	if err != nil {
		var coded *fdlerr.Error
		if errors.As(err, &coded) {
			coded.WithDetail("path", path)
		}
		return nil, err
	}
	return forest, nil
}

// FormatError renders err for humans. Parse errors use the
// "line L:C - message" form.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	if pe, ok := parser.AsParseError(err); ok {
		return pe.Error()
	}
	return err.Error()
}

func wrapParseError(err error) error {
	pe, ok := parser.AsParseError(err)
	if !ok {
		return fdlerr.Wrap(err, "parse failed").WithCode(fdlerr.CodeInternal)
	}
	code := fdlerr.CodeSyntax
	if pe.Kind == parser.Value {
		code = fdlerr.CodeValue
	}
	return fdlerr.Wrap(err, "parse failed").
		WithCode(code).
		WithOperation("fdl.parse").
		WithDetail("line", pe.Pos.Line).
		WithDetail("column", pe.Pos.Column)
}
