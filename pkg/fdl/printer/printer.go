// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     printer
// Description: Canonical FDL source output
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

// Package printer writes forests back out as FDL source. Within a thing,
// props come first and child things follow, each group in insertion order.
// Parsing the output yields an equal forest.
package printer

import (
	"io"
	"strings"

	"github.com/msto63/fdl/pkg/fdl/ast"
	"github.com/msto63/fdl/pkg/fdl/lexer"
	"github.com/msto63/fdl/pkg/fdl/parser"
)

// DefaultIndent is used when Config.Indent is empty
const DefaultIndent = "    "

// Config controls the layout of printed source
type Config struct {
	Indent string
}

// Fprint writes n to w using the default layout
func Fprint(w io.Writer, n ast.Node) error {
	return (&Config{}).Fprint(w, n)
}

// Fprint writes n to w as FDL source
func (c *Config) Fprint(w io.Writer, n ast.Node) error {
	indent := c.Indent
	if indent == "" {
		indent = DefaultIndent
	}

	var b strings.Builder
	switch node := n.(type) {
	case *ast.Forest:
		for i, root := range node.Roots() {
			if i > 0 {
				b.WriteByte('\n')
			}
			writeThing(&b, root, indent, 0)
		}
	case *ast.Thing:
		writeThing(&b, node, indent, 0)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Format parses src and returns its canonical form
func Format(src string) (string, error) {
	forest, err := parser.Parse(lexer.Tokenize(src))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := Fprint(&b, forest); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeThing(b *strings.Builder, t *ast.Thing, indent string, depth int) {
	pad := strings.Repeat(indent, depth)
	b.WriteString(pad)
	b.WriteString(`thing "`)
	b.WriteString(t.Name)
	b.WriteString(`" {`)

	if t.NumProps() == 0 && t.NumChildren() == 0 {
		b.WriteString("}\n")
		return
	}
	b.WriteByte('\n')

	for _, p := range t.Props() {
		b.WriteString(pad)
		b.WriteString(indent)
		b.WriteString(p.String())
		b.WriteByte('\n')
	}
	for _, c := range t.Children() {
		writeThing(b, c, indent, depth+1)
	}

	b.WriteString(pad)
	b.WriteString("}\n")
}
