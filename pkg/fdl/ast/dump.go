// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     ast
// Description: Indented tree dump
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package ast

import (
	"strings"
)

// DumpIndent is the indentation per depth level used by Dump
const DumpIndent = "    "

// Dump renders n as an indented outline: one line per thing, followed by
// its props one level deeper.
func Dump(n Node) string {
	var b strings.Builder
	Walk(n, func(t, _ *Thing, depth int) {
		indent := strings.Repeat(DumpIndent, depth)
		b.WriteString(indent)
		b.WriteString(t.Name)
		b.WriteByte('\n')
		for _, p := range t.props.items {
			b.WriteString(indent)
			b.WriteString(DumpIndent)
			b.WriteString("- ")
			b.WriteString(p.String())
			b.WriteByte('\n')
		}
	})
	return b.String()
}
