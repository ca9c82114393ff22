// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     fdl
// Description: Forest statistics
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package fdl

import "github.com/msto63/fdl/pkg/fdl/ast"

// Stats summarizes the shape of a forest
type Stats struct {
	Roots    int `json:"roots"`
	Things   int `json:"things"`
	Props    int `json:"props"`
	MaxDepth int `json:"max_depth"`
}

// Summarize counts the things and props of f. A nil forest has zero stats.
func Summarize(f *ast.Forest) Stats {
	if f == nil {
		return Stats{}
	}
	s := Stats{Roots: f.Len()}
	ast.Walk(f, func(t, _ *ast.Thing, depth int) {
		s.Things++
		s.Props += t.NumProps()
		if depth+1 > s.MaxDepth {
			s.MaxDepth = depth + 1
		}
	})
	return s
}
