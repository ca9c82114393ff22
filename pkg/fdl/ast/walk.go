// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     ast
// Description: Pre-order traversal with early-exit control
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package ast

// Node is a traversal root: a *Forest or a *Thing
type Node interface {
	walkRoots() []*Thing
}

func (f *Forest) walkRoots() []*Thing {
	if f == nil {
		return nil
	}
	return f.roots.items
}

func (t *Thing) walkRoots() []*Thing {
	if t == nil {
		return nil
	}
	return []*Thing{t}
}

// Control tells WalkControlled how to proceed after a visit
type Control int

const (
	// Continue descends into the children of the visited thing
	Continue Control = iota
	// StopSubtree skips the children of the visited thing
	StopSubtree
	// StopAll ends the traversal
	StopAll
)

func (c Control) String() string {
	switch c {
	case Continue:
		return "continue"
	case StopSubtree:
		return "stop-subtree"
	case StopAll:
		return "stop-all"
	default:
		return "unknown"
	}
}

// VisitFunc receives each thing with its parent (nil for roots of the walk)
// and its depth relative to the starting node.
type VisitFunc func(t, parent *Thing, depth int)

// ControlFunc is a VisitFunc that steers the traversal
type ControlFunc func(t, parent *Thing, depth int) Control

// Walk visits every thing under n in pre-order. Siblings are visited in
// insertion order.
func Walk(n Node, visit VisitFunc) {
	WalkControlled(n, func(t, parent *Thing, depth int) Control {
		visit(t, parent, depth)
		return Continue
	})
}

// WalkControlled visits things under n in pre-order, honoring the Control
// returned by visit. It returns StopAll if the walk was aborted and Continue
// otherwise.
func WalkControlled(n Node, visit ControlFunc) Control {
	if n == nil {
		return Continue
	}
	for _, root := range n.walkRoots() {
		if walk(root, nil, 0, visit) == StopAll {
			return StopAll
		}
	}
	return Continue
}

func walk(t, parent *Thing, depth int, visit ControlFunc) Control {
	switch visit(t, parent, depth) {
	case StopAll:
		return StopAll
	case StopSubtree:
		return Continue
	}
	for _, child := range t.children.items {
		if walk(child, t, depth+1, visit) == StopAll {
			return StopAll
		}
	}
	return Continue
}
