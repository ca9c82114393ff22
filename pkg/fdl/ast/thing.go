// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     ast
// Description: Things and forests
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package ast

// Thing is a named node owning its props and child things. Names are unique
// within a container; adding a second entry under an existing name replaces
// the first.
type Thing struct {
	Name     string
	props    ordered[*Prop]
	children ordered[*Thing]
}

// NewThing creates an empty thing
func NewThing(name string) *Thing {
	return &Thing{Name: name}
}

// SetProp stores p under p.Name and returns the prop it replaced, if any
func (t *Thing) SetProp(p *Prop) (*Prop, bool) {
	return t.props.set(p.Name, p)
}

// AddChild stores c under c.Name and returns the child it replaced, if any
func (t *Thing) AddChild(c *Thing) (*Thing, bool) {
	return t.children.set(c.Name, c)
}

// Prop returns the prop with the given name
func (t *Thing) Prop(name string) (*Prop, bool) {
	return t.props.get(name)
}

// Child returns the direct child with the given name
func (t *Thing) Child(name string) (*Thing, bool) {
	return t.children.get(name)
}

func (t *Thing) NumProps() int    { return t.props.len() }
func (t *Thing) NumChildren() int { return t.children.len() }

// Props returns the props in insertion order
func (t *Thing) Props() []*Prop {
	return t.props.values()
}

// Children returns the direct children in insertion order
func (t *Thing) Children() []*Thing {
	return t.children.values()
}

// Lookup descends through children by name. An empty path returns t.
func (t *Thing) Lookup(path ...string) (*Thing, bool) {
	cur := t
	for _, name := range path {
		next, ok := cur.children.get(name)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Forest is the parse result: the top-level things keyed by name
type Forest struct {
	roots ordered[*Thing]
}

// NewForest creates an empty forest
func NewForest() *Forest {
	return &Forest{}
}

// Add stores a root thing and returns the root it replaced, if any
func (f *Forest) Add(t *Thing) (*Thing, bool) {
	return f.roots.set(t.Name, t)
}

// Get returns the root thing with the given name
func (f *Forest) Get(name string) (*Thing, bool) {
	return f.roots.get(name)
}

// Len returns the number of root things
func (f *Forest) Len() int {
	return f.roots.len()
}

// Roots returns the root things in insertion order
func (f *Forest) Roots() []*Thing {
	return f.roots.values()
}

// Lookup resolves a path whose first element names a root
func (f *Forest) Lookup(path ...string) (*Thing, bool) {
	if len(path) == 0 {
		return nil, false
	}
	root, ok := f.roots.get(path[0])
	if !ok {
		return nil, false
	}
	return root.Lookup(path[1:]...)
}
