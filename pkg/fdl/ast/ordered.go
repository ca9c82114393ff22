// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     ast
// Description: Insertion-ordered keyed container
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package ast

// ordered maps unique keys to values and remembers first-insertion order.
// Overwriting a key keeps its original slot.
type ordered[V any] struct {
	index map[string]int
	items []V
}

func (o *ordered[V]) set(key string, v V) (prev V, replaced bool) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		prev = o.items[i]
		o.items[i] = v
		return prev, true
	}
	o.index[key] = len(o.items)
	o.items = append(o.items, v)
	return prev, false
}

func (o *ordered[V]) get(key string) (V, bool) {
	if i, ok := o.index[key]; ok {
		return o.items[i], true
	}
	var zero V
	return zero, false
}

func (o *ordered[V]) len() int {
	return len(o.items)
}

func (o *ordered[V]) values() []V {
	out := make([]V, len(o.items))
	copy(out, o.items)
	return out
}
