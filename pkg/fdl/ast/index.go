// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     ast
// Description: Handle arena over the things of a tree
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package ast

import (
	"strconv"
	"strings"
)

// Handle identifies a thing within an Index
type Handle int

// NoHandle is the parent handle of a root entry
const NoHandle Handle = -1

// Entry describes one indexed thing
type Entry struct {
	Thing  *Thing
	Parent Handle
	Depth  int
	Path   []string
}

// Key returns the path of the entry as a single comparable string. Each
// segment is prefixed with its byte length, so distinct paths never share a
// key whatever characters the names contain.
func (e Entry) Key() string {
	return pathKey(e.Path)
}

func pathKey(path []string) string {
	var b strings.Builder
	for _, seg := range path {
		b.WriteString(strconv.Itoa(len(seg)))
		b.WriteByte(':')
		b.WriteString(seg)
	}
	return b.String()
}

// Index assigns a Handle to every thing of a tree in pre-order. Consumers
// keep per-thing state keyed by Handle or by path key instead of by pointer,
// so the state can be carried over to a freshly parsed tree.
type Index struct {
	entries []Entry
	byKey   map[string]Handle
}

// NewIndex builds an index over n
func NewIndex(n Node) *Index {
	idx := &Index{byKey: make(map[string]Handle)}
	var stack []Handle

	Walk(n, func(t, parent *Thing, depth int) {
		stack = stack[:depth]
		e := Entry{Thing: t, Parent: NoHandle, Depth: depth}
		if depth > 0 {
			e.Parent = stack[depth-1]
			e.Path = append(append([]string(nil), idx.entries[e.Parent].Path...), t.Name)
		} else {
			e.Path = []string{t.Name}
		}
		h := Handle(len(idx.entries))
		idx.entries = append(idx.entries, e)
		idx.byKey[e.Key()] = h
		stack = append(stack, h)
	})
	return idx
}

// Len returns the number of indexed things
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entry returns the entry for h
func (idx *Index) Entry(h Handle) (Entry, bool) {
	if h < 0 || int(h) >= len(idx.entries) {
		return Entry{}, false
	}
	return idx.entries[h], true
}

// Thing returns the thing for h, or nil
func (idx *Index) Thing(h Handle) *Thing {
	if e, ok := idx.Entry(h); ok {
		return e.Thing
	}
	return nil
}

// Lookup returns the handle of the thing at path
func (idx *Index) Lookup(path ...string) (Handle, bool) {
	return idx.LookupKey(pathKey(path))
}

// LookupKey returns the handle of the entry whose Key equals key
func (idx *Index) LookupKey(key string) (Handle, bool) {
	h, ok := idx.byKey[key]
	return h, ok
}

// Entries returns all entries in pre-order; the slice position is the handle
func (idx *Index) Entries() []Entry {
	out := make([]Entry, len(idx.entries))
	copy(out, idx.entries)
	return out
}
