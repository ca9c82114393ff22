package ast

import (
	"strings"
	"testing"
)

func TestIndex(t *testing.T) {
	idx := NewIndex(sample())

	if idx.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", idx.Len())
	}

	h, ok := idx.Lookup("A", "B", "Inner")
	if !ok {
		t.Fatal("Lookup(A, B, Inner) failed")
	}
	e, _ := idx.Entry(h)
	if e.Thing.Name != "Inner" || e.Depth != 2 {
		t.Errorf("entry = %s depth %d", e.Thing.Name, e.Depth)
	}
	parent, _ := idx.Entry(e.Parent)
	if parent.Thing.Name != "B" {
		t.Errorf("parent = %s, want B", parent.Thing.Name)
	}

	root, _ := idx.Lookup("A")
	if e, _ := idx.Entry(root); e.Parent != NoHandle {
		t.Error("root entry should have no parent")
	}

	c, _ := idx.Lookup("A", "C")
	if e, _ := idx.Entry(c); e.Parent != root {
		t.Errorf("C parent = %d, want %d", e.Parent, root)
	}

	if idx.Thing(Handle(99)) != nil {
		t.Error("out of range handle should yield nil")
	}
}

func TestIndexKeysSurviveReparse(t *testing.T) {
	first := NewIndex(sample())
	second := NewIndex(sample())

	for _, e := range first.Entries() {
		h, ok := second.LookupKey(e.Key())
		if !ok {
			t.Errorf("key %q missing after rebuild", strings.Join(e.Path, "/"))
			continue
		}
		if second.Thing(h).Name != e.Thing.Name {
			t.Errorf("key %q maps to %s", e.Key(), second.Thing(h).Name)
		}
	}
}

func TestIndexKeysDoNotCollide(t *testing.T) {
	f := NewForest()
	a := NewThing("A")
	a.AddChild(NewThing("b\x1fc"))
	f.Add(a)
	ab := NewThing("A\x1fb")
	ab.AddChild(NewThing("c"))
	f.Add(ab)

	idx := NewIndex(f)
	seen := make(map[string]bool)
	for _, e := range idx.Entries() {
		if seen[e.Key()] {
			t.Errorf("duplicate key for path %q", e.Path)
		}
		seen[e.Key()] = true
	}

	h, ok := idx.Lookup("A", "b\x1fc")
	if !ok || idx.Thing(h).Name != "b\x1fc" {
		t.Error("Lookup(A, b\\x1fc) did not find the child of A")
	}
	h, ok = idx.Lookup("A\x1fb", "c")
	if !ok || idx.Thing(h).Name != "c" {
		t.Error("Lookup(A\\x1fb, c) did not find the child of A\\x1fb")
	}
	if _, ok := idx.Lookup("A", "b"); ok {
		t.Error("Lookup(A, b) should fail")
	}
}

func TestDump(t *testing.T) {
	f := sample()
	a, _ := f.Get("A")
	a.SetProp(NewIntProp("x", "1"))

	want := strings.Join([]string{
		"A",
		"    - int x = 1",
		"    B",
		"        Inner",
		"    C",
		"",
	}, "\n")
	if got := Dump(f); got != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", got, want)
	}
}
