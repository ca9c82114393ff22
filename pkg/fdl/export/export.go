// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     export
// Description: Forest conversion to JSON, YAML and TOML
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

// Package export converts forests into generic documents. Every thing maps
// to an object with an optional "props" table of scalar values and an
// optional "things" table of child objects:
//
//	{"Server": {"props": {"port": 8080}, "things": {"TLS": {...}}}}
//
// Props whose value is the error marker are left out.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/msto63/fdl/pkg/fdl/ast"
)

const (
	PropsKey  = "props"
	ThingsKey = "things"
)

// Format is an output encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat maps a format name (case-insensitive, "yml" accepted) to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ToMap converts f into nested maps keyed by thing and prop names
func ToMap(f *ast.Forest) map[string]interface{} {
	return forestMap(f, false)
}

// ToJSONMap is ToMap with non-finite floats written as their literal
// (`Inf`, `-Inf`, `NaN`), which JSON cannot represent as numbers.
func ToJSONMap(f *ast.Forest) map[string]interface{} {
	return forestMap(f, true)
}

// ThingMap converts a single thing and its subtree
func ThingMap(t *ast.Thing) map[string]interface{} {
	return thingMap(t, false)
}

func forestMap(f *ast.Forest, jsonSafe bool) map[string]interface{} {
	out := make(map[string]interface{}, f.Len())
	for _, root := range f.Roots() {
		out[root.Name] = thingMap(root, jsonSafe)
	}
	return out
}

func thingMap(t *ast.Thing, jsonSafe bool) map[string]interface{} {
	m := make(map[string]interface{}, 2)

	props := make(map[string]interface{}, t.NumProps())
	for _, p := range t.Props() {
		if p.Value.IsError() {
			continue
		}
		props[p.Name] = p.Value.Interface()
		if f, ok := p.Value.AsFloat(); ok && jsonSafe && !isFinite(f) {
			props[p.Name] = p.Value.Literal()
		}
	}
	if len(props) > 0 {
		m[PropsKey] = props
	}

	if t.NumChildren() > 0 {
		things := make(map[string]interface{}, t.NumChildren())
		for _, c := range t.Children() {
			things[c.Name] = thingMap(c, jsonSafe)
		}
		m[ThingsKey] = things
	}
	return m
}

// Write encodes f to w in the given format
func Write(w io.Writer, f *ast.Forest, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ToJSONMap(f))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(YAMLNode(f)); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(ToMap(f))
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// YAMLNode builds a YAML mapping node that keeps insertion order, which the
// map form returned by ToMap cannot.
func YAMLNode(f *ast.Forest) *yaml.Node {
	root := mappingNode()
	for _, t := range f.Roots() {
		appendPair(root, scalarNode(t.Name), thingNode(t))
	}
	return root
}

func thingNode(t *ast.Thing) *yaml.Node {
	n := mappingNode()

	props := mappingNode()
	for _, p := range t.Props() {
		if p.Value.IsError() {
			continue
		}
		appendPair(props, scalarNode(p.Name), valueNode(p.Value))
	}
	if len(props.Content) > 0 {
		appendPair(n, scalarNode(PropsKey), props)
	}

	if t.NumChildren() > 0 {
		things := mappingNode()
		for _, c := range t.Children() {
			appendPair(things, scalarNode(c.Name), thingNode(c))
		}
		appendPair(n, scalarNode(ThingsKey), things)
	}
	return n
}

func valueNode(v ast.Value) *yaml.Node {
	switch v.Kind() {
	case ast.IntValue:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v.Literal()}
	case ast.FloatValue:
		f, _ := v.AsFloat()
		n := &yaml.Node{}
		if err := n.Encode(float64(f)); err != nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: v.Literal()}
		}
		return n
	case ast.BoolValue:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v.Literal()}
	default:
		s, _ := v.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	}
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func appendPair(m, k, v *yaml.Node) {
	m.Content = append(m.Content, k, v)
}

func isFinite(f float32) bool {
	return !math.IsInf(float64(f), 0) && !math.IsNaN(float64(f))
}
