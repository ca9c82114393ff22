// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     ast
// Description: Typed prop values
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package ast

import (
	"math"
	"strconv"
)

// ValueKind is the variant held by a Value
type ValueKind int

const (
	ErrorValue ValueKind = iota
	IntValue
	FloatValue
	BoolValue
	StringValue
)

// String returns the name of the kind
func (k ValueKind) String() string {
	switch k {
	case IntValue:
		return "int"
	case FloatValue:
		return "float"
	case BoolValue:
		return "bool"
	case StringValue:
		return "string"
	default:
		return "error"
	}
}

// Value is a tagged union over int32, float32, bool, string and an error
// marker. The zero Value is the error marker: a declared type that did not
// match its literal.
type Value struct {
	kind ValueKind
	i    int32
	f    float32
	b    bool
	s    string
}

func Int(v int32) Value     { return Value{kind: IntValue, i: v} }
func Float(v float32) Value { return Value{kind: FloatValue, f: v} }
func Bool(v bool) Value     { return Value{kind: BoolValue, b: v} }
func String(v string) Value { return Value{kind: StringValue, s: v} }

// Invalid returns the error marker value
func Invalid() Value { return Value{} }

// Kind returns the variant
func (v Value) Kind() ValueKind { return v.kind }

// IsError reports whether v is the error marker
func (v Value) IsError() bool { return v.kind == ErrorValue }

// AsInt returns the int32 payload
func (v Value) AsInt() (int32, bool) { return v.i, v.kind == IntValue }

// AsFloat returns the float32 payload
func (v Value) AsFloat() (float32, bool) { return v.f, v.kind == FloatValue }

// AsBool returns the bool payload
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == BoolValue }

// AsString returns the string payload
func (v Value) AsString() (string, bool) { return v.s, v.kind == StringValue }

// Interface returns the payload as a plain Go value, nil for the error
// marker. Floats are widened to float64 for encoders.
func (v Value) Interface() interface{} {
	switch v.kind {
	case IntValue:
		return v.i
	case FloatValue:
		return float64(v.f)
	case BoolValue:
		return v.b
	case StringValue:
		return v.s
	default:
		return nil
	}
}

// Literal renders v as FDL source text that converts back to v
func (v Value) Literal() string {
	switch v.kind {
	case IntValue:
		return strconv.FormatInt(int64(v.i), 10)
	case FloatValue:
		switch {
		case math.IsInf(float64(v.f), 1):
			return "Inf"
		case math.IsInf(float64(v.f), -1):
			return "-Inf"
		}
		return strconv.FormatFloat(float64(v.f), 'f', -1, 32)
	case BoolValue:
		return strconv.FormatBool(v.b)
	case StringValue:
		return `"` + v.s + `"`
	default:
		return "<error>"
	}
}

// String implements fmt.Stringer
func (v Value) String() string {
	return v.Literal()
}
