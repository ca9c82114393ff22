// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     ast
// Description: Props and literal conversion
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package ast

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PropType is the declared type of a prop
type PropType int

const (
	TypeInt PropType = iota
	TypeFloat
	TypeBool
	TypeString
)

var propTypeNames = map[PropType]string{
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeBool:   "bool",
	TypeString: "string",
}

// String returns the keyword of the type
func (t PropType) String() string {
	if name, ok := propTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PropType(%d)", int(t))
}

// ParsePropType maps a type keyword to its PropType
func ParsePropType(word string) (PropType, bool) {
	switch word {
	case "int":
		return TypeInt, true
	case "float":
		return TypeFloat, true
	case "bool":
		return TypeBool, true
	case "string":
		return TypeString, true
	default:
		return 0, false
	}
}

// Prop is a named, typed scalar attached to a Thing. When Value is not the
// error marker its kind matches Type.
type Prop struct {
	Name  string
	Type  PropType
	Value Value
}

// NewProp converts literal according to typ. Conversion failures produce
// the error marker value instead of an error.
func NewProp(typ PropType, name, literal string) *Prop {
	switch typ {
	case TypeInt:
		return NewIntProp(name, literal)
	case TypeFloat:
		return NewFloatProp(name, literal)
	case TypeBool:
		return NewBoolProp(name, literal)
	default:
		return NewStringProp(name, literal)
	}
}

// NewIntProp parses literal as a base-10 signed 32-bit integer
func NewIntProp(name, literal string) *Prop {
	p := &Prop{Name: name, Type: TypeInt}
	if v, err := strconv.ParseInt(literal, 10, 32); err == nil {
		p.Value = Int(int32(v))
	}
	return p
}

// NewFloatProp parses literal as a 32-bit float. Out of range literals
// saturate to an infinity.
func NewFloatProp(name, literal string) *Prop {
	p := &Prop{Name: name, Type: TypeFloat}
	v, err := strconv.ParseFloat(literal, 32)
	if err == nil || (errors.Is(err, strconv.ErrRange) && math.IsInf(v, 0)) {
		p.Value = Float(float32(v))
	}
	return p
}

// NewBoolProp accepts exactly "true" or "false"
func NewBoolProp(name, literal string) *Prop {
	p := &Prop{Name: name, Type: TypeBool}
	switch literal {
	case "true":
		p.Value = Bool(true)
	case "false":
		p.Value = Bool(false)
	}
	return p
}

// NewStringProp strips one pair of surrounding quotes from literal
func NewStringProp(name, literal string) *Prop {
	return &Prop{Name: name, Type: TypeString, Value: String(StripQuotes(literal))}
}

// StripQuotes removes one leading and one trailing double quote if present.
// It is idempotent on unquoted input.
func StripQuotes(s string) string {
	if strings.HasPrefix(s, `"`) {
		s = s[1:]
	}
	if strings.HasSuffix(s, `"`) {
		s = s[:len(s)-1]
	}
	return s
}

// String renders the prop as an FDL declaration
func (p *Prop) String() string {
	return fmt.Sprintf("%s %s = %s", p.Type, p.Name, p.Value)
}
