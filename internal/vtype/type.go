/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package vtype implements the Type descriptor grammar: an optional '?'
// nullability marker followed by a primitive tag (one of BSIJFDZCV) or an
// 'L' prefix naming a class by its dotted fully-qualified name.
package vtype

import (
	"fmt"
	"strings"
)

// Primitive identifies one of the built-in element tags.
type Primitive byte

const (
	Byte    Primitive = 'B'
	Short   Primitive = 'S'
	Int     Primitive = 'I'
	Long    Primitive = 'J'
	Float   Primitive = 'F'
	Double  Primitive = 'D'
	Bool    Primitive = 'Z'
	Char    Primitive = 'C'
	Void    Primitive = 'V'
	Class   Primitive = 'L' // class reference; ClassName holds the FQN
)

// Type is a parsed, immutable type descriptor, compared by value.
type Type struct {
	Nullable  bool
	Prim      Primitive
	ClassName string // only meaningful when Prim == Class
}

// IsNumeric reports whether the type is one of the arithmetic families.
func (t Type) IsNumeric() bool {
	switch t.Prim {
	case Int, Long, Float, Double, Byte, Short:
		return true
	}
	return false
}

// IsReference reports whether the type denotes a class-typed reference.
func (t Type) IsReference() bool {
	return t.Prim == Class
}

func (t Type) String() string {
	var b strings.Builder
	if t.Nullable {
		b.WriteByte('?')
	}
	if t.Prim == Class {
		b.WriteByte('L')
		b.WriteString(t.ClassName)
	} else {
		b.WriteByte(byte(t.Prim))
	}
	return b.String()
}

// Parse decodes a type descriptor string. It distinguishes a malformed
// descriptor (returns an error) from a well-formed-but-unknown class
// reference (returns a Type with Prim == Class and no error — resolution
// of the named class happens later, at first use).
func Parse(s string) (Type, error) {
	orig := s
	var t Type
	if s == "" {
		return t, fmt.Errorf("empty type descriptor")
	}
	if s[0] == '?' {
		t.Nullable = true
		s = s[1:]
	}
	if s == "" {
		return t, fmt.Errorf("malformed type descriptor %q: nullability marker with no tag", orig)
	}
	if s[0] == 'L' {
		name := s[1:]
		if name == "" {
			return t, fmt.Errorf("malformed type descriptor %q: class tag with no name", orig)
		}
		t.Prim = Class
		t.ClassName = name
		return t, nil
	}
	if len(s) != 1 {
		return t, fmt.Errorf("malformed type descriptor %q: trailing characters after primitive tag", orig)
	}
	switch Primitive(s[0]) {
	case Byte, Short, Int, Long, Float, Double, Bool, Char, Void:
		t.Prim = Primitive(s[0])
		return t, nil
	default:
		return t, fmt.Errorf("malformed type descriptor %q: unrecognized primitive tag %q", orig, s)
	}
}

// ZeroValue returns the default value for a field of this type, per the
// per-type zero-value table (numeric families default to their numeric
// zero, class references default to nil).
func (t Type) ZeroValue() interface{} {
	switch t.Prim {
	case Byte:
		return int8(0)
	case Short:
		return int16(0)
	case Int:
		return int32(0)
	case Long:
		return int64(0)
	case Float:
		return float32(0)
	case Double:
		return float64(0)
	case Bool:
		return false
	case Char:
		return int32(0)
	case Class:
		return nil
	default:
		return nil
	}
}
