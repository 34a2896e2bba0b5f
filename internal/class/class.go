/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package class implements Class: a unique-by-FQN collection of ordered
// methods and fields, with nested-class naming ("Parent.Inner" for a
// static nested class, "Parent$Inner" for a non-static one) and the
// static constructor / cross-reference initialization sequence.
package class

import (
	"github.com/binstock-labs/voidvm/internal/executable"
	"github.com/binstock-labs/voidvm/internal/frame"
	"github.com/binstock-labs/voidvm/internal/modifier"
	"github.com/binstock-labs/voidvm/internal/object"
)

// Class is one loaded class. It satisfies object.ClassRef structurally.
type Class struct {
	FQN        string
	Super      *Class
	Interfaces []string
	Methods    []*executable.Method
	Fields     []*executable.Field
	Nested     map[string]*Class
	Modifiers  modifier.Set

	statics      map[string]interface{}
	initialized  bool
}

// Name implements object.ClassRef.
func (c *Class) Name() string { return c.FQN }

// Superclass implements object.ClassRef.
func (c *Class) Superclass() object.ClassRef {
	if c.Super == nil {
		return nil
	}
	return c.Super
}

// DeclaredFields implements object.ClassRef: it returns this class's own
// field descriptors (not the superclass's -- the caller, object.New,
// walks the chain itself).
func (c *Class) DeclaredFields() []object.FieldDescriptor {
	descs := make([]object.FieldDescriptor, 0, len(c.Fields))
	for _, f := range c.Fields {
		descs = append(descs, object.FieldDescriptor{
			Name:    f.Name,
			Type:    f.VType,
			Static:  f.Static,
			Default: f.Default,
		})
	}
	return descs
}

// Method implements object.ClassRef: looks up a method by name on this
// class first, then on each superclass in turn via Super.
func (c *Class) Method(name string) (object.Invokable, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	if c.Super != nil {
		return c.Super.Method(name)
	}
	return nil, false
}

// StaticField implements object.ClassRef.
func (c *Class) StaticField(name string) (*object.FieldDescriptor, bool) {
	for _, f := range c.Fields {
		if f.Static && f.Name == name {
			return &object.FieldDescriptor{Name: f.Name, Type: f.VType, Static: true, Default: f.Default}, true
		}
	}
	return nil, false
}

// GetStatic implements object.ClassRef.
func (c *Class) GetStatic(name string) (interface{}, bool) {
	if c.statics == nil {
		return nil, false
	}
	v, ok := c.statics[name]
	return v, ok
}

// SetStatic implements object.ClassRef.
func (c *Class) SetStatic(name string, v interface{}) {
	if c.statics == nil {
		c.statics = make(map[string]interface{})
	}
	c.statics[name] = v
}

// Initialize runs the class's static initialization exactly once: every
// static field's initializer, then the class's own no-parameter
// "<cinit>" static constructor method, if present. It is idempotent: a
// second call is a no-op.
func (c *Class) Initialize(reg object.Registry) error {
	if c.initialized {
		return nil
	}
	c.initialized = true
	for _, f := range c.Fields {
		if !f.Static {
			continue
		}
		if err := runFieldInit(c, f, reg); err != nil {
			return err
		}
	}
	for _, m := range c.Methods {
		if m.Name == "<cinit>" && len(m.ParamKinds) == 0 {
			if err := m.Invoke(reg, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// Initialized reports whether Initialize has already run.
func (c *Class) Initialized() bool {
	return c.initialized
}

// runFieldInit runs a static field's initializer mini-program via a
// throwaway top-level frame, then takes the pushed terminal value and
// stores it as the class's static value for that field.
func runFieldInit(c *Class, f *executable.Field, reg object.Registry) error {
	top := frame.New(c.FQN, "<cinit>", nil)
	if err := f.Invoke(reg, top); err != nil {
		return err
	}
	v := resultFor(top, f.ResultKind)
	c.SetStatic(f.Name, v)
	return nil
}

func resultFor(f *frame.Frame, kind byte) interface{} {
	switch kind {
	case frame.KindByte:
		v, _ := f.Bytes.Pull(false)
		return v
	case frame.KindShort:
		v, _ := f.Shorts.Pull(false)
		return v
	case frame.KindInt:
		v, _ := f.Ints.Pull(false)
		return v
	case frame.KindLong:
		v, _ := f.Longs.Pull(false)
		return v
	case frame.KindFloat:
		v, _ := f.Floats.Pull(false)
		return v
	case frame.KindDouble:
		v, _ := f.Doubles.Pull(false)
		return v
	case frame.KindBool:
		v, _ := f.Bools.Pull(false)
		return v
	case frame.KindChar:
		v, _ := f.Chars.Pull(false)
		return v
	case frame.KindRef:
		v, _ := f.Refs.Pull(false)
		return v
	default:
		return nil
	}
}

// NestedName computes the nested-class naming convention: a static
// nested class is "Parent.Inner", a non-static one is "Parent$Inner".
func NestedName(parentFQN, innerName string, static bool) string {
	if static {
		return parentFQN + "." + innerName
	}
	return parentFQN + "$" + innerName
}
