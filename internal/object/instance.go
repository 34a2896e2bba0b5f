/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package object implements Instance, the heap-allocated object identity
// and field map shared by every class instance, plus the narrow
// interfaces (ClassRef, Registry, Invokable) that let higher packages
// (class, executable, instruction, vm) cooperate without an import
// cycle: concrete types in those packages satisfy these interfaces
// structurally, and this package never imports any of them.
package object

import "github.com/binstock-labs/voidvm/internal/vtype"

// Instance is one heap-allocated object: an identity, a class, and a
// field map copied recursively down the superclass chain at creation
// time (first definition along that chain wins, per the field-shadowing
// rule).
type Instance struct {
	ID     uint32
	Class  ClassRef
	Fields map[string]interface{}
}

// FieldDescriptor names one field slot a class contributes to its
// instances: its name, declared type, and default value.
type FieldDescriptor struct {
	Name    string
	Type    vtype.Type
	Default interface{}
	Static  bool
}

// ClassRef is the view of a class that the object/instruction layer
// needs: enough to walk the superclass chain and build an instance's
// field map, and to dispatch a method call by name.
type ClassRef interface {
	Name() string
	Superclass() ClassRef
	DeclaredFields() []FieldDescriptor
	Method(name string) (Invokable, bool)
	StaticField(name string) (*FieldDescriptor, bool)
	GetStatic(name string) (interface{}, bool)
	SetStatic(name string, v interface{})
}

// Invokable is anything that can be called as a frame: a Method or a
// Field's initializer mini-program. caller is the calling *frame.Frame,
// passed as `any` so this package never has to import the frame
// package; the implementation (executable.Method/Field) type-asserts it
// back to a concrete *frame.Frame, since that package already imports
// frame directly.
type Invokable interface {
	Invoke(reg Registry, caller interface{}) error
}

// Registry resolves a class by its fully-qualified name, triggering
// lazy loading/initialization as needed.
type Registry interface {
	Resolve(name string) (ClassRef, error)
	NextInstanceID() uint32
}

// New builds a fresh Instance of the given class, copying declared
// non-static fields recursively down the superclass chain. A field
// declared by a subclass shadows one of the same name from an ancestor;
// the subclass's definition is processed first so "first definition
// wins" falls out of the natural iteration order.
func New(reg Registry, cls ClassRef) *Instance {
	inst := &Instance{
		ID:     reg.NextInstanceID(),
		Class:  cls,
		Fields: make(map[string]interface{}),
	}
	for c := cls; c != nil; c = c.Superclass() {
		for _, fd := range c.DeclaredFields() {
			if fd.Static {
				continue
			}
			if _, already := inst.Fields[fd.Name]; already {
				continue
			}
			inst.Fields[fd.Name] = fd.Default
		}
	}
	return inst
}

// FieldType looks up a declared field's type by walking the superclass
// chain in the same order New uses to build an instance's field map, so
// a field declared on an ancestor resolves the same way it would at
// construction time.
func FieldType(cls ClassRef, name string) (vtype.Type, bool) {
	for c := cls; c != nil; c = c.Superclass() {
		for _, fd := range c.DeclaredFields() {
			if fd.Name == name {
				return fd.Type, true
			}
		}
	}
	return vtype.Type{}, false
}

// Delete clears an instance's fields and severs its class pointer. Void
// has no cycle-collecting GC; delete is an explicit, idempotent
// operation (deleting twice is a no-op, not an error).
func (i *Instance) Delete() {
	if i == nil {
		return
	}
	i.Fields = nil
	i.Class = nil
}

// Deleted reports whether this instance has already been deleted.
func (i *Instance) Deleted() bool {
	return i == nil || i.Fields == nil
}

// Get reads a field's current value.
func (i *Instance) Get(name string) (interface{}, bool) {
	if i.Deleted() {
		return nil, false
	}
	v, ok := i.Fields[name]
	return v, ok
}

// Set writes a field's value.
func (i *Instance) Set(name string, v interface{}) {
	if i.Deleted() {
		return
	}
	i.Fields[name] = v
}
