/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package instruction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binstock-labs/voidvm/internal/frame"
	"github.com/binstock-labs/voidvm/internal/object"
)

type stubClass struct {
	name   string
	fields []object.FieldDescriptor
}

func (c *stubClass) Name() string                       { return c.name }
func (c *stubClass) Superclass() object.ClassRef         { return nil }
func (c *stubClass) DeclaredFields() []object.FieldDescriptor { return c.fields }
func (c *stubClass) Method(name string) (object.Invokable, bool) { return nil, false }
func (c *stubClass) StaticField(name string) (*object.FieldDescriptor, bool) {
	for i := range c.fields {
		if c.fields[i].Static && c.fields[i].Name == name {
			return &c.fields[i], true
		}
	}
	return nil, false
}
func (c *stubClass) GetStatic(name string) (interface{}, bool)   { return nil, false }
func (c *stubClass) SetStatic(name string, v interface{})        {}

type resolvingRegistry struct {
	fakeRegistry
	classes map[string]object.ClassRef
}

func (r *resolvingRegistry) Resolve(name string) (object.ClassRef, error) {
	if c, ok := r.classes[name]; ok {
		return c, nil
	}
	return nil, nil
}

func TestNewPushesFreshInstance(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &resolvingRegistry{classes: map[string]object.ClassRef{"Point": &stubClass{name: "Point"}}}

	run(t, f, reg, "new Point")
	inst, ok := f.Refs.Pull(false)
	require.True(t, ok)
	require.NotNil(t, inst)
	require.Equal(t, "Point", inst.Class.Name())
}

func TestNullptrPushesNil(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}
	run(t, f, reg, "nullptr")
	v, ok := f.Refs.Pull(false)
	require.True(t, ok)
	require.Nil(t, v)
}

func TestNewCreatesDistinctInstances(t *testing.T) {
	cls := &stubClass{name: "Counter"}
	reg := &resolvingRegistry{classes: map[string]object.ClassRef{"Counter": cls}}
	f := frame.New("Main", "main", nil)

	run(t, f, reg, "new Counter -r a")
	run(t, f, reg, "new Counter -r b")

	a := f.RefLocals.Get(resolveLocal("a", nil))
	b := f.RefLocals.Get(resolveLocal("b", nil))
	require.NotSame(t, a, b)
	require.NotEqual(t, a.ID, b.ID)
}

func TestAgetaddrReadsInstanceID(t *testing.T) {
	cls := &stubClass{name: "Thing"}
	reg := &resolvingRegistry{classes: map[string]object.ClassRef{"Thing": cls}}
	f := frame.New("Main", "main", nil)

	run(t, f, reg, "new Thing")
	run(t, f, reg, "agetaddr")
	id, ok := f.Longs.Pull(false)
	require.True(t, ok)
	require.Equal(t, int64(1), id)
}

func TestAgetaddrOnNullReferencePushesZero(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}

	run(t, f, reg, "nullptr")
	run(t, f, reg, "agetaddr")
	id, ok := f.Longs.Pull(false)
	require.True(t, ok)
	require.Equal(t, int64(0), id)
}

func TestDeleteIsIdempotentThroughBytecode(t *testing.T) {
	cls := &stubClass{name: "Thing"}
	reg := &resolvingRegistry{classes: map[string]object.ClassRef{"Thing": cls}}
	f := frame.New("Main", "main", nil)

	run(t, f, reg, "new Thing -r h")
	run(t, f, reg, "aload h")
	run(t, f, reg, "delete")
	run(t, f, reg, "aload h")
	run(t, f, reg, "delete")

	inst := f.RefLocals.Get(resolveLocal("h", nil))
	require.True(t, inst.Deleted())
}

func TestAsetaddrIsAReservedNoop(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}
	run(t, f, reg, "asetaddr")
	require.Equal(t, 0, f.Ints.Size())
}
