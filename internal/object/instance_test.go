/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binstock-labs/voidvm/internal/vtype"
)

// fakeRegistry is a minimal Registry for tests that don't need class
// resolution, only instance-id allocation.
type fakeRegistry struct {
	counter uint32
}

func (r *fakeRegistry) Resolve(name string) (ClassRef, error) { return nil, nil }
func (r *fakeRegistry) NextInstanceID() uint32 {
	r.counter++
	return r.counter
}

// fakeClass is a minimal ClassRef for exercising Instance field copying
// without pulling in the real class/executable packages (avoided here to
// keep this a pure unit test of Instance, not an integration test).
type fakeClass struct {
	name   string
	super  ClassRef
	fields []FieldDescriptor
}

func (c *fakeClass) Name() string                       { return c.name }
func (c *fakeClass) Superclass() ClassRef                { return c.super }
func (c *fakeClass) DeclaredFields() []FieldDescriptor   { return c.fields }
func (c *fakeClass) Method(name string) (Invokable, bool) { return nil, false }
func (c *fakeClass) StaticField(name string) (*FieldDescriptor, bool) { return nil, false }
func (c *fakeClass) GetStatic(name string) (interface{}, bool)        { return nil, false }
func (c *fakeClass) SetStatic(name string, v interface{})             {}

func TestNewInstanceCopiesDeclaredFields(t *testing.T) {
	reg := &fakeRegistry{}
	cls := &fakeClass{
		name: "Point",
		fields: []FieldDescriptor{
			{Name: "x", Type: vtype.Type{Prim: vtype.Int}, Default: int32(0)},
			{Name: "y", Type: vtype.Type{Prim: vtype.Int}, Default: int32(0)},
		},
	}

	inst := New(reg, cls)
	require.Equal(t, uint32(1), inst.ID)
	x, ok := inst.Get("x")
	require.True(t, ok)
	require.Equal(t, int32(0), x)
}

func TestNewInstanceSkipsStaticFields(t *testing.T) {
	reg := &fakeRegistry{}
	cls := &fakeClass{
		name: "C",
		fields: []FieldDescriptor{
			{Name: "instCount", Static: true, Default: int32(0)},
			{Name: "id", Default: int32(7)},
		},
	}
	inst := New(reg, cls)
	_, ok := inst.Get("instCount")
	require.False(t, ok, "static fields must not be copied into an instance's field map")
	v, ok := inst.Get("id")
	require.True(t, ok)
	require.Equal(t, int32(7), v)
}

func TestNewInstanceFirstDefinitionWinsDownSuperclassChain(t *testing.T) {
	reg := &fakeRegistry{}
	base := &fakeClass{
		name:   "Base",
		fields: []FieldDescriptor{{Name: "shared", Default: int32(100)}},
	}
	derived := &fakeClass{
		name:   "Derived",
		super:  base,
		fields: []FieldDescriptor{{Name: "shared", Default: int32(1)}},
	}

	inst := New(reg, derived)
	v, ok := inst.Get("shared")
	require.True(t, ok)
	require.Equal(t, int32(1), v, "the subclass's own field definition must shadow the superclass's")
}

func TestFieldTypeWalksSuperclassChain(t *testing.T) {
	base := &fakeClass{
		name:   "Base",
		fields: []FieldDescriptor{{Name: "shared", Type: vtype.Type{Prim: vtype.Long}}},
	}
	derived := &fakeClass{
		name:   "Derived",
		super:  base,
		fields: []FieldDescriptor{{Name: "own", Type: vtype.Type{Prim: vtype.Float}}},
	}

	typ, ok := FieldType(derived, "own")
	require.True(t, ok)
	require.Equal(t, vtype.Type{Prim: vtype.Float}, typ)

	typ, ok = FieldType(derived, "shared")
	require.True(t, ok)
	require.Equal(t, vtype.Type{Prim: vtype.Long}, typ)

	_, ok = FieldType(derived, "nope")
	require.False(t, ok)
}

func TestInstanceIDsAreMonotonic(t *testing.T) {
	reg := &fakeRegistry{}
	cls := &fakeClass{name: "C"}
	a := New(reg, cls)
	b := New(reg, cls)
	require.Less(t, a.ID, b.ID)
}

func TestDeleteIsIdempotent(t *testing.T) {
	reg := &fakeRegistry{}
	cls := &fakeClass{name: "C", fields: []FieldDescriptor{{Name: "f", Default: int32(1)}}}
	inst := New(reg, cls)

	require.False(t, inst.Deleted())
	inst.Delete()
	require.True(t, inst.Deleted())
	_, ok := inst.Get("f")
	require.False(t, ok)

	inst.Delete() // second delete must not panic
	require.True(t, inst.Deleted())
}

func TestSetOnDeletedInstanceIsNoop(t *testing.T) {
	reg := &fakeRegistry{}
	cls := &fakeClass{name: "C"}
	inst := New(reg, cls)
	inst.Delete()
	inst.Set("f", int32(1))
	_, ok := inst.Get("f")
	require.False(t, ok)
}

func TestNilInstanceIsDeleted(t *testing.T) {
	var inst *Instance
	require.True(t, inst.Deleted())
}
