/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ref

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNullReference(t *testing.T) {
	r := Null[int]()
	require.False(t, r.Exists())
	require.False(t, r.IsStrong())
	require.False(t, r.IsWeak())
	_, ok := r.Get()
	require.False(t, ok)
}

func TestStrongReference(t *testing.T) {
	v := 42
	r := New(&v)
	require.True(t, r.Exists())
	require.True(t, r.IsStrong())
	require.False(t, r.IsWeak())
	got, ok := r.Get()
	require.True(t, ok)
	require.Equal(t, 42, got)
}

func TestWeakReference(t *testing.T) {
	v := "hello"
	r := Weak(&v)
	require.True(t, r.Exists())
	require.True(t, r.IsWeak())
	require.False(t, r.IsStrong())
}

func TestSetReplacesReferent(t *testing.T) {
	a, b := 1, 2
	r := New(&a)
	r.Set(&b)
	got, _ := r.Get()
	require.Equal(t, 2, got)
	require.True(t, r.IsStrong())
}

func TestSetWeakDowngradesOwnership(t *testing.T) {
	a := 1
	r := New(&a)
	r.SetWeak(&a)
	require.True(t, r.IsWeak())
	require.False(t, r.IsStrong())
}

func TestPurgeClearsRegardlessOfStrength(t *testing.T) {
	v := 1
	r := Weak(&v)
	r.Purge()
	require.False(t, r.Exists())

	r2 := New(&v)
	r2.Purge()
	require.False(t, r2.Exists())
}

func TestNewWithNilIsAbsent(t *testing.T) {
	r := New[int](nil)
	require.False(t, r.Exists())
}
