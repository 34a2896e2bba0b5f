/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package tstack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushPullIsFIFONotLIFO(t *testing.T) {
	s := New[int]()
	s.Push(1)
	s.Push(2)
	s.Push(3)

	v, ok := s.Pull(false)
	require.True(t, ok)
	require.Equal(t, 1, v, "Pull must return the head (oldest push), not the most recent")

	v, ok = s.Pull(false)
	require.True(t, ok)
	require.Equal(t, 2, v)

	require.Equal(t, 1, s.Size())
}

func TestPullKeepIsAPeek(t *testing.T) {
	s := New[string]()
	s.Push("a")
	s.Push("b")

	v, ok := s.Pull(true)
	require.True(t, ok)
	require.Equal(t, "a", v)
	require.Equal(t, 2, s.Size(), "a peeking pull must not remove the element")
}

func TestGetIsPeekAlias(t *testing.T) {
	s := New[int]()
	s.Push(9)
	v, ok := s.Get()
	require.True(t, ok)
	require.Equal(t, 9, v)
	require.Equal(t, 1, s.Size())
}

func TestPullEmptyReportsFalse(t *testing.T) {
	s := New[int]()
	_, ok := s.Pull(false)
	require.False(t, ok)
}

func TestAtIndexesFromHead(t *testing.T) {
	s := New[int]()
	s.Push(10)
	s.Push(20)
	s.Push(30)

	v, ok := s.At(0)
	require.True(t, ok)
	require.Equal(t, 10, v)

	v, ok = s.At(2)
	require.True(t, ok)
	require.Equal(t, 30, v)

	_, ok = s.At(3)
	require.False(t, ok)
	_, ok = s.At(-1)
	require.False(t, ok)
}

func TestClearEmptiesStack(t *testing.T) {
	s := New[int]()
	s.Push(1)
	s.Push(2)
	s.Clear()
	require.Equal(t, 0, s.Size())
	_, ok := s.Pull(false)
	require.False(t, ok)
}
