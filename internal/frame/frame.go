/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package frame implements Frame, the per-invocation activation record:
// one set of typed stacks and typed storage per primitive family, a
// cursor into the owning Executable's instruction list, and a pointer to
// the calling frame.
package frame

import (
	"container/list"
	"fmt"

	"github.com/binstock-labs/voidvm/internal/object"
	"github.com/binstock-labs/voidvm/internal/tstack"
	"github.com/binstock-labs/voidvm/internal/tstorage"
)

// State is where a frame is in its execution lifecycle.
type State int

const (
	Running State = iota
	TerminatingWithValue
	TerminatedVoid
)

// Frame is one invocation's activation record. Stacks hold transient
// operands; storage holds addressable locals. Slot 0 of the non-static
// reference storage is reserved for "self" on non-static methods.
type Frame struct {
	ClassName  string
	MethodName string
	Cursor     int
	Parent     *Frame
	State      State

	Bytes   *tstack.TypedStack[int8]
	Shorts  *tstack.TypedStack[int16]
	Ints    *tstack.TypedStack[int32]
	Longs   *tstack.TypedStack[int64]
	Floats  *tstack.TypedStack[float32]
	Doubles *tstack.TypedStack[float64]
	Bools   *tstack.TypedStack[bool]
	Chars   *tstack.TypedStack[int32]
	Refs    *tstack.TypedStack[*object.Instance]
	Arrays  *tstack.TypedStack[*object.Array]

	ByteLocals   *tstorage.TypedStorage[int8]
	ShortLocals  *tstorage.TypedStorage[int16]
	IntLocals    *tstorage.TypedStorage[int32]
	LongLocals   *tstorage.TypedStorage[int64]
	FloatLocals  *tstorage.TypedStorage[float32]
	DoubleLocals *tstorage.TypedStorage[float64]
	BoolLocals   *tstorage.TypedStorage[bool]
	CharLocals   *tstorage.TypedStorage[int32]
	RefLocals    *tstorage.TypedStorage[*object.Instance]
	ArrayLocals  *tstorage.TypedStorage[*object.Array]
}

// New creates an empty frame for the given class/method, with parent as
// the calling frame (nil for the outermost frame).
func New(className, methodName string, parent *Frame) *Frame {
	return &Frame{
		ClassName:  className,
		MethodName: methodName,
		Parent:     parent,
		State:      Running,

		Bytes:   tstack.New[int8](),
		Shorts:  tstack.New[int16](),
		Ints:    tstack.New[int32](),
		Longs:   tstack.New[int64](),
		Floats:  tstack.New[float32](),
		Doubles: tstack.New[float64](),
		Bools:   tstack.New[bool](),
		Chars:   tstack.New[int32](),
		Refs:    tstack.New[*object.Instance](),
		Arrays:  tstack.New[*object.Array](),

		ByteLocals:   tstorage.New[int8](),
		ShortLocals:  tstorage.New[int16](),
		IntLocals:    tstorage.New[int32](),
		LongLocals:   tstorage.New[int64](),
		FloatLocals:  tstorage.New[float32](),
		DoubleLocals: tstorage.New[float64](),
		BoolLocals:   tstorage.New[bool](),
		CharLocals:   tstorage.New[int32](),
		RefLocals:    tstorage.New[*object.Instance](),
		ArrayLocals:  tstorage.New[*object.Array](),
	}
}

// Kind tags which typed family a cross-frame result value belongs to, so
// PushResult knows which stack to place it on.
const (
	KindByte = iota
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindBool
	KindChar
	KindRef
	KindArray
	KindVoid
)

// PushResult places a returned value onto the matching typed stack,
// called by a Method/Field's return instruction on its parent frame to
// hand the result back across the call boundary.
func (f *Frame) PushResult(v interface{}, kind byte) {
	switch kind {
	case KindByte:
		f.Bytes.Push(v.(int8))
	case KindShort:
		f.Shorts.Push(v.(int16))
	case KindInt:
		f.Ints.Push(v.(int32))
	case KindLong:
		f.Longs.Push(v.(int64))
	case KindFloat:
		f.Floats.Push(v.(float32))
	case KindDouble:
		f.Doubles.Push(v.(float64))
	case KindBool:
		f.Bools.Push(v.(bool))
	case KindChar:
		f.Chars.Push(v.(int32))
	case KindRef:
		if v == nil {
			f.Refs.Push(nil)
		} else {
			f.Refs.Push(v.(*object.Instance))
		}
	case KindArray:
		if v == nil {
			f.Arrays.Push(nil)
		} else {
			f.Arrays.Push(v.(*object.Array))
		}
	case KindVoid:
		// nothing to push
	}
}

// Stack is a debug-format dump of every typed stack's current size, for
// istacksize/idumpstack-style instructions.
func (f *Frame) Stack() string {
	return fmt.Sprintf("int=%d long=%d float=%d double=%d bool=%d char=%d byte=%d short=%d ref=%d array=%d",
		f.Ints.Size(), f.Longs.Size(), f.Floats.Size(), f.Doubles.Size(),
		f.Bools.Size(), f.Chars.Size(), f.Bytes.Size(), f.Shorts.Size(), f.Refs.Size(), f.Arrays.Size())
}

// ClearAll empties every typed stack (iclearstack and friends operate on
// one family; a future "reset frame" helper clears them all).
func (f *Frame) ClearAll() {
	f.Bytes.Clear()
	f.Shorts.Clear()
	f.Ints.Clear()
	f.Longs.Clear()
	f.Floats.Clear()
	f.Doubles.Clear()
	f.Bools.Clear()
	f.Chars.Clear()
	f.Refs.Clear()
	f.Arrays.Clear()
}

// CallStack is the call stack of frames for one thread of execution, a
// container/list-based frame stack walked with Front/PushFront/Remove.
type CallStack struct {
	frames *list.List
}

// NewCallStack creates an empty call stack.
func NewCallStack() *CallStack {
	return &CallStack{frames: list.New()}
}

// Push places f at the top (front) of the call stack.
func (cs *CallStack) Push(f *Frame) {
	cs.frames.PushFront(f)
}

// Pop removes and returns the top frame.
func (cs *CallStack) Pop() *Frame {
	e := cs.frames.Front()
	if e == nil {
		return nil
	}
	cs.frames.Remove(e)
	return e.Value.(*Frame)
}

// Top returns the top frame without removing it.
func (cs *CallStack) Top() *Frame {
	e := cs.frames.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*Frame)
}

// Len reports how many frames are on the stack.
func (cs *CallStack) Len() int {
	return cs.frames.Len()
}

// Trace renders each frame from the top down, one line per frame, for
// the -XVMDebug frame stack trace dump.
func (cs *CallStack) Trace() []string {
	var lines []string
	for e := cs.frames.Front(); e != nil; e = e.Next() {
		fr := e.Value.(*Frame)
		lines = append(lines, fmt.Sprintf("%s.%s (cursor=%d)", fr.ClassName, fr.MethodName, fr.Cursor))
	}
	return lines
}
