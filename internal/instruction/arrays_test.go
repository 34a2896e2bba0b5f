/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package instruction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binstock-labs/voidvm/internal/frame"
)

func TestNewArrayAllocatesZeroFilled(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}

	run(t, f, reg, "newarray -int -const 3 -r arr")
	arr := f.ArrayLocals.Get(resolveLocal("arr", nil))
	require.NotNil(t, arr)
	require.Equal(t, 3, arr.Len())
	v, ok := arr.Get(0)
	require.True(t, ok)
	require.Equal(t, int32(0), v)
}

func TestArrayStoreThenLoadRoundTrips(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}

	run(t, f, reg, "newarray -int -const 4 -r arr")
	run(t, f, reg, "ipush 99")
	run(t, f, reg, "iastore -local arr -const 2 -stack")
	run(t, f, reg, "iaload -local arr -const 2 -r out")

	v := f.IntLocals.Get(resolveLocal("out", nil))
	require.Equal(t, int32(99), v)
}

func TestArrayLoadOutOfBoundsErrors(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}

	run(t, f, reg, "newarray -int -const 1 -r arr")
	instr, err := Parse(Tokenize("iaload -local arr -const 9 -r out"), nil)
	require.NoError(t, err)
	err = instr.Execute(f, reg)
	require.Error(t, err)
}

func TestArraylengthReportsLength(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}

	run(t, f, reg, "newarray -double -const 5 -r arr")
	run(t, f, reg, "arraylength -local arr -r n")
	require.Equal(t, int32(5), f.IntLocals.Get(resolveLocal("n", nil)))
}
