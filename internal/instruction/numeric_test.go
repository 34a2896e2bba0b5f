/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package instruction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binstock-labs/voidvm/internal/frame"
	"github.com/binstock-labs/voidvm/internal/object"
	"github.com/binstock-labs/voidvm/internal/vmerrors"
)

type fakeRegistry struct{ counter uint32 }

func (r *fakeRegistry) Resolve(name string) (object.ClassRef, error) { return nil, nil }
func (r *fakeRegistry) NextInstanceID() uint32 {
	r.counter++
	return r.counter
}

func run(t *testing.T, f *frame.Frame, reg object.Registry, line string) {
	t.Helper()
	instr, err := Parse(Tokenize(line), nil)
	require.NoError(t, err)
	require.NoError(t, instr.Execute(f, reg))
}

func TestArithmeticAddProducesExpectedSum(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}

	run(t, f, reg, "ipush 20")
	run(t, f, reg, "ipush 30")
	run(t, f, reg, "iadd -stack -stack -r total")
	v := f.IntLocals.Get(resolveLocal("total", nil))
	require.Equal(t, int32(50), v)
}

func TestLocalRoundTripViaLinker(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}

	run(t, f, reg, "ipush 8")
	run(t, f, reg, "istore count")
	run(t, f, reg, "iload count")
	v, ok := f.Ints.Pull(false)
	require.True(t, ok)
	require.Equal(t, int32(8), v)
}

func TestConditionalBranchTakesJump(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}

	run(t, f, reg, "ipush 1")
	ifInstr, err := Parse(Tokenize("ifi== -stack -const 1 -jump done"), fakeSymbols{"done": 5})
	require.NoError(t, err)
	require.NoError(t, ifInstr.Execute(f, reg))
	require.Equal(t, 4, f.Cursor) // Execute decrements by one; the loop increments after
}

type fakeSymbols map[string]int

func (s fakeSymbols) Section(label string) (int, bool) { i, ok := s[label]; return i, ok }
func (s fakeSymbols) Linker(name string) (int, bool)    { i, ok := s[name]; return i, ok }

func TestIntDivideByZeroIsFatal(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}

	run(t, f, reg, "ipush 10")
	run(t, f, reg, "ipush 0")
	instr, err := Parse(Tokenize("idiv -stack -stack -r result"), nil)
	require.NoError(t, err)
	err = instr.Execute(f, reg)
	require.Error(t, err)
	require.True(t, vmerrors.IsKind(err, vmerrors.DivideByZero))
}

func TestFloatDivideByZeroIsInfNotFatal(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}

	run(t, f, reg, "dpush 5.0")
	run(t, f, reg, "dpush 0.0")
	instr, err := Parse(Tokenize("ddiv -stack -stack -r result"), nil)
	require.NoError(t, err)
	require.NoError(t, instr.Execute(f, reg))
	v := f.DoubleLocals.Get(resolveLocal("result", nil))
	require.True(t, math.IsInf(v, 1))
}

func TestDupDuplicatesTopOfStack(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}

	run(t, f, reg, "ipush 4")
	run(t, f, reg, "idup")
	require.Equal(t, 2, f.Ints.Size())
	a, _ := f.Ints.Pull(false)
	b, _ := f.Ints.Pull(false)
	require.Equal(t, int32(4), a)
	require.Equal(t, int32(4), b)
}

func TestPopRemovesTopOfStack(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}

	run(t, f, reg, "ipush 1")
	run(t, f, reg, "ipush 2")
	run(t, f, reg, "ipop")
	require.Equal(t, 1, f.Ints.Size())
}

func TestIncDecrNeg(t *testing.T) {
	f := frame.New("Main", "main", nil)
	reg := &fakeRegistry{}

	run(t, f, reg, "iset n -const 5")
	run(t, f, reg, "iinc n")
	require.Equal(t, int32(6), f.IntLocals.Get(resolveLocal("n", nil)))

	run(t, f, reg, "idecr n")
	run(t, f, reg, "idecr n")
	require.Equal(t, int32(4), f.IntLocals.Get(resolveLocal("n", nil)))

	run(t, f, reg, "ineg n")
	require.Equal(t, int32(-4), f.IntLocals.Get(resolveLocal("n", nil)))
}

func TestUnrecognizedOpcodeIsNonFatal(t *testing.T) {
	instr, err := Parse(Tokenize("notarealopcode -foo"), nil)
	require.NoError(t, err)
	require.IsType(t, EmptyInstruction{}, instr)
	require.NoError(t, instr.Execute(frame.New("M", "m", nil), &fakeRegistry{}))
}
