/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package instruction

import (
	"fmt"

	"github.com/binstock-labs/voidvm/internal/frame"
	"github.com/binstock-labs/voidvm/internal/object"
)

// kindFromFlag maps a "-byte".."-ref" element-kind flag to frame's Kind*
// byte constants, the same vocabulary classparser.kindFromTag uses for
// method parameters and field result kinds.
func kindFromFlag(flag string) (byte, bool) {
	switch flag {
	case "-byte":
		return frame.KindByte, true
	case "-short":
		return frame.KindShort, true
	case "-int":
		return frame.KindInt, true
	case "-long":
		return frame.KindLong, true
	case "-float":
		return frame.KindFloat, true
	case "-double":
		return frame.KindDouble, true
	case "-bool":
		return frame.KindBool, true
	case "-char":
		return frame.KindChar, true
	case "-ref":
		return frame.KindRef, true
	}
	return 0, false
}

func zeroForKind(kind byte) interface{} {
	switch kind {
	case frame.KindByte:
		return int8(0)
	case frame.KindShort:
		return int16(0)
	case frame.KindInt:
		return int32(0)
	case frame.KindLong:
		return int64(0)
	case frame.KindFloat:
		return float32(0)
	case frame.KindDouble:
		return float64(0)
	case frame.KindBool:
		return false
	case frame.KindChar:
		return int32(0)
	case frame.KindRef:
		return (*object.Instance)(nil)
	default:
		return nil
	}
}

func resolveArrayTarget(f *frame.Frame, t Target) (*object.Array, error) {
	switch t.Kind {
	case TargetStack:
		v, ok := f.Arrays.Pull(false)
		if !ok {
			return nil, fmt.Errorf("array stack is empty")
		}
		return v, nil
	case TargetLocal:
		return f.ArrayLocals.Get(t.Slot), nil
	default:
		return nil, fmt.Errorf("an array operand cannot be a constant")
	}
}

func deliverArray(f *frame.Frame, target Target, v *object.Array) error {
	switch target.Kind {
	case TargetStack:
		f.Arrays.Push(v)
	case TargetLocal:
		f.ArrayLocals.Set(target.Slot, v)
	default:
		return fmt.Errorf("an array result cannot be a constant")
	}
	return nil
}

// newarrayInstr allocates a fixed-length array of one element kind,
// named by Void's textual -<kind> flag rather than a constant byte tag.
type newarrayInstr struct {
	elemKind byte
	length   Target
	result   Target
}

func (n newarrayInstr) Execute(f *frame.Frame, reg object.Registry) error {
	length, err := resolve(intFamily, f, n.length)
	if err != nil {
		return fmt.Errorf("newarray: %w", err)
	}
	arr := object.NewArray(reg, n.elemKind, int(length), zeroForKind(n.elemKind))
	return deliverArray(f, n.result, arr)
}

func (n newarrayInstr) Debug() string {
	flag := "?"
	for _, fl := range []string{"-byte", "-short", "-int", "-long", "-float", "-double", "-bool", "-char", "-ref"} {
		if k, _ := kindFromFlag(fl); k == n.elemKind {
			flag = fl
		}
	}
	s := fmt.Sprintf("newarray %s %s", flag, n.length)
	if n.result.Kind == TargetLocal {
		s += " -r " + n.result.Local
	}
	return s
}

func parseNewArray(operands []string, syms SymbolTable) (Instruction, error) {
	if len(operands) == 0 {
		return nil, fmt.Errorf("newarray requires an element kind flag")
	}
	kind, ok := kindFromFlag(operands[0])
	if !ok {
		return nil, fmt.Errorf("newarray: unrecognized element kind %q", operands[0])
	}
	length, _, err := ParseTarget(operands, 1, syms)
	if err != nil {
		return nil, fmt.Errorf("newarray: %w", err)
	}
	result := Target{Kind: TargetStack}
	if rname, ok := findFlag(operands, "-r"); ok {
		result = Target{Kind: TargetLocal, Local: rname, Slot: resolveLocal(rname, syms)}
	}
	return newarrayInstr{elemKind: kind, length: length, result: result}, nil
}

// arraylengthInstr reads an array's length onto the int stack (or a
// named int local).
type arraylengthInstr struct {
	array  Target
	result Target
}

func (a arraylengthInstr) Execute(f *frame.Frame, reg object.Registry) error {
	arr, err := resolveArrayTarget(f, a.array)
	if err != nil {
		return fmt.Errorf("arraylength: %w", err)
	}
	return deliver(intFamily, f, a.result, int32(arr.Len()))
}

func (a arraylengthInstr) Debug() string {
	s := fmt.Sprintf("arraylength %s", a.array)
	if a.result.Kind == TargetLocal {
		s += " -r " + a.result.Local
	}
	return s
}

func parseArraylength(operands []string, syms SymbolTable) (Instruction, error) {
	array, next, err := ParseTarget(operands, 0, syms)
	if err != nil {
		return nil, fmt.Errorf("arraylength: %w", err)
	}
	result := Target{Kind: TargetStack}
	if rname, ok := findFlag(operands, "-r"); ok {
		result = Target{Kind: TargetLocal, Local: rname, Slot: resolveLocal(rname, syms)}
	}
	_ = next
	return arraylengthInstr{array, result}, nil
}

// arrayLoadInstr reads arr[index] onto a numeric family's stack/local,
// grounded on IALOAD/LALOAD/FALOAD/DALOAD.
type arrayLoadInstr[T Number] struct {
	fam    family[T]
	array  Target
	index  Target
	result Target
}

func (a arrayLoadInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	arr, err := resolveArrayTarget(f, a.array)
	if err != nil {
		return fmt.Errorf("%saload: %w", a.fam.Prefix, err)
	}
	index, err := resolve(intFamily, f, a.index)
	if err != nil {
		return fmt.Errorf("%saload: %w", a.fam.Prefix, err)
	}
	v, ok := arr.Get(int(index))
	if !ok {
		return fmt.Errorf("%saload: index %d out of range (len %d)", a.fam.Prefix, index, arr.Len())
	}
	return deliver(a.fam, f, a.result, v.(T))
}

func (a arrayLoadInstr[T]) Debug() string {
	s := fmt.Sprintf("%saload %s %s", a.fam.Prefix, a.array, a.index)
	if a.result.Kind == TargetLocal {
		s += " -r " + a.result.Local
	}
	return s
}

func parseArrayLoad[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		array, next, err := ParseTarget(operands, 0, syms)
		if err != nil {
			return nil, fmt.Errorf("%saload: %w", fam.Prefix, err)
		}
		index, next, err := ParseTarget(operands, next, syms)
		if err != nil {
			return nil, fmt.Errorf("%saload: %w", fam.Prefix, err)
		}
		result := Target{Kind: TargetStack}
		if rname, ok := findFlag(operands, "-r"); ok {
			result = Target{Kind: TargetLocal, Local: rname, Slot: resolveLocal(rname, syms)}
		}
		_ = next
		return arrayLoadInstr[T]{fam, array, index, result}, nil
	}
}

// arrayStoreInstr writes a value into arr[index], grounded on
// IASTORE/LASTORE/FASTORE/DASTORE.
type arrayStoreInstr[T Number] struct {
	fam   family[T]
	array Target
	index Target
	value Target
}

func (a arrayStoreInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	arr, err := resolveArrayTarget(f, a.array)
	if err != nil {
		return fmt.Errorf("%sastore: %w", a.fam.Prefix, err)
	}
	index, err := resolve(intFamily, f, a.index)
	if err != nil {
		return fmt.Errorf("%sastore: %w", a.fam.Prefix, err)
	}
	v, err := resolve(a.fam, f, a.value)
	if err != nil {
		return fmt.Errorf("%sastore: %w", a.fam.Prefix, err)
	}
	if !arr.Set(int(index), v) {
		return fmt.Errorf("%sastore: index %d out of range (len %d)", a.fam.Prefix, index, arr.Len())
	}
	return nil
}

func (a arrayStoreInstr[T]) Debug() string {
	return fmt.Sprintf("%sastore %s %s %s", a.fam.Prefix, a.array, a.index, a.value)
}

func parseArrayStore[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		array, next, err := ParseTarget(operands, 0, syms)
		if err != nil {
			return nil, fmt.Errorf("%sastore: %w", fam.Prefix, err)
		}
		index, next, err := ParseTarget(operands, next, syms)
		if err != nil {
			return nil, fmt.Errorf("%sastore: %w", fam.Prefix, err)
		}
		value, next, err := ParseTarget(operands, next, syms)
		if err != nil {
			return nil, fmt.Errorf("%sastore: %w", fam.Prefix, err)
		}
		_ = next
		return arrayStoreInstr[T]{fam, array, index, value}, nil
	}
}

func registerArrayOpcodes() {
	register("newarray", parseNewArray)
	register("arraylength", parseArraylength)
	registerArrayFamily(intFamily)
	registerArrayFamily(longFamily)
	registerArrayFamily(floatFamily)
	registerArrayFamily(doubleFamily)
}

func registerArrayFamily[T Number](fam family[T]) {
	register(fam.Prefix+"aload", parseArrayLoad(fam))
	register(fam.Prefix+"astore", parseArrayStore(fam))
}
