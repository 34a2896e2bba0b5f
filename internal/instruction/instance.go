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

// new <className> [-r <local>] constructs a fresh instance of className,
// lazily resolving the class if it hasn't been loaded yet, and places a
// reference to it on the Refs stack (or into a named local, if -r is
// given) per the instruction's result Target.
type newInstr struct {
	className string
	result    Target
}

func (n newInstr) Execute(f *frame.Frame, reg object.Registry) error {
	cls, err := reg.Resolve(n.className)
	if err != nil {
		return err
	}
	inst := object.New(reg, cls)
	switch n.result.Kind {
	case TargetLocal:
		f.RefLocals.Set(n.result.Slot, inst)
	default:
		f.Refs.Push(inst)
	}
	return nil
}

func (n newInstr) Debug() string {
	if n.result.Kind == TargetLocal {
		return fmt.Sprintf("new %s -r %s", n.className, n.result.Local)
	}
	return "new " + n.className
}

// nullptr pushes a nil instance reference.
type nullptrInstr struct{}

func (nullptrInstr) Execute(f *frame.Frame, reg object.Registry) error {
	f.Refs.Push(nil)
	return nil
}
func (nullptrInstr) Debug() string { return "nullptr" }

// aload/astore move a reference between the Refs stack and a named ref
// local, exactly like the numeric families' load/store.
type arefLoadInstr struct {
	local string
	slot  int
}

func (a arefLoadInstr) Execute(f *frame.Frame, reg object.Registry) error {
	f.Refs.Push(f.RefLocals.Get(a.slot))
	return nil
}
func (a arefLoadInstr) Debug() string { return "aload " + a.local }

type arefStoreInstr struct {
	local string
	slot  int
	keep  bool
}

func (a arefStoreInstr) Execute(f *frame.Frame, reg object.Registry) error {
	v, ok := f.Refs.Pull(a.keep)
	if !ok {
		return fmt.Errorf("astore: operand stack underflow")
	}
	f.RefLocals.Set(a.slot, v)
	return nil
}
func (a arefStoreInstr) Debug() string {
	if a.keep {
		return "astore " + a.local + " -k"
	}
	return "astore " + a.local
}

// adebug prints the class name, instance id, and field snapshot of the
// top-of-stack reference, without removing it.
type adebugInstr struct{}

func (adebugInstr) Execute(f *frame.Frame, reg object.Registry) error {
	v, ok := f.Refs.Get()
	if !ok || v == nil {
		fmt.Println("<null>")
		return nil
	}
	name := "?"
	if v.Class != nil {
		name = v.Class.Name()
	}
	fmt.Printf("%s@%d %v\n", name, v.ID, v.Fields)
	return nil
}
func (adebugInstr) Debug() string { return "adebug" }

// agetaddr pushes the instance id of the top-of-stack reference as an
// opaque long, or 0 for a null reference.
type agetaddrInstr struct{}

func (agetaddrInstr) Execute(f *frame.Frame, reg object.Registry) error {
	v, ok := f.Refs.Get()
	if !ok || v == nil {
		f.Longs.Push(int64(0))
		return nil
	}
	f.Longs.Push(int64(v.ID))
	return nil
}
func (agetaddrInstr) Debug() string { return "agetaddr" }

// asetaddr is reserved and intentionally unimplemented: its parse form
// is recognized so programs referencing it don't trip
// UnrecognizedInstruction, but Execute is a deliberate no-op pending a
// future address-rebinding design.
type asetaddrInstr struct{}

func (asetaddrInstr) Execute(f *frame.Frame, reg object.Registry) error { return nil }
func (asetaddrInstr) Debug() string                                    { return "asetaddr" }

// delete detaches the top-of-stack reference's fields and class pointer.
// Deleting an already-deleted or null instance is a no-op, not an error.
type deleteInstr struct{}

func (deleteInstr) Execute(f *frame.Frame, reg object.Registry) error {
	v, ok := f.Refs.Pull(false)
	if !ok {
		return fmt.Errorf("delete: operand stack underflow")
	}
	if v != nil {
		v.Delete()
	}
	return nil
}
func (deleteInstr) Debug() string { return "delete" }

func registerInstanceOpcodes() {
	register("new", func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("new requires a class name")
		}
		result := Target{Kind: TargetStack}
		if rname, ok := findFlag(operands, "-r"); ok {
			result = Target{Kind: TargetLocal, Local: rname, Slot: resolveLocal(rname, syms)}
		}
		return newInstr{operands[0], result}, nil
	})
	register("nullptr", func(operands []string, syms SymbolTable) (Instruction, error) {
		return nullptrInstr{}, nil
	})
	register("aload", func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("aload requires a local name")
		}
		return arefLoadInstr{operands[0], resolveLocal(operands[0], syms)}, nil
	})
	register("astore", func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("astore requires a local name")
		}
		return arefStoreInstr{operands[0], resolveLocal(operands[0], syms), hasFlag(operands, "-k")}, nil
	})
	register("adebug", func(operands []string, syms SymbolTable) (Instruction, error) {
		return adebugInstr{}, nil
	})
	register("agetaddr", func(operands []string, syms SymbolTable) (Instruction, error) {
		return agetaddrInstr{}, nil
	})
	register("asetaddr", func(operands []string, syms SymbolTable) (Instruction, error) {
		return asetaddrInstr{}, nil
	})
	register("delete", func(operands []string, syms SymbolTable) (Instruction, error) {
		return deleteInstr{}, nil
	})
}
