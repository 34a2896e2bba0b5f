/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package instruction

import (
	"fmt"
	"strings"

	"github.com/binstock-labs/voidvm/internal/frame"
	"github.com/binstock-labs/voidvm/internal/object"
	"github.com/binstock-labs/voidvm/internal/vmerrors"
	"github.com/binstock-labs/voidvm/internal/vtype"
)

// gotoInstr is an unconditional jump to a label resolved at parse time.
type gotoInstr struct {
	label string
	index int
}

func (g gotoInstr) Execute(f *frame.Frame, reg object.Registry) error {
	f.Cursor = g.index - 1
	return nil
}
func (g gotoInstr) Debug() string { return "goto " + g.label }

// printInstr/printlnInstr write their literal operand text (the operand
// tokens joined by single spaces) to standard output; no operand is read
// from a stack.
type printInstr struct {
	text    string
	newline bool
}

func (p printInstr) Execute(f *frame.Frame, reg object.Registry) error {
	if p.newline {
		fmt.Println(p.text)
	} else {
		fmt.Print(p.text)
	}
	return nil
}
func (p printInstr) Debug() string {
	if p.newline {
		return "println " + p.text
	}
	return "print " + p.text
}

// invokestaticInstr calls a named static method on a named class,
// running it as a nested frame whose parent is the calling frame.
type invokestaticInstr struct {
	className  string
	methodName string
}

func (inv invokestaticInstr) Execute(f *frame.Frame, reg object.Registry) error {
	cls, err := reg.Resolve(inv.className)
	if err != nil {
		return err
	}
	m, ok := cls.Method(inv.methodName)
	if !ok {
		return vmerrors.New(vmerrors.NoSuchMethod, "%s.%s", inv.className, inv.methodName)
	}
	return m.Invoke(reg, f)
}
func (inv invokestaticInstr) Debug() string {
	return fmt.Sprintf("invokestatic %s.%s", inv.className, inv.methodName)
}

// getstaticInstr/putstaticInstr read or write a class's static field,
// dispatching through the typed stack family the field was declared
// with (via its FieldDescriptor.Type) rather than assuming int.
type getstaticInstr struct {
	className, fieldName string
}

func (g getstaticInstr) Execute(f *frame.Frame, reg object.Registry) error {
	cls, err := reg.Resolve(g.className)
	if err != nil {
		return err
	}
	v, ok := cls.GetStatic(g.fieldName)
	if !ok {
		return vmerrors.New(vmerrors.NoSuchClass, "no such static field %s.%s", g.className, g.fieldName)
	}
	pushTyped(f, v)
	return nil
}
func (g getstaticInstr) Debug() string {
	return fmt.Sprintf("getstatic %s.%s", g.className, g.fieldName)
}

type putstaticInstr struct {
	className, fieldName string
	src                  Target
}

func (p putstaticInstr) Execute(f *frame.Frame, reg object.Registry) error {
	cls, err := reg.Resolve(p.className)
	if err != nil {
		return err
	}
	fd, ok := cls.StaticField(p.fieldName)
	if !ok {
		return vmerrors.New(vmerrors.NoSuchClass, "no such static field %s.%s", p.className, p.fieldName)
	}
	v, ok := pullTyped(f, fd.Type)
	if !ok {
		return fmt.Errorf("putstatic: operand stack underflow")
	}
	cls.SetStatic(p.fieldName, v)
	return nil
}
func (p putstaticInstr) Debug() string {
	return fmt.Sprintf("putstatic %s.%s %s", p.className, p.fieldName, p.src)
}

// getfieldInstr/putfieldInstr read or write an instance field on the
// reference at the top of the Refs stack.
type getfieldInstr struct {
	fieldName string
}

func (g getfieldInstr) Execute(f *frame.Frame, reg object.Registry) error {
	inst, ok := f.Refs.Get()
	if !ok || inst == nil {
		return fmt.Errorf("getfield: null reference")
	}
	v, ok := inst.Get(g.fieldName)
	if !ok {
		return fmt.Errorf("getfield: no such field %q", g.fieldName)
	}
	pushTyped(f, v)
	return nil
}
func (g getfieldInstr) Debug() string { return "getfield " + g.fieldName }

type putfieldInstr struct {
	fieldName string
}

func (p putfieldInstr) Execute(f *frame.Frame, reg object.Registry) error {
	inst, ok := f.Refs.Get()
	if !ok || inst == nil {
		return fmt.Errorf("putfield: null reference")
	}
	t, ok := object.FieldType(inst.Class, p.fieldName)
	if !ok {
		return fmt.Errorf("putfield: no such field %q", p.fieldName)
	}
	v, ok := pullTyped(f, t)
	if !ok {
		return fmt.Errorf("putfield: operand stack underflow")
	}
	inst.Set(p.fieldName, v)
	return nil
}
func (p putfieldInstr) Debug() string { return "putfield " + p.fieldName }

// pushTyped places a value of unknown concrete numeric/bool type onto
// its matching stack, used when a field/static value is read back.
func pushTyped(f *frame.Frame, v interface{}) {
	switch x := v.(type) {
	case int8:
		f.Bytes.Push(x)
	case int16:
		f.Shorts.Push(x)
	case int32:
		f.Ints.Push(x)
	case int64:
		f.Longs.Push(x)
	case float32:
		f.Floats.Push(x)
	case float64:
		f.Doubles.Push(x)
	case bool:
		f.Bools.Push(x)
	case *object.Instance:
		f.Refs.Push(x)
	case *object.Array:
		f.Arrays.Push(x)
	case nil:
		f.Refs.Push(nil)
	}
}

// pullTyped removes and returns a value from the stack family matching
// t's primitive, the reverse of pushTyped -- used when a field/static
// write needs to drain its value off the operand stack it was actually
// pushed to rather than assuming the int family.
func pullTyped(f *frame.Frame, t vtype.Type) (interface{}, bool) {
	switch t.Prim {
	case vtype.Byte:
		return f.Bytes.Pull(false)
	case vtype.Short:
		return f.Shorts.Pull(false)
	case vtype.Int:
		return f.Ints.Pull(false)
	case vtype.Long:
		return f.Longs.Pull(false)
	case vtype.Float:
		return f.Floats.Pull(false)
	case vtype.Double:
		return f.Doubles.Pull(false)
	case vtype.Bool:
		return f.Bools.Pull(false)
	case vtype.Char:
		return f.Chars.Pull(false)
	case vtype.Class:
		return f.Refs.Pull(false)
	default:
		return f.Ints.Pull(false)
	}
}

func registerControlOpcodes() {
	register("goto", func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("goto requires a label")
		}
		idx := 0
		if syms != nil {
			idx, _ = syms.Section(operands[0])
		}
		return gotoInstr{operands[0], idx}, nil
	})
	register("print", func(operands []string, syms SymbolTable) (Instruction, error) {
		return printInstr{strings.Join(operands, " "), false}, nil
	})
	register("println", func(operands []string, syms SymbolTable) (Instruction, error) {
		return printInstr{strings.Join(operands, " "), true}, nil
	})
	register("invokestatic", func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("invokestatic requires a <class>.<method> name")
		}
		className, methodName, ok := splitQualified(operands[0])
		if !ok {
			return nil, fmt.Errorf("invokestatic: expected <class>.<method>, got %q", operands[0])
		}
		return invokestaticInstr{className, methodName}, nil
	})
	register("getstatic", func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("getstatic requires a <class>.<field> name")
		}
		className, fieldName, ok := splitQualified(operands[0])
		if !ok {
			return nil, fmt.Errorf("getstatic: expected <class>.<field>, got %q", operands[0])
		}
		return getstaticInstr{className, fieldName}, nil
	})
	register("putstatic", func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("putstatic requires a <class>.<field> name")
		}
		className, fieldName, ok := splitQualified(operands[0])
		if !ok {
			return nil, fmt.Errorf("putstatic: expected <class>.<field>, got %q", operands[0])
		}
		src := Target{Kind: TargetStack}
		if len(operands) > 1 {
			if t, _, err := ParseTarget(operands, 1, syms); err == nil {
				src = t
			}
		}
		return putstaticInstr{className, fieldName, src}, nil
	})
	register("getfield", func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("getfield requires a field name")
		}
		return getfieldInstr{operands[0]}, nil
	})
	register("putfield", func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("putfield requires a field name")
		}
		return putfieldInstr{operands[0]}, nil
	})
}

func splitQualified(s string) (string, string, bool) {
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
