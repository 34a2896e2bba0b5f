/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package executable implements the Executable base type plus Method and
// Field, the two concrete kinds of executable body a class carries.
// Build performs a two-pass construction: a symbol pass that records
// `:label` and `#link name slot` directives, then an instruction pass
// that parses each remaining line against the opcode table, resolving
// linker/section references at parse time rather than at execution
// time.
package executable

import (
	"fmt"

	"github.com/binstock-labs/voidvm/internal/frame"
	"github.com/binstock-labs/voidvm/internal/instruction"
	"github.com/binstock-labs/voidvm/internal/modifier"
	"github.com/binstock-labs/voidvm/internal/object"
	"github.com/binstock-labs/voidvm/internal/vmerrors"
	"github.com/binstock-labs/voidvm/internal/vmlog"
	"github.com/binstock-labs/voidvm/internal/vtype"
)

// Executable is the base shared by Method and Field: its raw source
// lines, and the section/linker symbol tables built from them.
type Executable struct {
	Lines     []string
	Sections  map[string]int
	Linkers   map[string]int
	Modifiers modifier.Set

	Instructions []instruction.Instruction
}

// Section implements instruction.SymbolTable.
func (e *Executable) Section(label string) (int, bool) {
	i, ok := e.Sections[label]
	return i, ok
}

// Linker implements instruction.SymbolTable.
func (e *Executable) Linker(name string) (int, bool) {
	i, ok := e.Linkers[name]
	return i, ok
}

// Build runs the two-pass construction: a symbol pass over Lines
// recording `:label` positions and `#link name slot` bindings (last
// directive wins on a collision, logged as a non-fatal warning), then an
// instruction pass that parses every remaining line via
// instruction.Parse, using this Executable as the SymbolTable so
// `-local`/`-jump` references resolve immediately.
func (e *Executable) Build() error {
	if e.Sections == nil {
		e.Sections = make(map[string]int)
	}
	if e.Linkers == nil {
		e.Linkers = make(map[string]int)
	}

	var instrLineIdx []int
	pos := 0
	for _, raw := range e.Lines {
		tokens := instruction.Tokenize(raw)
		if len(tokens) == 0 {
			continue
		}
		if len(tokens[0]) > 1 && tokens[0][0] == ':' {
			label := tokens[0][1:]
			if _, dup := e.Sections[label]; dup && vmlog.WarnSection() {
				_ = vmlog.Log(fmt.Sprintf("duplicate section label %q, last definition wins", label), vmlog.WARNING)
			}
			e.Sections[label] = pos
			continue
		}
		if tokens[0] == "#link" {
			if len(tokens) < 3 {
				return vmerrors.New(vmerrors.DuplicateLinker, "malformed #link directive: %q", raw)
			}
			name := tokens[1]
			slot, err := parseSlot(tokens[2])
			if err != nil {
				return err
			}
			if prevSlot, dup := e.Linkers[name]; dup {
				if prevSlot != slot {
					if vmlog.WarnLinker() {
						_ = vmlog.Log(fmt.Sprintf("duplicate linker name %q with differing slot, last definition wins", name), vmlog.WARNING)
					}
				} else if vmlog.WarnDupLinker() {
					_ = vmlog.Log(fmt.Sprintf("duplicate linker name %q", name), vmlog.WARNING)
				}
			}
			e.Linkers[name] = slot
			continue
		}
		instrLineIdx = append(instrLineIdx, pos)
		pos++
	}

	e.Instructions = make([]instruction.Instruction, 0, len(instrLineIdx))
	idx := 0
	for _, raw := range e.Lines {
		tokens := instruction.Tokenize(raw)
		if len(tokens) == 0 {
			continue
		}
		if (len(tokens[0]) > 1 && tokens[0][0] == ':') || tokens[0] == "#link" {
			continue
		}
		instr, err := instruction.Parse(tokens, e)
		if err != nil {
			return fmt.Errorf("line %d: %w", idx, err)
		}
		e.Instructions = append(e.Instructions, instr)
		idx++
	}
	return nil
}

func parseSlot(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	if err != nil {
		return 0, vmerrors.New(vmerrors.DuplicateLinkerValue, "malformed linker slot %q", s)
	}
	return n, nil
}

// Method is a named, callable Executable belonging to a Class.
type Method struct {
	Executable
	ClassName string
	Name      string
	ParamKinds []byte // the byte-kind of each declared parameter, in order
	Static    bool
	Native    bool
	Abstract  bool
}

// Invoke runs the method as a nested frame whose parent is the calling
// frame: native/abstract methods have no body and return immediately;
// otherwise a fresh Frame is created, declared parameters are copied off
// the caller's typed stacks into storage (slot 0 reserved for self on a
// non-static method), and the cursor runs the instruction list until the
// frame terminates.
func (m *Method) Invoke(reg object.Registry, caller interface{}) error {
	if m.Native || m.Abstract {
		return nil
	}
	callerFrame, _ := caller.(*frame.Frame)

	f := frame.New(m.ClassName, m.Name, callerFrame)
	start := 0
	if !m.Static {
		if callerFrame != nil {
			self, _ := callerFrame.Refs.Pull(false)
			f.RefLocals.Set(0, self)
		}
		start = 1
	}
	if callerFrame != nil {
		for i := 0; i < len(m.ParamKinds); i++ {
			copyParam(callerFrame, f, start+i, m.ParamKinds[i])
		}
	}

	for f.Cursor = 0; f.Cursor < len(m.Instructions); f.Cursor++ {
		if err := m.Instructions[f.Cursor].Execute(f, reg); err != nil {
			return err
		}
		if f.State != frame.Running {
			break
		}
	}
	return nil
}

func copyParam(caller, callee *frame.Frame, slot int, kind byte) {
	switch kind {
	case frame.KindByte:
		v, _ := caller.Bytes.Pull(false)
		callee.ByteLocals.Set(slot, v)
	case frame.KindShort:
		v, _ := caller.Shorts.Pull(false)
		callee.ShortLocals.Set(slot, v)
	case frame.KindInt:
		v, _ := caller.Ints.Pull(false)
		callee.IntLocals.Set(slot, v)
	case frame.KindLong:
		v, _ := caller.Longs.Pull(false)
		callee.LongLocals.Set(slot, v)
	case frame.KindFloat:
		v, _ := caller.Floats.Pull(false)
		callee.FloatLocals.Set(slot, v)
	case frame.KindDouble:
		v, _ := caller.Doubles.Pull(false)
		callee.DoubleLocals.Set(slot, v)
	case frame.KindBool:
		v, _ := caller.Bools.Pull(false)
		callee.BoolLocals.Set(slot, v)
	case frame.KindChar:
		v, _ := caller.Chars.Pull(false)
		callee.CharLocals.Set(slot, v)
	case frame.KindRef:
		v, _ := caller.Refs.Pull(false)
		callee.RefLocals.Set(slot, v)
	}
}

// Field is a class or instance field, optionally carrying a small
// initializer mini-program (Executable). For a static field, class
// initialization runs it and its terminal value becomes the field's
// value. Instance construction (object.New) does not run it: each new
// instance's field starts at Default.
type Field struct {
	Executable
	ClassName  string
	Name       string
	Static     bool
	ResultKind byte
	VType      vtype.Type // parsed descriptor mirroring ResultKind, carried for declared-field lookups
	Default    interface{} // zero value of ResultKind, used when the field has no initializer
}

// Invoke runs the field's initializer mini-program to completion and
// hands its terminal value back to the caller frame once: through the
// body's own <fam>return, or, if the body ends without one, by pushing
// the head of its ResultKind stack via PushResult. The caller (class
// initialization) is responsible for popping it off and writing it into
// the static slot.
func (fld *Field) Invoke(reg object.Registry, caller interface{}) error {
	if len(fld.Instructions) == 0 {
		return nil
	}
	callerFrame, _ := caller.(*frame.Frame)
	f := frame.New(fld.ClassName, fld.Name, callerFrame)
	for f.Cursor = 0; f.Cursor < len(fld.Instructions); f.Cursor++ {
		if err := fld.Instructions[f.Cursor].Execute(f, reg); err != nil {
			return err
		}
		if f.State != frame.Running {
			break
		}
	}
	if callerFrame == nil || f.State == frame.TerminatingWithValue {
		return nil
	}
	v := terminalValue(f, fld.ResultKind)
	callerFrame.PushResult(v, fld.ResultKind)
	return nil
}

func terminalValue(f *frame.Frame, kind byte) interface{} {
	switch kind {
	case frame.KindByte:
		v, _ := f.Bytes.Pull(false)
		return v
	case frame.KindShort:
		v, _ := f.Shorts.Pull(false)
		return v
	case frame.KindInt:
		v, _ := f.Ints.Pull(false)
		return v
	case frame.KindLong:
		v, _ := f.Longs.Pull(false)
		return v
	case frame.KindFloat:
		v, _ := f.Floats.Pull(false)
		return v
	case frame.KindDouble:
		v, _ := f.Doubles.Pull(false)
		return v
	case frame.KindBool:
		v, _ := f.Bools.Pull(false)
		return v
	case frame.KindChar:
		v, _ := f.Chars.Pull(false)
		return v
	case frame.KindRef:
		v, _ := f.Refs.Pull(false)
		return v
	default:
		return nil
	}
}
