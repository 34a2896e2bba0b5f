/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package instruction

import (
	"github.com/binstock-labs/voidvm/internal/frame"
	"github.com/binstock-labs/voidvm/internal/object"
)

// Instruction is the tagged-variant interface every opcode family
// implements: Execute runs it against a frame, Debug renders it back to
// its textual form for the round-trip pretty-print property.
type Instruction interface {
	Execute(f *frame.Frame, reg object.Registry) error
	Debug() string
}

// SymbolTable is the narrow view of an Executable's sections/linkers
// tables a Parse function needs to resolve `:label` and `#link`
// references at parse time. Defined here (not in package executable) so
// executable can implement it structurally without instruction importing
// executable back.
type SymbolTable interface {
	Section(label string) (int, bool)
	Linker(name string) (int, bool)
}

// ParseFunc builds one Instruction from an opcode's operand tokens.
type ParseFunc func(operands []string, syms SymbolTable) (Instruction, error)

// EmptyInstruction is what an unrecognized opcode parses to: a no-op
// that logs nothing and simply advances the cursor, per the
// UnrecognizedInstruction diagnostic being non-fatal.
type EmptyInstruction struct {
	Opcode string
}

func (e EmptyInstruction) Execute(f *frame.Frame, reg object.Registry) error {
	return nil
}

func (e EmptyInstruction) Debug() string {
	return "; unrecognized opcode: " + e.Opcode
}
