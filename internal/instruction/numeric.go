/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package instruction

import (
	"fmt"
	"math"

	"github.com/binstock-labs/voidvm/internal/frame"
	"github.com/binstock-labs/voidvm/internal/object"
	"github.com/binstock-labs/voidvm/internal/tstack"
	"github.com/binstock-labs/voidvm/internal/tstorage"
	"github.com/binstock-labs/voidvm/internal/vmerrors"
)

// Number is the set of primitive element types that get a full
// arithmetic opcode family (int, long, float, double). Byte/short/bool/
// char are typed-storage element types too, but per the instruction-set
// inventory only these four families get push/load/store/arith/compare
// opcodes of their own.
type Number interface {
	~int32 | ~int64 | ~float32 | ~float64
}

// family bundles everything generic opcode logic needs to reach a
// specific primitive family's stack, storage, and result kind, without
// each opcode type having to special-case int/long/float/double itself.
type family[T Number] struct {
	Prefix string // "i", "l", "f", "d" -- the opcode-name prefix, also used in Debug() text and error messages
	Stack  func(f *frame.Frame) *tstack.TypedStack[T]
	Locals func(f *frame.Frame) *tstorage.TypedStorage[T]
	Kind   byte
	Parse  func(s string) (T, error)
}

var intFamily = family[int32]{
	Prefix: "i",
	Stack:  func(f *frame.Frame) *tstack.TypedStack[int32] { return f.Ints },
	Locals: func(f *frame.Frame) *tstorage.TypedStorage[int32] { return f.IntLocals },
	Kind:   frame.KindInt,
	Parse:  parseInt32,
}

var longFamily = family[int64]{
	Prefix: "l",
	Stack:  func(f *frame.Frame) *tstack.TypedStack[int64] { return f.Longs },
	Locals: func(f *frame.Frame) *tstorage.TypedStorage[int64] { return f.LongLocals },
	Kind:   frame.KindLong,
	Parse:  parseInt64,
}

var floatFamily = family[float32]{
	Prefix: "f",
	Stack:  func(f *frame.Frame) *tstack.TypedStack[float32] { return f.Floats },
	Locals: func(f *frame.Frame) *tstorage.TypedStorage[float32] { return f.FloatLocals },
	Kind:   frame.KindFloat,
	Parse:  parseFloat32,
}

var doubleFamily = family[float64]{
	Prefix: "d",
	Stack:  func(f *frame.Frame) *tstack.TypedStack[float64] { return f.Doubles },
	Locals: func(f *frame.Frame) *tstorage.TypedStorage[float64] { return f.DoubleLocals },
	Kind:   frame.KindDouble,
	Parse:  parseFloat64,
}

func parseInt32(s string) (int32, error) {
	var v int64
	_, err := fmt.Sscanf(s, "%d", &v)
	return int32(v), err
}

func parseInt64(s string) (int64, error) {
	var v int64
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}

func parseFloat32(s string) (float32, error) {
	var v float64
	_, err := fmt.Sscanf(s, "%g", &v)
	return float32(v), err
}

func parseFloat64(s string) (float64, error) {
	var v float64
	_, err := fmt.Sscanf(s, "%g", &v)
	return v, err
}

// resolve reads a Target's value out of the stack, a named local, or a
// parsed constant literal.
func resolve[T Number](fam family[T], f *frame.Frame, t Target) (T, error) {
	switch t.Kind {
	case TargetStack:
		v, ok := fam.Stack(f).Pull(false)
		if !ok {
			return v, fmt.Errorf("%s: operand stack underflow", fam.Prefix)
		}
		return v, nil
	case TargetLocal:
		return fam.Locals(f).Get(t.Slot), nil
	case TargetConst:
		return fam.Parse(t.Const)
	default:
		return *new(T), fmt.Errorf("%s: unrecognized target", fam.Prefix)
	}
}

// ---- push ----

type pushInstr[T Number] struct {
	fam   family[T]
	value T
}

func (p pushInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	p.fam.Stack(f).Push(p.value)
	return nil
}

func (p pushInstr[T]) Debug() string {
	return fmt.Sprintf("%spush %v", p.fam.Prefix, p.value)
}

func parsePush[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("%spush requires a literal operand", fam.Prefix)
		}
		v, err := fam.Parse(operands[0])
		if err != nil {
			return nil, fmt.Errorf("%spush: %w", fam.Prefix, err)
		}
		return pushInstr[T]{fam, v}, nil
	}
}

// ---- load / store / set / ensure (locals indexed by name) ----

type loadInstr[T Number] struct {
	fam   family[T]
	local string
	slot  int
}

func (l loadInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	l.fam.Stack(f).Push(l.fam.Locals(f).Get(l.slot))
	return nil
}

func (l loadInstr[T]) Debug() string { return fmt.Sprintf("%sload %s", l.fam.Prefix, l.local) }

type storeInstr[T Number] struct {
	fam   family[T]
	local string
	slot  int
	keep  bool
}

func (s storeInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	v, ok := s.fam.Stack(f).Pull(s.keep)
	if !ok {
		return fmt.Errorf("%sstore: operand stack underflow", s.fam.Prefix)
	}
	s.fam.Locals(f).Set(s.slot, v)
	return nil
}

func (s storeInstr[T]) Debug() string {
	if s.keep {
		return fmt.Sprintf("%sstore %s -k", s.fam.Prefix, s.local)
	}
	return fmt.Sprintf("%sstore %s", s.fam.Prefix, s.local)
}

type setInstr[T Number] struct {
	fam   family[T]
	local string
	slot  int
	src   Target
}

func (s setInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	v, err := resolve(s.fam, f, s.src)
	if err != nil {
		return err
	}
	s.fam.Locals(f).Set(s.slot, v)
	return nil
}

func (s setInstr[T]) Debug() string {
	return fmt.Sprintf("%sset %s %s", s.fam.Prefix, s.local, s.src)
}

type ensureInstr[T Number] struct {
	fam   family[T]
	local string
	slot  int
}

func (e ensureInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	e.fam.Locals(f).Ensure(e.slot)
	return nil
}

func (e ensureInstr[T]) Debug() string { return fmt.Sprintf("%sensure %s", e.fam.Prefix, e.local) }

// ---- arithmetic: add/sub/mul/div/mod ----

type arithOp int

const (
	opAdd arithOp = iota
	opSub
	opMul
	opDiv
	opMod
)

var arithNames = map[arithOp]string{opAdd: "add", opSub: "sub", opMul: "mul", opDiv: "div", opMod: "mod"}

type arithInstr[T Number] struct {
	fam    family[T]
	op     arithOp
	lhs    Target
	rhs    Target
	result Target // TargetStack means push; TargetLocal means store to that local
}

func (a arithInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	lhs, err := resolve(a.fam, f, a.lhs)
	if err != nil {
		return err
	}
	rhs, err := resolve(a.fam, f, a.rhs)
	if err != nil {
		return err
	}
	var out T
	switch a.op {
	case opAdd:
		out = lhs + rhs
	case opSub:
		out = lhs - rhs
	case opMul:
		out = lhs * rhs
	case opDiv:
		if rhs == 0 {
			if a.fam.Prefix == "i" || a.fam.Prefix == "l" {
				return vmerrors.New(vmerrors.DivideByZero, "integer division by zero in %sdiv", a.fam.Prefix)
			}
			out = lhs / rhs // IEEE: +/-Inf, or NaN for 0/0
		} else {
			out = lhs / rhs
		}
	case opMod:
		if rhs == 0 {
			if a.fam.Prefix == "i" || a.fam.Prefix == "l" {
				return vmerrors.New(vmerrors.DivideByZero, "integer division by zero in %smod", a.fam.Prefix)
			}
			out = T(math.NaN())
		} else {
			out = floatMod(lhs, rhs)
		}
	}
	return deliver(a.fam, f, a.result, out)
}

func sign(v interface{}) int {
	switch x := v.(type) {
	case int32:
		if x < 0 {
			return -1
		}
	case int64:
		if x < 0 {
			return -1
		}
	case float32:
		if x < 0 {
			return -1
		}
	case float64:
		if x < 0 {
			return -1
		}
	}
	return 1
}

// floatMod computes an IEEE-754-style remainder for float/double families
// and a plain integer remainder for int/long; both collapse to the same
// generic expression here because Go's % operator only applies to
// integer types, so floats route through math.Mod via a type switch.
func floatMod[T Number](a, b T) T {
	switch v := any(a).(type) {
	case int32:
		return T(v % any(b).(int32))
	case int64:
		return T(v % any(b).(int64))
	case float32:
		return T(float32(math.Mod(float64(v), float64(any(b).(float32)))))
	case float64:
		return T(math.Mod(v, any(b).(float64)))
	}
	return a
}

func deliver[T Number](fam family[T], f *frame.Frame, target Target, v T) error {
	switch target.Kind {
	case TargetStack:
		fam.Stack(f).Push(v)
		return nil
	case TargetLocal:
		fam.Locals(f).Set(target.Slot, v)
		return nil
	default:
		return fmt.Errorf("arithmetic result target must be -stack or -local")
	}
}

func (a arithInstr[T]) Debug() string {
	s := fmt.Sprintf("%s%s %s %s", a.fam.Prefix, arithNames[a.op], a.lhs, a.rhs)
	if a.result.Kind == TargetLocal {
		s += " -r " + a.result.Local
	}
	return s
}

// ---- inc / decr / neg ----

type unaryOp int

const (
	opInc unaryOp = iota
	opDecr
	opNeg
)

type unaryInstr[T Number] struct {
	fam   family[T]
	op    unaryOp
	local string
	slot  int
}

func (u unaryInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	v := u.fam.Locals(f).Get(u.slot)
	switch u.op {
	case opInc:
		v++
	case opDecr:
		v--
	case opNeg:
		v = -v
	}
	u.fam.Locals(f).Set(u.slot, v)
	return nil
}

func (u unaryInstr[T]) Debug() string {
	names := map[unaryOp]string{opInc: "inc", opDecr: "decr", opNeg: "neg"}
	return fmt.Sprintf("%s%s %s", u.fam.Prefix, names[u.op], u.local)
}

// ---- return ----

type returnInstr[T Number] struct {
	fam family[T]
}

func (r returnInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	v, ok := r.fam.Stack(f).Pull(false)
	if !ok {
		return fmt.Errorf("%sreturn: operand stack underflow", r.fam.Prefix)
	}
	f.State = frame.TerminatingWithValue
	if f.Parent != nil {
		f.Parent.PushResult(v, r.fam.Kind)
	}
	return nil
}

func (r returnInstr[T]) Debug() string { return r.fam.Prefix + "return" }

// ---- debug / stacksize / dumpstack / clearstack / pop / dup ----

type debugInstr[T Number] struct {
	fam     family[T]
	newline bool
	keep    bool
}

func (d debugInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	v, ok := d.fam.Stack(f).Pull(d.keep)
	suffix := ""
	if d.newline {
		suffix = "\n"
	}
	if ok {
		fmt.Printf("%v%s", v, suffix)
	} else {
		fmt.Printf("<empty>%s", suffix)
	}
	return nil
}

func (d debugInstr[T]) Debug() string {
	s := d.fam.Prefix + "debug"
	if d.newline {
		s += " -newline"
	}
	if d.keep {
		s += " -keepstack"
	}
	return s
}

type stacksizeInstr[T Number] struct{ fam family[T] }

func (s stacksizeInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	s.fam.Stack(f).Push(T(s.fam.Stack(f).Size()))
	return nil
}
func (s stacksizeInstr[T]) Debug() string { return s.fam.Prefix + "stacksize" }

type dumpstackInstr[T Number] struct{ fam family[T] }

func (d dumpstackInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	fmt.Println(f.Stack())
	return nil
}
func (d dumpstackInstr[T]) Debug() string { return d.fam.Prefix + "dumpstack" }

type clearstackInstr[T Number] struct{ fam family[T] }

func (c clearstackInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	c.fam.Stack(f).Clear()
	return nil
}
func (c clearstackInstr[T]) Debug() string { return c.fam.Prefix + "clearstack" }

type popInstr[T Number] struct{ fam family[T] }

func (p popInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	p.fam.Stack(f).Pull(false)
	return nil
}
func (p popInstr[T]) Debug() string { return p.fam.Prefix + "pop" }

type dupInstr[T Number] struct {
	fam family[T]
	n   int
}

func (d dupInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	v, ok := d.fam.Stack(f).Get()
	if !ok {
		return fmt.Errorf("%sdup: operand stack underflow", d.fam.Prefix)
	}
	for i := 0; i < d.n; i++ {
		d.fam.Stack(f).Push(v)
	}
	return nil
}
func (d dupInstr[T]) Debug() string { return fmt.Sprintf("%sdup %d", d.fam.Prefix, d.n) }

// ---- comparison branches: ifi==, ifi!=, ifi>, ifi>=, ifi<, ifi<= ----

type cmpOp int

const (
	cmpEQ cmpOp = iota
	cmpNE
	cmpGT
	cmpGE
	cmpLT
	cmpLE
)

var cmpSymbols = map[string]cmpOp{"==": cmpEQ, "!=": cmpNE, ">": cmpGT, ">=": cmpGE, "<": cmpLT, "<=": cmpLE}
var cmpNames = map[cmpOp]string{cmpEQ: "==", cmpNE: "!=", cmpGT: ">", cmpGE: ">=", cmpLT: "<", cmpLE: "<="}

type ifInstr[T Number] struct {
	fam       family[T]
	cmp       cmpOp
	lhs, rhs  Target
	jumpLabel string
	jumpIndex int
}

func compare[T Number](lhs, rhs T, op cmpOp) bool {
	switch op {
	case cmpEQ:
		return lhs == rhs
	case cmpNE:
		return lhs != rhs
	case cmpGT:
		return lhs > rhs
	case cmpGE:
		return lhs >= rhs
	case cmpLT:
		return lhs < rhs
	case cmpLE:
		return lhs <= rhs
	}
	return false
}

func (b ifInstr[T]) Execute(f *frame.Frame, reg object.Registry) error {
	lhs, err := resolve(b.fam, f, b.lhs)
	if err != nil {
		return err
	}
	rhs, err := resolve(b.fam, f, b.rhs)
	if err != nil {
		return err
	}
	if compare(lhs, rhs, b.cmp) {
		f.Cursor = b.jumpIndex - 1 // caller increments after Execute returns
	}
	return nil
}

func (b ifInstr[T]) Debug() string {
	return fmt.Sprintf("if%s%s %s %s -jump %s", b.fam.Prefix, cmpNames[b.cmp], b.lhs, b.rhs, b.jumpLabel)
}

// ---- generic Parse functions, instantiated once per family in table.go ----

func parseLoad[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("%sload requires a local name", fam.Prefix)
		}
		return loadInstr[T]{fam, operands[0], resolveLocal(operands[0], syms)}, nil
	}
}

func parseStore[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("%sstore requires a local name", fam.Prefix)
		}
		keep := hasFlag(operands, "-k")
		return storeInstr[T]{fam, operands[0], resolveLocal(operands[0], syms), keep}, nil
	}
}

func parseSet[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 2 {
			return nil, fmt.Errorf("%sset requires a local name and a source target", fam.Prefix)
		}
		src, _, err := ParseTarget(operands, 1, syms)
		if err != nil {
			return nil, fmt.Errorf("%sset: %w", fam.Prefix, err)
		}
		return setInstr[T]{fam, operands[0], resolveLocal(operands[0], syms), src}, nil
	}
}

func parseEnsure[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("%sensure requires a local name", fam.Prefix)
		}
		return ensureInstr[T]{fam, operands[0], resolveLocal(operands[0], syms)}, nil
	}
}

func parseArith[T Number](fam family[T], op arithOp) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		lhs, next, err := ParseTarget(operands, 0, syms)
		if err != nil {
			return nil, fmt.Errorf("%s%s: %w", fam.Prefix, arithNames[op], err)
		}
		rhs, next, err := ParseTarget(operands, next, syms)
		if err != nil {
			return nil, fmt.Errorf("%s%s: %w", fam.Prefix, arithNames[op], err)
		}
		result := Target{Kind: TargetStack}
		if rname, ok := findFlag(operands, "-r"); ok {
			result = Target{Kind: TargetLocal, Local: rname, Slot: resolveLocal(rname, syms)}
		}
		_ = next
		return arithInstr[T]{fam, op, lhs, rhs, result}, nil
	}
}

func parseUnary[T Number](fam family[T], op unaryOp) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		if len(operands) < 1 {
			return nil, fmt.Errorf("expected a local name")
		}
		return unaryInstr[T]{fam, op, operands[0], resolveLocal(operands[0], syms)}, nil
	}
}

func parseReturn[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		return returnInstr[T]{fam}, nil
	}
}

func parseDebug[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		return debugInstr[T]{fam, hasFlag(operands, "-newline"), hasFlag(operands, "-keepstack")}, nil
	}
}

func parseStacksize[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		return stacksizeInstr[T]{fam}, nil
	}
}

func parseDumpstack[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		return dumpstackInstr[T]{fam}, nil
	}
}

func parseClearstack[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		return clearstackInstr[T]{fam}, nil
	}
}

func parsePop[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		return popInstr[T]{fam}, nil
	}
}

func parseDup[T Number](fam family[T]) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		n := 1
		if len(operands) >= 1 {
			if v, err := parseIndex(operands[0]); err == nil {
				n = v
			}
		}
		return dupInstr[T]{fam, n}, nil
	}
}

func parseIf[T Number](fam family[T], cmp cmpOp) ParseFunc {
	return func(operands []string, syms SymbolTable) (Instruction, error) {
		lhs, next, err := ParseTarget(operands, 0, syms)
		if err != nil {
			return nil, fmt.Errorf("if%s%s: %w", fam.Prefix, cmpNames[cmp], err)
		}
		rhs, next, err := ParseTarget(operands, next, syms)
		if err != nil {
			return nil, fmt.Errorf("if%s%s: %w", fam.Prefix, cmpNames[cmp], err)
		}
		label, ok := findFlag(operands, "-jump")
		if !ok {
			return nil, fmt.Errorf("if%s%s requires -jump <label>", fam.Prefix, cmpNames[cmp])
		}
		idx := 0
		if syms != nil {
			idx, _ = syms.Section(label)
		}
		_ = next
		return ifInstr[T]{fam, cmp, lhs, rhs, label, idx}, nil
	}
}
