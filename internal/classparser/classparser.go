/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package classparser implements the class-body line state machine
// (None/ClassDecl/MethodDecl/FieldDecl) that turns the concatenated text
// of a program's bytecode files into registered *class.Class values:
// cdef/cext/cimpl/cmod/cbegin/cend frame a class, mdef/mend frame a
// method, fdef/fend frame a field.
package classparser

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/binstock-labs/voidvm/internal/class"
	"github.com/binstock-labs/voidvm/internal/executable"
	"github.com/binstock-labs/voidvm/internal/frame"
	"github.com/binstock-labs/voidvm/internal/modifier"
	"github.com/binstock-labs/voidvm/internal/vmerrors"
	"github.com/binstock-labs/voidvm/internal/vmlog"
	"github.com/binstock-labs/voidvm/internal/vtype"
)

// state names the class-body parser's position: one of
// None/ClassDecl/MethodDecl/FieldDecl.
type state int

const (
	stateNone state = iota
	stateClassDecl
	stateMethodDecl
	stateFieldDecl
)

// PendingLink records a superclass name that must be resolved against
// the registry after every file has been parsed (a class may name a
// superclass defined in a file processed later in directory-walk order).
type PendingLink struct {
	Class      *class.Class
	SuperName  string
}

// Parser accumulates classes across possibly many source files, in
// directory-walk order, before a single cross-reference resolution pass.
type Parser struct {
	Classes []*class.Class
	Pending []PendingLink

	st            state
	depth         int
	cur           *class.Class
	curMethod     *executable.Method
	curField      *executable.Field
	nestedParents []*class.Class
}

// New creates an empty Parser.
func New() *Parser {
	return &Parser{}
}

// ParseSource feeds one file's text into the parser. Call it once per
// file in directory-walk order, then call Finish.
func (p *Parser) ParseSource(filename, text string) error {
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if err := p.line(strings.TrimSpace(line)); err != nil {
			return fmt.Errorf("%s:%d: %w", filename, lineNo, err)
		}
	}
	return scanner.Err()
}

func (p *Parser) line(line string) error {
	if line == "" || strings.HasPrefix(line, ";") {
		return nil
	}
	fields := strings.Fields(line)
	directive := fields[0]

	switch directive {
	case "cdef":
		return p.beginClass(fields)
	case "cext":
		return p.setSuper(fields)
	case "cimpl":
		return p.addInterface(fields)
	case "cmod":
		return p.addClassModifier(fields)
	case "cbegin":
		p.depth++
		return nil
	case "cend":
		return p.endClass()
	case "mdef":
		return p.beginMethod(fields)
	case "mend":
		return p.endMethod()
	case "fdef":
		return p.beginField(fields)
	case "fend":
		return p.endField()
	}

	switch p.st {
	case stateMethodDecl:
		p.curMethod.Lines = append(p.curMethod.Lines, line)
	case stateFieldDecl:
		p.curField.Lines = append(p.curField.Lines, line)
	default:
		_ = vmlog.Log("line outside any method/field body ignored: "+line, vmlog.WARNING)
	}
	return nil
}

func (p *Parser) beginClass(fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("cdef requires a class name")
	}
	name := fields[1]
	if p.cur != nil {
		// nested class: compute its full name once we know whether it's static
		p.nestedParents = append(p.nestedParents, p.cur)
	}
	c := &class.Class{FQN: name}
	p.cur = c
	p.st = stateClassDecl
	return nil
}

func (p *Parser) setSuper(fields []string) error {
	if p.cur == nil {
		return fmt.Errorf("cext outside of a class declaration")
	}
	if len(fields) < 2 {
		return fmt.Errorf("cext requires a class name")
	}
	p.Pending = append(p.Pending, PendingLink{Class: p.cur, SuperName: fields[1]})
	return nil
}

func (p *Parser) addInterface(fields []string) error {
	if p.cur == nil {
		return fmt.Errorf("cimpl outside of a class declaration")
	}
	if len(fields) < 2 {
		return fmt.Errorf("cimpl requires an interface name")
	}
	p.cur.Interfaces = append(p.cur.Interfaces, fields[1])
	return nil
}

func (p *Parser) addClassModifier(fields []string) error {
	if p.cur == nil {
		return fmt.Errorf("cmod outside of a class declaration")
	}
	if len(fields) < 2 {
		return fmt.Errorf("cmod requires a modifier name")
	}
	flag, ok := modifier.FromName(fields[1])
	if !ok {
		_ = vmlog.Log("unrecognized class modifier: "+fields[1], vmlog.WARNING)
		return nil
	}
	p.cur.Modifiers = p.cur.Modifiers.With(flag)
	return nil
}

func (p *Parser) endClass() error {
	if p.cur == nil {
		return fmt.Errorf("cend without a matching cdef")
	}
	finished := p.cur
	p.Classes = append(p.Classes, finished)

	if n := len(p.nestedParents); n > 0 {
		parent := p.nestedParents[n-1]
		p.nestedParents = p.nestedParents[:n-1]
		static := finished.Modifiers.Has(modifier.Static)
		finished.FQN = class.NestedName(parent.FQN, finished.FQN, static)
		if parent.Nested == nil {
			parent.Nested = make(map[string]*class.Class)
		}
		parent.Nested[finished.FQN] = finished
		p.cur = parent
	} else {
		p.cur = nil
		p.st = stateNone
	}
	return nil
}

func (p *Parser) beginMethod(fields []string) error {
	if p.cur == nil {
		return fmt.Errorf("mdef outside of a class declaration")
	}
	if len(fields) < 2 {
		return fmt.Errorf("mdef requires a method name")
	}
	m := &executable.Method{ClassName: p.cur.FQN, Name: fields[1]}
	for _, flag := range fields[2:] {
		switch flag {
		case "-static":
			m.Static = true
		case "-native":
			m.Native = true
		case "-abstract":
			m.Abstract = true
		}
	}
	m.ParamKinds = parseParamKinds(fields[2:])
	p.curMethod = m
	p.st = stateMethodDecl
	return nil
}

func (p *Parser) endMethod() error {
	if p.curMethod == nil {
		return fmt.Errorf("mend without a matching mdef")
	}
	if err := p.curMethod.Build(); err != nil {
		return err
	}
	for _, existing := range p.cur.Methods {
		if existing.Name == p.curMethod.Name && sameParamKinds(existing.ParamKinds, p.curMethod.ParamKinds) {
			return vmerrors.New(vmerrors.MethodRedefine, "%s.%s already defined with this signature", p.cur.FQN, p.curMethod.Name)
		}
	}
	p.cur.Methods = append(p.cur.Methods, p.curMethod)
	p.curMethod = nil
	p.st = stateClassDecl
	return nil
}

func sameParamKinds(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (p *Parser) beginField(fields []string) error {
	if p.cur == nil {
		return fmt.Errorf("fdef outside of a class declaration")
	}
	if len(fields) < 2 {
		return fmt.Errorf("fdef requires a field name")
	}
	f := &executable.Field{ClassName: p.cur.FQN, Name: fields[1], ResultKind: frame.KindInt}
	for _, flag := range fields[2:] {
		if flag == "-static" {
			f.Static = true
		}
		if k, ok := kindFromTag(flag); ok {
			f.ResultKind = k
		}
	}
	f.Default = zeroForKind(f.ResultKind)
	f.VType = vtypeForKind(f.ResultKind)
	p.curField = f
	p.st = stateFieldDecl
	return nil
}

func (p *Parser) endField() error {
	if p.curField == nil {
		return fmt.Errorf("fend without a matching fdef")
	}
	if err := p.curField.Build(); err != nil {
		return err
	}
	for _, existing := range p.cur.Fields {
		if existing.Name == p.curField.Name {
			return vmerrors.New(vmerrors.FieldRedefine, "%s.%s already defined", p.cur.FQN, p.curField.Name)
		}
	}
	p.cur.Fields = append(p.cur.Fields, p.curField)
	p.curField = nil
	p.st = stateClassDecl
	return nil
}

// Finish resolves every pending superclass link against the set of
// classes parsed so far. A superclass name that resolves to nothing is
// a NoSuchClass error -- this is the cross-class resolution pass the
// spec calls out as tolerating missing classes only until this point,
// not indefinitely.
func (p *Parser) Finish() ([]*class.Class, error) {
	byName := make(map[string]*class.Class, len(p.Classes))
	for _, c := range p.Classes {
		byName[c.FQN] = c
	}
	for _, link := range p.Pending {
		super, ok := byName[link.SuperName]
		if !ok {
			return nil, vmerrors.New(vmerrors.NoSuchClass, "superclass %q of %q not found", link.SuperName, link.Class.FQN)
		}
		link.Class.Super = super
	}
	return p.Classes, nil
}

func parseParamKinds(flags []string) []byte {
	var kinds []byte
	for i := 0; i < len(flags); i++ {
		if flags[i] == "-param" && i+1 < len(flags) {
			if k, ok := kindFromTag(flags[i+1]); ok {
				kinds = append(kinds, k)
			}
			i++
		}
	}
	return kinds
}

// zeroForKind mirrors vtype.Type.ZeroValue's per-family defaults, keyed
// by frame.Kind* instead of a vtype.Primitive, since a declared field's
// kind comes from its fdef tag rather than a parsed type descriptor.
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
	default:
		return nil
	}
}

// vtypeForKind maps a declared field's frame.Kind* tag to its vtype.Type
// equivalent, so FieldDescriptor.Type is populated from the same fdef tag
// that drives ResultKind rather than left at its zero value.
func vtypeForKind(kind byte) vtype.Type {
	switch kind {
	case frame.KindByte:
		return vtype.Type{Prim: vtype.Byte}
	case frame.KindShort:
		return vtype.Type{Prim: vtype.Short}
	case frame.KindInt:
		return vtype.Type{Prim: vtype.Int}
	case frame.KindLong:
		return vtype.Type{Prim: vtype.Long}
	case frame.KindFloat:
		return vtype.Type{Prim: vtype.Float}
	case frame.KindDouble:
		return vtype.Type{Prim: vtype.Double}
	case frame.KindBool:
		return vtype.Type{Prim: vtype.Bool}
	case frame.KindChar:
		return vtype.Type{Prim: vtype.Char}
	case frame.KindRef:
		return vtype.Type{Nullable: true, Prim: vtype.Class}
	default:
		return vtype.Type{}
	}
}

func kindFromTag(tag string) (byte, bool) {
	switch tag {
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
