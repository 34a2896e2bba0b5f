/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package vmerrors defines the error taxonomy the VM's error-handling
// surface is built on.
package vmerrors

import "fmt"

// Kind names one entry of the error taxonomy.
type Kind string

const (
	NoSuchApplication      Kind = "NoSuchApplication"
	ClassRedefine          Kind = "ClassRedefine"
	MethodRedefine         Kind = "MethodRedefine"
	FieldRedefine          Kind = "FieldRedefine"
	NoSuchClass            Kind = "NoSuchClass"
	NoSuchMethod           Kind = "NoSuchMethod"
	UnsatisfiedLink        Kind = "UnsatisfiedLink"
	DivideByZero           Kind = "DivideByZero"
	DuplicateSection       Kind = "DuplicateSection"
	DuplicateLinker        Kind = "DuplicateLinker"
	DuplicateLinkerValue   Kind = "DuplicateLinkerValue"
	UnrecognizedInstruction Kind = "UnrecognizedInstruction"
)

// fatal marks which kinds are fatal (process-ending) vs. warnings that
// are logged and then execution continues.
var fatal = map[Kind]bool{
	NoSuchApplication: true,
	ClassRedefine:     true,
	MethodRedefine:    true,
	FieldRedefine:     true,
	NoSuchClass:       true,
	NoSuchMethod:      true,
	UnsatisfiedLink:   true,
	DivideByZero:      true,
}

// VMError is the uniform error type across the VM. Its Error() rendering
// is "<Kind>: <detail>" per the diagnostic format.
type VMError struct {
	Kind   Kind
	Detail string
	Cause  error
}

func (e *VMError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *VMError) Unwrap() error {
	return e.Cause
}

// Fatal reports whether this kind of error is supposed to terminate the
// running program rather than just be logged.
func (e *VMError) Fatal() bool {
	return fatal[e.Kind]
}

// New constructs a VMError with a formatted detail string.
func New(kind Kind, format string, args ...interface{}) *VMError {
	return &VMError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap constructs a VMError that also carries an underlying cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *VMError {
	return &VMError{Kind: kind, Detail: fmt.Sprintf(format, args...), Cause: cause}
}

// IsKind reports whether err is a *VMError of the given kind.
func IsKind(err error, kind Kind) bool {
	ve, ok := err.(*VMError)
	if !ok {
		return false
	}
	return ve.Kind == kind
}
