/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package native is the reserved native-call interface: a handler table
// keyed by <class>.<method>, intentionally shipped empty. Lookup reports
// UnsatisfiedLink for a name with no entry; Method.Invoke does not
// consult this table, so invoking a -native method runs nothing and
// returns without error.
package native

import (
	"github.com/binstock-labs/voidvm/internal/frame"
	"github.com/binstock-labs/voidvm/internal/object"
	"github.com/binstock-labs/voidvm/internal/vmerrors"
)

// Handler is a Go function bound to a native method.
type Handler func(f *frame.Frame, reg object.Registry) error

var table = map[string]Handler{}

// Register binds a Go function to a <class>.<method> name. Reserved for
// future native-call support; nothing in this build populates it.
func Register(qualifiedName string, h Handler) {
	table[qualifiedName] = h
}

// Lookup resolves a native method by its <class>.<method> name.
func Lookup(qualifiedName string) (Handler, error) {
	h, ok := table[qualifiedName]
	if !ok {
		return nil, vmerrors.New(vmerrors.UnsatisfiedLink, "%s", qualifiedName)
	}
	return h, nil
}
