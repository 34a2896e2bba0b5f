/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package vm implements VirtualMachine: the class registry and the
// static-initialization driver, with lazy resolve-then-initialize
// semantics -- a class is loaded into the registry eagerly but only runs
// its static initializers the first time something resolves it, or when
// InitializeAll initializes every class at once.
package vm

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/binstock-labs/voidvm/internal/class"
	"github.com/binstock-labs/voidvm/internal/object"
	"github.com/binstock-labs/voidvm/internal/vmerrors"
)

// VirtualMachine owns the class registry and the monotonic instance-id
// counter every Instance draws from.
type VirtualMachine struct {
	classes         map[string]*class.Class
	instanceCounter uint32

	// SessionID tags one VM run for -XVMDebug log correlation; purely
	// cosmetic, never used as an instance or class identity.
	SessionID string

	// Debug mirrors -XVMDebug for diagnostics that inspect the running
	// VM directly (e.g. a future class/method dump); warning suppression
	// itself is configured on vmlog, not here, since classes are parsed
	// before a VirtualMachine exists.
	Debug bool
}

// New creates an empty VirtualMachine.
func New() *VirtualMachine {
	return &VirtualMachine{classes: make(map[string]*class.Class), SessionID: uuid.NewString()}
}

// RegisterClass adds a freshly-parsed class to the registry. Registering
// the same fully-qualified name twice is a fatal ClassRedefine error.
func (vm *VirtualMachine) RegisterClass(c *class.Class) error {
	if _, dup := vm.classes[c.FQN]; dup {
		return vmerrors.New(vmerrors.ClassRedefine, "class %q already defined", c.FQN)
	}
	vm.classes[c.FQN] = c
	return nil
}

// Resolve implements object.Registry: it looks up a class by name and
// lazily runs its static initializer on first use.
func (vm *VirtualMachine) Resolve(name string) (object.ClassRef, error) {
	c, ok := vm.classes[name]
	if !ok {
		return nil, vmerrors.New(vmerrors.NoSuchClass, "%s", name)
	}
	if !c.Initialized() {
		if err := c.Initialize(vm); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NextInstanceID implements object.Registry: a monotonically increasing
// counter owned by the VM, shared across every class.
func (vm *VirtualMachine) NextInstanceID() uint32 {
	return atomic.AddUint32(&vm.instanceCounter, 1)
}

// Class returns a registered class by name without triggering
// initialization, used by the cross-class resolution pass and by
// diagnostics.
func (vm *VirtualMachine) Class(name string) (*class.Class, bool) {
	c, ok := vm.classes[name]
	return c, ok
}

// ClassNames lists every registered class, for -XVMDebug dumps.
func (vm *VirtualMachine) ClassNames() []string {
	names := make([]string, 0, len(vm.classes))
	for n := range vm.classes {
		names = append(names, n)
	}
	return names
}

// InitializeAll runs Initialize on every registered class (a no-op for a
// class already initialized), stopping at the first error. It is the
// eager pass run right after the full program has been loaded.
func (vm *VirtualMachine) InitializeAll() error {
	for _, c := range vm.classes {
		if err := c.Initialize(vm); err != nil {
			return err
		}
	}
	return nil
}
