/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package ref implements Reference[T], the VM's handle type for objects
// that may be shared, weakly observed, or purged independently of their
// referent's lifetime.
package ref

// Reference is a handle to a value of type T. It may be in one of three
// states: absent (Exists == false), a strong owning reference, or a weak
// non-owning reference that does not keep the referent alive.
type Reference[T any] struct {
	value  *T
	exists bool
	weak   bool
}

// New creates a strong reference to value.
func New[T any](value *T) Reference[T] {
	return Reference[T]{value: value, exists: value != nil}
}

// Weak creates a weak, non-owning reference to value.
func Weak[T any](value *T) Reference[T] {
	return Reference[T]{value: value, exists: value != nil, weak: true}
}

// Null returns an empty reference.
func Null[T any]() Reference[T] {
	return Reference[T]{}
}

// Exists reports whether the reference currently points at a value.
func (r Reference[T]) Exists() bool {
	return r.exists && r.value != nil
}

// IsWeak reports whether this is a weak (non-owning) reference.
func (r Reference[T]) IsWeak() bool {
	return r.weak
}

// IsStrong reports whether this is a strong (owning) reference.
func (r Reference[T]) IsStrong() bool {
	return r.exists && !r.weak
}

// Get returns the referent, or the zero value and false if the reference
// is empty.
func (r Reference[T]) Get() (T, bool) {
	var zero T
	if !r.Exists() {
		return zero, false
	}
	return *r.value, true
}

// Set replaces the referent with a new strong reference to value.
func (r *Reference[T]) Set(value *T) {
	r.value = value
	r.exists = value != nil
	r.weak = false
}

// SetWeak replaces the referent with a new weak reference to value.
func (r *Reference[T]) SetWeak(value *T) {
	r.value = value
	r.exists = value != nil
	r.weak = true
}

// Purge clears the reference, regardless of strong/weak state.
func (r *Reference[T]) Purge() {
	r.value = nil
	r.exists = false
	r.weak = false
}
