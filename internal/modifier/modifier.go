/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package modifier implements the Modifiers bitmask attached to classes,
// methods and fields.
package modifier

import "strings"

// Flag is a single modifier bit.
type Flag uint32

const (
	Public Flag = 1 << iota
	Private
	Protected
	Static
	Final
	Native
	Abstract
	Synchronized
	Volatile
	Transient
	Async
)

var names = []struct {
	flag Flag
	name string
}{
	{Public, "public"},
	{Private, "private"},
	{Protected, "protected"},
	{Static, "static"},
	{Final, "final"},
	{Native, "native"},
	{Abstract, "abstract"},
	{Synchronized, "synchronized"},
	{Volatile, "volatile"},
	{Transient, "transient"},
	{Async, "async"},
}

// Set is a packed modifier bitmask.
type Set uint32

// Has reports whether f is set.
func (s Set) Has(f Flag) bool {
	return s&Set(f) != 0
}

// With returns a new Set with f added.
func (s Set) With(f Flag) Set {
	return s | Set(f)
}

// Without returns a new Set with f cleared.
func (s Set) Without(f Flag) Set {
	return s &^ Set(f)
}

// String renders the active flags space-separated, in declaration order.
func (s Set) String() string {
	var parts []string
	for _, n := range names {
		if s.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, " ")
}

// FromName parses a single modifier keyword, as found in a cmod
// directive body. ok is false for an unrecognized keyword.
func FromName(name string) (Flag, bool) {
	for _, n := range names {
		if n.name == name {
			return n.flag, true
		}
	}
	return 0, false
}
