/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package vmerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorRenderingWithAndWithoutDetail(t *testing.T) {
	withDetail := New(NoSuchClass, "class %q not registered", "Widget")
	require.Equal(t, `NoSuchClass: class "Widget" not registered`, withDetail.Error())

	bare := &VMError{Kind: DivideByZero}
	require.Equal(t, "DivideByZero", bare.Error())
}

func TestFatalKindsAreMarkedFatalOthersAreNot(t *testing.T) {
	fatalKinds := []Kind{
		NoSuchApplication, ClassRedefine, MethodRedefine, FieldRedefine,
		NoSuchClass, NoSuchMethod, UnsatisfiedLink, DivideByZero,
	}
	for _, k := range fatalKinds {
		require.True(t, (&VMError{Kind: k}).Fatal(), "%s should be fatal", k)
	}

	warnKinds := []Kind{DuplicateSection, DuplicateLinker, DuplicateLinkerValue, UnrecognizedInstruction}
	for _, k := range warnKinds {
		require.False(t, (&VMError{Kind: k}).Fatal(), "%s should not be fatal", k)
	}
}

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("disk on fire")
	wrapped := Wrap(NoSuchApplication, cause, "could not load %s", "main.void")
	require.Equal(t, cause, errors.Unwrap(wrapped))
	require.ErrorIs(t, wrapped, cause)
}

func TestIsKindMatchesOnlyTheGivenKind(t *testing.T) {
	err := New(NoSuchMethod, "no method named run")
	require.True(t, IsKind(err, NoSuchMethod))
	require.False(t, IsKind(err, NoSuchClass))
	require.False(t, IsKind(errors.New("plain error"), NoSuchMethod))
}
