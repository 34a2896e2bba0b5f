/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package native

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binstock-labs/voidvm/internal/frame"
	"github.com/binstock-labs/voidvm/internal/object"
	"github.com/binstock-labs/voidvm/internal/vmerrors"
)

func TestRegisterThenLookupRoundTrips(t *testing.T) {
	called := false
	Register("NativeTest.sayHi", func(f *frame.Frame, reg object.Registry) error {
		called = true
		return nil
	})

	h, err := Lookup("NativeTest.sayHi")
	require.NoError(t, err)
	require.NoError(t, h(frame.New("NativeTest", "sayHi", nil), nil))
	require.True(t, called)
}

func TestLookupMissReportsUnsatisfiedLink(t *testing.T) {
	_, err := Lookup("NativeTest.doesNotExist")
	require.Error(t, err)
	require.True(t, vmerrors.IsKind(err, vmerrors.UnsatisfiedLink))
}
