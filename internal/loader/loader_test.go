/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binstock-labs/voidvm/internal/vmerrors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadParsesAllVoidFilesInDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.void", "cdef Base\ncbegin\ncend\n")
	writeFile(t, dir, "main.void", "cdef Main\ncext Base\ncbegin\nmdef main -static\nireturn\nmend\ncend\n")
	writeFile(t, dir, "notes.txt", "ignored, wrong extension")

	classes, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, classes, 2)
}

func TestLoadWalksSubdirectoriesInSortedOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	writeFile(t, dir, "a.void", "cdef A\ncbegin\ncend\n")
	writeFile(t, filepath.Join(dir, "sub"), "b.void", "cdef B\ncbegin\ncend\n")

	classes, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, classes, 2)
}

func TestLoadMissingDirectoryIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	require.True(t, vmerrors.IsKind(err, vmerrors.NoSuchApplication))
}

func TestLoadEmptyDirectoryIsFatal(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	require.Error(t, err)
	require.True(t, vmerrors.IsKind(err, vmerrors.NoSuchApplication))
}

func TestLoadAcceptsASingleBytecodeFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "program.void")
	writeFile(t, dir, "program.void", "cdef Main\ncbegin\nmdef main -static\nireturn\nmend\ncend\n")

	classes, err := Load(file)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	require.Equal(t, "Main", classes[0].FQN)
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.void"))
	require.Error(t, err)
	require.True(t, vmerrors.IsKind(err, vmerrors.NoSuchApplication))
}

func TestLoadPropagatesUnresolvedSuperclassError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.void", "cdef Main\ncext Ghost\ncbegin\ncend\n")

	_, err := Load(dir)
	require.Error(t, err)
}
