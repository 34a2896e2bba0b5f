/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package loader implements the program loader: given a path to either
// a single bytecode file or a program directory, it walks the tree (if
// any) in a stable order and feeds each bytecode source file to a
// classparser.Parser, so a multi-file program is just its files loaded
// in a stable, repeatable order.
package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/binstock-labs/voidvm/internal/class"
	"github.com/binstock-labs/voidvm/internal/classparser"
	"github.com/binstock-labs/voidvm/internal/vmerrors"
)

// Extension is the source file suffix the loader walks for.
const Extension = ".void"

// Load accepts either a single bytecode file or a program directory: a
// directory is walked for *.void files in sorted order, a single file is
// loaded on its own, and either way every file is parsed through a
// shared classparser.Parser into the fully linked set of classes. A
// missing path, or a directory with no *.void files in it, is a fatal
// NoSuchApplication error.
func Load(path string) ([]*class.Class, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, vmerrors.New(vmerrors.NoSuchApplication, "%s", path)
	}

	var files []string
	if info.IsDir() {
		err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			if strings.HasSuffix(p, Extension) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, vmerrors.Wrap(vmerrors.NoSuchApplication, err, "%s", path)
		}
		if len(files) == 0 {
			return nil, vmerrors.New(vmerrors.NoSuchApplication, "%s: no %s source files found", path, Extension)
		}
		sort.Strings(files)
	} else {
		files = []string{path}
	}

	p := classparser.New()
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return nil, vmerrors.Wrap(vmerrors.NoSuchApplication, err, "reading %s", f)
		}
		if err := p.ParseSource(f, string(content)); err != nil {
			return nil, err
		}
	}
	return p.Finish()
}
