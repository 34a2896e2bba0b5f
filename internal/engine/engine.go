/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package engine ties the loader, class registry, and execution engine
// together into the single entry point the CLI's run subcommand calls:
// find the entry class's main method, run it to completion, report a
// fatal VMError through the shutdown choke point.
package engine

import (
	"errors"
	"fmt"

	"github.com/binstock-labs/voidvm/internal/loader"
	"github.com/binstock-labs/voidvm/internal/shutdown"
	"github.com/binstock-labs/voidvm/internal/vm"
	"github.com/binstock-labs/voidvm/internal/vmerrors"
	"github.com/binstock-labs/voidvm/internal/vmlog"
)

// Options carries the run subcommand's flags through to the VM.
type Options struct {
	EntryClass       string // defaults to "Main"
	Debug            bool // -XVMDebug
	NoWarns          bool // -XNoWarns
	NoSectionWarns   bool // -XNoSectionWarns
	NoLinkerWarns    bool // -XNoLinkerWarns
	NoDupLinkerWarns bool // -XNoDupLinkerWarns
}

// Run loads the program at path, links and initializes every class, and
// invokes the entry class's main method. A fatal VMError terminates the
// process via shutdown.Exit rather than returning, mirroring the
// teacher's exceptions.Throw + shutdown.Exit pairing.
func Run(path string, opts Options) error {
	vmlog.Init()
	if opts.Debug {
		vmlog.SetLogLevel(vmlog.TRACE)
	}
	vmlog.SetWarnOptions(vmlog.WarnOptions{
		NoWarns:          opts.NoWarns,
		NoSectionWarns:   opts.NoSectionWarns,
		NoLinkerWarns:    opts.NoLinkerWarns,
		NoDupLinkerWarns: opts.NoDupLinkerWarns,
	})

	classes, err := loader.Load(path)
	if err != nil {
		return fail(err)
	}

	machine := vm.New()
	vmlog.Tracef("session %s loading %s", machine.SessionID, path)
	machine.Debug = opts.Debug

	for _, c := range classes {
		if err := machine.RegisterClass(c); err != nil {
			return fail(err)
		}
	}
	if err := machine.InitializeAll(); err != nil {
		return fail(err)
	}

	entryName := opts.EntryClass
	if entryName == "" {
		entryName = "Main"
	}
	entry, ok := machine.Class(entryName)
	if !ok {
		return fail(vmerrors.New(vmerrors.NoSuchClass, "%s", entryName))
	}
	m, ok := entry.Method("main")
	if !ok {
		return fail(vmerrors.New(vmerrors.NoSuchMethod, "%s.main", entryName))
	}
	if err := m.Invoke(machine, nil); err != nil {
		return fail(err)
	}
	return nil
}

func fail(err error) error {
	_ = vmlog.Log(err.Error(), vmlog.SEVERE)
	var ve *vmerrors.VMError
	if errors.As(err, &ve) && ve.Fatal() {
		shutdown.Exit(shutdown.APP_EXCEPTION)
	}
	return fmt.Errorf("%w", err)
}
