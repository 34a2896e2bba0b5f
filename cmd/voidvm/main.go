/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Command voidvm is the launcher: a cobra command tree with run/compile/
// header subcommands: run executes a program, header only prints the VM
// version, and compile is registered but stubbed.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/binstock-labs/voidvm/internal/engine"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("voidvm: %v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "voidvm",
		Short:   "Void VM -- a stack-based bytecode virtual machine",
		Version: version,
	}
	root.AddCommand(newRunCmd(), newCompileCmd(), newHeaderCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var opts engine.Options
	cmd := &cobra.Command{
		Use:   "run <program-dir>",
		Short: "load, link, and execute a compiled program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine.Run(args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.EntryClass, "entry", "Main", "fully-qualified name of the entry class")
	cmd.Flags().BoolVar(&opts.Debug, "XVMDebug", false, "enable TRACE-level diagnostic logging")
	cmd.Flags().BoolVar(&opts.NoWarns, "XNoWarns", false, "suppress all non-fatal warnings")
	cmd.Flags().BoolVar(&opts.NoSectionWarns, "XNoSectionWarns", false, "suppress duplicate-section warnings")
	cmd.Flags().BoolVar(&opts.NoLinkerWarns, "XNoLinkerWarns", false, "suppress warnings for a duplicate linker name bound to a different slot")
	cmd.Flags().BoolVar(&opts.NoDupLinkerWarns, "XNoDupLinkerWarns", false, "suppress duplicate-linker warnings")
	return cmd
}

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "compile <source-dir> <output-dir>",
		Short:  "compile textual source into a loadable program (not yet implemented)",
		Args:   cobra.ExactArgs(2),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("compile: not yet implemented")
		},
	}
}

func newHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header",
		Short: "print version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Void VM %s\n", version)
			return nil
		},
	}
}
