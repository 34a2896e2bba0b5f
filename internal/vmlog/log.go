/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package vmlog wraps logrus behind the call shape the rest of the VM
// expects: a package-level Log(msg, level) plus an Init/SetLogLevel pair
// mirroring a classic severity-ladder logger.
package vmlog

import (
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Level is the VM's own severity vocabulary, independent of logrus's.
type Level int

const (
	SEVERE Level = iota
	WARNING
	TRACE
	DEBUG
	FINEST
)

var logger = logrus.New()
var currentLevel = WARNING

// WarnOptions toggles which non-fatal build-time diagnostics Log emits.
// The zero value emits every warning.
type WarnOptions struct {
	NoWarns          bool
	NoSectionWarns   bool
	NoLinkerWarns    bool
	NoDupLinkerWarns bool
}

var warnOpts WarnOptions

// SetWarnOptions configures which warning categories Executable.Build
// suppresses. Call once before loading a program.
func SetWarnOptions(w WarnOptions) {
	warnOpts = w
}

// WarnSection reports whether a duplicate section-label warning should
// be logged under the current WarnOptions.
func WarnSection() bool { return !warnOpts.NoWarns && !warnOpts.NoSectionWarns }

// WarnLinker reports whether a duplicate-linker-differing-slot warning
// should be logged under the current WarnOptions.
func WarnLinker() bool { return !warnOpts.NoWarns && !warnOpts.NoLinkerWarns }

// WarnDupLinker reports whether a duplicate-linker-same-slot warning
// should be logged under the current WarnOptions.
func WarnDupLinker() bool { return !warnOpts.NoWarns && !warnOpts.NoDupLinkerWarns }

// Init sets up the default logger. Safe to call more than once.
func Init() {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel) // filtering is done by currentLevel
	currentLevel = WARNING
}

// SetLogLevel changes the minimum level that will be emitted.
func SetLogLevel(l Level) {
	currentLevel = l
}

func enabled(l Level) bool {
	return l <= currentLevel
}

// Log writes msg at the given severity if the current log level permits it.
// It always returns nil; the error result mirrors the teacher's
// log.Log(msg, level) error-returning signature.
func Log(msg string, level Level) error {
	if !enabled(level) {
		return nil
	}
	switch level {
	case SEVERE:
		logger.Error(color.RedString(msg))
	case WARNING:
		logger.Warn(color.YellowString(msg))
	case TRACE:
		logger.Debug(color.CyanString(msg))
	default:
		logger.Debug(msg)
	}
	return nil
}

// Tracef formats and logs a TRACE-level trace line, emitted when
// -XVMDebug raises the log level to TRACE.
func Tracef(format string, args ...interface{}) {
	if !enabled(TRACE) {
		return
	}
	logger.Debugf(color.CyanString(format), args...)
}
