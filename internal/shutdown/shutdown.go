/* Void VM -- a stack-based bytecode virtual machine
 * Copyright (c) 2024 by the Void VM authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package shutdown centralizes the process-exit choke point so fatal VM
// errors end the process from exactly one place.
package shutdown

import "os"

const (
	OK            = 0
	APP_EXCEPTION = 1
	JVM_EXCEPTION = 2
)

var exit = os.Exit

// Exit terminates the process with the given code.
func Exit(code int) {
	exit(code)
}
