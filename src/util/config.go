package util

import (
	"github.com/xyproto/env/v2"
)

// Environment variables providing defaults for the command line flags.
const (
	EnvRegisters = "ARMCC_REGISTERS" // Default for -regs.
	EnvVerbose   = "ARMCC_VERBOSE"   // Default for -vb.
	EnvLLVM      = "ARMCC_LLVM"      // Default for -ll.
)

// Defaults returns Options populated from the current environment. Flags passed to ParseArgs override these values.
func Defaults() Options {
	// The environment is cached on first use, reload it so later changes are seen.
	env.Load()
	return Options{
		Registers: env.Int(EnvRegisters, DefaultRegisters),
		Verbose:   env.Bool(EnvVerbose),
		LLVM:      env.Bool(EnvLLVM),
	}
}
