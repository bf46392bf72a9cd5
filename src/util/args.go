package util

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds the settings of one compiler invocation.
type Options struct {
	Src         string // Path to source file. "-" reads stdin.
	Out         string // Path to output file. Empty writes to stdout.
	Assembly    bool   // Set true if -S was passed. Assembly is the only output format, so this is informational.
	Registers   int    // Number of general purpose registers available to the register allocator.
	Verbose     bool   // Set true if compiler should log statistical data to stdout.
	TokenStream bool   // Set true if compiler should output token stream and exit.
	Tree        bool   // Set true if compiler should output the syntax tree and exit.
	LLVM        bool   // Set true if compiler should emit LLVM IR instead of ARM assembly.
	Help        bool   // Set true if the usage message was requested.
	Version     bool   // Set true if the application version was requested.
}

// ---------------------
// ----- Constants -----
// ---------------------

const appVersion = "armcc 1.0"

// Register bank bounds. The bank always holds the four argument registers r0-r3 and never reaches the frame
// pointer r11.
const (
	MinRegisters     = 4
	MaxRegisters     = 11
	DefaultRegisters = 10
)

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses the command line arguments args, excluding the program name, on top of the defaults opt.
// The last non-flag argument is the source file. Flags may appear in any order.
func ParseArgs(opt Options, args []string) (Options, error) {
	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			// Help and usage.
			opt.Help = true
			return opt, nil
		case "-v", "--v", "-version", "--version":
			// Application version.
			opt.Version = true
			return opt, nil
		case "-S":
			// Compile to assembly.
			opt.Assembly = true
		case "-ll":
			// Emit LLVM IR.
			opt.LLVM = true
		case "-ts":
			// Output token stream.
			opt.TokenStream = true
		case "-ast":
			// Output syntax tree.
			opt.Tree = true
		case "-vb":
			// Verbose mode.
			opt.Verbose = true
		case "-o", "-c", "-regs":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected argument to flag %s, got new flag %s", args[i1], args[i1+1])
			}
			switch args[i1] {
			case "-o", "-c":
				// Output file.
				opt.Out = args[i1+1]
			case "-regs":
				// Register bank size.
				n, err := strconv.Atoi(args[i1+1])
				if err != nil {
					return opt, fmt.Errorf("expected integer register count, got: %s", args[i1+1])
				}
				opt.Registers = n
			}
			i1++
		default:
			if strings.HasPrefix(args[i1], "-") && args[i1] != "-" {
				return opt, fmt.Errorf("unexpected flag: %s", args[i1])
			}
			if len(opt.Src) > 0 {
				return opt, fmt.Errorf("expected one source file, got %s and %s", opt.Src, args[i1])
			}
			opt.Src = args[i1]
		}
	}
	if len(opt.Src) == 0 {
		return opt, fmt.Errorf("missing source file")
	}
	if opt.Registers < MinRegisters || opt.Registers > MaxRegisters {
		return opt, fmt.Errorf("register count must be integer in range [%d, %d], got %d",
			MinRegisters, MaxRegisters, opt.Registers)
	}
	return opt, nil
}

// PrintHelp writes a helpful usage message to w.
func PrintHelp(w io.Writer) {
	tw := tabwriter.NewWriter(w, 6, 1, 1, ' ', 0)
	_, _ = fmt.Fprintln(tw, "usage: armcc [flags] <source>")
	_, _ = fmt.Fprintln(tw, "-h, -help\tPrints this help message and exits the application.")
	_, _ = fmt.Fprintln(tw, "-S\tCompile to ARM assembly. This is the default output.")
	_, _ = fmt.Fprintln(tw, "-o, -c\tPath and name of the output file. Output is written to stdout if omitted.")
	_, _ = fmt.Fprintln(tw, "-ll\tEmit LLVM IR instead of ARM assembly.")
	_, _ = fmt.Fprintf(tw, "-regs\tNumber of allocatable registers. Must be in range [%d, %d], defaults to %d.\n",
		MinRegisters, MaxRegisters, DefaultRegisters)
	_, _ = fmt.Fprintln(tw, "-ts\tOutput the tokens of the source code and exit.")
	_, _ = fmt.Fprintln(tw, "-ast\tOutput the syntax tree of the source code and exit.")
	_, _ = fmt.Fprintln(tw, "-v, -version\tPrints application version and exits the application.")
	_, _ = fmt.Fprintln(tw, "-vb\tVerbose mode: print compiler statistics to stdout.")
	_, _ = fmt.Fprintf(tw, "\nEnvironment: %s, %s and %s set the defaults of -regs, -vb and -ll.\n",
		EnvRegisters, EnvVerbose, EnvLLVM)
	_ = tw.Flush()
}

// PrintVersion writes the application version to w.
func PrintVersion(w io.Writer) {
	_, _ = fmt.Fprintln(w, appVersion)
}
