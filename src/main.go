package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"armcc/src/backend"
	"armcc/src/frontend"
	"armcc/src/ir"
	"armcc/src/util"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// run compiles according to the command line arguments args. Usage, version and statistics go to stdout; compiler
// output goes to the file named by -o, or to stdout.
func run(args []string, stdout io.Writer) error {
	// Parse command line arguments.
	opt, err := util.ParseArgs(util.Defaults(), args)
	if err != nil {
		util.PrintHelp(stdout)
		return fmt.Errorf("command line argument error: %s", err)
	}
	if opt.Help {
		util.PrintHelp(stdout)
		return nil
	}
	if opt.Version {
		util.PrintVersion(stdout)
		return nil
	}
	log := util.NewLogger(opt, stdout)

	// Read source code.
	src, err := util.ReadSource(opt)
	if err != nil {
		return fmt.Errorf("could not read source code: %s", err)
	}
	wr := util.NewWriter(opt.Out)

	// If -ts flag was passed: output token stream and exit.
	if opt.TokenStream {
		if err := frontend.TokenStream(src, wr); err != nil {
			return fmt.Errorf("syntax error: %w", err)
		}
		return wr.Flush()
	}

	// Generate syntax tree by lexing and parsing source code.
	prog, err := frontend.Parse(filepath.Base(opt.Src), src)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	log.Logf("parsed %d top level declarations", len(prog.Decls))

	// If -ast flag was passed: output syntax tree and exit.
	if opt.Tree {
		prog.Print(wr)
		return wr.Flush()
	}

	// Validate source code.
	if err := ir.ValidateTree(prog); err != nil {
		return fmt.Errorf("source code error: %w", err)
	}

	// Generate assembler.
	if err := backend.GenerateAssembler(opt, prog, wr, log); err != nil {
		return fmt.Errorf("code generation error: %w", err)
	}
	if err := wr.Flush(); err != nil {
		return err
	}
	log.Logf("compiled %s in %s", opt.Src, log.Elapsed())
	return nil
}
