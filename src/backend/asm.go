package backend

import (
	"io"

	"armcc/src/backend/arm"
	"armcc/src/ir"
	"armcc/src/ir/llvm"
	"armcc/src/util"
)

// ---------------------
// ----- Functions -----
// ---------------------

// GenerateAssembler generates code for the syntax tree p in the output format selected by opt, and writes it to w.
// Nothing is written if generation fails.
func GenerateAssembler(opt util.Options, p *ir.Program, w io.Writer, log *util.Logger) error {
	if opt.LLVM {
		s, err := llvm.Generate(p)
		if err != nil {
			return err
		}
		log.Logf("LLVM IR: %d bytes", len(s))
		_, err = io.WriteString(w, s)
		return err
	}

	out, err := arm.Generate(opt, p, log)
	if err != nil {
		return err
	}
	_, err = out.WriteTo(w)
	return err
}
