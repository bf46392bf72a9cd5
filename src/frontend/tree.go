// tree.go provides the entry points of the frontend: parsing a source string into a syntax tree of ir nodes, and
// printing the token stream of a source string. The lexer is stepped by the parser, one token at a time.

package frontend

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"armcc/src/ir"
)

// Parse parses the syntax tree from the source code. The name is recorded as the name of the translation unit.
func Parse(name, src string) (*ir.Program, error) {
	p := newParser(src)
	prog, err := p.program(name)
	if err != nil {
		return nil, err
	}
	if prog == nil {
		return nil, errors.New("root node is <nil>")
	}
	return prog, nil
}

// TokenStream writes the token stream of the given source string to w as a table.
func TokenStream(src string, w io.Writer) error {
	l := newLexer(src, lexGlobal)

	tw := tabwriter.NewWriter(w, 10, 20, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Value\tType\tPosition\n")
	for {
		t := l.nextItem()
		switch t.typ {
		case itemEOF:
			return tw.Flush()
		case itemError:
			_ = tw.Flush()
			return ir.Errorf(ir.ErrSyntax, ir.Pos{Line: t.line, Col: t.pos}, "%s", t.val)
		default:
			if len(t.val) > 20 {
				_, _ = fmt.Fprintf(tw, "%.17q...\t%s\tline: %d:%d\n", t.val, t.typ, t.line, t.pos)
			} else {
				_, _ = fmt.Fprintf(tw, "%q\t%s\tline: %d:%d\n", t.val, t.typ, t.line, t.pos)
			}
		}
	}
}
