package frontend

import (
	"strconv"
	"strings"

	"armcc/src/ir"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// parser is a recursive descent parser over the token stream of a lexer. It keeps one token of lookahead.
type parser struct {
	l   *lexer
	tok item // Current token.
}

// ---------------------
// ----- Constants -----
// ---------------------

// baseTypes maps type keywords to the base types of the syntax tree.
var baseTypes = map[string]ir.BaseType{
	"int":    ir.Int,
	"char":   ir.Char,
	"void":   ir.Void,
	"float":  ir.Float,
	"double": ir.Double,
}

// assignOps maps compound assignment operators to their binary operator.
var assignOps = map[string]ir.BinaryOp{
	"+=":  ir.OpAdd,
	"-=":  ir.OpSub,
	"*=":  ir.OpMul,
	"/=":  ir.OpDiv,
	"%=":  ir.OpMod,
	"&=":  ir.OpAnd,
	"|=":  ir.OpOr,
	"^=":  ir.OpXor,
	"<<=": ir.OpShl,
	">>=": ir.OpShr,
}

// binaryLevels lists the binary operators by increasing precedence, from bitwise or to multiplication.
var binaryLevels = [...]map[itemType]ir.BinaryOp{
	{'|': ir.OpOr},
	{'^': ir.OpXor},
	{'&': ir.OpAnd},
	{EQ: ir.OpEq, NE: ir.OpNe},
	{'<': ir.OpLt, '>': ir.OpGt, LE: ir.OpLe, GE: ir.OpGe},
	{LSHIFT: ir.OpShl, RSHIFT: ir.OpShr},
	{'+': ir.OpAdd, '-': ir.OpSub},
	{'*': ir.OpMul, '/': ir.OpDiv, '%': ir.OpMod},
}

// unaryOps maps prefix operator tokens to unary operators.
var unaryOps = map[itemType]ir.UnaryOp{
	'-': ir.OpNeg,
	'+': ir.OpPlus,
	'!': ir.OpNot,
	'~': ir.OpCompl,
	'&': ir.OpAddr,
	'*': ir.OpDeref,
}

// ---------------------
// ----- Functions -----
// ---------------------

func newParser(src string) *parser {
	p := &parser{l: newLexer(src, lexGlobal)}
	p.advance()
	return p
}

// advance moves to the next token.
func (p *parser) advance() {
	p.tok = p.l.nextItem()
}

// pos returns the source position of the current token.
func (p *parser) pos() ir.Pos {
	return ir.Pos{Line: p.tok.line, Col: p.tok.pos}
}

// errorf returns a syntax error located at the current token. Lexical errors take precedence since they explain
// why the token stream ended early.
func (p *parser) errorf(format string, args ...interface{}) error {
	if p.tok.typ == itemError {
		return ir.Errorf(ir.ErrSyntax, p.pos(), "%s", p.tok.val)
	}
	return ir.Errorf(ir.ErrSyntax, p.pos(), format, args...)
}

// describe returns a print friendly description of the current token.
func (p *parser) describe() string {
	switch p.tok.typ {
	case itemEOF:
		return "end of file"
	case IDENTIFIER, INTEGER, FLOAT, TYPE:
		return p.tok.typ.String() + " " + strconv.Quote(p.tok.val)
	}
	return strconv.Quote(p.tok.val)
}

// expect consumes the current token if it is of type typ and returns an error otherwise.
func (p *parser) expect(typ itemType) (item, error) {
	t := p.tok
	if t.typ != typ {
		return t, p.errorf("expected %s, got %s", typ, p.describe())
	}
	p.advance()
	return t, nil
}

// got consumes the current token and returns true if it is of type typ.
func (p *parser) got(typ itemType) bool {
	if p.tok.typ == typ {
		p.advance()
		return true
	}
	return false
}

// program parses a translation unit.
func (p *parser) program(name string) (*ir.Program, error) {
	prog := &ir.Program{Name: name}
	for p.tok.typ != itemEOF {
		d, err := p.external()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, d)
	}
	return prog, nil
}

// typeSpec parses a type keyword followed by any number of '*'.
func (p *parser) typeSpec() (ir.Type, error) {
	t, err := p.expect(TYPE)
	if err != nil {
		return ir.Type{}, err
	}
	typ := ir.Type{Base: baseTypes[t.val]}
	for p.got('*') {
		typ.Pointer++
	}
	return typ, nil
}

// external parses a function definition, a function prototype or a global declaration.
func (p *parser) external() (ir.Decl, error) {
	pos := p.pos()
	typ, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if p.tok.typ != '(' {
		vars, err := p.declarators(typ, ir.Pos{Line: name.line, Col: name.pos}, name.val)
		if err != nil {
			return nil, err
		}
		return &ir.Global{Pos: pos, Vars: vars}, nil
	}

	p.advance()
	f := &ir.Function{Pos: pos, Name: name.val, Result: typ}
	if err := p.params(f); err != nil {
		return nil, err
	}
	if p.got(';') {
		if f.Params == nil && !f.Variadic {
			// An empty parameter list in a prototype leaves the parameters unspecified.
			f.Variadic = true
		}
		return f, nil
	}
	if f.Body, err = p.block(); err != nil {
		return nil, err
	}
	return f, nil
}

// params parses a parameter list following the opening parenthesis, including the closing parenthesis.
func (p *parser) params(f *ir.Function) error {
	if p.got(')') {
		return nil
	}
	if p.tok.typ == TYPE && p.tok.val == "void" {
		pos := p.pos()
		typ, err := p.typeSpec()
		if err != nil {
			return err
		}
		if typ.IsVoid() && p.got(')') {
			f.Params = []*ir.Param{}
			return nil
		}
		if err := p.param(f, pos, typ); err != nil {
			return err
		}
		if p.got(')') {
			return nil
		}
		if _, err := p.expect(','); err != nil {
			return err
		}
	}
	for {
		if p.got(ELLIPSIS) {
			f.Variadic = true
			_, err := p.expect(')')
			return err
		}
		pos := p.pos()
		typ, err := p.typeSpec()
		if err != nil {
			return err
		}
		if err := p.param(f, pos, typ); err != nil {
			return err
		}
		if p.got(')') {
			return nil
		}
		if _, err := p.expect(','); err != nil {
			return err
		}
	}
}

// param parses the optional name of a parameter of type typ and appends the parameter to f.
func (p *parser) param(f *ir.Function, pos ir.Pos, typ ir.Type) error {
	prm := &ir.Param{Pos: pos, Type: typ}
	if p.tok.typ == IDENTIFIER {
		prm.Name = p.tok.val
		p.advance()
	} else if f != nil && p.tok.typ != ',' && p.tok.typ != ')' {
		return p.errorf("expected parameter name, got %s", p.describe())
	}
	f.Params = append(f.Params, prm)
	return nil
}

// declarators parses the rest of a declaration after the type and the first name, including the final ';'.
func (p *parser) declarators(typ ir.Type, pos ir.Pos, name string) ([]*ir.VarDecl, error) {
	var vars []*ir.VarDecl
	for {
		v := &ir.VarDecl{Pos: pos, Name: name, Type: typ}
		if p.got('=') {
			init, err := p.assignment()
			if err != nil {
				return nil, err
			}
			v.Init = init
		}
		vars = append(vars, v)
		if p.got(';') {
			return vars, nil
		}
		if _, err := p.expect(','); err != nil {
			return nil, err
		}

		// Pointer declarators bind to the name, not to the type keyword.
		typ.Pointer = 0
		for p.got('*') {
			typ.Pointer++
		}
		pos = p.pos()
		t, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		name = t.val
	}
}

// declaration parses a local declaration statement.
func (p *parser) declaration() (*ir.DeclStmt, error) {
	pos := p.pos()
	typ, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	npos := p.pos()
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	vars, err := p.declarators(typ, npos, name.val)
	if err != nil {
		return nil, err
	}
	return &ir.DeclStmt{Pos: pos, Vars: vars}, nil
}

// block parses a compound statement.
func (p *parser) block() (*ir.Block, error) {
	pos := p.pos()
	if _, err := p.expect('{'); err != nil {
		return nil, err
	}
	b := &ir.Block{Pos: pos}
	for !p.got('}') {
		if p.tok.typ == itemEOF || p.tok.typ == itemError {
			return nil, p.errorf("expected '}', got %s", p.describe())
		}
		var s ir.Stmt
		var err error
		if p.tok.typ == TYPE {
			s, err = p.declaration()
		} else {
			s, err = p.statement()
		}
		if err != nil {
			return nil, err
		}
		b.Items = append(b.Items, s)
	}
	return b, nil
}

// statement parses a single statement.
func (p *parser) statement() (ir.Stmt, error) {
	pos := p.pos()
	switch p.tok.typ {
	case '{':
		return p.block()
	case ';':
		p.advance()
		return &ir.Empty{Pos: pos}, nil
	case IF:
		p.advance()
		cond, err := p.condition()
		if err != nil {
			return nil, err
		}
		then, err := p.statement()
		if err != nil {
			return nil, err
		}
		s := &ir.If{Pos: pos, Cond: cond, Then: then}
		if p.got(ELSE) {
			if s.Else, err = p.statement(); err != nil {
				return nil, err
			}
		}
		return s, nil
	case WHILE:
		p.advance()
		cond, err := p.condition()
		if err != nil {
			return nil, err
		}
		body, err := p.statement()
		if err != nil {
			return nil, err
		}
		return &ir.While{Pos: pos, Cond: cond, Body: body}, nil
	case FOR:
		p.advance()
		return p.forLoop(pos)
	case RETURN:
		p.advance()
		s := &ir.Return{Pos: pos}
		if !p.got(';') {
			v, err := p.expression()
			if err != nil {
				return nil, err
			}
			s.Value = v
			if _, err := p.expect(';'); err != nil {
				return nil, err
			}
		}
		return s, nil
	case BREAK:
		p.advance()
		_, err := p.expect(';')
		return &ir.Break{Pos: pos}, err
	case CONTINUE:
		p.advance()
		_, err := p.expect(';')
		return &ir.Continue{Pos: pos}, err
	case TYPE:
		return nil, p.errorf("declaration is not allowed here")
	}
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(';'); err != nil {
		return nil, err
	}
	return &ir.ExprStmt{Pos: pos, X: x}, nil
}

// condition parses a parenthesised expression.
func (p *parser) condition() (ir.Expr, error) {
	if _, err := p.expect('('); err != nil {
		return nil, err
	}
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	_, err = p.expect(')')
	return x, err
}

// forLoop parses the clauses and body of a for loop after the for keyword.
func (p *parser) forLoop(pos ir.Pos) (ir.Stmt, error) {
	if _, err := p.expect('('); err != nil {
		return nil, err
	}
	s := &ir.For{Pos: pos}
	switch {
	case p.tok.typ == TYPE:
		d, err := p.declaration()
		if err != nil {
			return nil, err
		}
		s.Init = d
	case p.got(';'):
	default:
		ipos := p.pos()
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(';'); err != nil {
			return nil, err
		}
		s.Init = &ir.ExprStmt{Pos: ipos, X: x}
	}
	if !p.got(';') {
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		s.Cond = x
		if _, err := p.expect(';'); err != nil {
			return nil, err
		}
	}
	if !p.got(')') {
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		s.Step = x
		if _, err := p.expect(')'); err != nil {
			return nil, err
		}
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	s.Body = body
	return s, nil
}

// expression parses a comma separated list of assignment expressions.
func (p *parser) expression() (ir.Expr, error) {
	pos := p.pos()
	x, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if p.tok.typ != ',' {
		return x, nil
	}
	list := &ir.Comma{Pos: pos, List: []ir.Expr{x}}
	for p.got(',') {
		x, err := p.assignment()
		if err != nil {
			return nil, err
		}
		list.List = append(list.List, x)
	}
	return list, nil
}

// assignment parses an assignment expression. Assignment is right associative. Whether the target is
// assignable is decided by the backends.
func (p *parser) assignment() (ir.Expr, error) {
	pos := p.pos()
	x, err := p.conditional()
	if err != nil {
		return nil, err
	}
	op := ir.OpNone
	switch p.tok.typ {
	case '=':
	case ASSIGN_OP:
		op = assignOps[p.tok.val]
	default:
		return x, nil
	}
	p.advance()
	v, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &ir.Assign{Pos: pos, Op: op, Target: x, Value: v}, nil
}

// conditional parses the ternary operator.
func (p *parser) conditional() (ir.Expr, error) {
	pos := p.pos()
	c, err := p.logical(false)
	if err != nil {
		return nil, err
	}
	if !p.got('?') {
		return c, nil
	}
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(':'); err != nil {
		return nil, err
	}
	els, err := p.conditional()
	if err != nil {
		return nil, err
	}
	return &ir.Cond{Pos: pos, Cond: c, Then: then, Else: els}, nil
}

// logical parses || when and is false, and && when and is true.
func (p *parser) logical(and bool) (ir.Expr, error) {
	pos := p.pos()
	next := func() (ir.Expr, error) {
		if and {
			return p.binary(0)
		}
		return p.logical(true)
	}
	tok := itemType(OR)
	if and {
		tok = AND
	}
	x, err := next()
	if err != nil {
		return nil, err
	}
	for p.got(tok) {
		y, err := next()
		if err != nil {
			return nil, err
		}
		x = &ir.Logical{Pos: pos, And: and, L: x, R: y}
	}
	return x, nil
}

// binary parses the left associative binary operators of binaryLevels[level] and above.
func (p *parser) binary(level int) (ir.Expr, error) {
	if level == len(binaryLevels) {
		return p.unary()
	}
	pos := p.pos()
	x, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := binaryLevels[level][p.tok.typ]
		if !ok {
			return x, nil
		}
		p.advance()
		y, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}
		x = &ir.Binary{Pos: pos, Op: op, L: x, R: y}
	}
}

// unary parses prefix operators.
func (p *parser) unary() (ir.Expr, error) {
	pos := p.pos()
	if op, ok := unaryOps[p.tok.typ]; ok {
		p.advance()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ir.Unary{Pos: pos, Op: op, X: x}, nil
	}
	if p.tok.typ == INC || p.tok.typ == DEC {
		inc := p.tok.typ == INC
		p.advance()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ir.IncDec{Pos: pos, Inc: inc, X: x}, nil
	}
	return p.postfix()
}

// postfix parses calls and postfix increments and decrements.
func (p *parser) postfix() (ir.Expr, error) {
	pos := p.pos()
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.tok.typ {
		case '(':
			id, ok := x.(*ir.Ident)
			if !ok {
				return nil, p.errorf("called object is not a function name")
			}
			p.advance()
			call := &ir.Call{Pos: pos, Func: id.Name}
			if !p.got(')') {
				for {
					a, err := p.assignment()
					if err != nil {
						return nil, err
					}
					call.Args = append(call.Args, a)
					if p.got(')') {
						break
					}
					if _, err := p.expect(','); err != nil {
						return nil, err
					}
				}
			}
			x = call
		case INC, DEC:
			x = &ir.IncDec{Pos: pos, Inc: p.tok.typ == INC, Postfix: true, X: x}
			p.advance()
		default:
			return x, nil
		}
	}
}

// primary parses identifiers, constants and parenthesised expressions.
func (p *parser) primary() (ir.Expr, error) {
	pos := p.pos()
	t := p.tok
	switch t.typ {
	case IDENTIFIER:
		p.advance()
		return &ir.Ident{Pos: pos, Name: t.val}, nil
	case INTEGER:
		p.advance()
		v, err := strconv.ParseUint(t.val, 0, 64)
		if err != nil || v > 0xFFFFFFFF {
			return nil, ir.Errorf(ir.ErrSyntax, pos, "integer constant %s does not fit in 32 bits", t.val)
		}
		return &ir.IntLit{Pos: pos, Value: int64(v)}, nil
	case FLOAT:
		p.advance()
		v, err := strconv.ParseFloat(t.val, 64)
		if err != nil {
			return nil, ir.Errorf(ir.ErrSyntax, pos, "malformed floating point constant %s", t.val)
		}
		return &ir.FloatLit{Pos: pos, Value: v}, nil
	case CHARACTER:
		p.advance()
		v, _, tail, err := strconv.UnquoteChar(t.val, '\'')
		if err != nil || len(tail) > 0 {
			return nil, ir.Errorf(ir.ErrSyntax, pos, "malformed character constant '%s'", t.val)
		}
		return &ir.IntLit{Pos: pos, Value: int64(v)}, nil
	case STRING:
		// Adjacent string literals are concatenated.
		sb := strings.Builder{}
		for p.tok.typ == STRING {
			sb.WriteString(p.tok.val)
			p.advance()
		}
		return &ir.StringLit{Pos: pos, Value: sb.String()}, nil
	case '(':
		p.advance()
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(')'); err != nil {
			return nil, err
		}
		return x, nil
	}
	return nil, p.errorf("expected expression, got %s", p.describe())
}
