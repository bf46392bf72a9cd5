package ir

import (
	"fmt"
	"io"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Pos is a position in the source stream. Neither Line nor Col is zero-indexed.
type Pos struct {
	Line int // Line in source code.
	Col  int // Position on the line.
}

// Node is implemented by every syntax tree node.
type Node interface {
	Position() Pos
}

// BaseType enumerates the type specifiers accepted by the grammar.
type BaseType int

// Type is a declared type: a base type and a level of pointer indirection.
type Type struct {
	Base    BaseType // Type specifier.
	Pointer int      // Number of '*' following the specifier.
}

// BinaryOp is the operator of a binary or compound assignment expression.
type BinaryOp int

// UnaryOp is the operator of a prefix unary expression.
type UnaryOp int

// Expr is an expression node. The set of expression nodes is closed.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node. The set of statement nodes is closed.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is a top level declaration. The set of declaration nodes is closed.
type Decl interface {
	Node
	declNode()
}

// Program is the root of a translation unit.
type Program struct {
	Name  string // Name of the translation unit, typically the source file name.
	Decls []Decl // Top level declarations in source order.
}

// Expression nodes.
type (
	// Ident references a variable or function by name.
	Ident struct {
		Pos
		Name string
	}

	// IntLit is an integer or character constant.
	IntLit struct {
		Pos
		Value int64
	}

	// FloatLit is a floating point constant.
	FloatLit struct {
		Pos
		Value float64
	}

	// StringLit is a string constant. Value keeps the escape sequences of the source.
	StringLit struct {
		Pos
		Value string
	}

	// Unary is a prefix operator applied to X.
	Unary struct {
		Pos
		Op UnaryOp
		X  Expr
	}

	// IncDec is ++ or -- in prefix or postfix position.
	IncDec struct {
		Pos
		Inc     bool // True for ++.
		Postfix bool // True if the operator follows the operand.
		X       Expr
	}

	// Binary is an arithmetic, bitwise, shift or relational expression.
	Binary struct {
		Pos
		Op   BinaryOp
		L, R Expr
	}

	// Logical is a short circuit && or || expression.
	Logical struct {
		Pos
		And  bool // True for &&, false for ||.
		L, R Expr
	}

	// Cond is the ternary conditional operator.
	Cond struct {
		Pos
		Cond, Then, Else Expr
	}

	// Assign is a plain assignment when Op is OpNone, a compound assignment otherwise.
	Assign struct {
		Pos
		Op     BinaryOp
		Target Expr
		Value  Expr
	}

	// Call is a direct call of the function Func.
	Call struct {
		Pos
		Func string
		Args []Expr
	}

	// Comma evaluates List left to right and yields the last value.
	Comma struct {
		Pos
		List []Expr
	}
)

// Statement nodes.
type (
	// Block is a compound statement opening a new scope.
	Block struct {
		Pos
		Items []Stmt
	}

	// DeclStmt declares one or more local variables.
	DeclStmt struct {
		Pos
		Vars []*VarDecl
	}

	// ExprStmt evaluates X for its side effects.
	ExprStmt struct {
		Pos
		X Expr
	}

	// If is a selection statement. Else is nil when absent.
	If struct {
		Pos
		Cond       Expr
		Then, Else Stmt
	}

	// While is a pre-tested loop.
	While struct {
		Pos
		Cond Expr
		Body Stmt
	}

	// For is a for loop. Init is a *DeclStmt, an *ExprStmt or nil; Cond and Step may be nil.
	For struct {
		Pos
		Init Stmt
		Cond Expr
		Step Expr
		Body Stmt
	}

	// Return leaves the current function. Value is nil for a bare return.
	Return struct {
		Pos
		Value Expr
	}

	Break struct {
		Pos
	}

	Continue struct {
		Pos
	}

	// Empty is the null statement ';'.
	Empty struct {
		Pos
	}
)

// Declaration nodes.
type (
	// VarDecl is a single declarator with an optional initializer.
	VarDecl struct {
		Pos
		Name string
		Type Type
		Init Expr
	}

	// Param is a named function parameter.
	Param struct {
		Pos
		Name string
		Type Type
	}

	// Function is a function definition, or a prototype when Body is nil.
	Function struct {
		Pos
		Name     string
		Result   Type
		Params   []*Param
		Variadic bool
		Body     *Block
	}

	// Global declares variables at file scope.
	Global struct {
		Pos
		Vars []*VarDecl
	}
)

// ---------------------
// ----- Constants -----
// ---------------------

const (
	Int BaseType = iota
	Char
	Void
	Float
	Double
)

const (
	OpNone BinaryOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

const (
	OpNeg UnaryOp = iota
	OpPlus
	OpNot
	OpCompl
	OpAddr
	OpDeref
)

// baseTypes provides print friendly strings of BaseType.
var baseTypes = [...]string{
	"int",
	"char",
	"void",
	"float",
	"double",
}

// binaryOps provides the source spelling of BinaryOp.
var binaryOps = [...]string{
	"",
	"+",
	"-",
	"*",
	"/",
	"%",
	"&",
	"|",
	"^",
	"<<",
	">>",
	"==",
	"!=",
	"<",
	">",
	"<=",
	">=",
}

// unaryOps provides the source spelling of UnaryOp.
var unaryOps = [...]string{
	"-",
	"+",
	"!",
	"~",
	"&",
	"*",
}

// ----------------------
// ----- functions ------
// ----------------------

func (p Pos) Position() Pos { return p }

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

func (*Ident) exprNode()     {}
func (*IntLit) exprNode()    {}
func (*FloatLit) exprNode()  {}
func (*StringLit) exprNode() {}
func (*Unary) exprNode()     {}
func (*IncDec) exprNode()    {}
func (*Binary) exprNode()    {}
func (*Logical) exprNode()   {}
func (*Cond) exprNode()      {}
func (*Assign) exprNode()    {}
func (*Call) exprNode()      {}
func (*Comma) exprNode()     {}

func (*Block) stmtNode()    {}
func (*DeclStmt) stmtNode() {}
func (*ExprStmt) stmtNode() {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*For) stmtNode()      {}
func (*Return) stmtNode()   {}
func (*Break) stmtNode()    {}
func (*Continue) stmtNode() {}
func (*Empty) stmtNode()    {}

func (*Function) declNode() {}
func (*Global) declNode()   {}

// IsFloat returns true if t is a floating point value type.
func (t Type) IsFloat() bool {
	return t.Pointer == 0 && (t.Base == Float || t.Base == Double)
}

// IsVoid returns true if t is the plain void type.
func (t Type) IsVoid() bool {
	return t.Pointer == 0 && t.Base == Void
}

func (t Type) String() string {
	if int(t.Base) < 0 || int(t.Base) >= len(baseTypes) {
		return fmt.Sprintf("<type %d>", t.Base)
	}
	return baseTypes[t.Base] + strings.Repeat("*", t.Pointer)
}

func (op BinaryOp) String() string {
	if int(op) < 0 || int(op) >= len(binaryOps) {
		return fmt.Sprintf("<op %d>", op)
	}
	return binaryOps[op]
}

// IsComparison returns true for the relational and equality operators.
func (op BinaryOp) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// Commutative returns true if the operands of op may be swapped.
func (op BinaryOp) Commutative() bool {
	switch op {
	case OpAdd, OpMul, OpAnd, OpOr, OpXor, OpEq, OpNe:
		return true
	}
	return false
}

func (op UnaryOp) String() string {
	if int(op) < 0 || int(op) >= len(unaryOps) {
		return fmt.Sprintf("<op %d>", op)
	}
	return unaryOps[op]
}

// Print writes an indented dump of the syntax tree of p to w.
func (p *Program) Print(w io.Writer) {
	for _, e1 := range p.Decls {
		printNode(w, e1, 0)
	}
}

// printNode recursively prints Node n and its sub-trees, padding two spaces per depth.
func printNode(w io.Writer, n Node, depth int) {
	pad := strings.Repeat("  ", depth)
	line := func(format string, args ...interface{}) {
		_, _ = fmt.Fprintf(w, "%s%s\n", pad, fmt.Sprintf(format, args...))
	}
	switch n := n.(type) {
	case nil:
		line("---> NIL")
	case *Function:
		if n.Body == nil {
			line("PROTOTYPE %s %s (%d params, variadic: %t)", n.Result, n.Name, len(n.Params), n.Variadic)
			return
		}
		line("FUNCTION %s %s", n.Result, n.Name)
		for _, e1 := range n.Params {
			printNode(w, e1, depth+1)
		}
		printNode(w, n.Body, depth+1)
	case *Param:
		line("PARAM %s %s", n.Type, n.Name)
	case *Global:
		line("GLOBAL")
		for _, e1 := range n.Vars {
			printNode(w, e1, depth+1)
		}
	case *VarDecl:
		line("DECLARATION %s %s", n.Type, n.Name)
		if n.Init != nil {
			printNode(w, n.Init, depth+1)
		}
	case *Block:
		line("BLOCK")
		for _, e1 := range n.Items {
			printNode(w, e1, depth+1)
		}
	case *DeclStmt:
		for _, e1 := range n.Vars {
			printNode(w, e1, depth)
		}
	case *ExprStmt:
		line("EXPRESSION_STATEMENT")
		printNode(w, n.X, depth+1)
	case *If:
		line("IF")
		printNode(w, n.Cond, depth+1)
		printNode(w, n.Then, depth+1)
		if n.Else != nil {
			line("ELSE")
			printNode(w, n.Else, depth+1)
		}
	case *While:
		line("WHILE")
		printNode(w, n.Cond, depth+1)
		printNode(w, n.Body, depth+1)
	case *For:
		line("FOR")
		if n.Init != nil {
			printNode(w, n.Init, depth+1)
		}
		if n.Cond != nil {
			printNode(w, n.Cond, depth+1)
		}
		if n.Step != nil {
			printNode(w, n.Step, depth+1)
		}
		printNode(w, n.Body, depth+1)
	case *Return:
		line("RETURN")
		if n.Value != nil {
			printNode(w, n.Value, depth+1)
		}
	case *Break:
		line("BREAK")
	case *Continue:
		line("CONTINUE")
	case *Empty:
		line("NULL_STATEMENT")
	case *Ident:
		line("IDENTIFIER [%q]", n.Name)
	case *IntLit:
		line("INTEGER [%d]", n.Value)
	case *FloatLit:
		line("FLOAT [%g]", n.Value)
	case *StringLit:
		line("STRING [\"%s\"]", n.Value)
	case *Unary:
		line("UNARY [%s]", n.Op)
		printNode(w, n.X, depth+1)
	case *IncDec:
		op := "--"
		if n.Inc {
			op = "++"
		}
		if n.Postfix {
			line("POSTFIX [%s]", op)
		} else {
			line("PREFIX [%s]", op)
		}
		printNode(w, n.X, depth+1)
	case *Binary:
		line("BINARY [%s]", n.Op)
		printNode(w, n.L, depth+1)
		printNode(w, n.R, depth+1)
	case *Logical:
		if n.And {
			line("LOGICAL [&&]")
		} else {
			line("LOGICAL [||]")
		}
		printNode(w, n.L, depth+1)
		printNode(w, n.R, depth+1)
	case *Cond:
		line("CONDITIONAL")
		printNode(w, n.Cond, depth+1)
		printNode(w, n.Then, depth+1)
		printNode(w, n.Else, depth+1)
	case *Assign:
		line("ASSIGNMENT [%s=]", n.Op)
		printNode(w, n.Target, depth+1)
		printNode(w, n.Value, depth+1)
	case *Call:
		line("CALL [%s]", n.Func)
		for _, e1 := range n.Args {
			printNode(w, e1, depth+1)
		}
	case *Comma:
		line("EXPRESSION_LIST")
		for _, e1 := range n.List {
			printNode(w, e1, depth+1)
		}
	default:
		line("---> MISCONFIGURED NODE [%T]", n)
	}
}
