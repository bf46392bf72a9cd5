package frontend

import "fmt"

type reservedItem struct {
	val string
	typ itemType
}

// Token types. Single character punctuators are emitted with their own rune as item type, so every named token
// type lies above the Unicode range.
const (
	IDENTIFIER itemType = iota + 0x110000
	INTEGER
	FLOAT
	STRING
	CHARACTER
	TYPE
	IF
	ELSE
	WHILE
	FOR
	RETURN
	BREAK
	CONTINUE
	INC
	DEC
	LSHIFT
	RSHIFT
	LE
	GE
	EQ
	NE
	AND
	OR
	ELLIPSIS
	ASSIGN_OP
)

// tokenNames provides print friendly names of the named token types.
var tokenNames = [...]string{
	"identifier",
	"integer",
	"float",
	"string",
	"character",
	"type",
	"if",
	"else",
	"while",
	"for",
	"return",
	"break",
	"continue",
	"'++'",
	"'--'",
	"'<<'",
	"'>>'",
	"'<='",
	"'>='",
	"'=='",
	"'!='",
	"'&&'",
	"'||'",
	"'...'",
	"compound assignment",
}

// rw contains the set of all reserved keywords.
// The first dimension equals the length of the word.
// The second dimension is the slice of all words of that length.
// Indexing by length and searching should be faster than using a hash table.
var rw = [...][]reservedItem{
	// One-grams
	{},
	// Two-grams
	{
		{val: "if", typ: IF},
	},
	// Three-grams
	{
		{val: "for", typ: FOR},
		{val: "int", typ: TYPE},
	},
	// Four-grams
	{
		{val: "else", typ: ELSE},
		{val: "char", typ: TYPE},
		{val: "void", typ: TYPE},
	},
	// Five-grams
	{
		{val: "while", typ: WHILE},
		{val: "break", typ: BREAK},
		{val: "float", typ: TYPE},
	},
	// Six-grams
	{
		{val: "return", typ: RETURN},
		{val: "double", typ: TYPE},
	},
	// Seven-grams
	{},
	// Eight-grams
	{
		{val: "continue", typ: CONTINUE},
	},
}

// punctuators lists the multi character operators, longest first so that the scanner always takes the longest
// match.
var punctuators = [...]reservedItem{
	{val: "...", typ: ELLIPSIS},
	{val: "<<=", typ: ASSIGN_OP},
	{val: ">>=", typ: ASSIGN_OP},
	{val: "++", typ: INC},
	{val: "--", typ: DEC},
	{val: "<<", typ: LSHIFT},
	{val: ">>", typ: RSHIFT},
	{val: "<=", typ: LE},
	{val: ">=", typ: GE},
	{val: "==", typ: EQ},
	{val: "!=", typ: NE},
	{val: "&&", typ: AND},
	{val: "||", typ: OR},
	{val: "+=", typ: ASSIGN_OP},
	{val: "-=", typ: ASSIGN_OP},
	{val: "*=", typ: ASSIGN_OP},
	{val: "/=", typ: ASSIGN_OP},
	{val: "%=", typ: ASSIGN_OP},
	{val: "&=", typ: ASSIGN_OP},
	{val: "|=", typ: ASSIGN_OP},
	{val: "^=", typ: ASSIGN_OP},
}

// isKeyword returns true if the string s is a reserved keyword.
// On the return of true the itemType of the keyword is returned.
// On the return of false the itemType is either IDENTIFIER or itemError.
func isKeyword(s string) (bool, itemType) {
	if len(s) == 0 {
		return false, itemError
	}
	if len(s) > len(rw) {
		return false, IDENTIFIER
	}

	// Check if string s is a reserved word by iterating over all words in rw of length len(s).
	for _, e1 := range rw[len(s)-1] {
		if e1.val == s {
			return true, e1.typ
		}
	}
	return false, IDENTIFIER
}

// String returns a print friendly name of the token type.
func (t itemType) String() string {
	switch {
	case t == itemEOF:
		return "EOF"
	case t == itemError:
		return "error"
	case t >= IDENTIFIER && int(t-IDENTIFIER) < len(tokenNames):
		return tokenNames[t-IDENTIFIER]
	case t < IDENTIFIER:
		return fmt.Sprintf("%q", rune(t))
	}
	return fmt.Sprintf("<token %d>", int(t))
}
