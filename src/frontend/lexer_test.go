// Tests the lexer type by verifying that a short sample program is tokenized properly.
//
// The sample was manually transformed into a slice of items holding token type, string value and position. It is
// expected that the lexer outputs tokens in the same order as the slice, as it traverses the source string from
// start to finish.

package frontend

import (
	"testing"
)

const lexerSample = `int main(void) {
    x += 0x1F; // comment
    return 'a';
}
/* trailing
   comment */ s = "a\n" 1.5e3;
`

// TestLexer tests the lexing state functions to verify that it correctly scans a sample file for tokens.
func TestLexer(t *testing.T) {
	exp := []item{
		{val: "int", typ: TYPE, line: 1, pos: 1},
		{val: "main", typ: IDENTIFIER, line: 1, pos: 5},
		{val: "(", typ: '(', line: 1, pos: 9},
		{val: "void", typ: TYPE, line: 1, pos: 10},
		{val: ")", typ: ')', line: 1, pos: 14},
		{val: "{", typ: '{', line: 1, pos: 16},
		{val: "x", typ: IDENTIFIER, line: 2, pos: 5},
		{val: "+=", typ: ASSIGN_OP, line: 2, pos: 7},
		{val: "0x1F", typ: INTEGER, line: 2, pos: 10},
		{val: ";", typ: ';', line: 2, pos: 14},
		{val: "return", typ: RETURN, line: 3, pos: 5},
		{val: "a", typ: CHARACTER, line: 3, pos: 12},
		{val: ";", typ: ';', line: 3, pos: 15},
		{val: "}", typ: '}', line: 4, pos: 1},
		{val: "s", typ: IDENTIFIER, line: 6, pos: 15},
		{val: "=", typ: '=', line: 6, pos: 17},
		{val: `a\n`, typ: STRING, line: 6, pos: 19},
		{val: "1.5e3", typ: FLOAT, line: 6, pos: 25},
		{val: ";", typ: ';', line: 6, pos: 30},
	}

	l := newLexer(lexerSample, lexGlobal)
	for i1, e1 := range exp {
		it := l.nextItem()
		if it.typ == itemError {
			t.Fatalf("lexer error at token %d: %s", i1, it.val)
		}
		if it != e1 {
			t.Errorf("token %d: expected %s %s, got %s %s", i1, e1.typ, e1, it.typ, it)
		}
	}
	if it := l.nextItem(); it.typ != itemEOF {
		t.Errorf("expected EOF, got %s %s", it.typ, it)
	}
}

// TestLexerLongestMatch verifies that multi character operators are preferred over their prefixes.
func TestLexerLongestMatch(t *testing.T) {
	exp := []itemType{LSHIFT, ASSIGN_OP, INC, '+', AND, '&', ELLIPSIS, '.', NE, '!'}
	l := newLexer("<< <<= ++ + && & ... . != !", lexGlobal)
	for i1, e1 := range exp {
		if it := l.nextItem(); it.typ != e1 {
			t.Errorf("token %d: expected %s, got %s", i1, e1, it.typ)
		}
	}
}

// TestLexerErrors verifies that malformed input produces an error token and terminates the scan.
func TestLexerErrors(t *testing.T) {
	tests := []string{
		`"unterminated`,
		"'a",
		"/* never closed",
		"0x1G",
		"12abc",
	}
	for _, e1 := range tests {
		l := newLexer(e1, lexGlobal)
		it := l.nextItem()
		for it.typ != itemError && it.typ != itemEOF {
			it = l.nextItem()
		}
		if it.typ != itemError {
			t.Errorf("expected error token for %q, got EOF", e1)
		}
		if it = l.nextItem(); it.typ != itemEOF {
			t.Errorf("expected EOF after error for %q, got %s", e1, it.typ)
		}
	}
}
