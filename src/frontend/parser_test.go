package frontend

import (
	"errors"
	"strings"
	"testing"

	"armcc/src/ir"
)

// dump parses src and returns the printed syntax tree, split into lines.
func dump(t *testing.T, src string) []string {
	t.Helper()
	prog, err := Parse("test.c", src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	sb := strings.Builder{}
	prog.Print(&sb)
	return strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
}

// compareLines fails the test if got and exp differ.
func compareLines(t *testing.T, exp, got []string) {
	t.Helper()
	if len(got) != len(exp) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(exp), len(got), strings.Join(got, "\n"))
	}
	for i1, e1 := range exp {
		if got[i1] != e1 {
			t.Errorf("line %d: expected %q, got %q", i1+1, e1, got[i1])
		}
	}
}

func TestParseFunction(t *testing.T) {
	got := dump(t, "int f(int a, int b) { return a + b * 2; }")
	exp := []string{
		"FUNCTION int f",
		"  PARAM int a",
		"  PARAM int b",
		"  BLOCK",
		"    RETURN",
		"      BINARY [+]",
		"        IDENTIFIER [\"a\"]",
		"        BINARY [*]",
		"          IDENTIFIER [\"b\"]",
		"          INTEGER [2]",
	}
	compareLines(t, exp, got)
}

func TestParsePrototypes(t *testing.T) {
	got := dump(t, "int printf(); int g(void); int h(char *s, ...);")
	exp := []string{
		"PROTOTYPE int printf (0 params, variadic: true)",
		"PROTOTYPE int g (0 params, variadic: false)",
		"PROTOTYPE int h (1 params, variadic: true)",
	}
	compareLines(t, exp, got)
}

func TestParseStatements(t *testing.T) {
	src := `void f(void) {
	int a = 1, *p;
	for (int i = 0; i < 10; i++) { if (!a) break; else continue; }
	while (a && p) a -= 'b';
	a = p = 0;
	;
}`
	got := dump(t, src)
	exp := []string{
		"FUNCTION void f",
		"  BLOCK",
		"    DECLARATION int a",
		"      INTEGER [1]",
		"    DECLARATION int* p",
		"    FOR",
		"      DECLARATION int i",
		"        INTEGER [0]",
		"      BINARY [<]",
		"        IDENTIFIER [\"i\"]",
		"        INTEGER [10]",
		"      POSTFIX [++]",
		"        IDENTIFIER [\"i\"]",
		"      BLOCK",
		"        IF",
		"          UNARY [!]",
		"            IDENTIFIER [\"a\"]",
		"          BREAK",
		"        ELSE",
		"          CONTINUE",
		"    WHILE",
		"      LOGICAL [&&]",
		"        IDENTIFIER [\"a\"]",
		"        IDENTIFIER [\"p\"]",
		"      EXPRESSION_STATEMENT",
		"        ASSIGNMENT [-=]",
		"          IDENTIFIER [\"a\"]",
		"          INTEGER [98]",
		"    EXPRESSION_STATEMENT",
		"      ASSIGNMENT [=]",
		"        IDENTIFIER [\"a\"]",
		"        ASSIGNMENT [=]",
		"          IDENTIFIER [\"p\"]",
		"          INTEGER [0]",
		"    NULL_STATEMENT",
	}
	compareLines(t, exp, got)
}

func TestParsePrecedence(t *testing.T) {
	got := dump(t, `int f(int a) { return a || a & 1 << 2 == -a, "x" "y"; }`)
	exp := []string{
		"FUNCTION int f",
		"  PARAM int a",
		"  BLOCK",
		"    RETURN",
		"      EXPRESSION_LIST",
		"        LOGICAL [||]",
		"          IDENTIFIER [\"a\"]",
		"          BINARY [&]",
		"            IDENTIFIER [\"a\"]",
		"            BINARY [==]",
		"              BINARY [<<]",
		"                INTEGER [1]",
		"                INTEGER [2]",
		"              UNARY [-]",
		"                IDENTIFIER [\"a\"]",
		"        STRING [\"xy\"]",
	}
	compareLines(t, exp, got)
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"int main( { }",
		"int main(void) { return 1 }",
		"int main(void) { 3(); }",
		"int main(void) { return 0x100000000; }",
		"int main(void) { if (1) int a; }",
		"int main(void) {",
		`int main(void) { return "open; }`,
	}
	for _, e1 := range tests {
		if _, err := Parse("test.c", e1); err == nil {
			t.Errorf("expected error for %q", e1)
		} else if !errors.Is(err, ir.ErrSyntax) {
			t.Errorf("expected syntax error for %q, got %s", e1, err)
		}
	}
}
