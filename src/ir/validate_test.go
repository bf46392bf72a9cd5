package ir_test

import (
	"errors"
	"testing"

	"armcc/src/frontend"
	"armcc/src/ir"
)

func TestValidateTree(t *testing.T) {
	tests := []struct {
		src string
		err error
	}{
		{src: `int printf(); int main() { while (1) { if (1) continue; break; } printf("%d %d", 1, 2); return 0; }`},
		{src: "int f(int a); int f(int a) { return a; } int main() { return f(1); }"},
		{src: "int main() { for (;;) { { break; } } return 0; }"},
		{src: "int main() { break; }", err: ir.ErrSyntax},
		{src: "int main() { if (1) continue; return 0; }", err: ir.ErrSyntax},
		{src: "int f(int a, int a) { return a; }", err: ir.ErrDuplicateDeclaration},
		{src: "int f(int a); int f(int a, int b) { return a; }", err: ir.ErrArgumentCount},
		{src: "int f(int a); int main() { return f(); }", err: ir.ErrArgumentCount},
		{src: "int main() { return 0; } int main() { return 1; }", err: ir.ErrDuplicateDeclaration},
	}
	for _, e1 := range tests {
		p, err := frontend.Parse("test.c", e1.src)
		if err != nil {
			t.Fatalf("%s: could not parse: %s", e1.src, err)
		}
		err = ir.ValidateTree(p)
		if e1.err == nil {
			if err != nil {
				t.Errorf("%s: unexpected error: %s", e1.src, err)
			}
		} else if !errors.Is(err, e1.err) {
			t.Errorf("%s: expected error %q, got %v", e1.src, e1.err, err)
		}
	}
}
