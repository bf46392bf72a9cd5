package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"armcc/src/backend/arm"
	"armcc/src/frontend"
	"armcc/src/ir"
	"armcc/src/util"
)

// -----------------------------
// ----- Type definitions ------
// -----------------------------

// sample is a complete translation unit used by the end to end tests and benchmarks.
type sample struct {
	name string // Informative name of the sample.
	src  string // Source code.
}

// --------------------
// ----- Globals ------
// --------------------

var samples = []sample{
	{
		name: "fib",
		src: `int printf();
int fib(int n) {
	if (n < 2)
		return n;
	return fib(n - 1) + fib(n - 2);
}
int main() {
	for (int i = 0; i < 20; i++)
		printf("fib(%d) = %d\n", i, fib(i));
	return 0;
}`,
	},
	{
		name: "gcd",
		src: `int printf();
int gcd(int a, int b) {
	while (a != b) {
		if (a > b) a -= b;
		else b -= a;
	}
	return a;
}
int main() {
	printf("%d\n", gcd(1071, 462));
}`,
	},
	{
		name: "primes",
		src: `int printf();
int prime(int n) {
	if (n < 2) return 0;
	for (int d = 2; d * d <= n; d++) {
		int q = n, r;
		while (q >= d) q = q - d;
		r = q;
		if (!r) return 0;
	}
	return 1;
}
int main() {
	int count = 0;
	for (int i = 0; i < 100; i++) {
		if (prime(i) && i != 2) {
			count++;
			continue;
		}
		if (count > 20 || i == 99) break;
	}
	printf("%d odd primes\n", count);
	return count;
}`,
	},
	{
		name: "pressure",
		src: `int sum(int a, int b, int c, int d) {
	int e = a + b, f = b + c, g = c + d, h = d + a;
	int i = e * f, j = g * h, k = e ^ g, l = f | h;
	int m = i - j, n = k & l, o = m << 2, p = n >> 1;
	return ((a + b) * (c - d)) + e + f + g + h + i + j + k + l + m + n + o + p;
}`,
	},
}

// ----------------------
// ----- Functions ------
// ----------------------

// helperWriteSource writes src to a file in a fresh temporary directory and returns the paths of the source and
// of a not yet existing output file next to it.
func helperWriteSource(t *testing.T, src string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "test.c")
	if err := os.WriteFile(in, []byte(src), 0644); err != nil {
		t.Fatalf("I/O error, could not write source file: %s", err)
	}
	return in, filepath.Join(dir, "test.s")
}

func TestRun(t *testing.T) {
	for _, e1 := range samples {
		for _, e2 := range []int{util.MinRegisters, util.DefaultRegisters, util.MaxRegisters} {
			in, out := helperWriteSource(t, e1.src)
			stdout := bytes.Buffer{}
			args := []string{"-S", "-regs", fmt.Sprint(e2), "-c", out, in}
			if err := run(args, &stdout); err != nil {
				t.Fatalf("%s with %d registers: unexpected error: %s", e1.name, e2, err)
			}
			b, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("%s with %d registers: could not read output: %s", e1.name, e2, err)
			}
			s := string(b)
			if !strings.HasPrefix(s, ".section .rodata\n") {
				t.Errorf("%s with %d registers: output does not start with the literal pool", e1.name, e2)
			}
			for _, e3 := range strings.Split(s, "\n") {
				for r := e2; r < util.MaxRegisters; r++ {
					if strings.Contains(e3, fmt.Sprintf("r%d,", r)) || strings.HasSuffix(e3, fmt.Sprintf("r%d", r)) {
						t.Errorf("%s with %d registers: register r%d used outside the bank: %q", e1.name, e2, r, e3)
					}
				}
			}
		}
	}
}

func TestRunTree(t *testing.T) {
	in, out := helperWriteSource(t, "int main() { return 0; }")
	if err := run([]string{"-ast", "-o", out, in}, &bytes.Buffer{}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("could not read output: %s", err)
	}
	exp := "FUNCTION int main\n  BLOCK\n    RETURN\n      INTEGER [0]\n"
	if string(b) != exp {
		t.Errorf("expected syntax tree %q, got %q", exp, string(b))
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		src  string
		args []string
		err  error
	}{
		{src: "int main() { return x; }", err: ir.ErrUnresolvedSymbol},
		{src: "int main() { break; }", err: ir.ErrSyntax},
		{src: "int main() { return 0 }", err: ir.ErrSyntax},
		{src: "int main() { return 0; }", args: []string{"-regs", "12"}},
		{src: "int main() { return 0; }", args: []string{"-x"}},
	}
	for _, e1 := range tests {
		in, out := helperWriteSource(t, e1.src)
		args := append(append([]string{}, e1.args...), "-o", out, in)
		err := run(args, &bytes.Buffer{})
		if err == nil {
			t.Errorf("%s %v: expected error", e1.src, e1.args)
			continue
		}
		if e1.err != nil && !strings.Contains(err.Error(), e1.err.Error()) {
			t.Errorf("%s %v: expected error %q, got %q", e1.src, e1.args, e1.err, err)
		}
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Errorf("%s %v: output file created on error", e1.src, e1.args)
		}
	}
}

func TestRunMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := run([]string{"-o", filepath.Join(dir, "out.s"), filepath.Join(dir, "missing.c")}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for missing source file")
	}
}

func TestRunHelp(t *testing.T) {
	stdout := bytes.Buffer{}
	if err := run([]string{"-h"}, &stdout); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !strings.HasPrefix(stdout.String(), "usage: armcc") {
		t.Errorf("expected usage message, got %q", stdout.String())
	}
}

// BenchmarkARM benchmarks generating ARM assembly for every sample and every register bank size.
func BenchmarkARM(b *testing.B) {
	for _, e1 := range samples {
		prog, err := frontend.Parse(e1.name, e1.src)
		if err != nil {
			b.Fatalf("Could not parse syntax tree: %s\n", err)
		}
		for i1 := util.MinRegisters; i1 <= util.MaxRegisters; i1++ {
			opt := util.Options{Registers: i1}
			b.Run(fmt.Sprintf("%s-regs=%d", e1.name, i1), func(b *testing.B) {
				for n := 0; n < b.N; n++ {
					if _, err := arm.Generate(opt, prog, nil); err != nil {
						b.Fatalf("Compiler error: %s\n", err)
					}
				}
			})
		}
	}
}

// BenchmarkParse benchmarks the frontend.
func BenchmarkParse(b *testing.B) {
	for _, e1 := range samples {
		b.Run(e1.name, func(b *testing.B) {
			for n := 0; n < b.N; n++ {
				if _, err := frontend.Parse(e1.name, e1.src); err != nil {
					b.Fatalf("Could not parse syntax tree: %s\n", err)
				}
			}
		})
	}
}
