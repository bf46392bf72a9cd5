package ir

import "fmt"

// FoldBinary evaluates a op b at compile time with the wrapping semantics of 32-bit two's complement integers.
// Comparisons evaluate to 1 or 0.
func FoldBinary(op BinaryOp, a, b int32) (int32, error) {
	switch op {
	case OpAdd:
		return a + b, nil
	case OpSub:
		return a - b, nil
	case OpMul:
		return a * b, nil
	case OpDiv, OpMod:
		if b == 0 {
			return 0, fmt.Errorf("expression %d %s %d not allowed: cannot divide by zero", a, op, b)
		}
		if op == OpDiv {
			return a / b, nil
		}
		return a % b, nil
	case OpAnd:
		return a & b, nil
	case OpOr:
		return a | b, nil
	case OpXor:
		return a ^ b, nil
	case OpShl:
		return int32(uint32(a) << uint32(b&31)), nil
	case OpShr:
		return a >> uint32(b&31), nil
	case OpEq:
		return truth(a == b), nil
	case OpNe:
		return truth(a != b), nil
	case OpLt:
		return truth(a < b), nil
	case OpGt:
		return truth(a > b), nil
	case OpLe:
		return truth(a <= b), nil
	case OpGe:
		return truth(a >= b), nil
	}
	return 0, fmt.Errorf("operator %q cannot be folded", op)
}

// FoldUnary evaluates op a at compile time. Address and dereference cannot be folded.
func FoldUnary(op UnaryOp, a int32) (int32, error) {
	switch op {
	case OpNeg:
		return -a, nil
	case OpPlus:
		return a, nil
	case OpNot:
		return truth(a == 0), nil
	case OpCompl:
		return ^a, nil
	}
	return 0, fmt.Errorf("operator %q cannot be folded", op)
}

// ConstValue returns the value of e if e is an integer constant expression. Logical operators short circuit, so
// 0 && f() is constant.
func ConstValue(e Expr) (int32, bool) {
	switch e := e.(type) {
	case *IntLit:
		return int32(e.Value), true
	case *Unary:
		if v, ok := ConstValue(e.X); ok {
			if r, err := FoldUnary(e.Op, v); err == nil {
				return r, true
			}
		}
	case *Binary:
		a, ok := ConstValue(e.L)
		if !ok {
			return 0, false
		}
		b, ok := ConstValue(e.R)
		if !ok {
			return 0, false
		}
		if r, err := FoldBinary(e.Op, a, b); err == nil {
			return r, true
		}
	case *Logical:
		a, ok := ConstValue(e.L)
		if !ok {
			return 0, false
		}
		if (a != 0) != e.And {
			// 0 && x is 0, 1 || x is 1.
			return truth(a != 0), true
		}
		if b, ok := ConstValue(e.R); ok {
			return truth(b != 0), true
		}
	case *Comma:
		for _, e1 := range e.List[:len(e.List)-1] {
			if _, ok := ConstValue(e1); !ok {
				return 0, false
			}
		}
		return ConstValue(e.List[len(e.List)-1])
	}
	return 0, false
}

// truth converts a Go boolean to the C truth values 1 and 0.
func truth(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
