package ir

import (
	"errors"
	"fmt"
)

// Error kinds reported by the compiler. Every error returned by the frontend, the scope chain or a backend wraps
// exactly one of these and can be tested with errors.Is.
var (
	ErrSyntax               = errors.New("syntax error")
	ErrUnresolvedSymbol     = errors.New("unresolved symbol")
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	ErrImmutableTarget      = errors.New("left hand side of assignment is immutable")
	ErrUnsupported          = errors.New("unsupported construct")
	ErrArgumentCount        = errors.New("argument count mismatch")
	ErrInternal             = errors.New("internal invariant violation")
)

// Errorf returns an error of the given kind located at source position p.
func Errorf(kind error, p Pos, format string, args ...interface{}) error {
	return fmt.Errorf("line %d:%d: %w: %s", p.Line, p.Col, kind, fmt.Sprintf(format, args...))
}
