// label.go provides unique assembly labels for jumps within one compilation unit.

package util

import "fmt"

// Labels hands out local labels in sequence. Every compilation owns its own Labels, so the numbering of one
// translation unit never depends on what was compiled before it.
type Labels struct {
	prefix string // Prefix of every label.
	n      int    // Numeric suffix of the next label.
}

// labelPrefix marks labels as local to the assembler so they never reach the symbol table of the object file.
const labelPrefix = ".L"

// NewLabels returns a label generator starting at .L0.
func NewLabels() *Labels {
	return &Labels{prefix: labelPrefix}
}

// New returns the next unused label.
func (l *Labels) New() string {
	s := fmt.Sprintf("%s%d", l.prefix, l.n)
	l.n++
	return s
}

// Count returns the number of labels handed out.
func (l *Labels) Count() int {
	return l.n
}
