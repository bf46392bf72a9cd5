package regalloc

import "armcc/src/backend/emit"

// Frame accounts for the stack slots of one function. Slots grow downwards from the frame pointer.
type Frame struct {
	size int
}

// stackAlign is the alignment of the stack pointer at public interfaces, per the procedure call standard.
const stackAlign = 8

// WordSize is the size of one stack slot in bytes.
const WordSize = 4

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{}
}

// Allocate reserves n bytes and returns their frame pointer relative offset.
func (f *Frame) Allocate(n int) int {
	f.size += n
	return -f.size
}

// Size returns the number of bytes to subtract from the stack pointer to open the frame. It is aligned and rounded
// up until it fits the immediate field of SUB.
func (f *Frame) Size() int {
	s := f.size
	if r := s % stackAlign; r != 0 {
		s += stackAlign - r
	}
	for !emit.Encodable(int32(s)) {
		s += stackAlign
	}
	return s
}
