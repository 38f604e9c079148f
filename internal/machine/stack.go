package machine

import "fmt"

// StackSize is the maximum call depth.
const StackSize = 16

// Stack is a fixed capacity LIFO of return addresses.
type Stack struct {
	entries [StackSize]uint16
	depth   int
}

// Push adds a return address.
func (s *Stack) Push(address uint16) error {
	if s.depth == StackSize {
		return fmt.Errorf("%w: pushing $%04X with %d entries", ErrStackOverflow, address, StackSize)
	}
	s.entries[s.depth] = address
	s.depth++
	return nil
}

// Pop removes and returns the most recently pushed return address.
func (s *Stack) Pop() (uint16, error) {
	if s.depth == 0 {
		return 0, ErrStackUnderflow
	}
	s.depth--
	return s.entries[s.depth], nil
}

// Depth returns the number of entries, which is the stack pointer.
func (s *Stack) Depth() int {
	return s.depth
}

// Values returns a copy of the entries, oldest first.
func (s *Stack) Values() []uint16 {
	values := make([]uint16, s.depth)
	copy(values, s.entries[:s.depth])
	return values
}

// Reset removes all entries.
func (s *Stack) Reset() {
	s.entries = [StackSize]uint16{}
	s.depth = 0
}
