package machine

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/instruction"
	"github.com/retroenv/retrochip8/internal/memory"
)

var (
	// ErrROMTooLarge is returned by LoadROM for images that do not fit into the program area.
	ErrROMTooLarge = errors.New("rom too large")
	// ErrInvalidFetch is matched by errors for instruction fetches outside of memory.
	ErrInvalidFetch = errors.New("invalid instruction fetch")
	// ErrReservedAddress is returned when an instruction writes to the interpreter area.
	ErrReservedAddress = errors.New("write to reserved address")
	// ErrStackOverflow is returned when a call exceeds the stack capacity.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a return is executed with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrHalted is returned by Step after the program executed the exit instruction.
	ErrHalted = errors.New("machine halted")

	// ErrUnknownOpcode is matched by errors for unrecognized instruction words.
	ErrUnknownOpcode = instruction.ErrUnknownOpcode
	// ErrOutOfBounds is matched by errors for data accesses outside of memory.
	ErrOutOfBounds = memory.ErrOutOfBounds
)

// InvalidFetchError describes a program counter that does not point to a
// fetchable instruction.
type InvalidFetchError struct {
	Address uint16
}

func (e *InvalidFetchError) Error() string {
	if e.Address&1 != 0 {
		return fmt.Sprintf("invalid instruction fetch at unaligned address $%04X", e.Address)
	}
	return fmt.Sprintf("invalid instruction fetch at $%04X", e.Address)
}

// Is reports whether the error matches ErrInvalidFetch.
func (e *InvalidFetchError) Is(target error) bool {
	return target == ErrInvalidFetch
}
