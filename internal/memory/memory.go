// Package memory implements the 4KB CHIP-8 address space.
//
// CHIP-8 memory map:
//
//	0x000-0x04F: Interpreter area
//	0x050-0x09F: Small font (16 glyphs, 5 bytes each)
//	0x0A0-0x13F: Big font used by the Super-CHIP extension (10 bytes each)
//	0x140-0x1FF: Reserved
//	0x200-0xFFF: Program and data area
package memory

import (
	"errors"
	"fmt"
)

const (
	// Size is the number of addressable bytes.
	Size = 0x1000

	// ProgramStart is the address that ROM images are loaded to and execution starts at.
	ProgramStart = 0x200

	// MaxProgramSize is the largest ROM image that fits into the program area.
	MaxProgramSize = Size - ProgramStart

	// FontStart is the address of the first small font glyph.
	FontStart = 0x050

	// BigFontStart is the address of the first big font glyph.
	BigFontStart = 0x0A0
)

// ErrOutOfBounds is returned for any access outside of the address space.
var ErrOutOfBounds = errors.New("memory access out of bounds")

// Memory is a flat byte addressable RAM.
type Memory struct {
	ram [Size]byte
}

// New returns a memory instance with the fonts loaded.
func New() *Memory {
	m := &Memory{}
	m.Clear()
	return m
}

// Clear zeroes the whole address space and reloads the fonts.
func (m *Memory) Clear() {
	m.ram = [Size]byte{}
	copy(m.ram[FontStart:], Font[:])
	copy(m.ram[BigFontStart:], BigFont[:])
}

// LoadProgram copies a program image into the program area.
func (m *Memory) LoadProgram(data []byte) error {
	if len(data) > MaxProgramSize {
		return fmt.Errorf("%w: program size %d exceeds %d bytes", ErrOutOfBounds, len(data), MaxProgramSize)
	}
	copy(m.ram[ProgramStart:], data)
	return nil
}

// ReadByte returns the byte at the given address.
func (m *Memory) ReadByte(address uint16) (byte, error) {
	if int(address) >= Size {
		return 0, fmt.Errorf("%w: read at $%04X", ErrOutOfBounds, address)
	}
	return m.ram[address], nil
}

// WriteByte sets the byte at the given address.
func (m *Memory) WriteByte(address uint16, value byte) error {
	if int(address) >= Size {
		return fmt.Errorf("%w: write at $%04X", ErrOutOfBounds, address)
	}
	m.ram[address] = value
	return nil
}

// ReadWord returns the big-endian 16 bit word at the given address.
func (m *Memory) ReadWord(address uint16) (uint16, error) {
	if int(address)+1 >= Size {
		return 0, fmt.Errorf("%w: word read at $%04X", ErrOutOfBounds, address)
	}
	return uint16(m.ram[address])<<8 | uint16(m.ram[address+1]), nil
}

// Slice returns length bytes starting at address. The returned slice aliases
// the memory and must not be retained across writes.
func (m *Memory) Slice(address uint16, length int) ([]byte, error) {
	end := int(address) + length
	if length < 0 || end > Size {
		return nil, fmt.Errorf("%w: range $%04X-$%04X", ErrOutOfBounds, address, end-1)
	}
	return m.ram[address:end], nil
}

// CheckRange returns an error if the length bytes starting at address are not all addressable.
func (m *Memory) CheckRange(address uint16, length int) error {
	_, err := m.Slice(address, length)
	return err
}

// Dump returns a copy of the whole address space.
func (m *Memory) Dump() []byte {
	buf := make([]byte, Size)
	copy(buf, m.ram[:])
	return buf
}
