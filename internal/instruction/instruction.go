// Package instruction decodes CHIP-8 instruction words into a closed set of instruction forms.
package instruction

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Size is the size of every CHIP-8 instruction in bytes.
const Size = 2

// Kind identifies an instruction form.
type Kind int

// Instruction forms, the comment lists the encoding.
const (
	Invalid Kind = iota

	Cls          // 00E0
	Ret          // 00EE
	Sys          // 0NNN
	Jump         // 1NNN
	Call         // 2NNN
	SkipEqByte   // 3XNN
	SkipNeByte   // 4XNN
	SkipEqReg    // 5XY0
	LoadByte     // 6XNN
	AddByte      // 7XNN
	LoadReg      // 8XY0
	Or           // 8XY1
	And          // 8XY2
	Xor          // 8XY3
	AddReg       // 8XY4
	Sub          // 8XY5
	Shr          // 8XY6
	SubN         // 8XY7
	Shl          // 8XYE
	SkipNeReg    // 9XY0
	LoadIndex    // ANNN
	JumpOffset   // BNNN
	Random       // CXNN
	Draw         // DXYN
	SkipKey      // EX9E
	SkipNotKey   // EXA1
	LoadDelay    // FX07
	WaitKey      // FX0A
	SetDelay     // FX15
	SetSound     // FX18
	AddIndex     // FX1E
	LoadFont     // FX29
	StoreBCD     // FX33
	StoreRegs    // FX55
	LoadRegs     // FX65
	ScrollDown   // 00CN, Super-CHIP
	ScrollRight  // 00FB, Super-CHIP
	ScrollLeft   // 00FC, Super-CHIP
	Exit         // 00FD, Super-CHIP
	LowRes       // 00FE, Super-CHIP
	HighRes      // 00FF, Super-CHIP
	DrawLarge    // DXY0, Super-CHIP
	LoadBigFont  // FX30, Super-CHIP
	StoreFlags   // FX75, Super-CHIP
	LoadFlags    // FX85, Super-CHIP
	kindCount
)

var kindNames = [kindCount]string{
	Invalid:     "invalid",
	Cls:         "cls",
	Ret:         "ret",
	Sys:         "sys",
	Jump:        "jp",
	Call:        "call",
	SkipEqByte:  "se",
	SkipNeByte:  "sne",
	SkipEqReg:   "se",
	LoadByte:    "ld",
	AddByte:     "add",
	LoadReg:     "ld",
	Or:          "or",
	And:         "and",
	Xor:         "xor",
	AddReg:      "add",
	Sub:         "sub",
	Shr:         "shr",
	SubN:        "subn",
	Shl:         "shl",
	SkipNeReg:   "sne",
	LoadIndex:   "ld",
	JumpOffset:  "jp",
	Random:      "rnd",
	Draw:        "drw",
	SkipKey:     "skp",
	SkipNotKey:  "sknp",
	LoadDelay:   "ld",
	WaitKey:     "ld",
	SetDelay:    "ld",
	SetSound:    "ld",
	AddIndex:    "add",
	LoadFont:    "ld",
	StoreBCD:    "ld",
	StoreRegs:   "ld",
	LoadRegs:    "ld",
	ScrollDown:  "scd",
	ScrollRight: "scr",
	ScrollLeft:  "scl",
	Exit:        "exit",
	LowRes:      "low",
	HighRes:     "high",
	DrawLarge:   "drw",
	LoadBigFont: "ld",
	StoreFlags:  "ld",
	LoadFlags:   "ld",
}

// String returns the mnemonic of the instruction form.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// SuperChip returns whether the form belongs to the Super-CHIP extension.
func (k Kind) SuperChip() bool {
	return k >= ScrollDown && k < kindCount
}

// Instruction is a decoded instruction word with its operands extracted.
type Instruction struct {
	Kind   Kind
	Opcode uint16 // raw instruction word
	X      byte   // register index from bits 8-11
	Y      byte   // register index from bits 4-7
	N      byte   // nibble from bits 0-3
	NN     byte   // byte from bits 0-7
	NNN    uint16 // address from bits 0-11
}

// ErrUnknownOpcode is matched by errors returned for unrecognized instruction words.
var ErrUnknownOpcode = errors.New("unknown opcode")

// UnknownOpcodeError describes an instruction word that is not part of the instruction set.
type UnknownOpcodeError struct {
	Opcode  uint16
	Address uint16 // address the word was fetched from, set by the executing machine
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode $%04X at $%04X", e.Opcode, e.Address)
}

// Is reports whether the error matches ErrUnknownOpcode.
func (e *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}

// Decode classifies an instruction word. The word is resolved through the
// reference opcode table, the Super-CHIP forms are only recognized if
// superChip is set.
func Decode(opcode uint16, superChip bool) (Instruction, error) {
	ins := Instruction{
		Opcode: opcode,
		X:      byte(opcode >> 8 & 0x0F),
		Y:      byte(opcode >> 4 & 0x0F),
		N:      byte(opcode & 0x0F),
		NN:     byte(opcode),
		NNN:    opcode & 0x0FFF,
	}

	var ok bool
	if superChip {
		ins.Kind, ok = lookupSuperChip(opcode)
	}
	if !ok {
		ins.Kind = lookupKind(opcode)
	}
	if ins.Kind == Invalid {
		return Instruction{}, &UnknownOpcodeError{Opcode: opcode}
	}
	return ins, nil
}

// opcodeForm identifies an entry of the reference opcode table by its
// instruction and the fixed bits of its encoding.
type opcodeForm struct {
	ins   *chip8.Instruction
	value uint16
}

var opcodeKinds = map[opcodeForm]Kind{
	{chip8.Cls, 0x00E0}:  Cls,
	{chip8.Ret, 0x00EE}:  Ret,
	{chip8.Jp, 0x1000}:   Jump,
	{chip8.Call, 0x2000}: Call,
	{chip8.Se, 0x3000}:   SkipEqByte,
	{chip8.Sne, 0x4000}:  SkipNeByte,
	{chip8.Se, 0x5000}:   SkipEqReg,
	{chip8.Ld, 0x6000}:   LoadByte,
	{chip8.Add, 0x7000}:  AddByte,
	{chip8.Ld, 0x8000}:   LoadReg,
	{chip8.Or, 0x8001}:   Or,
	{chip8.And, 0x8002}:  And,
	{chip8.Xor, 0x8003}:  Xor,
	{chip8.Add, 0x8004}:  AddReg,
	{chip8.Sub, 0x8005}:  Sub,
	{chip8.Shr, 0x8006}:  Shr,
	{chip8.Subn, 0x8007}: SubN,
	{chip8.Shl, 0x800E}:  Shl,
	{chip8.Sne, 0x9000}:  SkipNeReg,
	{chip8.Ld, 0xA000}:   LoadIndex,
	{chip8.Jp, 0xB000}:   JumpOffset,
	{chip8.Rnd, 0xC000}:  Random,
	{chip8.Drw, 0xD000}:  Draw,
	{chip8.Skp, 0xE09E}:  SkipKey,
	{chip8.Sknp, 0xE0A1}: SkipNotKey,
	{chip8.Ld, 0xF007}:   LoadDelay,
	{chip8.Ld, 0xF00A}:   WaitKey,
	{chip8.Ld, 0xF015}:   SetDelay,
	{chip8.Ld, 0xF018}:   SetSound,
	{chip8.Add, 0xF01E}:  AddIndex,
	{chip8.Ld, 0xF029}:   LoadFont,
	{chip8.Ld, 0xF033}:   StoreBCD,
	{chip8.Ld, 0xF055}:   StoreRegs,
	{chip8.Ld, 0xF065}:   LoadRegs,
}

// lookupKind resolves a word of the classic instruction set. Words of the
// 0NNN group without a table entry are machine code calls.
func lookupKind(word uint16) Kind {
	firstNibble := (word & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&word != op.Info.Value {
			continue
		}
		if kind, ok := opcodeKinds[opcodeForm{ins: op.Instruction, value: op.Info.Value}]; ok {
			return kind
		}
		break
	}

	if firstNibble == 0 {
		return Sys
	}
	return Invalid
}

// superChipForms lists the Super-CHIP encodings that the reference table
// does not contain. They take precedence over the classic forms.
var superChipForms = []struct {
	mask  uint16
	value uint16
	kind  Kind
}{
	{0xFFF0, 0x00C0, ScrollDown},
	{0xFFFF, 0x00FB, ScrollRight},
	{0xFFFF, 0x00FC, ScrollLeft},
	{0xFFFF, 0x00FD, Exit},
	{0xFFFF, 0x00FE, LowRes},
	{0xFFFF, 0x00FF, HighRes},
	{0xF00F, 0xD000, DrawLarge},
	{0xF0FF, 0xF030, LoadBigFont},
	{0xF0FF, 0xF075, StoreFlags},
	{0xF0FF, 0xF085, LoadFlags},
}

func lookupSuperChip(word uint16) (Kind, bool) {
	for _, form := range superChipForms {
		if form.mask&word == form.value {
			return form.kind, true
		}
	}
	return Invalid, false
}
