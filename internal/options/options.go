// Package options contains the program options.
package options

import (
	"strings"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Output string `flag:"o" usage:"output file for -disasm (default: stdout)"`
}

// Flags contains behavior options.
type Flags struct {
	ClockRate     int    `flag:"hz" usage:"instructions executed per second" default:"700"`
	Disassemble   bool   `flag:"disasm" usage:"write a disassembly listing instead of running the ROM"`
	Frames        int    `flag:"frames" usage:"run headless for the given number of frames and print the display"`
	Seed          uint64 `flag:"seed" usage:"random number generator seed (default: time based)"`
	SuperChip     bool   `flag:"schip" usage:"enable the Super-CHIP instruction extension"`
	Trace         bool   `flag:"trace" usage:"log every executed instruction (requires -debug)"`
	UnknownOpcode string `flag:"on-unknown" usage:"unknown opcode policy: halt, skip" default:"halt"`
	Debug         bool   `flag:"debug" usage:"enable debug logging"`
	Quiet         bool   `flag:"q" usage:"quiet mode"`
}

// QuirkFlags contains the interpreter compatibility options.
type QuirkFlags struct {
	Preset                string `flag:"quirks" usage:"quirk preset: chip8, schip, vip (default: detected from the file extension)"`
	ShiftUsesVX           bool   `flag:"shift-uses-vx" usage:"shift opcodes operate on Vx instead of Vy"`
	JumpWithOffsetUsesVX  bool   `flag:"jump-with-offset-uses-vx" usage:"BNNN adds Vx instead of V0"`
	NoStoreLoadIncrement  bool   `flag:"store-load-keeps-index" usage:"FX55/FX65 leave I unmodified"`
	WrapSpritesVertically bool   `flag:"wrap-sprites-vertically" usage:"sprites wrap at the bottom edge instead of being clipped"`
	LogicResetsVF         bool   `flag:"logic-resets-vf" usage:"OR, AND and XOR reset VF to 0"`
}

// OutputFlags contains disassembly listing formatting options.
type OutputFlags struct {
	NoOffsets bool `flag:"nooffsets" usage:"omit addresses and opcode bytes in listing comments"`
	ZeroBytes bool `flag:"z" usage:"include trailing zero bytes in the listing"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	QuirkFlags
	OutputFlags
}

// Unknown opcode policies.
const (
	UnknownOpcodeHalt = "halt"
	UnknownOpcodeSkip = "skip"
)

// DefaultClockRate is the default instruction rate in Hz.
const DefaultClockRate = 700

// Emulator defines options to control the emulation engine.
type Emulator struct {
	ClockRate     int    // instructions per second that the host executes
	Quirks        Quirks // legacy interpreter compatibility toggles
	Seed          uint64 // seed of the random number generator, 0 selects a time based seed
	SuperChip     bool   // decode the Super-CHIP instruction extension
	Trace         bool   // log every executed instruction
	UnknownOpcode string // policy for unknown opcodes, halt or skip
}

// NewEmulator returns a new options instance with default options.
func NewEmulator() Emulator {
	return Emulator{
		ClockRate:     DefaultClockRate,
		Quirks:        DefaultQuirks(),
		UnknownOpcode: UnknownOpcodeHalt,
	}
}

// CyclesPerFrame returns the number of instructions to execute per 60 Hz frame.
// The fractional part is returned separately as numerator of ClockRate/60.
func (e Emulator) CyclesPerFrame() (int, int) {
	if e.ClockRate <= 0 {
		return 0, 0
	}
	return e.ClockRate / 60, e.ClockRate % 60
}

// SkipUnknownOpcodes returns whether unknown opcodes are skipped instead of halting.
func (e Emulator) SkipUnknownOpcodes() bool {
	return strings.EqualFold(e.UnknownOpcode, UnknownOpcodeSkip)
}
