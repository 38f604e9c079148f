// Package machine implements the CHIP-8 interpreter engine.
//
// A Machine exclusively owns its memory, register file, stack, timers,
// keypad and display. It has no internal concurrency: the host calls Step
// for every instruction it wants executed, TickTimers at 60 Hz, and reads
// and writes the display and keypad between those calls. A Machine must not
// be used from multiple goroutines at the same time.
package machine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/instruction"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/timer"
	"github.com/retroenv/retrogolib/log"
)

// Machine is a CHIP-8 interpreter instance.
type Machine struct {
	logger  *log.Logger
	options options.Emulator
	rng     *rand.Rand

	mem     *memory.Memory
	reg     Registers
	stack   Stack
	timers  timer.Timers
	keys    *keypad.Keypad
	display *display.Buffer

	flags   [16]byte // Super-CHIP RPL user flags, kept across resets
	rowBuf  [16]uint16
	rom     []byte
	cycles  uint64
	waiting bool // key wait instruction is repeating
	halted  bool // exit instruction was executed
}

// New returns a machine with an empty program area. The options are fixed
// for the lifetime of the machine.
func New(logger *log.Logger, opts options.Emulator) *Machine {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	m := &Machine{
		logger:  logger,
		options: opts,
		rng:     rand.New(rand.NewPCG(seed, seed>>1|1)),
		mem:     memory.New(),
		keys:    keypad.New(),
		display: display.New(),
	}
	m.Reset()
	return m
}

// Options returns the options the machine was created with.
func (m *Machine) Options() options.Emulator {
	return m.options
}

// LoadROM loads a program image at the program start address and resets the
// machine. If the image does not fit, the machine state is left unchanged.
func (m *Machine) LoadROM(rom []byte) error {
	if len(rom) > memory.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d bytes", ErrROMTooLarge, len(rom), memory.MaxProgramSize)
	}

	m.rom = append(m.rom[:0], rom...)
	m.Reset()

	m.logger.Debug("ROM loaded",
		log.Int("size", len(rom)),
		log.String("quirks", m.options.Quirks.String()))
	return nil
}

// Reset restores the power-on state and reloads the current ROM image.
// The keypad state is owned by the host and is not modified.
func (m *Machine) Reset() {
	m.mem.Clear()
	// the image size was validated by LoadROM
	_ = m.mem.LoadProgram(m.rom)

	m.reg.reset()
	m.stack.Reset()
	m.timers.Reset()
	m.display.SetHighResolution(false)

	m.cycles = 0
	m.waiting = false
	m.halted = false
}

// Step fetches, decodes and executes one instruction. On error the machine
// state is unchanged and the program counter still points to the failing
// instruction.
func (m *Machine) Step() error {
	if m.halted {
		return ErrHalted
	}

	pc := m.reg.PC
	opcode, err := m.fetch(pc)
	if err != nil {
		return err
	}

	ins, err := instruction.Decode(opcode, m.options.SuperChip)
	if err != nil {
		var unknown *instruction.UnknownOpcodeError
		if errors.As(err, &unknown) {
			unknown.Address = pc
		}
		return err
	}

	if m.options.Trace {
		m.logger.Debug("Executing instruction",
			log.Hex("address", pc),
			log.Hex("opcode", opcode),
			log.String("instruction", disasm.FormatInstruction(ins)))
	}

	action, err := m.execute(ins)
	if err != nil {
		return fmt.Errorf("executing '%s' at $%04X: %w", disasm.FormatInstruction(ins), pc, err)
	}

	switch action {
	case pcNext:
		m.reg.PC += instruction.Size
	case pcSkip:
		m.reg.PC += 2 * instruction.Size
	case pcJump, pcRepeat:
	}

	m.waiting = action == pcRepeat && ins.Kind == instruction.WaitKey
	m.cycles++
	return nil
}

// SkipInstruction advances the program counter past the current
// instruction without executing it. Hosts use it to continue after an
// unknown opcode.
func (m *Machine) SkipInstruction() {
	m.reg.PC += instruction.Size
	m.waiting = false
}

// fetch reads the big-endian instruction word at the given address.
func (m *Machine) fetch(address uint16) (uint16, error) {
	if address&1 != 0 {
		return 0, &InvalidFetchError{Address: address}
	}
	opcode, err := m.mem.ReadWord(address)
	if err != nil {
		return 0, &InvalidFetchError{Address: address}
	}
	return opcode, nil
}

// TickTimers decrements the delay and sound timers. It is called at 60 Hz
// independent of the instruction rate.
func (m *Machine) TickTimers() {
	m.timers.Tick()
}

// SetKey sets the pressed state of a keypad key 0-F.
func (m *Machine) SetKey(key int, pressed bool) error {
	return m.keys.Set(key, pressed)
}

// Display returns a read-only view of the frame buffer.
func (m *Machine) Display() display.View {
	return m.display.View()
}

// SoundActive returns whether the sound timer is running and a tone should be played.
func (m *Machine) SoundActive() bool {
	return m.timers.SoundActive()
}

// WaitingForKey returns whether the machine is repeating a key wait instruction.
func (m *Machine) WaitingForKey() bool {
	return m.waiting
}

// Halted returns whether the program executed the exit instruction.
func (m *Machine) Halted() bool {
	return m.halted
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.reg.PC
}

// I returns the index register.
func (m *Machine) I() uint16 {
	return m.reg.I
}

// Cycles returns the number of instructions executed since the last reset.
func (m *Machine) Cycles() uint64 {
	return m.cycles
}
