package machine

import (
	"errors"
	"testing"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/instruction"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestMachine_LoadROM(t *testing.T) {
	m := newTestMachine(t, 0x6A42, 0x1200)

	assert.Equal(t, uint16(memory.ProgramStart), m.PC())
	assert.NoError(t, m.Step())
	assert.Equal(t, byte(0x42), m.reg.V[0xA])
	assert.Equal(t, uint16(0x202), m.PC())
}

func TestMachine_LoadROMTooLarge(t *testing.T) {
	m := newTestMachine(t, 0x6A42)
	steps(t, m, 1)

	err := m.LoadROM(make([]byte, memory.MaxProgramSize+1))
	assert.True(t, errors.Is(err, ErrROMTooLarge))

	// previous state is kept
	assert.Equal(t, uint16(0x202), m.PC())
	assert.Equal(t, byte(0x42), m.reg.V[0xA])

	assert.NoError(t, m.LoadROM(make([]byte, memory.MaxProgramSize)))
}

func TestMachine_LoadROMResets(t *testing.T) {
	m := newTestMachine(t, 0x6A42, 0x630A, 0xF315, 0xF318, 0x2208, 0x0000, 0x0000, 0x00E0)
	m.display.Draw(0, 0, []uint16{0xFF}, 8, true)
	steps(t, m, 5)

	assert.NoError(t, m.LoadROM(program(0x00E0)))

	state := m.Snapshot()
	assert.Equal(t, [16]byte{}, state.V)
	assert.Equal(t, uint16(memory.ProgramStart), state.PC)
	assert.Len(t, state.Stack, 0)
	assert.Equal(t, byte(0), state.Delay)
	assert.Equal(t, byte(0), state.Sound)
	assert.Equal(t, 0, litPixels(m))
	assert.Equal(t, byte(0x00), state.Memory[memory.ProgramStart+2])
}

func TestMachine_Reset(t *testing.T) {
	m := newTestMachine(t, 0x6A42, 0xA300, 0xFA33)
	steps(t, m, 3)

	m.Reset()

	assert.Equal(t, uint16(memory.ProgramStart), m.PC())
	assert.Equal(t, uint64(0), m.Cycles())
	b, err := m.mem.ReadByte(memory.ProgramStart)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x6A), b)
	b, err = m.mem.ReadByte(0x300)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), b)
}

func TestMachine_AddRegisters(t *testing.T) {
	tests := []struct {
		name   string
		x, y   byte
		result byte
		flag   byte
	}{
		{"overflow", 250, 10, 4, 1},
		{"no overflow", 10, 10, 20, 0},
		{"exact limit", 255, 0, 255, 0},
		{"maximum", 255, 255, 254, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, 0x8014)
			m.reg.V[0] = tt.x
			m.reg.V[1] = tt.y

			steps(t, m, 1)
			assert.Equal(t, tt.result, m.reg.V[0])
			assert.Equal(t, tt.flag, m.reg.V[FlagRegister])
		})
	}
}

func TestMachine_SubRegisters(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		x, y   byte
		result byte
		flag   byte
	}{
		{"sub with borrow", 0x8015, 5, 10, 251, 0},
		{"sub without borrow", 0x8015, 10, 5, 5, 1},
		{"sub equal", 0x8015, 7, 7, 0, 1},
		{"subn without borrow", 0x8017, 5, 10, 5, 1},
		{"subn with borrow", 0x8017, 10, 5, 251, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.opcode)
			m.reg.V[0] = tt.x
			m.reg.V[1] = tt.y

			steps(t, m, 1)
			assert.Equal(t, tt.result, m.reg.V[0])
			assert.Equal(t, tt.flag, m.reg.V[FlagRegister])
		})
	}
}

func TestMachine_FlagRegisterAsTarget(t *testing.T) {
	m := newTestMachine(t, 0x8F04)
	m.reg.V[0xF] = 200
	m.reg.V[0x0] = 100

	steps(t, m, 1)
	assert.Equal(t, byte(1), m.reg.V[FlagRegister])
}

func TestMachine_AddByteHasNoFlag(t *testing.T) {
	m := newTestMachine(t, 0x70FF)
	m.reg.V[0] = 2
	m.reg.V[FlagRegister] = 7

	steps(t, m, 1)
	assert.Equal(t, byte(1), m.reg.V[0])
	assert.Equal(t, byte(7), m.reg.V[FlagRegister])
}

func TestMachine_Logic(t *testing.T) {
	tests := []struct {
		opcode uint16
		result byte
	}{
		{0x8011, 0xFC},
		{0x8012, 0x30},
		{0x8013, 0xCC},
	}

	for _, tt := range tests {
		m := newTestMachine(t, tt.opcode)
		m.reg.V[0] = 0xF0
		m.reg.V[1] = 0x3C
		m.reg.V[FlagRegister] = 5

		steps(t, m, 1)
		assert.Equal(t, tt.result, m.reg.V[0], "opcode %04X", tt.opcode)
		assert.Equal(t, byte(5), m.reg.V[FlagRegister])

		opts := options.NewEmulator()
		opts.Quirks.LogicResetsVF = true
		m = newTestMachineWithOptions(t, opts, tt.opcode)
		m.reg.V[FlagRegister] = 5
		steps(t, m, 1)
		assert.Equal(t, byte(0), m.reg.V[FlagRegister])
	}
}

func TestMachine_Shift(t *testing.T) {
	tests := []struct {
		name        string
		opcode      uint16
		shiftUsesVY bool
		result      byte
		flag        byte
	}{
		{"shr vy", 0x8016, true, 0x40, 1},
		{"shr vx", 0x8016, false, 0x02, 0},
		{"shl vy", 0x801E, true, 0x02, 1},
		{"shl vx", 0x801E, false, 0x08, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.NewEmulator()
			opts.Quirks.ShiftUsesVY = tt.shiftUsesVY
			m := newTestMachineWithOptions(t, opts, tt.opcode)
			m.reg.V[0] = 0x04
			m.reg.V[1] = 0x81

			steps(t, m, 1)
			assert.Equal(t, tt.result, m.reg.V[0])
			assert.Equal(t, tt.flag, m.reg.V[FlagRegister])
		})
	}
}

func TestMachine_Skip(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		skip   bool
	}{
		{"se byte equal", 0x3005, true},
		{"se byte not equal", 0x3006, false},
		{"sne byte equal", 0x4005, false},
		{"sne byte not equal", 0x4006, true},
		{"se reg equal", 0x5010, true},
		{"se reg not equal", 0x5020, false},
		{"sne reg equal", 0x9010, false},
		{"sne reg not equal", 0x9020, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.opcode)
			m.reg.V[0] = 5
			m.reg.V[1] = 5
			m.reg.V[2] = 6

			steps(t, m, 1)
			if tt.skip {
				assert.Equal(t, uint16(0x204), m.PC())
			} else {
				assert.Equal(t, uint16(0x202), m.PC())
			}
		})
	}
}

func TestMachine_CallReturn(t *testing.T) {
	m := newTestMachine(t, 0x2206, 0x0000, 0x0000, 0x00EE)

	steps(t, m, 1)
	assert.Equal(t, uint16(0x206), m.PC())
	assert.Equal(t, []uint16{0x202}, m.Snapshot().Stack)

	steps(t, m, 1)
	assert.Equal(t, uint16(0x202), m.PC())
	assert.Len(t, m.Snapshot().Stack, 0)
}

func TestMachine_StackOverflow(t *testing.T) {
	m := newTestMachine(t, 0x2200)
	steps(t, m, StackSize)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint16(0x200), m.PC())
	assert.Len(t, m.Snapshot().Stack, StackSize)
}

func TestMachine_StackUnderflow(t *testing.T) {
	m := newTestMachine(t, 0x00EE)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint16(0x200), m.PC())
}

func TestMachine_Jump(t *testing.T) {
	m := newTestMachine(t, 0x1ABC)
	steps(t, m, 1)
	assert.Equal(t, uint16(0xABC), m.PC())
}

func TestMachine_JumpWithOffset(t *testing.T) {
	tests := []struct {
		name     string
		usesVX   bool
		expected uint16
	}{
		{"v0", false, 0x312},
		{"vx", true, 0x320},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.NewEmulator()
			opts.Quirks.JumpWithOffsetUsesVX = tt.usesVX
			m := newTestMachineWithOptions(t, opts, 0xB310)
			m.reg.V[0] = 0x02
			m.reg.V[3] = 0x10

			steps(t, m, 1)
			assert.Equal(t, tt.expected, m.PC())
		})
	}
}

func TestMachine_InvalidFetch(t *testing.T) {
	m := newTestMachine(t, 0x1FFE)
	steps(t, m, 2) // jump, then sys at 0xFFE
	assert.Equal(t, uint16(memory.Size), m.PC())

	err := m.Step()
	assert.True(t, errors.Is(err, ErrInvalidFetch))
	var fetchErr *InvalidFetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, uint16(memory.Size), fetchErr.Address)

	m = newTestMachine(t, 0x1201)
	steps(t, m, 1)
	err = m.Step()
	assert.True(t, errors.Is(err, ErrInvalidFetch))
	assert.Contains(t, err.Error(), "unaligned")
}

func TestMachine_UnknownOpcode(t *testing.T) {
	m := newTestMachine(t, 0x6001, 0xFFFF, 0x6002)
	steps(t, m, 1)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
	var unknown *instruction.UnknownOpcodeError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, uint16(0xFFFF), unknown.Opcode)
	assert.Equal(t, uint16(0x202), unknown.Address)
	assert.Equal(t, uint16(0x202), m.PC())

	m.SkipInstruction()
	steps(t, m, 1)
	assert.Equal(t, byte(2), m.reg.V[0])
}

func TestMachine_DrawTwiceCancels(t *testing.T) {
	m := newTestMachine(t, 0x6000, 0xF029, 0xD015, 0xD015)
	steps(t, m, 3)

	assert.Equal(t, byte(0), m.reg.V[FlagRegister])
	assert.Equal(t, 14, litPixels(m))
	assert.True(t, m.Display().Pixel(0, 0))

	steps(t, m, 1)
	assert.Equal(t, byte(1), m.reg.V[FlagRegister])
	assert.Equal(t, 0, litPixels(m))
}

func TestMachine_ClearScreen(t *testing.T) {
	m := newTestMachine(t, 0xF029, 0xD015, 0x00E0)
	steps(t, m, 3)

	view := m.Display()
	for y := 0; y < view.Height(); y++ {
		for x := 0; x < view.Width(); x++ {
			assert.False(t, view.Pixel(x, y))
		}
	}
}

func TestMachine_DrawOutOfBounds(t *testing.T) {
	m := newTestMachine(t, 0xAFFE, 0xD005)
	steps(t, m, 1)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.Equal(t, uint16(0x202), m.PC())
}

func TestMachine_KeyWait(t *testing.T) {
	m := newTestMachine(t, 0xF30A)

	for i := 0; i < 5; i++ {
		assert.NoError(t, m.Step())
		assert.Equal(t, uint16(0x200), m.PC())
		assert.True(t, m.WaitingForKey())
	}

	assert.NoError(t, m.SetKey(7, true))
	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x202), m.PC())
	assert.Equal(t, byte(7), m.reg.V[3])
	assert.False(t, m.WaitingForKey())
}

func TestMachine_SkipKey(t *testing.T) {
	m := newTestMachine(t, 0xE09E, 0x0000, 0xE0A1)
	m.reg.V[0] = 0xC
	assert.NoError(t, m.SetKey(0xC, true))

	steps(t, m, 1)
	assert.Equal(t, uint16(0x204), m.PC())

	steps(t, m, 1)
	assert.Equal(t, uint16(0x206), m.PC())

	assert.Error(t, m.SetKey(16, true))
}

func TestMachine_Timers(t *testing.T) {
	m := newTestMachine(t, 0x603C, 0xF015, 0x6105, 0xF118, 0xF207)
	steps(t, m, 4)
	assert.True(t, m.SoundActive())

	for i := 0; i < 5; i++ {
		m.TickTimers()
	}
	assert.False(t, m.SoundActive())

	for i := 0; i < 55; i++ {
		m.TickTimers()
	}
	steps(t, m, 1)
	assert.Equal(t, byte(0), m.reg.V[2])

	m.TickTimers()
	assert.Equal(t, byte(0), m.Snapshot().Delay)
}

func TestMachine_TimersIndependentOfSteps(t *testing.T) {
	m := newTestMachine(t, 0x603C, 0xF015, 0x1204)
	steps(t, m, 100)
	assert.Equal(t, byte(60), m.Snapshot().Delay)

	m.TickTimers()
	assert.Equal(t, byte(59), m.Snapshot().Delay)
}

func TestMachine_Index(t *testing.T) {
	m := newTestMachine(t, 0xA300, 0x6010, 0xF01E, 0x600A, 0xF029)

	steps(t, m, 3)
	assert.Equal(t, uint16(0x310), m.reg.I)

	steps(t, m, 2)
	assert.Equal(t, memory.FontAddress(0xA), m.reg.I)
}

func TestMachine_StoreBCD(t *testing.T) {
	m := newTestMachine(t, 0x60FE, 0xA300, 0xF033)
	steps(t, m, 3)

	digits, err := m.mem.Slice(0x300, 3)
	assert.NoError(t, err)
	assert.Equal(t, []byte{2, 5, 4}, digits)
	assert.Equal(t, uint16(0x300), m.reg.I)
}

func TestMachine_ReservedWrite(t *testing.T) {
	m := newTestMachine(t, 0xA100, 0xF033)
	steps(t, m, 1)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrReservedAddress))
	assert.Equal(t, uint16(0x202), m.PC())
}

func TestMachine_StoreLoadRegisters(t *testing.T) {
	tests := []struct {
		name       string
		increments bool
		index      uint16
	}{
		{"increments index", true, 0x304},
		{"keeps index", false, 0x300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.NewEmulator()
			opts.Quirks.StoreLoadIncrementsIndex = tt.increments
			m := newTestMachineWithOptions(t, opts, 0xA300, 0xF355, 0xA300, 0xF265)
			m.reg.V = [16]byte{1, 2, 3, 4, 5}

			steps(t, m, 2)
			data, err := m.mem.Slice(0x300, 5)
			assert.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3, 4, 0}, data)
			assert.Equal(t, tt.index, m.reg.I)

			m.reg.V = [16]byte{}
			steps(t, m, 2)
			assert.Equal(t, [16]byte{1, 2, 3}, m.reg.V)
		})
	}
}

func TestMachine_StoreRegistersOutOfBounds(t *testing.T) {
	m := newTestMachine(t, 0xAFFE, 0xF555)
	steps(t, m, 1)
	m.reg.V[0] = 0x99

	err := m.Step()
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	b, readErr := m.mem.ReadByte(0xFFE)
	assert.NoError(t, readErr)
	assert.Equal(t, byte(0), b)
	assert.Equal(t, uint16(0xFFE), m.reg.I)
}

func TestMachine_Random(t *testing.T) {
	m := newTestMachine(t, 0xC000, 0xC10F)
	m.reg.V[0] = 0xFF

	steps(t, m, 2)
	assert.Equal(t, byte(0), m.reg.V[0])
	assert.True(t, m.reg.V[1] <= 0x0F)
}

func TestMachine_SuperChip(t *testing.T) {
	opts := options.NewEmulator()
	opts.SuperChip = true
	m := newTestMachineWithOptions(t, opts, 0x00FF, 0xA050, 0xD010, 0x00FE, 0x00FD)

	steps(t, m, 1)
	assert.True(t, m.Display().HighResolution())
	assert.Equal(t, 128, m.Display().Width())

	steps(t, m, 2)
	assert.True(t, m.Display().Pixel(0, 0))

	steps(t, m, 1)
	assert.False(t, m.Display().HighResolution())

	steps(t, m, 1)
	assert.True(t, m.Halted())
	assert.True(t, errors.Is(m.Step(), ErrHalted))
	assert.Equal(t, uint16(0x208), m.PC())

	m.Reset()
	assert.False(t, m.Halted())
}

func TestMachine_SuperChipDisabled(t *testing.T) {
	m := newTestMachine(t, 0x00FF, 0xF130)

	steps(t, m, 1)
	assert.False(t, m.Display().HighResolution())

	err := m.Step()
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
}

func TestMachine_Flags(t *testing.T) {
	opts := options.NewEmulator()
	opts.SuperChip = true
	m := newTestMachineWithOptions(t, opts, 0xF275, 0xF285)
	m.reg.V = [16]byte{7, 8, 9, 10}

	steps(t, m, 1)
	m.reg.V = [16]byte{}
	steps(t, m, 1)
	assert.Equal(t, [16]byte{7, 8, 9}, m.reg.V)

	m.Reset()
	assert.Equal(t, byte(7), m.Snapshot().Flags[0])
}

func TestMachine_Independent(t *testing.T) {
	a := newTestMachine(t, 0x6001)
	b := newTestMachine(t, 0x6002)

	steps(t, a, 1)
	assert.Equal(t, byte(1), a.reg.V[0])
	assert.Equal(t, byte(0), b.reg.V[0])
	assert.Equal(t, uint16(0x200), b.PC())
}

func TestMachine_Trace(t *testing.T) {
	opts := options.NewEmulator()
	opts.Trace = true
	m := New(log.NewTestLogger(t), opts)
	assert.NoError(t, m.LoadROM(program(0x00E0)))
	assert.NoError(t, m.Step())
	assert.Equal(t, uint64(1), m.Cycles())
}

func TestMachine_DrawBottomEdge(t *testing.T) {
	tests := []struct {
		name   string
		clip   bool
		origin bool
	}{
		{"clip", true, false},
		{"wrap", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.NewEmulator()
			opts.Quirks.ClipSpritesVertically = tt.clip
			m := newTestMachineWithOptions(t, opts, 0x6000, 0x611F, 0xF029, 0xD015)
			steps(t, m, 4)

			assert.True(t, m.Display().Pixel(0, 31))
			assert.Equal(t, tt.origin, m.Display().Pixel(0, 0))
			assert.Equal(t, byte(0), m.reg.V[FlagRegister])
		})
	}
}

func TestMachine_DisplayIsReadOnly(t *testing.T) {
	m := newTestMachine(t, 0x00E0)

	_, ok := m.Display().(*display.Buffer)
	assert.False(t, ok)
}
