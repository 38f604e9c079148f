package machine

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/instruction"
	"github.com/retroenv/retrochip8/internal/memory"
)

// pcAction tells Step how to update the program counter after an instruction.
type pcAction int

const (
	pcNext   pcAction = iota // advance to the next instruction
	pcSkip                   // skip the next instruction
	pcJump                   // program counter was set by the instruction
	pcRepeat                 // execute the same instruction again on the next step
)

func skipIf(condition bool) pcAction {
	if condition {
		return pcSkip
	}
	return pcNext
}

// execute applies the effect of a decoded instruction. All checks that can
// fail happen before any state is modified.
func (m *Machine) execute(ins instruction.Instruction) (pcAction, error) {
	v := &m.reg.V
	x, y := ins.X, ins.Y

	switch ins.Kind {
	case instruction.Cls:
		m.display.Clear()

	case instruction.Ret:
		address, err := m.stack.Pop()
		if err != nil {
			return pcNext, err
		}
		m.reg.PC = address
		return pcJump, nil

	case instruction.Sys:
		// machine code routines of the original hardware are ignored

	case instruction.Jump:
		m.reg.PC = ins.NNN
		return pcJump, nil

	case instruction.Call:
		if err := m.stack.Push(m.reg.PC + instruction.Size); err != nil {
			return pcNext, err
		}
		m.reg.PC = ins.NNN
		return pcJump, nil

	case instruction.SkipEqByte:
		return skipIf(v[x] == ins.NN), nil

	case instruction.SkipNeByte:
		return skipIf(v[x] != ins.NN), nil

	case instruction.SkipEqReg:
		return skipIf(v[x] == v[y]), nil

	case instruction.SkipNeReg:
		return skipIf(v[x] != v[y]), nil

	case instruction.LoadByte:
		v[x] = ins.NN

	case instruction.AddByte:
		v[x] += ins.NN

	case instruction.LoadReg:
		v[x] = v[y]

	case instruction.Or, instruction.And, instruction.Xor:
		m.executeLogic(ins)

	case instruction.AddReg:
		sum := uint16(v[x]) + uint16(v[y])
		m.reg.setWithFlag(x, byte(sum), sum > 0xFF)

	case instruction.Sub:
		m.reg.setWithFlag(x, v[x]-v[y], v[x] >= v[y])

	case instruction.SubN:
		m.reg.setWithFlag(x, v[y]-v[x], v[y] >= v[x])

	case instruction.Shr, instruction.Shl:
		m.executeShift(ins)

	case instruction.LoadIndex:
		m.reg.I = ins.NNN

	case instruction.JumpOffset:
		offset := v[0]
		if m.options.Quirks.JumpWithOffsetUsesVX {
			offset = v[x]
		}
		m.reg.PC = ins.NNN + uint16(offset)
		return pcJump, nil

	case instruction.Random:
		v[x] = byte(m.rng.Uint32()) & ins.NN

	case instruction.Draw:
		return pcNext, m.executeDraw(x, y, int(ins.N), 8)

	case instruction.DrawLarge:
		return pcNext, m.executeDraw(x, y, 16, 16)

	case instruction.SkipKey:
		return skipIf(m.keys.Pressed(v[x])), nil

	case instruction.SkipNotKey:
		return skipIf(!m.keys.Pressed(v[x])), nil

	case instruction.LoadDelay:
		v[x] = m.timers.Delay

	case instruction.WaitKey:
		key, ok := m.keys.FirstPressed()
		if !ok {
			return pcRepeat, nil
		}
		v[x] = key

	case instruction.SetDelay:
		m.timers.Delay = v[x]

	case instruction.SetSound:
		m.timers.Sound = v[x]

	case instruction.AddIndex:
		m.reg.I += uint16(v[x])

	case instruction.LoadFont:
		m.reg.I = memory.FontAddress(v[x])

	case instruction.LoadBigFont:
		m.reg.I = memory.BigFontAddress(v[x])

	case instruction.StoreBCD:
		return pcNext, m.executeStoreBCD(v[x])

	case instruction.StoreRegs:
		return pcNext, m.executeStoreRegs(x)

	case instruction.LoadRegs:
		return pcNext, m.executeLoadRegs(x)

	case instruction.ScrollDown:
		m.display.ScrollDown(int(ins.N))

	case instruction.ScrollRight:
		m.display.ScrollRight(4)

	case instruction.ScrollLeft:
		m.display.ScrollLeft(4)

	case instruction.Exit:
		m.halted = true
		return pcRepeat, nil

	case instruction.LowRes:
		m.display.SetHighResolution(false)

	case instruction.HighRes:
		m.display.SetHighResolution(true)

	case instruction.StoreFlags:
		copy(m.flags[:x+1], v[:x+1])

	case instruction.LoadFlags:
		copy(v[:x+1], m.flags[:x+1])

	default:
		return pcNext, &instruction.UnknownOpcodeError{Opcode: ins.Opcode, Address: m.reg.PC}
	}

	return pcNext, nil
}

func (m *Machine) executeLogic(ins instruction.Instruction) {
	v := &m.reg.V
	switch ins.Kind {
	case instruction.Or:
		v[ins.X] |= v[ins.Y]
	case instruction.And:
		v[ins.X] &= v[ins.Y]
	case instruction.Xor:
		v[ins.X] ^= v[ins.Y]
	}
	if m.options.Quirks.LogicResetsVF {
		v[FlagRegister] = 0
	}
}

// executeShift shifts by exactly one bit, VF receives the bit shifted out.
func (m *Machine) executeShift(ins instruction.Instruction) {
	source := m.reg.V[ins.X]
	if m.options.Quirks.ShiftUsesVY {
		source = m.reg.V[ins.Y]
	}

	if ins.Kind == instruction.Shr {
		m.reg.setWithFlag(ins.X, source>>1, source&0x01 != 0)
	} else {
		m.reg.setWithFlag(ins.X, source<<1, source&0x80 != 0)
	}
}

// executeDraw draws a sprite of the given number of rows, each row is
// width pixels wide and stored in width/8 bytes starting at I.
func (m *Machine) executeDraw(x, y byte, rows, width int) error {
	bytesPerRow := width / 8
	data, err := m.mem.Slice(m.reg.I, rows*bytesPerRow)
	if err != nil {
		return err
	}

	sprite := m.rowBuf[:rows]
	for row := range sprite {
		if bytesPerRow == 2 {
			sprite[row] = uint16(data[2*row])<<8 | uint16(data[2*row+1])
		} else {
			sprite[row] = uint16(data[row])
		}
	}

	collision := m.display.Draw(int(m.reg.V[x]), int(m.reg.V[y]), sprite, width,
		m.options.Quirks.ClipSpritesVertically)

	if collision {
		m.reg.V[FlagRegister] = 1
	} else {
		m.reg.V[FlagRegister] = 0
	}
	return nil
}

func (m *Machine) executeStoreBCD(value byte) error {
	if err := m.checkWritable(m.reg.I, 3); err != nil {
		return err
	}
	digits, _ := m.mem.Slice(m.reg.I, 3)
	digits[0] = value / 100
	digits[1] = value / 10 % 10
	digits[2] = value % 10
	return nil
}

func (m *Machine) executeStoreRegs(x byte) error {
	count := int(x) + 1
	if err := m.checkWritable(m.reg.I, count); err != nil {
		return err
	}
	dst, _ := m.mem.Slice(m.reg.I, count)
	copy(dst, m.reg.V[:count])
	if m.options.Quirks.StoreLoadIncrementsIndex {
		m.reg.I += uint16(count)
	}
	return nil
}

func (m *Machine) executeLoadRegs(x byte) error {
	count := int(x) + 1
	src, err := m.mem.Slice(m.reg.I, count)
	if err != nil {
		return err
	}
	copy(m.reg.V[:count], src)
	if m.options.Quirks.StoreLoadIncrementsIndex {
		m.reg.I += uint16(count)
	}
	return nil
}

// checkWritable verifies that the whole range can be written by a program.
func (m *Machine) checkWritable(address uint16, length int) error {
	if err := m.mem.CheckRange(address, length); err != nil {
		return err
	}
	if address < memory.ProgramStart {
		return fmt.Errorf("%w: $%04X", ErrReservedAddress, address)
	}
	return nil
}
