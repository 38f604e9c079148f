package disasm

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/instruction"
)

// Format returns the assembly text of an instruction word. Words that do not
// decode to an instruction are rendered as a data word.
func Format(opcode uint16, superChip bool) string {
	ins, err := instruction.Decode(opcode, superChip)
	if err != nil {
		return fmt.Sprintf(".word $%04X", opcode)
	}
	return FormatInstruction(ins)
}

// FormatInstruction returns the assembly text of a decoded instruction.
func FormatInstruction(ins instruction.Instruction) string {
	name := ins.Kind.String()
	if params := formatParams(ins); params != "" {
		return name + " " + params
	}
	return name
}

// formatParams formats the operands of an instruction.
func formatParams(ins instruction.Instruction) string {
	switch ins.Kind {
	case instruction.Sys, instruction.Jump, instruction.Call:
		return formatAddress(ins.NNN)

	case instruction.JumpOffset:
		return "V0, " + formatAddress(ins.NNN)

	case instruction.SkipEqByte, instruction.SkipNeByte, instruction.LoadByte,
		instruction.AddByte, instruction.Random:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)

	case instruction.SkipEqReg, instruction.SkipNeReg, instruction.LoadReg,
		instruction.Or, instruction.And, instruction.Xor, instruction.AddReg,
		instruction.Sub, instruction.SubN:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)

	case instruction.Shr, instruction.Shl, instruction.SkipKey, instruction.SkipNotKey:
		return fmt.Sprintf("V%X", ins.X)

	case instruction.LoadIndex:
		return "I, " + formatAddress(ins.NNN)

	case instruction.Draw, instruction.DrawLarge:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)

	case instruction.ScrollDown:
		return fmt.Sprintf("$%X", ins.N)
	}

	return formatMiscParams(ins)
}

// formatMiscParams formats the operands of the FX instruction group.
func formatMiscParams(ins instruction.Instruction) string {
	switch ins.Kind {
	case instruction.LoadDelay:
		return fmt.Sprintf("V%X, DT", ins.X)
	case instruction.WaitKey:
		return fmt.Sprintf("V%X, K", ins.X)
	case instruction.SetDelay:
		return fmt.Sprintf("DT, V%X", ins.X)
	case instruction.SetSound:
		return fmt.Sprintf("ST, V%X", ins.X)
	case instruction.AddIndex:
		return fmt.Sprintf("I, V%X", ins.X)
	case instruction.LoadFont:
		return fmt.Sprintf("F, V%X", ins.X)
	case instruction.LoadBigFont:
		return fmt.Sprintf("HF, V%X", ins.X)
	case instruction.StoreBCD:
		return fmt.Sprintf("B, V%X", ins.X)
	case instruction.StoreRegs:
		return fmt.Sprintf("[I], V%X", ins.X)
	case instruction.LoadRegs:
		return fmt.Sprintf("V%X, [I]", ins.X)
	case instruction.StoreFlags:
		return fmt.Sprintf("R, V%X", ins.X)
	case instruction.LoadFlags:
		return fmt.Sprintf("V%X, R", ins.X)
	}
	return ""
}

func formatAddress(address uint16) string {
	return fmt.Sprintf("$%03X", address)
}
