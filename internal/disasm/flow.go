package disasm

import (
	"github.com/retroenv/retrochip8/internal/instruction"
)

// flowKind is the effect of an instruction on the execution flow.
type flowKind int

const (
	flowNext     flowKind = iota // continue with the next instruction
	flowJump                     // continue at the target only
	flowCall                     // continue at the target and after the call
	flowSkip                     // continue at the next or the one after it
	flowData                     // continue with the next instruction, target is data
	flowComputed                 // target is only known at runtime
	flowEnd                      // execution does not continue
)

// classify returns the control flow effect of a decoded instruction.
func classify(ins instruction.Instruction) flowKind {
	switch ins.Kind {
	case instruction.Jump:
		return flowJump
	case instruction.Call:
		return flowCall
	case instruction.SkipEqByte, instruction.SkipNeByte, instruction.SkipEqReg,
		instruction.SkipNeReg, instruction.SkipKey, instruction.SkipNotKey:
		return flowSkip
	case instruction.Ret, instruction.Exit:
		return flowEnd
	case instruction.JumpOffset:
		return flowComputed
	case instruction.LoadIndex:
		return flowData
	default:
		return flowNext
	}
}
