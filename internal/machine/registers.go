package machine

import "github.com/retroenv/retrochip8/internal/memory"

// FlagRegister is the index of VF, which receives carry, borrow and collision flags.
const FlagRegister = 0xF

// Registers is the CHIP-8 register file.
type Registers struct {
	V  [16]byte // general purpose registers V0-VF
	I  uint16   // index register
	PC uint16   // program counter
}

func (r *Registers) reset() {
	*r = Registers{PC: memory.ProgramStart}
}

// setWithFlag writes the result to Vx and then the flag to VF, so that a
// flag instruction targeting VF keeps the flag.
func (r *Registers) setWithFlag(x, result byte, flag bool) {
	r.V[x] = result
	if flag {
		r.V[FlagRegister] = 1
	} else {
		r.V[FlagRegister] = 0
	}
}
