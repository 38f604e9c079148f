package disasm

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/instruction"
	"github.com/retroenv/retrogolib/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		opcode    uint16
		superChip bool
		expected  flowKind
	}{
		{0x1234, false, flowJump},
		{0x2345, false, flowCall},
		{0x3A12, false, flowSkip},
		{0x4A12, false, flowSkip},
		{0x5AB0, false, flowSkip},
		{0x9AB0, false, flowSkip},
		{0xE19E, false, flowSkip},
		{0xE1A1, false, flowSkip},
		{0x00EE, false, flowEnd},
		{0x00FD, true, flowEnd},
		{0x00FD, false, flowNext},
		{0xB123, false, flowComputed},
		{0xA300, false, flowData},
		{0x6A12, false, flowNext},
		{0xD125, false, flowNext},
	}

	for _, tt := range tests {
		ins, err := instruction.Decode(tt.opcode, tt.superChip)
		assert.NoError(t, err)
		assert.Equal(t, tt.expected, classify(ins), "opcode %04X", tt.opcode)
	}
}
