package machine

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// program encodes instruction words as a big-endian ROM image.
func program(words ...uint16) []byte {
	rom := make([]byte, 0, 2*len(words))
	for _, w := range words {
		rom = append(rom, byte(w>>8), byte(w))
	}
	return rom
}

func newTestMachine(t *testing.T, words ...uint16) *Machine {
	t.Helper()
	return newTestMachineWithOptions(t, options.NewEmulator(), words...)
}

func newTestMachineWithOptions(t *testing.T, opts options.Emulator, words ...uint16) *Machine {
	t.Helper()
	opts.Seed = 1
	m := New(log.NewTestLogger(t), opts)
	assert.NoError(t, m.LoadROM(program(words...)))
	return m
}

func steps(t *testing.T, m *Machine, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		assert.NoError(t, m.Step())
	}
}

func litPixels(m *Machine) int {
	view := m.Display()
	count := 0
	for y := 0; y < view.Height(); y++ {
		for x := 0; x < view.Width(); x++ {
			if view.Pixel(x, y) {
				count++
			}
		}
	}
	return count
}
