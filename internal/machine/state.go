package machine

// State is a snapshot of the machine used by debuggers and tests.
type State struct {
	V             [16]byte
	I             uint16
	PC            uint16
	Stack         []uint16
	Delay         byte
	Sound         byte
	Flags         [16]byte
	Memory        []byte
	Cycles        uint64
	WaitingForKey bool
	Halted        bool
}

// Snapshot returns a copy of the current machine state.
func (m *Machine) Snapshot() State {
	return State{
		V:             m.reg.V,
		I:             m.reg.I,
		PC:            m.reg.PC,
		Stack:         m.stack.Values(),
		Delay:         m.timers.Delay,
		Sound:         m.timers.Sound,
		Flags:         m.flags,
		Memory:        m.mem.Dump(),
		Cycles:        m.cycles,
		WaitingForKey: m.waiting,
		Halted:        m.halted,
	}
}
