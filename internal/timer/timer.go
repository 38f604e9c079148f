// Package timer implements the CHIP-8 delay and sound timers.
package timer

// Rate is the frequency in Hz that the timers are decremented with.
const Rate = 60

// Timers contains the delay and the sound counter.
type Timers struct {
	Delay byte
	Sound byte
}

// Tick decrements both counters by one, stopping at zero.
func (t *Timers) Tick() {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
}

// SoundActive returns whether a tone should be played.
func (t *Timers) SoundActive() bool {
	return t.Sound > 0
}

// Reset sets both counters to zero.
func (t *Timers) Reset() {
	t.Delay = 0
	t.Sound = 0
}
