// Package keypad implements the 16 key hexadecimal CHIP-8 input state.
package keypad

import (
	"errors"
	"fmt"
)

// Keys is the number of keys on the keypad.
const Keys = 16

// ErrInvalidKey is returned for key indexes outside of 0-F.
var ErrInvalidKey = errors.New("invalid key")

// Keypad stores the pressed state of every key.
type Keypad struct {
	pressed [Keys]bool
}

// New returns a keypad with all keys released.
func New() *Keypad {
	return &Keypad{}
}

// Set marks a key as pressed or released.
func (k *Keypad) Set(key int, pressed bool) error {
	if key < 0 || key >= Keys {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	k.pressed[key] = pressed
	return nil
}

// Pressed returns whether the key is pressed. Only the low nibble of key is used,
// matching how the skip opcodes address keys through a register value.
func (k *Keypad) Pressed(key byte) bool {
	return k.pressed[key&0x0F]
}

// FirstPressed returns the lowest pressed key index.
func (k *Keypad) FirstPressed() (byte, bool) {
	for i, pressed := range k.pressed {
		if pressed {
			return byte(i), true
		}
	}
	return 0, false
}

// Reset releases all keys.
func (k *Keypad) Reset() {
	k.pressed = [Keys]bool{}
}
