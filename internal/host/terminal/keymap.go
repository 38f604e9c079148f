package terminal

import (
	"github.com/gdamore/tcell"
	"github.com/retroenv/retrochip8/internal/runner"
)

// keyMap maps the left side of a QWERTY keyboard to the COSMAC VIP keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r      4 5 6 D
//	a s d f  ->  7 8 9 E
//	z x c v      A 0 B F
var keyMap = map[rune]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// commandRunes maps keys to host commands.
var commandRunes = map[rune]runner.Command{
	'p': runner.CommandTogglePause,
	'n': runner.CommandStep,
}

// translateKey returns the keypad key or the host command of a key event.
func translateKey(ev *tcell.EventKey) (key int, command runner.Command, ok bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return 0, runner.CommandQuit, true
	case tcell.KeyF5:
		return 0, runner.CommandReset, true
	case tcell.KeyRune:
	default:
		return 0, 0, false
	}

	r := ev.Rune()
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	if key, ok := keyMap[r]; ok {
		return key, 0, true
	}
	if command, ok := commandRunes[r]; ok {
		return 0, command, true
	}
	return 0, 0, false
}
