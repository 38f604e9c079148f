// Package terminal implements a CHIP-8 frontend that renders into a text
// terminal using tcell.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// DefaultHoldTime is the duration a key counts as pressed after its last key
// event. Terminals only report key presses and repeats, no releases.
const DefaultHoldTime = 250 * time.Millisecond

const eventQueueSize = 64

var _ runner.Frontend = (*Host)(nil)

var (
	pixelStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack)
)

// Host is a terminal frontend. Two display rows are rendered per character
// cell using half block characters.
type Host struct {
	logger *log.Logger
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}

	holdTime time.Duration
	released [keypad.Keys]time.Time // release deadline of pressed keys
	now      func() time.Time
}

// NewScreen creates and initializes a terminal screen.
func NewScreen() (tcell.Screen, error) {
	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}

	screen.HideCursor()
	screen.DisableMouse()
	screen.Clear()
	return screen, nil
}

// New returns a frontend that uses the initialized screen.
func New(logger *log.Logger, screen tcell.Screen) *Host {
	return &Host{
		logger:   logger,
		screen:   screen,
		events:   make(chan tcell.Event, eventQueueSize),
		done:     make(chan struct{}),
		holdTime: DefaultHoldTime,
		now:      time.Now,
	}
}

// Start reads screen events in the background until Close is called.
func (h *Host) Start() {
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return // screen was finalized
			}
			select {
			case h.events <- ev:
			case <-h.done:
				return
			}
		}
	}()
}

// Close restores the terminal.
func (h *Host) Close() {
	close(h.done)
	h.screen.Fini()
}

// Poll handles the queued screen events.
func (h *Host) Poll(keys runner.KeySetter) ([]runner.Command, error) {
	var commands []runner.Command
	now := h.now()

	for {
		var ev tcell.Event
		select {
		case ev = <-h.events:
		default:
			return commands, h.releaseKeys(keys, now)
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			key, command, ok := translateKey(ev)
			switch {
			case !ok:
			case command != 0:
				commands = append(commands, command)
			default:
				if err := keys.SetKey(key, true); err != nil {
					return nil, err
				}
				h.released[key] = now.Add(h.holdTime)
			}

		case *tcell.EventResize:
			h.screen.Sync()
		}
	}
}

// releaseKeys releases all keys whose hold time expired.
func (h *Host) releaseKeys(keys runner.KeySetter, now time.Time) error {
	for key, deadline := range h.released {
		if deadline.IsZero() || now.Before(deadline) {
			continue
		}
		if err := keys.SetKey(key, false); err != nil {
			return err
		}
		h.released[key] = time.Time{}
	}
	return nil
}

// Render draws the display and the status line.
func (h *Host) Render(view display.View, status runner.Status) error {
	width, height := view.Width(), view.Height()

	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			h.screen.SetContent(x, y/2, halfBlock(view.Pixel(x, y), view.Pixel(x, y+1)), nil, pixelStyle)
		}
	}

	statusRow := (height + 1) / 2
	h.clearRow(statusRow, display.HighWidth)
	h.drawText(0, statusRow, statusLine(status))

	// the extended mode uses more rows, clear them after switching back
	for row := statusRow + 1; row <= display.HighHeight/2; row++ {
		h.clearRow(row, display.HighWidth)
	}

	h.screen.Show()
	return nil
}

func (h *Host) clearRow(y, width int) {
	for x := 0; x < width; x++ {
		h.screen.SetContent(x, y, ' ', nil, statusStyle)
	}
}

func (h *Host) drawText(x, y int, text string) {
	for _, r := range text {
		h.screen.SetContent(x, y, r, nil, statusStyle)
		x++
	}
}

// halfBlock returns the character that shows the two vertically stacked pixels.
func halfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	default:
		return ' '
	}
}

func statusLine(status runner.Status) string {
	line := fmt.Sprintf("PC $%04X  I $%04X  frame %d", status.PC, status.I, status.Frames)
	switch {
	case status.Halted:
		line += "  HALTED"
	case status.Paused:
		line += "  PAUSED (n: step)"
	case status.WaitingOn:
		line += "  KEY?"
	}
	if status.Sound {
		line += "  SOUND"
	}
	return line + "  esc: quit  p: pause  F5: reset"
}
