// Package runner drives a CHIP-8 machine at a fixed instruction rate and
// connects it to a host frontend.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/timer"
	"github.com/retroenv/retrogolib/log"
)

// FrameDuration is the duration of one timer frame.
const FrameDuration = time.Second / timer.Rate

// Command is a host request to the runner.
type Command int

// Host commands.
const (
	CommandQuit Command = iota + 1
	CommandTogglePause
	CommandStep
	CommandReset
)

// KeySetter is implemented by the machine, frontends use it to forward
// keypad state changes.
type KeySetter interface {
	SetKey(key int, pressed bool) error
}

// Status describes the runner state for frontends.
type Status struct {
	PC        uint16
	I         uint16
	Cycles    uint64
	Frames    uint64
	Paused    bool
	Halted    bool
	Sound     bool
	WaitingOn bool // program waits for a key press
}

// Frontend is the host side of the emulation.
type Frontend interface {
	// Poll handles pending input events. Keypad changes are forwarded to the
	// key setter, host commands are returned.
	Poll(keys KeySetter) ([]Command, error)
	// Render presents the current frame. Status.Sound reports whether a tone
	// should be played.
	Render(view display.View, status Status) error
}

// Runner schedules instruction execution and timer ticks for a machine.
type Runner struct {
	logger  *log.Logger
	machine *machine.Machine

	cyclesPerFrame int
	remainder      int // fractional cycles per frame, in 1/60
	carry          int

	frameDuration time.Duration
	frames        uint64
	paused        bool
	halted        bool
}

// New returns a runner for the machine using the instruction rate of the
// machine options.
func New(logger *log.Logger, m *machine.Machine) *Runner {
	cycles, remainder := m.Options().CyclesPerFrame()
	return &Runner{
		logger:         logger,
		machine:        m,
		cyclesPerFrame: cycles,
		remainder:      remainder,
		frameDuration:  FrameDuration,
	}
}

// RunFrame executes the instructions of one 60 Hz frame and ticks the
// timers once. A paused or halted runner does nothing. The returned error
// is machine.ErrHalted if the program exited.
func (r *Runner) RunFrame() error {
	if r.paused || r.halted {
		return nil
	}

	cycles := r.cyclesPerFrame
	r.carry += r.remainder
	if r.carry >= timer.Rate {
		r.carry -= timer.Rate
		cycles++
	}

	for range cycles {
		if err := r.step(); err != nil {
			return err
		}
		if r.machine.WaitingForKey() {
			break // further steps would repeat the key wait
		}
	}

	r.machine.TickTimers()
	r.frames++
	return nil
}

// RunFrames executes the given number of frames without a frontend. It
// stops early without error if the program exited.
func (r *Runner) RunFrames(ctx context.Context, count int) error {
	for range count {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.RunFrame(); err != nil {
			if errors.Is(err, machine.ErrHalted) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Step executes a single instruction while the runner is paused.
func (r *Runner) Step() error {
	if !r.paused || r.halted {
		return nil
	}
	return r.step()
}

// step executes one instruction and applies the unknown opcode policy.
func (r *Runner) step() error {
	pc := r.machine.PC()
	err := r.machine.Step()
	switch {
	case err == nil:
		return nil

	case errors.Is(err, machine.ErrHalted):
		if !r.halted {
			r.logger.Info("Program exited", log.Hex("address", pc))
		}
		r.halted = true
		return err

	case errors.Is(err, machine.ErrUnknownOpcode) && r.machine.Options().SkipUnknownOpcodes():
		r.logger.Warn("Skipping unknown opcode", log.Err(err))
		r.machine.SkipInstruction()
		return nil

	default:
		r.halted = true
		return fmt.Errorf("executing instruction at $%04X: %w", pc, err)
	}
}

// Pause stops execution until Resume is called.
func (r *Runner) Pause() {
	r.paused = true
}

// Resume continues a paused execution.
func (r *Runner) Resume() {
	r.paused = false
}

// Paused returns whether the execution is paused.
func (r *Runner) Paused() bool {
	return r.paused
}

// Halted returns whether the program exited or failed.
func (r *Runner) Halted() bool {
	return r.halted
}

// Reset restarts the loaded program.
func (r *Runner) Reset() {
	r.machine.Reset()
	r.carry = 0
	r.halted = false
}

// Frames returns the number of executed frames.
func (r *Runner) Frames() uint64 {
	return r.frames
}

// Status returns the current runner state.
func (r *Runner) Status() Status {
	return Status{
		PC:        r.machine.PC(),
		I:         r.machine.I(),
		Cycles:    r.machine.Cycles(),
		Frames:    r.frames,
		Paused:    r.paused,
		Halted:    r.halted,
		Sound:     r.machine.SoundActive(),
		WaitingOn: r.machine.WaitingForKey(),
	}
}

// Run drives the machine at 60 frames per second until the frontend quits,
// the context is canceled or execution fails. After the program exited the
// last frame stays visible until the frontend quits.
func (r *Runner) Run(ctx context.Context, frontend Frontend) error {
	ticker := time.NewTicker(r.frameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		commands, err := frontend.Poll(r.machine)
		if err != nil {
			return fmt.Errorf("polling frontend: %w", err)
		}

		quit, err := r.handleCommands(commands)
		if err != nil || quit {
			return err
		}

		if err := r.RunFrame(); err != nil && !errors.Is(err, machine.ErrHalted) {
			return err
		}

		if err := frontend.Render(r.machine.Display(), r.Status()); err != nil {
			return fmt.Errorf("rendering frame: %w", err)
		}
	}
}

func (r *Runner) handleCommands(commands []Command) (bool, error) {
	for _, command := range commands {
		switch command {
		case CommandQuit:
			return true, nil

		case CommandTogglePause:
			r.paused = !r.paused
			r.logger.Debug("Pause toggled", log.String("state", pausedState(r.paused)))

		case CommandStep:
			if err := r.Step(); err != nil && !errors.Is(err, machine.ErrHalted) {
				return false, err
			}

		case CommandReset:
			r.Reset()
		}
	}
	return false, nil
}

func pausedState(paused bool) string {
	if paused {
		return "paused"
	}
	return "running"
}
