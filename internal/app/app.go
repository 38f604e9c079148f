// Package app provides the main application helper for the interpreter.
package app

import (
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// PrintInfo prints the information about the input file and the emulation settings.
func PrintInfo(logger *log.Logger, opts options.Program, emulatorOptions options.Emulator, romSize int) {
	if opts.Quiet {
		return
	}

	logger.Info("Processing CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", romSize),
		log.String("preset", opts.Preset),
	)

	logger.Info("Emulation settings",
		log.Int("hz", emulatorOptions.ClockRate),
		log.String("quirks", emulatorOptions.Quirks.String()),
		log.String("on-unknown", emulatorOptions.UnknownOpcode),
	)
	if emulatorOptions.SuperChip {
		logger.Info("Super-CHIP instructions enabled")
	}
}
