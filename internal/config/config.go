// Package config handles application configuration and setup
package config

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateEmulatorOptions converts the program options into emulation engine
// options. The quirk preset is applied first and individual quirk flags
// override it. The schip preset enables the Super-CHIP extension.
func CreateEmulatorOptions(opts options.Program) (options.Emulator, error) {
	quirks, err := options.QuirksFor(opts.Preset)
	if err != nil {
		return options.Emulator{}, err
	}

	emulatorOptions := options.NewEmulator()
	emulatorOptions.ClockRate = opts.ClockRate
	emulatorOptions.Quirks = opts.QuirkFlags.Apply(quirks)
	emulatorOptions.Seed = opts.Seed
	emulatorOptions.SuperChip = opts.SuperChip || strings.EqualFold(opts.Preset, options.PresetSChip)
	emulatorOptions.Trace = opts.Trace
	emulatorOptions.UnknownOpcode = strings.ToLower(opts.UnknownOpcode)

	switch emulatorOptions.UnknownOpcode {
	case options.UnknownOpcodeHalt, options.UnknownOpcodeSkip:
	default:
		return options.Emulator{}, fmt.Errorf("unsupported unknown opcode policy '%s'", opts.UnknownOpcode)
	}

	if emulatorOptions.ClockRate <= 0 {
		return options.Emulator{}, fmt.Errorf("invalid clock rate %d, must be positive", opts.ClockRate)
	}

	return emulatorOptions, nil
}

// CreateDisasmOptions converts the program options into disassembler options.
func CreateDisasmOptions(opts options.Program, emulatorOptions options.Emulator) disasm.Options {
	return disasm.Options{
		SuperChip:      emulatorOptions.SuperChip,
		OffsetComments: !opts.NoOffsets,
		ZeroBytes:      opts.ZeroBytes,
	}
}
