// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if err := validateOptionCombinations(opts); err != nil {
		return opts, err
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Preset = strings.ToLower(opts.Preset)
	if opts.Preset != "" {
		if _, err := options.QuirksFor(opts.Preset); err != nil {
			return err
		}
	}

	opts.UnknownOpcode = strings.ToLower(opts.UnknownOpcode)
	if opts.UnknownOpcode != options.UnknownOpcodeHalt && opts.UnknownOpcode != options.UnknownOpcodeSkip {
		return fmt.Errorf("unsupported unknown opcode policy '%s'. Valid options: %s, %s",
			opts.UnknownOpcode, options.UnknownOpcodeHalt, options.UnknownOpcodeSkip)
	}

	if opts.ClockRate <= 0 {
		return fmt.Errorf("invalid clock rate %d, must be positive", opts.ClockRate)
	}
	return nil
}

// validateOptionCombinations checks for options that can not be used together
func validateOptionCombinations(opts options.Program) error {
	if opts.Disassemble && opts.Frames > 0 {
		return fmt.Errorf("options -disasm and -frames can not be combined")
	}
	if opts.Frames < 0 {
		return fmt.Errorf("invalid frame count %d", opts.Frames)
	}
	if opts.Output != "" && !opts.Disassemble {
		return fmt.Errorf("option -o requires -disasm")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the output .asm file for -disasm, printed on console if no name given")
	flags.IntVar(&opts.ClockRate, "hz", options.DefaultClockRate, "instructions executed per second")
	flags.BoolVar(&opts.Disassemble, "disasm", false, "write a disassembly listing instead of running the ROM")
	flags.IntVar(&opts.Frames, "frames", 0, "run headless for the given number of 60 Hz frames and print the display")
	flags.Uint64Var(&opts.Seed, "seed", 0, "random number generator seed, time based if 0")
	flags.BoolVar(&opts.SuperChip, "schip", false, "enable the Super-CHIP instruction extension")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, requires -debug")
	flags.StringVar(&opts.UnknownOpcode, "on-unknown", options.UnknownOpcodeHalt, "unknown opcode policy (halt/skip)")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	flags.StringVar(&opts.Preset, "quirks", "", "quirk preset (chip8/schip/vip), detected from the file extension if not set")
	flags.BoolVar(&opts.ShiftUsesVX, "shift-uses-vx", false, "shift opcodes operate on Vx instead of Vy")
	flags.BoolVar(&opts.JumpWithOffsetUsesVX, "jump-with-offset-uses-vx", false, "BXNN jumps to XNN+Vx instead of NNN+V0")
	flags.BoolVar(&opts.NoStoreLoadIncrement, "store-load-keeps-index", false, "FX55/FX65 leave I unmodified")
	flags.BoolVar(&opts.WrapSpritesVertically, "wrap-sprites-vertically", false, "sprites wrap at the bottom edge instead of being clipped")
	flags.BoolVar(&opts.LogicResetsVF, "logic-resets-vf", false, "OR, AND and XOR reset VF to 0")

	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output addresses and opcode bytes in listing comments")
	flags.BoolVar(&opts.ZeroBytes, "z", false, "output the trailing zero bytes of the program")
}
