// Package main implements a standalone CHIP-8 ROM disassembler
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/fileprocessor"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/spf13/afero"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	opts, disasmOptions := readArguments()

	if !opts.Quiet {
		printBanner()
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err := fileprocessor.ProcessFile(app.Context(), logger, afero.NewOsFs(), opts, disasmOptions); err != nil {
		fmt.Println(fmt.Errorf("disassembling failed: %w", err))
		os.Exit(1)
	}
}

func readArguments() (options.Program, disasm.Options) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program

	flags.StringVar(&opts.Output, "o", "", "name of the output .asm file, printed on console if no name given")
	flags.BoolVar(&opts.SuperChip, "schip", false, "decode Super-CHIP instructions")
	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output addresses and opcode bytes in comments")
	flags.BoolVar(&opts.ZeroBytes, "z", false, "output the trailing zero bytes of the program")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) == 0 {
		printBanner()
		fmt.Printf("usage: chip8disasm [options] <file to disassemble>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	opts.Input = args[0]

	emulatorOptions := options.NewEmulator()
	emulatorOptions.SuperChip = opts.SuperChip
	return opts, config.CreateDisasmOptions(opts, emulatorOptions)
}

func printBanner() {
	fmt.Println("[---------------------------------------]")
	fmt.Println("[ chip8disasm - CHIP-8 ROM disassembler ]")
	fmt.Printf("[---------------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}
