// Package main implements the main entry point for a CHIP-8 interpreter
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	appinfo "github.com/retroenv/retrochip8/internal/app"
	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/fileprocessor"
	"github.com/retroenv/retrochip8/internal/host/terminal"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	detector.New(logger).Detect(&opts)
	emulatorOptions, err := config.CreateEmulatorOptions(opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	if opts.Trace && !opts.Debug {
		logger.Warn("Instruction tracing is only visible with -debug")
	}

	fs := afero.NewOsFs()
	if opts.Disassemble {
		err = fileprocessor.ProcessFile(ctx, logger, fs, opts, config.CreateDisasmOptions(opts, emulatorOptions))
	} else {
		err = run(ctx, logger, fs, opts, emulatorOptions)
	}

	if err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal("Execution failed", log.Err(err))
	}
}

func run(ctx context.Context, logger *log.Logger, fs afero.Fs, opts options.Program, emulatorOptions options.Emulator) error {
	rom, err := loader.New(fs).Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	m := machine.New(logger, emulatorOptions)
	if err := m.LoadROM(rom); err != nil {
		return fmt.Errorf("loading rom into memory: %w", err)
	}
	r := runner.New(logger, m)

	appinfo.PrintInfo(logger, opts, emulatorOptions, len(rom))

	if opts.Frames > 0 {
		if err := r.RunFrames(ctx, opts.Frames); err != nil {
			return fmt.Errorf("running %d frames: %w", opts.Frames, err)
		}
		fmt.Print(display.Text(m.Display()))
		return nil
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("output is not a terminal, use -frames to run without display")
	}

	screen, err := terminal.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	host := terminal.New(logger, screen)
	host.Start()
	defer host.Close()

	if err := r.Run(ctx, host); err != nil {
		return fmt.Errorf("running emulation: %w", err)
	}
	return nil
}
