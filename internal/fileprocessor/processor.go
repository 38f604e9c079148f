// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/afero"
)

// ProcessFile disassembles the input ROM file and writes the listing to the
// output file or to stdout if no output file is set.
func ProcessFile(ctx context.Context, logger *log.Logger, fs afero.Fs,
	opts options.Program, disasmOptions disasm.Options) error {

	rom, err := loader.New(fs).Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	dis, err := disasm.New(logger, rom, disasmOptions)
	if err != nil {
		return fmt.Errorf("creating disassembler: %w", err)
	}

	writer, err := createWriter(fs, opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}

	if err := dis.Process(ctx, writer); err != nil {
		_ = writer.Close()
		return fmt.Errorf("disassembling: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	if opts.Output != "" {
		logger.Info("Disassembly written",
			log.String("file", opts.Output),
			log.Int("size", len(rom)))
	}
	return nil
}

func createWriter(fs afero.Fs, opts options.Program) (io.WriteCloser, error) {
	if opts.Output == "" {
		return nopCloser{os.Stdout}, nil
	}

	file, err := fs.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrochip8", log.String("version", buildinfo.Version(version, commit, date)))
}

// nopCloser wraps an io.Writer to add a no-op Close method
type nopCloser struct {
	io.Writer
}

func (nc nopCloser) Close() error {
	return nil
}
