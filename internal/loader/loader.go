// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/spf13/afero"
)

var (
	// ErrEmptyROM is returned for ROM files without content.
	ErrEmptyROM = errors.New("rom file is empty")
	// ErrROMTooLarge is returned for ROM files that do not fit into the program area.
	ErrROMTooLarge = errors.New("rom file too large")
)

// Loader handles loading ROM files from a file system.
type Loader struct {
	fs afero.Fs
}

// New creates a new ROM loader that reads from the passed file system.
func New(fs afero.Fs) *Loader {
	return &Loader{
		fs: fs,
	}
}

// Load reads a raw CHIP-8 program image. The image is validated against the
// size of the program area before it is returned.
func (l *Loader) Load(name string) ([]byte, error) {
	file, err := l.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("getting file info of %s: %w", name, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("'%s' is a directory", name)
	}
	if info.Size() > memory.MaxProgramSize {
		return nil, fmt.Errorf("%w: %d bytes, maximum is %d bytes", ErrROMTooLarge, info.Size(), memory.MaxProgramSize)
	}

	// read one byte more than allowed to detect files that grew after the size check
	data, err := io.ReadAll(io.LimitReader(file, memory.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", name, err)
	}

	switch {
	case len(data) == 0:
		return nil, fmt.Errorf("%w: %s", ErrEmptyROM, name)
	case len(data) > memory.MaxProgramSize:
		return nil, fmt.Errorf("%w: more than %d bytes", ErrROMTooLarge, memory.MaxProgramSize)
	}
	return data, nil
}
