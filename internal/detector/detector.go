// Package detector handles interpreter variant detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Detector handles quirk preset detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new preset detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect sets the quirk preset of the options if none was given. The preset
// is derived from the input filename extension.
func (d *Detector) Detect(opts *options.Program) {
	if opts.Preset != "" {
		return
	}

	opts.Preset = d.detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected quirk preset",
		log.String("preset", opts.Preset),
		log.String("file", opts.Input))
}

// detectFromFile determines the preset based on the file extension.
func (d *Detector) detectFromFile(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".sc8", ".sc":
		return options.PresetSChip
	case ".c8x", ".vip":
		return options.PresetVIP
	default:
		// .ch8, .c8 and unknown extensions use the original interpreter behavior
		return options.PresetChip8
	}
}
