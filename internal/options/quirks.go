package options

import (
	"fmt"
	"strings"
)

// Quirk presets.
const (
	PresetChip8 = "chip8"
	PresetSChip = "schip"
	PresetVIP   = "vip"
)

// Quirks selects the behavior of opcodes that historic interpreters disagree on.
type Quirks struct {
	// ShiftUsesVY makes 8XY6 and 8XYE shift Vy and store the result in Vx.
	ShiftUsesVY bool
	// JumpWithOffsetUsesVX makes BXNN jump to XNN+Vx instead of NNN+V0.
	JumpWithOffsetUsesVX bool
	// StoreLoadIncrementsIndex makes FX55 and FX65 leave I pointing past the last register.
	StoreLoadIncrementsIndex bool
	// ClipSpritesVertically drops sprite rows past the bottom edge instead of wrapping them.
	ClipSpritesVertically bool
	// LogicResetsVF makes 8XY1, 8XY2 and 8XY3 set VF to 0.
	LogicResetsVF bool
}

// DefaultQuirks returns the quirks of the original CHIP-8 interpreter that
// most ROMs are written against.
func DefaultQuirks() Quirks {
	return Quirks{
		ShiftUsesVY:              true,
		JumpWithOffsetUsesVX:     false,
		StoreLoadIncrementsIndex: true,
		ClipSpritesVertically:    true,
	}
}

// QuirksFor returns the quirks of a named preset.
func QuirksFor(preset string) (Quirks, error) {
	switch strings.ToLower(preset) {
	case "", PresetChip8:
		return DefaultQuirks(), nil

	case PresetSChip:
		return Quirks{
			ShiftUsesVY:              false,
			JumpWithOffsetUsesVX:     true,
			StoreLoadIncrementsIndex: false,
			ClipSpritesVertically:    true,
		}, nil

	case PresetVIP:
		q := DefaultQuirks()
		q.LogicResetsVF = true
		return q, nil

	default:
		return Quirks{}, fmt.Errorf("unsupported quirk preset '%s'", preset)
	}
}

// Apply overrides the preset with the individually set quirk flags.
func (f QuirkFlags) Apply(q Quirks) Quirks {
	if f.ShiftUsesVX {
		q.ShiftUsesVY = false
	}
	if f.JumpWithOffsetUsesVX {
		q.JumpWithOffsetUsesVX = true
	}
	if f.NoStoreLoadIncrement {
		q.StoreLoadIncrementsIndex = false
	}
	if f.WrapSpritesVertically {
		q.ClipSpritesVertically = false
	}
	if f.LogicResetsVF {
		q.LogicResetsVF = true
	}
	return q
}

// String returns the enabled quirks as a comma separated list of names.
func (q Quirks) String() string {
	var names []string
	if q.ShiftUsesVY {
		names = append(names, "shift-uses-vy")
	}
	if q.JumpWithOffsetUsesVX {
		names = append(names, "jump-with-offset-uses-vx-high-nibble")
	}
	if q.StoreLoadIncrementsIndex {
		names = append(names, "store-load-increments-index")
	}
	if q.ClipSpritesVertically {
		names = append(names, "clip-sprites-vertically")
	}
	if q.LogicResetsVF {
		names = append(names, "logic-resets-vf")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
