// Package display implements the monochrome CHIP-8 frame buffer.
package display

import "strings"

const (
	// Width is the horizontal resolution of the standard mode.
	Width = 64
	// Height is the vertical resolution of the standard mode.
	Height = 32

	// HighWidth is the horizontal resolution of the Super-CHIP extended mode.
	HighWidth = 128
	// HighHeight is the vertical resolution of the Super-CHIP extended mode.
	HighHeight = 64
)

// View is a read-only view of the frame buffer.
type View interface {
	// Width returns the width of the active mode.
	Width() int
	// Height returns the height of the active mode.
	Height() int
	// Pixel returns whether the pixel at the given coordinate is set.
	// Coordinates outside of the active mode return false.
	Pixel(x, y int) bool
	// HighResolution returns whether the extended mode is active.
	HighResolution() bool
}

var _ View = (*Buffer)(nil)

// bufferView hides the mutating methods of a buffer.
type bufferView struct {
	b *Buffer
}

func (v bufferView) Width() int           { return v.b.Width() }
func (v bufferView) Height() int          { return v.b.Height() }
func (v bufferView) Pixel(x, y int) bool  { return v.b.Pixel(x, y) }
func (v bufferView) HighResolution() bool { return v.b.HighResolution() }

// Buffer is a frame buffer that supports the standard and the extended resolution.
// The storage always has the extended size, the active mode selects the used area.
type Buffer struct {
	pixels [HighWidth * HighHeight]bool
	high   bool
	width  int
	height int
}

// New returns a cleared buffer in standard mode.
func New() *Buffer {
	return &Buffer{
		width:  Width,
		height: Height,
	}
}

// View returns a read-only view that follows the changes of the buffer.
func (b *Buffer) View() View {
	return bufferView{b: b}
}

// Width returns the width of the active mode.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height of the active mode.
func (b *Buffer) Height() int {
	return b.height
}

// HighResolution returns whether the extended mode is active.
func (b *Buffer) HighResolution() bool {
	return b.high
}

// Pixel returns whether the pixel at the given coordinate is set.
func (b *Buffer) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return false
	}
	return b.pixels[y*b.width+x]
}

// Clear unsets every pixel.
func (b *Buffer) Clear() {
	b.pixels = [HighWidth * HighHeight]bool{}
}

// SetHighResolution switches between standard and extended mode and clears the buffer.
func (b *Buffer) SetHighResolution(high bool) {
	b.high = high
	if high {
		b.width, b.height = HighWidth, HighHeight
	} else {
		b.width, b.height = Width, Height
	}
	b.Clear()
}

// Draw XORs a sprite onto the buffer. Every row of rows is drawn width
// pixels wide, most significant bit first. The start coordinate wraps around
// the screen, pixels crossing the right edge wrap to the left side of the
// same row. Rows crossing the bottom edge are dropped if clip is set and
// wrap to the top otherwise.
// It returns whether any set pixel was turned off.
func (b *Buffer) Draw(x, y int, rows []uint16, width int, clip bool) bool {
	x %= b.width
	y %= b.height
	collision := false

	for row, bits := range rows {
		py := y + row
		if py >= b.height {
			if clip {
				break
			}
			py %= b.height
		}

		for col := 0; col < width; col++ {
			if bits&(1<<(width-1-col)) == 0 {
				continue
			}
			px := (x + col) % b.width
			idx := py*b.width + px
			if b.pixels[idx] {
				collision = true
			}
			b.pixels[idx] = !b.pixels[idx]
		}
	}
	return collision
}

// ScrollDown moves the content down by n rows, filling the top with unset pixels.
func (b *Buffer) ScrollDown(n int) {
	if n <= 0 {
		return
	}
	for y := b.height - 1; y >= 0; y-- {
		for x := 0; x < b.width; x++ {
			src := y - n
			value := src >= 0 && b.pixels[src*b.width+x]
			b.pixels[y*b.width+x] = value
		}
	}
}

// ScrollRight moves the content right by n columns, filling the left with unset pixels.
func (b *Buffer) ScrollRight(n int) {
	for y := 0; y < b.height; y++ {
		line := b.pixels[y*b.width : (y+1)*b.width]
		for x := b.width - 1; x >= 0; x-- {
			src := x - n
			line[x] = src >= 0 && line[src]
		}
	}
}

// ScrollLeft moves the content left by n columns, filling the right with unset pixels.
func (b *Buffer) ScrollLeft(n int) {
	for y := 0; y < b.height; y++ {
		line := b.pixels[y*b.width : (y+1)*b.width]
		for x := 0; x < b.width; x++ {
			src := x + n
			line[x] = src < b.width && line[src]
		}
	}
}

// Text renders a view as lines of '#' and '.' characters.
func Text(v View) string {
	var sb strings.Builder
	sb.Grow((v.Width() + 1) * v.Height())
	for y := 0; y < v.Height(); y++ {
		for x := 0; x < v.Width(); x++ {
			if v.Pixel(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
