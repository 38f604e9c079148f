package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/memory"
)

const dataBytesPerLine = 16

// fileWriter writes the disassembled program in CHIP-8 assembly format.
type fileWriter struct {
	writer  io.Writer
	options Options
	offsets []offset
}

func (w *fileWriter) write() error {
	if _, err := fmt.Fprintf(w.writer, "; CHIP-8 ROM Disassembly\n"); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Program starts at $%03X in CHIP-8 memory space\n\n", memory.ProgramStart); err != nil {
		return fmt.Errorf("writing memory space comment: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, ".org $%03X\n\n", memory.ProgramStart); err != nil {
		return fmt.Errorf("writing org directive: %w", err)
	}

	endIndex := w.endIndex()
	for i := 0; i < endIndex; i++ {
		offset := w.offsets[i]
		if len(offset.data) == 0 {
			continue
		}

		if offset.label != "" {
			if _, err := fmt.Fprintf(w.writer, "%s:\n", offset.label); err != nil {
				return fmt.Errorf("writing label %s: %w", offset.label, err)
			}
		}

		if offset.isCode {
			if err := w.writeCode(i, offset); err != nil {
				return err
			}
			continue
		}

		count, err := w.writeData(i, endIndex)
		if err != nil {
			return err
		}
		i += count - 1
	}
	return nil
}

// writeCode writes an instruction line.
func (w *fileWriter) writeCode(index int, offset offset) error {
	line := "    " + offset.code

	comment := offset.comment
	if w.options.OffsetComments {
		position := fmt.Sprintf("$%04X %02X %02X", memory.ProgramStart+index, offset.data[0], offset.data[1])
		if comment == "" {
			comment = position
		} else {
			comment = position + " " + comment
		}
	}

	if comment == "" {
		if _, err := fmt.Fprintf(w.writer, "%s\n", line); err != nil {
			return fmt.Errorf("writing code: %w", err)
		}
		return nil
	}
	if _, err := fmt.Fprintf(w.writer, "%-32s ; %s\n", line, comment); err != nil {
		return fmt.Errorf("writing code with comment: %w", err)
	}
	return nil
}

// writeData bundles data bytes up to the next label, code offset or comment
// and returns the number of offsets written.
func (w *fileWriter) writeData(index, endIndex int) (int, error) {
	first := w.offsets[index]

	var buf strings.Builder
	fmt.Fprintf(&buf, "    .byte $%02X", first.data[0])
	count := 1

	for j := index + 1; j < endIndex && count < dataBytesPerLine; j++ {
		offset := w.offsets[j]
		if offset.isCode || offset.label != "" || offset.comment != "" || len(offset.data) == 0 {
			break
		}
		fmt.Fprintf(&buf, ", $%02X", offset.data[0])
		count++
	}

	line := buf.String()
	if first.comment == "" {
		if _, err := fmt.Fprintf(w.writer, "%s\n", line); err != nil {
			return 0, fmt.Errorf("writing data: %w", err)
		}
	} else {
		if _, err := fmt.Fprintf(w.writer, "%-32s ; %s\n", line, first.comment); err != nil {
			return 0, fmt.Errorf("writing data with comment: %w", err)
		}
	}
	return count, nil
}

// endIndex finds the index after the last meaningful offset.
func (w *fileWriter) endIndex() int {
	if w.options.ZeroBytes {
		return len(w.offsets)
	}

	for i := len(w.offsets) - 1; i >= 0; i-- {
		offset := w.offsets[i]
		if offset.label != "" || offset.isCode {
			return i + 1
		}
		for _, b := range offset.data {
			if b != 0 {
				return i + 1
			}
		}
	}
	return 0
}
