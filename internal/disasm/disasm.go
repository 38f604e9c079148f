// Package disasm converts CHIP-8 programs into assembly listings.
package disasm

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/retroenv/retrochip8/internal/instruction"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const (
	startLabel  = "Start"
	dataNaming  = "_data_%04x"
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
)

// Options of the disassembler.
type Options struct {
	SuperChip      bool // decode Super-CHIP instructions
	OffsetComments bool // add address and opcode comments to code lines
	ZeroBytes      bool // write trailing zero bytes
}

// offset is the disassembly state of a single program byte.
type offset struct {
	data    []byte // instruction bytes, set for the first byte of an instruction
	code    string
	comment string
	label   string

	instruction     instruction.Instruction
	isCode          bool // byte is part of an instruction
	isData          bool // byte is referenced as data
	callDestination bool

	branchingTo string
	branchFrom  []uint16
}

// Disasm implements a CHIP-8 disassembler.
type Disasm struct {
	logger  *log.Logger
	options Options

	offsets []offset // indexed by address - program start

	branchDestinations set.Set[uint16] // set of all addresses that are branched to

	offsetsToParse      []uint16
	offsetsToParseAdded set.Set[uint16]
}

// New creates a new disassembler for the passed ROM image.
func New(logger *log.Logger, rom []byte, options Options) (*Disasm, error) {
	if len(rom) > memory.MaxProgramSize {
		return nil, fmt.Errorf("program size %d exceeds %d bytes", len(rom), memory.MaxProgramSize)
	}

	dis := &Disasm{
		logger:              logger,
		options:             options,
		offsets:             make([]offset, len(rom)),
		branchDestinations:  set.New[uint16](),
		offsetsToParseAdded: set.New[uint16](),
	}
	for i, b := range rom {
		dis.offsets[i].data = []byte{b}
	}

	if len(rom) > 0 {
		dis.offsets[0].label = startLabel
		dis.addAddressToParse(memory.ProgramStart)
	}
	return dis, nil
}

// Process disassembles the program and writes the listing to the writer.
func (dis *Disasm) Process(ctx context.Context, w io.Writer) error {
	if err := dis.followExecutionFlow(ctx); err != nil {
		return err
	}
	dis.processJumpDestinations()

	fw := &fileWriter{
		writer:  w,
		options: dis.options,
		offsets: dis.offsets,
	}
	if err := fw.write(); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// offsetInfo returns the offset of the address or nil if the address is
// outside of the program.
func (dis *Disasm) offsetInfo(address uint16) *offset {
	if address < memory.ProgramStart {
		return nil
	}
	index := int(address - memory.ProgramStart)
	if index >= len(dis.offsets) {
		return nil
	}
	return &dis.offsets[index]
}

// addAddressToParse adds an address to the list of addresses to parse if it
// is inside the program and was not added before.
func (dis *Disasm) addAddressToParse(address uint16) {
	if dis.offsetInfo(address) == nil || dis.offsetsToParseAdded.Contains(address) {
		return
	}
	dis.offsetsToParseAdded.Add(address)
	dis.offsetsToParse = append(dis.offsetsToParse, address)
}

// addBranchDestination records a branch from an instruction to a target.
func (dis *Disasm) addBranchDestination(from, target uint16, call bool) {
	offsetInfo := dis.offsetInfo(target)
	if offsetInfo == nil {
		dis.logger.Debug("Branch target outside of program",
			log.Hex("address", from),
			log.Hex("target", target))
		return
	}

	offsetInfo.branchFrom = append(offsetInfo.branchFrom, from)
	if call {
		offsetInfo.callDestination = true
	}
	dis.branchDestinations.Add(target)
}

// followExecutionFlow parses all reachable instructions starting at the program start.
func (dis *Disasm) followExecutionFlow(ctx context.Context) error {
	for len(dis.offsetsToParse) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("following execution flow: %w", err)
		}

		address := dis.offsetsToParse[0]
		dis.offsetsToParse = dis.offsetsToParse[1:]
		dis.processOffset(address)
	}
	return nil
}

// processOffset decodes the instruction at the address and queues the
// addresses that execution can continue at.
func (dis *Disasm) processOffset(address uint16) {
	offsetInfo := dis.offsetInfo(address)
	next := dis.offsetInfo(address + 1)
	if next == nil || offsetInfo.isCode || next.isCode {
		return // incomplete instruction or overlapping an instruction
	}

	word := uint16(offsetInfo.data[0])<<8 | uint16(next.data[0])
	ins, err := instruction.Decode(word, dis.options.SuperChip)
	if err != nil {
		dis.logger.Debug("Unknown opcode ends execution flow",
			log.Hex("address", address),
			log.Hex("opcode", word))
		return
	}

	offsetInfo.data = append(offsetInfo.data, next.data[0])
	offsetInfo.instruction = ins
	offsetInfo.code = FormatInstruction(ins)
	offsetInfo.isCode = true
	next.isCode = true
	next.data = nil

	nextAddress := address + instruction.Size

	switch classify(ins) {
	case flowJump:
		dis.addBranchDestination(address, ins.NNN, false)
		dis.addAddressToParse(ins.NNN)

	case flowCall:
		dis.addBranchDestination(address, ins.NNN, true)
		dis.addAddressToParse(ins.NNN)
		dis.addAddressToParse(nextAddress)

	case flowSkip:
		dis.addAddressToParse(nextAddress)
		dis.addAddressToParse(nextAddress + instruction.Size)

	case flowData:
		if target := dis.offsetInfo(ins.NNN); target != nil {
			target.isData = true
			dis.addBranchDestination(address, ins.NNN, false)
		}
		dis.addAddressToParse(nextAddress)

	case flowComputed:
		offsetInfo.comment = "computed jump target"

	case flowEnd:

	default:
		dis.addAddressToParse(nextAddress)
	}
}

// processJumpDestinations names all branch destinations and updates the
// referencing instructions with the label name.
func (dis *Disasm) processJumpDestinations() {
	branchDestinations := make([]uint16, 0, len(dis.branchDestinations))
	for dest := range dis.branchDestinations {
		branchDestinations = append(branchDestinations, dest)
	}
	slices.Sort(branchDestinations)

	for _, address := range branchDestinations {
		offsetInfo := dis.offsetInfo(address)

		name := offsetInfo.label
		if name == "" {
			switch {
			case offsetInfo.callDestination:
				name = fmt.Sprintf(funcNaming, address)
			case offsetInfo.isData && !offsetInfo.isCode:
				name = fmt.Sprintf(dataNaming, address)
			default:
				name = fmt.Sprintf(labelNaming, address)
			}
			offsetInfo.label = name
		}

		// code offset without opcode bytes is the second byte of an instruction
		if offsetInfo.isCode && len(offsetInfo.data) == 0 {
			dis.handleJumpIntoInstruction(address)
		}

		for _, from := range offsetInfo.branchFrom {
			source := dis.offsetInfo(from)
			source.branchingTo = name
			source.code = formatWithLabel(source.instruction, name)
		}
	}
}

// handleJumpIntoInstruction converts an instruction that has a branch
// destination inside of its second byte into data.
func (dis *Disasm) handleJumpIntoInstruction(address uint16) {
	start := dis.offsetInfo(address - 1)
	second := dis.offsetInfo(address)

	start.comment = "branch into instruction detected: " + start.code
	start.code = ""
	start.isCode = false
	second.data = start.data[1:]
	start.data = start.data[:1]
	second.isCode = false
}

// formatWithLabel formats an instruction with its address operand replaced
// by a label.
func formatWithLabel(ins instruction.Instruction, label string) string {
	name := ins.Kind.String()
	switch ins.Kind {
	case instruction.LoadIndex:
		return name + " I, " + label
	default:
		return name + " " + label
	}
}
