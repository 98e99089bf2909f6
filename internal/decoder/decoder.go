// Package decoder wraps the x86 disassembler behind a narrow decode capability.
package decoder

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// ErrNoInstruction is returned when no valid instruction starts at the
// given address.
var ErrNoInstruction = errors.New("no valid instruction")

// Instruction is the result of decoding one machine instruction.
type Instruction struct {
	Address     uint32 // address the instruction was decoded at
	Mnemonic    string // lowercase mnemonic
	OperandText string // formatted operands, empty for instructions without operands
	Length      int    // encoded length reported by the decoder
	Bytes       []byte // the first Length bytes of the read window, never the full window
}

// Decoder decodes a single instruction from a byte window.
// The interface allows tests to supply a deterministic fake decoder.
type Decoder interface {
	DecodeOne(code []byte, addr uint32) (Instruction, error)
}

// X86 decodes 32-bit x86 instructions using golang.org/x/arch.
type X86 struct{}

// NewX86 creates a new 32-bit x86 decoder.
func NewX86() X86 {
	return X86{}
}

// DecodeOne decodes at most one instruction from the start of code.
// An unrecognized or truncated encoding returns ErrNoInstruction, any
// other decoder failure is passed through unchanged.
func (X86) DecodeOne(code []byte, addr uint32) (Instruction, error) {
	inst, err := x86asm.Decode(code, 32)
	switch {
	case errors.Is(err, x86asm.ErrUnrecognized), errors.Is(err, x86asm.ErrTruncated):
		return Instruction{}, fmt.Errorf("%w at 0x%08X: %w", ErrNoInstruction, addr, err)
	case err != nil:
		return Instruction{}, fmt.Errorf("decoding at 0x%08X: %w", addr, err)
	case inst.Len <= 0 || inst.Len > len(code) || inst.Op == 0:
		return Instruction{}, fmt.Errorf("%w at 0x%08X", ErrNoInstruction, addr)
	}

	mnemonic, operands := splitSyntax(x86asm.IntelSyntax(inst, uint64(addr), nil))

	return Instruction{
		Address:     addr,
		Mnemonic:    mnemonic,
		OperandText: operands,
		Length:      inst.Len,
		Bytes:       code[:inst.Len],
	}, nil
}

// splitSyntax separates the mnemonic from the operand text at the first space.
func splitSyntax(text string) (string, string) {
	if idx := strings.Index(text, " "); idx >= 0 {
		return text[:idx], text[idx+1:]
	}
	return text, ""
}
