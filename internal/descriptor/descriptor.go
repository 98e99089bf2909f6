// Package descriptor builds relocation descriptors from decoded instructions.
package descriptor

import (
	"fmt"
	"strings"

	"github.com/retroenv/relocmap/internal/decoder"
	"github.com/retroenv/relocmap/internal/scan"
)

// Marker replaces a byte belonging to an embedded address in the masked
// byte dump, two marker characters per masked byte. The runtime patcher
// overwrites exactly the marked bytes.
const Marker = "XX"

// Kind tags the representation of a descriptor.
type Kind uint8

// Descriptor representations.
const (
	KindBytes Kind = iota // masked byte dump plus primary offset
	KindText              // instruction text with relocated literals
)

// Descriptor describes how to rewrite one instruction for a different
// memory base. Exactly one payload is set, selected by Kind.
type Descriptor struct {
	Kind Kind

	MaskedBytes string // byte-masked: hex dump with masked address bytes
	Offset      string // byte-masked: signed offset of the first match

	Text string // text-substituted: mnemonic and rewritten operand text
}

// AddressKey formats an address as the key used in the persisted document.
func AddressKey(addr uint32) string {
	return fmt.Sprintf("0x%08X", addr)
}

// SignedHex formats an offset as hex with an explicit sign for negative
// values, "0x2A" and "-0x10".
func SignedHex(offset int64) string {
	if offset < 0 {
		return fmt.Sprintf("-0x%X", -offset)
	}
	return fmt.Sprintf("0x%X", offset)
}

// BuildBytes creates the byte-masked descriptor for an instruction.
// Every byte belonging to any match's 4 byte span is masked, the primary
// offset records the first match by ascending byte offset or 0x0 when the
// instruction embeds no reference.
func BuildBytes(ins decoder.Instruction, base, maxRange uint32) Descriptor {
	matches := scan.Bytes(ins.Bytes, base, maxRange)

	masked := make([]bool, len(ins.Bytes))
	for _, match := range matches {
		for i := match.ByteOffset; i < match.ByteOffset+4 && i < len(masked); i++ {
			masked[i] = true
		}
	}

	groups := make([]string, len(ins.Bytes))
	for i, b := range ins.Bytes {
		if masked[i] {
			groups[i] = Marker
		} else {
			groups[i] = fmt.Sprintf("%02X", b)
		}
	}

	offset := "0x0"
	if len(matches) > 0 {
		offset = SignedHex(matches[0].Offset)
	}

	return Descriptor{
		Kind:        KindBytes,
		MaskedBytes: strings.Join(groups, " "),
		Offset:      offset,
	}
}

// BuildText creates the text-substituted descriptor for an instruction.
// The operand text is preserved exactly as produced by the scanner step,
// an instruction without operands keeps the trailing space.
func BuildText(ins decoder.Instruction, base, maxRange uint32) Descriptor {
	rewritten, _ := scan.Text(ins.OperandText, base, maxRange)
	return Descriptor{
		Kind: KindText,
		Text: ins.Mnemonic + " " + rewritten,
	}
}
