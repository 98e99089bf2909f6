package scan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Placeholder marks a relocatable address in rewritten operand text.
// The runtime patcher substitutes it with the actual memory base.
const Placeholder = "<memory_base>"

var hexLiteral = regexp.MustCompile(`0x[0-9a-fA-F]+`)

// Text replaces every hex literal in the operand text whose value lies
// within maxRange of base with the placeholder token and the signed offset,
// for example "0x1CF408E" becomes "<memory_base>+0x2A". Literals outside
// the range or too large to parse are left unchanged. Replacement is
// global, left to right and non-overlapping.
func Text(operands string, base, maxRange uint32) (string, []Match) {
	spans := hexLiteral.FindAllStringIndex(operands, -1)
	if spans == nil {
		return operands, nil
	}

	var matches []Match
	var rewritten strings.Builder
	last := 0
	for _, span := range spans {
		literal := operands[span[0]:span[1]]
		value, err := strconv.ParseUint(literal[2:], 16, 64)
		if err != nil {
			continue
		}
		// range check in the unsigned domain, a distant 64 bit literal
		// would overflow a signed difference and wrap into range
		if value > uint64(base)+uint64(maxRange) || value+uint64(maxRange) < uint64(base) {
			continue
		}
		offset := int64(value) - int64(base)

		rewritten.WriteString(operands[last:span[0]])
		rewritten.WriteString(relativeAddress(offset))
		last = span[1]

		matches = append(matches, Match{
			ByteOffset: span[0],
			Address:    uint32(value),
			Offset:     offset,
		})
	}
	if matches == nil {
		return operands, nil
	}

	rewritten.WriteString(operands[last:])
	return rewritten.String(), matches
}

// relativeAddress formats an offset as placeholder token with explicit sign.
func relativeAddress(offset int64) string {
	if offset < 0 {
		return fmt.Sprintf("%s-0x%X", Placeholder, -offset)
	}
	return fmt.Sprintf("%s+0x%X", Placeholder, offset)
}
