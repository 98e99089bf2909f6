// Package scan finds embedded memory references close to a reference base.
package scan

import "encoding/binary"

// Match is one embedded address finding.
type Match struct {
	ByteOffset int    // position where the reference starts, in raw bytes or operand text
	Address    uint32 // the embedded address that was found
	Offset     int64  // embedded address minus reference base, may be negative
}

// Bytes scans raw for little endian 32-bit values within maxRange of base.
// Matches are ordered by ascending start offset and may overlap, the union
// of their 4 byte spans is computed by the masking step. A window shorter
// than 4 bytes yields no matches.
func Bytes(raw []byte, base, maxRange uint32) []Match {
	var matches []Match
	for i := 0; i+4 <= len(raw); i++ {
		value := binary.LittleEndian.Uint32(raw[i:])
		offset := int64(value) - int64(base)
		if abs(offset) > int64(maxRange) {
			continue
		}
		matches = append(matches, Match{
			ByteOffset: i,
			Address:    value,
			Offset:     offset,
		})
	}
	return matches
}

func abs(value int64) int64 {
	if value < 0 {
		return -value
	}
	return value
}
