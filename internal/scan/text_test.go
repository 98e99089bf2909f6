package scan

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name        string
		operands    string
		want        string
		wantMatches int
	}{
		{
			name:        "literal in range",
			operands:    "[0x1CF408E]",
			want:        "[<memory_base>+0x2A]",
			wantMatches: 1,
		},
		{
			name:        "literal equal to base",
			operands:    "eax, 0x1CF4064",
			want:        "eax, <memory_base>+0x0",
			wantMatches: 1,
		},
		{
			name:        "negative offset",
			operands:    "[esi+0x1CF4054]",
			want:        "[esi+<memory_base>-0x10]",
			wantMatches: 1,
		},
		{
			name:        "literal outside range stays unchanged",
			operands:    "[eax+0x400000]",
			want:        "[eax+0x400000]",
			wantMatches: 0,
		},
		{
			name:        "mixed literals",
			operands:    "dword ptr [eax*4+0x1CF4064], 0x10",
			want:        "dword ptr [eax*4+<memory_base>+0x0], 0x10",
			wantMatches: 1,
		},
		{
			name:        "lowercase literal",
			operands:    "[0x1cf408e]",
			want:        "[<memory_base>+0x2A]",
			wantMatches: 1,
		},
		{
			name:        "multiple replacements",
			operands:    "0x1CF4064, 0x1CF4065",
			want:        "<memory_base>+0x0, <memory_base>+0x1",
			wantMatches: 2,
		},
		{
			name:        "literal too large to parse stays unchanged",
			operands:    "[0xFFFFFFFFFFFFFFFFF]",
			want:        "[0xFFFFFFFFFFFFFFFFF]",
			wantMatches: 0,
		},
		{
			name:        "distant 64 bit literal stays unchanged",
			operands:    "[0x8000000001CF4064]",
			want:        "[0x8000000001CF4064]",
			wantMatches: 0,
		},
		{
			name:        "maximum 64 bit literal stays unchanged",
			operands:    "[0xFFFFFFFFFFFFFFFF]",
			want:        "[0xFFFFFFFFFFFFFFFF]",
			wantMatches: 0,
		},
		{
			name:        "no literals",
			operands:    "eax, ebx",
			want:        "eax, ebx",
			wantMatches: 0,
		},
		{
			name:        "empty operand text",
			operands:    "",
			want:        "",
			wantMatches: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matches := Text(tt.operands, testBase, testMaxRange)
			assert.Equal(t, tt.want, got)
			assert.Len(t, matches, tt.wantMatches)
		})
	}
}

func TestTextMatchDetails(t *testing.T) {
	_, matches := Text("[0x1CF408E]", testBase, testMaxRange)

	assert.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].ByteOffset)
	assert.Equal(t, uint32(0x1CF408E), matches[0].Address)
	assert.Equal(t, int64(0x2A), matches[0].Offset)
}
