package relocmap

import (
	"errors"

	"github.com/retroenv/relocmap/internal/decoder"
)

// mockDecoder is a minimal decoder for testing, it returns preconfigured
// instructions per address.
type mockDecoder struct {
	instructions map[uint32]decoder.Instruction
	err          error
}

func newMockDecoder() *mockDecoder {
	return &mockDecoder{
		instructions: map[uint32]decoder.Instruction{},
	}
}

func (m *mockDecoder) DecodeOne(_ []byte, addr uint32) (decoder.Instruction, error) {
	if m.err != nil {
		return decoder.Instruction{}, m.err
	}
	ins, ok := m.instructions[addr]
	if !ok {
		return decoder.Instruction{}, decoder.ErrNoInstruction
	}
	return ins, nil
}

var errMockDecoder = errors.New("mock decoder failure")
