package relocmap

import (
	"context"
	"errors"
	"testing"

	"github.com/retroenv/relocmap/internal/decoder"
	"github.com/retroenv/relocmap/internal/descriptor"
	"github.com/retroenv/relocmap/internal/image"
	"github.com/retroenv/relocmap/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func testEngineOptions() options.Engine {
	opts := options.NewEngine()
	opts.ImageBase = 0x1000
	opts.BytesToRead = 8
	return opts
}

func testImage() *image.Image {
	return image.New(make([]byte, 32), 0x1000)
}

func TestProcessOutcomes(t *testing.T) {
	dec := newMockDecoder()
	dec.instructions[0x1000] = decoder.Instruction{
		Address:  0x1000,
		Mnemonic: "lea",
		Length:   6,
		Bytes:    []byte{0x8D, 0x86, 0x64, 0x40, 0xCF, 0x01},
	}

	mapper := New(log.NewTestLogger(t), testImage(), dec, testEngineOptions())

	addresses := []uint32{
		0x1000, // decodes
		0x0FFF, // below image base
		0x1019, // window exceeds image end
		0x1001, // no instruction at this address
	}
	result, err := mapper.Process(context.Background(), addresses)

	assert.NoError(t, err)
	assert.Equal(t, 4, result.Stats.Total)
	assert.Equal(t, 1, result.Stats.Described)
	assert.Equal(t, 2, result.Stats.OutOfRange)
	assert.Equal(t, 1, result.Stats.DecodeFailed)
	assert.Equal(t, 0, result.Stats.DecodeError)
	assert.Equal(t, 1, result.Metadata.TotalInstructions)

	desc, ok := result.Get("0x00001000")
	assert.True(t, ok)
	assert.Equal(t, "8D 86 XX XX XX XX", desc.MaskedBytes)
	assert.Equal(t, "0x0", desc.Offset)
}

func TestProcessDecodeError(t *testing.T) {
	dec := newMockDecoder()
	dec.err = errMockDecoder

	mapper := New(log.NewTestLogger(t), testImage(), dec, testEngineOptions())

	result, err := mapper.Process(context.Background(), []uint32{0x1000})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Stats.DecodeError)
	assert.Equal(t, 0, result.Stats.Described)
	assert.Equal(t, 0, result.Len())
}

func TestProcessEmptyList(t *testing.T) {
	mapper := New(log.NewTestLogger(t), testImage(), newMockDecoder(), testEngineOptions())

	result, err := mapper.Process(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Stats.Total)
	assert.Equal(t, 0.0, result.Stats.SuccessRate())
	assert.Equal(t, 0, result.Len())
	assert.Equal(t, 0, result.Metadata.TotalInstructions)
}

func TestProcessDuplicateKeys(t *testing.T) {
	dec := newMockDecoder()
	dec.instructions[0x1000] = decoder.Instruction{
		Address: 0x1000, Mnemonic: "ret", Length: 1, Bytes: []byte{0xC3},
	}
	dec.instructions[0x1002] = decoder.Instruction{
		Address: 0x1002, Mnemonic: "nop", Length: 1, Bytes: []byte{0x90},
	}
	// second candidate resolving to an already stored key
	dec.instructions[0x1003] = decoder.Instruction{
		Address: 0x1000, Mnemonic: "int3", Length: 1, Bytes: []byte{0xCC},
	}

	mapper := New(log.NewTestLogger(t), testImage(), dec, testEngineOptions())

	result, err := mapper.Process(context.Background(), []uint32{0x1000, 0x1002, 0x1003})

	assert.NoError(t, err)
	assert.Equal(t, 3, result.Stats.Described)
	assert.Equal(t, 2, result.Len())
	// later insertion overwrites the value but keeps the original position
	assert.Equal(t, []string{"0x00001000", "0x00001002"}, result.Keys())
	desc, _ := result.Get("0x00001000")
	assert.Equal(t, "CC", desc.MaskedBytes)
}

func TestProcessUsesDecodedAddress(t *testing.T) {
	dec := newMockDecoder()
	// decoder reports a different address than the candidate
	dec.instructions[0x1004] = decoder.Instruction{
		Address: 0x1006, Mnemonic: "ret", Length: 1, Bytes: []byte{0xC3},
	}

	mapper := New(log.NewTestLogger(t), testImage(), dec, testEngineOptions())

	result, err := mapper.Process(context.Background(), []uint32{0x1004})

	assert.NoError(t, err)
	_, ok := result.Get("0x00001006")
	assert.True(t, ok)
	_, ok = result.Get("0x00001004")
	assert.False(t, ok)
}

func TestProcessTextFormat(t *testing.T) {
	dec := newMockDecoder()
	dec.instructions[0x1000] = decoder.Instruction{
		Address:     0x1000,
		Mnemonic:    "lea",
		OperandText: "eax, [0x1CF408E]",
		Length:      6,
		Bytes:       []byte{0x8D, 0x86, 0x8E, 0x40, 0xCF, 0x01},
	}

	opts := testEngineOptions()
	opts.Format = options.FormatText
	mapper := New(log.NewTestLogger(t), testImage(), dec, opts)

	result, err := mapper.Process(context.Background(), []uint32{0x1000})

	assert.NoError(t, err)
	desc, ok := result.Get("0x00001000")
	assert.True(t, ok)
	assert.Equal(t, descriptor.KindText, desc.Kind)
	assert.Equal(t, "lea eax, [<memory_base>+0x2A]", desc.Text)
}

func TestProcessCancelledContext(t *testing.T) {
	mapper := New(log.NewTestLogger(t), testImage(), newMockDecoder(), testEngineOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := mapper.Process(ctx, []uint32{0x1000})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, result.Stats.Total)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "described", Described.String())
	assert.Equal(t, "out of range", OutOfRange.String())
	assert.Equal(t, "decode failed", DecodeFailed.String())
	assert.Equal(t, "decode error", DecodeError.String())
}

func TestSuccessRate(t *testing.T) {
	stats := Stats{Total: 4, Described: 1}
	assert.Equal(t, 0.25, stats.SuccessRate())

	assert.Equal(t, 0.0, Stats{}.SuccessRate())
}
