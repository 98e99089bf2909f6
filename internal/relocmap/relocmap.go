// Package relocmap implements the relocation map generation engine.
package relocmap

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/relocmap/internal/decoder"
	"github.com/retroenv/relocmap/internal/descriptor"
	"github.com/retroenv/relocmap/internal/image"
	"github.com/retroenv/relocmap/internal/options"
	"github.com/retroenv/retrogolib/log"
)

const progressInterval = 100

// Mapper generates relocation descriptors for a list of candidate addresses.
type Mapper struct {
	logger  *log.Logger
	options options.Engine

	dec decoder.Decoder
	img *image.Image
}

// New creates a new relocation mapper that uses the passed decoder to
// recognize instructions in the image.
func New(logger *log.Logger, img *image.Image, dec decoder.Decoder,
	opts options.Engine) *Mapper {

	return &Mapper{
		logger:  logger,
		options: opts,
		dec:     dec,
		img:     img,
	}
}

// Process generates descriptors for all candidate addresses and returns
// the accumulated result. A single address failing never aborts the run,
// each address ends in one of the four outcomes and is counted. Context
// cancellation between addresses returns the partial result and the
// context error.
func (m *Mapper) Process(ctx context.Context, addresses []uint32) (*Result, error) {
	result := NewResult(Metadata{
		MemoryBase:  m.options.ReferenceBase,
		ImageBase:   m.img.Base(),
		Description: m.options.Description,
	})

	for i, addr := range addresses {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if i > 0 && i%progressInterval == 0 {
			m.logger.Info("Progress",
				log.Int("processed", i),
				log.Int("total", len(addresses)))
		}

		outcome := m.processAddress(result, addr)
		result.Stats.count(outcome)
	}

	result.Metadata.TotalInstructions = result.Stats.Described
	m.logSummary(result)
	return result, nil
}

// processAddress runs one candidate address through validation, decoding
// and descriptor building and returns its outcome.
func (m *Mapper) processAddress(result *Result, addr uint32) Outcome {
	window, err := m.img.Window(addr, m.options.BytesToRead)
	if err != nil {
		m.logger.Debug("Address out of range",
			log.Hex("address", addr),
			log.Err(err))
		return OutOfRange
	}

	ins, err := m.dec.DecodeOne(window, addr)
	switch {
	case errors.Is(err, decoder.ErrNoInstruction):
		m.logger.Debug("No instruction found", log.Hex("address", addr))
		return DecodeFailed

	case err != nil:
		m.logger.Error("Decoding failed",
			log.Hex("address", addr),
			log.Err(err))
		return DecodeError
	}

	desc := m.buildDescriptor(ins)
	// the decoder reported address is authoritative for the map key
	result.Put(descriptor.AddressKey(ins.Address), desc)

	m.logger.Debug("Instruction described",
		log.Hex("address", ins.Address),
		log.String("mnemonic", ins.Mnemonic),
		log.Int("length", ins.Length))
	return Described
}

func (m *Mapper) buildDescriptor(ins decoder.Instruction) descriptor.Descriptor {
	if m.options.Format == options.FormatText {
		return descriptor.BuildText(ins, m.options.ReferenceBase, m.options.MaxRange)
	}
	return descriptor.BuildBytes(ins, m.options.ReferenceBase, m.options.MaxRange)
}

func (m *Mapper) logSummary(result *Result) {
	stats := result.Stats
	m.logger.Info("Run finished",
		log.Int("total", stats.Total),
		log.Int("described", stats.Described),
		log.Int("out_of_range", stats.OutOfRange),
		log.Int("decode_failed", stats.DecodeFailed),
		log.Int("decode_errors", stats.DecodeError),
		log.String("success_rate", fmt.Sprintf("%.2f%%", stats.SuccessRate()*100)))
}
