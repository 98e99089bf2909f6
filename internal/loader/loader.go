// Package loader handles input file loading operations.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/relocmap/internal/image"
	"github.com/retroenv/retrogolib/log"
)

// Loader handles loading the binary image and the candidate address list.
type Loader struct {
	logger *log.Logger
}

// New creates a new input loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// LoadImage reads the binary file and returns it as an image with the
// given base address.
func (l *Loader) LoadImage(path string, base uint32) (*image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading binary file %s: %w", path, err)
	}

	l.logger.Info("Binary image loaded",
		log.String("file", path),
		log.Int("size", len(data)),
		log.Hex("image_base", base))

	return image.New(data, base), nil
}

// LoadAddresses reads the candidate addresses from a CSV file. The first
// column of each row must be a 0x prefixed hex address, other rows are
// skipped. Malformed addresses are counted and logged but do not fail
// the load.
func (l *Loader) LoadAddresses(path string, delimiter rune) ([]uint32, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	addresses, invalid, err := l.readAddresses(file, delimiter)
	if err != nil {
		return nil, fmt.Errorf("reading CSV file %s: %w", path, err)
	}

	l.logger.Info("Candidate addresses loaded",
		log.String("file", path),
		log.Int("valid", len(addresses)))
	if invalid > 0 {
		l.logger.Warn("Invalid addresses skipped", log.Int("count", invalid))
	}
	return addresses, nil
}

func (l *Loader) readAddresses(r io.Reader, delimiter rune) ([]uint32, int, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var addresses []uint32
	invalid := 0

	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return addresses, invalid, nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				invalid++
				l.logger.Warn("Skipping malformed row",
					log.Int("line", line),
					log.Err(err))
				continue
			}
			return nil, invalid, err
		}

		if len(record) == 0 {
			continue
		}
		field := strings.TrimSpace(record[0])
		if !strings.HasPrefix(field, "0x") {
			l.logger.Debug("Skipping row without address", log.Int("line", line))
			continue
		}

		addr, err := strconv.ParseUint(field[2:], 16, 32)
		if err != nil {
			invalid++
			l.logger.Warn("Invalid address",
				log.Int("line", line),
				log.String("value", field))
			continue
		}
		addresses = append(addresses, uint32(addr))
	}
}
