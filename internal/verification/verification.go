// Package verification verifies that a written relocation map can be
// parsed back and matches the run result it was generated from.
package verification

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/relocmap/internal/descriptor"
	"github.com/retroenv/relocmap/internal/options"
	"github.com/retroenv/relocmap/internal/relocmap"
	"github.com/retroenv/relocmap/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// VerifyOutput parses the written output file and compares it entry by
// entry against the in-memory run result.
func VerifyOutput(logger *log.Logger, opts options.Program, result *relocmap.Result) error {
	if opts.Output == "" {
		return errors.New("can not verify console output")
	}

	file, err := os.Open(opts.Output)
	if err != nil {
		return fmt.Errorf("opening output file %s: %w", opts.Output, err)
	}
	defer func() { _ = file.Close() }()

	doc, err := writer.ParseResult(file)
	if err != nil {
		return fmt.Errorf("parsing output file: %w", err)
	}

	if err := verifyMetadata(doc, result); err != nil {
		return err
	}
	return verifyInstructions(logger, doc, result)
}

func verifyMetadata(doc *writer.Document, result *relocmap.Result) error {
	meta := result.Metadata
	if got, want := doc.Metadata.MemoryBase, descriptor.AddressKey(meta.MemoryBase); got != want {
		return fmt.Errorf("memory base mismatch, %s != %s", got, want)
	}
	if got, want := doc.Metadata.ImageBase, descriptor.AddressKey(meta.ImageBase); got != want {
		return fmt.Errorf("image base mismatch, %s != %s", got, want)
	}
	if got, want := doc.Metadata.TotalInstructions, meta.TotalInstructions; got != want {
		return fmt.Errorf("instruction count mismatch, %d != %d", got, want)
	}
	return nil
}

func verifyInstructions(logger *log.Logger, doc *writer.Document, result *relocmap.Result) error {
	if len(doc.Instructions) != result.Len() {
		return fmt.Errorf("mismatched instruction counts, %d != %d",
			len(doc.Instructions), result.Len())
	}

	for _, key := range result.Keys() {
		desc, _ := result.Get(key)
		value, ok := doc.Instructions[key]
		if !ok {
			return fmt.Errorf("missing instruction %s", key)
		}
		if err := verifyEntry(key, desc, value); err != nil {
			return err
		}
		logger.Debug("Instruction verified", log.String("address", key))
	}
	return nil
}

func verifyEntry(key string, desc descriptor.Descriptor, value any) error {
	switch desc.Kind {
	case descriptor.KindText:
		text, ok := value.(string)
		if !ok || text != desc.Text {
			return fmt.Errorf("text mismatch for %s: %v", key, value)
		}

	default:
		table, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("expected table for %s, got %T", key, value)
		}
		if table["bytes"] != desc.MaskedBytes {
			return fmt.Errorf("bytes mismatch for %s: %v", key, table["bytes"])
		}
		if table["offset"] != desc.Offset {
			return fmt.Errorf("offset mismatch for %s: %v", key, table["offset"])
		}
	}
	return nil
}
