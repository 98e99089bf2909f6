// Package writer implements relocation map document writing.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/retroenv/relocmap/internal/descriptor"
	"github.com/retroenv/relocmap/internal/relocmap"
)

// Writer writes a run result as a TOML document. Byte-masked descriptors
// are written as inline tables, text-substituted descriptors as plain
// strings, entries keep the insertion order of the run.
type Writer struct {
	result *relocmap.Result
	writer io.Writer
}

// New creates a new writer.
func New(result *relocmap.Result, writer io.Writer) *Writer {
	return &Writer{
		result: result,
		writer: writer,
	}
}

// Write writes the metadata table and the instructions table.
func (w *Writer) Write() error {
	if err := w.writeMetadata(); err != nil {
		return err
	}
	return w.writeInstructions()
}

func (w *Writer) writeMetadata() error {
	meta := w.result.Metadata
	_, err := fmt.Fprintf(w.writer, "[metadata]\n"+
		"memory_base = %s\n"+
		"image_base = %s\n"+
		"total_instructions = %d\n"+
		"description = %s\n",
		tomlString(descriptor.AddressKey(meta.MemoryBase)),
		tomlString(descriptor.AddressKey(meta.ImageBase)),
		meta.TotalInstructions,
		tomlString(meta.Description))
	if err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

func (w *Writer) writeInstructions() error {
	if _, err := fmt.Fprintf(w.writer, "\n[instructions]\n"); err != nil {
		return fmt.Errorf("writing instructions table: %w", err)
	}

	for _, key := range w.result.Keys() {
		desc, _ := w.result.Get(key)

		var err error
		switch desc.Kind {
		case descriptor.KindText:
			_, err = fmt.Fprintf(w.writer, "%s = %s\n",
				tomlString(key), tomlString(desc.Text))
		default:
			_, err = fmt.Fprintf(w.writer, "%s = { bytes = %s, offset = %s }\n",
				tomlString(key), tomlString(desc.MaskedBytes), tomlString(desc.Offset))
		}
		if err != nil {
			return fmt.Errorf("writing instruction %s: %w", key, err)
		}
	}
	return nil
}

// tomlString renders s as a TOML basic string, Go escape sequences like
// \x1f are not valid TOML so control characters use \uXXXX form.
func tomlString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Document is the parsed form of a written relocation map.
type Document struct {
	Metadata struct {
		MemoryBase        string `toml:"memory_base"`
		ImageBase         string `toml:"image_base"`
		TotalInstructions int    `toml:"total_instructions"`
		Description       string `toml:"description"`
	} `toml:"metadata"`

	// values are a string for text descriptors or a table with
	// bytes and offset fields for byte-masked descriptors
	Instructions map[string]any `toml:"instructions"`
}

// ParseResult parses a written relocation map document. It is used to
// verify that generated output round-trips through a TOML parser.
func ParseResult(r io.Reader) (*Document, error) {
	var doc Document
	if err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return &doc, nil
}
