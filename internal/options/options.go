// Package options contains the program options.
package options

// Format selects the relocation descriptor representation.
type Format string

// Supported descriptor formats.
const (
	FormatBytes Format = "bytes"
	FormatText  Format = "text"
)

// Default engine settings, matching the runtime patcher this tool serves.
const (
	DefaultImageBase     = 0x400000
	DefaultReferenceBase = 0x01CF4064
	DefaultMaxRange      = 0x10000
	DefaultBytesToRead   = 15
)

// Parameters contains file path options.
type Parameters struct {
	Input     string // binary file to analyze, passed as positional argument
	Addresses string // CSV file containing the candidate addresses
	Output    string // output .toml file, stdout if empty
}

// Flags contains behavior options.
type Flags struct {
	Format      string
	Description string
	Delimiter   string
	ImageBase   string
	MemoryBase  string
	MaxRange    string
	BytesToRead int

	Verify bool
	Debug  bool
	Quiet  bool
}

// Program options of the relocation map generator.
type Program struct {
	Parameters
	Flags
}

// Engine defines options to control the relocation mapping engine.
type Engine struct {
	ReferenceBase uint32 // address around which relocatable pointers cluster
	ImageBase     uint32 // virtual address of byte 0 of the binary image
	MaxRange      uint32 // maximum distance from ReferenceBase for a match
	BytesToRead   int    // read window size per instruction

	Format      Format
	Description string
}

// NewEngine returns a new options instance with default options.
func NewEngine() Engine {
	return Engine{
		ReferenceBase: DefaultReferenceBase,
		ImageBase:     DefaultImageBase,
		MaxRange:      DefaultMaxRange,
		BytesToRead:   DefaultBytesToRead,
		Format:        FormatBytes,
	}
}
