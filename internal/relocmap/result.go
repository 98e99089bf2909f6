package relocmap

import "github.com/retroenv/relocmap/internal/descriptor"

// Outcome classifies the processing result of one candidate address.
type Outcome uint8

// Terminal outcomes of processing one candidate address.
const (
	Described    Outcome = iota // decode and build succeeded
	OutOfRange                  // bounds check failed before any decode attempt
	DecodeFailed                // decoder found no valid instruction
	DecodeError                 // unexpected decoder failure
)

func (o Outcome) String() string {
	switch o {
	case Described:
		return "described"
	case OutOfRange:
		return "out of range"
	case DecodeFailed:
		return "decode failed"
	case DecodeError:
		return "decode error"
	default:
		return "unknown"
	}
}

// Stats accumulates the per outcome counters of one run.
type Stats struct {
	Total        int
	Described    int
	OutOfRange   int
	DecodeFailed int
	DecodeError  int
}

func (s *Stats) count(outcome Outcome) {
	s.Total++
	switch outcome {
	case Described:
		s.Described++
	case OutOfRange:
		s.OutOfRange++
	case DecodeFailed:
		s.DecodeFailed++
	case DecodeError:
		s.DecodeError++
	}
}

// SuccessRate returns the ratio of described addresses, 0 for an empty run.
func (s Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Described) / float64(s.Total)
}

// Metadata describes a finished run.
type Metadata struct {
	MemoryBase        uint32
	ImageBase         uint32
	TotalInstructions int
	Description       string
}

// Result is the relocation map produced by one run. The mapping keeps
// insertion order, a duplicate key replaces the stored descriptor but
// keeps the position of the first insertion.
type Result struct {
	Metadata Metadata
	Stats    Stats

	keys    []string
	mapping map[string]descriptor.Descriptor
}

// NewResult creates a new empty result for the given run metadata.
func NewResult(meta Metadata) *Result {
	return &Result{
		Metadata: meta,
		mapping:  map[string]descriptor.Descriptor{},
	}
}

// Put inserts or replaces the descriptor stored for key.
func (r *Result) Put(key string, desc descriptor.Descriptor) {
	if _, ok := r.mapping[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.mapping[key] = desc
}

// Get returns the descriptor stored for key.
func (r *Result) Get(key string) (descriptor.Descriptor, bool) {
	desc, ok := r.mapping[key]
	return desc, ok
}

// Keys returns the address keys in insertion order.
func (r *Result) Keys() []string {
	return r.keys
}

// Len returns the number of stored descriptors.
func (r *Result) Len() int {
	return len(r.mapping)
}
