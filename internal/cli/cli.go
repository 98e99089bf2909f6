// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/retroenv/relocmap/internal/options"
)

// ParseFlags parses command line flags and returns program and engine options
func ParseFlags() (options.Program, options.Engine, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 || opts.Addresses == "" {
		return opts, options.Engine{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Engine{}, err
	}
	opts.Input = args[0]

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Engine{}, err
	}

	engineOpts, err := createEngineOptions(opts)
	if err != nil {
		return opts, options.Engine{}, err
	}

	return opts, engineOpts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: relocmap -csv <address list> [options] <binary file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to analyze, please pass the binary file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	switch options.Format(opts.Format) {
	case options.FormatBytes, options.FormatText:
	default:
		return fmt.Errorf("unsupported format: %s. Valid options: %s, %s",
			opts.Format, options.FormatBytes, options.FormatText)
	}

	if len([]rune(opts.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", opts.Delimiter)
	}
	if opts.BytesToRead < 1 {
		return fmt.Errorf("bytes-to-read must be at least 1, got %d", opts.BytesToRead)
	}
	return nil
}

// createEngineOptions creates engine options from the parsed program options
func createEngineOptions(opts options.Program) (options.Engine, error) {
	engineOpts := options.NewEngine()
	engineOpts.Format = options.Format(opts.Format)
	engineOpts.Description = opts.Description
	engineOpts.BytesToRead = opts.BytesToRead

	var err error
	if engineOpts.ImageBase, err = parseAddress(opts.ImageBase); err != nil {
		return engineOpts, fmt.Errorf("parsing image base: %w", err)
	}
	if engineOpts.ReferenceBase, err = parseAddress(opts.MemoryBase); err != nil {
		return engineOpts, fmt.Errorf("parsing memory base: %w", err)
	}
	if engineOpts.MaxRange, err = parseAddress(opts.MaxRange); err != nil {
		return engineOpts, fmt.Errorf("parsing max range: %w", err)
	}
	return engineOpts, nil
}

// parseAddress parses a hex or decimal address value
func parseAddress(value string) (uint32, error) {
	addr, err := strconv.ParseUint(value, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address value %q: %w", value, err)
	}
	return uint32(addr), nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Addresses, "csv", "", "name of the CSV file containing the instruction addresses to process")
	flags.StringVar(&opts.Output, "o", "", "name of the output .toml file, printed on console if no name given")
	flags.StringVar(&opts.Format, "format", string(options.FormatBytes), "descriptor format of the generated map (bytes/text)")
	flags.StringVar(&opts.ImageBase, "image-base", "0x400000", "virtual address of the first byte of the binary image")
	flags.StringVar(&opts.MemoryBase, "memory-base", "0x01CF4064", "reference base address used to compute relocation offsets")
	flags.StringVar(&opts.MaxRange, "max-range", "0x10000", "maximum distance from the memory base for a value to count as a reference")
	flags.IntVar(&opts.BytesToRead, "bytes-to-read", options.DefaultBytesToRead, "number of bytes to read per instruction")
	flags.StringVar(&opts.Delimiter, "delimiter", "\t", "delimiter of the CSV file")
	flags.StringVar(&opts.Description, "description", "instructions pre-patched for runtime relocation", "description stored in the map metadata")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the generated output by parsing it back and comparing it to the run result")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
