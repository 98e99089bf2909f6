// Package fileprocessor handles the complete map generation workflow
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/relocmap/internal/decoder"
	"github.com/retroenv/relocmap/internal/loader"
	"github.com/retroenv/relocmap/internal/options"
	"github.com/retroenv/relocmap/internal/relocmap"
	"github.com/retroenv/relocmap/internal/verification"
	"github.com/retroenv/relocmap/internal/writer"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile runs the complete workflow: load the binary image and the
// candidate addresses, generate the relocation map and write it to the
// configured output.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program,
	engineOpts options.Engine) error {

	load := loader.New(logger)

	img, err := load.LoadImage(opts.Input, engineOpts.ImageBase)
	if err != nil {
		return fmt.Errorf("loading binary image: %w", err)
	}

	addresses, err := load.LoadAddresses(opts.Addresses, []rune(opts.Delimiter)[0])
	if err != nil {
		return fmt.Errorf("loading addresses: %w", err)
	}

	mapper := relocmap.New(logger, img, decoder.NewX86(), engineOpts)
	result, err := mapper.Process(ctx, addresses)
	if err != nil {
		return err
	}

	if err := writeResult(logger, opts, result); err != nil {
		return err
	}

	if opts.Verify {
		if err := verification.VerifyOutput(logger, opts, result); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		logger.Info("Verification successful")
	}
	return nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("relocmap",
		log.String("version", buildinfo.Version(version, commit, date)))
}

func writeResult(logger *log.Logger, opts options.Program, result *relocmap.Result) error {
	var out io.Writer = os.Stdout
	if opts.Output != "" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("creating output file %s: %w", opts.Output, err)
		}
		defer func() { _ = file.Close() }()
		out = file
	}

	if err := writer.New(result, out).Write(); err != nil {
		return fmt.Errorf("writing relocation map: %w", err)
	}

	if opts.Output != "" {
		logger.Info("Relocation map written", log.String("file", opts.Output))
	}
	return nil
}
