// Package main implements the main entry point for a PlayStation executable disassembler
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/psxdisasm/internal/cli"
	"github.com/retroenv/psxdisasm/internal/config"
	"github.com/retroenv/psxdisasm/internal/fileprocessor"
	"github.com/retroenv/psxdisasm/internal/options"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, disasmOptions, err := cli.ParseFlags()
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err != nil {
		var usageErr *cli.UsageError
		if !errors.As(err, &usageErr) {
			logger.Fatal(err.Error())
		}
		fileprocessor.PrintBanner(logger, opts, version, commit, date)
		usageErr.ShowUsage()
		os.Exit(1)
	}

	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	files, err := fileprocessor.GetFilesToProcess(&opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	if err := processFiles(ctx, logger, opts, disasmOptions, files); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		os.Exit(1)
	}
}

// errFilesFailed is returned when at least one executable could not be processed.
var errFilesFailed = errors.New("processing failed")

// processFiles disassembles all files. A failing file is logged and does not stop
// the remaining files, a cancelled context does.
func processFiles(ctx context.Context, logger *log.Logger, opts options.Program,
	disasmOptions options.Disassembler, files []string) error {

	multiple := len(files) > 1 || opts.Batch != ""
	var failed int
	for _, file := range files {
		fileOpts := opts
		fileOpts.Input = file
		if multiple {
			fileOpts.Output = fileprocessor.GenerateOutputFilename(file)
		}

		if err := fileprocessor.ProcessFile(ctx, logger, fileOpts, disasmOptions); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logger.Error("Disassembling failed", log.String("file", file), log.Err(err))
			failed++
		}
	}

	if multiple {
		logger.Info("Batch finished",
			log.Int("files", len(files)),
			log.Int("failed", failed))
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", errFilesFailed, failed, len(files))
	}
	return nil
}
