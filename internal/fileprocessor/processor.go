// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/psxdisasm/internal/options"
	"github.com/retroenv/psxdisasm/internal/pipeline"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, disasmOptions options.Disassembler) error {
	return processFile(ctx, logger, opts, disasmOptions, os.Stdout)
}

func processFile(ctx context.Context, logger *log.Logger, opts options.Program,
	disasmOptions options.Disassembler, stdout io.Writer) error {

	writer, err := createWriter(opts, stdout)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}

	pipe := pipeline.New(logger)
	if _, err := pipe.Execute(ctx, opts, disasmOptions, writer, stdout); err != nil {
		_ = writer.Close()
		return fmt.Errorf("processing %s: %w", opts.Input, err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing output file %s: %w", opts.Output, err)
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates output filename for a given input file
func GenerateOutputFilename(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + ".asm"
}

func createWriter(opts options.Program, stdout io.Writer) (io.WriteCloser, error) {
	if opts.Output == "" {
		return &nopCloser{stdout}, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("psxdisasm", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}

// nopCloser wraps an io.Writer to add a no-op Close method
type nopCloser struct {
	io.Writer
}

func (nc *nopCloser) Close() error {
	return nil
}
