// Package detector handles executable format detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/psxdisasm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Format is the file format of an input file.
type Format string

// Supported input formats.
const (
	PSXExe Format = "psx-exe"
	Binary Format = "binary"
)

func (f Format) String() string {
	return string(f)
}

// Detector handles input format detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the input format from options or file auto-detection.
// An explicit binary option always wins, otherwise the input filename extension
// is checked.
func (d *Detector) Detect(opts options.Program, disasmOpts options.Disassembler) Format {
	if disasmOpts.Binary {
		return Binary
	}

	format := d.detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected format",
		log.Stringer("format", format),
		log.String("file", opts.Input))
	return format
}

// detectFromFile determines the format based on file extension.
func (d *Detector) detectFromFile(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".bin", ".raw":
		return Binary
	default:
		// disc images name executables like SLUS_123.45, treat unknown extensions as PS-X EXE
		return PSXExe
	}
}
