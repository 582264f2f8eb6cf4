// Package loader handles executable file loading operations.
package loader

import (
	"fmt"
	"os"

	"github.com/retroenv/psxdisasm/internal/options"
	"github.com/retroenv/psxdisasm/internal/pos"
)

// Executable is the loaded code of a PS-X EXE or raw binary file.
type Executable struct {
	Header *Header // nil for raw binaries
	Start  pos.Pos // load address of the first code byte
	Code   []byte
}

// Range returns the positions covered by the code.
func (e *Executable) Range() pos.Range {
	return pos.Range{Start: e.Start, End: e.Start.Add(uint32(len(e.Code)))}
}

// Entry returns the entry point, for raw binaries the start of the code.
func (e *Executable) Entry() pos.Pos {
	if e.Header == nil {
		return e.Start
	}
	return pos.Pos(e.Header.PC0)
}

// Bytes returns the file contents the executable was loaded from.
func (e *Executable) Bytes() []byte {
	if e.Header == nil {
		return e.Code
	}
	return append(e.Header.Bytes(), e.Code...)
}

// Loader handles loading executable files from disk.
type Loader struct{}

// New creates a new executable loader.
func New() *Loader {
	return &Loader{}
}

// Load loads and parses an executable file based on the options.
// It supports the PS-X EXE format and raw binary mode.
func (l *Loader) Load(opts options.Program, disasmOpts options.Disassembler) (*Executable, error) {
	b, err := os.ReadFile(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}

	exe, err := l.LoadFromBytes(b, disasmOpts.Binary, disasmOpts.BaseAddress)
	if err != nil {
		return nil, fmt.Errorf("loading executable: %w", err)
	}
	return exe, nil
}

// LoadFromBytes parses an executable from memory. Raw binaries are placed at base.
func (l *Loader) LoadFromBytes(b []byte, binary bool, base pos.Pos) (*Executable, error) {
	if binary {
		if uint64(base)+uint64(len(b)) > 1<<32 {
			return nil, fmt.Errorf("binary of %#x bytes does not fit at %s", len(b), base)
		}
		return &Executable{Start: base, Code: b}, nil
	}

	header, err := ParseHeader(b)
	if err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}

	code := b[HeaderSize:]
	if uint64(len(code)) < uint64(header.Size) {
		return nil, fmt.Errorf("%w: header declares %#x code bytes, got %#x", ErrTruncated, header.Size, len(code))
	}
	if uint64(header.Dest)+uint64(header.Size) > 1<<32 {
		return nil, fmt.Errorf("code of %#x bytes does not fit at %s", header.Size, header.Dest)
	}

	return &Executable{
		Header: &header,
		Start:  header.Dest,
		Code:   code[:header.Size],
	}, nil
}
