// Package options contains the program options.
package options

import (
	"github.com/retroenv/psxdisasm/internal/pos"
)

// DefaultBaseAddress is the load address of a raw binary, the usual destination of a PS-X EXE.
const DefaultBaseAddress = 0x80010000

// Parameters contains file path options.
type Parameters struct {
	Input       string   `flag:"i" usage:"input PS-X EXE file"`
	Output      string   `flag:"o" usage:"output .asm file (default: stdout)"`
	Config      string   `flag:"c" usage:"analysis config file (.yaml)"`
	DataCatalog []string `flag:"data-catalog" usage:"known data catalog file (.yaml)"`
	FuncCatalog []string `flag:"func-catalog" usage:"known function catalog file (.yaml)"`
	Batch       string   `flag:"batch" usage:"batch process files matching pattern (e.g. *.exe)"`
	ExportData  string   `flag:"export-data" usage:"write the final data table as catalog file"`
	ExportFuncs string   `flag:"export-funcs" usage:"write the final function table as catalog file"`
}

// Flags contains behavior options.
type Flags struct {
	Binary       bool   `flag:"binary" usage:"treat input as raw binary without header"`
	BaseAddress  uint32 `flag:"base" usage:"load address of a raw binary"`
	NoHeuristics bool   `flag:"noheuristics" usage:"only use the known data and function catalogs"`
	Verify       bool   `flag:"verify" usage:"verify that the decoded items encode back to the input"`
	Debug        bool   `flag:"debug" usage:"enable debug logging"`
	Quiet        bool   `flag:"q" usage:"quiet mode"`
}

// OutputFlags contains output formatting options.
type OutputFlags struct {
	NoHexComments bool `flag:"nohexcomments" usage:"omit hex instruction words in comments"`
	NoOffsets     bool `flag:"nooffsets" usage:"omit positions in comments"`
	Tree          bool `flag:"tree" usage:"print the data region tree"`
	FuncReport    bool `flag:"funcs" usage:"print the function table"`
	DataReport    bool `flag:"data" usage:"print the data table"`
}

// Program options of the disassembler.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

// Disassembler defines options to control the analysis and the listing.
type Disassembler struct {
	Binary      bool    // input has no PS-X EXE header
	BaseAddress pos.Pos // load address of a raw binary
	Heuristics  bool    // discover data and functions beyond the catalogs

	HexComments    bool
	OffsetComments bool
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler() Disassembler {
	return Disassembler{
		BaseAddress: DefaultBaseAddress,
		Heuristics:  true,

		HexComments:    true,
		OffsetComments: true,
	}
}
