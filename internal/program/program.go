// Package program represents an analysed PlayStation executable.
package program

import (
	"github.com/retroenv/psxdisasm/internal/data"
	"github.com/retroenv/psxdisasm/internal/funcs"
	"github.com/retroenv/psxdisasm/internal/inst"
	"github.com/retroenv/psxdisasm/internal/inst/directive"
	"github.com/retroenv/psxdisasm/internal/loader"
	"github.com/retroenv/psxdisasm/internal/pos"
)

// Program is an executable with its final data and function tables.
// The tables are read-only once the program is created.
type Program struct {
	Exe     *loader.Executable
	Data    *data.Table
	Funcs   *funcs.Table
	Decoder *inst.Decoder
}

// New creates a new program. Missing tables are replaced by empty ones.
func New(exe *loader.Executable, dataTable *data.Table, funcTable *funcs.Table,
	force *directive.ForceTable) *Program {

	if dataTable == nil {
		dataTable = data.NewTable()
	}
	if funcTable == nil {
		funcTable = funcs.NewTable()
	}

	return &Program{
		Exe:   exe,
		Data:  dataTable,
		Funcs: funcTable,
		Decoder: &inst.Decoder{
			Data:  dataTable,
			Funcs: funcTable,
			Force: force,
		},
	}
}

// Range returns the positions covered by the code.
func (p *Program) Range() pos.Range {
	return p.Exe.Range()
}

// DecodeRange returns an iterator over the items of r, clipped to the code range.
func (p *Program) DecodeRange(r pos.Range) *inst.DecodeIter {
	code := p.Range()
	start := min(max(r.Start, code.Start), code.End)
	end := min(r.End, code.End)
	if end < start {
		end = start
	}
	from := uint32(start - code.Start)
	to := uint32(end - code.Start)
	return p.Decoder.Iter(start, p.Exe.Code[from:to])
}

// Items returns an iterator over the functions, data regions and unknown ranges of the code.
func (p *Program) Items() *ItemIter {
	return &ItemIter{
		program: p,
		cur:     p.Range().Start,
	}
}
