// Package inst decides for every position of an executable whether it holds a directive,
// a pseudo instruction or a basic instruction.
package inst

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/inst/basic"
	"github.com/retroenv/psxdisasm/internal/inst/directive"
	"github.com/retroenv/psxdisasm/internal/inst/pseudo"
	"github.com/retroenv/psxdisasm/internal/pos"
)

var (
	_ Inst = Basic{}
	_ Inst = Pseudo{}
	_ Inst = Directive{}
)

// Inst is a decoded item at a position, either Basic, Pseudo or Directive.
type Inst interface {
	// Size returns the number of bytes covered.
	Size() uint32
	// Mnemonic returns the assembler mnemonic.
	Mnemonic() string
	// Args returns the rendered arguments for the item at position p.
	Args(p pos.Pos) []arg.Arg
	// Write writes the little endian bytes the item stands for.
	Write(w io.Writer) error

	isInst()
}

// Basic is a single machine instruction.
type Basic struct {
	basic.Inst
}

// Size returns the size of a machine instruction.
func (Basic) Size() uint32 {
	return basic.Size
}

func (i Basic) Write(w io.Writer) error {
	return writeWords(w, i.Encode())
}

func (Basic) isInst() {}

// Pseudo is a pseudo instruction standing for one or more machine instructions.
type Pseudo struct {
	pseudo.Inst
}

func (i Pseudo) Write(w io.Writer) error {
	return writeWords(w, pseudo.Encode(i.Inst)...)
}

func (Pseudo) isInst() {}

// Directive is a data directive.
type Directive struct {
	directive.Directive
}

// Args returns the directive argument, directives do not depend on their position.
func (i Directive) Args(pos.Pos) []arg.Arg {
	return i.Directive.Args()
}

func (Directive) isInst() {}

func writeWords(w io.Writer, words ...uint32) error {
	if err := binary.Write(w, binary.LittleEndian, words); err != nil {
		return fmt.Errorf("writing instruction: %w", err)
	}
	return nil
}

// ExpectsDelaySlot returns whether the instruction is followed by a branch delay slot.
func ExpectsDelaySlot(ins Inst) bool {
	switch v := ins.(type) {
	case Basic:
		return basic.ExpectsDelaySlot(v.Inst)
	case Pseudo:
		_, ok := v.Inst.(pseudo.ZeroBranch)
		return ok
	default:
		return false
	}
}

// Text renders the instruction at position p, resolving targets with the optional resolver.
func Text(p pos.Pos, ins Inst, resolver arg.LabelResolver) string {
	return arg.Join(ins.Mnemonic(), ins.Args(p), resolver)
}
