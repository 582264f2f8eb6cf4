// Package directive decodes raw bytes of data regions into word, half-word, byte and ASCII directives.
package directive

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/pos"
)

var (
	_ Directive = Dw(0)
	_ Directive = Dh(0)
	_ Directive = Db(0)
	_ Directive = Ascii("")
)

// Directive is a non-instruction interpretation of bytes.
type Directive interface {
	// Size returns the number of bytes the directive covers.
	Size() uint32
	// Mnemonic returns the assembler directive name.
	Mnemonic() string
	// Args returns the rendered argument.
	Args() []arg.Arg
	// Write writes the bytes the directive stands for.
	Write(w io.Writer) error

	isDirective()
}

// Dw is a word directive.
type Dw uint32

// Dh is a half-word directive.
type Dh uint16

// Db is a byte directive.
type Db uint8

// Ascii is a null padded ASCII string directive.
type Ascii string

func (Dw) Size() uint32 { return 4 }
func (Dh) Size() uint32 { return 2 }
func (Db) Size() uint32 { return 1 }

// Size returns the string length rounded up to the next word, a string with a length
// that is a multiple of 4 gets a full word of padding.
func (a Ascii) Size() uint32 {
	n := uint32(len(a))
	return n + 4 - n%4
}

func (Dw) Mnemonic() string    { return "dw" }
func (Dh) Mnemonic() string    { return "dh" }
func (Db) Mnemonic() string    { return "db" }
func (Ascii) Mnemonic() string { return ".ascii" }

// Args returns the value as target, words are likely to be pointers.
func (d Dw) Args() []arg.Arg    { return []arg.Arg{arg.Tgt(pos.Pos(d))} }
func (d Dh) Args() []arg.Arg    { return []arg.Arg{arg.Lit(int64(d))} }
func (d Db) Args() []arg.Arg    { return []arg.Arg{arg.Lit(int64(d))} }
func (a Ascii) Args() []arg.Arg { return []arg.Arg{arg.Str(string(a))} }

func (d Dw) Write(w io.Writer) error {
	return writeLE(w, uint32(d))
}

func (d Dh) Write(w io.Writer) error {
	return writeLE(w, uint16(d))
}

func (d Db) Write(w io.Writer) error {
	return writeLE(w, uint8(d))
}

func (a Ascii) Write(w io.Writer) error {
	buf := make([]byte, a.Size())
	copy(buf, a)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("writing string: %w", err)
	}
	return nil
}

func writeLE(w io.Writer, value any) error {
	if err := binary.Write(w, binary.LittleEndian, value); err != nil {
		return fmt.Errorf("writing value: %w", err)
	}
	return nil
}

func (Dw) isDirective()    {}
func (Dh) isDirective()    {}
func (Db) isDirective()    {}
func (Ascii) isDirective() {}
