// Package basic implements decoding and encoding of the fixed width R3000 machine instructions.
//
// Every instruction family is a flat struct implementing Inst. Decoding a word yields at most one
// family; bits that a family does not use must be zero, which keeps Encode the exact inverse of
// Decode for every word that decodes.
package basic

import (
	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
)

// Size is the size in bytes of every basic instruction.
const Size = 4

// Inst is a decoded basic instruction.
type Inst interface {
	// Encode returns the raw instruction word.
	Encode() uint32
	// Mnemonic returns the assembler mnemonic.
	Mnemonic() string
	// Args returns the rendered arguments, p is the position of the instruction.
	Args(p pos.Pos) []arg.Arg
	// ModifiesReg returns whether executing the instruction writes the register.
	ModifiesReg(r register.Register) bool

	isBasic()
}

type decoder func(r raw) (Inst, bool)

// decoders in priority order.
var decoders = []decoder{
	decodeShiftReg,
	decodeJmpReg,
	decodeSys,
	decodeMultDiv,
	decodeAluReg,
	decodeShiftImm,
	decodeJmpImm,
	decodeCond,
	decodeLui,
	decodeAluImm,
	decodeLoad,
	decodeStore,
	decodeCo,
}

// Decode decodes a raw instruction word. It returns false if the word is not a valid instruction.
func Decode(word uint32) (Inst, bool) {
	r := raw(word)
	for _, dec := range decoders {
		if ins, ok := dec(r); ok {
			return ins, true
		}
	}
	return nil, false
}

// ExpectsDelaySlot returns whether the instruction is followed by a branch delay slot.
func ExpectsDelaySlot(ins Inst) bool {
	switch v := ins.(type) {
	case Cond, JmpImm, JmpReg:
		return true
	case Co:
		return v.Kind == CoBranch
	default:
		return false
	}
}

// raw gives access to the bit fields of an instruction word.
type raw uint32

// primary returns bits [31:26].
func (r raw) primary() uint32 {
	return uint32(r) >> 26
}

// funct returns bits [5:0].
func (r raw) funct() uint32 {
	return uint32(r) & 0x3f
}

// s returns the register index in bits [25:21].
func (r raw) s() register.Register {
	return register.FromBits(uint32(r), 21)
}

// t returns the register index in bits [20:16].
func (r raw) t() register.Register {
	return register.FromBits(uint32(r), 16)
}

// d returns the register index in bits [15:11].
func (r raw) d() register.Register {
	return register.FromBits(uint32(r), 11)
}

// shamt returns bits [10:6].
func (r raw) shamt() uint32 {
	return (uint32(r) >> 6) & 0x1f
}

// imm16 returns bits [15:0].
func (r raw) imm16() uint16 {
	return uint16(r)
}

// imm26 returns bits [25:0].
func (r raw) imm26() uint32 {
	return uint32(r) & 0x3ffffff
}

// isSpecial returns whether the word uses the register format with primary opcode 0.
func (r raw) isSpecial() bool {
	return r.primary() == 0
}

func encodeR(s, t, d register.Register, shamt, funct uint32) uint32 {
	return s.Idx()<<21 | t.Idx()<<16 | d.Idx()<<11 | (shamt&0x1f)<<6 | funct&0x3f
}

func encodeI(primary uint32, s, t register.Register, imm uint16) uint32 {
	return primary<<26 | s.Idx()<<21 | t.Idx()<<16 | uint32(imm)
}
