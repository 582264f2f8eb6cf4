// Package pseudo folds one or two basic instructions into pseudo instructions.
package pseudo

import (
	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/inst/basic"
	"github.com/retroenv/psxdisasm/internal/pos"
)

// MaxWindow is the maximum number of basic instructions a pseudo instruction stands for.
const MaxWindow = 2

// Inst is a pseudo instruction.
type Inst interface {
	// Basics returns the basic instructions the pseudo instruction stands for, in order.
	Basics() []basic.Inst
	// Size returns the size in bytes of all basic instructions.
	Size() uint32
	// Mnemonic returns the assembler mnemonic.
	Mnemonic() string
	// Args returns the rendered arguments, p is the position of the first basic instruction.
	Args(p pos.Pos) []arg.Arg

	isPseudo()
}

// Decode returns the longest pseudo instruction matching at the head of window.
// Only the first MaxWindow instructions of the window are inspected.
func Decode(window []basic.Inst) (Inst, bool) {
	if len(window) == 0 {
		return nil, false
	}

	if lui, ok := window[0].(basic.Lui); ok && len(window) > 1 {
		if ins, ok := decodeFused(lui, window[1]); ok {
			return ins, true
		}
	}
	return decodeSingle(window[0])
}

// Encode returns the raw words of the basic instructions of a pseudo instruction.
func Encode(ins Inst) []uint32 {
	basics := ins.Basics()
	words := make([]uint32, len(basics))
	for i, b := range basics {
		words[i] = b.Encode()
	}
	return words
}

func decodeFused(lui basic.Lui, next basic.Inst) (Inst, bool) {
	if ins, ok := decodeLoadImm(lui, next); ok {
		return ins, true
	}
	if ins, ok := decodeLoad(lui, next); ok {
		return ins, true
	}
	return decodeStore(lui, next)
}

func decodeSingle(ins basic.Inst) (Inst, bool) {
	switch v := ins.(type) {
	case basic.ShiftImm:
		if v == (basic.ShiftImm{}) {
			return Nop{}, true
		}

	case basic.AluReg:
		return decodeMoveReg(v)

	case basic.AluImm:
		if ins, ok := decodeLoadHalfWord(v); ok {
			return ins, true
		}
		return decodeSubImm(v)

	case basic.Cond:
		return decodeZeroBranch(v)
	}
	return nil, false
}

// splitHiLo splits a 32 bit value into the lui and the sign extended low half operand.
func splitHiLo(value uint32) (uint16, uint16) {
	hi := uint16(value >> 16)
	lo := uint16(value)
	if int16(lo) < 0 {
		hi++
	}
	return hi, lo
}

// joinHiLo combines a lui operand and a sign extended low half.
func joinHiLo(hi, lo uint16) uint32 {
	return uint32(hi)<<16 + uint32(int32(int16(lo)))
}
