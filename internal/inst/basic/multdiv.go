package basic

import (
	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
)

var _ Inst = MultDiv{}
var _ Inst = Sys{}

// MultDivKind is an operation on the hi and lo registers.
type MultDivKind uint8

// Multiply and divide operations, the value is the low 4 bits of the function code.
const (
	MoveFromHi   MultDivKind = 0x0
	MoveToHi     MultDivKind = 0x1
	MoveFromLo   MultDivKind = 0x2
	MoveToLo     MultDivKind = 0x3
	Mult         MultDivKind = 0x8
	MultUnsigned MultDivKind = 0x9
	Div          MultDivKind = 0xa
	DivUnsigned  MultDivKind = 0xb
)

// multDivFunctHi is the upper part of the function code shared by all hi/lo operations.
const multDivFunctHi = 0x10

var multDivMnemonics = map[MultDivKind]string{
	MoveFromHi:   "mfhi",
	MoveToHi:     "mthi",
	MoveFromLo:   "mflo",
	MoveToLo:     "mtlo",
	Mult:         "mult",
	MultUnsigned: "multu",
	Div:          "div",
	DivUnsigned:  "divu",
}

// MultDiv is a multiplication, division or hi/lo transfer.
// Dst is used by mfhi/mflo, Lhs by mthi/mtlo and Lhs and Rhs by the arithmetic operations.
type MultDiv struct {
	Kind MultDivKind
	Dst  register.Register
	Lhs  register.Register
	Rhs  register.Register
}

func decodeMultDiv(r raw) (Inst, bool) {
	if !r.isSpecial() || r.funct()&0x30 != multDivFunctHi || r.shamt() != 0 {
		return nil, false
	}
	kind := MultDivKind(r.funct() & 0xf)
	if _, ok := multDivMnemonics[kind]; !ok {
		return nil, false
	}

	i := MultDiv{Kind: kind, Dst: r.d(), Lhs: r.s(), Rhs: r.t()}
	// unused register fields must be zero
	switch kind {
	case MoveFromHi, MoveFromLo:
		if i.Lhs != register.Zr || i.Rhs != register.Zr {
			return nil, false
		}
	case MoveToHi, MoveToLo:
		if i.Dst != register.Zr || i.Rhs != register.Zr {
			return nil, false
		}
	default:
		if i.Dst != register.Zr {
			return nil, false
		}
	}
	return i, true
}

// Encode returns the raw instruction word.
func (i MultDiv) Encode() uint32 {
	funct := multDivFunctHi | uint32(i.Kind)
	switch i.Kind {
	case MoveFromHi, MoveFromLo:
		return encodeR(register.Zr, register.Zr, i.Dst, 0, funct)
	case MoveToHi, MoveToLo:
		return encodeR(i.Lhs, register.Zr, register.Zr, 0, funct)
	default:
		return encodeR(i.Lhs, i.Rhs, register.Zr, 0, funct)
	}
}

// Mnemonic returns the assembler mnemonic.
func (i MultDiv) Mnemonic() string {
	return multDivMnemonics[i.Kind]
}

// Args returns the rendered arguments.
func (i MultDiv) Args(pos.Pos) []arg.Arg {
	switch i.Kind {
	case MoveFromHi, MoveFromLo:
		return []arg.Arg{arg.Reg(i.Dst)}
	case MoveToHi, MoveToLo:
		return []arg.Arg{arg.Reg(i.Lhs)}
	default:
		return []arg.Arg{arg.Reg(i.Lhs), arg.Reg(i.Rhs)}
	}
}

// ModifiesReg returns whether the instruction writes the register.
func (i MultDiv) ModifiesReg(r register.Register) bool {
	return (i.Kind == MoveFromHi || i.Kind == MoveFromLo) && i.Dst == r
}

func (MultDiv) isBasic() {}

const (
	syscallFunct = 0x0c
	breakFunct   = 0x0d
)

// Sys is a syscall or break exception with a 20 bit comment.
type Sys struct {
	Comment uint32
	Break   bool
}

func decodeSys(r raw) (Inst, bool) {
	if !r.isSpecial() {
		return nil, false
	}
	comment := (uint32(r) >> 6) & 0xfffff
	switch r.funct() {
	case syscallFunct:
		return Sys{Comment: comment}, true
	case breakFunct:
		return Sys{Comment: comment, Break: true}, true
	default:
		return nil, false
	}
}

// Encode returns the raw instruction word.
func (i Sys) Encode() uint32 {
	funct := uint32(syscallFunct)
	if i.Break {
		funct = breakFunct
	}
	return (i.Comment&0xfffff)<<6 | funct
}

// Mnemonic returns the assembler mnemonic.
func (i Sys) Mnemonic() string {
	if i.Break {
		return "break"
	}
	return "syscall"
}

// Args returns the rendered arguments.
func (i Sys) Args(pos.Pos) []arg.Arg {
	if i.Comment == 0 {
		return nil
	}
	return []arg.Arg{arg.Lit(int64(i.Comment))}
}

// ModifiesReg returns whether the instruction writes the register.
func (Sys) ModifiesReg(register.Register) bool {
	return false
}

func (Sys) isBasic() {}
