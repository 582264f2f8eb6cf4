package basic

import (
	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
)

var _ Inst = JmpImm{}
var _ Inst = JmpReg{}

const (
	jmpPrimary     = 0x02
	jmpLinkPrimary = 0x03
	jrFunct        = 0x08
	jalrFunct      = 0x09
)

// JmpImm is a jump to an address inside the current 256 MiB segment.
type JmpImm struct {
	// Imm is the 26 bit word index of the target inside the segment.
	Imm  uint32
	Link bool
}

func decodeJmpImm(r raw) (Inst, bool) {
	switch r.primary() {
	case jmpPrimary:
		return JmpImm{Imm: r.imm26()}, true
	case jmpLinkPrimary:
		return JmpImm{Imm: r.imm26(), Link: true}, true
	default:
		return nil, false
	}
}

// Target returns the jump target for an instruction at position p.
func (i JmpImm) Target(p pos.Pos) pos.Pos {
	return (p & 0xf0000000) + pos.Pos(i.Imm*4)
}

// Encode returns the raw instruction word.
func (i JmpImm) Encode() uint32 {
	primary := uint32(jmpPrimary)
	if i.Link {
		primary = jmpLinkPrimary
	}
	return primary<<26 | i.Imm&0x3ffffff
}

// Mnemonic returns the assembler mnemonic.
func (i JmpImm) Mnemonic() string {
	if i.Link {
		return "jal"
	}
	return "j"
}

// Args returns the rendered arguments.
func (i JmpImm) Args(p pos.Pos) []arg.Arg {
	return []arg.Arg{arg.Tgt(i.Target(p))}
}

// ModifiesReg returns whether the instruction writes the register.
func (i JmpImm) ModifiesReg(r register.Register) bool {
	return i.Link && r == register.Ra
}

func (JmpImm) isBasic() {}

// JmpReg is a jump to the address stored in a register.
type JmpReg struct {
	Target register.Register
	// LinkReg receives the return address if Link is set.
	LinkReg register.Register
	Link    bool
}

func decodeJmpReg(r raw) (Inst, bool) {
	if !r.isSpecial() || r.t() != register.Zr || r.shamt() != 0 {
		return nil, false
	}
	switch r.funct() {
	case jrFunct:
		if r.d() != register.Zr {
			return nil, false
		}
		return JmpReg{Target: r.s()}, true
	case jalrFunct:
		return JmpReg{Target: r.s(), LinkReg: r.d(), Link: true}, true
	default:
		return nil, false
	}
}

// IsReturn returns whether the instruction is a return to the caller, `jr $ra`.
func (i JmpReg) IsReturn() bool {
	return !i.Link && i.Target == register.Ra
}

// Encode returns the raw instruction word.
func (i JmpReg) Encode() uint32 {
	if i.Link {
		return encodeR(i.Target, register.Zr, i.LinkReg, 0, jalrFunct)
	}
	return encodeR(i.Target, register.Zr, register.Zr, 0, jrFunct)
}

// Mnemonic returns the assembler mnemonic.
func (i JmpReg) Mnemonic() string {
	if i.Link {
		return "jalr"
	}
	return "jr"
}

// Args returns the rendered arguments.
func (i JmpReg) Args(pos.Pos) []arg.Arg {
	if i.Link {
		return []arg.Arg{arg.Reg(i.Target), arg.Reg(i.LinkReg)}
	}
	return []arg.Arg{arg.Reg(i.Target)}
}

// ModifiesReg returns whether the instruction writes the register.
func (i JmpReg) ModifiesReg(r register.Register) bool {
	return i.Link && i.LinkReg == r
}

func (JmpReg) isBasic() {}
