package basic

import (
	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
)

var _ Inst = Cond{}

// CondKind is the comparison of a conditional branch.
type CondKind uint8

// Branch conditions.
const (
	Equal CondKind = iota
	NotEqual
	LessOrEqualZero
	GreaterThanZero
	LessThanZero
	GreaterOrEqualZero
	LessThanZeroLink
	GreaterOrEqualZeroLink
)

const regImmPrimary = 0x01

var condMnemonics = [...]string{"beq", "bne", "blez", "bgtz", "bltz", "bgez", "bltzal", "bgezal"}

// regImmKinds maps the rt field of the REGIMM primary opcode to the branch condition.
var regImmKinds = map[register.Register]CondKind{
	0x00: LessThanZero,
	0x01: GreaterOrEqualZero,
	0x10: LessThanZeroLink,
	0x11: GreaterOrEqualZeroLink,
}

// Cond is a conditional branch relative to the instruction following it.
type Cond struct {
	Arg register.Register
	// Reg is the second compared register of beq and bne.
	Reg    register.Register
	Kind   CondKind
	Offset int16
}

func decodeCond(r raw) (Inst, bool) {
	c := Cond{Arg: r.s(), Offset: int16(r.imm16())}

	switch r.primary() {
	case regImmPrimary:
		kind, ok := regImmKinds[r.t()]
		if !ok {
			return nil, false
		}
		c.Kind = kind
	case 0x04:
		c.Kind, c.Reg = Equal, r.t()
	case 0x05:
		c.Kind, c.Reg = NotEqual, r.t()
	case 0x06, 0x07:
		if r.t() != register.Zr {
			return nil, false
		}
		c.Kind = LessOrEqualZero + CondKind(r.primary()-0x06)
	default:
		return nil, false
	}
	return c, true
}

// Target returns the branch target for an instruction at position p.
func (i Cond) Target(p pos.Pos) pos.Pos {
	return p.AddSigned(4 + int32(i.Offset)*4)
}

// Encode returns the raw instruction word.
func (i Cond) Encode() uint32 {
	imm := uint16(i.Offset)
	switch i.Kind {
	case Equal:
		return encodeI(0x04, i.Arg, i.Reg, imm)
	case NotEqual:
		return encodeI(0x05, i.Arg, i.Reg, imm)
	case LessOrEqualZero:
		return encodeI(0x06, i.Arg, register.Zr, imm)
	case GreaterThanZero:
		return encodeI(0x07, i.Arg, register.Zr, imm)
	default:
		for rt, kind := range regImmKinds {
			if kind == i.Kind {
				return encodeI(regImmPrimary, i.Arg, rt, imm)
			}
		}
		panic("unsupported branch condition")
	}
}

// Mnemonic returns the assembler mnemonic.
func (i Cond) Mnemonic() string {
	return condMnemonics[i.Kind]
}

// Args returns the rendered arguments.
func (i Cond) Args(p pos.Pos) []arg.Arg {
	if i.Kind == Equal || i.Kind == NotEqual {
		return []arg.Arg{arg.Reg(i.Arg), arg.Reg(i.Reg), arg.Tgt(i.Target(p))}
	}
	return []arg.Arg{arg.Reg(i.Arg), arg.Tgt(i.Target(p))}
}

// Links returns whether the branch stores the return address in $ra.
func (i Cond) Links() bool {
	return i.Kind == LessThanZeroLink || i.Kind == GreaterOrEqualZeroLink
}

// ModifiesReg returns whether the instruction writes the register.
func (i Cond) ModifiesReg(r register.Register) bool {
	return i.Links() && r == register.Ra
}

func (Cond) isBasic() {}
