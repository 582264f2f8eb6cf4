package basic

import (
	"fmt"

	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
)

var _ Inst = Co{}

// CoKind is a coprocessor instruction shape.
type CoKind uint8

// Coprocessor instruction shapes.
const (
	CoExec CoKind = iota
	CoMoveFrom
	CoMoveFromControl
	CoMoveTo
	CoMoveToControl
	CoBranch
	CoLoad
	CoStore
)

const (
	coPrimary      = 0x10
	coLoadPrimary  = 0x30
	coStorePrimary = 0x38
	coExecFlag     = 1 << 25
	coBranchRs     = 0x08
)

// coMoveRs maps the rs field of coprocessor register moves to their kind.
var coMoveRs = map[uint32]CoKind{
	0x0: CoMoveFrom,
	0x2: CoMoveFromControl,
	0x4: CoMoveTo,
	0x6: CoMoveToControl,
}

// Co is an instruction for one of the 4 coprocessors. Only the bit shape is modelled.
type Co struct {
	N    uint8
	Kind CoKind
	// Reg is the general purpose register of moves, and the address register of loads and stores.
	Reg register.Register
	// CoReg is the coprocessor register of moves, loads and stores.
	CoReg  uint8
	Imm    uint32
	Offset int16
	// OnTrue selects bcNt over bcNf.
	OnTrue bool
}

func decodeCo(r raw) (Inst, bool) {
	p := r.primary()
	n := uint8(p & 0x3)

	switch p &^ 0x3 {
	case coPrimary:
		return decodeCoOp(r, n)

	case coLoadPrimary, coStorePrimary:
		kind := CoLoad
		if p&^0x3 == coStorePrimary {
			kind = CoStore
		}
		return Co{N: n, Kind: kind, Reg: r.s(), CoReg: uint8(r.t()), Offset: int16(r.imm16())}, true

	default:
		return nil, false
	}
}

func decodeCoOp(r raw, n uint8) (Inst, bool) {
	if uint32(r)&coExecFlag != 0 {
		return Co{N: n, Kind: CoExec, Imm: uint32(r) & (coExecFlag - 1)}, true
	}

	rs := uint32(r.s())
	if kind, ok := coMoveRs[rs]; ok {
		if uint32(r)&0x7ff != 0 {
			return nil, false
		}
		return Co{N: n, Kind: kind, Reg: r.t(), CoReg: uint8(r.d())}, true
	}

	if rs == coBranchRs && r.t() <= 1 {
		return Co{N: n, Kind: CoBranch, Offset: int16(r.imm16()), OnTrue: r.t() == 1}, true
	}
	return nil, false
}

// Target returns the branch target of a coprocessor branch at position p.
func (i Co) Target(p pos.Pos) pos.Pos {
	return p.AddSigned(4 + int32(i.Offset)*4)
}

// Encode returns the raw instruction word.
func (i Co) Encode() uint32 {
	n := uint32(i.N & 0x3)
	coReg := register.Register(i.CoReg & 0x1f)

	switch i.Kind {
	case CoExec:
		return (coPrimary|n)<<26 | coExecFlag | i.Imm&(coExecFlag-1)
	case CoBranch:
		t := register.Zr
		if i.OnTrue {
			t = 1
		}
		return encodeI(coPrimary|n, register.Register(coBranchRs), t, uint16(i.Offset))
	case CoLoad:
		return encodeI(coLoadPrimary|n, i.Reg, coReg, uint16(i.Offset))
	case CoStore:
		return encodeI(coStorePrimary|n, i.Reg, coReg, uint16(i.Offset))
	default:
		for rs, kind := range coMoveRs {
			if kind == i.Kind {
				return (coPrimary|n)<<26 | encodeR(register.Register(rs), i.Reg, coReg, 0, 0)
			}
		}
		panic("unsupported coprocessor instruction")
	}
}

// Mnemonic returns the assembler mnemonic.
func (i Co) Mnemonic() string {
	switch i.Kind {
	case CoExec:
		return fmt.Sprintf("cop%d", i.N)
	case CoMoveFrom:
		return fmt.Sprintf("mfc%d", i.N)
	case CoMoveFromControl:
		return fmt.Sprintf("cfc%d", i.N)
	case CoMoveTo:
		return fmt.Sprintf("mtc%d", i.N)
	case CoMoveToControl:
		return fmt.Sprintf("ctc%d", i.N)
	case CoBranch:
		if i.OnTrue {
			return fmt.Sprintf("bc%dt", i.N)
		}
		return fmt.Sprintf("bc%df", i.N)
	case CoLoad:
		return fmt.Sprintf("lwc%d", i.N)
	default:
		return fmt.Sprintf("swc%d", i.N)
	}
}

// Args returns the rendered arguments.
func (i Co) Args(p pos.Pos) []arg.Arg {
	switch i.Kind {
	case CoExec:
		return []arg.Arg{arg.Lit(int64(i.Imm))}
	case CoBranch:
		return []arg.Arg{arg.Tgt(i.Target(p))}
	case CoLoad, CoStore:
		return []arg.Arg{arg.Lit(int64(i.CoReg)), arg.RegOffset(i.Reg, int64(i.Offset))}
	default:
		return []arg.Arg{arg.Reg(i.Reg), arg.Lit(int64(i.CoReg))}
	}
}

// ModifiesReg returns whether the instruction writes the register.
func (i Co) ModifiesReg(r register.Register) bool {
	return (i.Kind == CoMoveFrom || i.Kind == CoMoveFromControl) && i.Reg == r
}

func (Co) isBasic() {}
