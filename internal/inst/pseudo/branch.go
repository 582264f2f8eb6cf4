package pseudo

import (
	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/inst/basic"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
)

var _ Inst = ZeroBranch{}

// ZeroBranchKind is the condition of a branch comparing against $zr.
type ZeroBranchKind uint8

// Zero branch kinds.
const (
	// Always is `beq $zr, $zr, target`.
	Always ZeroBranchKind = iota
	// EqualZero is `beq $r, $zr, target`.
	EqualZero
	// NotEqualZero is `bne $r, $zr, target`.
	NotEqualZero
)

// ZeroBranch is a beq/bne comparing a register against $zr.
type ZeroBranch struct {
	Arg    register.Register
	Kind   ZeroBranchKind
	Offset int16
}

func decodeZeroBranch(cond basic.Cond) (Inst, bool) {
	if cond.Reg != register.Zr {
		return nil, false
	}

	switch {
	case cond.Kind == basic.Equal && cond.Arg == register.Zr:
		return ZeroBranch{Kind: Always, Offset: cond.Offset}, true
	case cond.Kind == basic.Equal:
		return ZeroBranch{Arg: cond.Arg, Kind: EqualZero, Offset: cond.Offset}, true
	case cond.Kind == basic.NotEqual && cond.Arg != register.Zr:
		return ZeroBranch{Arg: cond.Arg, Kind: NotEqualZero, Offset: cond.Offset}, true
	default:
		return nil, false
	}
}

// Cond returns the conditional branch the pseudo instruction stands for.
func (i ZeroBranch) Cond() basic.Cond {
	kind := basic.Equal
	if i.Kind == NotEqualZero {
		kind = basic.NotEqual
	}
	return basic.Cond{Arg: i.Arg, Reg: register.Zr, Kind: kind, Offset: i.Offset}
}

// Target returns the branch target for an instruction at position p.
func (i ZeroBranch) Target(p pos.Pos) pos.Pos {
	return i.Cond().Target(p)
}

// Basics returns the basic instructions.
func (i ZeroBranch) Basics() []basic.Inst {
	return []basic.Inst{i.Cond()}
}

// Size returns the size in bytes.
func (ZeroBranch) Size() uint32 {
	return basic.Size
}

// Mnemonic returns the assembler mnemonic.
func (i ZeroBranch) Mnemonic() string {
	switch i.Kind {
	case Always:
		return "b"
	case EqualZero:
		return "beqz"
	default:
		return "bnez"
	}
}

// Args returns the rendered arguments.
func (i ZeroBranch) Args(p pos.Pos) []arg.Arg {
	if i.Kind == Always {
		return []arg.Arg{arg.Tgt(i.Target(p))}
	}
	return []arg.Arg{arg.Reg(i.Arg), arg.Tgt(i.Target(p))}
}

func (ZeroBranch) isPseudo() {}
