package pseudo

import (
	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/inst/basic"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
)

var (
	_ Inst = Nop{}
	_ Inst = MoveReg{}
	_ Inst = SubImm{}
)

// Nop is `sll $zr, $zr, 0`.
type Nop struct{}

// Basics returns the basic instructions.
func (Nop) Basics() []basic.Inst {
	return []basic.Inst{basic.ShiftImm{}}
}

// Size returns the size in bytes.
func (Nop) Size() uint32 {
	return basic.Size
}

// Mnemonic returns the assembler mnemonic.
func (Nop) Mnemonic() string {
	return "nop"
}

// Args returns the rendered arguments.
func (Nop) Args(pos.Pos) []arg.Arg {
	return nil
}

func (Nop) isPseudo() {}

// MoveReg copies a register, `addu $dst, $src, $zr` or `or $dst, $src, $zr`.
type MoveReg struct {
	Dst register.Register
	Src register.Register
	// Kind is the ALU operation that encodes the move.
	Kind basic.AluRegKind
}

func decodeMoveReg(alu basic.AluReg) (Inst, bool) {
	if alu.Kind != basic.AddUnsigned && alu.Kind != basic.Or {
		return nil, false
	}
	if alu.Rhs != register.Zr || alu.Dst == register.Zr || alu.Lhs == register.Zr {
		return nil, false
	}
	return MoveReg{Dst: alu.Dst, Src: alu.Lhs, Kind: alu.Kind}, true
}

// Basics returns the basic instructions.
func (i MoveReg) Basics() []basic.Inst {
	return []basic.Inst{basic.AluReg{Dst: i.Dst, Lhs: i.Src, Rhs: register.Zr, Kind: i.Kind}}
}

// Size returns the size in bytes.
func (MoveReg) Size() uint32 {
	return basic.Size
}

// Mnemonic returns the assembler mnemonic.
func (MoveReg) Mnemonic() string {
	return "move"
}

// Args returns the rendered arguments.
func (i MoveReg) Args(pos.Pos) []arg.Arg {
	return []arg.Arg{arg.Reg(i.Dst), arg.Reg(i.Src)}
}

func (MoveReg) isPseudo() {}

// SubImm is an `addi` or `addiu` with a negative immediate.
type SubImm struct {
	Dst register.Register
	Lhs register.Register
	// Value is the subtracted magnitude, 1 to 0x8000.
	Value    uint32
	Unsigned bool
}

func decodeSubImm(alu basic.AluImm) (Inst, bool) {
	if alu.Kind != basic.AddImm && alu.Kind != basic.AddImmUnsigned {
		return nil, false
	}
	value := int32(alu.SignedValue())
	if value >= 0 {
		return nil, false
	}
	return SubImm{
		Dst:      alu.Dst,
		Lhs:      alu.Lhs,
		Value:    uint32(-value),
		Unsigned: alu.Kind == basic.AddImmUnsigned,
	}, true
}

// Basics returns the basic instructions.
func (i SubImm) Basics() []basic.Inst {
	kind := basic.AddImm
	if i.Unsigned {
		kind = basic.AddImmUnsigned
	}
	return []basic.Inst{basic.AluImm{Dst: i.Dst, Lhs: i.Lhs, Kind: kind, Value: uint16(-int32(i.Value))}}
}

// Size returns the size in bytes.
func (SubImm) Size() uint32 {
	return basic.Size
}

// Mnemonic returns the assembler mnemonic.
func (i SubImm) Mnemonic() string {
	if i.Unsigned {
		return "subiu"
	}
	return "subi"
}

// Args returns the rendered arguments.
func (i SubImm) Args(pos.Pos) []arg.Arg {
	return []arg.Arg{arg.Reg(i.Dst), arg.Reg(i.Lhs), arg.Lit(int64(i.Value))}
}

func (SubImm) isPseudo() {}
