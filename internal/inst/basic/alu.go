package basic

import (
	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
)

var _ Inst = AluImm{}
var _ Inst = AluReg{}

// AluImmKind is the operation of an immediate ALU instruction.
type AluImmKind uint8

// Immediate ALU operations, in primary opcode order starting at 0x08.
const (
	AddImm AluImmKind = iota
	AddImmUnsigned
	SetLessThanImm
	SetLessThanImmUnsigned
	AndImm
	OrImm
	XorImm
)

const aluImmPrimary = 0x08

var aluImmMnemonics = [...]string{"addi", "addiu", "slti", "sltiu", "andi", "ori", "xori"}

// AluImm is an ALU instruction with a 16 bit immediate operand.
type AluImm struct {
	Dst   register.Register
	Lhs   register.Register
	Kind  AluImmKind
	Value uint16
}

// Signed returns whether the immediate is interpreted as signed value.
func (k AluImmKind) Signed() bool {
	return k == AddImm || k == AddImmUnsigned || k == SetLessThanImm
}

func decodeAluImm(r raw) (Inst, bool) {
	p := r.primary()
	if p < aluImmPrimary || p > aluImmPrimary+uint32(XorImm) {
		return nil, false
	}
	return AluImm{
		Dst:   r.t(),
		Lhs:   r.s(),
		Kind:  AluImmKind(p - aluImmPrimary),
		Value: r.imm16(),
	}, true
}

// SignedValue returns the immediate sign extended.
func (i AluImm) SignedValue() int16 {
	return int16(i.Value)
}

// Encode returns the raw instruction word.
func (i AluImm) Encode() uint32 {
	return encodeI(aluImmPrimary+uint32(i.Kind), i.Lhs, i.Dst, i.Value)
}

// Mnemonic returns the assembler mnemonic.
func (i AluImm) Mnemonic() string {
	return aluImmMnemonics[i.Kind]
}

// Args returns the rendered arguments.
func (i AluImm) Args(pos.Pos) []arg.Arg {
	value := int64(i.Value)
	if i.Kind.Signed() {
		value = int64(i.SignedValue())
	}
	return []arg.Arg{arg.Reg(i.Dst), arg.Reg(i.Lhs), arg.Lit(value)}
}

// ModifiesReg returns whether the instruction writes the register.
func (i AluImm) ModifiesReg(r register.Register) bool {
	return i.Dst == r
}

func (AluImm) isBasic() {}

// AluRegKind is the operation of a register ALU instruction.
type AluRegKind uint8

// Register ALU operations.
const (
	Add AluRegKind = iota
	AddUnsigned
	Sub
	SubUnsigned
	And
	Or
	Xor
	Nor
	SetLessThan
	SetLessThanUnsigned
)

var aluRegFuncts = [...]uint32{0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x2a, 0x2b}

var aluRegMnemonics = [...]string{"add", "addu", "sub", "subu", "and", "or", "xor", "nor", "slt", "sltu"}

// AluReg is an ALU instruction with two register operands.
type AluReg struct {
	Dst  register.Register
	Lhs  register.Register
	Rhs  register.Register
	Kind AluRegKind
}

func decodeAluReg(r raw) (Inst, bool) {
	if !r.isSpecial() || r.shamt() != 0 {
		return nil, false
	}
	for kind, funct := range aluRegFuncts {
		if funct == r.funct() {
			return AluReg{Dst: r.d(), Lhs: r.s(), Rhs: r.t(), Kind: AluRegKind(kind)}, true
		}
	}
	return nil, false
}

// Encode returns the raw instruction word.
func (i AluReg) Encode() uint32 {
	return encodeR(i.Lhs, i.Rhs, i.Dst, 0, aluRegFuncts[i.Kind])
}

// Mnemonic returns the assembler mnemonic.
func (i AluReg) Mnemonic() string {
	return aluRegMnemonics[i.Kind]
}

// Args returns the rendered arguments.
func (i AluReg) Args(pos.Pos) []arg.Arg {
	return []arg.Arg{arg.Reg(i.Dst), arg.Reg(i.Lhs), arg.Reg(i.Rhs)}
}

// ModifiesReg returns whether the instruction writes the register.
func (i AluReg) ModifiesReg(r register.Register) bool {
	return i.Dst == r
}

func (AluReg) isBasic() {}
