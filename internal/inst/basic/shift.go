package basic

import (
	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
)

var _ Inst = ShiftImm{}
var _ Inst = ShiftReg{}

// ShiftKind is the direction of a shift.
type ShiftKind uint8

// Shift kinds, the value is the low 2 bits of the function code.
const (
	LeftLogical     ShiftKind = 0
	RightLogical    ShiftKind = 2
	RightArithmetic ShiftKind = 3
)

// MaxShiftAmount is the largest amount a shift by a constant can encode.
const MaxShiftAmount = 31

// shiftVariableFlag is set in the function code of shifts by register.
const shiftVariableFlag = 0x4

var shiftMnemonics = map[ShiftKind]string{
	LeftLogical:     "sll",
	RightLogical:    "srl",
	RightArithmetic: "sra",
}

func validShiftKind(funct uint32) (ShiftKind, bool) {
	kind := ShiftKind(funct & 0x3)
	_, ok := shiftMnemonics[kind]
	return kind, ok
}

// ShiftImm is a shift by a constant amount.
type ShiftImm struct {
	Dst    register.Register
	Lhs    register.Register
	Kind   ShiftKind
	Amount uint8 // 0..MaxShiftAmount, Encode keeps only the low 5 bits
}

func decodeShiftImm(r raw) (Inst, bool) {
	if !r.isSpecial() || r.funct()&^0x3 != 0 || r.s() != register.Zr {
		return nil, false
	}
	kind, ok := validShiftKind(r.funct())
	if !ok {
		return nil, false
	}
	return ShiftImm{Dst: r.d(), Lhs: r.t(), Kind: kind, Amount: uint8(r.shamt())}, true
}

// Encode returns the raw instruction word.
func (i ShiftImm) Encode() uint32 {
	return encodeR(register.Zr, i.Lhs, i.Dst, uint32(i.Amount), uint32(i.Kind))
}

// Mnemonic returns the assembler mnemonic.
func (i ShiftImm) Mnemonic() string {
	return shiftMnemonics[i.Kind]
}

// Args returns the rendered arguments.
func (i ShiftImm) Args(pos.Pos) []arg.Arg {
	return []arg.Arg{arg.Reg(i.Dst), arg.Reg(i.Lhs), arg.Lit(int64(i.Amount))}
}

// ModifiesReg returns whether the instruction writes the register.
func (i ShiftImm) ModifiesReg(r register.Register) bool {
	return i.Dst == r
}

func (ShiftImm) isBasic() {}

// ShiftReg is a shift by the amount stored in a register.
type ShiftReg struct {
	Dst  register.Register
	Lhs  register.Register
	Rhs  register.Register
	Kind ShiftKind
}

func decodeShiftReg(r raw) (Inst, bool) {
	if !r.isSpecial() || r.funct()&^0x3 != shiftVariableFlag || r.shamt() != 0 {
		return nil, false
	}
	kind, ok := validShiftKind(r.funct())
	if !ok {
		return nil, false
	}
	return ShiftReg{Dst: r.d(), Lhs: r.t(), Rhs: r.s(), Kind: kind}, true
}

// Encode returns the raw instruction word.
func (i ShiftReg) Encode() uint32 {
	return encodeR(i.Rhs, i.Lhs, i.Dst, 0, shiftVariableFlag|uint32(i.Kind))
}

// Mnemonic returns the assembler mnemonic.
func (i ShiftReg) Mnemonic() string {
	return shiftMnemonics[i.Kind] + "v"
}

// Args returns the rendered arguments.
func (i ShiftReg) Args(pos.Pos) []arg.Arg {
	return []arg.Arg{arg.Reg(i.Dst), arg.Reg(i.Lhs), arg.Reg(i.Rhs)}
}

// ModifiesReg returns whether the instruction writes the register.
func (i ShiftReg) ModifiesReg(r register.Register) bool {
	return i.Dst == r
}

func (ShiftReg) isBasic() {}
