package basic

import (
	"testing"

	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
	"github.com/retroenv/retrogolib/assert"
)

//nolint:funlen // test functions can be long
func TestDecode(t *testing.T) {
	const p = pos.Pos(0x80010000)

	tests := []struct {
		name     string
		raw      uint32
		expected Inst
		text     string
	}{
		{"addiu", 0x27bdffe8, AluImm{Dst: register.Sp, Lhs: register.Sp, Kind: AddImmUnsigned, Value: 0xffe8}, "addiu $sp, $sp, -0x18"},
		{"ori", 0x34420010, AluImm{Dst: register.V0, Lhs: register.V0, Kind: OrImm, Value: 0x10}, "ori $v0, $v0, 0x10"},
		{"addu", 0x00851021, AluReg{Dst: register.V0, Lhs: register.A0, Rhs: register.A1, Kind: AddUnsigned}, "addu $v0, $a0, $a1"},
		{"sltu", 0x0085102b, AluReg{Dst: register.V0, Lhs: register.A0, Rhs: register.A1, Kind: SetLessThanUnsigned}, "sltu $v0, $a0, $a1"},
		{"nop", 0x00000000, ShiftImm{Kind: LeftLogical}, "sll $zr, $zr, 0x0"},
		{"sra", 0x00021083, ShiftImm{Dst: register.V0, Lhs: register.V0, Kind: RightArithmetic, Amount: 2}, "sra $v0, $v0, 0x2"},
		{"sllv", 0x00a21004, ShiftReg{Dst: register.V0, Lhs: register.V0, Rhs: register.A1, Kind: LeftLogical}, "sllv $v0, $v0, $a1"},
		{"jr ra", 0x03e00008, JmpReg{Target: register.Ra}, "jr $ra"},
		{"jalr", 0x0040f809, JmpReg{Target: register.V0, LinkReg: register.Ra, Link: true}, "jalr $v0, $ra"},
		{"jal", 0x0c004000, JmpImm{Imm: 0x4000, Link: true}, "jal 0x80010000"},
		{"j", 0x08004002, JmpImm{Imm: 0x4002}, "j 0x80010008"},
		{"beq", 0x1085fffe, Cond{Arg: register.A0, Reg: register.A1, Kind: Equal, Offset: -2}, "beq $a0, $a1, 0x8000fffc"},
		{"bgez", 0x04810003, Cond{Arg: register.A0, Kind: GreaterOrEqualZero, Offset: 3}, "bgez $a0, 0x80010010"},
		{"bltzal", 0x04900001, Cond{Arg: register.A0, Kind: LessThanZeroLink, Offset: 1}, "bltzal $a0, 0x80010008"},
		{"blez", 0x18800001, Cond{Arg: register.A0, Kind: LessOrEqualZero, Offset: 1}, "blez $a0, 0x80010008"},
		{"lui", 0x3c028001, Lui{Dst: register.V0, Value: 0x8001}, "lui $v0, 0x8001"},
		{"lw", 0x8c820004, Load{Value: register.V0, Addr: register.A0, Offset: 4, Kind: LoadWord}, "lw $v0, 0x4($a0)"},
		{"lbu", 0x9082fffc, Load{Value: register.V0, Addr: register.A0, Offset: -4, Kind: LoadByteUnsigned}, "lbu $v0, -0x4($a0)"},
		{"sw", 0xafbf0010, Store{Value: register.Ra, Addr: register.Sp, Offset: 0x10, Kind: StoreWord}, "sw $ra, 0x10($sp)"},
		{"swr", 0xb8820000, Store{Value: register.V0, Addr: register.A0, Kind: StoreWordRight}, "swr $v0, $a0"},
		{"mflo", 0x00001012, MultDiv{Kind: MoveFromLo, Dst: register.V0}, "mflo $v0"},
		{"mthi", 0x00800011, MultDiv{Kind: MoveToHi, Lhs: register.A0}, "mthi $a0"},
		{"divu", 0x0085001b, MultDiv{Kind: DivUnsigned, Lhs: register.A0, Rhs: register.A1}, "divu $a0, $a1"},
		{"syscall", 0x0000000c, Sys{}, "syscall"},
		{"break", 0x0001c00d, Sys{Comment: 0x700, Break: true}, "break 0x700"},
		{"mfc0", 0x40026000, Co{N: 0, Kind: CoMoveFrom, Reg: register.V0, CoReg: 12}, "mfc0 $v0, 0xc"},
		{"cop2", 0x4a180001, Co{N: 2, Kind: CoExec, Imm: 0x180001}, "cop2 0x180001"},
		{"lwc2", 0xc8800004, Co{N: 2, Kind: CoLoad, Reg: register.A0, Offset: 4}, "lwc2 0x0, 0x4($a0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, ok := Decode(tt.raw)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, ins)
			assert.Equal(t, tt.raw, ins.Encode())
			assert.Equal(t, tt.text, arg.Join(ins.Mnemonic(), ins.Args(p), nil))
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  uint32
	}{
		{"jr with rd set", 0x03e01008},
		{"alu reg with shift amount", 0x00851061},
		{"unknown special function", 0x00000001},
		{"lui with rs set", 0x3c828001},
		{"blez with rt set", 0x18810001},
		{"unknown regimm", 0x04820001},
		{"load primary 0x27", 0x9c820000},
		{"store primary 0x2c", 0xb0820000},
		{"mfhi with rs set", 0x00801010},
		{"mult with rd set", 0x00851018},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Decode(tt.raw)
			assert.False(t, ok)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// walk a deterministic pseudo random sample of the 32 bit space plus every primary opcode
	// with all special function codes
	words := make([]uint32, 0, 1<<17)
	state := uint32(0x12345678)
	for range 1 << 16 {
		state = state*1664525 + 1013904223
		words = append(words, state)
	}
	for primary := range uint32(64) {
		for funct := range uint32(64) {
			words = append(words, primary<<26|0x00a51000|funct)
			words = append(words, primary<<26|funct)
		}
	}

	for _, word := range words {
		ins, ok := Decode(word)
		if !ok {
			continue
		}
		if ins.Encode() != word {
			t.Fatalf("round trip of %#08x failed: decoded as %#v, encoded to %#08x", word, ins, ins.Encode())
		}
		again, ok := Decode(ins.Encode())
		assert.True(t, ok)
		assert.Equal(t, ins, again)
	}
}

func TestShiftImmAmount(t *testing.T) {
	for amount := range uint8(MaxShiftAmount + 1) {
		ins := ShiftImm{Dst: register.V0, Lhs: register.V1, Kind: RightArithmetic, Amount: amount}
		decoded, ok := Decode(ins.Encode())
		assert.True(t, ok)
		assert.Equal(t, Inst(ins), decoded, amount)
	}

	// amounts above the maximum do not fit the 5 bit field
	wide := ShiftImm{Dst: register.V0, Lhs: register.V1, Kind: LeftLogical, Amount: MaxShiftAmount + 2}
	decoded, ok := Decode(wide.Encode())
	assert.True(t, ok)
	assert.Equal(t, Inst(ShiftImm{Dst: register.V0, Lhs: register.V1, Kind: LeftLogical, Amount: 1}), decoded)
}

func TestExpectsDelaySlot(t *testing.T) {
	tests := []struct {
		name     string
		ins      Inst
		expected bool
	}{
		{"cond", Cond{Kind: Equal}, true},
		{"jmp imm", JmpImm{}, true},
		{"jmp reg", JmpReg{Target: register.Ra}, true},
		{"co branch", Co{Kind: CoBranch}, true},
		{"co load", Co{Kind: CoLoad}, false},
		{"alu", AluImm{}, false},
		{"load", Load{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpectsDelaySlot(tt.ins))
		})
	}
}

func TestModifiesReg(t *testing.T) {
	assert.True(t, AluImm{Dst: register.V0}.ModifiesReg(register.V0))
	assert.False(t, AluImm{Dst: register.V0}.ModifiesReg(register.V1))
	assert.True(t, JmpImm{Link: true}.ModifiesReg(register.Ra))
	assert.False(t, JmpImm{}.ModifiesReg(register.Ra))
	assert.True(t, Load{Value: register.T0}.ModifiesReg(register.T0))
	assert.False(t, Store{Value: register.T0}.ModifiesReg(register.T0))
	assert.True(t, MultDiv{Kind: MoveFromHi, Dst: register.A0}.ModifiesReg(register.A0))
	assert.False(t, MultDiv{Kind: Mult, Lhs: register.A0}.ModifiesReg(register.A0))
	assert.True(t, Cond{Kind: GreaterOrEqualZeroLink}.ModifiesReg(register.Ra))
	assert.True(t, Co{Kind: CoMoveFromControl, Reg: register.T1}.ModifiesReg(register.T1))
}

func TestJmpReturn(t *testing.T) {
	assert.True(t, JmpReg{Target: register.Ra}.IsReturn())
	assert.False(t, JmpReg{Target: register.T0}.IsReturn())
	assert.False(t, JmpReg{Target: register.Ra, LinkReg: register.Ra, Link: true}.IsReturn())
}
