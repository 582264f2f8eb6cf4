package pseudo

import (
	"testing"

	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/inst/basic"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
	"github.com/retroenv/retrogolib/assert"
)

func decodeWords(t *testing.T, words ...uint32) []basic.Inst {
	t.Helper()
	insts := make([]basic.Inst, 0, len(words))
	for _, word := range words {
		ins, ok := basic.Decode(word)
		assert.True(t, ok)
		insts = append(insts, ins)
	}
	return insts
}

//nolint:funlen // test functions can be long
func TestDecode(t *testing.T) {
	const p = pos.Pos(0x80010000)

	tests := []struct {
		name     string
		words    []uint32
		expected Inst
		text     string
	}{
		{
			name:     "load address with negative low half",
			words:    []uint32{0x3c028002, 0x2442fff0}, // lui $v0, 0x8002; addiu $v0, $v0, -0x10
			expected: LoadImm{Dst: register.V0, Kind: Address, Value: 0x8001fff0},
			text:     "la $v0, 0x8001fff0",
		},
		{
			name:     "load word immediate",
			words:    []uint32{0x3c021234, 0x34425678}, // lui $v0, 0x1234; ori $v0, $v0, 0x5678
			expected: LoadImm{Dst: register.V0, Kind: Word, Value: 0x12345678},
			text:     "li $v0, 0x12345678",
		},
		{
			name:     "load from address",
			words:    []uint32{0x3c028001, 0x8c420010}, // lui $v0, 0x8001; lw $v0, 0x10($v0)
			expected: Load{Value: register.V0, Target: 0x80010010, Kind: basic.LoadWord},
			text:     "lw $v0, 0x80010010",
		},
		{
			name:     "store to address",
			words:    []uint32{0x3c018001, 0xac22fffc}, // lui $at, 0x8001; sw $v0, -0x4($at)
			expected: Store{Value: register.V0, Target: 0x8000fffc, Kind: basic.StoreWord},
			text:     "sw $v0, 0x8000fffc",
		},
		{
			name:     "lui not followed by a matching instruction",
			words:    []uint32{0x3c028001, 0x24630001}, // lui $v0, 0x8001; addiu $v1, $v1, 1
			expected: nil,
		},
		{
			name:     "nop",
			words:    []uint32{0x00000000},
			expected: Nop{},
			text:     "nop",
		},
		{
			name:     "move with addu",
			words:    []uint32{0x00801021}, // addu $v0, $a0, $zr
			expected: MoveReg{Dst: register.V0, Src: register.A0, Kind: basic.AddUnsigned},
			text:     "move $v0, $a0",
		},
		{
			name:     "move with or",
			words:    []uint32{0x00801025}, // or $v0, $a0, $zr
			expected: MoveReg{Dst: register.V0, Src: register.A0, Kind: basic.Or},
			text:     "move $v0, $a0",
		},
		{
			name:     "load signed half-word",
			words:    []uint32{0x2402ffff}, // addiu $v0, $zr, -1
			expected: LoadImm{Dst: register.V0, Kind: HalfWordSigned, Value: 0xffffffff},
			text:     "li $v0, -0x1",
		},
		{
			name:     "load unsigned half-word",
			words:    []uint32{0x3402ffff}, // ori $v0, $zr, 0xffff
			expected: LoadImm{Dst: register.V0, Kind: HalfWordUnsigned, Value: 0xffff},
			text:     "li $v0, 0xffff",
		},
		{
			name:     "subtract immediate",
			words:    []uint32{0x27bdffe8}, // addiu $sp, $sp, -0x18
			expected: SubImm{Dst: register.Sp, Lhs: register.Sp, Value: 0x18, Unsigned: true},
			text:     "subiu $sp, $sp, 0x18",
		},
		{
			name:     "addi with zero is not a nop",
			words:    []uint32{0x20420000}, // addi $v0, $v0, 0
			expected: nil,
		},
		{
			name:     "branch always",
			words:    []uint32{0x10000003}, // beq $zr, $zr, 3
			expected: ZeroBranch{Kind: Always, Offset: 3},
			text:     "b 0x80010010",
		},
		{
			name:     "branch equal zero",
			words:    []uint32{0x10400003}, // beq $v0, $zr, 3
			expected: ZeroBranch{Arg: register.V0, Kind: EqualZero, Offset: 3},
			text:     "beqz $v0, 0x80010010",
		},
		{
			name:     "branch not equal zero",
			words:    []uint32{0x1440ffff}, // bne $v0, $zr, -1
			expected: ZeroBranch{Arg: register.V0, Kind: NotEqualZero, Offset: -1},
			text:     "bnez $v0, 0x80010000",
		},
		{
			name:     "branch comparing two registers",
			words:    []uint32{0x10450003}, // beq $v0, $a1, 3
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := decodeWords(t, tt.words...)
			ins, ok := Decode(window)
			if tt.expected == nil {
				assert.False(t, ok)
				return
			}

			assert.True(t, ok)
			assert.Equal(t, tt.expected, ins)
			assert.Equal(t, uint32(len(tt.words))*basic.Size, ins.Size())
			assert.Equal(t, tt.words, Encode(ins))
			assert.Equal(t, tt.text, arg.Join(ins.Mnemonic(), ins.Args(p), nil))
		})
	}
}

func TestDecodeUsesSingleInstructionOfWindow(t *testing.T) {
	// nop followed by a lui, only the nop is consumed
	window := decodeWords(t, 0x00000000, 0x3c028001)
	ins, ok := Decode(window)
	assert.True(t, ok)
	assert.Equal(t, Nop{}, ins)
	assert.Equal(t, uint32(basic.Size), ins.Size())
}

func TestDecodeEmptyWindow(t *testing.T) {
	_, ok := Decode(nil)
	assert.False(t, ok)
}

func TestSplitHiLo(t *testing.T) {
	for _, value := range []uint32{0, 0x7fff, 0x8000, 0x8001fff0, 0xffffffff, 0x12348000} {
		hi, lo := splitHiLo(value)
		assert.Equal(t, value, joinHiLo(hi, lo))
	}
}
