package data

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		expected Type
		text     string
		size     uint32
		align    uint32
	}{
		{"u32", Word(), "u32", 4, 4},
		{"u16", HalfWord(), "u16", 2, 2},
		{"u8", Byte(), "u8", 1, 1},
		{"AsciiStr<5>", AsciiStr(5), "AsciiStr<5>", 8, 4},
		{"AsciiStr<8>", AsciiStr(8), "AsciiStr<8>", 12, 4},
		{"Marker<0x10>", Marker(16), "Marker<16>", 16, 1},
		{"Arr<u16, 3>", Array(HalfWord(), 3), "Arr<u16, 3>", 6, 2},
		{" Arr<Arr<u8, 4>, 2> ", Array(Array(Byte(), 4), 2), "Arr<Arr<u8, 4>, 2>", 8, 1},
		{"Arr<AsciiStr<3>, 2>", Array(AsciiStr(3), 2), "Arr<AsciiStr<3>, 2>", 8, 4},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ty, err := ParseType(tt.input)
			assert.NoError(t, err)
			assert.True(t, tt.expected.Equal(ty))
			assert.Equal(t, tt.text, ty.String())
			assert.Equal(t, tt.size, ty.Size())
			assert.Equal(t, tt.align, ty.Align())
		})
	}
}

func TestParseTypeInvalid(t *testing.T) {
	for _, input := range []string{"", "u64", "AsciiStr<x>", "Arr<u8>", "Arr<u9, 2>", "Foo<3>", "Marker<3", "Arr<u32, 0x40000000>"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseType(input)
			assert.True(t, errors.Is(err, ErrInvalidType))
		})
	}
}

func TestTypeEqual(t *testing.T) {
	assert.True(t, Array(Word(), 2).Equal(Array(Word(), 2)))
	assert.False(t, Array(Word(), 2).Equal(Array(HalfWord(), 2)))
	assert.False(t, Marker(4).Equal(AsciiStr(4)))
	assert.False(t, AsciiStr(3).Equal(AsciiStr(4)))
}
