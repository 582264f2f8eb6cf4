package register

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNew(t *testing.T) {
	for i := uint32(0); i < Count; i++ {
		r, ok := New(i)
		assert.True(t, ok)
		assert.Equal(t, i, r.Idx())
	}

	_, ok := New(Count)
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	assert.Equal(t, "$zr", Zr.String())
	assert.Equal(t, "$a0", A0.String())
	assert.Equal(t, "$t8", T8.String())
	assert.Equal(t, "$ra", Ra.String())
}

func TestFromBits(t *testing.T) {
	// addiu $sp, $sp, -0x18
	raw := uint32(0x27bdffe8)
	assert.Equal(t, Sp, FromBits(raw, 21))
	assert.Equal(t, Sp, FromBits(raw, 16))
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Register
		wantErr  bool
	}{
		{input: "$zr", expected: Zr},
		{input: "$zero", expected: Zr},
		{input: "$S8", expected: Fp},
		{input: " $ra ", expected: Ra},
		{input: "$r29", expected: Sp},
		{input: "$r32", wantErr: true},
		{input: "sp", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, r)
		})
	}
}
