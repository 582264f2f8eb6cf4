package pos

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestPosArithmetic(t *testing.T) {
	p := Pos(0x80010000)

	assert.Equal(t, Pos(0x80010004), p.Add(4))
	assert.Equal(t, Pos(0x8000fffc), p.Sub(4))
	assert.Equal(t, Pos(0x8000fff0), p.AddSigned(-0x10))
	assert.Equal(t, Pos(0), Pos(0xffffffff).Add(1))
	assert.Equal(t, int64(-8), p.Diff(p.Add(8)))
	assert.Equal(t, int64(8), p.Add(8).Diff(p))
	assert.Equal(t, "0x80010000", p.String())
}

func TestPosOffsetFrom(t *testing.T) {
	start := Pos(0x80010000)

	offset, err := start.Add(0x20).OffsetFrom(start)
	assert.NoError(t, err)
	assert.Equal(t, 0x20, offset)

	_, err = start.OffsetFrom(start.Add(4))
	assert.True(t, errors.Is(err, ErrNegativeOffset))
}

func TestPosAlignment(t *testing.T) {
	tests := []struct {
		name     string
		pos      Pos
		word     bool
		halfWord bool
	}{
		{"word aligned", 0x80010000, true, true},
		{"half-word aligned", 0x80010002, false, true},
		{"byte aligned", 0x80010003, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.word, tt.pos.IsWordAligned())
			assert.Equal(t, tt.halfWord, tt.pos.IsHalfWordAligned())
		})
	}

	assert.False(t, Pos(0).IsAlignedTo(0))
	assert.True(t, Pos(0x10).IsAlignedTo(8))
}

func TestSignExtend(t *testing.T) {
	assert.Equal(t, int32(-1), SignExtend(uint32(0xffff), 16))
	assert.Equal(t, int32(0x7fff), SignExtend(uint16(0x7fff), 16))
	assert.Equal(t, int32(-0x8000), SignExtend(uint32(0x8000), 16))
	assert.Equal(t, uint32(0x10), AlignDown(uint32(0x13), 4))
}

func TestRange(t *testing.T) {
	r := Range{Start: 0x10, End: 0x20}

	assert.True(t, r.Contains(0x10))
	assert.False(t, r.Contains(0x20))
	assert.Equal(t, uint32(0x10), r.Len())
	assert.Equal(t, uint32(0), Range{Start: 0x20, End: 0x10}.Len())
}
