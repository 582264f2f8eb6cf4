// Package pos provides the absolute byte address type used throughout the analysis.
package pos

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

// Size constants of the machine words.
const (
	WordSize     = 4
	HalfWordSize = 2
)

// ErrNegativeOffset is returned when an offset is requested from a position after the current one.
var ErrNegativeOffset = errors.New("negative offset")

// Pos is an absolute byte address in the executable's address space.
type Pos uint32

// String returns the position as hex value.
func (p Pos) String() string {
	return fmt.Sprintf("%#x", uint32(p))
}

// Add returns the position advanced by n bytes, wrapping around the address space.
func (p Pos) Add(n uint32) Pos {
	return p + Pos(n)
}

// AddSigned returns the position moved by a signed offset, wrapping around the address space.
func (p Pos) AddSigned(offset int32) Pos {
	return Pos(int32(p) + offset)
}

// Sub returns the position moved back by n bytes, wrapping around the address space.
func (p Pos) Sub(n uint32) Pos {
	return p - Pos(n)
}

// Diff returns the signed distance p - other.
// Both positions are interpreted as signed 32 bit values, matching the arithmetic of
// branch displacements.
func (p Pos) Diff(other Pos) int64 {
	return int64(int32(p)) - int64(int32(other))
}

// OffsetFrom returns the unsigned number of bytes between start and p.
func (p Pos) OffsetFrom(start Pos) (int, error) {
	if p < start {
		return 0, fmt.Errorf("%w: %s before %s", ErrNegativeOffset, p, start)
	}
	return int(p - start), nil
}

// IsAlignedTo returns whether the position is a multiple of align.
// An alignment of 0 is never satisfied.
func (p Pos) IsAlignedTo(align uint32) bool {
	if align == 0 {
		return false
	}
	return uint32(p)%align == 0
}

// IsWordAligned returns whether the position is aligned to a word.
func (p Pos) IsWordAligned() bool {
	return p.IsAlignedTo(WordSize)
}

// IsHalfWordAligned returns whether the position is aligned to a half-word.
func (p Pos) IsHalfWordAligned() bool {
	return p.IsAlignedTo(HalfWordSize)
}

// AlignDown rounds value down to a multiple of align.
func AlignDown[T constraints.Unsigned](value, align T) T {
	return value - value%align
}

// SignExtend sign extends the lowest bits bits of value to a signed 32 bit value.
func SignExtend[T constraints.Unsigned](value T, bits uint) int32 {
	shift := 32 - bits
	return int32(uint32(value)<<shift) >> shift
}

// Range is a half open range of positions [Start, End).
type Range struct {
	Start Pos
	End   Pos
}

// Contains returns whether the position lies inside the range.
func (r Range) Contains(p Pos) bool {
	return p >= r.Start && p < r.End
}

// Len returns the number of bytes in the range.
func (r Range) Len() uint32 {
	if r.End <= r.Start {
		return 0
	}
	return uint32(r.End - r.Start)
}

// String returns the range in a readable form.
func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}
