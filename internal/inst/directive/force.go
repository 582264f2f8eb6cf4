package directive

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"github.com/retroenv/psxdisasm/internal/pos"
)

// CodeEnd is the first position after the recognized code of the game executable.
const CodeEnd = pos.Pos(0x8006dd3c)

// Shape is the fixed layout of every 4 byte cell in a force-decode range.
type Shape uint8

// Cell shapes, named by the pieces in memory order.
const (
	ShapeW Shape = iota
	ShapeHH
	ShapeHBB
	ShapeBBH
	ShapeBBBB
)

var shapeNames = map[Shape]string{
	ShapeW:    "W",
	ShapeHH:   "HH",
	ShapeHBB:  "HBB",
	ShapeBBH:  "BBH",
	ShapeBBBB: "BBBB",
}

// pieces returns the piece sizes of a cell.
func (s Shape) pieces() []uint32 {
	switch s {
	case ShapeHH:
		return []uint32{2, 2}
	case ShapeHBB:
		return []uint32{2, 1, 1}
	case ShapeBBH:
		return []uint32{1, 1, 2}
	case ShapeBBBB:
		return []uint32{1, 1, 1, 1}
	default:
		return []uint32{4}
	}
}

func (s Shape) String() string {
	return shapeNames[s]
}

// ParseShape parses a shape name like `HH`.
func ParseShape(name string) (Shape, error) {
	for shape, s := range shapeNames {
		if strings.EqualFold(s, name) {
			return shape, nil
		}
	}
	return 0, fmt.Errorf("unsupported force-decode shape '%s'", name)
}

// ForceRange forces all positions in [Start, End) to decode with a fixed shape.
// An unbounded range covers every position from Start on.
type ForceRange struct {
	Start     pos.Pos
	End       pos.Pos
	Unbounded bool
	Shape     Shape
}

// Contains returns whether the position is inside the range.
func (r ForceRange) Contains(p pos.Pos) bool {
	return p >= r.Start && (r.Unbounded || p < r.End)
}

// ForceTable is an ordered set of force-decode ranges.
type ForceTable struct {
	ranges []ForceRange
}

// NewForceTable returns a table of the ranges ordered by start position.
func NewForceTable(ranges ...ForceRange) *ForceTable {
	sorted := slices.Clone(ranges)
	slices.SortStableFunc(sorted, func(a, b ForceRange) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})
	return &ForceTable{ranges: sorted}
}

// DefaultForceTable returns the force-decode ranges of the game executable.
func DefaultForceTable() *ForceTable {
	return NewForceTable(
		ForceRange{Start: 0x80010000, End: 0x80010008, Shape: ShapeW},
		ForceRange{Start: 0x8006fa20, End: 0x8006fa24, Shape: ShapeHH},
		ForceRange{Start: CodeEnd, Unbounded: true, Shape: ShapeW},
	)
}

// Ranges returns the ranges of the table.
func (t *ForceTable) Ranges() []ForceRange {
	if t == nil {
		return nil
	}
	return slices.Clone(t.ranges)
}

// Find returns the first range containing the position.
func (t *ForceTable) Find(p pos.Pos) (ForceRange, bool) {
	if t == nil {
		return ForceRange{}, false
	}
	for _, r := range t.ranges {
		if r.Contains(p) {
			return r, true
		}
	}
	return ForceRange{}, false
}

// Decode decodes the bytes at p if p is inside a force-decode range. The piece of the
// cell shape starting at p decides the directive, a position inside a piece decodes as byte.
func (t *ForceTable) Decode(p pos.Pos, bytes []byte) (Directive, bool) {
	r, ok := t.Find(p)
	if !ok {
		return nil, false
	}

	offset := uint32(p) % 4
	size := uint32(1)
	var cur uint32
	for _, piece := range r.Shape.pieces() {
		if cur == offset {
			size = piece
			break
		}
		cur += piece
	}

	if uint32(len(bytes)) < size {
		return nil, false
	}
	switch size {
	case 4:
		return Dw(binary.LittleEndian.Uint32(bytes)), true
	case 2:
		return Dh(binary.LittleEndian.Uint16(bytes)), true
	default:
		return Db(bytes[0]), true
	}
}
