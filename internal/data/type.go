package data

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidType is returned when a data type specifier can not be parsed.
var ErrInvalidType = errors.New("invalid data type")

// TypeKind is the kind of a data type.
type TypeKind uint8

// Data type kinds.
const (
	KindWord TypeKind = iota
	KindHalfWord
	KindByte
	KindAsciiStr
	KindArray
	KindMarker
)

// Type is the type of a data region.
type Type struct {
	Kind TypeKind
	// Len is the string length, the array element count or the marker size.
	Len uint32
	// Elem is the element type of arrays.
	Elem *Type
}

// Word returns the 32 bit word type.
func Word() Type { return Type{Kind: KindWord} }

// HalfWord returns the 16 bit half-word type.
func HalfWord() Type { return Type{Kind: KindHalfWord} }

// Byte returns the byte type.
func Byte() Type { return Type{Kind: KindByte} }

// AsciiStr returns a null padded ASCII string type with length characters.
func AsciiStr(length uint32) Type { return Type{Kind: KindAsciiStr, Len: length} }

// Array returns an array type of count elements.
func Array(elem Type, count uint32) Type {
	return Type{Kind: KindArray, Len: count, Elem: &elem}
}

// Marker returns a marker type covering size bytes without a fixed layout.
func Marker(size uint32) Type { return Type{Kind: KindMarker, Len: size} }

// Size returns the size of the type in bytes.
func (t Type) Size() uint32 {
	switch t.Kind {
	case KindWord:
		return 4
	case KindHalfWord:
		return 2
	case KindByte:
		return 1
	case KindAsciiStr:
		return t.Len + 4 - t.Len%4
	case KindArray:
		return t.Len * t.Elem.Size()
	default:
		return t.Len
	}
}

// Align returns the alignment in bytes required for the start of the type.
func (t Type) Align() uint32 {
	switch t.Kind {
	case KindWord, KindAsciiStr:
		return 4
	case KindHalfWord:
		return 2
	case KindArray:
		return t.Elem.Align()
	default:
		return 1
	}
}

// IsComposite returns whether the type can hold other data, which is the case for arrays and markers.
func (t Type) IsComposite() bool {
	return t.Kind == KindArray || t.Kind == KindMarker
}

// Equal returns whether both types are identical.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind || t.Len != other.Len {
		return false
	}
	if t.Kind != KindArray {
		return true
	}
	return t.Elem.Equal(*other.Elem)
}

// String returns the type specifier.
func (t Type) String() string {
	switch t.Kind {
	case KindWord:
		return "u32"
	case KindHalfWord:
		return "u16"
	case KindByte:
		return "u8"
	case KindAsciiStr:
		return fmt.Sprintf("AsciiStr<%d>", t.Len)
	case KindArray:
		return fmt.Sprintf("Arr<%s, %d>", t.Elem, t.Len)
	default:
		return fmt.Sprintf("Marker<%d>", t.Len)
	}
}

// ParseType parses a type specifier such as `u32`, `AsciiStr<12>`, `Arr<u16, 0x10>` or `Marker<8>`.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)

	switch s {
	case "u32":
		return Word(), nil
	case "u16":
		return HalfWord(), nil
	case "u8":
		return Byte(), nil
	}

	name, inner, ok := splitGeneric(s)
	if !ok {
		return Type{}, fmt.Errorf("%w: '%s'", ErrInvalidType, s)
	}

	switch name {
	case "AsciiStr", "Marker":
		n, err := parseLen(inner)
		if err != nil {
			return Type{}, fmt.Errorf("%w: '%s': %w", ErrInvalidType, s, err)
		}
		if name == "Marker" {
			return Marker(n), nil
		}
		return AsciiStr(n), nil

	case "Arr":
		idx := strings.LastIndex(inner, ",")
		if idx < 0 {
			return Type{}, fmt.Errorf("%w: '%s': missing array length", ErrInvalidType, s)
		}
		elem, err := ParseType(inner[:idx])
		if err != nil {
			return Type{}, err
		}
		n, err := parseLen(inner[idx+1:])
		if err != nil {
			return Type{}, fmt.Errorf("%w: '%s': %w", ErrInvalidType, s, err)
		}
		if uint64(n)*uint64(elem.Size()) > 1<<32-1 {
			return Type{}, fmt.Errorf("%w: '%s': array too large", ErrInvalidType, s)
		}
		return Array(elem, n), nil

	default:
		return Type{}, fmt.Errorf("%w: unknown type '%s'", ErrInvalidType, name)
	}
}

// splitGeneric splits `Name<inner>` into its parts.
func splitGeneric(s string) (string, string, bool) {
	open := strings.IndexByte(s, '<')
	if open <= 0 || !strings.HasSuffix(s, ">") {
		return "", "", false
	}
	return s[:open], s[open+1 : len(s)-1], true
}

func parseLen(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing length: %w", err)
	}
	return uint32(n), nil
}
