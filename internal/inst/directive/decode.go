package directive

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/retroenv/psxdisasm/internal/data"
	"github.com/retroenv/psxdisasm/internal/pos"
)

// Errors returned when decoding bytes with a declared data type.
var (
	ErrMissingBytes      = errors.New("missing bytes")
	ErrNotAligned        = errors.New("data is not aligned")
	ErrOffset            = errors.New("cannot read value at an offset of its data")
	ErrStrInvalidChars   = errors.New("string has invalid characters")
	ErrStrNullsWithin    = errors.New("string has nulls within")
	ErrStrNullTerminator = errors.New("string is missing its null terminator")
)

// DecodeError is returned when bytes do not match the declared data type.
type DecodeError struct {
	Pos  pos.Pos
	Type data.Type
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s at %s: %s", e.Type, e.Pos, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeWithData decodes the bytes at p, which lie inside a region of type ty starting at start.
// bytes begins at p.
func DecodeWithData(p pos.Pos, bytes []byte, ty data.Type, start pos.Pos) (Directive, error) {
	d, err := decodeWithData(p, bytes, ty, start)
	if err != nil {
		return nil, &DecodeError{Pos: p, Type: ty, Err: err}
	}
	return d, nil
}

func decodeWithData(p pos.Pos, bytes []byte, ty data.Type, start pos.Pos) (Directive, error) {
	if !start.IsAlignedTo(ty.Align()) {
		return nil, ErrNotAligned
	}
	if !ty.IsComposite() && p != start {
		return nil, ErrOffset
	}

	switch ty.Kind {
	case data.KindAsciiStr:
		return decodeAsciiStr(bytes, ty.Len)

	case data.KindWord:
		if len(bytes) < 4 {
			return nil, ErrMissingBytes
		}
		return Dw(binary.LittleEndian.Uint32(bytes)), nil

	case data.KindHalfWord:
		if len(bytes) < 2 {
			return nil, ErrMissingBytes
		}
		return Dh(binary.LittleEndian.Uint16(bytes)), nil

	case data.KindByte:
		if len(bytes) < 1 {
			return nil, ErrMissingBytes
		}
		return Db(bytes[0]), nil

	case data.KindArray:
		elemSize := ty.Elem.Size()
		if elemSize == 0 {
			return nil, ErrMissingBytes
		}
		idx := uint32(p-start) / elemSize
		return decodeWithData(p, bytes, *ty.Elem, start.Add(idx*elemSize))

	default:
		d, ok := Decode(p, bytes)
		if !ok {
			return nil, ErrMissingBytes
		}
		return d, nil
	}
}

func decodeAsciiStr(bytes []byte, length uint32) (Directive, error) {
	if uint32(len(bytes)) < length {
		return nil, ErrMissingBytes
	}

	s := bytes[:length]
	for _, b := range s {
		if b >= 0x80 {
			return nil, ErrStrInvalidChars
		}
	}
	for _, b := range s {
		if b == 0 {
			return nil, ErrStrNullsWithin
		}
	}

	padding := 4 - length%4
	if uint32(len(bytes)) < length+padding {
		return nil, ErrStrNullTerminator
	}
	for _, b := range bytes[length : length+padding] {
		if b != 0 {
			return nil, ErrStrNullTerminator
		}
	}
	return Ascii(s), nil
}

// Decode decodes the bytes at p without a declared type. Unaligned positions decode
// as bytes or half-words, word aligned positions try an ASCII string before falling
// back to a word, a half-word and a byte.
func Decode(p pos.Pos, bytes []byte) (Directive, bool) {
	switch {
	case !p.IsHalfWordAligned():
		if len(bytes) < 1 {
			return nil, false
		}
		return Db(bytes[0]), true

	case !p.IsWordAligned():
		if len(bytes) < 2 {
			return nil, false
		}
		return Dh(binary.LittleEndian.Uint16(bytes)), true
	}

	if s, ok := readASCIIUntilNull(bytes); ok {
		return Ascii(s), true
	}

	switch {
	case len(bytes) >= 4:
		return Dw(binary.LittleEndian.Uint32(bytes)), true
	case len(bytes) >= 2:
		return Dh(binary.LittleEndian.Uint16(bytes)), true
	case len(bytes) == 1:
		return Db(bytes[0]), true
	default:
		return nil, false
	}
}

// readASCIIUntilNull reads a string word by word until a word ends it. A word ends the
// string when its nulls are all at the end. A word with a null followed by a non-null,
// any non-ASCII byte or running out of words rejects the string.
func readASCIIUntilNull(bytes []byte) (string, bool) {
	for size := 0; size+4 <= len(bytes); size += 4 {
		word := bytes[size : size+4]
		for _, b := range word {
			if b >= 0x80 {
				return "", false
			}
		}

		length := size
		switch {
		case word[0] == 0 && word[1] == 0 && word[2] == 0 && word[3] == 0:
			if size == 0 {
				return "", false
			}
		case word[0] == 0:
			return "", false
		case word[1] == 0 && word[2] == 0 && word[3] == 0:
			length = size + 1
		case word[1] == 0:
			return "", false
		case word[2] == 0 && word[3] == 0:
			length = size + 2
		case word[2] == 0:
			return "", false
		case word[3] == 0:
			length = size + 3
		default:
			continue
		}
		return string(bytes[:length]), true
	}
	return "", false
}
