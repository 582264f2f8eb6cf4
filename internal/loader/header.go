package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/retroenv/psxdisasm/internal/pos"
)

// Header layout of a PS-X EXE file.
const (
	HeaderSize = 0x800
	Magic      = "PS-X EXE"

	offsetPC0             = 0x10
	offsetGP0             = 0x14
	offsetDest            = 0x18
	offsetSize            = 0x1c
	offsetMemfillStart    = 0x28
	offsetMemfillSize     = 0x2c
	offsetInitialSPBase   = 0x30
	offsetInitialSPOffset = 0x34
	offsetMarker          = 0x4c
)

// Errors returned when parsing a header.
var (
	ErrMagic         = errors.New("invalid PS-X EXE magic")
	ErrTruncated     = errors.New("file is truncated")
	ErrSizeAlignment = errors.New("executable size is not a multiple of 0x800")
	ErrMarker        = errors.New("invalid header marker")
)

// Header is the header of a PS-X EXE file.
type Header struct {
	PC0             uint32  // initial program counter, the entry point
	GP0             uint32  // initial $gp
	Dest            pos.Pos // load address of the code, a multiple of 0x800
	Size            uint32  // size of the code
	MemfillStart    uint32
	MemfillSize     uint32
	InitialSPBase   uint32 // initial $sp and $fp
	InitialSPOffset uint32
	Marker          string // region marker text
}

// ParseHeader parses the first HeaderSize bytes of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header needs %#x bytes, got %#x", ErrTruncated, HeaderSize, len(b))
	}
	if string(b[:len(Magic)]) != Magic {
		return Header{}, fmt.Errorf("%w: %q", ErrMagic, b[:len(Magic)])
	}

	le := binary.LittleEndian
	h := Header{
		PC0:             le.Uint32(b[offsetPC0:]),
		GP0:             le.Uint32(b[offsetGP0:]),
		Dest:            pos.Pos(le.Uint32(b[offsetDest:])),
		Size:            le.Uint32(b[offsetSize:]),
		MemfillStart:    le.Uint32(b[offsetMemfillStart:]),
		MemfillSize:     le.Uint32(b[offsetMemfillSize:]),
		InitialSPBase:   le.Uint32(b[offsetInitialSPBase:]),
		InitialSPOffset: le.Uint32(b[offsetInitialSPOffset:]),
	}
	if h.Size%HeaderSize != 0 {
		return Header{}, fmt.Errorf("%w: %#x", ErrSizeAlignment, h.Size)
	}

	marker, err := readMarker(b[offsetMarker:HeaderSize])
	if err != nil {
		return Header{}, err
	}
	h.Marker = marker
	return h, nil
}

// Bytes returns the encoded header.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b, Magic)

	le := binary.LittleEndian
	le.PutUint32(b[offsetPC0:], h.PC0)
	le.PutUint32(b[offsetGP0:], h.GP0)
	le.PutUint32(b[offsetDest:], uint32(h.Dest))
	le.PutUint32(b[offsetSize:], h.Size)
	le.PutUint32(b[offsetMemfillStart:], h.MemfillStart)
	le.PutUint32(b[offsetMemfillSize:], h.MemfillSize)
	le.PutUint32(b[offsetInitialSPBase:], h.InitialSPBase)
	le.PutUint32(b[offsetInitialSPOffset:], h.InitialSPOffset)
	copy(b[offsetMarker:HeaderSize-1], h.Marker)
	return b
}

// readMarker reads a null terminated ASCII string.
func readMarker(b []byte) (string, error) {
	end := bytes.IndexByte(b, 0)
	if end < 0 {
		return "", fmt.Errorf("%w: missing null terminator", ErrMarker)
	}
	for _, c := range b[:end] {
		if c >= 0x80 {
			return "", fmt.Errorf("%w: non ascii character %#x", ErrMarker, c)
		}
	}
	return string(b[:end]), nil
}
