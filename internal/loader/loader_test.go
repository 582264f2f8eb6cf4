package loader

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/psxdisasm/internal/options"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/retrogolib/assert"
)

func testHeader() Header {
	return Header{
		PC0:             0x80010008,
		GP0:             0x8007c000,
		Dest:            0x80010000,
		Size:            0x800,
		InitialSPBase:   0x801ffff0,
		InitialSPOffset: 0,
		Marker:          "Sony Computer Entertainment Inc. for Europe area",
	}
}

func createExe(h Header, codeSize int) []byte {
	b := h.Bytes()
	code := make([]byte, codeSize)
	for i := range code {
		code[i] = byte(i)
	}
	return append(b, code...)
}

//nolint:funlen,cyclop // test functions can be long and complex
func TestLoad(t *testing.T) {
	t.Run("load binary file", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0x01, 0x02, 0x03, 0x04})

		loader := New()
		opts := options.Program{
			Parameters: options.Parameters{Input: tmpFile},
		}
		disasmOpts := options.NewDisassembler()
		disasmOpts.Binary = true

		exe, err := loader.Load(opts, disasmOpts)
		assert.NoError(t, err)
		assert.True(t, exe.Header == nil)
		assert.Equal(t, pos.Pos(options.DefaultBaseAddress), exe.Start)
		assert.Equal(t, pos.Pos(options.DefaultBaseAddress), exe.Entry())
		assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, exe.Code)
		assert.Equal(t, pos.Range{Start: exe.Start, End: exe.Start + 4}, exe.Range())
	})

	t.Run("load PS-X EXE file", func(t *testing.T) {
		tmpFile := createTempFile(t, createExe(testHeader(), 0x900))

		loader := New()
		opts := options.Program{
			Parameters: options.Parameters{Input: tmpFile},
		}

		exe, err := loader.Load(opts, options.NewDisassembler())
		assert.NoError(t, err)
		assert.NotNil(t, exe.Header)
		assert.Equal(t, testHeader(), *exe.Header)
		assert.Equal(t, pos.Pos(0x80010000), exe.Start)
		assert.Equal(t, pos.Pos(0x80010008), exe.Entry())
		// trailing bytes after the declared size are not code
		assert.Equal(t, 0x800, len(exe.Code))
		assert.Equal(t, createExe(testHeader(), 0x800), exe.Bytes())
	})

	t.Run("load non-existent file", func(t *testing.T) {
		loader := New()
		opts := options.Program{
			Parameters: options.Parameters{Input: "/nonexistent/file.exe"},
		}

		_, err := loader.Load(opts, options.NewDisassembler())
		assert.ErrorContains(t, err, "opening file")
	})

	t.Run("binary overflowing the address space", func(t *testing.T) {
		_, err := New().LoadFromBytes(make([]byte, 8), true, 0xfffffffc)
		assert.ErrorContains(t, err, "does not fit")
	})
}

//nolint:funlen // test functions can be long
func TestParseHeaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  func() []byte
		target error
	}{
		{
			name:   "short header",
			input:  func() []byte { return []byte(Magic) },
			target: ErrTruncated,
		},
		{
			name: "invalid magic",
			input: func() []byte {
				b := testHeader().Bytes()
				copy(b, "PS-X EXF")
				return b
			},
			target: ErrMagic,
		},
		{
			name: "unaligned size",
			input: func() []byte {
				b := testHeader().Bytes()
				binary.LittleEndian.PutUint32(b[offsetSize:], 0x804)
				return b
			},
			target: ErrSizeAlignment,
		},
		{
			name: "marker without terminator",
			input: func() []byte {
				b := testHeader().Bytes()
				for i := offsetMarker; i < HeaderSize; i++ {
					b[i] = 'A'
				}
				return b
			},
			target: ErrMarker,
		},
		{
			name: "marker with non ascii character",
			input: func() []byte {
				b := testHeader().Bytes()
				b[offsetMarker] = 0xe9
				return b
			},
			target: ErrMarker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(tt.input())
			assert.True(t, errors.Is(err, tt.target))
		})
	}
}

func TestLoadTruncatedCode(t *testing.T) {
	h := testHeader()
	h.Size = 0x1000
	_, err := New().LoadFromBytes(createExe(h, 0x800), false, 0)
	assert.True(t, errors.Is(err, ErrTruncated))
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.exe")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
