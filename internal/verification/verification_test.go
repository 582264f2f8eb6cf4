package verification

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/psxdisasm/internal/data"
	"github.com/retroenv/psxdisasm/internal/loader"
	"github.com/retroenv/psxdisasm/internal/options"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/program"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

const base = pos.Pos(0x80010000)

func testFile() []byte {
	header := loader.Header{
		PC0:    uint32(base),
		Dest:   base,
		Size:   0x800,
		Marker: "Sony Computer Entertainment Inc. for Europe area",
	}
	code := make([]byte, header.Size)
	binary.LittleEndian.PutUint32(code[0x00:], 0x3c088001) // lui $t0, 0x8001
	binary.LittleEndian.PutUint32(code[0x04:], 0x25080100) // addiu $t0, $t0, 0x100
	binary.LittleEndian.PutUint32(code[0x08:], 0x03e00008) // jr $ra
	copy(code[0x100:], "text\x00")
	code[0x201] = 0xff
	return append(header.Bytes(), code...)
}

func testProgram(t *testing.T, source []byte) *program.Program {
	t.Helper()
	exe, err := loader.New().LoadFromBytes(source, false, 0)
	assert.NoError(t, err)

	dataTable := data.NewTable()
	assert.NoError(t, dataTable.Insert(data.New("text", "", base+0x100, data.AsciiStr(4), data.Known)))
	return program.New(exe, dataTable, nil, nil)
}

func TestVerifyBytes(t *testing.T) {
	source := testFile()
	app := testProgram(t, source)
	assert.NoError(t, VerifyBytes(context.Background(), log.NewTestLogger(t), source, app))
}

func TestVerifyOutput(t *testing.T) {
	source := testFile()
	path := filepath.Join(t.TempDir(), "test.exe")
	assert.NoError(t, os.WriteFile(path, source, 0600))

	app := testProgram(t, source)
	opts := options.Program{}
	opts.Input = path
	assert.NoError(t, VerifyOutput(context.Background(), log.NewTestLogger(t), opts, app))

	opts.Input = ""
	assert.Error(t, VerifyOutput(context.Background(), log.NewTestLogger(t), opts, app))
}

func TestVerifyMismatch(t *testing.T) {
	source := testFile()
	app := testProgram(t, source)

	changed := append([]byte(nil), source...)
	changed[loader.HeaderSize+0x300] = 1
	err := VerifyBytes(context.Background(), log.NewTestLogger(t), changed, app)
	assert.ErrorContains(t, err, "1 offset mismatches")

	changed = append([]byte(nil), source...)
	binary.LittleEndian.PutUint32(changed[0x10:], 0)
	err = VerifyBytes(context.Background(), log.NewTestLogger(t), changed, app)
	assert.ErrorContains(t, err, "header mismatch")
}

func TestEncodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Encode(ctx, testProgram(t, testFile()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckBufferEqual(t *testing.T) {
	logger := log.NewTestLogger(t)

	tests := []struct {
		name    string
		input   []byte
		output  []byte
		wantErr string
	}{
		{"equal", []byte{1, 2, 3}, []byte{1, 2, 3}, ""},
		{"length", []byte{1, 2, 3}, []byte{1, 2}, "mismatched lengths, 3 != 2"},
		{"bytes", []byte{1, 2, 3}, []byte{1, 0, 0}, "2 offset mismatches"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkBufferEqual(logger, tt.input, tt.output)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
