package program

import (
	"encoding/binary"
	"testing"

	"github.com/retroenv/psxdisasm/internal/data"
	"github.com/retroenv/psxdisasm/internal/funcs"
	"github.com/retroenv/psxdisasm/internal/inst"
	"github.com/retroenv/psxdisasm/internal/loader"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/retrogolib/assert"
)

const base = pos.Pos(0x80010000)

func testProgram(t *testing.T) *Program {
	t.Helper()
	code := make([]byte, 0x40)
	// jr $ra; nop
	binary.LittleEndian.PutUint32(code[0x10:], 0x03e00008)
	copy(code[0x20:], "abc\x00")

	dataTable := data.NewTable()
	assert.NoError(t, dataTable.Insert(data.New("block", "", base+0x20, data.Marker(0x10), data.Known)))
	assert.NoError(t, dataTable.Insert(data.New("name", "", base+0x24, data.Word(), data.Known)))
	assert.NoError(t, dataTable.Insert(data.New("tail", "", base+0x3c, data.Array(data.Word(), 4), data.Known)))

	funcTable := funcs.NewTable()
	assert.NoError(t, funcTable.Insert(funcs.Func{Name: "ret", StartPos: base + 0x10, EndPos: base + 0x18}))

	exe := &loader.Executable{Start: base, Code: code}
	return New(exe, dataTable, funcTable, nil)
}

func TestItems(t *testing.T) {
	items := testProgram(t).Items().Collect()

	expected := []struct {
		kind  ItemKind
		start pos.Pos
		end   pos.Pos
		name  string
	}{
		{UnknownItem, base, base + 0x10, ""},
		{FuncItem, base + 0x10, base + 0x18, "ret"},
		{UnknownItem, base + 0x18, base + 0x20, ""},
		{DataItem, base + 0x20, base + 0x24, "block"},
		{DataItem, base + 0x24, base + 0x28, "name"},
		{UnknownItem, base + 0x28, base + 0x3c, ""},
		{DataItem, base + 0x3c, base + 0x40, "tail"},
	}
	assert.Equal(t, len(expected), len(items))

	for i, e := range expected {
		item := items[i]
		assert.Equal(t, e.kind, item.Kind)
		assert.Equal(t, pos.Range{Start: e.start, End: e.end}, item.Range)
		switch item.Kind {
		case FuncItem:
			assert.Equal(t, e.name, item.Func.Name)
		case DataItem:
			assert.Equal(t, e.name, item.Data.Name)
		}
	}
}

func TestItemInstructions(t *testing.T) {
	items := testProgram(t).Items().Collect()

	funcItems, err := items[1].Insts.Collect()
	assert.NoError(t, err)
	assert.Equal(t, 2, len(funcItems))
	assert.Equal(t, "jr $ra", inst.Text(funcItems[0].Pos, funcItems[0].Inst, nil))
	assert.Equal(t, "nop", inst.Text(funcItems[1].Pos, funcItems[1].Inst, nil))

	// the marker region decodes with the surrounding rules
	blockItems, err := items[3].Insts.Collect()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(blockItems))
	assert.Equal(t, `.ascii "abc"`, inst.Text(blockItems[0].Pos, blockItems[0].Inst, nil))

	// the array is clipped to the end of the code
	tailItems, err := items[6].Insts.Collect()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(tailItems))
	assert.Equal(t, "dw 0x0", inst.Text(tailItems[0].Pos, tailItems[0].Inst, nil))
}

func TestDecodeRangeClipped(t *testing.T) {
	prog := testProgram(t)
	it := prog.DecodeRange(pos.Range{Start: base - 8, End: base + 4})
	items, err := it.Collect()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, base, items[0].Pos)

	items, err = prog.DecodeRange(pos.Range{Start: base + 0x100, End: base + 0x200}).Collect()
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestNewWithoutTables(t *testing.T) {
	prog := New(&loader.Executable{Start: base, Code: make([]byte, 8)}, nil, nil, nil)
	items := prog.Items().Collect()
	assert.Equal(t, 1, len(items))
	assert.Equal(t, UnknownItem, items[0].Kind)
	assert.Equal(t, "unknown", items[0].Kind.String())
}
