package program

import (
	"github.com/retroenv/psxdisasm/internal/data"
	"github.com/retroenv/psxdisasm/internal/funcs"
	"github.com/retroenv/psxdisasm/internal/inst"
	"github.com/retroenv/psxdisasm/internal/pos"
)

// ItemKind defines the kind of a program item.
type ItemKind uint8

// item kinds.
const (
	UnknownItem ItemKind = iota
	FuncItem
	DataItem
)

func (k ItemKind) String() string {
	switch k {
	case FuncItem:
		return "func"
	case DataItem:
		return "data"
	default:
		return "unknown"
	}
}

// Item is a function, a data region or a range not covered by either.
type Item struct {
	Kind  ItemKind
	Range pos.Range
	Func  funcs.Func // set for FuncItem
	Data  data.Data  // set for DataItem
	Insts *inst.DecodeIter
}

// ItemIter walks the code of a program item by item.
type ItemIter struct {
	program *Program
	cur     pos.Pos
}

// Next returns the item at the current position. A data region starting there takes
// precedence over a function, it ends early if a nested region starts inside of it.
// Anything else is an unknown range up to the nearest data or function start.
func (it *ItemIter) Next() (Item, bool) {
	prog := it.program
	end := prog.Range().End
	cur := it.cur
	if cur >= end {
		return Item{}, false
	}

	if d, ok := prog.Data.GetStartingAt(cur); ok {
		itemEnd := d.EndPos()
		if next, ok := prog.Data.GetNextFrom(cur); ok && next.Pos <= itemEnd {
			itemEnd = next.Pos
		}
		return it.item(Item{Kind: DataItem, Data: d}, cur, itemEnd), true
	}

	if f, ok := prog.Funcs.GetStartingAt(cur); ok {
		return it.item(Item{Kind: FuncItem, Func: f}, cur, f.EndPos), true
	}

	itemEnd := end
	if next, ok := prog.Data.GetNextFrom(cur); ok && next.Pos < itemEnd {
		itemEnd = next.Pos
	}
	if next, ok := prog.Funcs.GetNextFrom(cur); ok && next.StartPos < itemEnd {
		itemEnd = next.StartPos
	}
	return it.item(Item{Kind: UnknownItem}, cur, itemEnd), true
}

// Collect returns all remaining items.
func (it *ItemIter) Collect() []Item {
	var items []Item
	for {
		item, ok := it.Next()
		if !ok {
			return items
		}
		items = append(items, item)
	}
}

func (it *ItemIter) item(item Item, start, end pos.Pos) Item {
	codeEnd := it.program.Range().End
	if end > codeEnd || end < start {
		end = codeEnd
	}
	item.Range = pos.Range{Start: start, End: end}
	item.Insts = it.program.DecodeRange(item.Range)
	it.cur = end
	return item
}
