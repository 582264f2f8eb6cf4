package inst

import (
	"errors"

	"github.com/retroenv/psxdisasm/internal/pos"
)

// Item is a decoded item and its position.
type Item struct {
	Pos  pos.Pos
	Inst Inst
}

// DecodeIter decodes consecutive items of a byte image.
type DecodeIter struct {
	decoder *Decoder
	bytes   []byte
	start   pos.Pos
	cur     pos.Pos
	prev    Inst
	err     error
	done    bool
}

// Iter returns an iterator over bytes, which are located at start.
func (d *Decoder) Iter(start pos.Pos, bytes []byte) *DecodeIter {
	return &DecodeIter{
		decoder: d,
		bytes:   bytes,
		start:   start,
		cur:     start,
	}
}

// Next decodes the next item. It returns false when the bytes are exhausted or
// decoding failed, Err returns the failure.
func (it *DecodeIter) Next() (pos.Pos, Inst, bool) {
	if it.done {
		return 0, nil, false
	}

	offset := uint64(it.cur - it.start)
	if offset >= uint64(len(it.bytes)) {
		it.done = true
		return 0, nil, false
	}

	ins, err := it.decoder.Decode(it.cur, it.bytes[offset:], it.prev)
	if err != nil {
		it.done = true
		if !errors.Is(err, ErrNoBytes) {
			it.err = err
		}
		return 0, nil, false
	}

	p := it.cur
	it.cur = it.cur.Add(ins.Size())
	it.prev = ins
	return p, ins, true
}

// Pos returns the position of the next item.
func (it *DecodeIter) Pos() pos.Pos {
	return it.cur
}

// Err returns the error that stopped the iteration.
func (it *DecodeIter) Err() error {
	return it.err
}

// Reset restarts the iteration at the start position.
func (it *DecodeIter) Reset() {
	it.cur = it.start
	it.prev = nil
	it.err = nil
	it.done = false
}

// Collect decodes all remaining items.
func (it *DecodeIter) Collect() ([]Item, error) {
	var items []Item
	for {
		p, ins, ok := it.Next()
		if !ok {
			return items, it.Err()
		}
		items = append(items, Item{Pos: p, Inst: ins})
	}
}
