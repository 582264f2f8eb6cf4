package inst

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/retroenv/psxdisasm/internal/data"
	"github.com/retroenv/psxdisasm/internal/funcs"
	"github.com/retroenv/psxdisasm/internal/inst/basic"
	"github.com/retroenv/psxdisasm/internal/inst/directive"
	"github.com/retroenv/psxdisasm/internal/inst/pseudo"
	"github.com/retroenv/psxdisasm/internal/pos"
)

// ErrNoBytes is returned when there are not enough bytes left to decode anything.
var ErrNoBytes = errors.New("no bytes to decode")

// InvalidDataLocationError is returned when the bytes of a data region do not match its type.
type InvalidDataLocationError struct {
	Pos  pos.Pos
	Data data.Data
	Err  error
}

func (e *InvalidDataLocationError) Error() string {
	return fmt.Sprintf("invalid data location %s in %s: %s", e.Pos, e.Data, e.Err)
}

func (e *InvalidDataLocationError) Unwrap() error {
	return e.Err
}

// Decoder decodes positions using the tables of an analysis. All tables are optional.
type Decoder struct {
	Data  *data.Table
	Funcs *funcs.Table
	Force *directive.ForceTable
}

// Decode decodes the item at p, bytes starts at p. prev is the item decoded right
// before p, if any.
func (d *Decoder) Decode(p pos.Pos, bytes []byte, prev Inst) (Inst, error) {
	if len(bytes) == 0 {
		return nil, ErrNoBytes
	}

	if _, ok := d.Force.Find(p); ok {
		dir, ok := d.Force.Decode(p, bytes)
		if !ok {
			return nil, ErrNoBytes
		}
		return Directive{dir}, nil
	}

	if d.Data != nil {
		if region, ok := d.Data.GetContaining(p); ok {
			dir, err := directive.DecodeWithData(p, bytes, region.Type, region.Pos)
			if err != nil {
				return nil, &InvalidDataLocationError{Pos: p, Data: region, Err: err}
			}
			return Directive{dir}, nil
		}
		// known data starting later must not be swallowed by a pseudo instruction or string
		if next, ok := d.Data.GetNextFrom(p); ok && uint64(next.Pos-p) < uint64(len(bytes)) {
			bytes = bytes[:next.Pos-p]
		}
	}

	if !p.IsWordAligned() {
		return freeDirective(p, bytes)
	}

	window := decodeWindow(bytes)
	if ins, ok := pseudo.Decode(window); ok && d.acceptPseudo(p, ins, prev) {
		return Pseudo{ins}, nil
	}
	if len(window) > 0 {
		return Basic{window[0]}, nil
	}
	return freeDirective(p, bytes)
}

// acceptPseudo rejects pseudo instructions spanning several words that would hide a
// branch delay slot or a label.
func (d *Decoder) acceptPseudo(p pos.Pos, ins pseudo.Inst, prev Inst) bool {
	size := ins.Size()
	if size > basic.Size && prev != nil && ExpectsDelaySlot(prev) {
		return false
	}
	if d.Funcs == nil {
		return true
	}
	from, to := p.Add(1), p.Add(size)
	f, ok := d.Funcs.LastStartingAtOrBefore(from)
	if !ok {
		f, ok = d.Funcs.GetNextFrom(from)
	}
	// every function starting before the end can hold a label of the hidden words
	for ok && f.StartPos < to {
		if f.HasLabelIn(from, to) {
			return false
		}
		f, ok = d.Funcs.GetNextFrom(f.StartPos)
	}
	return true
}

// decodeWindow decodes consecutive basic instructions, stopping at the first invalid word.
func decodeWindow(bytes []byte) []basic.Inst {
	window := make([]basic.Inst, 0, pseudo.MaxWindow)
	for offset := 0; offset+basic.Size <= len(bytes) && len(window) < pseudo.MaxWindow; offset += basic.Size {
		ins, ok := basic.Decode(binary.LittleEndian.Uint32(bytes[offset:]))
		if !ok {
			break
		}
		window = append(window, ins)
	}
	return window
}

func freeDirective(p pos.Pos, bytes []byte) (Inst, error) {
	dir, ok := directive.Decode(p, bytes)
	if !ok {
		return nil, ErrNoBytes
	}
	return Directive{dir}, nil
}
