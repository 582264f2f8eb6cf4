package heuristics

import (
	"fmt"

	"github.com/retroenv/psxdisasm/internal/data"
	"github.com/retroenv/psxdisasm/internal/inst"
	"github.com/retroenv/psxdisasm/internal/inst/directive"
	"github.com/retroenv/psxdisasm/internal/inst/pseudo"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/retrogolib/set"
)

// Data returns a heuristic data region for every directive inside r that is referenced
// by an address load, an absolute load or store, or a word directive.
func Data(r pos.Range, items []inst.Item) []data.Data {
	references := set.New[pos.Pos]()
	for _, item := range items {
		if target, ok := reference(item.Inst); ok && r.Contains(target) {
			references.Add(target)
		}
	}

	var found []data.Data
	for _, item := range items {
		dir, ok := item.Inst.(inst.Directive)
		if !ok || !references.Contains(item.Pos) {
			continue
		}

		idx := len(found)
		var d data.Data
		switch v := dir.Directive.(type) {
		case directive.Ascii:
			d = data.New(fmt.Sprintf("string_%d", idx), "", item.Pos, data.AsciiStr(uint32(len(v))), data.Heuristics)
		case directive.Dw:
			d = data.New(fmt.Sprintf("data_w%d", idx), "", item.Pos, data.Word(), data.Heuristics)
		case directive.Dh:
			d = data.New(fmt.Sprintf("data_h%d", idx), "", item.Pos, data.HalfWord(), data.Heuristics)
		case directive.Db:
			d = data.New(fmt.Sprintf("data_b%d", idx), "", item.Pos, data.Byte(), data.Heuristics)
		}
		found = append(found, d)
	}
	return found
}

// reference returns the absolute position an instruction refers to.
func reference(ins inst.Inst) (pos.Pos, bool) {
	switch v := ins.(type) {
	case inst.Pseudo:
		switch p := v.Inst.(type) {
		case pseudo.LoadImm:
			if p.Kind == pseudo.Address || p.Kind == pseudo.Word {
				return pos.Pos(p.Value), true
			}
		case pseudo.Load:
			return p.Target, true
		case pseudo.Store:
			return p.Target, true
		}

	case inst.Directive:
		if dw, ok := v.Directive.(directive.Dw); ok {
			return pos.Pos(dw), true
		}
	}
	return 0, false
}
