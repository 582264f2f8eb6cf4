// Package heuristics discovers functions and data of an executable from its decoded instructions.
package heuristics

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/retroenv/psxdisasm/internal/data"
	"github.com/retroenv/psxdisasm/internal/funcs"
	"github.com/retroenv/psxdisasm/internal/inst"
	"github.com/retroenv/psxdisasm/internal/inst/basic"
	"github.com/retroenv/psxdisasm/internal/inst/directive"
	"github.com/retroenv/psxdisasm/internal/inst/pseudo"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/retrogolib/set"
)

// returnSize covers the return instruction and its delay slot.
const returnSize = 2 * basic.Size

// evidence is the control flow found in the instructions.
type evidence struct {
	returns   []pos.Pos
	tailCalls []pos.Pos
	labels    []pos.Pos
	entries   []pos.Pos
}

// Functions discovers functions inside r. Entries are call targets and word aligned
// pointers outside of data regions, they end after the first following return. Candidates
// overlapping a known function or an earlier candidate are skipped. known and dataTable
// are optional.
func Functions(r pos.Range, items []inst.Item, known *funcs.Table, dataTable *data.Table) *funcs.Table {
	ev := collectEvidence(r, items, dataTable)
	found := funcs.NewTable()

	for idx, entry := range ev.entries {
		end := functionEnd(entry, ev)
		if overlaps(found, entry, end) || (known != nil && overlaps(known, entry, end)) {
			continue
		}

		f := funcs.Func{
			Name:      fmt.Sprintf("func_%d", idx),
			Signature: "fn()",
			Labels:    map[pos.Pos]string{},
			StartPos:  entry,
			EndPos:    end,
			Kind:      funcs.Heuristics,
		}
		for _, label := range between(ev.labels, entry, end) {
			f.Labels[label] = strconv.Itoa(len(f.Labels))
		}

		_ = found.Insert(f)
	}
	return found
}

func collectEvidence(r pos.Range, items []inst.Item, dataTable *data.Table) evidence {
	returns := set.New[pos.Pos]()
	tailCalls := set.New[pos.Pos]()
	labels := set.New[pos.Pos]()
	entries := set.New[pos.Pos]()

	addLabel := func(target pos.Pos) {
		if r.Contains(target) {
			labels.Add(target)
		}
	}
	addEntry := func(target pos.Pos) {
		if !r.Contains(target) {
			return
		}
		if dataTable != nil {
			if _, ok := dataTable.GetContaining(target); ok {
				return
			}
		}
		entries.Add(target)
	}

	for _, item := range items {
		switch ins := item.Inst.(type) {
		case inst.Basic:
			switch b := ins.Inst.(type) {
			case basic.JmpReg:
				if b.IsReturn() {
					returns.Add(item.Pos)
				}
				if !b.Link {
					tailCalls.Add(item.Pos)
				}
			case basic.JmpImm:
				if b.Link {
					if item.Pos.IsWordAligned() {
						addEntry(b.Target(item.Pos))
					}
					continue
				}
				tailCalls.Add(item.Pos)
				addLabel(b.Target(item.Pos))
			case basic.Cond:
				addLabel(b.Target(item.Pos))
			}

		case inst.Pseudo:
			if branch, ok := ins.Inst.(pseudo.ZeroBranch); ok {
				addLabel(branch.Target(item.Pos))
			}

		case inst.Directive:
			if dw, ok := ins.Directive.(directive.Dw); ok && pos.Pos(dw).IsWordAligned() {
				addEntry(pos.Pos(dw))
			}
		}
	}

	return evidence{
		returns:   sorted(returns),
		tailCalls: sorted(tailCalls),
		labels:    sorted(labels),
		entries:   sorted(entries),
	}
}

// functionEnd returns the end of a function starting at entry. A function ends after the first
// return following it, unless another entry comes first, then it ends after the last tail call
// before that entry.
func functionEnd(entry pos.Pos, ev evidence) pos.Pos {
	end := entry
	if ret, ok := firstAtOrAfter(ev.returns, entry); ok {
		end = ret
	}
	end = end.Add(returnSize)

	next := between(ev.entries, entry.Add(basic.Size)-1, end)
	if len(next) == 0 {
		return end
	}

	end = entry
	if call, ok := lastBefore(ev.tailCalls, next[0]); ok {
		end = call
	}
	end = end.Add(returnSize)
	if end <= entry {
		end = entry.Add(returnSize)
	}
	return end
}

// overlaps returns whether [start, end) overlaps any function of the table.
func overlaps(table *funcs.Table, start, end pos.Pos) bool {
	if prev, ok := table.LastStartingAtOrBefore(start); ok && prev.EndPos > start {
		return true
	}
	next, ok := table.GetNextFrom(start)
	return ok && next.StartPos < end
}

func sorted(s set.Set[pos.Pos]) []pos.Pos {
	positions := make([]pos.Pos, 0, len(s))
	for p := range s {
		positions = append(positions, p)
	}
	slices.Sort(positions)
	return positions
}

func firstAtOrAfter(positions []pos.Pos, p pos.Pos) (pos.Pos, bool) {
	idx, _ := slices.BinarySearch(positions, p)
	if idx == len(positions) {
		return 0, false
	}
	return positions[idx], true
}

func lastBefore(positions []pos.Pos, p pos.Pos) (pos.Pos, bool) {
	idx, _ := slices.BinarySearch(positions, p)
	if idx == 0 {
		return 0, false
	}
	return positions[idx-1], true
}

// between returns the sorted unique positions strictly inside (from, to).
func between(positions []pos.Pos, from, to pos.Pos) []pos.Pos {
	lo, found := slices.BinarySearch(positions, from)
	if found {
		lo++
	}
	hi, _ := slices.BinarySearch(positions, to)
	if lo >= hi {
		return nil
	}
	return positions[lo:hi]
}
