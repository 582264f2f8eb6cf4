package funcs

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/retroenv/psxdisasm/internal/pos"
)

// Errors returned by Table.Insert.
var (
	ErrDuplicate = errors.New("function with the same start position exists")
	ErrOverlap   = errors.New("function overlaps another function")
)

// Table holds functions ordered by start position.
type Table struct {
	funcs *treemap.Map // pos.Pos -> Func
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		funcs: treemap.NewWith(func(a, b any) int {
			return cmp.Compare(a.(pos.Pos), b.(pos.Pos))
		}),
	}
}

// Insert adds a valid function that does not overlap any function of the table.
func (t *Table) Insert(f Func) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("validating function '%s': %w", f.Name, err)
	}
	if existing, ok := t.GetStartingAt(f.StartPos); ok {
		return fmt.Errorf("%w: '%s' and '%s'", ErrDuplicate, f.Name, existing.Name)
	}
	if prev, ok := t.LastStartingAtOrBefore(f.StartPos); ok && prev.EndPos > f.StartPos {
		return fmt.Errorf("%w: '%s' and '%s'", ErrOverlap, f.Name, prev.Name)
	}
	if next, ok := t.GetNextFrom(f.StartPos); ok && next.StartPos < f.EndPos {
		return fmt.Errorf("%w: '%s' and '%s'", ErrOverlap, f.Name, next.Name)
	}

	t.funcs.Put(f.StartPos, f)
	return nil
}

// Merge returns a table with the functions of both tables. When both tables have a function
// starting at the same position, the function of t is kept.
func (t *Table) Merge(other *Table) *Table {
	merged := NewTable()
	for _, f := range t.All() {
		merged.funcs.Put(f.StartPos, f)
	}
	for _, f := range other.All() {
		if _, ok := merged.funcs.Get(f.StartPos); !ok {
			merged.funcs.Put(f.StartPos, f)
		}
	}
	return merged
}

// Len returns the number of functions.
func (t *Table) Len() int {
	return t.funcs.Size()
}

// All returns all functions ordered by start position.
func (t *Table) All() []Func {
	values := t.funcs.Values()
	funcs := make([]Func, 0, len(values))
	for _, v := range values {
		funcs = append(funcs, v.(Func))
	}
	return funcs
}

// GetContaining returns the function containing the position.
func (t *Table) GetContaining(p pos.Pos) (Func, bool) {
	f, ok := t.LastStartingAtOrBefore(p)
	if !ok || !f.Contains(p) {
		return Func{}, false
	}
	return f, true
}

// GetStartingAt returns the function starting at the position.
func (t *Table) GetStartingAt(p pos.Pos) (Func, bool) {
	v, ok := t.funcs.Get(p)
	if !ok {
		return Func{}, false
	}
	return v.(Func), true
}

// LastStartingAtOrBefore returns the function with the highest start position not after p.
func (t *Table) LastStartingAtOrBefore(p pos.Pos) (Func, bool) {
	_, v := t.funcs.Floor(p)
	if v == nil {
		return Func{}, false
	}
	return v.(Func), true
}

// GetNextFrom returns the first function starting after the position.
func (t *Table) GetNextFrom(p pos.Pos) (Func, bool) {
	if p == ^pos.Pos(0) {
		return Func{}, false
	}
	_, v := t.funcs.Ceiling(p + 1)
	if v == nil {
		return Func{}, false
	}
	return v.(Func), true
}

// Range returns the functions starting in [from, to).
func (t *Table) Range(from, to pos.Pos) []Func {
	var funcs []Func
	it := t.funcs.Iterator()
	for it.Next() {
		start := it.Key().(pos.Pos)
		if start < from {
			continue
		}
		if start >= to {
			break
		}
		funcs = append(funcs, it.Value().(Func))
	}
	return funcs
}

// SearchName returns the function with the given name.
func (t *Table) SearchName(name string) (Func, bool) {
	it := t.funcs.Iterator()
	for it.Next() {
		if f := it.Value().(Func); f.Name == name {
			return f, true
		}
	}
	return Func{}, false
}
