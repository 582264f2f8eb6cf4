// Package data contains the typed data regions of an executable and the region tree indexing them.
package data

import (
	"fmt"

	"github.com/retroenv/psxdisasm/internal/pos"
)

// Kind is the origin of a data region.
type Kind uint8

// Data kinds.
const (
	// Known regions come from a curated catalog.
	Known Kind = iota
	// Heuristics regions were inferred by scanning instructions.
	Heuristics
)

// String returns the kind name.
func (k Kind) String() string {
	if k == Heuristics {
		return "heuristics"
	}
	return "known"
}

// Data is a typed data region.
type Data struct {
	Name string
	Desc string
	Pos  pos.Pos
	Type Type
	Kind Kind
}

// New returns a new data region.
func New(name, desc string, p pos.Pos, ty Type, kind Kind) Data {
	return Data{Name: name, Desc: desc, Pos: p, Type: ty, Kind: kind}
}

// root returns a dummy region covering the whole address space.
func root() Data {
	return Data{Pos: 0, Type: Array(Word(), 0xffffffff/4)}
}

// Size returns the size of the region in bytes.
func (d Data) Size() uint32 {
	return d.Type.Size()
}

// EndPos returns the first position after the region.
func (d Data) EndPos() pos.Pos {
	return d.Pos.Add(d.Size())
}

// Range returns the range covered by the region.
func (d Data) Range() pos.Range {
	return pos.Range{Start: d.Pos, End: d.EndPos()}
}

// end returns the end of the region without wrapping around the address space.
func (d Data) end() uint64 {
	return uint64(d.Pos) + uint64(d.Size())
}

// Contains returns whether the position is inside the region.
func (d Data) Contains(p pos.Pos) bool {
	return d.Pos <= p && uint64(p) < d.end()
}

// ContainsData returns whether the other region lies completely inside this region.
func (d Data) ContainsData(other Data) bool {
	return d.Pos <= other.Pos && other.end() <= d.end()
}

// Intersects returns whether both regions share at least one byte.
func (d Data) Intersects(other Data) bool {
	return uint64(d.Pos) < other.end() && uint64(other.Pos) < d.end()
}

// String returns the region as `name (type) @ pos`.
func (d Data) String() string {
	return fmt.Sprintf("%s (%s) @ %s", d.Name, d.Type, d.Pos)
}
