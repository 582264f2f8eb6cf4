package data

import (
	"fmt"
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/retroenv/psxdisasm/internal/pos"
)

// Node is a data region in the region tree. Its children are contained in the region
// and are pairwise disjoint, ordered by their start position.
type Node struct {
	data     Data
	children *treemap.Map // *Node -> *Node, ordered by Compare
}

// NewNode returns a node without children.
func NewNode(d Data) *Node {
	return &Node{
		data:     d,
		children: treemap.NewWith(nodeComparator),
	}
}

func nodeComparator(a, b any) int {
	return Compare(a.(*Node), b.(*Node))
}

// probe returns a single byte node at p used to look up children.
func probe(p pos.Pos) *Node {
	return &Node{data: Data{Pos: p, Type: Byte()}}
}

// Compare orders two nodes by containment. Nodes where one contains the other compare equal,
// disjoint nodes compare by position. Overlapping nodes that do not nest violate the tree
// invariant and cause a panic.
func Compare(a, b *Node) int {
	switch {
	case a.data.ContainsData(b.data), b.data.ContainsData(a.data):
		return 0
	case a.data.end() <= uint64(b.data.Pos):
		return -1
	case b.data.end() <= uint64(a.data.Pos):
		return 1
	default:
		panic(fmt.Sprintf("overlapping data regions %s and %s", a.data, b.data))
	}
}

// Data returns the region of the node.
func (n *Node) Data() Data {
	return n.data
}

// Len returns the number of direct children.
func (n *Node) Len() int {
	return n.children.Size()
}

// Children returns the direct children ordered by position.
func (n *Node) Children() []*Node {
	values := n.children.Values()
	nodes := make([]*Node, 0, len(values))
	for _, v := range values {
		nodes = append(nodes, v.(*Node))
	}
	return nodes
}

// Insert adds the region to the deepest node of the subtree that contains it.
func (n *Node) Insert(d Data) error {
	if d.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyData, d)
	}
	if !n.data.ContainsData(d) {
		return &NotContainedError{Data: d, Container: n.data}
	}

	if _, v := n.children.Floor(probe(d.Pos)); v != nil {
		prev := v.(*Node)
		switch {
		case prev.data.Pos == d.Pos && prev.data.Type.Equal(d.Type):
			return &DuplicateError{Data: d, Duplicate: prev.data}

		case prev.data.ContainsData(d):
			if d.Kind == Heuristics && prev.data.Kind == Known && !prev.data.Type.IsComposite() {
				return &InsertHeuristicsIntoNonMarkerKnownError{Data: d, Known: prev.data}
			}
			if err := prev.Insert(d); err != nil {
				return &InsertChildError{Child: prev.data, Err: err}
			}
			return nil

		case prev.data.Intersects(d), prev.data.Pos == d.Pos:
			return &IntersectionError{Data: d, Intersecting: prev.data}
		}
	}

	if _, v := n.children.Ceiling(probe(d.Pos)); v != nil {
		next := v.(*Node)
		if next.data.Intersects(d) {
			return &IntersectionError{Data: d, Intersecting: next.data}
		}
	}

	child := NewNode(d)
	n.children.Put(child, child)
	return nil
}

// GetContaining returns the direct child containing the position.
func (n *Node) GetContaining(p pos.Pos) *Node {
	_, v := n.children.Floor(probe(p))
	if v == nil {
		return nil
	}
	child := v.(*Node)
	if !child.data.Contains(p) {
		return nil
	}
	return child
}

// GetContainingDeepest returns the deepest descendant containing the position.
func (n *Node) GetContainingDeepest(p pos.Pos) *Node {
	child := n.GetContaining(p)
	if child == nil {
		return nil
	}
	for {
		next := child.GetContaining(p)
		if next == nil {
			return child
		}
		child = next
	}
}

// GetNextFrom returns the first direct child starting after the position.
func (n *Node) GetNextFrom(p pos.Pos) *Node {
	next := uint64(p) + 1
	for next <= math.MaxUint32 {
		_, v := n.children.Ceiling(probe(pos.Pos(next)))
		if v == nil {
			return nil
		}
		child := v.(*Node)
		if child.data.Pos > p {
			return child
		}
		// the child contains p, its successor starts at or after its end
		next = child.data.end()
	}
	return nil
}

// Walk calls fn for every descendant in pre-order with its depth, starting at 0
// for direct children. Returning false skips the children of the visited node.
func (n *Node) Walk(fn func(depth int, node *Node) bool) {
	n.walk(0, fn)
}

func (n *Node) walk(depth int, fn func(depth int, node *Node) bool) {
	it := n.children.Iterator()
	for it.Next() {
		child := it.Value().(*Node)
		if fn(depth, child) {
			child.walk(depth+1, fn)
		}
	}
}
