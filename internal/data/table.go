package data

import (
	"errors"
	"fmt"

	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/xlab/treeprint"
)

// Table indexes all data regions of an executable by position and name.
type Table struct {
	root   *Node
	byName map[string]Data
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		root:   NewNode(root()),
		byName: map[string]Data{},
	}
}

// Insert adds a region. Names must be unique within the table.
func (t *Table) Insert(d Data) error {
	if dup, ok := t.byName[d.Name]; ok {
		return &DuplicateNameError{Data: d, Duplicate: dup}
	}
	if err := t.root.Insert(d); err != nil {
		return err
	}
	t.byName[d.Name] = d
	return nil
}

// Extend inserts all regions. Regions that can not be inserted are skipped,
// the returned error joins all insertion failures.
func (t *Table) Extend(items []Data) error {
	var errs []error
	for _, d := range items {
		if err := t.Insert(d); err != nil {
			errs = append(errs, fmt.Errorf("inserting data '%s': %w", d.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of regions in the table.
func (t *Table) Len() int {
	return len(t.byName)
}

// GetContaining returns the deepest region containing the position.
func (t *Table) GetContaining(p pos.Pos) (Data, bool) {
	n := t.root.GetContainingDeepest(p)
	if n == nil {
		return Data{}, false
	}
	return n.data, true
}

// GetStartingAt returns the outermost region starting at the position.
func (t *Table) GetStartingAt(p pos.Pos) (Data, bool) {
	node := t.root
	for {
		child := node.GetContaining(p)
		if child == nil {
			return Data{}, false
		}
		if child.data.Pos == p {
			return child.data, true
		}
		node = child
	}
}

// GetNextFrom returns the region with the lowest start after the position, at any depth.
func (t *Table) GetNextFrom(p pos.Pos) (Data, bool) {
	var best *Node
	for node := t.root; node != nil; node = node.GetContaining(p) {
		next := node.GetNextFrom(p)
		if next != nil && (best == nil || next.data.Pos < best.data.Pos) {
			best = next
		}
	}
	if best == nil {
		return Data{}, false
	}
	return best.data, true
}

// SearchName returns the region with the given name.
func (t *Table) SearchName(name string) (Data, bool) {
	d, ok := t.byName[name]
	return d, ok
}

// Walk calls fn for every region in pre-order. Returning false skips nested regions.
func (t *Table) Walk(fn func(depth int, d Data) bool) {
	t.root.Walk(func(depth int, n *Node) bool {
		return fn(depth, n.data)
	})
}

// All returns all regions in pre-order.
func (t *Table) All() []Data {
	items := make([]Data, 0, len(t.byName))
	t.Walk(func(_ int, d Data) bool {
		items = append(items, d)
		return true
	})
	return items
}

// Tree renders the region hierarchy.
func (t *Table) Tree() string {
	tree := treeprint.New()
	tree.SetValue("data")
	for _, child := range t.root.Children() {
		addTreeNode(tree, child)
	}
	return tree.String()
}

func addTreeNode(branch treeprint.Tree, n *Node) {
	if n.Len() == 0 {
		branch.AddNode(n.data.String())
		return
	}
	sub := branch.AddBranch(n.data.String())
	for _, child := range n.Children() {
		addTreeNode(sub, child)
	}
}
