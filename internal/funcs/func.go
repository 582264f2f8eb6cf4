// Package funcs contains the functions of an executable and the table indexing them by position.
package funcs

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/retroenv/psxdisasm/internal/pos"
)

// Errors returned by Func.Validate.
var (
	ErrInvalidRange          = errors.New("function end is not after its start")
	ErrLabelPosOutOfBounds   = errors.New("label position is outside of the function")
	ErrCommentPosOutOfBounds = errors.New("comment position is outside of the function")
)

// Kind is the origin of a function.
type Kind uint8

// Function kinds.
const (
	Known Kind = iota
	Heuristics
)

// String returns the kind name.
func (k Kind) String() string {
	if k == Heuristics {
		return "heuristics"
	}
	return "known"
}

// Func is a function of the executable covering [StartPos, EndPos).
type Func struct {
	Name           string
	Signature      string
	Desc           string
	InlineComments map[pos.Pos]string
	Comments       map[pos.Pos]string
	Labels         map[pos.Pos]string
	StartPos       pos.Pos
	EndPos         pos.Pos
	Kind           Kind
}

// Label is a named position inside a function.
type Label struct {
	Pos  pos.Pos
	Name string
}

// Contains returns whether the position is inside the function.
func (f Func) Contains(p pos.Pos) bool {
	return f.StartPos <= p && p < f.EndPos
}

// Size returns the size of the function in bytes.
func (f Func) Size() uint32 {
	return uint32(f.EndPos - f.StartPos)
}

// Validate checks that the range is valid and that labels and comments are inside of it.
func (f Func) Validate() error {
	if f.EndPos <= f.StartPos {
		return fmt.Errorf("%w: %s..%s", ErrInvalidRange, f.StartPos, f.EndPos)
	}
	for _, comments := range []map[pos.Pos]string{f.InlineComments, f.Comments} {
		for p := range comments {
			if !f.Contains(p) {
				return fmt.Errorf("%w: %s", ErrCommentPosOutOfBounds, p)
			}
		}
	}
	for p, name := range f.Labels {
		if !f.Contains(p) {
			return fmt.Errorf("%w: label '%s' at %s", ErrLabelPosOutOfBounds, name, p)
		}
	}
	return nil
}

// SortedLabels returns the labels ordered by position.
func (f Func) SortedLabels() []Label {
	labels := make([]Label, 0, len(f.Labels))
	for p, name := range f.Labels {
		labels = append(labels, Label{Pos: p, Name: name})
	}
	slices.SortFunc(labels, func(a, b Label) int {
		return cmp.Compare(a.Pos, b.Pos)
	})
	return labels
}

// HasLabelIn returns whether any label lies in [from, to).
func (f Func) HasLabelIn(from, to pos.Pos) bool {
	for p := range f.Labels {
		if p >= from && p < to {
			return true
		}
	}
	return false
}

func (f Func) String() string {
	return fmt.Sprintf("%s (%s..%s)", f.Name, f.StartPos, f.EndPos)
}
