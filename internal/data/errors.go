package data

import (
	"errors"
	"fmt"
)

// ErrEmptyData is returned when inserting a region without any bytes.
var ErrEmptyData = errors.New("data region is empty")

// NotContainedError is returned when inserting a region outside of the node.
type NotContainedError struct {
	Data      Data
	Container Data
}

func (e *NotContainedError) Error() string {
	return fmt.Sprintf("data %s is not contained in %s", e.Data, e.Container)
}

// DuplicateError is returned when a region with the same position and type exists.
type DuplicateError struct {
	Data      Data
	Duplicate Data
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("data %s is a duplicate of %s", e.Data, e.Duplicate)
}

// IntersectionError is returned when a region overlaps another without nesting.
type IntersectionError struct {
	Data         Data
	Intersecting Data
}

func (e *IntersectionError) Error() string {
	return fmt.Sprintf("data %s intersects %s", e.Data, e.Intersecting)
}

// InsertHeuristicsIntoNonMarkerKnownError is returned when a heuristic region would be nested
// inside a known region that is neither a marker nor an array.
type InsertHeuristicsIntoNonMarkerKnownError struct {
	Data  Data
	Known Data
}

func (e *InsertHeuristicsIntoNonMarkerKnownError) Error() string {
	return fmt.Sprintf("heuristic data %s can not be inserted into known data %s", e.Data, e.Known)
}

// InsertChildError wraps an error returned while inserting into a child region.
type InsertChildError struct {
	Child Data
	Err   error
}

func (e *InsertChildError) Error() string {
	return fmt.Sprintf("inserting into child %s: %s", e.Child, e.Err)
}

func (e *InsertChildError) Unwrap() error {
	return e.Err
}

// DuplicateNameError is returned when a region with the same name exists in the table.
type DuplicateNameError struct {
	Data      Data
	Duplicate Data
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("data %s has the same name as %s", e.Data, e.Duplicate)
}
