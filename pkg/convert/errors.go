package convert

import (
	"errors"
	"fmt"
)

// Error categories. Use errors.Is on any error or Diagnostic.Err returned by
// this package to tell them apart.
var (
	// ErrDataDefect marks skippable problems in the document: the affected
	// mesh, material slot or node is omitted or replaced by a default and
	// conversion goes on.
	ErrDataDefect = errors.New("data defect")

	// ErrInvariantViolation marks buffers whose sizes contradict each other
	// (e.g. normals vs. vertices). Conversion fails rather than emit
	// out-of-bounds arrays.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrNilDocument is returned when Convert is handed no document.
	ErrNilDocument = errors.New("nil document")
)

// Error describes one problem found while converting a document object.
type Error struct {
	Category error  // ErrDataDefect or ErrInvariantViolation
	Op       string // e.g. "convert mesh"
	ObjectID uint64
	Msg      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (object %d): %v: %s", e.Op, e.ObjectID, e.Category, e.Msg)
}

// Unwrap returns the category.
func (e *Error) Unwrap() error {
	return e.Category
}

func violation(op string, id uint64, format string, args ...any) error {
	return &Error{
		Category: ErrInvariantViolation,
		Op:       op,
		ObjectID: id,
		Msg:      fmt.Sprintf(format, args...),
	}
}
