package parser

import (
	"errors"
	"fmt"
)

// errNoChildren signals that a candidate child kind found no valid list of
// elements in a container's lines. It is handled inside the package; the
// container falls back to the next candidate or to a literal text leaf.
var errNoChildren = errors.New("no child elements found")

// StructureError is a structural parse failure. It carries the container
// kind, its identifier and the offending line so a caller can author a
// targeted textual fixup for the document.
type StructureError struct {
	Container  string
	Identifier string
	Line       string
	Err        error
}

func (e *StructureError) Error() string {
	msg := fmt.Sprintf("parsing %s", e.Container)
	if e.Identifier != "" {
		msg += " " + e.Identifier
	}
	if e.Line != "" {
		msg += fmt.Sprintf(" near %q", e.Line)
	}
	return msg + ": " + e.Err.Error()
}

func (e *StructureError) Unwrap() error { return e.Err }

func structureErr(container, identifier, line string, err error) *StructureError {
	return &StructureError{Container: container, Identifier: identifier, Line: line, Err: err}
}
