// Package fixup applies hand-maintained corrections to extracted act text
// before parsing. Gazette extraction is lossy: misplaced indentation, split
// headers, typos in identifiers. A fixup is a small ordered list of line
// edits keyed by act identifier, kept in YAML files next to the corpus.
package fixup

import (
	"errors"
	"fmt"

	"github.com/coolbeans/lexhun/pkg/lines"
)

// Op is a single line edit. Exactly one of Replace, Insert or Delete
// selects the action. Before lists line contents that must immediately
// precede the match, pinning the edit when the same line occurs more than
// once. An op that matches nothing is an error: stale fixups must surface
// when the upstream text changes.
type Op struct {
	// Replace is the exact content of the line to rewrite as With.
	Replace string `yaml:"replace,omitempty"`
	With    string `yaml:"with,omitempty"`

	// Insert is the content of a new line placed after the last Before
	// line. Insert requires at least one Before anchor.
	Insert string `yaml:"insert,omitempty"`

	// Delete is the exact content of the line to drop.
	Delete string `yaml:"delete,omitempty"`

	Before []string `yaml:"before,omitempty"`
}

func (o Op) validate() error {
	actions := 0
	if o.Replace != "" {
		actions++
	}
	if o.Insert != "" {
		actions++
	}
	if o.Delete != "" {
		actions++
	}
	if actions != 1 {
		return errors.New("exactly one of replace, insert or delete must be set")
	}
	switch {
	case o.Replace != "" && o.With == "":
		return errors.New("replace needs a non-empty with")
	case o.Insert != "" && len(o.Before) == 0:
		return errors.New("insert needs a before anchor")
	case o.With != "" && o.Replace == "":
		return errors.New("with is only valid together with replace")
	}
	return nil
}

// contextEndsAt reports whether every Before line matches the lines ending
// at index i inclusive.
func contextEndsAt(ls []lines.Line, i int, context []string) bool {
	if i+1 < len(context) {
		return false
	}
	for j, want := range context {
		if ls[i+1-len(context)+j].Content() != want {
			return false
		}
	}
	return true
}

func (o Op) apply(ls []lines.Line) ([]lines.Line, error) {
	out := make([]lines.Line, 0, len(ls)+1)
	applied := 0

	for i, line := range ls {
		switch {
		case o.Replace != "" && line.Content() == o.Replace && contextEndsAt(ls, i-1, o.Before):
			out = append(out, lines.FromContentBold(o.With, line.Indent(), line.Bold()))
			applied++

		case o.Delete != "" && line.Content() == o.Delete && contextEndsAt(ls, i-1, o.Before):
			applied++

		case o.Insert != "" && contextEndsAt(ls, i, o.Before):
			out = append(out, line, lines.FromContent(o.Insert, line.Indent()))
			applied++

		default:
			out = append(out, line)
		}
	}

	if applied == 0 {
		return nil, fmt.Errorf("no line matched %q", o.target())
	}
	return out, nil
}

func (o Op) target() string {
	switch {
	case o.Replace != "":
		return o.Replace
	case o.Delete != "":
		return o.Delete
	default:
		return o.Before[len(o.Before)-1]
	}
}

// Set is one fixup file: the target act and its edits in application order.
type Set struct {
	Act string `yaml:"act"`
	Ops []Op   `yaml:"fixups"`
}

func (s *Set) validate() error {
	if s.Act == "" {
		return errors.New("missing act identifier")
	}
	if len(s.Ops) == 0 {
		return errors.New("no fixups")
	}
	for i, op := range s.Ops {
		if err := op.validate(); err != nil {
			return fmt.Errorf("fixup %d: %w", i+1, err)
		}
	}
	return nil
}

// Apply runs the ops in order over the extracted lines. The input slice is
// left untouched.
func Apply(ops []Op, ls []lines.Line) ([]lines.Line, error) {
	out := ls
	for i, op := range ops {
		var err error
		out, err = op.apply(out)
		if err != nil {
			return nil, fmt.Errorf("fixup %d: %w", i+1, err)
		}
	}
	return out, nil
}
