// Package lines models the input of the structural parser: indented lines
// reconstructed from positioned text runs, plus the quote-level scanner that
// every header-detection routine consults to tell live structural headers
// from headers quoted inside amendment text.
package lines

import "strings"

// Part is one positioned text run inside a line, as produced by the
// upstream page-layout reconstruction.
type Part struct {
	Offset float64 `json:"offset"`
	Text   string  `json:"text"`
	Bold   bool    `json:"bold,omitempty"`
}

// Line is a single input line: a flattened content string plus the
// horizontal offset of its first run. The zero value is the empty-line
// sentinel that represents vertical whitespace.
type Line struct {
	content string
	indent  float64
	bold    bool
}

// Empty is the sentinel for vertical whitespace between paragraphs.
var Empty = Line{}

// New builds a Line from positioned text runs. Runs are concatenated in
// order; the line is bold only if every run is.
func New(parts []Part) Line {
	if len(parts) == 0 {
		return Empty
	}
	var content strings.Builder
	bold := true
	for _, part := range parts {
		content.WriteString(part.Text)
		if !part.Bold {
			bold = false
		}
	}
	return Line{content: content.String(), indent: parts[0].Offset, bold: bold}
}

// FromContent builds a Line directly from flattened content and indent.
func FromContent(content string, indent float64) Line {
	if content == "" {
		return Empty
	}
	return Line{content: content, indent: indent}
}

// FromContentBold is FromContent with the boldness flag set.
func FromContentBold(content string, indent float64, bold bool) Line {
	l := FromContent(content, indent)
	l.bold = bold
	return l
}

// Content returns the flattened text of the line.
func (l Line) Content() string { return l.content }

// Indent returns the horizontal offset of the first text run.
func (l Line) Indent() float64 { return l.indent }

// Bold reports whether the whole line is bold.
func (l Line) Bold() bool { return l.bold }

// IsEmpty reports whether this is the empty-line sentinel.
func (l Line) IsEmpty() bool { return l.content == "" }

// Slice returns a copy of the line with the first n runes removed. Slicing
// everything away yields the empty-line sentinel.
func (l Line) Slice(n int) Line {
	runes := []rune(l.content)
	if n >= len(runes) {
		return Empty
	}
	return Line{content: string(runes[n:]), indent: l.indent, bold: l.bold}
}

// SliceEnd returns a copy of the line with the last n runes removed.
func (l Line) SliceEnd(n int) Line {
	runes := []rune(l.content)
	if n >= len(runes) {
		return Empty
	}
	return Line{content: string(runes[:len(runes)-n]), indent: l.indent, bold: l.bold}
}

// SimilarIndent reports whether two horizontal offsets are close enough to
// count as the same layout column.
func SimilarIndent(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1
}

// JoinContent concatenates the content of the given lines with single
// spaces, skipping empty-line sentinels.
func JoinContent(ls []Line) string {
	var parts []string
	for _, l := range ls {
		if !l.IsEmpty() {
			parts = append(parts, l.content)
		}
	}
	return strings.Join(parts, " ")
}
