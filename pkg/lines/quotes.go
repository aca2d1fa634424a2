package lines

import (
	"fmt"
	"strings"
)

// MalformedQuotingError is raised when quotation marks do not balance over
// a line sequence. A wrong quote level corrupts every routine above the
// scanner, so this error is fatal for the whole document.
type MalformedQuotingError struct {
	Level int
	Line  string
}

func (e *MalformedQuotingError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("malformed quoting at level %d near %q", e.Level, e.Line)
	}
	return fmt.Sprintf("malformed quoting: document ends at level %d", e.Level)
}

// QuoteLevelDiff returns the change in quotation nesting depth caused by a
// single line's text: +1 per opening mark, -1 per closing mark.
func QuoteLevelDiff(s string) int {
	return strings.Count(s, "„") + strings.Count(s, "“") - strings.Count(s, "”")
}

// Quoted pairs a line with the quotation nesting depth at its start.
type Quoted struct {
	Level int
	Line  Line
}

// WithQuoteLevels annotates every line with the quote depth in effect at
// its beginning. With strict set, a depth below zero or a nonzero depth at
// the end of the sequence returns a MalformedQuotingError; diagnostic
// tooling may pass strict=false to inspect broken documents.
func WithQuoteLevels(ls []Line, strict bool) ([]Quoted, error) {
	result := make([]Quoted, 0, len(ls))
	level := 0
	for _, l := range ls {
		result = append(result, Quoted{Level: level, Line: l})
		level += QuoteLevelDiff(l.Content())
		if strict && level < 0 {
			return result, &MalformedQuotingError{Level: level, Line: l.Content()}
		}
	}
	if strict && level != 0 {
		return result, &MalformedQuotingError{Level: level}
	}
	return result, nil
}
