package lines

import "strings"

// FromText splits plain text into indented lines. The indent of a line is
// its leading space count; whitespace-only lines become the empty sentinel.
// Leading and trailing empty lines are dropped.
func FromText(text string) []Line {
	raw := strings.Split(text, "\n")
	ls := make([]Line, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimRight(r, " \t\r")
		trimmed := strings.TrimLeft(r, " ")
		ls = append(ls, FromContent(trimmed, float64(len(r)-len(trimmed))))
	}
	start := 0
	for start < len(ls) && ls[start].IsEmpty() {
		start++
	}
	end := len(ls)
	for end > start && ls[end-1].IsEmpty() {
		end--
	}
	return ls[start:end]
}
