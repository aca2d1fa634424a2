package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coolbeans/lexhun/pkg/act"
	"github.com/coolbeans/lexhun/pkg/ident"
	"github.com/coolbeans/lexhun/pkg/lines"
)

// Structural dividers group articles but carry no legal text, so they are
// handled as numbered titles only. Numbering conventions per level:
//
//	MÁSODIK KÖNYV        book, written ordinal, uppercase
//	HARMADIK RÉSZ        part, written ordinal or a fixed special sequence
//	XXI. CÍM             title, roman
//	IV. Fejezet          chapter, roman, any casing
//	17. Az alcímről      subtitle, arabic, or unnumbered bold in older acts
//
// A line matching a level's first header restarts that level's numbering;
// acts routinely run several independent numbering sequences.
type dividerState struct {
	kind     act.StructuralKind
	number   int
	title    string
	special  bool // part: named ÁLTALÁNOS/KÜLÖNÖS/ZÁRÓ sequence
	noNumber bool // subtitle without a numeric prefix
}

var specialParts = []string{"ÁLTALÁNOS RÉSZ", "KÜLÖNÖS RÉSZ", "ZÁRÓ RÉSZ"}

var dividerOrder = []act.StructuralKind{
	act.StructuralBook,
	act.StructuralPart,
	act.StructuralTitle,
	act.StructuralChapter,
	act.StructuralSubtitle,
}

func hunOrdinalUpper(n int) string {
	text, err := ident.IntToOrdinal(n)
	if err != nil {
		return ""
	}
	return strings.ToUpper(text)
}

func isFirstDividerHeader(kind act.StructuralKind, line lines.Line) bool {
	content := line.Content()
	switch kind {
	case act.StructuralBook:
		return content == "ELSŐ KÖNYV"
	case act.StructuralPart:
		return content == "ELSŐ RÉSZ" || content == specialParts[0]
	case act.StructuralTitle:
		return content == "I. CÍM"
	case act.StructuralChapter:
		return strings.EqualFold(content, "I. FEJEZET")
	case act.StructuralSubtitle:
		return isSubtitleHeader("1. ", line)
	}
	return false
}

func (s *dividerState) isNextHeader(line lines.Line) bool {
	content := line.Content()
	switch s.kind {
	case act.StructuralBook:
		return content == hunOrdinalUpper(s.number+1)+" KÖNYV"
	case act.StructuralPart:
		if s.special {
			return s.number < len(specialParts) && content == specialParts[s.number]
		}
		return content == hunOrdinalUpper(s.number+1)+" RÉSZ"
	case act.StructuralTitle:
		return content == ident.IntToRoman(s.number+1)+". CÍM"
	case act.StructuralChapter:
		return strings.EqualFold(content, ident.IntToRoman(s.number+1)+". FEJEZET")
	case act.StructuralSubtitle:
		return isSubtitleHeader(fmt.Sprintf("%d. ", s.number+1), line)
	}
	return false
}

// isSubtitleHeader accepts either the numbered form with the given prefix
// or, for older acts, an unnumbered bold line starting with an uppercase
// letter. Callers only ask about lines isolated by vertical whitespace,
// which is what keeps the bold heuristic from firing on body text.
func isSubtitleHeader(prefix string, line lines.Line) bool {
	content := line.Content()
	if content == "" {
		return false
	}
	if line.Bold() && ident.IsUppercaseHun(string([]rune(content)[0])) {
		return true
	}
	rest, found := strings.CutPrefix(content, prefix)
	if !found || rest == "" {
		return false
	}
	return ident.IsUppercaseHun(string([]rune(rest)[0]))
}

// newDividerState builds the state for a divider whose header is ls[0] and
// whose remaining lines are its title. A nil prev restarts numbering.
func newDividerState(kind act.StructuralKind, prev *dividerState, ls []lines.Line) *dividerState {
	s := &dividerState{kind: kind, number: 1}
	if prev != nil {
		s.number = prev.number + 1
	}

	if kind == act.StructuralSubtitle {
		full := lines.JoinContent(ls)
		prefix := fmt.Sprintf("%d. ", s.number)
		if _, after, found := strings.Cut(full, prefix); found {
			s.title = after
		} else {
			// Matched through the bold heuristic.
			s.noNumber = true
			s.title = full
		}
		return s
	}

	if kind == act.StructuralPart {
		if prev != nil {
			s.special = prev.special
		} else {
			s.special = ls[0].Content() == specialParts[0]
		}
	}
	s.title = lines.JoinContent(ls[1:])
	return s
}

func (s *dividerState) element() *act.StructuralElement {
	identifier := strconv.Itoa(s.number)
	if s.noNumber {
		identifier = ""
	}
	return &act.StructuralElement{Kind: s.kind, Identifier: identifier, Title: s.title}
}
