// Package parser turns a flat sequence of indented lines into the element
// tree of an enactment: preamble, structural dividers, articles, paragraphs,
// points, subpoints and literal quoted blocks.
//
// The parser runs in strict mode by default: sibling headers must follow
// each level's numbering convention from its first identifier. Block
// amendment fragments are parsed in a relaxed mode where a list may start
// at any valid identifier, since amendments insert text mid-sequence.
package parser

import (
	"errors"

	"github.com/coolbeans/lexhun/pkg/act"
	"github.com/coolbeans/lexhun/pkg/lines"
)

// ParseAct parses a whole enactment. Unbalanced quotation marks are fatal:
// every header-detection routine depends on quote depth being right.
func ParseAct(identifier, subject string, ls []lines.Line) (*act.Act, error) {
	if _, err := lines.WithQuoteLevels(ls, true); err != nil {
		return nil, err
	}
	p := &actParser{lastDivider: make(map[act.StructuralKind]*dividerState)}
	preamble, children, err := p.parseBody(ls)
	if err != nil {
		return nil, structureErr("act", identifier, "", err)
	}
	return &act.Act{
		Identifier: identifier,
		Subject:    subject,
		Preamble:   preamble,
		Children:   children,
	}, nil
}

type actParser struct {
	nonStrict bool
	// lastDivider remembers the most recent divider per level so the next
	// header of each level can be recognized. No cross-level numbering
	// rules are imposed; too many acts are malformed in that regard.
	lastDivider map[act.StructuralKind]*dividerState
}

// parseBody splits the document at article headers and parses each segment.
// Everything before the first article header, minus any trailing divider
// headers, is the preamble.
func (p *actParser) parseBody(ls []lines.Line) (string, []act.ActChild, error) {
	quoted, _ := lines.WithQuoteLevels(ls, false)

	var (
		preamble      string
		havePreamble  bool
		children      []act.ActChild
		current       []lines.Line
		articleIndent float64
		haveIndent    bool
	)
	flush := func() error {
		remaining, dividers := p.peelDividers(current)
		if !havePreamble {
			preamble = lines.JoinContent(remaining)
			havePreamble = true
		} else {
			article, err := parseArticle(remaining, p.nonStrict)
			if err != nil {
				return err
			}
			children = append(children, article)
		}
		children = append(children, dividers...)
		current = nil
		return nil
	}

	for _, ql := range quoted {
		if ql.Level == 0 && !ql.Line.IsEmpty() && isArticleHeader(ql.Line.Content()) {
			// Article numbers are left-justified; requiring a consistent
			// column rejects article headers quoted in running text that
			// the quote level alone cannot catch.
			if !haveIndent {
				articleIndent = ql.Line.Indent()
				haveIndent = true
			}
			if lines.SimilarIndent(ql.Line.Indent(), articleIndent) {
				if err := flush(); err != nil {
					return "", nil, err
				}
			}
		}
		current = append(current, ql.Line)
	}
	if err := flush(); err != nil {
		return "", nil, err
	}
	if !havePreamble || len(children) == 0 {
		return "", nil, errors.New("no articles found")
	}
	return preamble, children, nil
}

// peelDividers strips structural divider headers off the end of a segment.
// Dividers directly precede the next article's header, separated from body
// text by vertical whitespace, so they are recognized back to front.
func (p *actParser) peelDividers(ls []lines.Line) ([]lines.Line, []act.ActChild) {
	var peeled []act.ActChild
	for len(ls) > 0 && ls[len(ls)-1].IsEmpty() {
		ls = ls[:len(ls)-1]
		lastEmpty := -1
		for i := len(ls) - 1; i >= 0; i-- {
			if ls[i].IsEmpty() {
				lastEmpty = i
				break
			}
		}
		if lastEmpty < 0 {
			break
		}
		titleLines := ls[lastEmpty+1:]
		if len(titleLines) == 0 {
			continue
		}
		if lines.QuoteLevelDiff(lines.JoinContent(titleLines)) != 0 {
			// Unclosed quoting: these lines belong to quoted text, e.g. a
			// numbered subtitle inside an amendment fragment.
			break
		}
		state := p.parseDividerHeader(titleLines)
		if state == nil {
			break
		}
		peeled = append([]act.ActChild{state.element()}, peeled...)
		p.lastDivider[state.kind] = state
		ls = ls[:lastEmpty+1]
	}
	return ls, peeled
}

func (p *actParser) parseDividerHeader(titleLines []lines.Line) *dividerState {
	for _, kind := range dividerOrder {
		if isFirstDividerHeader(kind, titleLines[0]) {
			return newDividerState(kind, nil, titleLines)
		}
		if last := p.lastDivider[kind]; last != nil && last.isNextHeader(titleLines[0]) {
			return newDividerState(kind, last, titleLines)
		}
	}
	return nil
}
