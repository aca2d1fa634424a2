package parser

import (
	"errors"
	"fmt"

	"github.com/coolbeans/lexhun/pkg/act"
	"github.com/coolbeans/lexhun/pkg/lines"
)

// ParseBlockAmendment re-parses the quoted lines of a block amendment as a
// structured fragment of the kind the metadata's position addresses. The
// quoted text is shaped like a mini-document: headers of the expected kind
// starting at the expected identifier, each further header the
// next-identifier successor of the last accepted one. Positional order is
// never authoritative; an amendment may insert "1a" right after "1".
//
// On failure the caller keeps the original QuotedBlock instead of
// discarding the document.
func ParseBlockAmendment(meta *act.BlockAmendment, ls []lines.Line) (*act.BlockAmendmentContainer, error) {
	if len(ls) == 0 {
		return nil, structureErr("block amendment", meta.Position.String(), "", errors.New("no quoted lines"))
	}

	if meta.Structural != nil {
		// Replacement of a whole divider-led range: the quoted text is a
		// document fragment with its own dividers and articles.
		children, err := parseStructuralFragment(ls)
		if err != nil {
			return nil, structureErr("block amendment", meta.Position.String(), ls[0].Content(), err)
		}
		return &act.BlockAmendmentContainer{Metadata: meta, Children: children}, nil
	}

	part, kind, ok := meta.Position.LastComponent()
	if !ok {
		return nil, structureErr("block amendment", meta.Position.String(), "",
			errors.New("position does not address a structural level"))
	}
	children, err := parseAmendmentChildren(kind, part.First(), ls)
	if err != nil {
		return nil, structureErr("block amendment", meta.Position.String(), ls[0].Content(), err)
	}
	return &act.BlockAmendmentContainer{Metadata: meta, Children: children}, nil
}

// parseAmendmentChildren splits the quoted lines at headers of the expected
// kind and parses each run of lines as one element.
func parseAmendmentChildren(kind act.Kind, startID string, ls []lines.Line) ([]act.Block, error) {
	matchID, parseOne, err := amendmentKindParser(kind, startID)
	if err != nil {
		return nil, err
	}

	quoted, _ := lines.WithQuoteLevels(ls, false)
	var (
		children  []act.Block
		current   []lines.Line
		currentID = startID
	)
	flush := func() error {
		child, err := parseOne(current, currentID)
		if err != nil {
			return err
		}
		children = append(children, child)
		return nil
	}
	for _, ql := range quoted {
		if len(current) > 0 && ql.Level == 0 && !ql.Line.IsEmpty() {
			if candidate, ok := matchID(ql.Line.Content()); ok && kind.IsNextIdentifier(currentID, candidate) {
				if err := flush(); err != nil {
					return nil, err
				}
				currentID = candidate
				current = nil
			}
		}
		current = append(current, ql.Line)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return children, nil
}

func amendmentKindParser(kind act.Kind, startID string) (func(string) (string, bool), func([]lines.Line, string) (act.Block, error), error) {
	if kind == act.KindArticle {
		parse := func(ls []lines.Line, id string) (act.Block, error) {
			article, err := parseArticle(ls, true)
			if err != nil {
				return nil, err
			}
			if article.Identifier != id {
				return nil, fmt.Errorf("expected article %s, found %s", id, article.Identifier)
			}
			return article, nil
		}
		return articleHeaderID, parse, nil
	}

	var spec elementSpec
	switch kind {
	case act.KindParagraph:
		spec = paragraphSpec()
	case act.KindNumericPoint:
		spec = numericPointSpec()
	case act.KindAlphabeticPoint:
		spec = alphabeticPointSpec()
	case act.KindNumericSubpoint:
		spec = numericSubpointSpec()
	case act.KindAlphabeticSubpoint:
		prefix := ""
		if len(startID) > 1 {
			prefix = startID[:len(startID)-1]
		}
		spec = alphabeticSubpointSpec(prefix)
	default:
		return nil, nil, fmt.Errorf("cannot parse amendment target of kind %s", kind)
	}
	parse := func(ls []lines.Line, id string) (act.Block, error) {
		return spec.parseElement(ls, id, true)
	}
	return spec.matchHeader, parse, nil
}

// parseStructuralFragment runs the document-level parser over a quoted
// fragment, without requiring a preamble.
func parseStructuralFragment(ls []lines.Line) ([]act.Block, error) {
	p := &actParser{nonStrict: true, lastDivider: make(map[act.StructuralKind]*dividerState)}
	preamble, children, err := p.parseBody(ls)
	if err != nil {
		return nil, err
	}
	if preamble != "" {
		return nil, fmt.Errorf("junk before first divider: %q", preamble)
	}
	blocks := make([]act.Block, len(children))
	for i, child := range children {
		blocks[i] = child.(act.Block)
	}
	return blocks, nil
}
