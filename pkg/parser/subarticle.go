package parser

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/coolbeans/lexhun/pkg/act"
	"github.com/coolbeans/lexhun/pkg/lines"
)

var (
	paragraphIDPattern  = regexp.MustCompile(`^\(([0-9]+[a-z]?)\) `)
	numericIDPattern    = regexp.MustCompile(`^([0-9]+(?:/?[a-z]{1,2})?)\. `)
	alphabeticIDPattern = regexp.MustCompile(`^([a-z]{1,3})\) `)
)

// elementSpec is the parsing rule set of one sub-article element kind. The
// set of kinds is closed; behavior differences live in these fields and in
// the candidate lists of parseChildren, not in a registry.
type elementSpec struct {
	kind      act.Kind
	idPattern *regexp.Regexp
	// prefix is the identifier prefix inherited from the parent, used by
	// alphabetic subpoints nested under an alphabetic point ("a" point has
	// "aa", "ab", ... subpoints).
	prefix string
	// needIntro marks kinds that cannot be the very first thing in their
	// container: some non-empty text must precede the first header. This
	// rules out false positives from enumerated clauses quoted before any
	// introductory text.
	needIntro bool
	// needMultiple marks kinds where a single element is not a valid list.
	needMultiple bool
	// canWrapUp marks kinds whose list may be followed by wrap-up text at
	// the header indentation column.
	canWrapUp bool
}

func paragraphSpec() elementSpec {
	return elementSpec{kind: act.KindParagraph, idPattern: paragraphIDPattern}
}

func numericPointSpec() elementSpec {
	// No wrap-up: numbered lists in source documents are usually not
	// indented consistently enough for the indentation heuristic.
	return elementSpec{
		kind:         act.KindNumericPoint,
		idPattern:    numericIDPattern,
		needIntro:    true,
		needMultiple: true,
	}
}

func alphabeticPointSpec() elementSpec {
	return elementSpec{
		kind:         act.KindAlphabeticPoint,
		idPattern:    alphabeticIDPattern,
		needIntro:    true,
		needMultiple: true,
		canWrapUp:    true,
	}
}

func numericSubpointSpec() elementSpec {
	return elementSpec{
		kind:         act.KindNumericSubpoint,
		idPattern:    numericIDPattern,
		needIntro:    true,
		needMultiple: true,
	}
}

func alphabeticSubpointSpec(prefix string) elementSpec {
	return elementSpec{
		kind:         act.KindAlphabeticSubpoint,
		idPattern:    alphabeticIDPattern,
		prefix:       prefix,
		needIntro:    true,
		needMultiple: true,
		canWrapUp:    true,
	}
}

func (s elementSpec) matchHeader(content string) (string, bool) {
	m := s.idPattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (s elementSpec) firstIdentifier() string {
	return s.prefix + s.kind.FirstIdentifier()
}

// acceptsFirst decides whether an identifier may open a list of this kind.
// Non-strict mode accepts any well-formed identifier; block amendments
// routinely insert lists that start mid-sequence.
func (s elementSpec) acceptsFirst(id string, nonStrict bool) bool {
	if nonStrict {
		return true
	}
	return id == s.firstIdentifier()
}

type listResult struct {
	intro    string
	children []*act.SubArticleElement
	wrapUp   string
}

// extractList splits a run of lines into a uniform list of this kind's
// elements. Header acceptance alternates the header pattern with the
// next-identifier rule, which is what separates "(1) (2) (3)" headers from
// an unrelated "(3)" appearing later inside a cross-reference.
func (s elementSpec) extractList(ls []lines.Line, nonStrict bool) (listResult, error) {
	quoted, _ := lines.WithQuoteLevels(ls, false)

	var (
		result       listResult
		current      []lines.Line
		currentID    string
		started      bool
		headerIndent float64
		haveIndent   bool
	)
	for _, ql := range quoted {
		id, isHeader := "", false
		if ql.Level == 0 && !ql.Line.IsEmpty() {
			if candidate, ok := s.matchHeader(ql.Line.Content()); ok {
				// Headers may sit left of the running column: paragraph
				// numbers are left-justified, so "(10)" starts left of "(9)".
				indentOK := !haveIndent ||
					lines.SimilarIndent(headerIndent, ql.Line.Indent()) ||
					ql.Line.Indent() < headerIndent
				if indentOK {
					if !started {
						isHeader = s.acceptsFirst(candidate, nonStrict)
					} else {
						isHeader = s.kind.IsNextIdentifier(currentID, candidate)
					}
					id = candidate
				}
			}
		}
		if isHeader {
			if !started {
				if len(current) > 0 {
					result.intro = lines.JoinContent(current)
				}
			} else {
				child, err := s.parseElement(current, currentID, nonStrict)
				if err != nil {
					return listResult{}, err
				}
				result.children = append(result.children, child)
			}
			started = true
			currentID = id
			headerIndent = ql.Line.Indent()
			haveIndent = true
			current = nil
		}
		current = append(current, ql.Line)
	}

	if !started {
		return listResult{}, errNoChildren
	}
	if len(result.children) == 0 && s.needMultiple {
		return listResult{}, errNoChildren
	}
	if result.intro == "" && s.needIntro {
		return listResult{}, errNoChildren
	}

	if s.canWrapUp {
		// Line-broken element bodies are indented; wrap-up text returns to
		// the header column.
		headIndent := current[0].Indent()
		var wrapParts []string
		for len(current) > 1 && lines.SimilarIndent(current[len(current)-1].Indent(), headIndent) {
			wrapParts = append([]string{current[len(current)-1].Content()}, wrapParts...)
			current = current[:len(current)-1]
		}
		result.wrapUp = strings.Join(wrapParts, " ")
	}

	last, err := s.parseElement(current, currentID, nonStrict)
	if err != nil {
		return listResult{}, err
	}
	result.children = append(result.children, last)
	return result, nil
}

// parseElement parses the lines of a single element of this kind, header
// line included. An empty identifier parses an unnumbered element with no
// header prefix, used for single-paragraph articles.
func (s elementSpec) parseElement(ls []lines.Line, identifier string, nonStrict bool) (*act.SubArticleElement, error) {
	if len(ls) == 0 {
		return nil, structureErr(s.kind.String(), identifier, "", errors.New("element has no lines"))
	}
	prefix := s.kind.HeaderPrefix(identifier)
	if !strings.HasPrefix(ls[0].Content(), prefix) {
		return nil, structureErr(s.kind.String(), identifier, ls[0].Content(),
			errors.New("line does not carry the expected header"))
	}
	body := make([]lines.Line, 0, len(ls))
	body = append(body, ls[0].Slice(utf8.RuneCountInString(prefix)))
	body = append(body, ls[1:]...)

	element := &act.SubArticleElement{Kind: s.kind, Identifier: identifier}
	intro, children, wrapUp, err := s.parseChildren(body, identifier, nonStrict)
	switch {
	case err == nil:
		element.Intro = intro
		element.Children = children
		element.WrapUp = wrapUp
	case errors.Is(err, errNoChildren):
		element.Text = lines.JoinContent(body)
	default:
		return nil, structureErr(s.kind.String(), identifier, ls[0].Content(), err)
	}
	return element, nil
}

// parseChildren tries this kind's candidate child kinds over the body lines.
// Among candidates with any valid first header, the earliest header wins;
// candidate syntaxes are disjoint, so ties cannot happen. errNoChildren
// means the element is a literal text leaf.
func (s elementSpec) parseChildren(body []lines.Line, identifier string, nonStrict bool) (string, []act.Block, string, error) {
	if s.kind == act.KindParagraph {
		// Quoted blocks appear at paragraph level only: both amendments and
		// international agreements quote at paragraph or article level, and
		// whole articles always parse into at least one paragraph.
		intro, blocks, wrapUp, err := parseQuotedBlocks(body)
		if err == nil {
			return intro, blocks, wrapUp, nil
		}
		if !errors.Is(err, errNoChildren) {
			return "", nil, "", err
		}
	}

	var candidates []elementSpec
	switch s.kind {
	case act.KindParagraph:
		candidates = []elementSpec{numericPointSpec(), alphabeticPointSpec()}
	case act.KindAlphabeticPoint:
		candidates = []elementSpec{numericSubpointSpec(), alphabeticSubpointSpec(identifier)}
	case act.KindNumericPoint:
		candidates = []elementSpec{alphabeticSubpointSpec("")}
	default:
		// Subpoints are always leaves.
		return "", nil, "", errNoChildren
	}

	// Empty lines only matter for structural elements and quoted blocks;
	// from here on they would only break up header detection.
	var stripped []lines.Line
	for _, l := range body {
		if !l.IsEmpty() {
			stripped = append(stripped, l)
		}
	}

	type scored struct {
		spec  elementSpec
		index int
	}
	var matched []scored
	for _, candidate := range candidates {
		index := candidate.firstHeaderIndex(stripped, nonStrict)
		if index >= 0 {
			matched = append(matched, scored{candidate, index})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].index < matched[j].index })

	for _, m := range matched {
		result, err := m.spec.extractList(stripped, nonStrict)
		if err == nil {
			blocks := make([]act.Block, len(result.children))
			for i, child := range result.children {
				blocks[i] = child
			}
			return result.intro, blocks, result.wrapUp, nil
		}
		if !errors.Is(err, errNoChildren) {
			return "", nil, "", err
		}
	}
	return "", nil, "", errNoChildren
}

// firstHeaderIndex returns the index of the first line that could open a
// list of this kind, or -1. Kinds that need preceding intro text cannot
// open on the very first line.
func (s elementSpec) firstHeaderIndex(ls []lines.Line, nonStrict bool) int {
	quoted, _ := lines.WithQuoteLevels(ls, false)
	for i, ql := range quoted {
		if ql.Level != 0 || ql.Line.IsEmpty() {
			continue
		}
		id, ok := s.matchHeader(ql.Line.Content())
		if !ok || !s.acceptsFirst(id, nonStrict) {
			continue
		}
		if s.needIntro && i == 0 {
			continue
		}
		return i
	}
	return -1
}
