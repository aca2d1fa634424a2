// Package semantic walks a parsed act and attaches the grammar analyzer's
// findings to its elements: outgoing references, abbreviation definitions
// and amendment or enforcement events. Analysis is copy-on-write; the
// input tree is never mutated, and already analyzed elements are reused.
package semantic

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/coolbeans/lexhun/pkg/act"
	"github.com/coolbeans/lexhun/pkg/grammar"
	"github.com/coolbeans/lexhun/pkg/lines"
	"github.com/coolbeans/lexhun/pkg/parser"
)

// Elements whose assembled text lacks all of these substrings cannot
// contain a reference or an event, and are skipped without running the
// grammar. Oversized texts are tables or schedules, also skipped.
var interestingSubstrings = []string{")", "§", "törvén"}

const maxAnalyzedLength = 10000

type Analyzer struct {
	grammar *grammar.Analyzer
	logger  *zap.Logger
}

func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{grammar: grammar.NewAnalyzer(logger), logger: logger}
}

// Analyze returns a copy of the act with semantic data attached to every
// sub-article element. Abbreviations defined early in the act resolve
// references in all later elements.
func (a *Analyzer) Analyze(source *act.Act) *act.Act {
	result := *source
	table := act.NewAbbreviationTable()
	children := make([]act.ActChild, len(source.Children))
	for i, child := range source.Children {
		if article, ok := child.(*act.Article); ok {
			children[i] = a.analyzeArticle(article, table)
		} else {
			children[i] = child
		}
	}
	result.Children = children
	return &result
}

func (a *Analyzer) analyzeArticle(article *act.Article, table *act.AbbreviationTable) *act.Article {
	result := *article
	children := make([]*act.SubArticleElement, len(article.Children))
	for i, child := range article.Children {
		children[i] = a.analyzeElement(child, "", "", table)
	}
	result.Children = children
	return &result
}

// analyzeElement analyzes one element with its sentence context: the
// intro of every ancestor as prefix and the wrap-ups as postfix, so that
// "a 12. § szerint" split between an intro and its points still parses.
// References recognized inside the context are dropped; only those ending
// in the element's own text are attached.
func (a *Analyzer) analyzeElement(e *act.SubArticleElement, prefix, postfix string, table *act.AbbreviationTable) *act.SubArticleElement {
	if e.Analyzed {
		for _, abbrev := range e.Abbreviations {
			table.Add(abbrev)
		}
		return e
	}

	result := *e
	switch {
	case e.Text != "":
		a.analyzeText(&result, prefix, e.Text, postfix, table)

	case hasQuotedChildren(e):
		// The intro of a quoted block carrier is a complete sentence on
		// its own; outer context would only confuse the amendment
		// recognizers.
		a.analyzeText(&result, "", e.Intro, "", table)
		a.parseBlockAmendment(&result)

	default:
		a.analyzeText(&result, prefix, e.Intro, "", table)
		childPrefix := prefix + e.Intro + " "
		childPostfix := " " + e.WrapUp + postfix
		children := make([]act.Block, len(e.Children))
		for i, block := range e.Children {
			if sub, ok := block.(*act.SubArticleElement); ok {
				children[i] = a.analyzeElement(sub, childPrefix, childPostfix, table)
			} else {
				children[i] = block
			}
		}
		result.Children = children
	}
	result.Analyzed = true
	return &result
}

func hasQuotedChildren(e *act.SubArticleElement) bool {
	for _, block := range e.Children {
		if _, ok := block.(*act.QuotedBlock); ok {
			return true
		}
	}
	return false
}

func (a *Analyzer) analyzeText(result *act.SubArticleElement, prefix, middle, postfix string, table *act.AbbreviationTable) {
	text := prefix + middle + postfix
	if len(text) > maxAnalyzedLength || !interesting(text) {
		return
	}
	analysis := a.grammar.Analyze(text)

	for _, abbrev := range analysis.Abbreviations {
		table.Add(abbrev)
	}
	result.Abbreviations = analysis.Abbreviations

	lo := len(prefix)
	hi := len(text) - len(postfix)
	refs := make([]act.OutgoingReference, 0, len(analysis.References)+len(analysis.ActReferences))
	for _, r := range append(analysis.References, analysis.ActReferences...) {
		if r.End <= lo || r.End > hi {
			continue
		}
		r.Start = max(r.Start-lo, 0)
		r.End -= lo
		r.Reference = resolveActs(r.Reference, table)
		refs = append(refs, r)
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Start < refs[j].Start })
	result.OutgoingReferences = refs

	events := make([]act.Event, 0, len(analysis.Events))
	for _, event := range analysis.Events {
		events = append(events, resolveEventActs(event, table))
	}
	result.Events = events
}

func interesting(text string) bool {
	for _, substring := range interestingSubstrings {
		if strings.Contains(text, substring) {
			return true
		}
	}
	return false
}

func resolveActs(r act.Reference, table *act.AbbreviationTable) act.Reference {
	if r.Act == "" {
		return r
	}
	if resolved, ok := table.Resolve(r.Act); ok {
		r.Act = resolved
	}
	return r
}

func resolveEventActs(event act.Event, table *act.AbbreviationTable) act.Event {
	switch e := event.(type) {
	case act.EnforcementDate:
		if e.Position != nil {
			resolved := resolveActs(*e.Position, table)
			e.Position = &resolved
		}
		return e
	case act.TextAmendment:
		e.Position = resolveActs(e.Position, table)
		return e
	case act.Repeal:
		e.Position = resolveActs(e.Position, table)
		return e
	case act.BlockAmendment:
		e.Position = resolveActs(e.Position, table)
		for i := range e.Replaces {
			e.Replaces[i] = resolveActs(e.Replaces[i], table)
		}
		return e
	}
	return event
}

// parseBlockAmendment re-parses the quoted lines of a block amendment into
// real elements. On failure the quoted blocks stay verbatim; a bad quote
// must never lose text.
func (a *Analyzer) parseBlockAmendment(result *act.SubArticleElement) {
	var meta *act.BlockAmendment
	for _, event := range result.Events {
		if ba, ok := event.(act.BlockAmendment); ok {
			if meta != nil {
				a.logger.Debug("multiple block amendments in one sentence, keeping quotes verbatim")
				return
			}
			m := ba
			meta = &m
		}
	}
	if meta == nil {
		return
	}

	var quoted []lines.Line
	for _, block := range result.Children {
		qb, ok := block.(*act.QuotedBlock)
		if !ok {
			return
		}
		if len(quoted) > 0 {
			quoted = append(quoted, lines.Empty)
		}
		quoted = append(quoted, qb.Lines...)
	}
	if len(quoted) == 0 {
		return
	}

	container, err := parser.ParseBlockAmendment(meta, quoted)
	if err != nil {
		a.logger.Debug("block amendment content did not parse",
			zap.String("position", meta.Position.String()),
			zap.Error(err))
		return
	}
	result.Children = []act.Block{container}
}
