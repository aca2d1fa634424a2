package act

import (
	"github.com/coolbeans/lexhun/pkg/lines"
)

// Act is a complete parsed enactment. All element values are logically
// immutable once built; semantic analysis produces new values instead of
// mutating, so subtrees can be shared between analysis passes.
type Act struct {
	Identifier string     `json:"identifier"`
	Subject    string     `json:"subject"`
	Preamble   string     `json:"preamble"`
	Children   []ActChild `json:"children"`
}

// ActChild is either a structural divider or an article.
type ActChild interface{ actChild() }

// StructuralElement is a non-semantic divider: it groups articles under an
// identifier and a title but carries no legal text itself.
type StructuralElement struct {
	Kind       StructuralKind `json:"kind"`
	Identifier string         `json:"identifier"`
	Title      string         `json:"title"`
}

func (*StructuralElement) actChild() {}
func (*StructuralElement) isBlock()  {}

// Article is a content-bearing element whose children are always
// paragraphs, even when the source text had no paragraph headers.
type Article struct {
	Identifier string               `json:"identifier"`
	Title      string               `json:"title,omitempty"`
	Children   []*SubArticleElement `json:"children"`
}

func (*Article) actChild() {}
func (*Article) isBlock()  {}

// Block is a child of a sub-article element: a nested sub-article element,
// a literal quoted block, or a re-parsed block amendment.
type Block interface{ isBlock() }

// SubArticleElement is any of the content levels below an article:
// paragraph, point or subpoint. Content is mutually exclusive: either
// literal Text, or Intro + uniformly-typed Children + optional WrapUp.
// The analysis fields are absent until semantic analysis has run and
// immutable afterwards.
type SubArticleElement struct {
	Kind       Kind    `json:"kind"`
	Identifier string  `json:"identifier,omitempty"`
	Text       string  `json:"text,omitempty"`
	Intro      string  `json:"intro,omitempty"`
	Children   []Block `json:"children,omitempty"`
	WrapUp     string  `json:"wrap_up,omitempty"`

	Analyzed           bool                `json:"analyzed,omitempty"`
	OutgoingReferences []OutgoingReference `json:"outgoing_references,omitempty"`
	Abbreviations      []ActIDAbbreviation `json:"abbreviations,omitempty"`
	Events             []Event             `json:"events,omitempty"`
}

func (*SubArticleElement) isBlock() {}

// QuotedBlock is a run of verbatim quoted lines, kept unparsed by the
// structural parser. Block amendment analysis may later replace it with a
// BlockAmendmentContainer.
type QuotedBlock struct {
	Lines []lines.Line `json:"-"`
}

func (*QuotedBlock) isBlock() {}

// BlockAmendmentContainer holds the re-parsed structural content of a block
// amendment, tagged with the metadata that produced it.
type BlockAmendmentContainer struct {
	Metadata *BlockAmendment `json:"metadata"`
	Children []Block         `json:"children"`
}

func (*BlockAmendmentContainer) isBlock() {}

// OutgoingReference is a located mention of another address inside an
// element's text, with exact character offsets into that text.
type OutgoingReference struct {
	Start     int       `json:"start"`
	End       int       `json:"end"`
	Reference Reference `json:"reference"`
}

// ActIDAbbreviation records an "Act X (hereinafter: Y)" definition.
type ActIDAbbreviation struct {
	Abbreviation string `json:"abbreviation"`
	ActID        string `json:"act_id"`
}

// AbbreviationTable accumulates abbreviation definitions over a document
// in definition order and resolves later uses.
type AbbreviationTable struct {
	entries []ActIDAbbreviation
	byAbbr  map[string]string
}

// NewAbbreviationTable returns an empty table.
func NewAbbreviationTable() *AbbreviationTable {
	return &AbbreviationTable{byAbbr: make(map[string]string)}
}

// Add records a definition. Redefinitions overwrite the mapping but keep
// the original entry order.
func (t *AbbreviationTable) Add(a ActIDAbbreviation) {
	if _, seen := t.byAbbr[a.Abbreviation]; !seen {
		t.entries = append(t.entries, a)
	}
	t.byAbbr[a.Abbreviation] = a.ActID
}

// Resolve maps an abbreviation to the defined act identifier.
func (t *AbbreviationTable) Resolve(abbreviation string) (string, bool) {
	id, ok := t.byAbbr[abbreviation]
	return id, ok
}

// Entries returns all definitions in first-definition order.
func (t *AbbreviationTable) Entries() []ActIDAbbreviation {
	return t.entries
}

// Articles returns the act's articles in document order.
func (a *Act) Articles() []*Article {
	var articles []*Article
	for _, child := range a.Children {
		if article, ok := child.(*Article); ok {
			articles = append(articles, article)
		}
	}
	return articles
}

// Article returns the article with the given identifier, or nil.
func (a *Act) Article(identifier string) *Article {
	for _, article := range a.Articles() {
		if article.Identifier == identifier {
			return article
		}
	}
	return nil
}

// Paragraph returns the paragraph with the given identifier, or nil.
// The empty identifier addresses the single unnumbered paragraph.
func (a *Article) Paragraph(identifier string) *SubArticleElement {
	for _, paragraph := range a.Children {
		if paragraph.Identifier == identifier {
			return paragraph
		}
	}
	return nil
}

// Child returns the nested sub-article element with the given identifier.
func (e *SubArticleElement) Child(identifier string) *SubArticleElement {
	for _, block := range e.Children {
		if child, ok := block.(*SubArticleElement); ok && child.Identifier == identifier {
			return child
		}
	}
	return nil
}

// RelativeReference returns the element's address relative to its parent.
func (e *SubArticleElement) RelativeReference() Reference {
	var r Reference
	switch e.Kind {
	case KindParagraph:
		r.Paragraph = Single(e.Identifier)
	case KindAlphabeticPoint, KindNumericPoint:
		r.Point = Single(e.Identifier)
	case KindAlphabeticSubpoint, KindNumericSubpoint:
		r.Subpoint = Single(e.Identifier)
	}
	return r
}
