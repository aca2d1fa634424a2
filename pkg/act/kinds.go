package act

import (
	"fmt"

	"github.com/coolbeans/lexhun/pkg/ident"
)

// Kind identifies one of the content-bearing element kinds. The set is
// closed: behavior per kind lives in switches here, not in registries.
type Kind int

const (
	KindArticle Kind = iota
	KindParagraph
	KindAlphabeticPoint
	KindNumericPoint
	KindAlphabeticSubpoint
	KindNumericSubpoint
)

var kindNames = map[Kind]string{
	KindArticle:            "article",
	KindParagraph:          "paragraph",
	KindAlphabeticPoint:    "alphabetic_point",
	KindNumericPoint:       "numeric_point",
	KindAlphabeticSubpoint: "alphabetic_subpoint",
	KindNumericSubpoint:    "numeric_subpoint",
}

func (k Kind) String() string { return kindNames[k] }

// MarshalText renders the kind name for JSON output.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText parses a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown element kind %q", text)
}

// HeaderPrefix renders the header prefix an element of this kind carries
// in source text: "12. § " for articles, "(1) " for paragraphs, "a) " for
// alphabetic points and subpoints, "1. " for numeric points.
func (k Kind) HeaderPrefix(identifier string) string {
	if identifier == "" {
		// A paragraph without a header, from a single-paragraph article.
		return ""
	}
	switch k {
	case KindArticle:
		return identifier + ". § "
	case KindParagraph:
		return "(" + identifier + ") "
	case KindNumericPoint, KindNumericSubpoint:
		return identifier + ". "
	default:
		return identifier + ") "
	}
}

// FirstIdentifier returns the identifier the first sibling of this kind is
// expected to carry.
func (k Kind) FirstIdentifier() string {
	switch k {
	case KindAlphabeticPoint, KindAlphabeticSubpoint:
		return "a"
	default:
		return "1"
	}
}

// IsNextIdentifier reports whether identifier b immediately follows a under
// this kind's numbering convention. This predicate, not positional order,
// decides where one sibling ends and the next begins.
func (k Kind) IsNextIdentifier(a, b string) bool {
	switch k {
	case KindArticle:
		return ident.IsNextArticleID(a, b)
	case KindParagraph, KindNumericPoint, KindNumericSubpoint:
		return ident.IsNextNumericID(a, b)
	default:
		return ident.IsNextAlphabeticID(a, b)
	}
}

// StructuralKind identifies a non-semantic structural divider level.
type StructuralKind int

const (
	StructuralBook StructuralKind = iota
	StructuralPart
	StructuralTitle
	StructuralChapter
	StructuralSubtitle
)

var structuralNames = map[StructuralKind]string{
	StructuralBook:     "book",
	StructuralPart:     "part",
	StructuralTitle:    "title",
	StructuralChapter:  "chapter",
	StructuralSubtitle: "subtitle",
}

func (k StructuralKind) String() string { return structuralNames[k] }

// MarshalText renders the divider kind name for JSON output.
func (k StructuralKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
