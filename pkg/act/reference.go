// Package act holds the document model for Hungarian enactments: the
// element tree produced by the structural parser, the Reference address
// algebra, and the semantic events attached by the analyzer.
package act

import (
	"fmt"
	"strings"

	"github.com/coolbeans/lexhun/pkg/ident"
)

// IDPart is one address component of a Reference: absent, a single
// identifier, or a contiguous range of identifiers at that level.
type IDPart struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Single builds a single-identifier part. An empty id yields the absent part.
func Single(id string) IDPart { return IDPart{Start: id} }

// Range builds a range part covering start through end inclusive.
func Range(start, end string) IDPart { return IDPart{Start: start, End: end} }

// IsAbsent reports whether the component is absent.
func (p IDPart) IsAbsent() bool { return p.Start == "" }

// IsRange reports whether the component denotes a range.
func (p IDPart) IsRange() bool { return p.End != "" && p.End != p.Start }

// First returns the single identifier, or the start of a range.
func (p IDPart) First() string { return p.Start }

// Last returns the single identifier, or the end of a range.
func (p IDPart) Last() string {
	if p.End != "" {
		return p.End
	}
	return p.Start
}

// Covers reports whether the component, treated as an inclusive span,
// covers the other component's span under identifier ordering.
func (p IDPart) Covers(other IDPart) bool {
	if p.IsAbsent() || other.IsAbsent() {
		return false
	}
	end := p.End
	if end == "" {
		end = p.Start
	}
	otherEnd := other.End
	if otherEnd == "" {
		otherEnd = other.Start
	}
	return ident.Compare(p.Start, other.Start) <= 0 && ident.Compare(otherEnd, end) <= 0
}

func (p IDPart) String() string {
	if p.IsRange() {
		return p.Start + ".." + p.End
	}
	return p.Start
}

// Reference is an immutable address into an enactment: up to five
// components from act identifier down to subpoint. A reference whose
// higher components are absent while lower ones are present is relative
// and must be resolved with RelativeTo before use as an address.
type Reference struct {
	Act       string `json:"act,omitempty"`
	Article   IDPart `json:"article,omitempty"`
	Paragraph IDPart `json:"paragraph,omitempty"`
	Point     IDPart `json:"point,omitempty"`
	Subpoint  IDPart `json:"subpoint,omitempty"`
}

func (r Reference) parts() [4]IDPart {
	return [4]IDPart{r.Article, r.Paragraph, r.Point, r.Subpoint}
}

func (r *Reference) setPart(level int, p IDPart) {
	switch level {
	case 0:
		r.Article = p
	case 1:
		r.Paragraph = p
	case 2:
		r.Point = p
	case 3:
		r.Subpoint = p
	}
}

// IsEmpty reports whether every component is absent.
func (r Reference) IsEmpty() bool {
	if r.Act != "" {
		return false
	}
	for _, p := range r.parts() {
		if !p.IsAbsent() {
			return false
		}
	}
	return true
}

// IsRange reports whether any component denotes a range.
func (r Reference) IsRange() bool {
	for _, p := range r.parts() {
		if p.IsRange() {
			return true
		}
	}
	return false
}

// FirstInRange collapses every range component to its start.
func (r Reference) FirstInRange() Reference {
	result := r
	for level, p := range r.parts() {
		if p.IsRange() {
			result.setPart(level, Single(p.Start))
		}
	}
	return result
}

// RelativeTo resolves a relative reference against a context: components
// above the receiver's first non-absent one are taken from the context,
// the rest from the receiver. An entirely empty receiver resolves to
// itself, and any reference resolves unchanged against an empty context.
func (r Reference) RelativeTo(context Reference) Reference {
	if r.IsEmpty() {
		return r
	}
	var result Reference
	own := r.Act != ""
	if own {
		result.Act = r.Act
	} else {
		result.Act = context.Act
	}
	contextParts := context.parts()
	for level, p := range r.parts() {
		if !p.IsAbsent() {
			own = true
		}
		if own {
			result.setPart(level, p)
		} else {
			result.setPart(level, contextParts[level])
		}
	}
	return result
}

// Contains reports whether the receiver, possibly naming ranges, covers the
// other reference: all levels down to the receiver's last non-absent
// component must agree (ranges by identifier ordering), and absent
// components past that point act as wildcards.
func (r Reference) Contains(other Reference) bool {
	if r.Act != other.Act {
		return false
	}
	ownParts := r.parts()
	otherParts := other.parts()
	lastOwn := -1
	for level, p := range ownParts {
		if !p.IsAbsent() {
			lastOwn = level
		}
	}
	for level := 0; level <= lastOwn; level++ {
		if !ownParts[level].Covers(otherParts[level]) {
			return false
		}
	}
	return true
}

// LastComponent returns the least significant non-absent component and the
// element kind it addresses. The ok result is false for an act-only or
// empty reference.
func (r Reference) LastComponent() (part IDPart, kind Kind, ok bool) {
	if !r.Subpoint.IsAbsent() {
		return r.Subpoint, subpointKind(r.Subpoint.First()), true
	}
	if !r.Point.IsAbsent() {
		return r.Point, pointKind(r.Point.First()), true
	}
	if !r.Paragraph.IsAbsent() {
		return r.Paragraph, KindParagraph, true
	}
	if !r.Article.IsAbsent() {
		return r.Article, KindArticle, true
	}
	return IDPart{}, 0, false
}

func pointKind(id string) Kind {
	if id != "" && id[0] >= '0' && id[0] <= '9' {
		return KindNumericPoint
	}
	return KindAlphabeticPoint
}

func subpointKind(id string) Kind {
	if id != "" && id[0] >= '0' && id[0] <= '9' {
		return KindNumericSubpoint
	}
	return KindAlphabeticSubpoint
}

// RelativeIDString encodes the structural components (article through
// subpoint, the act is omitted) as a compact string: components joined by
// "_", ranges as "start..end", trailing absent components trimmed.
func (r Reference) RelativeIDString() string {
	encoded := make([]string, 0, 4)
	for _, p := range r.parts() {
		encoded = append(encoded, p.String())
	}
	for len(encoded) > 0 && encoded[len(encoded)-1] == "" {
		encoded = encoded[:len(encoded)-1]
	}
	return strings.Join(encoded, "_")
}

// FromRelativeIDString is the inverse of RelativeIDString.
func FromRelativeIDString(s string) (Reference, error) {
	var r Reference
	if s == "" {
		return r, nil
	}
	components := strings.Split(s, "_")
	if len(components) > 4 {
		return r, fmt.Errorf("too many components in relative id string %q", s)
	}
	for level, component := range components {
		if component == "" {
			continue
		}
		if start, end, isRange := strings.Cut(component, ".."); isRange {
			r.setPart(level, Range(start, end))
		} else {
			r.setPart(level, Single(component))
		}
	}
	return r, nil
}

func (r Reference) String() string {
	if r.Act == "" {
		return r.RelativeIDString()
	}
	rel := r.RelativeIDString()
	if rel == "" {
		return r.Act
	}
	return r.Act + " " + rel
}
