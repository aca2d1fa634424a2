package grammar

import (
	"github.com/coolbeans/lexhun/pkg/act"
	"github.com/coolbeans/lexhun/pkg/ident"
)

// refLevel indexes the non-act reference components from article down.
type refLevel int

const (
	levelArticle refLevel = iota
	levelParagraph
	levelPoint
	levelSubpoint
	levelCount
)

// refItem is one identifier (or range) at some level, with the byte span of
// the identifier tokens it came from.
type refItem struct {
	part  act.IDPart
	start int
	end   int
}

// collector accumulates one compound reference: an optional act context plus
// identifier lists assigned level by level as the level keywords arrive.
// Emission yields one reference per item of the deepest populated level.
type collector struct {
	act      string
	levels   [levelCount][]refItem
	open     bool
	poisoned bool
	start    int // span of the whole compound reference, act excluded
	end      int
}

func (c *collector) populated() bool {
	for _, items := range c.levels {
		if len(items) > 0 {
			return true
		}
	}
	return false
}

func (c *collector) deepestLevel() (refLevel, bool) {
	for l := levelSubpoint; l >= levelArticle; l-- {
		if len(c.levels[l]) > 0 {
			return l, true
		}
	}
	return 0, false
}

// accepts reports whether an identifier list at the given level can extend
// the compound reference: the level must be deeper than anything already
// populated, and every populated level above it must hold a single item.
func (c *collector) accepts(level refLevel) bool {
	if !c.open {
		return false
	}
	if deep, ok := c.deepestLevel(); ok && level <= deep {
		return false
	}
	for l := levelArticle; l < level; l++ {
		if len(c.levels[l]) > 1 {
			return false
		}
	}
	return true
}

// assign places coalesced items at the given level.
func (c *collector) assign(level refLevel, items []refItem, keywordEnd int) {
	if !c.populated() && len(items) > 0 {
		c.start = items[0].start
	}
	c.levels[level] = items
	if keywordEnd > c.end {
		c.end = keywordEnd
	}
}

// extendRange widens the last item of a level into a range ending with the
// given identifier. Used for dash continuations that arrive after the level
// keyword was already seen, as in "8/A. §–8/B. §-a".
func (c *collector) extendRange(level refLevel, item refItem, keywordEnd int) bool {
	items := c.levels[level]
	if len(items) == 0 {
		return false
	}
	last := &items[len(items)-1]
	last.part = act.Range(last.part.First(), item.part.Last())
	last.end = item.end
	if keywordEnd > c.end {
		c.end = keywordEnd
	}
	return true
}

// references emits one reference per enumeration unit with its covering
// span. The first unit's span is widened back to the start of the compound
// reference and the last unit's forward to the final level keyword.
func (c *collector) references() []act.OutgoingReference {
	if c.poisoned {
		return nil
	}
	deep, ok := c.deepestLevel()
	if !ok {
		return nil
	}

	base := act.Reference{Act: c.act}
	for l := levelArticle; l < deep; l++ {
		if len(c.levels[l]) == 1 {
			setLevel(&base, l, c.levels[l][0].part)
		}
	}

	deepItems := c.levels[deep]
	refs := make([]act.OutgoingReference, 0, len(deepItems))
	for _, item := range deepItems {
		r := base
		setLevel(&r, deep, item.part)
		refs = append(refs, act.OutgoingReference{
			Start:     item.start,
			End:       item.end,
			Reference: r,
		})
	}
	refs[0].Start = c.start
	refs[len(refs)-1].End = c.end
	return refs
}

func setLevel(r *act.Reference, level refLevel, part act.IDPart) {
	switch level {
	case levelArticle:
		r.Article = part
	case levelParagraph:
		r.Paragraph = part
	case levelPoint:
		r.Point = part
	case levelSubpoint:
		r.Subpoint = part
	}
}

func levelOf(r act.Reference, level refLevel) act.IDPart {
	switch level {
	case levelArticle:
		return r.Article
	case levelParagraph:
		return r.Paragraph
	case levelPoint:
		return r.Point
	}
	return r.Subpoint
}

// coalesce merges successive identifiers of an enumeration into ranges:
// "(1), (2) és (4)–(10)" becomes the items (1..2) and (4..10). Only single
// identifiers that are direct successors of the previous item are merged.
func coalesce(level refLevel, items []refItem) []refItem {
	if len(items) < 2 {
		return items
	}
	out := items[:1:1]
	for _, item := range items[1:] {
		last := &out[len(out)-1]
		if !item.part.IsRange() && isSuccessor(level, last.part.Last(), item.part.First()) {
			last.part = act.Range(last.part.First(), item.part.First())
			last.end = item.end
			continue
		}
		out = append(out, item)
	}
	return out
}

func isSuccessor(level refLevel, a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	switch level {
	case levelArticle:
		return ident.IsNextArticleID(a, b)
	case levelParagraph:
		return ident.IsNextNumericID(a, b)
	default:
		if b[0] >= '0' && b[0] <= '9' {
			return ident.IsNextNumericID(a, b)
		}
		return ident.IsNextAlphabeticID(a, b)
	}
}
