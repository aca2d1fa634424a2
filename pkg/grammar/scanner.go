package grammar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coolbeans/lexhun/pkg/act"
)

var (
	articleIDPattern      = regexp.MustCompile(`^(?:[0-9]+:)?[0-9]+(?:/[A-Z]{1,2})?$`)
	numericPointIDPattern = regexp.MustCompile(`^[0-9]+(?:/?[a-z])?$`)
)

// sentenceResult holds everything recognized in one sentence: the tokens,
// the structural references in emission order, act mentions, captured
// abbreviations and the quoted spans. Event recognition runs on top of it.
type sentenceResult struct {
	start, end int
	toks       []token
	refs       []act.OutgoingReference
	actRefs    []act.OutgoingReference
	abbrevs    []act.ActIDAbbreviation
	quoted     []token
	endsColon  bool
}

// idForm distinguishes the surface shape of a pending identifier so the
// level keyword can validate it: "16/A." for articles, "(2)" for
// paragraphs, "a)" for points and subpoints.
type idForm byte

const (
	formNum   idForm = 'n'
	formParen idForm = 'p'
	formAlpha idForm = 'a'
)

type pendItem struct {
	item   refItem
	form   idForm
	upper  bool
	tokIdx int
}

type scanState struct {
	text string
	toks []token
	i    int

	cur     *collector
	fill    *act.Reference // context for relative resolution at close
	pending []pendItem

	pendingDash    bool
	dashAfterFlush bool
	dashLevel      refLevel
	lastFlushTok   int
	lastFlushLevel refLevel
	lastSepTok     int

	chain      bool // only list separators seen since last emitted reference
	prevRef    *act.Reference
	lastActEnd int // token index ending the last act mention
	lastActID  string

	sentStart int
	sent      sentenceResult
	sentences []sentenceResult
}

// scanText runs the reference scanner over prose and returns per-sentence
// results. Dates, amendments and other events are recognized afterwards
// from the sentence tokens.
func scanText(text string) []sentenceResult {
	s := &scanState{
		text:         text,
		toks:         tokenize(text),
		lastFlushTok: -2,
		lastSepTok:   -2,
		lastActEnd:   -2,
	}
	for s.i = 0; s.i < len(s.toks); s.i++ {
		s.step()
	}
	s.endSentence()
	return s.sentences
}

func (s *scanState) step() {
	t := s.toks[s.i]
	switch t.kind {
	case tokNumID:
		if s.matchActID() {
			return
		}
		s.pushNumID(t)

	case tokParenNum:
		s.push(pendItem{
			item:   refItem{part: act.Single(t.text), start: t.start, end: t.end},
			form:   formParen,
			tokIdx: s.i,
		})

	case tokAlphaParen:
		s.push(pendItem{
			item:   refItem{part: act.Single(t.text), start: t.start, end: t.end},
			form:   formAlpha,
			upper:  t.text[0] >= 'A' && t.text[0] <= 'Z',
			tokIdx: s.i,
		})

	case tokSection:
		s.flush(levelArticle, t)

	case tokWord:
		s.word(t)

	case tokDash:
		switch {
		case s.i == s.lastFlushTok+1:
			s.dashAfterFlush = true
			s.dashLevel = s.lastFlushLevel
		case len(s.pending) > 0:
			s.pendingDash = true
		}

	case tokComma:
		// List separator: pending identifiers and the open compound
		// reference both survive it.
		s.lastSepTok = s.i

	case tokQuoted:
		s.sent.quoted = append(s.sent.quoted, t)
		s.closeCollector()
		s.breakChain()

	case tokColon:
		s.sent.endsColon = true
		s.endSentence()

	case tokPeriod:
		s.endSentence()

	default:
		s.closeCollector()
		s.breakChain()
	}
}

func (s *scanState) word(t token) {
	first, _ := utf8.DecodeRuneInString(t.text)
	if isHunUpper(first) {
		if s.matchAbbreviation() {
			return
		}
		if t.isArticleWord() {
			return
		}
		s.noise()
		return
	}

	switch {
	case keywordStem(t, "alpont"):
		s.flush(levelSubpoint, t)
	case keywordStem(t, "bekezdés"):
		s.flush(levelParagraph, t)
	case keywordStem(t, "pont"):
		s.flush(levelPoint, t)
	case keywordStem(t, "cikk"):
		s.flushPoisoned(t)
	case isListSeparator(t.text):
		s.lastSepTok = s.i
	case t.isArticleWord():
		// Keeps the enumeration alive.
	default:
		s.noise()
	}
	if t.hasDot {
		s.endSentence()
	}
}

func isListSeparator(w string) bool {
	switch w {
	case "és", "s", "vagy", "valamint", "illetve", "továbbá":
		return true
	}
	return false
}

// keywordStem matches a level keyword by its stem with any of the usual
// case suffixes, so "bekezdésében" and "bekezdéssel" both count. Derived
// words like "pontosan" do not.
func keywordStem(t token, stem string) bool {
	if !t.hasWordPrefix(stem) {
		return false
	}
	rest := t.text[len(stem):]
	if rest == "" {
		return true
	}
	if stem == "pont" && (strings.HasPrefix(rest, "os") || strings.HasPrefix(rest, "oz")) {
		return false
	}
	return utf8.RuneCountInString(rest) <= 6
}

func (s *scanState) push(p pendItem) {
	if s.pendingDash && len(s.pending) > 0 {
		last := &s.pending[len(s.pending)-1]
		if last.form == p.form {
			last.item.part = act.Range(last.item.part.First(), p.item.part.Last())
			last.item.end = p.item.end
			s.pendingDash = false
			return
		}
	}
	s.pendingDash = false
	s.pending = append(s.pending, p)
}

// pushNumID accepts a numeric identifier into the pending list. A dotless
// number is only an identifier when a range dash follows it, as in
// "6–8. §"; anything else, like the bare "25" of a typo, is noise.
func (s *scanState) pushNumID(t token) {
	if t.dash != "" {
		s.noise()
		return
	}
	if !t.hasDot {
		if s.i+1 >= len(s.toks) || s.toks[s.i+1].kind != tokDash {
			s.noise()
			return
		}
	}
	s.push(pendItem{
		item:   refItem{part: act.Single(t.text), start: t.start, end: t.end},
		form:   formNum,
		tokIdx: s.i,
	})
}

func (s *scanState) noise() {
	s.pending = s.pending[:0]
	s.pendingDash = false
	s.closeCollector()
	s.breakChain()
}

func (s *scanState) breakChain() {
	s.chain = false
	s.prevRef = nil
}

// flush assigns the pending identifiers to a level when its keyword
// arrives. An empty flush is a no-op, except for the "E §" form which
// opens a compound reference addressing the current article.
func (s *scanState) flush(level refLevel, keyword token) {
	pending := s.pending
	s.pending = s.pending[:0]
	dashContinues := s.dashAfterFlush && s.dashLevel == level
	s.dashAfterFlush = false
	s.pendingDash = false
	prevFlushTok := s.lastFlushTok
	s.lastFlushTok = s.i
	s.lastFlushLevel = level

	if len(pending) == 0 {
		if level == levelArticle && s.precededByThisWord() && s.cur == nil {
			s.openCollector(-1)
			s.cur.assign(levelArticle, nil, keyword.end)
		}
		return
	}

	items := make([]refItem, 0, len(pending))
	for _, p := range pending {
		if !validIDForLevel(level, p) {
			s.closeCollector()
			s.breakChain()
			return
		}
		items = append(items, p.item)
	}
	items = coalesce(level, items)

	if dashContinues && s.cur != nil && len(items) == 1 {
		if s.cur.extendRange(level, items[0], keyword.end) {
			return
		}
	}

	if s.cur != nil && s.cur.populated() && !s.cur.poisoned &&
		s.lastSepTok > prevFlushTok && s.lastSepTok < pending[0].tokIdx {
		// "8. §, valamint a (2) bekezdés" starts a new reference; only
		// an uninterrupted "8. § (2) bekezdése" deepens the compound.
		s.closeCollector()
	}
	if s.cur != nil && !s.cur.accepts(level) {
		s.closeCollector()
	}
	if s.cur == nil {
		s.openCollector(pending[0].tokIdx)
	}
	s.cur.assign(level, items, keyword.end)
}

// flushPoisoned consumes pending identifiers into a compound reference that
// will never be emitted. "cikk" marks treaty and constitutional articles,
// which are out of scope, and the poisoning keeps a following
// "(2) bekezdése" from surfacing as a free-standing paragraph reference.
func (s *scanState) flushPoisoned(keyword token) {
	s.closeCollector()
	s.openCollector(-1)
	s.cur.poisoned = true
	s.pending = s.pending[:0]
	s.pendingDash = false
	s.lastFlushTok = s.i
	s.lastFlushLevel = levelArticle
	s.cur.assign(levelArticle, nil, keyword.end)
}

func (s *scanState) precededByThisWord() bool {
	if s.i == 0 {
		return false
	}
	prev := s.toks[s.i-1]
	return prev.kind == tokWord && (prev.text == "E" || prev.text == "e")
}

func validIDForLevel(level refLevel, p pendItem) bool {
	switch level {
	case levelArticle:
		return p.form == formNum && articleIDPattern.MatchString(rangeBound(p))
	case levelParagraph:
		return p.form == formParen
	default:
		if p.form == formAlpha {
			return !p.upper
		}
		return p.form == formNum && numericPointIDPattern.MatchString(rangeBound(p))
	}
}

func rangeBound(p pendItem) string {
	return p.item.part.Last()
}

func (s *scanState) openCollector(firstIdTok int) {
	s.cur = &collector{open: true}
	if s.chain && s.prevRef != nil {
		ref := *s.prevRef
		s.fill = &ref
	} else {
		s.fill = nil
	}
	if firstIdTok < 0 {
		return
	}
	j := firstIdTok - 1
	for j >= 0 && s.toks[j].isArticleWord() {
		j--
	}
	if j == s.lastActEnd {
		s.cur.act = s.lastActID
	}
}

// closeCollector emits the open compound reference. A reference without an
// act of its own that continues an enumeration is resolved against the
// previously emitted reference, unless that would nest below a range.
func (s *scanState) closeCollector() {
	if s.cur == nil {
		return
	}
	c := s.cur
	fill := s.fill
	s.cur = nil
	s.fill = nil

	refs := c.references()
	if len(refs) == 0 {
		if c.poisoned {
			s.breakChain()
		}
		return
	}
	if c.act == "" && fill != nil && fillable(c, *fill) {
		for i := range refs {
			refs[i].Reference = refs[i].Reference.RelativeTo(*fill)
		}
	}
	s.sent.refs = append(s.sent.refs, refs...)
	last := refs[len(refs)-1].Reference
	s.prevRef = &last
	s.chain = true
}

func fillable(c *collector, context act.Reference) bool {
	var shallowest refLevel = levelCount
	for l := levelArticle; l < levelCount; l++ {
		if len(c.levels[l]) > 0 {
			shallowest = l
			break
		}
	}
	for l := levelArticle; l < shallowest; l++ {
		if levelOf(context, l).IsRange() {
			return false
		}
	}
	return true
}

// matchActID consumes a full act identifier like "2012. évi CCIV. törvény"
// starting at the current token, together with a trailing
// "(a továbbiakban: ...)" abbreviation definition if present.
func (s *scanState) matchActID() bool {
	t := s.toks[s.i]
	if !t.hasDot || s.i+3 >= len(s.toks) {
		return false
	}
	year, err := strconv.Atoi(t.text)
	if err != nil || year < 1000 || year > 2999 {
		return false
	}
	evi := s.toks[s.i+1]
	roman := s.toks[s.i+2]
	suffix := s.toks[s.i+3]
	if evi.kind != tokWord || evi.text != "évi" {
		return false
	}
	if roman.kind != tokWord || !roman.hasDot || !isRoman(roman.text) {
		return false
	}
	isLaw := suffix.hasWordPrefix("törvén") || (suffix.kind == tokWord && suffix.text == "tv" && suffix.hasDot)
	if !isLaw {
		return false
	}

	s.noise()
	actID := fmt.Sprintf("%d. évi %s. törvény", year, roman.text)
	s.sent.actRefs = append(s.sent.actRefs, act.OutgoingReference{
		Start:     t.start,
		End:       suffix.end,
		Reference: act.Reference{Act: actID},
	})
	s.i += 3
	s.lastActEnd = s.i
	s.lastActID = actID
	s.matchAbbreviationDef(actID)
	return true
}

func isRoman(w string) bool {
	for _, r := range w {
		if !strings.ContainsRune("IVXLCDM", r) {
			return false
		}
	}
	return w != ""
}

// matchAbbreviationDef captures "(a továbbiakban: Hktv.)" directly after an
// act identifier. The recorded abbreviation keeps a " tv." suffix but drops
// a spelled-out " törvény", and a definition merely repeating the act
// identifier is ignored.
func (s *scanState) matchAbbreviationDef(actID string) {
	j := s.i + 1
	if j+2 >= len(s.toks) || s.toks[j].kind != tokOpenParen {
		return
	}
	if s.toks[j+1].text != "a" || !s.toks[j+2].hasWordPrefix("továbbiak") {
		return
	}
	k := j + 3
	if k < len(s.toks) && s.toks[k].kind == tokWord && s.toks[k].text == "együtt" {
		k++
	}
	if k < len(s.toks) && s.toks[k].kind == tokColon {
		k++
	}
	m := k
	for m < len(s.toks) && s.toks[m].kind != tokCloseParen {
		if s.toks[m].kind != tokWord && s.toks[m].kind != tokNumID {
			return
		}
		m++
	}
	if m >= len(s.toks) || m == k {
		return
	}

	raw := s.text[s.toks[k].start:s.toks[m-1].end]
	abbrev, ok := normalizeAbbreviation(raw)
	s.i = m
	s.lastActEnd = m
	if !ok || abbrev == actID {
		return
	}
	s.sent.abbrevs = append(s.sent.abbrevs, act.ActIDAbbreviation{
		Abbreviation: abbrev,
		ActID:        actID,
	})
}

func normalizeAbbreviation(raw string) (string, bool) {
	first, _ := utf8.DecodeRuneInString(raw)
	if !isHunUpper(first) {
		return "", false
	}
	if trimmed, ok := strings.CutSuffix(raw, " törvény"); ok {
		return trimmed, true
	}
	if !strings.HasSuffix(raw, ".") {
		return "", false
	}
	return raw, true
}

// matchAbbreviation recognizes an abbreviated act mention in running text:
// a capitalized dotted word ("Gyvt.", "Eurt.tv.") or a capitalized word
// followed by "tv." ("Víziközmű tv.", "Eva tv."). The raw abbreviation is
// used as the act identifier; resolution against the abbreviation table is
// the caller's concern.
func (s *scanState) matchAbbreviation() bool {
	t := s.toks[s.i]
	end := s.i
	if s.i+1 < len(s.toks) {
		next := s.toks[s.i+1]
		if next.kind == tokWord && next.text == "tv" && next.hasDot {
			end = s.i + 1
		}
	}
	if end == s.i {
		if !t.hasDot || utf8.RuneCountInString(t.text) < 2 || isRoman(t.text) {
			return false
		}
	}

	s.noise()
	raw := s.text[t.start:s.toks[end].end]
	s.sent.actRefs = append(s.sent.actRefs, act.OutgoingReference{
		Start:     t.start,
		End:       s.toks[end].end,
		Reference: act.Reference{Act: raw},
	})
	s.i = end
	s.lastActEnd = end
	s.lastActID = raw
	return true
}

// endSentence closes the open compound reference and finalizes the current
// sentence. Reference resolution never crosses a sentence boundary.
func (s *scanState) endSentence() {
	s.closeCollector()
	s.pending = s.pending[:0]
	s.pendingDash = false
	s.dashAfterFlush = false
	s.breakChain()

	if s.i > s.sentStart || (s.i == s.sentStart && s.i < len(s.toks)) {
		endTok := s.i
		if endTok >= len(s.toks) {
			endTok = len(s.toks) - 1
		}
		if endTok >= s.sentStart {
			s.sent.toks = s.toks[s.sentStart : endTok+1]
			s.sent.start = s.toks[s.sentStart].start
			s.sent.end = s.toks[endTok].end
			s.sentences = append(s.sentences, s.sent)
		}
	}
	s.sent = sentenceResult{}
	s.sentStart = s.i + 1
}
