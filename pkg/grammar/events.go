package grammar

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/coolbeans/lexhun/pkg/act"
	"github.com/coolbeans/lexhun/pkg/ident"
)

var monthNumbers = map[string]int{
	"január":     1,
	"február":    2,
	"március":    3,
	"április":    4,
	"május":      5,
	"június":     6,
	"július":     7,
	"augusztus":  8,
	"szeptember": 9,
	"október":    10,
	"november":   11,
	"december":   12,
}

// blockAmendmentPostfixes are the sentence endings that introduce a quoted
// replacement or insertion block. The sentence must also end with a colon.
var blockAmendmentPostfixes = []string{
	"helyébe a következő rendelkezés lép",
	"helyébe a következő rendelkezések lépnek",
	"a következő szöveggel lép hatályba",
	"kiegészülve lép hatályba",
	"egészül ki",
}

// recognizeEvents extracts the semantic events of one sentence, in strict
// precedence: a quoted block amendment, then a repeal, then literal text
// amendments, then enforcement dates. At most one recognizer fires per
// sentence. Recognition is conservative: anything ambiguous yields no
// event rather than a wrong one.
func recognizeEvents(text string, sent *sentenceResult, logger *zap.Logger) []act.Event {
	raw := text[sent.start:sent.end]
	if sent.endsColon && containsAny(raw, blockAmendmentPostfixes) {
		return recognizeBlockAmendment(raw, sent, logger)
	}
	if isRepealSentence(raw, sent) {
		return recognizeRepeal(sent, logger)
	}
	if strings.Contains(raw, "szövegrész") && (strings.Contains(raw, "helyébe") || strings.Contains(raw, "helyett")) {
		return recognizeTextAmendment(sent, logger)
	}
	if strings.Contains(raw, "lép hatályba") || strings.Contains(raw, "hatályba lép") {
		return recognizeEnforcementDate(sent, logger)
	}
	return nil
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func recognizeBlockAmendment(raw string, sent *sentenceResult, logger *zap.Logger) []act.Event {
	inserted := strings.Contains(raw, "egészül ki") || strings.Contains(raw, "kiegészülve")
	structural := structuralHint(sent)

	position, span, ok := mergePositions(sent.refs)
	if !ok {
		logger.Debug("block amendment positions do not form a single target",
			zap.String("sentence", raw))
		return nil
	}
	if position.IsEmpty() && structural == nil {
		return nil
	}
	if position.Act == "" && len(sent.actRefs) > 0 {
		position.Act = sent.actRefs[len(sent.actRefs)-1].Reference.Act
	}

	meta := act.BlockAmendment{
		Position:   position,
		Structural: structural,
		Inserted:   inserted && !strings.Contains(raw, "helyébe"),
	}
	if _, kind, ok := position.LastComponent(); ok {
		meta.ExpectedKind = kind
	}

	if len(sent.refs) > 0 {
		sent.refs = []act.OutgoingReference{{
			Start:     span.start,
			End:       span.end,
			Reference: position,
		}}
	}
	return []act.Event{meta}
}

// structuralHint inspects what the sentence says it inserts or substitutes,
// the words after "a következő", and maps divider vocabulary there to the
// structural kind the quoted block starts with. Divider words before that
// point only anchor the target ("X alcíme a következő 316/A. §-sal egészül
// ki" inserts a plain article) and give no hint.
func structuralHint(sent *sentenceResult) *act.StructuralKind {
	seen := false
	for _, t := range sent.toks {
		if t.kind != tokWord {
			continue
		}
		if !seen {
			seen = t.text == "következő"
			continue
		}
		var kind act.StructuralKind
		switch {
		case strings.HasPrefix(t.text, "alcím"):
			kind = act.StructuralSubtitle
		case strings.HasPrefix(strings.ToLower(t.text), "fejezet"):
			kind = act.StructuralChapter
		case strings.HasPrefix(t.text, "cím") && !strings.HasPrefix(t.text, "címz"):
			kind = act.StructuralTitle
		default:
			continue
		}
		return &kind
	}
	return nil
}

type span struct {
	start, end int
}

// mergePositions folds the reference list of an amendment sentence into the
// single position it targets. A sentence that both replaces and inserts,
// like "(2) bekezdése helyébe ... lép, és a § a következő (3) bekezdéssel
// egészül ki", targets the contiguous range (2)..(3); the fold therefore
// requires each further reference to directly succeed the merged one.
func mergePositions(refs []act.OutgoingReference) (act.Reference, span, bool) {
	if len(refs) == 0 {
		return act.Reference{}, span{}, true
	}
	merged := refs[0].Reference
	for _, or := range refs[1:] {
		r := or.Reference.RelativeTo(merged)
		level, ok := deepestOf(r)
		if !ok || r.Act != merged.Act {
			return act.Reference{}, span{}, false
		}
		mergedLevel, ok := deepestOf(merged)
		if !ok {
			return act.Reference{}, span{}, false
		}
		if level > mergedLevel {
			// Insertion below the anchor: "188. §-a a következő
			// 31/a. ponttal egészül ki" targets (188, 31/a).
			for l := levelArticle; l <= mergedLevel; l++ {
				if levelOf(r, l) != levelOf(merged, l) {
					return act.Reference{}, span{}, false
				}
			}
			merged = r
			continue
		}
		if level != mergedLevel {
			return act.Reference{}, span{}, false
		}
		for l := levelArticle; l < level; l++ {
			if levelOf(r, l) != levelOf(merged, l) {
				return act.Reference{}, span{}, false
			}
		}
		mergedPart := levelOf(merged, level)
		next := levelOf(r, level)
		if !isSuccessor(level, mergedPart.Last(), next.First()) {
			return act.Reference{}, span{}, false
		}
		setLevel(&merged, level, act.Range(mergedPart.First(), next.Last()))
	}
	return merged, span{start: refs[0].Start, end: refs[len(refs)-1].End}, true
}

func deepestOf(r act.Reference) (refLevel, bool) {
	for l := levelSubpoint; l >= levelArticle; l-- {
		if !levelOf(r, l).IsAbsent() {
			return l, true
		}
	}
	return 0, false
}

func isRepealSentence(raw string, sent *sentenceResult) bool {
	if len(sent.toks) >= 2 {
		first, second := sent.toks[0], sent.toks[1]
		if first.text == "Hatályát" && second.text == "veszti" {
			return true
		}
	}
	return strings.Contains(raw, "nem lép hatályba") || strings.HasPrefix(raw, "Nem lép hatályba")
}

func recognizeRepeal(sent *sentenceResult, logger *zap.Logger) []act.Event {
	if len(sent.refs) == 0 {
		return nil
	}
	texts := quotedFragments(sent)
	events := make([]act.Event, 0, len(sent.refs))
	for _, ref := range sent.refs {
		if len(texts) == 0 {
			events = append(events, act.Repeal{Position: ref.Reference})
			continue
		}
		for _, text := range texts {
			events = append(events, act.Repeal{Position: ref.Reference, Text: text})
		}
	}
	return events
}

// quotedFragments returns the quoted spans of a "szövegrész" enumeration,
// trimmed of the surrounding spaces the typesetting likes to leave inside
// the quotation marks.
func quotedFragments(sent *sentenceResult) []string {
	hasFragmentWord := false
	for _, t := range sent.toks {
		if t.hasWordPrefix("szövegrész") {
			hasFragmentWord = true
			break
		}
	}
	if !hasFragmentWord {
		return nil
	}
	texts := make([]string, 0, len(sent.quoted))
	for _, q := range sent.quoted {
		texts = append(texts, strings.TrimSpace(q.text))
	}
	return texts
}

func recognizeTextAmendment(sent *sentenceResult, logger *zap.Logger) []act.Event {
	if len(sent.refs) == 0 {
		return nil
	}
	if len(sent.quoted) == 0 || len(sent.quoted)%2 != 0 {
		logger.Debug("text amendment with unpaired quoted fragments",
			zap.Int("fragments", len(sent.quoted)))
		return nil
	}
	type pair struct{ original, replacement string }
	pairs := make([]pair, 0, len(sent.quoted)/2)
	for i := 0; i+1 < len(sent.quoted); i += 2 {
		pairs = append(pairs, pair{
			original:    strings.TrimSpace(sent.quoted[i].text),
			replacement: strings.TrimSpace(sent.quoted[i+1].text),
		})
	}
	var events []act.Event
	for _, ref := range sent.refs {
		for _, p := range pairs {
			events = append(events, act.TextAmendment{
				Position:    ref.Reference,
				Original:    p.original,
				Replacement: p.replacement,
			})
		}
	}
	return events
}

func recognizeEnforcementDate(sent *sentenceResult, logger *zap.Logger) []act.Event {
	effective := parseEffective(sent)
	if effective == nil {
		return nil
	}
	positions := enforcementPositions(sent)
	if len(positions) == 0 {
		return []act.Event{act.EnforcementDate{Effective: effective}}
	}
	events := make([]act.Event, 0, len(positions))
	for _, pos := range positions {
		p := pos
		events = append(events, act.EnforcementDate{Position: &p, Effective: effective})
	}
	return events
}

// enforcementPositions returns the sentence's references excluding any
// inside a "– ... kivétellel –" exception clause. The excluded references
// still surface as outgoing references; they just do not gain this date.
func enforcementPositions(sent *sentenceResult) []act.Reference {
	exclStart, exclEnd := exceptionClause(sent)
	positions := make([]act.Reference, 0, len(sent.refs))
	for _, ref := range sent.refs {
		if exclStart >= 0 && ref.Start >= exclStart && ref.End <= exclEnd {
			continue
		}
		positions = append(positions, ref.Reference)
	}
	return positions
}

func exceptionClause(sent *sentenceResult) (int, int) {
	dashes := make([]int, 0, 2)
	sawException := false
	for _, t := range sent.toks {
		switch {
		case t.kind == tokDash:
			if sawException && len(dashes) > 0 {
				return dashes[len(dashes)-1], t.end
			}
			dashes = append(dashes, t.end)
		case t.hasWordPrefix("kivétel"):
			sawException = true
		}
	}
	return -1, -1
}

// parseEffective extracts the date value of an enforcement sentence:
// an absolute civil date, or a day (or a day of a month) counted from
// publication.
func parseEffective(sent *sentenceResult) act.Effective {
	toks := sent.toks
	for i, t := range toks {
		if t.kind == tokNumID && t.hasDot {
			if date, ok := absoluteDateAt(toks, i); ok {
				return date
			}
		}
		if t.hasWordPrefix("kihirdet") {
			if eff := publicationRelativeAt(toks, i); eff != nil {
				return eff
			}
		}
	}
	return nil
}

func absoluteDateAt(toks []token, i int) (act.Effective, bool) {
	year, err := strconv.Atoi(toks[i].text)
	if err != nil || year < 1000 || year > 2999 || i+2 >= len(toks) {
		return nil, false
	}
	month, ok := monthNumbers[toks[i+1].text]
	if !ok {
		return nil, false
	}
	dayTok := toks[i+2]
	if dayTok.kind != tokNumID || (!dayTok.hasDot && dayTok.dash == "") {
		return nil, false
	}
	day, err := strconv.Atoi(dayTok.text)
	if err != nil || day < 1 || day > 31 {
		return nil, false
	}
	return act.AbsoluteDate{Year: year, Month: month, Day: day}, true
}

func publicationRelativeAt(toks []token, i int) act.Effective {
	j := i + 1
	if j >= len(toks) || toks[j].text != "követő" {
		return nil
	}
	j++

	months := 0
	if j < len(toks) {
		if n, err := ident.OrdinalToInt(toks[j].text); err == nil && j+1 < len(toks) && toks[j+1].hasWordPrefix("hónap") {
			months = n
			j += 2
		} else if toks[j].hasWordPrefix("hónap") {
			months = 1
			j++
		}
	}

	day := 0
	switch {
	case j < len(toks) && toks[j].hasWordPrefix("nap"):
		day = 1
	case j+1 < len(toks) && toks[j+1].hasWordPrefix("nap"):
		if n, err := ident.OrdinalToInt(toks[j].text); err == nil {
			day = n
		} else if toks[j].kind == tokNumID && toks[j].hasDot {
			if n, err := strconv.Atoi(toks[j].text); err == nil {
				day = n
			}
		}
	}
	if day == 0 {
		return nil
	}
	if months > 0 {
		return act.DayInMonthAfterPublication{Months: months, Day: day}
	}
	return act.DaysAfterPublication{Days: day}
}
