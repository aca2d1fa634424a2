// Package grammar recognizes the reference sublanguage of Hungarian
// statutes: compound references like "17/A. § (1) és (3) bekezdése", act
// citations and their abbreviation definitions, and the amendment and
// enforcement sentences built from them. Recognition is conservative; prose
// the scanner does not understand yields no output rather than a guess.
package grammar

import (
	"sort"

	"go.uber.org/zap"

	"github.com/coolbeans/lexhun/pkg/act"
)

// Analysis is everything recognized in one piece of prose. Reference spans
// are byte offsets into the analyzed text.
type Analysis struct {
	// References are the structural references, resolved within their
	// sentence and ordered by position.
	References []act.OutgoingReference
	// ActReferences are the act citations and abbreviated act mentions.
	// Their Reference carries only the Act component; an unresolved
	// abbreviation is carried verbatim.
	ActReferences []act.OutgoingReference
	// Abbreviations are the "(a továbbiakban: ...)" definitions.
	Abbreviations []act.ActIDAbbreviation
	// Events are the recognized enforcement dates and amendments.
	Events []act.Event
}

// Analyzer runs the reference scanner and the sentence-level event
// recognizers. It is stateless and safe for concurrent use.
type Analyzer struct {
	logger *zap.Logger
}

func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger}
}

func (a *Analyzer) Analyze(text string) Analysis {
	sentences := scanText(text)
	var result Analysis
	for i := range sentences {
		sent := &sentences[i]
		// Event recognition first: a block amendment sentence collapses
		// its reference list into the single amended position.
		result.Events = append(result.Events, recognizeEvents(text, sent, a.logger)...)
		result.References = append(result.References, sent.refs...)
		result.ActReferences = append(result.ActReferences, sent.actRefs...)
		result.Abbreviations = append(result.Abbreviations, sent.abbrevs...)
	}
	sort.SliceStable(result.References, func(i, j int) bool {
		return result.References[i].Start < result.References[j].Start
	})
	return result
}
