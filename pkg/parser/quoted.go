package parser

import (
	"strings"

	"github.com/coolbeans/lexhun/pkg/act"
	"github.com/coolbeans/lexhun/pkg/lines"
)

// quoteState is the state of the quoted-block recognizer. The machine is
// explicit and exhaustive: silent fallthrough between states truncates or
// merges quoted blocks.
type quoteState int

const (
	quoteStart quoteState = iota
	quoteIntro
	quoteBlock
	quoteWrapUpMaybe
	quoteWrapUp
)

// parseQuotedBlocks recognizes the intro / quoted block(s) / wrap-up shape
// of amendment paragraphs. Several consecutive quoted blocks may share one
// wrap-up; a sentence can insert multiple disjoint clauses at once. Blank
// lines inside a quoted block are kept verbatim. errNoChildren means the
// lines are not shaped like quoted blocks at all; an opening mark with no
// close before the end of input is also reported that way and surfaces as a
// quoting error at the document level.
func parseQuotedBlocks(ls []lines.Line) (string, []act.Block, string, error) {
	quoted, _ := lines.WithQuoteLevels(ls, false)

	state := quoteStart
	var (
		intro       string
		blocks      []act.Block
		quotedLines []lines.Line
		wrapUp      string
	)
	for _, ql := range quoted {
		line := ql.Line
		content := line.Content()
		switch state {
		case quoteStart:
			if !line.IsEmpty() {
				intro = content
				state = quoteIntro
			}

		case quoteIntro:
			if line.IsEmpty() {
				break
			}
			if strings.HasPrefix(content, "„") && ql.Level == 0 {
				if strings.HasSuffix(content, "”") {
					blocks = append(blocks, &act.QuotedBlock{Lines: []lines.Line{line.Slice(1).SliceEnd(1)}})
					state = quoteWrapUpMaybe
				} else {
					quotedLines = []lines.Line{line.Slice(1)}
					state = quoteBlock
				}
			} else {
				intro = intro + " " + content
			}

		case quoteBlock:
			levelAtEnd := ql.Level + lines.QuoteLevelDiff(content)
			if !line.IsEmpty() && strings.HasSuffix(content, "”") && levelAtEnd == 0 {
				quotedLines = append(quotedLines, line.SliceEnd(1))
				blocks = append(blocks, &act.QuotedBlock{Lines: quotedLines})
				quotedLines = nil
				state = quoteWrapUpMaybe
			} else {
				// Empty lines too: vertical whitespace inside the quoted
				// fragment is structure for the re-parser.
				quotedLines = append(quotedLines, line)
			}

		case quoteWrapUpMaybe:
			if line.IsEmpty() {
				break
			}
			if strings.HasPrefix(content, "„") && ql.Level == 0 {
				if strings.HasSuffix(content, "”") {
					blocks = append(blocks, &act.QuotedBlock{Lines: []lines.Line{line.Slice(1).SliceEnd(1)}})
				} else {
					quotedLines = []lines.Line{line.Slice(1)}
					state = quoteBlock
				}
			} else {
				wrapUp = content
				state = quoteWrapUp
			}

		case quoteWrapUp:
			if !line.IsEmpty() {
				wrapUp = wrapUp + " " + content
			}
		}
	}

	if state != quoteWrapUpMaybe && state != quoteWrapUp {
		return "", nil, "", errNoChildren
	}
	return intro, blocks, wrapUp, nil
}
