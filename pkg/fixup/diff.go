package fixup

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/coolbeans/lexhun/pkg/lines"
)

// RenderDiff lists the line changes between the extracted and the fixed-up
// text, one prefixed line per row. Meant for fixup authoring, where seeing
// the exact effect of an edit matters more than a compact diff.
func RenderDiff(before, after []lines.Line) string {
	dmp := diffpatch.New()
	fromRunes, toRunes, lineArray := dmp.DiffLinesToChars(joinedContent(before), joinedContent(after))
	diffs := dmp.DiffMain(fromRunes, toRunes, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var b strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+ "
		case diffpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func joinedContent(ls []lines.Line) string {
	var b strings.Builder
	for _, l := range ls {
		b.WriteString(l.Content())
		b.WriteByte('\n')
	}
	return b.String()
}
