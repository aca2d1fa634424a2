// Package ident implements the identifier algebra used by Hungarian acts:
// decomposition of identifiers like "2/A" or "3:12" into comparable runs,
// ordering that follows the legal insertion convention ("2/A" sorts between
// "2" and "3"), and the per-level successor predicates that decide whether
// one identifier immediately follows another under a numbering convention.
package ident

import (
	"strings"
	"unicode"
)

// runKind classifies one run of an identifier decomposition.
type runKind int

const (
	runNumeric runKind = iota
	runAlpha
	runSeparator
)

type run struct {
	kind  runKind
	text  string
	value int // only for runNumeric
}

// decompose splits an identifier into alternating numeric, alphabetic and
// separator runs. "2/A" becomes [numeric 2, separator "/", alpha "A"],
// "2:1/A" becomes [numeric 2, separator ":", numeric 1, separator "/", alpha "A"].
func decompose(id string) []run {
	var runs []run
	var current strings.Builder
	currentKind := runKind(-1)

	flush := func() {
		if current.Len() == 0 {
			return
		}
		r := run{kind: currentKind, text: current.String()}
		if currentKind == runNumeric {
			for _, c := range r.text {
				r.value = r.value*10 + int(c-'0')
			}
		}
		runs = append(runs, r)
		current.Reset()
	}

	for _, c := range id {
		var kind runKind
		switch {
		case c >= '0' && c <= '9':
			kind = runNumeric
		case unicode.IsLetter(c):
			kind = runAlpha
		default:
			kind = runSeparator
		}
		if kind != currentKind {
			flush()
			currentKind = kind
		}
		current.WriteRune(c)
	}
	flush()
	return runs
}

// Compare orders two identifiers by their decomposition: runs are compared
// pairwise, numeric runs by value, alphabetic and separator runs
// case-insensitively. A strict prefix sorts first, which is what makes
// "2" < "2/A" < "3" hold.
func Compare(a, b string) int {
	ra, rb := decompose(a), decompose(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		x, y := ra[i], rb[i]
		if x.kind != y.kind {
			// A numeric run sorts before an alphabetic one at the same
			// position; separators compare as text.
			if x.kind == runNumeric {
				return -1
			}
			if y.kind == runNumeric {
				return 1
			}
		}
		if x.kind == runNumeric && y.kind == runNumeric {
			if x.value != y.value {
				if x.value < y.value {
					return -1
				}
				return 1
			}
			continue
		}
		xs, ys := strings.ToLower(x.text), strings.ToLower(y.text)
		if xs != ys {
			if xs < ys {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ra) < len(rb):
		return -1
	case len(ra) > len(rb):
		return 1
	}
	return 0
}

// Less reports whether identifier a sorts strictly before identifier b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}
