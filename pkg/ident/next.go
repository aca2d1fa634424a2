package ident

import (
	"regexp"
	"strconv"
	"strings"
)

var articleIDPattern = regexp.MustCompile(`^(?:([0-9]+):)?([0-9]+)(?:/([A-Z]{1,2}))?$`)

type articleID struct {
	book   int // 0 when no book prefix
	number int
	suffix string // insertion letter, "" when plain
}

func parseArticleID(id string) (articleID, bool) {
	m := articleIDPattern.FindStringSubmatch(id)
	if m == nil {
		return articleID{}, false
	}
	var parsed articleID
	if m[1] != "" {
		parsed.book, _ = strconv.Atoi(m[1])
	}
	parsed.number, _ = strconv.Atoi(m[2])
	parsed.suffix = m[3]
	return parsed, true
}

// IsNextArticleID reports whether article identifier b immediately follows a.
// Articles may step to the next number ("2" to "3"), gain an insertion
// suffix ("2" to "2/A", "2/C" to "2/D"), or, in book-prefixed acts, restart
// at 1 in the next book ("1:3" to "2:1"). A prefixed and an unprefixed
// identifier never follow each other.
func IsNextArticleID(a, b string) bool {
	pa, okA := parseArticleID(a)
	pb, okB := parseArticleID(b)
	if !okA || !okB {
		return false
	}
	if (pa.book == 0) != (pb.book == 0) {
		return false
	}
	if pa.book != 0 && pb.book == pa.book+1 {
		return pb.number == 1 && pb.suffix == ""
	}
	if pa.book != pb.book {
		return false
	}
	if pb.number == pa.number+1 {
		return pb.suffix == ""
	}
	if pb.number != pa.number {
		return false
	}
	if pa.suffix == "" {
		return pb.suffix == "A"
	}
	return IsNextLetter(pa.suffix, pb.suffix)
}

var numericIDPattern = regexp.MustCompile(`^([0-9]+)(?:/?([a-z]{1,2}))?$`)

// IsNextNumericID reports whether numeric identifier b immediately follows
// a under the insertion convention used by paragraphs and numeric points:
// "2" is followed by "3" or by the inserted "2a", "2b" by "2c" or "3".
func IsNextNumericID(a, b string) bool {
	ma := numericIDPattern.FindStringSubmatch(strings.ToLower(a))
	mb := numericIDPattern.FindStringSubmatch(strings.ToLower(b))
	if ma == nil || mb == nil {
		return false
	}
	na, _ := strconv.Atoi(ma[1])
	nb, _ := strconv.Atoi(mb[1])
	if nb == na+1 {
		return mb[2] == ""
	}
	if nb != na {
		return false
	}
	if ma[2] == "" {
		return mb[2] == "a"
	}
	return IsNextLetter(ma[2], mb[2])
}

// IsNextAlphabeticID reports whether letter identifier b immediately follows
// a. For subpoints carrying a parent prefix ("ac" under point "a"), the
// prefix must match and succession is decided on the final letter.
func IsNextAlphabeticID(a, b string) bool {
	if IsNextLetter(a, b) {
		return true
	}
	// Prefixed subpoint form: shared single-letter prefix, successor final letter.
	if len(a) == 2 && len(b) == 2 && a[0] == b[0] && !isLetterID(a) {
		return IsNextLetter(a[1:], b[1:])
	}
	return false
}
