package ident

import "strings"

// Hungarian point numbering follows the Hungarian alphabet, where some
// consonant pairs are letters in their own right. Only the digraphs that can
// start a new letter matter here; a point list may step either onto the
// digraph ("n" to "ny") or over it ("s" straight to "t").
var digraphs = map[byte]string{
	'c': "cs",
	'd': "dz",
	'g': "gy",
	'l': "ly",
	'n': "ny",
	's': "sz",
	't': "ty",
	'z': "zs",
}

// isLetterID reports whether id is a single Hungarian letter identifier:
// one ASCII letter or a digraph such as "ny".
func isLetterID(id string) bool {
	id = strings.ToLower(id)
	switch len(id) {
	case 1:
		return id[0] >= 'a' && id[0] <= 'z'
	case 2:
		return digraphs[id[0]] == id
	}
	return false
}

// IsNextLetter reports whether letter b immediately follows letter a in the
// Hungarian alphabet. Both the digraph step ("n" to "ny", "ny" to "o") and
// the digraph skip ("s" to "t") count as immediate succession, because both
// occur in source legislation. Comparison is case-insensitive.
func IsNextLetter(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if !isLetterID(a) || !isLetterID(b) {
		return false
	}
	base := a[0]
	if len(a) == 1 {
		if d, ok := digraphs[base]; ok && b == d {
			return true
		}
	}
	return b == string(base+1)
}
