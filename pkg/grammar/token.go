package grammar

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokKind int

const (
	tokWord tokKind = iota
	// tokNumID is a numeric identifier or number: "28", "2013", "16/A",
	// "3:319", "31/a". A trailing dot ("28.") sets hasDot; a day suffix
	// ("1-jén") is kept in dash.
	tokNumID
	tokParenNum   // "(1)", "(5a)"
	tokAlphaParen // "a)", "ny)", "aa)", "P)"
	tokSection    // "§" with an optional "-a", "-sal" style suffix
	tokQuoted     // „...” with the inner text, never scanned for references
	tokDash       // en dash, minus or free-standing hyphen: range marker
	tokComma
	tokColon
	tokPeriod // free-standing sentence dot
	tokOpenParen
	tokCloseParen
	tokOther
)

type token struct {
	kind   tokKind
	text   string // normalized: identifier without dot, word, quoted inner text
	hasDot bool
	dash   string // "-jén" style suffix on a number
	start  int    // byte offsets into the analyzed text
	end    int
}

func isHunUpper(r rune) bool {
	return unicode.IsUpper(r) && unicode.IsLetter(r)
}

// tokenize splits prose into the tokens of the reference sublanguage.
// Quoted spans are folded into single tokens at the top level so nothing
// inside quotation marks is ever parsed as a reference or keyword.
func tokenize(s string) []token {
	var tokens []token
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += size

		case r == '„' || r == '“':
			tokens = append(tokens, scanQuoted(s, i))
			i = tokens[len(tokens)-1].end

		case r == '(':
			if t, ok := scanParenNum(s, i); ok {
				tokens = append(tokens, t)
				i = t.end
			} else {
				tokens = append(tokens, token{kind: tokOpenParen, start: i, end: i + size})
				i += size
			}

		case r == ')':
			tokens = append(tokens, token{kind: tokCloseParen, start: i, end: i + size})
			i += size

		case r == ',' || r == ';':
			tokens = append(tokens, token{kind: tokComma, start: i, end: i + size})
			i += size

		case r == ':':
			tokens = append(tokens, token{kind: tokColon, start: i, end: i + size})
			i += size

		case r == '.':
			tokens = append(tokens, token{kind: tokPeriod, start: i, end: i + size})
			i += size

		case r == '–' || r == '−' || r == '-':
			tokens = append(tokens, token{kind: tokDash, start: i, end: i + size})
			i += size

		case r == '§':
			tokens = append(tokens, scanSection(s, i, size))
			i = tokens[len(tokens)-1].end

		case r >= '0' && r <= '9':
			tokens = append(tokens, scanNumber(s, i))
			i = tokens[len(tokens)-1].end

		case unicode.IsLetter(r):
			tokens = append(tokens, scanWordOrAlpha(s, i))
			i = tokens[len(tokens)-1].end

		default:
			tokens = append(tokens, token{kind: tokOther, text: string(r), start: i, end: i + size})
			i += size
		}
	}
	return tokens
}

func scanQuoted(s string, start int) token {
	depth := 0
	i := start
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch r {
		case '„', '“':
			depth++
		case '”':
			depth--
		}
		i += size
		if depth == 0 {
			break
		}
	}
	openLen := len("„")
	inner := ""
	if i-len("”") > start+openLen {
		inner = s[start+openLen : i-len("”")]
	}
	return token{kind: tokQuoted, text: inner, start: start, end: i}
}

func scanParenNum(s string, start int) (token, bool) {
	i := start + 1
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return token{}, false
	}
	k := j
	for k < len(s) && k < j+2 && s[k] >= 'a' && s[k] <= 'z' {
		k++
	}
	if k >= len(s) || s[k] != ')' {
		return token{}, false
	}
	return token{kind: tokParenNum, text: s[i:k], start: start, end: k + 1}, true
}

func scanSection(s string, start, size int) token {
	i := start + size
	end := i
	if i < len(s) && s[i] == '-' {
		j := i + 1
		for j < len(s) {
			r, rs := utf8.DecodeRuneInString(s[j:])
			if !unicode.IsLetter(r) || !unicode.IsLower(r) {
				break
			}
			j += rs
		}
		if j > i+1 {
			end = j
		}
	}
	return token{kind: tokSection, text: s[start:end], start: start, end: end}
}

func scanNumber(s string, start int) token {
	i := start
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	// Book-prefixed article form "3:319".
	if i < len(s) && s[i] == ':' {
		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > i+1 {
			i = j
		}
	}
	// Insertion suffix: "16/A", "31/a".
	if i < len(s) && s[i] == '/' {
		j := i + 1
		for j < len(s) && j < i+3 && isASCIILetter(s[j]) {
			j++
		}
		if j > i+1 && (j >= len(s) || !isASCIILetter(s[j])) && (j >= len(s) || s[j] != '/') {
			i = j
		}
	}
	// Plain insertion form "3a", "5b".
	if i < len(s) && s[i] >= 'a' && s[i] <= 'z' && (i+1 >= len(s) || !isASCIILetter(s[i+1])) {
		i++
	}
	t := token{kind: tokNumID, text: s[start:i], start: start, end: i}
	if i < len(s) && s[i] == '.' {
		t.hasDot = true
		t.end = i + 1
	} else if i < len(s) && s[i] == '-' {
		// Day forms: "1-jén", "2-án", "15-étől".
		j := i + 1
		for j < len(s) {
			r, rs := utf8.DecodeRuneInString(s[j:])
			if !unicode.IsLetter(r) {
				break
			}
			j += rs
		}
		if j > i+1 {
			t.dash = s[i:j]
			t.end = j
		}
	}
	return t
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func scanWordOrAlpha(s string, start int) token {
	// Point identifiers: one or two lowercase letters (digraphs included)
	// or a single uppercase letter, directly closed by ")".
	for n := 1; n <= 2; n++ {
		if start+n < len(s) && s[start+n] == ')' {
			id := s[start : start+n]
			if isLowerASCII(id) || (n == 1 && id[0] >= 'A' && id[0] <= 'Z') {
				return token{kind: tokAlphaParen, text: id, start: start, end: start + n + 1}
			}
		}
	}

	i := start
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			i += size
			continue
		}
		// Hyphens and dots joining letters stay inside the word
		// ("Rendőr-főkapitányság", "Eurt.tv.").
		if (r == '-' || r == '.') && i+size < len(s) {
			next, _ := utf8.DecodeRuneInString(s[i+size:])
			if unicode.IsLetter(next) {
				i += size
				continue
			}
		}
		break
	}
	t := token{kind: tokWord, text: s[start:i], start: start, end: i}
	if i < len(s) && s[i] == '.' {
		t.hasDot = true
		t.end = i + 1
	}
	return t
}

func isLowerASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return s != ""
}

// hasWordPrefix reports whether the token is a word starting with the given
// stem, e.g. "bekezdésében" carries the stem "bekezdés".
func (t token) hasWordPrefix(stem string) bool {
	return t.kind == tokWord && strings.HasPrefix(t.text, stem)
}

func (t token) isArticleWord() bool {
	return t.kind == tokWord && (t.text == "a" || t.text == "az" || t.text == "A" || t.text == "Az")
}
