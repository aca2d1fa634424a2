package ident

import (
	"fmt"
	"strings"
)

var ordinalSpecials = map[int]string{
	1:   "első",
	2:   "második",
	10:  "tizedik",
	20:  "huszadik",
	30:  "harmincadik",
	40:  "negyvenedik",
	50:  "ötvenedik",
	60:  "hatvanadik",
	70:  "hetvenedik",
	80:  "nyolcvanadik",
	90:  "kilencvenedik",
	100: "századik",
}

var ordinalOnes = []string{
	"egyedik", "kettedik", "harmadik", "negyedik", "ötödik",
	"hatodik", "hetedik", "nyolcadik", "kilencedik",
}

var ordinalTens = []string{
	"", "tizen", "huszon", "harminc", "negyven",
	"ötven", "hatvan", "hetven", "nyolcvan", "kilencven",
}

var (
	ordinalToInt map[string]int
	intToOrdinal map[int]string
)

func init() {
	ordinalToInt = make(map[string]int)
	intToOrdinal = make(map[int]string)
	for tens, tensText := range ordinalTens {
		for ones, onesText := range ordinalOnes {
			value := tens*10 + ones + 1
			if _, special := ordinalSpecials[value]; special {
				continue
			}
			text := tensText + onesText
			ordinalToInt[text] = value
			intToOrdinal[value] = text
		}
	}
	for value, text := range ordinalSpecials {
		ordinalToInt[text] = value
		intToOrdinal[value] = text
	}
}

// OrdinalToInt converts a written Hungarian ordinal ("nyolcadik") to its
// value. Matching is case-insensitive.
func OrdinalToInt(s string) (int, error) {
	value, ok := ordinalToInt[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("%q is not a written ordinal", s)
	}
	return value, nil
}

// IntToOrdinal converts a value to its written Hungarian ordinal form.
func IntToOrdinal(i int) (string, error) {
	text, ok := intToOrdinal[i]
	if !ok {
		return "", fmt.Errorf("%d is out of range for written ordinals", i)
	}
	return text, nil
}

var romanNumerals = []struct {
	text  string
	value int
}{
	{"M", 1000}, {"CM", 900}, {"D", 500}, {"CD", 400},
	{"C", 100}, {"XC", 90}, {"L", 50}, {"XL", 40},
	{"X", 10}, {"IX", 9}, {"V", 5}, {"IV", 4},
	{"I", 1},
}

// IntToRoman renders a positive value as an uppercase roman numeral.
func IntToRoman(i int) string {
	var result strings.Builder
	for i > 0 {
		for _, numeral := range romanNumerals {
			if numeral.value <= i {
				i -= numeral.value
				result.WriteString(numeral.text)
				break
			}
		}
	}
	return result.String()
}

const hungarianUppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZÉÁŐÚŰÖÜÓÍ"

// IsUppercaseHun reports whether every rune of s is an uppercase letter of
// the Hungarian alphabet.
func IsUppercaseHun(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune(hungarianUppercase, c) {
			return false
		}
	}
	return true
}
