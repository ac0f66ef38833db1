package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// polishStroke maps the Polish stroked L, which does not decompose into a
// base letter plus a combining mark under NFKD, so diacritic stripping alone
// misses it.
var polishStroke = strings.NewReplacer("ł", "l", "Ł", "L")

var diacriticStripper = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// CollapseWhitespace reduces every run of whitespace (spaces, tabs,
// newlines, NBSP) to a single space and trims the result.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripDiacritics removes combining diacritical marks ("ą"→"a", "ś"→"s")
// and resolves the ł/Ł special case.
func StripDiacritics(s string) string {
	s = polishStroke.Replace(s)
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

// FoldKey normalizes a description field label for lookups: collapsed
// whitespace, no diacritics, lower case. "Tytuł" and "tytul" fold to the
// same key.
func FoldKey(s string) string {
	return strings.ToLower(StripDiacritics(CollapseWhitespace(s)))
}
