package description

import (
	"html"
	"strings"
	"unicode"

	"github.com/DevTechCode/rachunek-bankowy/internal/common"
)

// knownKeys is the whitelist of field labels seen in PKO statement
// narrations, in normalized form. The whitelist is what keeps the scanner
// from mis-splitting values that merely look like keys: in
// "Nazwa odbiorcy : AUTOPAY SA Tytuł : ..." a naive scan would accept
// "AUTOPAY SA Tytuł" as a key.
var knownKeys = []string{
	"rachunek odbiorcy",
	"rachunek nadawcy",
	"nazwa odbiorcy",
	"nazwa nadawcy",
	"adres odbiorcy",
	"adres nadawcy",
	"tytul",
	"numer faktury vat lub okres platnosci zbiorczej",
	"kwota vat",
	"identyfikator odbiorcy",
	"nazwa i nr identyfikatora",
	"symbol formularza",
	"okres platnosci",
	"dodatkowy opis",
	"referencje wlasne zleceniodawcy",
	"numer karty",
	"numer referencyjny",
	"numer telefonu",
	"operacja",
	"lokalizacja",
	"adres",
	"miasto",
	"kraj",
	"data wykonania operacji",
	"oryginalna kwota operacji",
}

// sectionKeys are labels that act as group headers rather than fields.
// A section key with an empty value produces a section item; the sibling
// keys that follow it (adres/miasto/kraj) stay flat.
var sectionKeys = []string{"lokalizacja"}

// maxKeyRunes bounds how far the scanner looks for a colon from a candidate
// key start.
const maxKeyRunes = 81

// Parser extracts ordered key/value structure from narration text.
// The known-key whitelist is fixed at construction and never mutated.
type Parser struct {
	known    map[string]struct{}
	sections map[string]struct{}
}

// NewParser creates a parser with the standard PKO label whitelist.
func NewParser() *Parser {
	p := &Parser{
		known:    make(map[string]struct{}, len(knownKeys)),
		sections: make(map[string]struct{}, len(sectionKeys)),
	}
	for _, k := range knownKeys {
		p.known[k] = struct{}{}
	}
	for _, k := range sectionKeys {
		p.sections[k] = struct{}{}
	}
	return p
}

// marker is one accepted "key :" occurrence in the scanned text.
type marker struct {
	key        string
	keyStart   int
	valueStart int
}

// Parse splits one narration string into ordered items plus a normalized
// multi-value field map. It never fails: when no key can be found the whole
// text becomes a single free-text item.
func (p *Parser) Parse(raw string) *Parsed {
	trimmed := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	decoded := html.UnescapeString(trimmed)

	parsed := &Parsed{Raw: trimmed, fields: make(map[string][]string)}

	text := []rune(decoded)
	markers := p.scan(text)
	if len(markers) == 0 {
		if t := common.CollapseWhitespace(decoded); t != "" {
			parsed.Items = append(parsed.Items, Item{Kind: ItemText, Value: t})
		}
		return parsed
	}

	cursor := 0
	for i, cur := range markers {
		if pre := common.CollapseWhitespace(string(text[cursor:cur.keyStart])); pre != "" {
			parsed.Items = append(parsed.Items, Item{Kind: ItemText, Value: pre})
		}

		valueEnd := len(text)
		if i+1 < len(markers) {
			valueEnd = markers[i+1].keyStart
		}
		value := common.CollapseWhitespace(html.UnescapeString(string(text[cur.valueStart:valueEnd])))

		if p.isSection(cur.key) && value == "" {
			parsed.Items = append(parsed.Items, Item{Kind: ItemSection, Key: cur.key})
		} else {
			parsed.Items = append(parsed.Items, Item{Kind: ItemKV, Key: cur.key, Value: value})
			fold := common.FoldKey(cur.key)
			parsed.fields[fold] = append(parsed.fields[fold], value)
		}

		cursor = valueEnd
	}

	if tail := common.CollapseWhitespace(string(text[cursor:])); tail != "" {
		parsed.Items = append(parsed.Items, Item{Kind: ItemText, Value: tail})
	}

	return parsed
}

// scan finds accepted key markers left to right. It is a cursor-based state
// machine: from each candidate start it walks the run of key runes looking
// for a qualifying colon, and on rejection backtracks a single rune so that
// a shorter, real label inside the same span can still be found.
func (p *Parser) scan(text []rune) []marker {
	var markers []marker

	pos := 0
	for pos < len(text) {
		if !unicode.IsLetter(text[pos]) {
			pos++
			continue
		}

		m, ok := p.matchAt(text, pos)
		if !ok {
			pos++
			continue
		}
		if !p.isProbablyKey(m.key) {
			// Backtrack by one rune: "AUTOPAY SA Tytuł" is rejected,
			// but "Tytuł" further in still has to be found.
			pos++
			continue
		}

		markers = append(markers, m)
		pos = m.valueStart
	}

	return markers
}

// matchAt tries to read a "key :" occurrence starting exactly at start.
// The colon must be adjacent to whitespace on at least one side, which
// excludes compact tokens like "BPID:API73ZZKSK", and something must follow
// it; a bare trailing colon at end of text is not a marker.
func (p *Parser) matchAt(text []rune, start int) (marker, bool) {
	end := start + maxKeyRunes
	if end > len(text) {
		end = len(text)
	}

	i := start
	for i < end && isKeyRune(text[i]) {
		i++
	}

	// The key run may be followed by arbitrary whitespace (including a
	// newline) before the colon.
	colon := i
	for colon < len(text) && unicode.IsSpace(text[colon]) {
		colon++
	}
	if colon >= len(text) || text[colon] != ':' {
		return marker{}, false
	}

	wsLeft := colon > start && unicode.IsSpace(text[colon-1])
	wsRight := colon+1 < len(text) && unicode.IsSpace(text[colon+1])
	if !wsLeft && !wsRight {
		return marker{}, false
	}
	if colon+1 >= len(text) {
		return marker{}, false
	}

	key := strings.TrimSpace(string(text[start:i]))
	if key == "" {
		return marker{}, false
	}

	return marker{key: key, keyStart: start, valueStart: colon + 1}, true
}

// isProbablyKey decides whether a candidate span is a real field label.
// Whitelisted labels are always accepted. Anything else is accepted only as
// a short phrase (at most two words) that does not contain a whitelisted
// label as a token sequence; a candidate like "SA Tytuł" is a value tail
// glued to a real label and must be rejected.
func (p *Parser) isProbablyKey(key string) bool {
	k := common.CollapseWhitespace(key)
	n := len([]rune(k))
	if n < 2 || n > 80 {
		return false
	}
	if isAllDigits(k) && n >= 3 {
		return false
	}

	fold := common.FoldKey(k)
	if _, ok := p.known[fold]; ok {
		return true
	}

	words := strings.Fields(k)
	if len(words) > 2 {
		return false
	}

	foldTokens := strings.Fields(fold)
	for known := range p.known {
		if known == fold {
			continue
		}
		if containsTokenSequence(foldTokens, strings.Fields(known)) {
			return false
		}
	}
	return true
}

func (p *Parser) isSection(key string) bool {
	_, ok := p.sections[common.FoldKey(key)]
	return ok
}

// isKeyRune reports whether r may appear inside a key label: letters,
// digits, single spaces and a few separators. Newlines are excluded, so
// keys never span lines.
func isKeyRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case ' ', '/', '(', ')', '.', ',', '-':
		return true
	}
	return false
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// containsTokenSequence reports whether needle occurs inside haystack as a
// contiguous run of whole tokens.
func containsTokenSequence(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
