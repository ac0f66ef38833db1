// Package description parses the free-form narration text of a bank
// statement row into structured key/value fields.
package description

import (
	"github.com/DevTechCode/rachunek-bankowy/internal/common"
)

// ItemKind discriminates the elements of a parsed description.
type ItemKind string

// Description item kinds, in order of how they appear in real narrations.
const (
	ItemText    ItemKind = "text"
	ItemKV      ItemKind = "kv"
	ItemSection ItemKind = "section"
)

// Item is one element of a parsed description. For ItemKV both Key and
// Value are set; for ItemSection only Key (the section title); for ItemText
// only Value.
type Item struct {
	Kind  ItemKind
	Key   string
	Value string
}

// Parsed is the result of parsing one narration string.
//
// Raw preserves the original text (CRLF-normalized and trimmed), Items
// mirrors the original ordering, and the field map gives normalized-key
// lookup with multi-value support. Parsed is immutable after construction.
type Parsed struct {
	Raw    string
	Items  []Item
	fields map[string][]string
}

// First returns the first value recorded for a key, or "" when the key is
// absent. The key may be given in any casing or with diacritics; "Tytuł"
// and "tytul" resolve identically.
func (p *Parsed) First(key string) string {
	vals := p.fields[common.FoldKey(key)]
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// All returns every value recorded for a key, in order of appearance.
func (p *Parsed) All(key string) []string {
	return p.fields[common.FoldKey(key)]
}

// Has reports whether at least one value was recorded for a key.
func (p *Parsed) Has(key string) bool {
	return len(p.fields[common.FoldKey(key)]) > 0
}

// Fields returns a copy of the normalized-key field map, suitable for
// serialization.
func (p *Parsed) Fields() map[string][]string {
	out := make(map[string][]string, len(p.fields))
	for k, v := range p.fields {
		out[k] = append([]string(nil), v...)
	}
	return out
}
