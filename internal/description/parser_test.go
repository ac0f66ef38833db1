package description

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWhitelistedKeys(t *testing.T) {
	p := NewParser()

	parsed := p.Parse("Rachunek odbiorcy : 02102010260000190207153234 Nazwa odbiorcy : AUTOPAY SA Tytuł : /OPT/X///// BPID:API73ZZKSK")

	assert.Equal(t, []string{"02102010260000190207153234"}, parsed.All("rachunek odbiorcy"))
	assert.Equal(t, []string{"AUTOPAY SA"}, parsed.All("nazwa odbiorcy"))
	assert.Equal(t, []string{"/OPT/X///// BPID:API73ZZKSK"}, parsed.All("tytul"))

	// "BPID:API..." has no whitespace around the colon and must not become a key.
	assert.False(t, parsed.Has("bpid"))
}

func TestParseMultilineWithSection(t *testing.T) {
	p := NewParser()

	parsed := p.Parse("Numer telefonu :\n48722069584\nLokalizacja :\nAdres : SECOND SKIN\nMiasto : POZNAŃ\nKraj : POLSKA")

	assert.Equal(t, []string{"48722069584"}, parsed.All("numer telefonu"))
	assert.Equal(t, []string{"SECOND SKIN"}, parsed.All("adres"))
	assert.Equal(t, []string{"POZNAŃ"}, parsed.All("miasto"))
	assert.Equal(t, []string{"POLSKA"}, parsed.All("kraj"))

	var sections []string
	for _, item := range parsed.Items {
		if item.Kind == ItemSection {
			sections = append(sections, item.Key)
		}
	}
	assert.Equal(t, []string{"Lokalizacja"}, sections)
}

func TestParseDiacriticInsensitiveLookup(t *testing.T) {
	p := NewParser()

	parsed := p.Parse("Tytuł : FV/16/2025 Okres płatności : 25M10")

	assert.Equal(t, "FV/16/2025", parsed.First("Tytuł"))
	assert.Equal(t, "FV/16/2025", parsed.First("tytul"))
	assert.Equal(t, "25M10", parsed.First("okres platnosci"))
	assert.Equal(t, "25M10", parsed.First("Okres Płatności"))
}

func TestParseNoKeysFallsBackToText(t *testing.T) {
	p := NewParser()

	parsed := p.Parse("  ZAKUP PRZY UŻYCIU KARTY \n W KRAJU ")

	require.Len(t, parsed.Items, 1)
	assert.Equal(t, ItemText, parsed.Items[0].Kind)
	assert.Equal(t, "ZAKUP PRZY UŻYCIU KARTY W KRAJU", parsed.Items[0].Value)
}

func TestParseEmptyInput(t *testing.T) {
	p := NewParser()

	parsed := p.Parse("")
	assert.Empty(t, parsed.Items)
	assert.Equal(t, "", parsed.First("tytul"))
}

func TestParseRepeatedKeysAppend(t *testing.T) {
	p := NewParser()

	parsed := p.Parse("Dodatkowy opis : pierwszy Dodatkowy opis : drugi")

	assert.Equal(t, []string{"pierwszy", "drugi"}, parsed.All("dodatkowy opis"))
}

func TestParseDecodesEntities(t *testing.T) {
	p := NewParser()

	parsed := p.Parse("Nazwa odbiorcy : JAN &amp; SYN Tytuł : us&#322;uga")

	assert.Equal(t, "JAN & SYN", parsed.First("nazwa odbiorcy"))
	assert.Equal(t, "usługa", parsed.First("tytul"))
}

func TestParseRejectsNumericKeys(t *testing.T) {
	p := NewParser()

	// A digit run before a colon is value debris, not a label.
	parsed := p.Parse("Tytuł : 000483849 : pozycja 7")

	assert.Equal(t, "000483849 : pozycja 7", parsed.First("tytul"))
}

func TestParseItemOrderPreserved(t *testing.T) {
	p := NewParser()

	parsed := p.Parse("wstęp Nazwa nadawcy : FIRMA Tytuł : zapłata")

	require.Len(t, parsed.Items, 3)
	assert.Equal(t, ItemText, parsed.Items[0].Kind)
	assert.Equal(t, "wstęp", parsed.Items[0].Value)
	assert.Equal(t, ItemKV, parsed.Items[1].Kind)
	assert.Equal(t, "Nazwa nadawcy", parsed.Items[1].Key)
	assert.Equal(t, ItemKV, parsed.Items[2].Kind)
	assert.Equal(t, "zapłata", parsed.Items[2].Value)
}

func TestParseRawPreserved(t *testing.T) {
	p := NewParser()

	raw := "Numer telefonu :\r\n48722069584"
	parsed := p.Parse(raw)

	assert.Equal(t, "Numer telefonu :\n48722069584", parsed.Raw)
}
