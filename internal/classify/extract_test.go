package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevTechCode/rachunek-bankowy/internal/description"
)

func TestExtractLocation(t *testing.T) {
	desc := description.NewParser().Parse(
		"Lokalizacja : Adres : UL. KWIATOWA 15 Miasto : POZNAŃ Kraj : POLSKA")

	loc := ExtractLocation(desc)
	require.NotNil(t, loc)
	assert.Equal(t, "UL. KWIATOWA 15", loc.Address)
	assert.Equal(t, "POZNAŃ", loc.City)
	assert.Equal(t, "POLSKA", loc.Country)
}

func TestExtractLocationAbsent(t *testing.T) {
	desc := description.NewParser().Parse("Tytuł : zakupy")
	assert.Nil(t, ExtractLocation(desc))
}

func TestExtractCard(t *testing.T) {
	desc := description.NewParser().Parse(
		"Numer karty : 425125******7816 " +
			"Data wykonania operacji : 2025-03-14 " +
			"Oryginalna kwota operacji : 12,99 EUR")

	card := ExtractCard(desc, "PLN")
	require.NotNil(t, card)
	assert.Equal(t, "425125******7816", card.CardNumberMasked)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), card.OperationDate)
	require.NotNil(t, card.OriginalAmount)
	assert.Equal(t, int64(1299), card.OriginalAmount.Minor())
	assert.Equal(t, "EUR", card.OriginalAmount.Currency())
}

func TestExtractCardFallbackCurrency(t *testing.T) {
	desc := description.NewParser().Parse("Oryginalna kwota operacji : 49,00")

	card := ExtractCard(desc, "PLN")
	require.NotNil(t, card)
	require.NotNil(t, card.OriginalAmount)
	assert.Equal(t, "PLN", card.OriginalAmount.Currency())
}

func TestExtractCardAbsent(t *testing.T) {
	desc := description.NewParser().Parse("Tytuł : przelew")
	assert.Nil(t, ExtractCard(desc, "PLN"))
}

func TestExtractReference(t *testing.T) {
	desc := description.NewParser().Parse(
		"Numer referencyjny : 2025031412345678 " +
			"Referencje własne zleceniodawcy : FV/16/2025 " +
			"Numer telefonu : +48 500 600 700")

	ref := ExtractReference(desc)
	require.NotNil(t, ref)
	assert.Equal(t, "2025031412345678", ref.ReferenceNumber)
	assert.Equal(t, "FV/16/2025", ref.OwnReference)
	assert.Equal(t, "+48 500 600 700", ref.PhoneNumber)
	assert.Empty(t, ref.OperationID)
}

func TestExtractReferenceOperationID(t *testing.T) {
	desc := description.NewParser().Parse("Operacja : 937221527738103822")

	ref := ExtractReference(desc)
	require.NotNil(t, ref)
	assert.Equal(t, "937221527738103822", ref.OperationID)
}

func TestExtractReferenceAbsent(t *testing.T) {
	desc := description.NewParser().Parse("Tytuł : przelew")
	assert.Nil(t, ExtractReference(desc))
}
