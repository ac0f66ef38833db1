package classify

import (
	"time"

	"github.com/DevTechCode/rachunek-bankowy/internal/description"
	"github.com/DevTechCode/rachunek-bankowy/internal/model"
	"github.com/DevTechCode/rachunek-bankowy/internal/money"
)

// ExtractLocation pulls the merchant location fields. Nil when none of
// address, city or country were present.
func ExtractLocation(desc *description.Parsed) *model.LocationInfo {
	address := desc.First("adres")
	city := desc.First("miasto")
	country := desc.First("kraj")
	if address == "" && city == "" && country == "" {
		return nil
	}
	return &model.LocationInfo{Address: address, City: city, Country: country}
}

// ExtractCard pulls card operation fields: the masked number, the
// execution date (YYYY-MM-DD) and the original amount with an optional
// trailing currency code. Nil when none were present.
func ExtractCard(desc *description.Parsed, statementCurrency string) *model.CardInfo {
	cardNumber := desc.First("numer karty")

	var opDate time.Time
	if raw := desc.First("data wykonania operacji"); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			opDate = d
		}
	}

	var original *money.Money
	if raw := desc.First("oryginalna kwota operacji"); raw != "" {
		if m, ok := ParseAmountWithCurrency(raw, statementCurrency); ok {
			original = &m
		}
	}

	if cardNumber == "" && opDate.IsZero() && original == nil {
		return nil
	}
	return &model.CardInfo{
		CardNumberMasked: cardNumber,
		OperationDate:    opDate,
		OriginalAmount:   original,
	}
}

// ExtractReference pulls reference identifiers. Card rows sometimes carry
// an "Operacja : <id>" field, which maps to OperationID. Nil when nothing
// was present.
func ExtractReference(desc *description.Parsed) *model.ReferenceInfo {
	refNumber := desc.First("numer referencyjny")
	ownRef := desc.First("referencje wlasne zleceniodawcy")
	phone := desc.First("numer telefonu")
	opID := desc.First("operacja")

	if refNumber == "" && ownRef == "" && phone == "" && opID == "" {
		return nil
	}
	return &model.ReferenceInfo{
		ReferenceNumber: refNumber,
		OwnReference:    ownRef,
		PhoneNumber:     phone,
		OperationID:     opID,
	}
}
