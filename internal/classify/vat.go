// Package classify derives secondary structured facts from a parsed
// description: VAT details, split-payment, counterparty identity and the
// transaction category.
package classify

import (
	"regexp"
	"strings"

	"github.com/DevTechCode/rachunek-bankowy/internal/description"
	"github.com/DevTechCode/rachunek-bankowy/internal/model"
	"github.com/DevTechCode/rachunek-bankowy/internal/money"
)

var (
	// amountWithCurrency matches "2139,00 PLN", "126.95" etc. The trailing
	// currency code is optional; the statement currency is the fallback.
	amountWithCurrency = regexp.MustCompile(`^([+-]?[0-9\s.,]+)\s*([A-Z]{3})?$`)

	invoicePrefix   = regexp.MustCompile(`(?i)(^|[\s/])fv\b`)
	invoiceWord     = regexp.MustCompile(`(?i)faktura`)
	periodSlash     = regexp.MustCompile(`^\d{1,2}/\d{4}$`)
	periodShort     = regexp.MustCompile(`^\d{2}M\d{2}$`)
	slashDigits     = regexp.MustCompile(`\d+/\d+`)
	hasLetter       = regexp.MustCompile(`[A-Za-z]`)
	taxFormInTitle  = regexp.MustCompile(`(?i)\b(VAT-7|PIT-4)\b`)
	transferPattern = regexp.MustCompile(`(?i)przelew`)
)

// DetectVatInfo builds VAT facts from the transaction type and parsed
// description. It returns nil when none of the sub-fields resolve.
func DetectVatInfo(desc *description.Parsed, statementCurrency string) *model.VatInfo {
	vatAmount := extractVatAmount(desc, statementCurrency)
	invoiceNumber, periodFromInvoiceField := extractInvoiceOrPeriod(desc)
	taxForm := extractTaxForm(desc)

	paymentPeriod := strings.TrimSpace(desc.First("okres platnosci"))
	if paymentPeriod == "" {
		paymentPeriod = periodFromInvoiceField
	}

	vat := &model.VatInfo{
		VatAmount:     vatAmount,
		InvoiceNumber: invoiceNumber,
		TaxForm:       taxForm,
		PaymentPeriod: paymentPeriod,
	}
	if vat.IsEmpty() {
		return nil
	}
	return vat
}

// DetectSplitPayment reports whether the row looks like a Polish
// split-payment transfer: a VAT amount is present, the type is a transfer,
// and the money is going out. Three independently checkable booleans, not
// a score.
func DetectSplitPayment(txType string, amountMinor int64, vat *model.VatInfo) bool {
	if vat == nil || vat.VatAmount == nil {
		return false
	}
	return transferPattern.MatchString(txType) && amountMinor < 0
}

// extractVatAmount reads "Kwota VAT : 2139,00 PLN". A missing currency
// suffix falls back to the statement currency.
func extractVatAmount(desc *description.Parsed, statementCurrency string) *money.Money {
	raw := desc.First("kwota vat")
	if raw == "" {
		return nil
	}
	amount, ok := ParseAmountWithCurrency(raw, statementCurrency)
	if !ok {
		return nil
	}
	return &amount
}

// extractInvoiceOrPeriod disambiguates the "Numer faktury VAT lub okres
// płatności zbiorczej" field: it holds either an invoice number
// ("FV/16/2025") or a collective payment period ("12/2025", "25M10").
func extractInvoiceOrPeriod(desc *description.Parsed) (invoiceNumber, paymentPeriod string) {
	v := strings.TrimSpace(desc.First("numer faktury vat lub okres platnosci zbiorczej"))
	if v == "" {
		return "", ""
	}

	if invoicePrefix.MatchString(v) || invoiceWord.MatchString(v) {
		return v, ""
	}
	if periodSlash.MatchString(v) || periodShort.MatchString(v) {
		return "", v
	}
	// Letters or an embedded slash-with-digits usually means an invoice.
	if hasLetter.MatchString(v) || slashDigits.MatchString(v) {
		return v, ""
	}
	return "", ""
}

// extractTaxForm reads "Symbol formularza" directly, or falls back to
// scanning the title for the known form symbols.
func extractTaxForm(desc *description.Parsed) string {
	if form := strings.TrimSpace(desc.First("symbol formularza")); form != "" {
		return form
	}
	if title := desc.First("tytul"); title != "" {
		if m := taxFormInTitle.FindString(title); m != "" {
			return strings.ToUpper(m)
		}
	}
	return ""
}

// ParseAmountWithCurrency parses a "126,95 PLN" style string. The second
// return value is false when the text does not look like an amount at all.
func ParseAmountWithCurrency(raw, fallbackCurrency string) (money.Money, bool) {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return money.Money{}, false
	}
	m := amountWithCurrency.FindStringSubmatch(s)
	if m == nil {
		return money.Money{}, false
	}
	currency := m[2]
	if currency == "" {
		currency = fallbackCurrency
	}
	return money.Parse(m[1], currency), true
}
