package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevTechCode/rachunek-bankowy/internal/description"
)

func TestDetectVatInfoAmountAndInvoice(t *testing.T) {
	desc := description.NewParser().Parse(
		"Numer faktury VAT lub okres płatności zbiorczej : FV/16/2025 Kwota VAT : 2139,00 PLN")

	vat := DetectVatInfo(desc, "PLN")
	require.NotNil(t, vat)

	assert.Equal(t, "FV/16/2025", vat.InvoiceNumber)
	require.NotNil(t, vat.VatAmount)
	assert.Equal(t, "PLN", vat.VatAmount.Currency())
	assert.Equal(t, int64(213900), vat.VatAmount.Minor())
}

func TestDetectVatInfoFormAndPeriod(t *testing.T) {
	desc := description.NewParser().Parse("Symbol formularza : VAT-7 Okres płatności : 25M10")

	vat := DetectVatInfo(desc, "PLN")
	require.NotNil(t, vat)
	assert.Equal(t, "VAT-7", vat.TaxForm)
	assert.Equal(t, "25M10", vat.PaymentPeriod)
}

func TestDetectVatInfoPeriodFromInvoiceField(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		wantInvoice string
		wantPeriod  string
	}{
		{"fv prefix is invoice", "FV/16/2025", "FV/16/2025", ""},
		{"faktura word is invoice", "faktura 12", "faktura 12", ""},
		{"month slash year is period", "12/2025", "", "12/2025"},
		{"short period shape", "25M10", "", "25M10"},
		{"letters fall back to invoice", "ZAM-774", "ZAM-774", ""},
		{"embedded slash digits fall back to invoice", "16/2025/3", "16/2025/3", ""},
		{"bare digits resolve to nothing", "774430", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := description.NewParser().Parse(
				"Numer faktury VAT lub okres płatności zbiorczej : " + tt.value)
			vat := DetectVatInfo(desc, "PLN")
			if tt.wantInvoice == "" && tt.wantPeriod == "" {
				assert.Nil(t, vat)
				return
			}
			require.NotNil(t, vat)
			assert.Equal(t, tt.wantInvoice, vat.InvoiceNumber)
			assert.Equal(t, tt.wantPeriod, vat.PaymentPeriod)
		})
	}
}

func TestDetectVatInfoTaxFormFromTitle(t *testing.T) {
	desc := description.NewParser().Parse("Tytuł : N 7773444530 25M10 VAT-7")

	vat := DetectVatInfo(desc, "PLN")
	require.NotNil(t, vat)
	assert.Equal(t, "VAT-7", vat.TaxForm)
}

func TestDetectVatInfoAbsent(t *testing.T) {
	desc := description.NewParser().Parse("Tytuł : zwykły przelew")
	assert.Nil(t, DetectVatInfo(desc, "PLN"))
}

func TestDetectVatInfoCurrencyFallback(t *testing.T) {
	desc := description.NewParser().Parse("Kwota VAT : 261,05")

	vat := DetectVatInfo(desc, "EUR")
	require.NotNil(t, vat)
	require.NotNil(t, vat.VatAmount)
	assert.Equal(t, "EUR", vat.VatAmount.Currency())
	assert.Equal(t, int64(26105), vat.VatAmount.Minor())
}

func TestDetectSplitPayment(t *testing.T) {
	desc := description.NewParser().Parse("Kwota VAT : 261,05 PLN")
	vat := DetectVatInfo(desc, "PLN")
	require.NotNil(t, vat)

	tests := []struct {
		name        string
		txType      string
		amountMinor int64
		want        bool
	}{
		{"outgoing transfer with vat", "Przelew z rachunku", -100000, true},
		{"incoming transfer with vat", "Przelew na rachunek", 100000, false},
		{"outgoing card payment with vat", "Płatność kartą", -100000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSplitPayment(tt.txType, tt.amountMinor, vat))
		})
	}

	// No VAT amount, no split payment.
	assert.False(t, DetectSplitPayment("Przelew z rachunku", -100000, nil))
	noAmount := DetectVatInfo(description.NewParser().Parse("Symbol formularza : VAT-7"), "PLN")
	require.NotNil(t, noAmount)
	assert.False(t, DetectSplitPayment("Przelew z rachunku", -100000, noAmount))
}
