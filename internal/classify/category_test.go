package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DevTechCode/rachunek-bankowy/internal/description"
	"github.com/DevTechCode/rachunek-bankowy/internal/model"
)

func TestCategorize(t *testing.T) {
	parser := description.NewParser()

	tests := []struct {
		name        string
		txType      string
		amountMinor int64
		narration   string
		want        model.Category
	}{
		{
			name:        "tax transfer by type",
			txType:      "Przelew podatkowy",
			amountMinor: -10000,
			want:        model.CategoryTax,
		},
		{
			name:        "tax by formularz field",
			txType:      "Przelew z rachunku",
			amountMinor: -10000,
			narration:   "Symbol formularza : PIT-4",
			want:        model.CategoryTax,
		},
		{
			name:        "zus by type",
			txType:      "Przelew do ZUS",
			amountMinor: -10000,
			want:        model.CategoryZUS,
		},
		{
			name:        "zus by recipient name",
			txType:      "Przelew z rachunku",
			amountMinor: -10000,
			narration:   "Nazwa odbiorcy : ZUS 43000000",
			want:        model.CategoryZUS,
		},
		{
			name:        "card payment",
			txType:      "Płatność kartą",
			amountMinor: -10000,
			want:        model.CategoryCardPayment,
		},
		{
			name:        "terminal purchase",
			txType:      "Zakup w terminalu - kod PIN",
			amountMinor: -10000,
			want:        model.CategoryCardPayment,
		},
		{
			name:        "atm withdrawal",
			txType:      "Wypłata w bankomacie - kod mobilny",
			amountMinor: -10000,
			want:        model.CategoryCash,
		},
		{
			name:        "fee",
			txType:      "Opłata za prowadzenie rachunku",
			amountMinor: -1000,
			want:        model.CategoryFees,
		},
		{
			name:        "outgoing transfer",
			txType:      "Przelew z rachunku",
			amountMinor: -10000,
			want:        model.CategoryTransferOut,
		},
		{
			name:        "incoming transfer",
			txType:      "Przelew na rachunek",
			amountMinor: 10000,
			want:        model.CategoryTransferIn,
		},
		{
			name:        "unknown type",
			txType:      "Inna operacja",
			amountMinor: -10000,
			want:        model.CategoryOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := parser.Parse(tt.narration)
			assert.Equal(t, tt.want, Categorize(tt.txType, tt.amountMinor, desc))
		})
	}
}

// Rule order matters: a tax transfer to an entity whose name contains
// "zus" must stay TAX, because the tax rule is evaluated first.
func TestCategorizeRuleOrder(t *testing.T) {
	desc := description.NewParser().Parse("Symbol formularza : VAT-7 Nazwa odbiorcy : URZĄD ZUSOWSKI")
	assert.Equal(t, model.CategoryTax, Categorize("Przelew podatkowy", -10000, desc))
}
