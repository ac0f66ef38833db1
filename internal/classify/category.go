package classify

import (
	"regexp"
	"strings"

	"github.com/DevTechCode/rachunek-bankowy/internal/description"
	"github.com/DevTechCode/rachunek-bankowy/internal/model"
)

// categoryRule matches one transaction shape. Rules are evaluated in
// order, first match wins; new rules are appended without touching
// earlier ones.
type categoryRule struct {
	name  string
	match func(typeText string, outgoing bool, desc *description.Parsed) (model.Category, bool)
}

var zusName = regexp.MustCompile(`(?i)zus`)

var categoryRules = []categoryRule{
	{
		name: "tax transfer",
		match: func(typeText string, _ bool, desc *description.Parsed) (model.Category, bool) {
			if strings.Contains(typeText, "przelew podatkowy") || desc.Has("symbol formularza") {
				return model.CategoryTax, true
			}
			return "", false
		},
	},
	{
		name: "zus contribution",
		match: func(typeText string, _ bool, desc *description.Parsed) (model.Category, bool) {
			if strings.Contains(typeText, "przelew do zus") || zusName.MatchString(desc.First("nazwa odbiorcy")) {
				return model.CategoryZUS, true
			}
			return "", false
		},
	},
	{
		name: "card or terminal payment",
		match: func(typeText string, _ bool, _ *description.Parsed) (model.Category, bool) {
			if strings.Contains(typeText, "płatność kartą") || strings.Contains(typeText, "zakup w terminalu") {
				return model.CategoryCardPayment, true
			}
			return "", false
		},
	},
	{
		name: "atm withdrawal",
		match: func(typeText string, _ bool, _ *description.Parsed) (model.Category, bool) {
			if strings.Contains(typeText, "wypłata w bankomacie") || strings.Contains(typeText, "wypłata z bankomatu") {
				return model.CategoryCash, true
			}
			return "", false
		},
	},
	{
		name: "fees",
		match: func(typeText string, _ bool, _ *description.Parsed) (model.Category, bool) {
			if strings.Contains(typeText, "opłata") || strings.Contains(typeText, "prowizja") {
				return model.CategoryFees, true
			}
			return "", false
		},
	},
	{
		name: "generic transfer",
		match: func(typeText string, outgoing bool, _ *description.Parsed) (model.Category, bool) {
			if strings.Contains(typeText, "przelew") {
				if outgoing {
					return model.CategoryTransferOut, true
				}
				return model.CategoryTransferIn, true
			}
			return "", false
		},
	},
}

// Categorize assigns a category from the bank's type text, the amount sign
// and selected description fields.
func Categorize(txType string, amountMinor int64, desc *description.Parsed) model.Category {
	typeText := strings.ToLower(txType)
	outgoing := amountMinor < 0

	for _, rule := range categoryRules {
		if cat, ok := rule.match(typeText, outgoing, desc); ok {
			return cat
		}
	}
	return model.CategoryOther
}
