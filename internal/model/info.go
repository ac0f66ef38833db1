package model

import (
	"time"

	"github.com/DevTechCode/rachunek-bankowy/internal/money"
)

// VatInfo carries VAT and tax-transfer facts detected in a description.
// A nil *VatInfo means no VAT signal at all; a non-nil value always has at
// least one populated field.
type VatInfo struct {
	VatAmount     *money.Money
	InvoiceNumber string
	TaxForm       string
	PaymentPeriod string
}

// IsEmpty reports whether no sub-field resolved.
func (v *VatInfo) IsEmpty() bool {
	return v == nil || (v.VatAmount == nil && v.InvoiceNumber == "" && v.TaxForm == "" && v.PaymentPeriod == "")
}

// CardInfo describes a card operation: the masked card number, the date
// the operation was executed and the original amount when the charge was
// made in a foreign currency.
type CardInfo struct {
	CardNumberMasked string
	OperationDate    time.Time
	OriginalAmount   *money.Money
}

// LocationInfo is the merchant location attached to card and terminal
// operations.
type LocationInfo struct {
	Address string
	City    string
	Country string
}

// ReferenceInfo groups the reference identifiers a row may carry.
type ReferenceInfo struct {
	ReferenceNumber string
	OwnReference    string
	PhoneNumber     string
	OperationID     string
}
