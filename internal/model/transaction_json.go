package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/DevTechCode/rachunek-bankowy/internal/description"
	"github.com/DevTechCode/rachunek-bankowy/internal/money"
)

// jsonTransaction is the export shape of a Transaction. The description is
// flattened to its raw text plus the normalized field map (a plain
// string-list mapping); monetary values serialize through money.Money's
// own marshaler.
type jsonTransaction struct {
	OperationDate     string              `json:"operationDate"`
	ValueDate         string              `json:"valueDate"`
	Type              string              `json:"type"`
	DescriptionRaw    string              `json:"descriptionRaw"`
	DescriptionFields map[string][]string `json:"descriptionFields"`
	Amount            money.Money         `json:"amount"`
	EndingBalance     money.Money         `json:"endingBalance"`
	Counterparty      *jsonCounterparty   `json:"counterparty,omitempty"`
	VatInfo           *jsonVatInfo        `json:"vatInfo,omitempty"`
	SplitPayment      bool                `json:"splitPayment"`
	LocationInfo      *LocationInfo       `json:"locationInfo,omitempty"`
	CardInfo          *jsonCardInfo       `json:"cardInfo,omitempty"`
	ReferenceInfo     *jsonReferenceInfo  `json:"referenceInfo,omitempty"`
	Category          Category            `json:"category"`
	DedupHash         string              `json:"dedupHash"`
}

type jsonCounterparty struct {
	Name        string `json:"name,omitempty"`
	Account     string `json:"account,omitempty"`
	ID          string `json:"id,omitempty"`
	Address     string `json:"address,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

type jsonVatInfo struct {
	VatAmount     *money.Money `json:"vatAmount,omitempty"`
	InvoiceNumber string       `json:"invoiceNumber,omitempty"`
	TaxForm       string       `json:"taxForm,omitempty"`
	PaymentPeriod string       `json:"paymentPeriod,omitempty"`
}

type jsonCardInfo struct {
	CardNumberMasked string       `json:"cardNumberMasked,omitempty"`
	OperationDate    string       `json:"operationDate,omitempty"`
	OriginalAmount   *money.Money `json:"originalAmount,omitempty"`
}

type jsonReferenceInfo struct {
	ReferenceNumber string `json:"referenceNumber,omitempty"`
	OwnReference    string `json:"ownReference,omitempty"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	OperationID     string `json:"operationId,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	out := jsonTransaction{
		OperationDate:     DateKey(t.OperationDate),
		ValueDate:         DateKey(t.ValueDate),
		Type:              t.Type,
		DescriptionRaw:    t.Description.Raw,
		DescriptionFields: t.Description.Fields(),
		Amount:            t.Amount,
		EndingBalance:     t.EndingBalance,
		SplitPayment:      t.SplitPayment,
		LocationInfo:      t.LocationInfo,
		Category:          t.Category,
		DedupHash:         t.DedupHash,
	}

	if c := t.Counterparty; c != nil {
		out.Counterparty = &jsonCounterparty{
			Name:        c.Name,
			Account:     c.Account,
			ID:          c.ID,
			Address:     c.Address,
			Fingerprint: c.Fingerprint,
		}
	}
	if v := t.VatInfo; v != nil {
		out.VatInfo = &jsonVatInfo{
			VatAmount:     v.VatAmount,
			InvoiceNumber: v.InvoiceNumber,
			TaxForm:       v.TaxForm,
			PaymentPeriod: v.PaymentPeriod,
		}
	}
	if c := t.CardInfo; c != nil {
		ci := &jsonCardInfo{
			CardNumberMasked: c.CardNumberMasked,
			OriginalAmount:   c.OriginalAmount,
		}
		if !c.OperationDate.IsZero() {
			ci.OperationDate = DateKey(c.OperationDate)
		}
		out.CardInfo = ci
	}
	if r := t.ReferenceInfo; r != nil {
		out.ReferenceInfo = &jsonReferenceInfo{
			ReferenceNumber: r.ReferenceNumber,
			OwnReference:    r.OwnReference,
			PhoneNumber:     r.PhoneNumber,
			OperationID:     r.OperationID,
		}
	}

	return json.Marshal(out)
}

var _ json.Marshaler = (*Transaction)(nil)

var jsonDescriptionParser = description.NewParser()

// UnmarshalJSON restores a Transaction from its export shape. The
// description field map is not read back; it is recomputed by parsing
// the raw text, which is the single source of truth. The stored dedup
// hash is kept as-is.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var in jsonTransaction
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	operationDate, err := time.Parse("2006-01-02", in.OperationDate)
	if err != nil {
		return fmt.Errorf("bad operationDate %q: %w", in.OperationDate, err)
	}
	valueDate, err := time.Parse("2006-01-02", in.ValueDate)
	if err != nil {
		return fmt.Errorf("bad valueDate %q: %w", in.ValueDate, err)
	}

	*t = Transaction{
		OperationDate: operationDate,
		ValueDate:     valueDate,
		Type:          in.Type,
		Description:   jsonDescriptionParser.Parse(in.DescriptionRaw),
		Amount:        in.Amount,
		EndingBalance: in.EndingBalance,
		SplitPayment:  in.SplitPayment,
		LocationInfo:  in.LocationInfo,
		Category:      in.Category,
		DedupHash:     in.DedupHash,
	}

	if c := in.Counterparty; c != nil {
		t.Counterparty = &Counterparty{
			Name:        c.Name,
			Account:     c.Account,
			ID:          c.ID,
			Address:     c.Address,
			Fingerprint: c.Fingerprint,
		}
	}
	if v := in.VatInfo; v != nil {
		t.VatInfo = &VatInfo{
			VatAmount:     v.VatAmount,
			InvoiceNumber: v.InvoiceNumber,
			TaxForm:       v.TaxForm,
			PaymentPeriod: v.PaymentPeriod,
		}
	}
	if c := in.CardInfo; c != nil {
		ci := &CardInfo{
			CardNumberMasked: c.CardNumberMasked,
			OriginalAmount:   c.OriginalAmount,
		}
		if c.OperationDate != "" {
			d, dateErr := time.Parse("2006-01-02", c.OperationDate)
			if dateErr != nil {
				return fmt.Errorf("bad cardInfo.operationDate %q: %w", c.OperationDate, dateErr)
			}
			ci.OperationDate = d
		}
		t.CardInfo = ci
	}
	if r := in.ReferenceInfo; r != nil {
		t.ReferenceInfo = &ReferenceInfo{
			ReferenceNumber: r.ReferenceNumber,
			OwnReference:    r.OwnReference,
			PhoneNumber:     r.PhoneNumber,
			OperationID:     r.OperationID,
		}
	}
	return nil
}

var _ json.Unmarshaler = (*Transaction)(nil)
