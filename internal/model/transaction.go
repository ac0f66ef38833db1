package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/DevTechCode/rachunek-bankowy/internal/description"
	"github.com/DevTechCode/rachunek-bankowy/internal/money"
)

// Transaction is the aggregate record produced for one statement row.
//
// Base fields come straight from the export: operation date (order-date),
// value date (exec-date), raw type, parsed description, amount and the
// ending balance after the operation. The remaining fields are derived
// once at construction. Transactions are immutable; ordering is applied to
// batches, never encoded in the record itself.
type Transaction struct {
	OperationDate time.Time
	ValueDate     time.Time
	Type          string
	Description   *description.Parsed
	Amount        money.Money
	EndingBalance money.Money

	Counterparty  *Counterparty
	VatInfo       *VatInfo
	SplitPayment  bool
	LocationInfo  *LocationInfo
	CardInfo      *CardInfo
	ReferenceInfo *ReferenceInfo
	Category      Category

	DedupHash string
}

// Init carries everything needed to construct a Transaction.
type Init struct {
	OperationDate time.Time
	ValueDate     time.Time
	Type          string
	Description   *description.Parsed
	Amount        money.Money
	EndingBalance money.Money
	Counterparty  *Counterparty
	VatInfo       *VatInfo
	SplitPayment  bool
	LocationInfo  *LocationInfo
	CardInfo      *CardInfo
	ReferenceInfo *ReferenceInfo
	Category      Category
}

// NewTransaction builds an immutable transaction and computes its dedup
// hash.
func NewTransaction(init Init) *Transaction {
	t := &Transaction{
		OperationDate: init.OperationDate,
		ValueDate:     init.ValueDate,
		Type:          init.Type,
		Description:   init.Description,
		Amount:        init.Amount,
		EndingBalance: init.EndingBalance,
		Counterparty:  init.Counterparty,
		VatInfo:       init.VatInfo,
		SplitPayment:  init.SplitPayment,
		LocationInfo:  init.LocationInfo,
		CardInfo:      init.CardInfo,
		ReferenceInfo: init.ReferenceInfo,
		Category:      init.Category,
	}
	if t.Category == "" {
		t.Category = CategoryOther
	}
	t.DedupHash = computeDedupHash(t)
	return t
}

// IsIncome reports whether money came in.
func (t *Transaction) IsIncome() bool {
	return t.Amount.Minor() > 0
}

// IsExpense reports whether money went out.
func (t *Transaction) IsExpense() bool {
	return t.Amount.Minor() < 0
}

// computeDedupHash derives the transaction's business identity: operation
// day, exact amount with currency, counterparty fingerprint and reference
// identifiers. Two rows that differ only in description formatting noise
// collide, which is exactly what deduplication needs. Description text is
// deliberately excluded.
func computeDedupHash(t *Transaction) string {
	cp := ""
	if t.Counterparty != nil {
		cp = t.Counterparty.Fingerprint
	}

	var refs []string
	if r := t.ReferenceInfo; r != nil {
		for _, v := range []string{r.ReferenceNumber, r.OwnReference, r.OperationID} {
			if v != "" {
				refs = append(refs, v)
			}
		}
	}

	base := fmt.Sprintf("d=%s|a=%d|%s|cp=%s|ref=%s",
		DateKey(t.OperationDate),
		t.Amount.Minor(),
		t.Amount.Currency(),
		cp,
		strings.Join(refs, "|"))
	sum := sha256.Sum256([]byte(base))
	return fmt.Sprintf("%x", sum)[:24]
}

// DateKey formats a date as YYYY-MM-DD for hashing and grouping.
func DateKey(d time.Time) string {
	return d.Format("2006-01-02")
}

// MonthKey formats a date as YYYY-MM for report grouping.
func MonthKey(d time.Time) string {
	return d.Format("2006-01")
}
